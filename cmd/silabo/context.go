package main

import (
	"strings"
	"sync"

	"silabo/internal/config"
	"silabo/internal/daemon"
	"silabo/internal/logging"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// withDaemon runs fn against a short-lived daemon handle. The handle opens
// the stores directly; it never starts background processing or takes the
// instance lock, so it is safe to use while silabod runs.
func (c *commandContext) withDaemon(fn func(*daemon.Daemon) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	d, err := daemon.New(cfg, logging.NewNop())
	if err != nil {
		return err
	}
	defer d.Close()
	return fn(d)
}
