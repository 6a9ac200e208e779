// Command silabod runs the syllabus analysis daemon: it watches the inbox,
// drives the extraction and matching stages, and performs scheduled
// maintenance until interrupted.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"silabo/internal/config"
	"silabo/internal/daemon"
	"silabo/internal/logging"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, path, exists, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	if !exists {
		logger.Warn("config file not found, using defaults", logging.String("path", path))
	}

	d, err := daemon.New(cfg, logger)
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		return
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("start daemon", logging.Error(err))
		return
	}

	<-ctx.Done()
	logger.Info("silabod shutting down")
	d.Stop()
}
