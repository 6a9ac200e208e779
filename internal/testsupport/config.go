package testsupport

import (
	"path/filepath"
	"testing"

	"silabo/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.InboxDir = filepath.Join(base, "inbox")
	cfg.Paths.SyllabiDir = filepath.Join(base, "syllabi")
	cfg.Embedding.BaseURL = "http://127.0.0.1:1"
	cfg.Watcher.Enabled = false

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithEmbeddingEndpoint points the test config at an embedding server.
func WithEmbeddingEndpoint(baseURL string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Embedding.BaseURL = baseURL
	}
}

// WithLemmatizerDisabled turns lexical analysis off for the test.
func WithLemmatizerDisabled() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Lemmatizer.Enabled = false
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
