package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir    string `toml:"data_dir"`
	LogDir     string `toml:"log_dir"`
	InboxDir   string `toml:"inbox_dir"`
	SyllabiDir string `toml:"syllabi_dir"`
}

// Embedding contains configuration for the sentence-embedding service.
type Embedding struct {
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	MaxInputChars  int    `toml:"max_input_chars"`
}

// Lemmatizer contains configuration for the Spanish lemmatization model.
type Lemmatizer struct {
	Enabled        bool   `toml:"enabled"`
	DictionaryPath string `toml:"dictionary_path"`
	MaxInputChars  int    `toml:"max_input_chars"`
}

// Matcher contains the equivalence-grouping thresholds. The defaults were
// tuned empirically against UNSA syllabi; treat them as knobs, not constants.
type Matcher struct {
	SemanticHighBar     float64 `toml:"semantic_high_bar"`
	LexicalConfirmBar   float64 `toml:"lexical_confirm_bar"`
	SemanticVeryHighBar float64 `toml:"semantic_very_high_bar"`
	LexicalWeakBar      float64 `toml:"lexical_weak_bar"`
	AssignmentThreshold float64 `toml:"assignment_threshold"`
	SemanticWeight      float64 `toml:"semantic_weight"`
	LexicalWeight       float64 `toml:"lexical_weight"`
}

// Storage contains configuration for remote syllabus retrieval over SFTP.
type Storage struct {
	Enabled        bool   `toml:"enabled"`
	Host           string `toml:"host"`
	Port           int    `toml:"port"`
	User           string `toml:"user"`
	KeyPath        string `toml:"key_path"`
	KnownHostsPath string `toml:"known_hosts_path"`
	RemoteDir      string `toml:"remote_dir"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Workflow contains configuration for daemon timing and retries.
type Workflow struct {
	QueuePollInterval  int `toml:"queue_poll_interval"`
	ErrorRetryInterval int `toml:"error_retry_interval"`
	MaxRetries         int `toml:"max_retries"`
	RetryBackoffBase   int `toml:"retry_backoff_base"`
}

// Watcher contains configuration for the inbox directory monitor.
type Watcher struct {
	Enabled       bool `toml:"enabled"`
	SettleSeconds int  `toml:"settle_seconds"`
}

// Maintenance contains the scheduled housekeeping configuration.
type Maintenance struct {
	Schedule         string `toml:"schedule"`
	LogRetentionDays int    `toml:"log_retention_days"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for silabo.
//
// Configuration sections by subsystem:
//   - Paths: data, log, inbox, and syllabus directories
//   - Embedding: sentence-embedding service endpoint and model
//   - Lemmatizer: Spanish lemma dictionary location
//   - Matcher: hybrid similarity thresholds and weights
//   - Storage: optional SFTP source for remotely stored syllabi
//   - Workflow: daemon polling intervals and retry policy
//   - Watcher: inbox directory monitoring
//   - Maintenance: scheduled housekeeping (log retention)
//   - Logging: log format and level
type Config struct {
	Paths       Paths       `toml:"paths"`
	Embedding   Embedding   `toml:"embedding"`
	Lemmatizer  Lemmatizer  `toml:"lemmatizer"`
	Matcher     Matcher     `toml:"matcher"`
	Storage     Storage     `toml:"storage"`
	Workflow    Workflow    `toml:"workflow"`
	Watcher     Watcher     `toml:"watcher"`
	Maintenance Maintenance `toml:"maintenance"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/silabo/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath("~/.config/silabo/config.toml")
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("silabo.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for daemon operation.
// The inbox directory is created on a best-effort basis so the daemon can
// run when the watcher mount is temporarily unavailable.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir, c.Paths.SyllabiDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Paths.InboxDir) != "" {
		_ = os.MkdirAll(c.Paths.InboxDir, 0o755)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
