package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeLemmatizer(); err != nil {
		return err
	}
	if err := c.normalizeStorage(); err != nil {
		return err
	}
	c.normalizeEmbedding()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.InboxDir, err = expandPath(c.Paths.InboxDir); err != nil {
		return fmt.Errorf("paths.inbox_dir: %w", err)
	}
	if c.Paths.SyllabiDir, err = expandPath(c.Paths.SyllabiDir); err != nil {
		return fmt.Errorf("paths.syllabi_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLemmatizer() error {
	if c.Lemmatizer.MaxInputChars <= 0 {
		c.Lemmatizer.MaxInputChars = defaultLemmatizerMaxLen
	}
	path := strings.TrimSpace(c.Lemmatizer.DictionaryPath)
	if path == "" {
		return nil
	}
	expanded, err := expandPath(path)
	if err != nil {
		return fmt.Errorf("lemmatizer.dictionary_path: %w", err)
	}
	c.Lemmatizer.DictionaryPath = expanded
	return nil
}

func (c *Config) normalizeStorage() error {
	c.Storage.Host = strings.TrimSpace(c.Storage.Host)
	c.Storage.User = strings.TrimSpace(c.Storage.User)
	c.Storage.RemoteDir = strings.TrimSpace(c.Storage.RemoteDir)
	if c.Storage.Port == 0 {
		c.Storage.Port = defaultStoragePort
	}
	path := strings.TrimSpace(c.Storage.KeyPath)
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return fmt.Errorf("storage.key_path: %w", err)
		}
		c.Storage.KeyPath = expanded
	}
	hosts := strings.TrimSpace(c.Storage.KnownHostsPath)
	if hosts != "" {
		expanded, err := expandPath(hosts)
		if err != nil {
			return fmt.Errorf("storage.known_hosts_path: %w", err)
		}
		c.Storage.KnownHostsPath = expanded
	}
	return nil
}

func (c *Config) normalizeEmbedding() {
	c.Embedding.BaseURL = strings.TrimRight(strings.TrimSpace(c.Embedding.BaseURL), "/")
	if c.Embedding.BaseURL == "" {
		c.Embedding.BaseURL = defaultEmbeddingBaseURL
	}
	c.Embedding.Model = strings.TrimSpace(c.Embedding.Model)
	if c.Embedding.Model == "" {
		c.Embedding.Model = defaultEmbeddingModel
	}
	if c.Embedding.MaxInputChars <= 0 {
		c.Embedding.MaxInputChars = defaultEmbeddingMaxLen
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
