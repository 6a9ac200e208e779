package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateMatcher(); err != nil {
		return err
	}
	if err := c.validateEmbedding(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateMaintenance(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateMatcher() error {
	bars := map[string]float64{
		"matcher.semantic_high_bar":      c.Matcher.SemanticHighBar,
		"matcher.lexical_confirm_bar":    c.Matcher.LexicalConfirmBar,
		"matcher.semantic_very_high_bar": c.Matcher.SemanticVeryHighBar,
		"matcher.lexical_weak_bar":       c.Matcher.LexicalWeakBar,
		"matcher.assignment_threshold":   c.Matcher.AssignmentThreshold,
	}
	for key, value := range bars {
		if value < 0 || value > 1 {
			return fmt.Errorf("%s must be between 0 and 1", key)
		}
	}
	if c.Matcher.SemanticWeight < 0 || c.Matcher.LexicalWeight < 0 {
		return errors.New("matcher weights must be non-negative")
	}
	if c.Matcher.SemanticWeight+c.Matcher.LexicalWeight == 0 {
		return errors.New("matcher weights must not both be zero")
	}
	if c.Matcher.SemanticVeryHighBar < c.Matcher.SemanticHighBar {
		return errors.New("matcher.semantic_very_high_bar must be at least matcher.semantic_high_bar")
	}
	return nil
}

func (c *Config) validateEmbedding() error {
	if strings.TrimSpace(c.Embedding.BaseURL) == "" {
		return errors.New("embedding.base_url must be set")
	}
	if c.Embedding.TimeoutSeconds <= 0 {
		return errors.New("embedding.timeout_seconds must be positive")
	}
	if c.Embedding.MaxInputChars <= 0 {
		return errors.New("embedding.max_input_chars must be positive")
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	if err := ensurePositiveMap(map[string]int{
		"workflow.queue_poll_interval":  c.Workflow.QueuePollInterval,
		"workflow.error_retry_interval": c.Workflow.ErrorRetryInterval,
		"workflow.retry_backoff_base":   c.Workflow.RetryBackoffBase,
	}); err != nil {
		return err
	}
	if c.Workflow.MaxRetries < 0 {
		return errors.New("workflow.max_retries must be >= 0")
	}
	return nil
}

func (c *Config) validateStorage() error {
	if !c.Storage.Enabled {
		return nil
	}
	if c.Storage.Host == "" {
		return errors.New("storage.host must be set when storage.enabled is true")
	}
	if c.Storage.User == "" {
		return errors.New("storage.user must be set when storage.enabled is true")
	}
	if strings.TrimSpace(c.Storage.KeyPath) == "" {
		return errors.New("storage.key_path must be set when storage.enabled is true")
	}
	if c.Storage.TimeoutSeconds <= 0 {
		return errors.New("storage.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateMaintenance() error {
	if strings.TrimSpace(c.Maintenance.Schedule) == "" {
		return errors.New("maintenance.schedule must be set")
	}
	if c.Maintenance.LogRetentionDays < 0 {
		return errors.New("maintenance.log_retention_days must be >= 0")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
