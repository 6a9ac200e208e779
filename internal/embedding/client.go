package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"silabo/internal/config"
	"silabo/internal/logging"
	"silabo/internal/services"
)

const defaultMaxInputRunes = 2000

var whitespacePattern = regexp.MustCompile(`\s+`)

// Client talks to an Ollama-compatible embeddings endpoint. The endpoint
// is probed on first use; a failed probe disables the client for the rest
// of the process lifetime.
type Client struct {
	baseURL  string
	model    string
	maxRunes int
	http     *http.Client
	logger   *slog.Logger

	probeOnce sync.Once
	probeErr  error
}

// NewClient builds an embedding client from configuration.
func NewClient(cfg config.Embedding, logger *slog.Logger) *Client {
	if logger == nil {
		logger = logging.NewNop()
	}
	maxRunes := cfg.MaxInputChars
	if maxRunes <= 0 {
		maxRunes = defaultMaxInputRunes
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		model:    cfg.Model,
		maxRunes: maxRunes,
		http:     &http.Client{Timeout: timeout},
		logger:   logging.NewComponentLogger(logger, "embedding"),
	}
}

// Available reports whether the embedding endpoint answered the one-time
// probe. Unavailable is a degraded mode, not an error.
func (c *Client) Available(ctx context.Context) bool {
	c.probe(ctx)
	return c.probeErr == nil
}

func (c *Client) probe(ctx context.Context) {
	c.probeOnce.Do(func() {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
		if err != nil {
			c.probeErr = err
			return
		}
		resp, err := c.http.Do(req)
		if err != nil {
			c.probeErr = err
			c.logger.Warn("embedding endpoint unreachable, continuing without embeddings",
				logging.String("base_url", c.baseURL), logging.Error(err))
			return
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)
		if resp.StatusCode != http.StatusOK {
			c.probeErr = fmt.Errorf("embedding endpoint probe: status %d", resp.StatusCode)
			c.logger.Warn("embedding endpoint probe failed, continuing without embeddings",
				logging.String("base_url", c.baseURL), logging.Int("status", resp.StatusCode))
			return
		}
		c.logger.Info("embedding endpoint ready",
			logging.String("base_url", c.baseURL), logging.String("model", c.model))
	})
}

// Preprocess normalizes text for embedding: lowercase, newlines to spaces,
// runs of whitespace collapsed, then capped at the configured rune limit.
func (c *Client) Preprocess(text string) string {
	t := strings.ReplaceAll(strings.ToLower(text), "\n", " ")
	t = strings.TrimSpace(whitespacePattern.ReplaceAllString(t, " "))
	if runes := []rune(t); len(runes) > c.maxRunes {
		t = string(runes[:c.maxRunes])
	}
	return t
}

type embedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embedResponse struct {
	Embedding []float64 `json:"embedding"`
}

// Embed returns the embedding vector for text. Empty input or an
// unavailable endpoint yields a nil vector and no error; transport and
// server failures are wrapped as transient so callers can retry.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	prepared := c.Preprocess(text)
	if prepared == "" || !c.Available(ctx) {
		return nil, nil
	}

	payload, err := json.Marshal(embedRequest{Model: c.model, Prompt: prepared})
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "embedding", "marshal request", "failed to encode embedding request", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/embeddings", bytes.NewReader(payload))
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "embedding", "build request", "failed to build embedding request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "embedding", "call endpoint", "embedding endpoint did not respond", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		err := fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		return nil, services.Wrap(services.ErrTransient, "embedding", "call endpoint", "embedding endpoint returned an error", err)
	}

	var decoded embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "embedding", "decode response", "failed to decode embedding response", err)
	}
	if len(decoded.Embedding) == 0 {
		return nil, services.Wrap(services.ErrExternalTool, "embedding", "decode response", "embedding endpoint returned an empty vector", nil)
	}
	return decoded.Embedding, nil
}
