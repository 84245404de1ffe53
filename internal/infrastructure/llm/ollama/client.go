// Package ollama implements llm.CompletionClient against an Ollama-compatible
// HTTP endpoint (/api/generate). JSON completions run at temperature 0.1 with
// format=json so extraction and classification stay near-deterministic; text
// completions run at 0.3 for the advisory prose. The temperatures are not
// configurable per call.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/farmchain/soiladvisor/internal/infrastructure/llm"
	"github.com/farmchain/soiladvisor/internal/infrastructure/monitoring/logging"
	"github.com/farmchain/soiladvisor/pkg/errors"
)

const (
	temperatureJSON = 0.1
	temperatureText = 0.3
)

// Config holds connection parameters for the completion service.
type Config struct {
	// BaseURL of the Ollama server, e.g. "http://localhost:11434".
	BaseURL string `mapstructure:"base_url" json:"base_url"`

	// Model name, e.g. "llama3.2".
	Model string `mapstructure:"model" json:"model"`

	// Timeout bounds each HTTP call. AI latency dominates the pipeline, so
	// this is enforced here rather than left to client defaults.
	Timeout time.Duration `mapstructure:"timeout" json:"timeout"`

	// MaxRetries is the number of fresh attempts per completion after the
	// first failure. Each retry is a stateless new request.
	MaxRetries int `mapstructure:"max_retries" json:"max_retries"`
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL:    "http://localhost:11434",
		Model:      "llama3.2",
		Timeout:    60 * time.Second,
		MaxRetries: 2,
	}
}

// CallRecorder receives per-call telemetry. The prometheus collector
// satisfies it; a nil recorder disables telemetry.
type CallRecorder interface {
	RecordLLMCall(operation string, success bool, duration time.Duration)
}

// Client is the HTTP implementation of llm.CompletionClient.
type Client struct {
	cfg      Config
	http     *http.Client
	logger   logging.Logger
	recorder CallRecorder
}

var _ llm.CompletionClient = (*Client)(nil)

// New constructs a Client. logger must be non-nil; recorder may be nil.
func New(cfg Config, logger logging.Logger, recorder CallRecorder) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultConfig().BaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultConfig().Model
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &Client{
		cfg:      cfg,
		http:     &http.Client{Timeout: cfg.Timeout},
		logger:   logger.Named("ollama"),
		recorder: recorder,
	}
}

// generateRequest is the Ollama /api/generate request body.
type generateRequest struct {
	Model   string                 `json:"model"`
	Prompt  string                 `json:"prompt"`
	Stream  bool                   `json:"stream"`
	Format  string                 `json:"format,omitempty"`
	Options map[string]interface{} `json:"options,omitempty"`
}

// generateResponse is the subset of the Ollama response the client reads.
type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// CompleteText implements llm.CompletionClient.
func (c *Client) CompleteText(ctx context.Context, prompt string) (string, error) {
	return c.complete(ctx, "text", prompt, temperatureText, "")
}

// CompleteJSON implements llm.CompletionClient.
func (c *Client) CompleteJSON(ctx context.Context, prompt string) (map[string]interface{}, error) {
	raw, err := c.complete(ctx, "json", prompt, temperatureJSON, "json")
	if err != nil {
		return nil, err
	}
	return llm.ParseObject(raw)
}

// complete performs the HTTP call with bounded retries. Every attempt is a
// fresh stateless request; nothing is cached between attempts.
func (c *Client) complete(ctx context.Context, operation, prompt string, temperature float64, format string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		start := time.Now()
		out, err := c.generate(ctx, prompt, temperature, format)
		elapsed := time.Since(start)

		if c.recorder != nil {
			c.recorder.RecordLLMCall(operation, err == nil, elapsed)
		}
		if err == nil {
			return out, nil
		}
		lastErr = err
		c.logger.Warn("completion attempt failed",
			logging.String("operation", operation),
			logging.Int("attempt", attempt+1),
			logging.Duration("elapsed", elapsed),
			logging.Err(err))

		if ctx.Err() != nil {
			return "", errors.Wrap(ctx.Err(), errors.CodeLLMTimeout, "completion cancelled")
		}
	}
	return "", errors.Wrap(lastErr, errors.CodeLLMUnavailable,
		fmt.Sprintf("completion failed after %d attempts", c.cfg.MaxRetries+1))
}

func (c *Client) generate(ctx context.Context, prompt string, temperature float64, format string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:   c.cfg.Model,
		Prompt:  prompt,
		Stream:  false,
		Format:  format,
		Options: map[string]interface{}{"temperature": temperature},
	})
	if err != nil {
		return "", errors.Wrap(err, errors.CodeSerialization, "encode generate request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, errors.CodeInternal, "build generate request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeLLMUnavailable, "completion service unreachable")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", errors.Wrap(err, errors.CodeLLMUnavailable, "read completion response")
	}
	if resp.StatusCode != http.StatusOK {
		return "", errors.Newf(errors.CodeLLMUnavailable,
			"completion service returned %d", resp.StatusCode).WithDetail(string(data))
	}

	var gr generateResponse
	if err := json.Unmarshal(data, &gr); err != nil {
		return "", errors.Wrap(err, errors.CodeLLMMalformedJSON, "decode generate response")
	}
	return gr.Response, nil
}
