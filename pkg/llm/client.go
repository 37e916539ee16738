// Package llm provides the OpenAI-compatible SQL generation client.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/askql-io/askql-engine/pkg/logging"
)

// FallbackSQL is the deterministic, always-safe statement returned when no
// backend is configured. It keeps the pipeline testable and lets the
// service degrade gracefully instead of failing hard.
const FallbackSQL = "SELECT 1 AS id;"

// Config holds configuration for creating a generation client. It is
// constructed once at startup and passed in explicitly; the client never
// reads ambient environment state.
type Config struct {
	Endpoint    string        // Base URL, e.g. "https://api.openai.com/v1"; empty means unconfigured
	APIKey      string        // Secret; empty means unconfigured
	Model       string        // Model name, e.g. "gpt-4o-mini"
	Temperature float64       // Sampling temperature for SQL generation
	MaxTokens   int           // Response budget
	Timeout     time.Duration // Per-call deadline
}

// Client generates SQL through an OpenAI-compatible chat completion
// endpoint, or deterministically when unconfigured.
type Client struct {
	client      *openai.Client
	endpoint    string
	model       string
	temperature float64
	maxTokens   int
	timeout     time.Duration
	logger      *zap.Logger
}

// NewClient creates a new generation client. A missing endpoint or API key
// is not an error: the client runs in deterministic fallback mode.
func NewClient(cfg *Config, logger *zap.Logger) *Client {
	c := &Client{
		endpoint:    cfg.Endpoint,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     cfg.Timeout,
		logger:      logger.Named("llm"),
	}

	if c.model == "" {
		c.model = "gpt-4o-mini"
	}
	if c.maxTokens == 0 {
		c.maxTokens = 400
	}
	if c.timeout == 0 {
		c.timeout = 30 * time.Second
	}

	if cfg.Endpoint != "" && cfg.APIKey != "" {
		clientConfig := openai.DefaultConfig(cfg.APIKey)
		clientConfig.BaseURL = strings.TrimSuffix(cfg.Endpoint, "/")
		c.client = openai.NewClientWithConfig(clientConfig)
	}

	return c
}

// Configured reports whether a real backend is wired in.
func (c *Client) Configured() bool {
	return c.client != nil
}

// GenerateSQL asks the backend for a single SQL statement grounded in the
// caller's schema. Unconfigured clients return the deterministic fallback.
// Backend and transport failures surface as OutcomeBackendError - SQL is
// never silently substituted on failure.
func (c *Client) GenerateSQL(ctx context.Context, prompt, schema string) GenerationResult {
	if !c.Configured() {
		return Generated(FallbackSQL)
	}

	systemInstruction, userContent := BuildSQLPrompt(prompt, schema)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	c.logger.Debug("generation request",
		zap.String("model", c.model),
		zap.Int("prompt_len", len(userContent)),
		zap.Float64("temperature", c.temperature))

	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemInstruction},
			{Role: openai.ChatMessageRoleUser, Content: userContent},
		},
		Temperature: float32(c.temperature),
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		classified := ClassifyError(err)
		c.logger.Error("generation request failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.String("error_type", string(classified.Type)),
			zap.Bool("retryable", classified.Retryable),
			zap.String("error", logging.SanitizeError(err)))
		return BackendError(classified)
	}

	if len(resp.Choices) == 0 {
		return BackendError(fmt.Errorf("no choices in response"))
	}

	c.logger.Info("generation request completed",
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Duration("elapsed", time.Since(start)))

	return ParseResponse(resp.Choices[0].Message.Content)
}

// GetModel returns the configured model name.
func (c *Client) GetModel() string {
	return c.model
}

// GetEndpoint returns the configured endpoint.
func (c *Client) GetEndpoint() string {
	return c.endpoint
}
