package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/liushuangls/go-anthropic/v2"
	"go.uber.org/zap"

	"github.com/leadscope/leadscope-engine/pkg/config"
	"github.com/leadscope/leadscope-engine/pkg/retry"
)

// AnthropicClient wraps the Anthropic Messages API behind the same
// LLMClient contract as the OpenAI client.
type AnthropicClient struct {
	client    *anthropic.Client
	model     string
	maxTokens int
	logger    *zap.Logger
	retryCfg  *retry.Config
	pace      *pacer
}

// NewAnthropicClient creates a new Anthropic LLM client.
func NewAnthropicClient(cfg config.LLMConfig, logger *zap.Logger) *AnthropicClient {
	return &AnthropicClient{
		client:    anthropic.NewClient(cfg.APIKey),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		logger:    logger.Named("llm"),
		retryCfg:  retry.DefaultConfig(),
		pace:      newPacer(requestDelay),
	}
}

// GenerateResponse generates a message completion with retry on transient
// failures.
func (c *AnthropicClient) GenerateResponse(ctx context.Context, prompt string, systemMessage string, temperature float64) (string, error) {
	temp := float32(temperature)
	req := anthropic.MessagesRequest{
		Model: anthropic.Model(c.model),
		Messages: []anthropic.Message{
			anthropic.NewUserTextMessage(prompt),
		},
		MaxTokens:   c.maxTokens,
		Temperature: &temp,
	}
	if systemMessage != "" {
		req.System = systemMessage
	}

	if err := c.pace.wait(ctx); err != nil {
		return "", err
	}

	start := time.Now()
	resp, err := retry.DoWithResult(ctx, c.retryCfg, func() (anthropic.MessagesResponse, error) {
		resp, err := c.client.CreateMessages(ctx, req)
		if err != nil {
			classified := ClassifyError(err)
			c.logger.Warn("message completion attempt failed",
				zap.String("model", c.model),
				zap.String("error_type", string(classified.Type)),
				zap.Bool("retryable", classified.Retryable),
			)
			return resp, classified
		}
		return resp, nil
	})
	if err != nil {
		return "", fmt.Errorf("message completion failed: %w", err)
	}

	if len(resp.Content) == 0 {
		return "", NewError(ErrorTypeServer, "response contained no content", true, nil)
	}

	c.logger.Debug("message completion succeeded",
		zap.String("model", c.model),
		zap.Duration("duration", time.Since(start)),
	)

	return resp.GetFirstContentText(), nil
}

// GetModel returns the configured model name.
func (c *AnthropicClient) GetModel() string {
	return c.model
}

// GetEndpoint returns the Anthropic API endpoint.
func (c *AnthropicClient) GetEndpoint() string {
	return "https://api.anthropic.com"
}
