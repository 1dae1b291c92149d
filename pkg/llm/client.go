package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/leadscope/leadscope-engine/pkg/config"
	"github.com/leadscope/leadscope-engine/pkg/retry"
)

// Client wraps an OpenAI-compatible chat-completion endpoint.
type Client struct {
	client    *openai.Client
	endpoint  string
	model     string
	maxTokens int
	logger    *zap.Logger
	retryCfg  *retry.Config
	pace      *pacer
}

// NewClient creates a new OpenAI-compatible LLM client.
func NewClient(cfg config.LLMConfig, logger *zap.Logger) *Client {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = cfg.Endpoint
	}
	clientConfig.HTTPClient = &http.Client{Timeout: 120 * time.Second}

	return &Client{
		client:    openai.NewClientWithConfig(clientConfig),
		endpoint:  cfg.Endpoint,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		logger:    logger.Named("llm"),
		retryCfg:  retry.DefaultConfig(),
		pace:      newPacer(requestDelay),
	}
}

// GenerateResponse generates a chat completion with retry on transient
// failures. Non-retryable failures (auth, unknown model) return immediately.
func (c *Client) GenerateResponse(ctx context.Context, prompt string, systemMessage string, temperature float64) (string, error) {
	var messages []openai.ChatCompletionMessage
	if systemMessage != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemMessage,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: float32(temperature),
		MaxTokens:   c.maxTokens,
	}

	if err := c.pace.wait(ctx); err != nil {
		return "", err
	}

	start := time.Now()
	resp, err := retry.DoWithResult(ctx, c.retryCfg, func() (openai.ChatCompletionResponse, error) {
		resp, err := c.client.CreateChatCompletion(ctx, req)
		if err != nil {
			classified := ClassifyError(err)
			c.logger.Warn("chat completion attempt failed",
				zap.String("model", c.model),
				zap.String("error_type", string(classified.Type)),
				zap.Bool("retryable", classified.Retryable),
			)
			return resp, classified
		}
		return resp, nil
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", NewError(ErrorTypeServer, "response contained no choices", true, nil)
	}

	c.logger.Debug("chat completion succeeded",
		zap.String("model", c.model),
		zap.Duration("duration", time.Since(start)),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
	)

	return resp.Choices[0].Message.Content, nil
}

// GetModel returns the configured model name.
func (c *Client) GetModel() string {
	return c.model
}

// GetEndpoint returns the configured endpoint.
func (c *Client) GetEndpoint() string {
	return c.endpoint
}
