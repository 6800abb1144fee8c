package llm

import (
	"context"
	"errors"
	"net/http"

	anthropic "github.com/liushuangls/go-anthropic/v2"
	"go.uber.org/zap"
)

// AnthropicClient implements Client on the Anthropic Messages API.
type AnthropicClient struct {
	client *anthropic.Client
	config Config
	logger *zap.Logger
}

var _ Client = (*AnthropicClient)(nil)

// NewAnthropicClient creates an Anthropic-backed client.
func NewAnthropicClient(cfg Config, logger *zap.Logger) *AnthropicClient {
	var opts []anthropic.ClientOption
	if cfg.Endpoint != "" {
		opts = append(opts, anthropic.WithBaseURL(cfg.Endpoint))
	}
	return &AnthropicClient{
		client: anthropic.NewClient(cfg.APIKey, opts...),
		config: cfg,
		logger: logger.Named("llm.anthropic"),
	}
}

func (c *AnthropicClient) Complete(ctx context.Context, systemMessage, prompt string) (string, error) {
	temperature := float32(c.config.Temperature)
	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:       anthropic.Model(c.config.Model),
		System:      systemMessage,
		MaxTokens:   c.config.MaxTokens,
		Temperature: &temperature,
		Messages: []anthropic.Message{
			anthropic.NewUserTextMessage(prompt),
		},
	})
	if err != nil {
		return "", c.wrapError(err)
	}
	if len(resp.Content) == 0 {
		return "", &Error{Provider: c.Provider(), Model: c.config.Model, Message: "empty completion"}
	}
	return resp.Content[0].GetText(), nil
}

func (c *AnthropicClient) Model() string    { return c.config.Model }
func (c *AnthropicClient) Provider() string { return "anthropic" }

func (c *AnthropicClient) wrapError(err error) error {
	retryable := false
	var apiErr *anthropic.APIError
	if errors.As(err, &apiErr) {
		retryable = apiErr.IsRateLimitErr() || apiErr.IsOverloadedErr()
	}
	var reqErr *anthropic.RequestError
	if errors.As(err, &reqErr) {
		retryable = retryable || reqErr.StatusCode >= http.StatusInternalServerError
	}
	c.logger.Warn("completion failed", zap.Error(err), zap.Bool("retryable", retryable))
	return &Error{
		Provider:  c.Provider(),
		Model:     c.config.Model,
		Message:   "messages request failed",
		Retryable: retryable,
		Cause:     err,
	}
}
