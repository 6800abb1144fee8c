package llm

import (
	"context"
	"errors"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIClient implements Client on the OpenAI chat completion API. It also
// serves OpenAI-compatible gateways via the Endpoint override.
type OpenAIClient struct {
	client *openai.Client
	config Config
	logger *zap.Logger
}

var _ Client = (*OpenAIClient)(nil)

// NewOpenAIClient creates an OpenAI-backed client.
func NewOpenAIClient(cfg Config, logger *zap.Logger) *OpenAIClient {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = cfg.Endpoint
	}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(clientConfig),
		config: cfg,
		logger: logger.Named("llm.openai"),
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, systemMessage, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemMessage},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: float32(c.config.Temperature),
		MaxTokens:   c.config.MaxTokens,
	})
	if err != nil {
		return "", c.wrapError(err)
	}
	if len(resp.Choices) == 0 {
		return "", &Error{Provider: c.Provider(), Model: c.config.Model, Message: "empty completion"}
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) Model() string    { return c.config.Model }
func (c *OpenAIClient) Provider() string { return "openai" }

// wrapError classifies API failures. Rate limits and server errors are
// retryable; auth and request errors are not.
func (c *OpenAIClient) wrapError(err error) error {
	retryable := false
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		retryable = apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= 500
	}
	c.logger.Warn("completion failed", zap.Error(err), zap.Bool("retryable", retryable))
	return &Error{
		Provider:  c.Provider(),
		Model:     c.config.Model,
		Message:   "chat completion failed",
		Retryable: retryable,
		Cause:     err,
	}
}
