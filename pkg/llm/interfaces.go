// Package llm wraps the language model providers used to summarize datasets
// and answer semantic questions about them.
package llm

import "context"

// Client is the provider-independent completion interface. Use it for
// dependency injection so services can be tested against MockClient.
type Client interface {
	// Complete generates a single completion for the given prompt.
	Complete(ctx context.Context, systemMessage, prompt string) (string, error)

	// Model returns the configured model name.
	Model() string

	// Provider returns the provider identifier ("openai" or "anthropic").
	Provider() string
}

// Config selects and configures a provider.
type Config struct {
	// Provider is "openai" or "anthropic".
	Provider string `yaml:"provider" env:"LLM_PROVIDER" env-default:"openai"`

	// Model is the provider model name.
	Model string `yaml:"model" env:"LLM_MODEL" env-default:"gpt-4o-mini"`

	// APIKey authenticates against the provider. Never stored in YAML.
	APIKey string `yaml:"-" env:"LLM_API_KEY"`

	// Endpoint overrides the provider base URL, for proxies and
	// OpenAI-compatible gateways.
	Endpoint string `yaml:"endpoint" env:"LLM_ENDPOINT"`

	// Temperature applies to all completions.
	Temperature float64 `yaml:"temperature" env:"LLM_TEMPERATURE" env-default:"0.2"`

	// MaxTokens bounds completion length.
	MaxTokens int `yaml:"max_tokens" env:"LLM_MAX_TOKENS" env-default:"1024"`
}
