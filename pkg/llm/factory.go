package llm

import (
	"fmt"

	"go.uber.org/zap"
)

// NewClient creates the provider selected by the config. Returns
// ErrNotConfigured when no API key is present so callers can degrade to
// aggregate-only answers instead of failing startup.
func NewClient(cfg Config, logger *zap.Logger) (Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}
	switch cfg.Provider {
	case "openai", "":
		return NewOpenAIClient(cfg, logger), nil
	case "anthropic":
		return NewAnthropicClient(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
