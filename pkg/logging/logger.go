package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// NewLogger builds the process logger for the given environment. Local
// environments get the human-readable development encoder; everything else
// logs JSON at info level.
func NewLogger(env string) (*zap.Logger, error) {
	var cfg zap.Config
	if env == "local" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}
