package llm

import (
	"errors"
	"fmt"
)

// ErrNotConfigured is returned by the factory when no API key is set.
var ErrNotConfigured = errors.New("llm provider not configured")

// Error wraps a provider failure with enough context to log and classify it.
type Error struct {
	Provider  string
	Model     string
	Message   string
	Retryable bool
	Cause     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s model=%s %s", e.Provider, e.Model, e.Message)
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsRetryable reports whether the request may be retried.
func (e *Error) IsRetryable() bool {
	return e.Retryable
}
