// Package sql screens user-supplied text for SQL injection patterns before
// it reaches query construction.
package sql

import (
	libinjection "github.com/corazawaf/libinjection-go"
)

// ScreenResult describes an injection pattern found in user input.
type ScreenResult struct {
	// Fingerprint is the libinjection token fingerprint of the pattern.
	Fingerprint string

	// Field names the input field that tripped the screen.
	Field string

	// Value is the offending input.
	Value string
}

// ScreenText checks a single free-text input for SQL injection patterns.
// Returns nil when the text is clean.
func ScreenText(field, text string) *ScreenResult {
	isSQLi, fingerprint := libinjection.IsSQLi(text)
	if !isSQLi {
		return nil
	}
	return &ScreenResult{
		Fingerprint: string(fingerprint),
		Field:       field,
		Value:       text,
	}
}

// ScreenValues checks every string value in a filter map. Non-string values
// cannot carry injection payloads and are skipped.
func ScreenValues(values map[string]any) []*ScreenResult {
	var results []*ScreenResult
	for field, value := range values {
		s, ok := value.(string)
		if !ok {
			continue
		}
		if r := ScreenText(field, s); r != nil {
			results = append(results, r)
		}
	}
	return results
}
