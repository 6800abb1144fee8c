package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/fleetlens-io/fleetlens-engine/pkg/models"
)

// ColumnTypeInferencer classifies a column's values into one of the four
// semantic types (number, date, boolean, string) from a bounded sample.
//
// The check order matters: numeric wins over date wins over boolean, so a
// column of mostly-numeric codes that also contains a few boolean-looking
// tokens ("0"/"1") resolves as number.
type ColumnTypeInferencer struct {
	config InferenceConfig
}

// InferenceConfig tunes the type inference sampling behavior.
type InferenceConfig struct {
	// SampleSize is the maximum number of values examined per column.
	SampleSize int

	// MatchThreshold is the fraction of sampled values that must match a
	// type for the column to be classified as that type.
	MatchThreshold float64
}

// DefaultInferenceConfig returns the standard sampling parameters.
func DefaultInferenceConfig() InferenceConfig {
	return InferenceConfig{
		SampleSize:     100,
		MatchThreshold: 0.8,
	}
}

// NewColumnTypeInferencer creates an inferencer with default config.
func NewColumnTypeInferencer() *ColumnTypeInferencer {
	return &ColumnTypeInferencer{config: DefaultInferenceConfig()}
}

// datePatterns are the literal shapes a value must match before we attempt a
// calendar parse. Each pattern is paired with its time layout; the slash
// forms are day-first.
var datePatterns = []struct {
	re     *regexp.Regexp
	layout string
}{
	{regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`), "2006-01-02"},
	{regexp.MustCompile(`^\d{4}-\d{2}$`), "2006-01"},
	{regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`), "02/01/2006"},
	{regexp.MustCompile(`^\d{2}/\d{2}/\d{2}$`), "02/01/06"},
}

// booleanVocabulary is the fixed, case-insensitive set of boolean tokens.
var booleanVocabulary = map[string]bool{
	"true": true, "false": true,
	"oui": true, "non": true,
	"yes": true, "no": true,
	"1": true, "0": true,
}

// InferType classifies the given non-null values. An empty value list yields
// string.
func (inf *ColumnTypeInferencer) InferType(values []any) models.ColumnType {
	if len(values) == 0 {
		return models.ColumnTypeString
	}

	sample := values
	if len(sample) > inf.config.SampleSize {
		sample = sample[:inf.config.SampleSize]
	}

	numeric, date, boolean := 0, 0, 0
	for _, v := range sample {
		switch {
		case isNumericValue(v):
			numeric++
		case isDateValue(v):
			date++
		case isBooleanValue(v):
			boolean++
		}
	}

	total := float64(len(sample))
	switch {
	case float64(numeric)/total >= inf.config.MatchThreshold:
		return models.ColumnTypeNumber
	case float64(date)/total >= inf.config.MatchThreshold:
		return models.ColumnTypeDate
	case float64(boolean)/total >= inf.config.MatchThreshold:
		return models.ColumnTypeBoolean
	default:
		return models.ColumnTypeString
	}
}

// isNumericValue reports whether the value is, or parses as, a float.
func isNumericValue(v any) bool {
	switch n := v.(type) {
	case float64, float32, int, int32, int64:
		return true
	case string:
		_, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return err == nil
	default:
		return false
	}
}

// isDateValue reports whether the value matches one of the supported date
// shapes and survives a calendar parse.
func isDateValue(v any) bool {
	if _, ok := v.(time.Time); ok {
		return true
	}
	_, ok := parseDateValue(v)
	return ok
}

// parseDateValue parses a cell value into a time. Values that are already
// times pass through unchanged.
func parseDateValue(v any) (time.Time, bool) {
	if t, ok := v.(time.Time); ok {
		return t, true
	}
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	s = strings.TrimSpace(s)
	for _, p := range datePatterns {
		if !p.re.MatchString(s) {
			continue
		}
		t, err := time.Parse(p.layout, s)
		if err != nil {
			continue
		}
		return t, true
	}
	return time.Time{}, false
}

// isBooleanValue reports whether the value belongs to the boolean vocabulary.
func isBooleanValue(v any) bool {
	switch b := v.(type) {
	case bool:
		return true
	case string:
		return booleanVocabulary[strings.ToLower(strings.TrimSpace(b))]
	default:
		return false
	}
}

// parseNumericValue converts a cell value to a float64 where possible.
func parseNumericValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// isNullValue reports whether a raw cell should be excluded from a column's
// value list.
func isNullValue(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// stringifyValue renders a cell value as a histogram key. Floats drop
// insignificant trailing zeros so "5" and 5.0 collide as intended.
func stringifyValue(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case bool:
		return strconv.FormatBool(s)
	case time.Time:
		return s.Format("2006-01-02")
	default:
		return fmt.Sprintf("%v", v)
	}
}
