package services

import (
	"fmt"
	"testing"

	"github.com/fleetlens-io/fleetlens-engine/pkg/models"
)

func TestInferType(t *testing.T) {
	inf := NewColumnTypeInferencer()

	tests := []struct {
		name   string
		values []any
		want   models.ColumnType
	}{
		{
			name:   "empty column",
			values: nil,
			want:   models.ColumnTypeString,
		},
		{
			name:   "integers as strings",
			values: []any{"1", "2", "3", "42"},
			want:   models.ColumnTypeNumber,
		},
		{
			name:   "floats",
			values: []any{12.5, 3.14, 0.0},
			want:   models.ColumnTypeNumber,
		},
		{
			name:   "iso dates",
			values: []any{"2024-01-15", "2024-02-20", "2024-03-25"},
			want:   models.ColumnTypeDate,
		},
		{
			name:   "year month dates",
			values: []any{"2024-01", "2024-02", "2024-03"},
			want:   models.ColumnTypeDate,
		},
		{
			name:   "day first slash dates",
			values: []any{"15/01/2024", "20/02/2024", "25/03/2024"},
			want:   models.ColumnTypeDate,
		},
		{
			name:   "short slash dates",
			values: []any{"15/01/24", "20/02/24"},
			want:   models.ColumnTypeDate,
		},
		{
			name:   "invalid calendar dates fall back to string",
			values: []any{"2024-13-45", "2024-99-99", "2024-40-40"},
			want:   models.ColumnTypeString,
		},
		{
			name:   "french booleans",
			values: []any{"oui", "non", "OUI", "Non"},
			want:   models.ColumnTypeBoolean,
		},
		{
			name:   "english booleans",
			values: []any{"yes", "no", "true", "false"},
			want:   models.ColumnTypeBoolean,
		},
		{
			name:   "numeric booleans count as numbers",
			values: []any{"1", "0", "1", "0"},
			want:   models.ColumnTypeNumber,
		},
		{
			name:   "free text",
			values: []any{"Paris", "Lyon", "Marseille"},
			want:   models.ColumnTypeString,
		},
		{
			name:   "exactly at threshold",
			values: []any{"1", "2", "3", "4", "five"},
			want:   models.ColumnTypeNumber,
		},
		{
			name:   "below threshold",
			values: []any{"1", "2", "3", "four", "five"},
			want:   models.ColumnTypeString,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := inf.InferType(tt.values)
			if got != tt.want {
				t.Errorf("InferType() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInferType_SampleBound(t *testing.T) {
	inf := NewColumnTypeInferencer()

	// 100 numeric values followed by text: only the first 100 are examined.
	values := make([]any, 0, 150)
	for i := 0; i < 100; i++ {
		values = append(values, fmt.Sprintf("%d", i))
	}
	for i := 0; i < 50; i++ {
		values = append(values, "not a number")
	}

	if got := inf.InferType(values); got != models.ColumnTypeNumber {
		t.Errorf("InferType() = %v, want number from first 100 values", got)
	}
}

func TestParseDateValue(t *testing.T) {
	tests := []struct {
		in    string
		ok    bool
		year  int
		month int
	}{
		{"2024-03-15", true, 2024, 3},
		{"2024-03", true, 2024, 3},
		{"15/03/2024", true, 2024, 3},
		{"15/03/24", true, 2024, 3},
		{"2024-13-01", false, 0, 0},
		{"32/01/2024", false, 0, 0},
		{"hello", false, 0, 0},
		{"", false, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseDateValue(tt.in)
			if ok != tt.ok {
				t.Fatalf("parseDateValue(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			}
			if ok && (got.Year() != tt.year || int(got.Month()) != tt.month) {
				t.Errorf("parseDateValue(%q) = %v, want %d-%02d", tt.in, got, tt.year, tt.month)
			}
		})
	}
}

func TestStringifyValue(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"Paris", "Paris"},
		{5.0, "5"},
		{5.5, "5.5"},
		{42, "42"},
		{true, "true"},
	}

	for _, tt := range tests {
		if got := stringifyValue(tt.in); got != tt.want {
			t.Errorf("stringifyValue(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
