package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fleetlens-io/fleetlens-engine/pkg/apperrors"
)

func newTestExtraction() ExtractionService {
	return NewExtractionService(DefaultExtractionConfig(), zap.NewNop())
}

func TestDetectSeparator(t *testing.T) {
	tests := []struct {
		name string
		data string
		want rune
	}{
		{
			name: "comma",
			data: "a,b,c\n1,2,3\n4,5,6\n",
			want: ',',
		},
		{
			name: "semicolon",
			data: "a;b;c\n1;2;3\n",
			want: ';',
		},
		{
			name: "tab",
			data: "a\tb\tc\n1\t2\t3\n",
			want: '\t',
		},
		{
			name: "pipe",
			data: "a|b|c\n1|2|3\n",
			want: '|',
		},
		{
			name: "semicolon wins over commas inside values",
			data: "name;amount\nDupont, Jean;100\nMartin, Anne;200\n",
			want: ';',
		},
		{
			name: "defaults to comma",
			data: "single column\nvalue\n",
			want: ',',
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectSeparator([]byte(tt.data)))
		})
	}
}

func TestExtractionService_Extract(t *testing.T) {
	svc := newTestExtraction()

	csv := "Agent;Revenue;Month\nAlice;100.5;2024-01-05\nBob;;2024-01-20\n"
	result, err := svc.Extract("report.csv", []byte(csv))
	require.NoError(t, err)

	assert.Equal(t, "report.csv", result.Filename)
	assert.Equal(t, []string{"Agent", "Revenue", "Month"}, result.Columns)
	assert.Equal(t, 2, result.Shape.Rows)
	assert.Equal(t, 3, result.Shape.Columns)

	// Empty cells become nulls and are counted in the metadata.
	assert.Nil(t, result.Records[1]["Revenue"])
	require.NotNil(t, result.Metadata)
	assert.Equal(t, ";", result.Metadata.Separator)
	assert.Equal(t, 1, result.Metadata.NullCounts["Revenue"])
	assert.Equal(t, 0, result.Metadata.NullCounts["Agent"])
}

func TestExtractionService_Extract_NullTokens(t *testing.T) {
	svc := newTestExtraction()

	csv := "a,b\nNA,1\nnull,2\n-,3\nN/A,4\n"
	result, err := svc.Extract("data.csv", []byte(csv))
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		assert.Nil(t, result.Records[i]["a"], "row %d should be null", i)
	}
	assert.Equal(t, 4, result.Metadata.NullCounts["a"])
}

func TestExtractionService_Extract_Sample(t *testing.T) {
	svc := newTestExtraction()

	var b strings.Builder
	b.WriteString("n\n")
	for i := 0; i < 20; i++ {
		b.WriteString("1\n")
	}
	result, err := svc.Extract("data.csv", []byte(b.String()))
	require.NoError(t, err)

	require.NotNil(t, result.Sample)
	assert.Len(t, result.Sample.Head, 5)
	assert.Len(t, result.Sample.Tail, 5)
}

func TestExtractionService_Extract_Errors(t *testing.T) {
	svc := newTestExtraction()

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := svc.Extract("report.pdf", []byte("a,b\n1,2\n"))
		assert.True(t, errors.Is(err, apperrors.ErrUnsupportedFile))
	})

	t.Run("too large", func(t *testing.T) {
		small := NewExtractionService(ExtractionConfig{MaxFileSize: 10, SampleRows: 5}, zap.NewNop())
		_, err := small.Extract("report.csv", []byte("a,b\n1,2\n3,4\n"))
		assert.True(t, errors.Is(err, apperrors.ErrFileTooLarge))
	})

	t.Run("header only", func(t *testing.T) {
		_, err := svc.Extract("report.csv", []byte("a,b\n"))
		assert.True(t, errors.Is(err, apperrors.ErrEmptyDataset))
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := svc.Extract("report.csv", nil)
		assert.True(t, errors.Is(err, apperrors.ErrEmptyDataset))
	})
}

func TestExtractionService_Extract_BlankHeaderPlaceholder(t *testing.T) {
	svc := newTestExtraction()

	result, err := svc.Extract("data.csv", []byte("a,,c\n1,2,3\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "column_2", "c"}, result.Columns)
}

func TestLabelColumn(t *testing.T) {
	tests := []struct {
		name   string
		column string
		values []any
		want   string
	}{
		{"id by name", "agent_id", []any{"x", "y"}, "id"},
		{"plain id", "ID", []any{"1", "2"}, "id"},
		{"percentage", "conversion", []any{"12%", "15.5%", "9%"}, "percentage"},
		{"currency", "amount", []any{"€100", "€250.50", "€75"}, "currency"},
		{"date", "day", []any{"2024-01-01", "2024-01-02"}, "date"},
		{"integer", "count", []any{"1", "2", "3"}, "integer"},
		{"float", "score", []any{"1.5", "2.25", "3"}, "float"},
		{"text", "comment", []any{"hello world", "first entry", "second entry", "third one", "another", "more text"}, "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, labelColumn(tt.column, tt.values))
		})
	}
}

func TestLabelColumn_Categorical(t *testing.T) {
	// 100 values drawn from 3 categories: low distinct ratio.
	values := make([]any, 0, 100)
	for i := 0; i < 100; i++ {
		values = append(values, []string{"north", "south", "east"}[i%3])
	}
	assert.Equal(t, "categorical", labelColumn("region", values))
}
