package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/fleetlens-io/fleetlens-engine/pkg/apperrors"
	"github.com/fleetlens-io/fleetlens-engine/pkg/models"
)

// ExtractionConfig tunes CSV parsing limits.
type ExtractionConfig struct {
	// MaxFileSize is the largest accepted upload in bytes.
	MaxFileSize int64

	// SampleRows is the number of head and tail rows kept as a preview.
	SampleRows int
}

// DefaultExtractionConfig returns the standard parsing limits.
func DefaultExtractionConfig() ExtractionConfig {
	return ExtractionConfig{
		MaxFileSize: 10 << 20,
		SampleRows:  5,
	}
}

// ExtractionService turns an uploaded CSV file into a typed, cleaned
// tabular result ready for aggregation and signature building.
type ExtractionService interface {
	// Extract parses the given file contents. The filename is used for
	// format detection and carried into the result.
	Extract(filename string, data []byte) (*models.ExtractionResult, error)
}

type extractionService struct {
	config ExtractionConfig
	logger *zap.Logger
}

var _ ExtractionService = (*extractionService)(nil)

// NewExtractionService creates an ExtractionService.
func NewExtractionService(cfg ExtractionConfig, logger *zap.Logger) ExtractionService {
	return &extractionService{
		config: cfg,
		logger: logger.Named("extraction"),
	}
}

// candidateSeparators are tried in order during separator detection.
var candidateSeparators = []rune{',', ';', '\t', '|'}

// nullTokens are cell values treated as missing data.
var nullTokens = map[string]bool{
	"": true, "na": true, "n/a": true, "null": true, "none": true, "-": true,
}

func (s *extractionService) Extract(filename string, data []byte) (*models.ExtractionResult, error) {
	if ext := strings.ToLower(filepath.Ext(filename)); ext != ".csv" && ext != ".txt" {
		return nil, fmt.Errorf("extracting %q: %w", filename, apperrors.ErrUnsupportedFile)
	}
	if int64(len(data)) > s.config.MaxFileSize {
		return nil, fmt.Errorf("extracting %q (%d bytes): %w", filename, len(data), apperrors.ErrFileTooLarge)
	}

	sep := DetectSeparator(data)
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sep
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	raw, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing %q: %w", filename, err)
	}
	if len(raw) < 2 {
		return nil, fmt.Errorf("extracting %q: %w", filename, apperrors.ErrEmptyDataset)
	}

	columns := cleanHeader(raw[0])
	records := make([]map[string]any, 0, len(raw)-1)
	nullCounts := make(map[string]int, len(columns))
	for _, line := range raw[1:] {
		row := make(map[string]any, len(columns))
		for i, col := range columns {
			var cell any
			if i < len(line) {
				cell = cleanCell(line[i])
			}
			if cell == nil {
				nullCounts[col]++
			}
			row[col] = cell
		}
		records = append(records, row)
	}

	shape := models.Shape{Rows: len(records), Columns: len(columns)}
	dtypes := labelDtypes(columns, records)

	result := &models.ExtractionResult{
		Filename: filename,
		Columns:  columns,
		Dtypes:   dtypes,
		Shape:    shape,
		Records:  records,
		Metadata: &models.ExtractionMetadata{
			Filename:   filename,
			Separator:  string(sep),
			Shape:      shape,
			Columns:    columns,
			NullCounts: nullCounts,
			Dtypes:     dtypes,
		},
		Sample: sampleRows(records, s.config.SampleRows),
	}

	s.logger.Info("extracted dataset",
		zap.String("filename", filename),
		zap.Int("rows", shape.Rows),
		zap.Int("columns", shape.Columns),
		zap.String("separator", strconv.QuoteRune(sep)))
	return result, nil
}

// DetectSeparator scores each candidate separator over the first five lines
// and picks the one that splits them most consistently. Defaults to comma
// when nothing splits.
func DetectSeparator(data []byte) rune {
	lines := strings.Split(string(data), "\n")
	if len(lines) > 5 {
		lines = lines[:5]
	}

	best := ','
	bestScore := -1.0
	for _, sep := range candidateSeparators {
		score := separatorScore(lines, sep)
		if score > bestScore {
			best = sep
			bestScore = score
		}
	}
	return best
}

// separatorScore rewards separators that appear on every line with a stable
// field count. A separator absent from the first line scores zero.
func separatorScore(lines []string, sep rune) float64 {
	counts := make([]int, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		counts = append(counts, strings.Count(line, string(sep)))
	}
	if len(counts) == 0 || counts[0] == 0 {
		return 0
	}
	consistent := 0
	for _, c := range counts {
		if c == counts[0] {
			consistent++
		}
	}
	return float64(counts[0]) * float64(consistent) / float64(len(counts))
}

// cleanHeader trims column names and fills in placeholders for blanks so
// every column stays addressable.
func cleanHeader(header []string) []string {
	columns := make([]string, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\uFEFF"))
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		columns[i] = name
	}
	return columns
}

// cleanCell trims a raw cell and maps missing-data tokens to nil.
func cleanCell(raw string) any {
	v := strings.TrimSpace(raw)
	if nullTokens[strings.ToLower(v)] {
		return nil
	}
	return v
}

var (
	currencyValueRe   = regexp.MustCompile(`^[€$£]?\s*-?\d{1,3}(?:[ ,]\d{3})*(?:[.,]\d+)?\s*[€$£]?$`)
	percentageValueRe = regexp.MustCompile(`^-?\d+(?:[.,]\d+)?\s*%$`)
)

// labelDtypes assigns a descriptive storage label per column. These labels
// are free-form hints for display and prompting; the inference pipeline
// derives its own semantic types independently.
func labelDtypes(columns []string, records []map[string]any) map[string]string {
	dtypes := make(map[string]string, len(columns))
	for _, col := range columns {
		dtypes[col] = labelColumn(col, columnValues(records, col))
	}
	return dtypes
}

func labelColumn(name string, values []any) string {
	lower := strings.ToLower(name)
	if lower == "id" || strings.HasSuffix(lower, "_id") || strings.HasPrefix(lower, "id_") {
		return "id"
	}
	if len(values) == 0 {
		return "text"
	}

	var currency, percentage, date, integer, float int
	distinct := make(map[string]struct{}, len(values))
	for _, v := range values {
		s := stringifyValue(v)
		distinct[s] = struct{}{}
		switch {
		case percentageValueRe.MatchString(s):
			percentage++
		case currencyValueRe.MatchString(s) && strings.ContainsAny(s, "€$£"):
			currency++
		case isDateValue(v):
			date++
		}
		if f, ok := parseNumericValue(v); ok {
			if f == float64(int64(f)) {
				integer++
			} else {
				float++
			}
		}
	}

	total := float64(len(values))
	switch {
	case float64(percentage)/total >= 0.7:
		return "percentage"
	case float64(currency)/total >= 0.5:
		return "currency"
	case float64(date)/total >= 0.5:
		return "date"
	case float64(integer+float)/total >= 0.7 && float > 0:
		return "float"
	case float64(integer)/total >= 0.7:
		return "integer"
	case float64(len(distinct))/total < 0.2 && len(distinct) < 50:
		return "categorical"
	default:
		return "text"
	}
}

// sampleRows keeps the first and last n rows as a preview.
func sampleRows(records []map[string]any, n int) *models.DatasetSample {
	head := records
	if len(head) > n {
		head = head[:n]
	}
	tail := records
	if len(tail) > n {
		tail = tail[len(tail)-n:]
	}
	return &models.DatasetSample{
		Head: append([]map[string]any(nil), head...),
		Tail: append([]map[string]any(nil), tail...),
	}
}
