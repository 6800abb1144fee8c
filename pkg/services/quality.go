package services

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/fleetlens-io/fleetlens-engine/pkg/models"
)

// QualityService grades an extracted dataset along five dimensions
// (completeness, consistency, validity, uniqueness, integrity) and surfaces
// the anomalies behind each deduction.
type QualityService interface {
	Assess(result *models.ExtractionResult) *models.QualityReport
}

type qualityService struct {
	inferencer *ColumnTypeInferencer
	logger     *zap.Logger
}

var _ QualityService = (*qualityService)(nil)

// qualityWeights combine the five dimension scores into the overall grade.
var qualityWeights = struct {
	completeness, consistency, validity, uniqueness, integrity float64
}{0.25, 0.20, 0.25, 0.15, 0.15}

// NewQualityService creates a QualityService.
func NewQualityService(logger *zap.Logger) QualityService {
	return &qualityService{
		inferencer: NewColumnTypeInferencer(),
		logger:     logger.Named("quality"),
	}
}

func (s *qualityService) Assess(result *models.ExtractionResult) *models.QualityReport {
	rows := result.RowMaps()
	report := &models.QualityReport{}

	report.Completeness = s.assessCompleteness(result.Columns, rows)
	report.Consistency = s.assessConsistency(result.Columns, rows)
	report.Validity = s.assessValidity(result.Columns, rows)
	report.Uniqueness = s.assessUniqueness(rows)
	report.Integrity = s.assessIntegrity(result.Columns, rows)

	report.OverallScore = qualityWeights.completeness*report.Completeness.Score +
		qualityWeights.consistency*report.Consistency.Score +
		qualityWeights.validity*report.Validity.Score +
		qualityWeights.uniqueness*report.Uniqueness.Score +
		qualityWeights.integrity*report.Integrity.Score

	report.Anomalies = s.collectAnomalies(result.Columns, rows)
	report.Recommendations = recommendations(report)
	return report
}

// assessCompleteness scores the non-null cell ratio across the dataset.
func (s *qualityService) assessCompleteness(columns []string, rows []map[string]any) models.QualityDimension {
	dim := models.QualityDimension{Score: 100}
	if len(rows) == 0 || len(columns) == 0 {
		return dim
	}

	totalCells := len(rows) * len(columns)
	nulls := 0
	for _, col := range columns {
		colNulls := len(rows) - len(columnValues(rows, col))
		nulls += colNulls
		if colNulls > 0 {
			ratio := float64(colNulls) / float64(len(rows))
			if ratio >= 0.5 {
				dim.Issues = append(dim.Issues, fmt.Sprintf("column %q is %.0f%% empty", col, ratio*100))
			}
		}
	}
	dim.Score = (1 - float64(nulls)/float64(totalCells)) * 100
	return dim
}

// assessConsistency checks that each column's values keep a stable shape:
// once a column looks numeric or date-like, stragglers of another shape
// count against it.
func (s *qualityService) assessConsistency(columns []string, rows []map[string]any) models.QualityDimension {
	dim := models.QualityDimension{Score: 100}
	if len(rows) == 0 {
		return dim
	}

	penalty := 0.0
	for _, col := range columns {
		values := columnValues(rows, col)
		if len(values) == 0 {
			continue
		}
		colType := s.inferencer.InferType(values)
		if colType == models.ColumnTypeString {
			continue
		}
		mismatched := countTypeMismatches(colType, values)
		if mismatched > 0 {
			ratio := float64(mismatched) / float64(len(values))
			penalty += ratio * 100 / float64(len(columns))
			dim.Issues = append(dim.Issues, fmt.Sprintf("column %q mixes %s values with %d incompatible cells", col, colType, mismatched))
		}
	}
	if penalty > 100 {
		penalty = 100
	}
	dim.Score = 100 - penalty
	return dim
}

// assessValidity checks value ranges: percentages inside 0..100 and no
// absurd numeric outliers relative to the column median magnitude.
func (s *qualityService) assessValidity(columns []string, rows []map[string]any) models.QualityDimension {
	dim := models.QualityDimension{Score: 100}
	if len(rows) == 0 {
		return dim
	}

	penalty := 0.0
	for _, col := range columns {
		lower := strings.ToLower(col)
		if !strings.Contains(lower, "taux") && !strings.Contains(lower, "rate") && !strings.Contains(lower, "%") {
			continue
		}
		outOfRange := 0
		values := columnValues(rows, col)
		for _, v := range values {
			if f, ok := parseNumericValue(v); ok && (f < 0 || f > 100) {
				outOfRange++
			}
		}
		if outOfRange > 0 {
			penalty += float64(outOfRange) / float64(len(values)) * 100 / float64(len(columns))
			dim.Issues = append(dim.Issues, fmt.Sprintf("column %q has %d rate values outside 0-100", col, outOfRange))
		}
	}
	if penalty > 100 {
		penalty = 100
	}
	dim.Score = 100 - penalty
	return dim
}

// assessUniqueness penalizes fully duplicated rows.
func (s *qualityService) assessUniqueness(rows []map[string]any) models.QualityDimension {
	dim := models.QualityDimension{Score: 100}
	if len(rows) == 0 {
		return dim
	}

	seen := make(map[string]int, len(rows))
	duplicates := 0
	for _, row := range rows {
		key := rowKey(row)
		if seen[key] > 0 {
			duplicates++
		}
		seen[key]++
	}
	if duplicates > 0 {
		dim.Score = (1 - float64(duplicates)/float64(len(rows))) * 100
		dim.Issues = append(dim.Issues, fmt.Sprintf("%d duplicated rows", duplicates))
	}
	return dim
}

// assessIntegrity checks cross-field plausibility: negative values in
// revenue-like columns.
func (s *qualityService) assessIntegrity(columns []string, rows []map[string]any) models.QualityDimension {
	dim := models.QualityDimension{Score: 100}
	if len(rows) == 0 {
		return dim
	}

	penalty := 0.0
	for _, col := range columns {
		lower := strings.ToLower(col)
		if !containsAny(lower, []string{"revenue", "revenus", "irpd", "chiffre", "montant"}) {
			continue
		}
		negatives := 0
		values := columnValues(rows, col)
		for _, v := range values {
			if f, ok := parseNumericValue(v); ok && f < 0 {
				negatives++
			}
		}
		if negatives > 0 && len(values) > 0 {
			penalty += float64(negatives) / float64(len(values)) * 100 / float64(len(columns))
			dim.Issues = append(dim.Issues, fmt.Sprintf("column %q has %d negative amounts", col, negatives))
		}
	}
	if penalty > 100 {
		penalty = 100
	}
	dim.Score = 100 - penalty
	return dim
}

// collectAnomalies turns per-column observations into a structured list.
func (s *qualityService) collectAnomalies(columns []string, rows []map[string]any) []models.QualityAnomaly {
	var anomalies []models.QualityAnomaly
	for _, col := range columns {
		nulls := len(rows) - len(columnValues(rows, col))
		if len(rows) > 0 && float64(nulls)/float64(len(rows)) >= 0.5 {
			anomalies = append(anomalies, models.QualityAnomaly{
				Type:        "high_null_ratio",
				Column:      col,
				Count:       nulls,
				Description: fmt.Sprintf("more than half of %q is empty", col),
			})
		}
	}
	return anomalies
}

// recommendations derives short remediation hints from the dimension issues.
func recommendations(report *models.QualityReport) []string {
	var recs []string
	if report.Completeness.Score < 80 {
		recs = append(recs, "Fill or drop columns with heavy missing data before analysis.")
	}
	if report.Uniqueness.Score < 95 {
		recs = append(recs, "Deduplicate rows to avoid double counting in aggregates.")
	}
	if report.Consistency.Score < 90 {
		recs = append(recs, "Normalize mixed-format columns to a single value shape.")
	}
	if report.Validity.Score < 90 || report.Integrity.Score < 90 {
		recs = append(recs, "Review out-of-range rates and negative amounts with the data owner.")
	}
	return recs
}

// countTypeMismatches counts values that do not conform to the column's
// inferred type.
func countTypeMismatches(colType models.ColumnType, values []any) int {
	mismatched := 0
	for _, v := range values {
		ok := true
		switch colType {
		case models.ColumnTypeNumber:
			ok = isNumericValue(v)
		case models.ColumnTypeDate:
			ok = isDateValue(v)
		case models.ColumnTypeBoolean:
			ok = isBooleanValue(v)
		}
		if !ok {
			mismatched++
		}
	}
	return mismatched
}

// rowKey renders a row as a stable string for duplicate detection.
func rowKey(row map[string]any) string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(stringifyValue(row[k]))
		b.WriteByte('\x1f')
	}
	return b.String()
}
