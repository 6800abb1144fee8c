package services

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/fleetlens-io/fleetlens-engine/pkg/apperrors"
	"github.com/fleetlens-io/fleetlens-engine/pkg/models"
)

// AggregationService computes exact numeric, categorical and temporal
// summaries over an extracted dataset. The summaries are stored with the
// document and later drive numeric question answering without re-reading
// the raw rows.
type AggregationService interface {
	// Compute builds the full aggregation set for the given rows. Returns
	// apperrors.ErrEmptyDataset when rows or columns are empty.
	Compute(rows []map[string]any, columns []string) (*models.Aggregations, error)
}

type aggregationService struct {
	inferencer *ColumnTypeInferencer
	logger     *zap.Logger
}

var _ AggregationService = (*aggregationService)(nil)

// NewAggregationService creates an AggregationService.
func NewAggregationService(logger *zap.Logger) AggregationService {
	return &aggregationService{
		inferencer: NewColumnTypeInferencer(),
		logger:     logger.Named("aggregation"),
	}
}

func (s *aggregationService) Compute(rows []map[string]any, columns []string) (*models.Aggregations, error) {
	if len(rows) == 0 || len(columns) == 0 {
		return nil, fmt.Errorf("computing aggregations: %w", apperrors.ErrEmptyDataset)
	}

	agg := &models.Aggregations{
		TotalRows: len(rows),
		Columns:   append([]string(nil), columns...),
		Sums:      make(map[string]float64),
		Averages:  make(map[string]float64),
		Mins:      make(map[string]float64),
		Maxs:      make(map[string]float64),
		Counts:    make(map[string]int),
		ByColumn:  make(map[string]map[string]int),
		TopValues: make(map[string][]models.ValueCount),
	}

	var dateColumns []string
	byPeriod := make(map[string]map[string]int)

	for _, col := range columns {
		values := columnValues(rows, col)
		colType := s.inferencer.InferType(values)

		switch colType {
		case models.ColumnTypeNumber:
			s.aggregateNumeric(agg, col, values)
		case models.ColumnTypeDate:
			periods := bucketByMonth(values)
			if len(periods) > 0 {
				dateColumns = append(dateColumns, col)
				byPeriod[col] = periods
			}
		}

		s.aggregateHistogram(agg, col, values)
	}

	if len(dateColumns) > 0 {
		agg.Temporal = &models.TemporalAggregations{
			DateColumns: dateColumns,
			ByPeriod:    byPeriod,
		}
	}

	return agg, nil
}

// aggregateNumeric fills the five numeric summary maps for a column. Cells
// that fail to parse are skipped; a column with zero parseable cells gets no
// entries at all.
func (s *aggregationService) aggregateNumeric(agg *models.Aggregations, col string, values []any) {
	var (
		sum      float64
		min, max float64
		count    int
	)
	for _, v := range values {
		f, ok := parseNumericValue(v)
		if !ok {
			continue
		}
		if count == 0 {
			min, max = f, f
		} else {
			if f < min {
				min = f
			}
			if f > max {
				max = f
			}
		}
		sum += f
		count++
	}
	if count == 0 {
		return
	}
	agg.Sums[col] = sum
	agg.Averages[col] = sum / float64(count)
	agg.Mins[col] = min
	agg.Maxs[col] = max
	agg.Counts[col] = count
}

// aggregateHistogram records the top value counts for a column, plus the full
// histogram when the distinct cardinality is small enough to store.
func (s *aggregationService) aggregateHistogram(agg *models.Aggregations, col string, values []any) {
	counts := make(map[string]int)
	for _, v := range values {
		counts[stringifyValue(v)]++
	}
	if len(counts) == 0 {
		return
	}

	ranked := make([]models.ValueCount, 0, len(counts))
	for value, n := range counts {
		ranked = append(ranked, models.ValueCount{Value: value, Count: n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Value < ranked[j].Value
	})
	if len(ranked) > models.TopValueLimit {
		ranked = ranked[:models.TopValueLimit]
	}
	agg.TopValues[col] = ranked

	if len(counts) <= models.MaxDistinctForHistogram {
		agg.ByColumn[col] = counts
	}
}

// bucketByMonth groups parseable date values into zero-padded "YYYY-MM"
// period counts. Unparseable values are excluded.
func bucketByMonth(values []any) map[string]int {
	periods := make(map[string]int)
	for _, v := range values {
		t, ok := parseDateValue(v)
		if !ok {
			continue
		}
		periods[fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))]++
	}
	return periods
}

// columnValues returns the non-null cells of a column in row order.
func columnValues(rows []map[string]any, col string) []any {
	values := make([]any, 0, len(rows))
	for _, row := range rows {
		v, ok := row[col]
		if !ok || isNullValue(v) {
			continue
		}
		values = append(values, v)
	}
	return values
}
