package models

// ValueCount is one entry of a top-value histogram.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// TemporalAggregations groups date-column occurrences by calendar month.
// Keys of ByPeriod's inner maps are zero-padded "YYYY-MM" buckets.
type TemporalAggregations struct {
	DateColumns []string                  `json:"date_columns"`
	ByPeriod    map[string]map[string]int `json:"by_period"`
}

// Aggregations holds the per-column descriptive statistics computed once at
// ingestion and persisted with the document. Numeric statistics are present
// only for columns inferred as numbers that produced at least one parsed
// value; Sums, Averages, Mins, Maxs and Counts always carry the same key set.
type Aggregations struct {
	TotalRows int      `json:"total_rows"`
	Columns   []string `json:"columns"`

	Sums     map[string]float64 `json:"sums,omitempty"`
	Averages map[string]float64 `json:"averages,omitempty"`
	Mins     map[string]float64 `json:"mins,omitempty"`
	Maxs     map[string]float64 `json:"maxs,omitempty"`
	Counts   map[string]int     `json:"counts,omitempty"`

	// ByColumn carries the full value histogram for columns with at most
	// MaxDistinctForHistogram distinct values. Larger columns are omitted to
	// bound memory.
	ByColumn map[string]map[string]int `json:"by_column,omitempty"`

	// TopValues lists the ten most frequent values per column, descending by
	// count. Order among equal counts is unspecified.
	TopValues map[string][]ValueCount `json:"top_values,omitempty"`

	Temporal *TemporalAggregations `json:"temporal,omitempty"`
}

// MaxDistinctForHistogram bounds the size of full per-column histograms.
const MaxDistinctForHistogram = 50

// TopValueLimit is the number of entries kept in each top-value list.
const TopValueLimit = 10
