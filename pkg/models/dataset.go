package models

import (
	"time"

	"github.com/google/uuid"
)

// ColumnType is the inferred semantic type of a column's values.
type ColumnType string

const (
	ColumnTypeNumber  ColumnType = "number"
	ColumnTypeDate    ColumnType = "date"
	ColumnTypeBoolean ColumnType = "boolean"
	ColumnTypeString  ColumnType = "string"
)

// ValidColumnTypes contains all valid inferred column types.
var ValidColumnTypes = []ColumnType{
	ColumnTypeNumber,
	ColumnTypeDate,
	ColumnTypeBoolean,
	ColumnTypeString,
}

// Column holds one column of an ingested dataset: its name, the values that
// survived null filtering, and the type inferred from them. Columns are built
// once per ingestion pass and not mutated afterwards.
type Column struct {
	Name         string     `json:"name"`
	InferredType ColumnType `json:"inferred_type"`
	Values       []any      `json:"values"`
	HasNulls     bool       `json:"has_nulls"`
}

// Shape describes the row/column dimensions of a dataset.
type Shape struct {
	Rows    int `json:"rows"`
	Columns int `json:"columns"`
}

// ExtractionResult is the tabular dataset handed to the analysis pipeline by
// the extraction step. Row data arrives in one of two forms depending on the
// producer: Records (ordered list of column→value maps) or ValueRows (ordered
// list of value arrays aligned to Columns). Consumers should go through
// RowMaps, which normalizes either form.
type ExtractionResult struct {
	Filename  string            `json:"filename"`
	Columns   []string          `json:"columns"`
	Dtypes    map[string]string `json:"dtypes"`
	Shape     Shape             `json:"shape"`
	Records   []map[string]any  `json:"records,omitempty"`
	ValueRows [][]any           `json:"value_rows,omitempty"`

	Metadata *ExtractionMetadata `json:"metadata,omitempty"`
	Sample   *DatasetSample      `json:"sample,omitempty"`
}

// RowMaps returns the row data as column→value maps regardless of which form
// the producer supplied. Returns nil when the result carries no row data at
// all (callers treat that as insufficient input).
func (r *ExtractionResult) RowMaps() []map[string]any {
	if r.Records != nil {
		return r.Records
	}
	if r.ValueRows == nil {
		return nil
	}
	rows := make([]map[string]any, len(r.ValueRows))
	for i, vals := range r.ValueRows {
		row := make(map[string]any, len(r.Columns))
		for j, col := range r.Columns {
			if j < len(vals) {
				row[col] = vals[j]
			}
		}
		rows[i] = row
	}
	return rows
}

// ExtractionMetadata describes how a file was parsed.
type ExtractionMetadata struct {
	Filename   string            `json:"filename"`
	Separator  string            `json:"separator"`
	Shape      Shape             `json:"shape"`
	Columns    []string          `json:"columns"`
	NullCounts map[string]int    `json:"null_counts"`
	Dtypes     map[string]string `json:"dtypes"`
}

// DatasetSample is a small preview of the parsed data.
type DatasetSample struct {
	Head []map[string]any `json:"head"`
	Tail []map[string]any `json:"tail"`
}

// DatasetDocument is a persisted, previously ingested dataset. The signature
// lets later uploads be compared without re-reading raw rows.
type DatasetDocument struct {
	ID              uuid.UUID      `json:"id"`
	Filename        string         `json:"filename"`
	BusinessContext string         `json:"business_context,omitempty"`
	RowCount        int            `json:"row_count"`
	Columns         []string       `json:"columns"`
	Aggregations    *Aggregations  `json:"aggregations,omitempty"`
	Quality         *QualityReport `json:"quality,omitempty"`
	Signature       *FileSignature `json:"signature,omitempty"`
	Summary         string         `json:"summary,omitempty"`
	UploadedAt      time.Time      `json:"uploaded_at"`
}
