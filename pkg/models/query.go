package models

// QueryType classifies a user question about an ingested dataset.
type QueryType string

const (
	QueryTypeNumeric  QueryType = "numeric"
	QueryTypeSemantic QueryType = "semantic"
	QueryTypeHybrid   QueryType = "hybrid"
)

// QueryClassification is the keyword classifier's verdict on a question:
// what kind of answer strategy fits and which columns look relevant.
type QueryClassification struct {
	Type              QueryType `json:"type"`
	Confidence        float64   `json:"confidence"`
	RelevantColumns   []string  `json:"relevant_columns"`
	SuggestedStrategy string    `json:"suggested_strategy"`

	// InjectionFlags lists question tokens that tripped the SQL injection
	// screen. The SQL-generating caller must not interpolate these.
	InjectionFlags []string `json:"injection_flags,omitempty"`
}
