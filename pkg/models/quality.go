package models

// QualityDimension is one scored axis of a data quality report.
type QualityDimension struct {
	Score  float64  `json:"score"`
	Issues []string `json:"issues,omitempty"`
}

// QualityAnomaly flags a localized oddity found during quality checks.
type QualityAnomaly struct {
	Type        string `json:"type"`
	Column      string `json:"column"`
	Count       int    `json:"count"`
	Description string `json:"description"`
}

// QualityReport scores a dataset across several dimensions and rolls them up
// into a weighted overall score (0-100).
type QualityReport struct {
	OverallScore    float64          `json:"overall_score"`
	Completeness    QualityDimension `json:"completeness"`
	Consistency     QualityDimension `json:"consistency"`
	Validity        QualityDimension `json:"validity"`
	Uniqueness      QualityDimension `json:"uniqueness"`
	Integrity       QualityDimension `json:"integrity"`
	Anomalies       []QualityAnomaly `json:"anomalies,omitempty"`
	Recommendations []string         `json:"recommendations,omitempty"`
}
