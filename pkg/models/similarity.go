package models

import (
	"time"

	"github.com/google/uuid"
)

// SimilarityActionType identifies a recommended disposition for an uploaded
// file relative to a matched prior document.
type SimilarityActionType string

const (
	ActionUpdate     SimilarityActionType = "update"
	ActionNewContext SimilarityActionType = "new_context"
	ActionSeparate   SimilarityActionType = "separate"
)

// SimilarityAction is one suggested disposition, with a UI label and an
// indication of whether it is the recommended choice.
type SimilarityAction struct {
	Type        SimilarityActionType `json:"type"`
	Label       string               `json:"label"`
	Description string               `json:"description"`
	Recommended bool                 `json:"recommended"`
}

// SimilarityScore carries the four sub-scores and their weighted combination.
// All values are 0-100.
type SimilarityScore struct {
	Structure float64 `json:"structure"`
	Content   float64 `json:"content"`
	Business  float64 `json:"business"`
	Temporal  float64 `json:"temporal"`
	Overall   float64 `json:"overall"`
}

// MatchedDocument identifies the stored document a comparison ran against.
type MatchedDocument struct {
	ID         uuid.UUID `json:"id"`
	Filename   string    `json:"filename"`
	Context    string    `json:"context,omitempty"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// SimilarityResult is the outcome of comparing a new upload against one
// existing document.
type SimilarityResult struct {
	IsSimilar       bool               `json:"is_similar"`
	Confidence      float64            `json:"confidence"`
	Score           SimilarityScore    `json:"score"`
	Suggestions     []SimilarityAction `json:"suggestions"`
	MatchedDocument *MatchedDocument   `json:"matched_document,omitempty"`
}

// TemporalTokens are the period markers extracted from a filename.
// Zero means the token was absent.
type TemporalTokens struct {
	Year    int `json:"year,omitempty"`
	Quarter int `json:"quarter,omitempty"`
	Week    int `json:"week,omitempty"`
}
