package services

import (
	"strings"

	"github.com/jinzhu/inflection"
	"go.uber.org/zap"

	"github.com/fleetlens-io/fleetlens-engine/pkg/models"
	"github.com/fleetlens-io/fleetlens-engine/pkg/sql"
)

// QueryClassifierService decides how a user question about a dataset should
// be answered: from stored aggregations (numeric), from the language model
// (semantic), or both (hybrid).
type QueryClassifierService interface {
	Classify(question string, columns []string) *models.QueryClassification
}

type queryClassifierService struct {
	logger *zap.Logger
}

var _ QueryClassifierService = (*queryClassifierService)(nil)

// NewQueryClassifierService creates a QueryClassifierService.
func NewQueryClassifierService(logger *zap.Logger) QueryClassifierService {
	return &queryClassifierService{logger: logger.Named("query_classifier")}
}

// numericKeywords mark questions answerable from precomputed aggregations.
var numericKeywords = []string{
	"total", "somme", "moyenne", "maximum", "minimum", "top", "combien",
	"sum", "average", "count", "max", "min",
}

// semanticKeywords mark questions that need interpretation rather than
// lookup.
var semanticKeywords = []string{
	"qui", "analyse", "compare", "explique", "tendance",
	"why", "pourquoi", "explain", "trend", "analyze",
}

// maxRelevantColumns caps the column hints attached to a classification.
const maxRelevantColumns = 3

func (s *queryClassifierService) Classify(question string, columns []string) *models.QueryClassification {
	lower := strings.ToLower(question)

	numeric := containsAny(lower, numericKeywords)
	semantic := containsAny(lower, semanticKeywords)

	classification := &models.QueryClassification{
		RelevantColumns: relevantColumns(lower, columns),
	}
	switch {
	case numeric && !semantic:
		classification.Type = models.QueryTypeNumeric
		classification.Confidence = 0.8
		classification.SuggestedStrategy = "answer from stored aggregations"
	case semantic && !numeric:
		classification.Type = models.QueryTypeSemantic
		classification.Confidence = 0.7
		classification.SuggestedStrategy = "answer with the language model over the dataset summary"
	default:
		classification.Type = models.QueryTypeHybrid
		classification.Confidence = 0.6
		classification.SuggestedStrategy = "combine stored aggregations with a language model pass"
	}

	if r := sql.ScreenText("question", question); r != nil {
		classification.InjectionFlags = append(classification.InjectionFlags, r.Fingerprint)
		s.logger.Warn("question tripped injection screen",
			zap.String("fingerprint", r.Fingerprint))
	}

	return classification
}

// relevantColumns matches question words against column names, singularizing
// both sides so "agents" finds an "agent" column.
func relevantColumns(question string, columns []string) []string {
	words := strings.FieldsFunc(question, func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
	stems := make(map[string]bool, len(words))
	for _, w := range words {
		if len(w) < 3 {
			continue
		}
		stems[inflection.Singular(w)] = true
	}

	var relevant []string
	for _, col := range columns {
		if len(relevant) >= maxRelevantColumns {
			break
		}
		colStem := inflection.Singular(strings.ToLower(col))
		for stem := range stems {
			if strings.Contains(colStem, stem) || strings.Contains(stem, colStem) {
				relevant = append(relevant, col)
				break
			}
		}
	}
	return relevant
}
