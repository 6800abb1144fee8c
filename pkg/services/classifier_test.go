package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/fleetlens-io/fleetlens-engine/pkg/models"
)

func TestQueryClassifierService_Classify(t *testing.T) {
	svc := NewQueryClassifierService(zap.NewNop())

	tests := []struct {
		name           string
		question       string
		wantType       models.QueryType
		wantConfidence float64
	}{
		{
			name:           "french numeric",
			question:       "Quelle est la somme des revenus?",
			wantType:       models.QueryTypeNumeric,
			wantConfidence: 0.8,
		},
		{
			name:           "english numeric",
			question:       "What is the total revenue?",
			wantType:       models.QueryTypeNumeric,
			wantConfidence: 0.8,
		},
		{
			name:           "french semantic",
			question:       "Explique la tendance des ventes",
			wantType:       models.QueryTypeSemantic,
			wantConfidence: 0.7,
		},
		{
			name:           "mixed keywords fall back to hybrid",
			question:       "Compare le total des agents",
			wantType:       models.QueryTypeHybrid,
			wantConfidence: 0.6,
		},
		{
			name:           "no keywords",
			question:       "bonjour",
			wantType:       models.QueryTypeHybrid,
			wantConfidence: 0.6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.Classify(tt.question, nil)
			assert.Equal(t, tt.wantType, got.Type)
			assert.InDelta(t, tt.wantConfidence, got.Confidence, 1e-9)
			assert.NotEmpty(t, got.SuggestedStrategy)
		})
	}
}

func TestQueryClassifierService_RelevantColumns(t *testing.T) {
	svc := NewQueryClassifierService(zap.NewNop())
	columns := []string{"Agent", "Revenue", "Month", "Site"}

	t.Run("singular question word matches plural-free column", func(t *testing.T) {
		got := svc.Classify("total revenue per agent", columns)
		assert.ElementsMatch(t, []string{"Agent", "Revenue"}, got.RelevantColumns)
	})

	t.Run("plural question words are singularized", func(t *testing.T) {
		got := svc.Classify("combien d'agents", columns)
		assert.Contains(t, got.RelevantColumns, "Agent")
	})

	t.Run("caps at three columns", func(t *testing.T) {
		got := svc.Classify("agent revenue month site totals", columns)
		assert.Len(t, got.RelevantColumns, 3)
	})

	t.Run("no columns provided", func(t *testing.T) {
		got := svc.Classify("total revenue", nil)
		assert.Empty(t, got.RelevantColumns)
	})
}

func TestQueryClassifierService_InjectionFlag(t *testing.T) {
	svc := NewQueryClassifierService(zap.NewNop())

	clean := svc.Classify("total revenue for March", nil)
	assert.Empty(t, clean.InjectionFlags)

	hostile := svc.Classify("total' OR '1'='1' --", nil)
	assert.NotEmpty(t, hostile.InjectionFlags)
}
