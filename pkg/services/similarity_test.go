package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fleetlens-io/fleetlens-engine/pkg/models"
)

func newTestScorer() SimilarityService {
	return NewSimilarityService(DefaultSimilarityConfig(), zap.NewNop())
}

// fleetSignature builds a signature for a typical agent revenue export.
func fleetSignature(rowCount int) *models.FileSignature {
	sig := &models.FileSignature{
		Columns: []string{"Agent", "Revenue", "Month"},
		ColumnTypes: map[string]string{
			"Agent":   "text",
			"Revenue": "currency",
			"Month":   "date",
		},
		RowCount:      rowCount,
		StructureHash: "hash-structure",
		ContentHash:   "hash-content",
		BusinessPatterns: models.BusinessPatterns{
			HasAgents:  true,
			HasRevenue: true,
			Tags:       []string{models.PatternTagAgents, models.PatternTagRevenue},
		},
	}
	return sig
}

func TestSimilarityService_Compare_Identical(t *testing.T) {
	scorer := newTestScorer()

	result := scorer.Compare(fleetSignature(100), fleetSignature(100),
		"Report_2024_Q1.csv", "Report_2024_Q1.csv")

	assert.InDelta(t, 100.0, result.Score.Structure, 1e-9)
	assert.InDelta(t, 100.0, result.Score.Content, 1e-9)
	assert.InDelta(t, 100.0, result.Score.Business, 1e-9)

	// Identical basenames and equal years: 0.6*100 + 0.4*50.
	assert.InDelta(t, 80.0, result.Score.Temporal, 1e-9)
	assert.InDelta(t, 98.0, result.Score.Overall, 1e-9)
	assert.True(t, result.IsSimilar)
}

func TestSimilarityService_Compare_RowRatioBands(t *testing.T) {
	tests := []struct {
		name        string
		newRows     int
		oldRows     int
		wantContent float64
	}{
		// Equal counts: ratio 1.0, rowSimilarity 100, hash matches.
		{"equal", 100, 100, 100},
		// Growth band: ratio 1.2, rowSimilarity 80, content 0.6*80+0.4*100.
		{"modest growth", 120, 100, 88},
		// Shrink band: ratio 0.9, rowSimilarity 90, content 0.6*90+0.4*100.
		{"modest shrink", 90, 100, 94},
		// Far band: ratio 2.0, rowSimilarity max(0,100-50)=50.
		{"doubled", 200, 100, 70},
		// Far band floor: ratio 5.0 clamps rowSimilarity at 0.
		{"exploded", 500, 100, 40},
	}

	scorer := newTestScorer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			newSig := fleetSignature(tt.newRows)
			existingSig := fleetSignature(tt.oldRows)
			result := scorer.Compare(newSig, existingSig, "a.csv", "a.csv")
			assert.InDelta(t, tt.wantContent, result.Score.Content, 1e-9)
		})
	}
}

func TestSimilarityService_Compare_Asymmetric(t *testing.T) {
	scorer := newTestScorer()

	grown := scorer.Compare(fleetSignature(110), fleetSignature(100), "a.csv", "a.csv")
	shrunk := scorer.Compare(fleetSignature(100), fleetSignature(110), "a.csv", "a.csv")

	// Growth from 100 to 110 scores differently than shrinkage from 110
	// to 100. The direction of comparison matters.
	assert.NotEqual(t, grown.Score.Content, shrunk.Score.Content)
}

func TestSimilarityService_Compare_ZeroExistingRows(t *testing.T) {
	scorer := newTestScorer()

	// Division guard: an empty existing document does not panic or
	// produce NaN.
	result := scorer.Compare(fleetSignature(100), fleetSignature(0), "a.csv", "a.csv")
	assert.False(t, result.Score.Content < 0)
	assert.False(t, result.Score.Content > 100)
}

func TestSimilarityService_Compare_DisjointColumns(t *testing.T) {
	scorer := newTestScorer()

	newSig := fleetSignature(100)
	existingSig := &models.FileSignature{
		Columns:       []string{"X", "Y", "Z"},
		ColumnTypes:   map[string]string{"X": "text", "Y": "text", "Z": "text"},
		RowCount:      100,
		StructureHash: "other-structure",
		ContentHash:   "other-content",
	}
	existingSig.BusinessPatterns.BuildTags()

	result := scorer.Compare(newSig, existingSig, "a.csv", "b.csv")
	assert.InDelta(t, 0.0, result.Score.Structure, 1e-9)
}

func TestSimilarityService_Compare_TypeMismatchOnCommonColumns(t *testing.T) {
	scorer := newTestScorer()

	newSig := fleetSignature(100)
	existingSig := fleetSignature(100)
	existingSig.ColumnTypes = map[string]string{
		"Agent":   "text",
		"Revenue": "text", // differs
		"Month":   "date",
	}

	result := scorer.Compare(newSig, existingSig, "a.csv", "a.csv")

	// Full column overlap (70) plus 2/3 type agreement (0.3 * 66.67).
	assert.InDelta(t, 70+0.3*(2.0/3.0*100), result.Score.Structure, 1e-9)
}

func TestSimilarityService_Compare_QuarterSuccessionBonus(t *testing.T) {
	scorer := newTestScorer()

	q2afterQ1 := scorer.Compare(fleetSignature(100), fleetSignature(100),
		"Report_2024_Q2.csv", "Report_2024_Q1.csv")
	sameQ := scorer.Compare(fleetSignature(100), fleetSignature(100),
		"Report_2024_Q1.csv", "Report_2024_Q1.csv")

	// Consecutive quarters add the +30 bonus on top of the +50 year
	// bonus: temporal 0.6*100 + 0.4*80 = 92 versus 80.
	assert.InDelta(t, 92.0, q2afterQ1.Score.Temporal, 1e-9)
	assert.Greater(t, q2afterQ1.Score.Temporal, sameQ.Score.Temporal)
}

func TestSimilarityService_Compare_WeekWrapAcrossYears(t *testing.T) {
	scorer := newTestScorer()

	wrapped := scorer.Compare(fleetSignature(100), fleetSignature(100),
		"Agents_W01_2025.csv", "Agents_W52_2024.csv")

	// Year succession (+50) and week wrap 52 to 1 (+30): 0.6*100+0.4*80.
	assert.InDelta(t, 92.0, wrapped.Score.Temporal, 1e-9)
}

func TestSimilarityService_Compare_ThresholdInclusive(t *testing.T) {
	probe := newTestScorer().Compare(fleetSignature(100), fleetSignature(100), "a.csv", "a.csv")

	atBoundary := DefaultSimilarityConfig()
	atBoundary.SimilarThreshold = probe.Score.Overall
	assert.True(t, NewSimilarityService(atBoundary, zap.NewNop()).
		Compare(fleetSignature(100), fleetSignature(100), "a.csv", "a.csv").IsSimilar,
		"a score exactly at the threshold counts as similar")

	aboveBoundary := DefaultSimilarityConfig()
	aboveBoundary.SimilarThreshold = probe.Score.Overall + 0.001
	assert.False(t, NewSimilarityService(aboveBoundary, zap.NewNop()).
		Compare(fleetSignature(100), fleetSignature(100), "a.csv", "a.csv").IsSimilar)
}

func TestSimilarityService_Confidence(t *testing.T) {
	scorer := newTestScorer()

	uniform := scorer.Compare(fleetSignature(100), fleetSignature(100),
		"Report_2024_Q1.csv", "Report_2024_Q1.csv")

	// Sub-scores (100, 100, 100, 80): mean 95, variance 75.
	assert.InDelta(t, 0.8*95+0.2*(100-75), uniform.Confidence, 1e-9)

	scattered := scorer.Compare(fleetSignature(100), &models.FileSignature{
		Columns:     []string{"X"},
		ColumnTypes: map[string]string{"X": "text"},
		RowCount:    100,
	}, "a.csv", "b.csv")

	// Wildly divergent sub-scores produce lower confidence than
	// consistent ones.
	assert.Less(t, scattered.Confidence, uniform.Confidence)
}

func TestSimilarityService_Suggestions(t *testing.T) {
	t.Run("high score recommends update", func(t *testing.T) {
		result := newTestScorer().Compare(fleetSignature(100), fleetSignature(100),
			"Report_2024_Q1.csv", "Report_2024_Q1.csv")
		require.Len(t, result.Suggestions, 3)

		assert.Equal(t, models.ActionUpdate, result.Suggestions[0].Type)
		assert.True(t, result.Suggestions[0].Recommended)
		assert.Equal(t, models.ActionNewContext, result.Suggestions[1].Type)
		assert.False(t, result.Suggestions[1].Recommended)
		assert.Equal(t, models.ActionSeparate, result.Suggestions[2].Type)
		assert.False(t, result.Suggestions[2].Recommended)
	})

	t.Run("moderate score recommends new context", func(t *testing.T) {
		// Raise the update threshold above this pair's score so it falls
		// in the new-context band.
		cfg := DefaultSimilarityConfig()
		cfg.UpdateThreshold = 99
		result := NewSimilarityService(cfg, zap.NewNop()).
			Compare(fleetSignature(100), fleetSignature(100),
				"Report_2024_Q1.csv", "Report_2024_Q1.csv")
		require.Len(t, result.Suggestions, 3)

		assert.Equal(t, models.ActionNewContext, result.Suggestions[0].Type)
		assert.True(t, result.Suggestions[0].Recommended)
		assert.Equal(t, models.ActionUpdate, result.Suggestions[1].Type)
		assert.False(t, result.Suggestions[1].Recommended)
		assert.False(t, result.Suggestions[2].Recommended)
	})

	t.Run("structural variant below threshold", func(t *testing.T) {
		newSig := fleetSignature(1000)
		newSig.StructureHash = "different"
		newSig.BusinessPatterns = models.BusinessPatterns{
			HasAgents: true, HasRevenue: true, HasPerformance: true, HasExitEmployees: true,
		}
		newSig.BusinessPatterns.BuildTags()

		existingSig := fleetSignature(10)
		existingSig.BusinessPatterns = models.BusinessPatterns{}
		existingSig.BusinessPatterns.BuildTags()

		result := newTestScorer().Compare(newSig, existingSig, "aaaa.csv", "zzzz.csv")
		require.False(t, result.IsSimilar)
		require.Len(t, result.Suggestions, 2)

		assert.Equal(t, models.ActionNewContext, result.Suggestions[0].Type)
		assert.Equal(t, models.ActionSeparate, result.Suggestions[1].Type)
		assert.True(t, result.Suggestions[1].Recommended)
	})

	t.Run("dissimilar pair recommends separate only", func(t *testing.T) {
		existingSig := &models.FileSignature{
			Columns:     []string{"X"},
			ColumnTypes: map[string]string{"X": "text"},
			RowCount:    5,
		}
		existingSig.BusinessPatterns.BuildTags()

		result := newTestScorer().Compare(fleetSignature(100), existingSig, "aaaa.csv", "zzzz.csv")
		require.False(t, result.IsSimilar)
		require.Len(t, result.Suggestions, 1)
		assert.Equal(t, models.ActionSeparate, result.Suggestions[0].Type)
		assert.True(t, result.Suggestions[0].Recommended)
	})
}
