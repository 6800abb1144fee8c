package services

import (
	"math"

	"go.uber.org/zap"

	"github.com/fleetlens-io/fleetlens-engine/pkg/models"
	"github.com/fleetlens-io/fleetlens-engine/pkg/textmetric"
)

// SimilarityConfig tunes the scorer's weighting and decision threshold.
type SimilarityConfig struct {
	// StructureWeight, ContentWeight, BusinessWeight and TemporalWeight
	// combine the four sub-scores into the overall score. They should sum
	// to 1.
	StructureWeight float64
	ContentWeight   float64
	BusinessWeight  float64
	TemporalWeight  float64

	// SimilarThreshold is the minimum overall score for two documents to
	// count as similar. The boundary is inclusive.
	SimilarThreshold float64

	// UpdateThreshold is the minimum overall score at which updating the
	// existing document becomes the recommended action.
	UpdateThreshold float64

	// VariantStructureThreshold is the minimum structure sub-score at
	// which a non-similar pair is still surfaced as a structural variant.
	VariantStructureThreshold float64
}

// DefaultSimilarityConfig returns the standard weights and thresholds.
func DefaultSimilarityConfig() SimilarityConfig {
	return SimilarityConfig{
		StructureWeight:           0.4,
		ContentWeight:             0.3,
		BusinessWeight:            0.2,
		TemporalWeight:            0.1,
		SimilarThreshold:          75,
		UpdateThreshold:           85,
		VariantStructureThreshold: 70,
	}
}

// SimilarityService scores how alike two dataset signatures are and turns
// the score into ranked action suggestions.
type SimilarityService interface {
	// Compare scores a newly uploaded dataset against one existing
	// document. The direction matters: row-count growth from existing to
	// new is rewarded, shrinkage is penalized harder.
	Compare(newSig, existingSig *models.FileSignature, newFilename, existingFilename string) *models.SimilarityResult
}

type similarityService struct {
	config SimilarityConfig
	logger *zap.Logger
}

var _ SimilarityService = (*similarityService)(nil)

// NewSimilarityService creates a SimilarityService.
func NewSimilarityService(cfg SimilarityConfig, logger *zap.Logger) SimilarityService {
	return &similarityService{
		config: cfg,
		logger: logger.Named("similarity"),
	}
}

func (s *similarityService) Compare(newSig, existingSig *models.FileSignature, newFilename, existingFilename string) *models.SimilarityResult {
	score := models.SimilarityScore{
		Structure: structureScore(newSig, existingSig),
		Content:   contentScore(newSig, existingSig),
		Business:  businessScore(newSig.BusinessPatterns, existingSig.BusinessPatterns),
		Temporal:  temporalScore(newFilename, existingFilename),
	}
	score.Overall = s.config.StructureWeight*score.Structure +
		s.config.ContentWeight*score.Content +
		s.config.BusinessWeight*score.Business +
		s.config.TemporalWeight*score.Temporal

	result := &models.SimilarityResult{
		IsSimilar:   score.Overall >= s.config.SimilarThreshold,
		Confidence:  confidence(score),
		Score:       score,
		Suggestions: s.suggestActions(score),
	}
	return result
}

// structureScore blends column-set overlap with type agreement on the
// shared columns. Column names are compared as opaque strings.
func structureScore(newSig, existingSig *models.FileSignature) float64 {
	columnSimilarity := textmetric.JaccardSimilarity(newSig.Columns, existingSig.Columns) * 100

	common := 0
	typeMatches := 0
	existingCols := make(map[string]bool, len(existingSig.Columns))
	for _, c := range existingSig.Columns {
		existingCols[c] = true
	}
	for _, c := range newSig.Columns {
		if !existingCols[c] {
			continue
		}
		common++
		if newSig.ColumnTypes[c] == existingSig.ColumnTypes[c] {
			typeMatches++
		}
	}
	typeSimilarity := 0.0
	if common > 0 {
		typeSimilarity = float64(typeMatches) / float64(common) * 100
	}

	return 0.7*columnSimilarity + 0.3*typeSimilarity
}

// contentScore combines a directional row-count ratio with structure hash
// equality. The ratio bands reward modest growth: slightly more rows in the
// new file scores near 100, while shrinkage falls off faster.
func contentScore(newSig, existingSig *models.FileSignature) float64 {
	denominator := float64(existingSig.RowCount)
	if denominator < 1 {
		denominator = 1
	}
	ratio := float64(newSig.RowCount) / denominator

	var rowSimilarity float64
	switch {
	case ratio >= 1 && ratio <= 1.5:
		rowSimilarity = 100 - math.Abs(ratio-1)*100
	case ratio > 0.8 && ratio < 1:
		rowSimilarity = ratio * 100
	default:
		rowSimilarity = math.Max(0, 100-math.Abs(ratio-1)*50)
	}

	structureMatch := 0.0
	if newSig.StructureHash == existingSig.StructureHash {
		structureMatch = 100
	}

	return 0.6*rowSimilarity + 0.4*structureMatch
}

// businessScore awards 25 points per matching pattern flag plus half the
// tag-set Jaccard overlap, capped at 100.
func businessScore(newPat, existingPat models.BusinessPatterns) float64 {
	score := 0.0
	if newPat.HasAgents == existingPat.HasAgents {
		score += 25
	}
	if newPat.HasRevenue == existingPat.HasRevenue {
		score += 25
	}
	if newPat.HasPerformance == existingPat.HasPerformance {
		score += 25
	}
	if newPat.HasExitEmployees == existingPat.HasExitEmployees {
		score += 25
	}
	score += 0.5 * textmetric.JaccardSimilarity(newPat.Tags, existingPat.Tags) * 100
	return math.Min(100, score)
}

// temporalScore blends basename similarity (filenames with temporal tokens
// stripped) with a period-succession bonus.
func temporalScore(newFilename, existingFilename string) float64 {
	newBase := StripTemporalTokens(newFilename)
	existingBase := StripTemporalTokens(existingFilename)
	basenameSimilarity := (1 - textmetric.NormalizedLevenshtein(newBase, existingBase)) * 100

	logic := temporalLogicBonus(
		ExtractTemporalTokens(newFilename),
		ExtractTemporalTokens(existingFilename),
	)

	return 0.6*basenameSimilarity + 0.4*math.Min(100, logic)
}

// temporalLogicBonus scores period succession between two filenames: same
// or next year earns 50, a consecutive or year-wrapped week earns 30, and a
// consecutive or year-wrapped quarter earns another 30. The bonuses stack.
func temporalLogicBonus(newTok, existingTok models.TemporalTokens) float64 {
	bonus := 0.0
	if newTok.Year != 0 && existingTok.Year != 0 {
		if newTok.Year == existingTok.Year || newTok.Year == existingTok.Year+1 {
			bonus += 50
		}
	}
	if newTok.Week != 0 && existingTok.Week != 0 {
		if newTok.Week == existingTok.Week+1 || (existingTok.Week >= 52 && newTok.Week == 1) {
			bonus += 30
		}
	}
	if newTok.Quarter != 0 && existingTok.Quarter != 0 {
		if newTok.Quarter == existingTok.Quarter+1 || (existingTok.Quarter == 4 && newTok.Quarter == 1) {
			bonus += 30
		}
	}
	return bonus
}

// confidence rewards sub-scores that are both high and internally
// consistent: 80% mean, 20% inverted variance.
func confidence(score models.SimilarityScore) float64 {
	scores := [4]float64{score.Structure, score.Content, score.Business, score.Temporal}
	mean := (scores[0] + scores[1] + scores[2] + scores[3]) / 4

	variance := 0.0
	for _, v := range scores {
		variance += (v - mean) * (v - mean)
	}
	variance /= 4

	c := 0.8*mean + 0.2*(100-variance)
	return math.Max(0, math.Min(100, c))
}

// suggestActions maps the score bands onto a ranked action list. A
// Separate action is always appended; it is the recommended one whenever
// the pair is not similar.
func (s *similarityService) suggestActions(score models.SimilarityScore) []models.SimilarityAction {
	var actions []models.SimilarityAction

	switch {
	case score.Overall >= s.config.UpdateThreshold:
		actions = append(actions,
			models.SimilarityAction{
				Type:        models.ActionUpdate,
				Label:       "Update existing document",
				Description: "The upload looks like a refreshed version of the matched document. Replace its data in place.",
				Recommended: true,
			},
			models.SimilarityAction{
				Type:        models.ActionNewContext,
				Label:       "Create a new context",
				Description: "Keep the matched document and start a separate context for this upload.",
				Recommended: false,
			},
		)
	case score.Overall >= s.config.SimilarThreshold:
		actions = append(actions,
			models.SimilarityAction{
				Type:        models.ActionNewContext,
				Label:       "Create a new context",
				Description: "The upload is related but distinct. Start a new context linked to the matched document.",
				Recommended: true,
			},
			models.SimilarityAction{
				Type:        models.ActionUpdate,
				Label:       "Update existing document",
				Description: "Replace the matched document's data with this upload.",
				Recommended: false,
			},
		)
	case score.Structure >= s.config.VariantStructureThreshold:
		actions = append(actions, models.SimilarityAction{
			Type:        models.ActionNewContext,
			Label:       "Create a context for this variant",
			Description: "The upload shares the matched document's structure but diverges in content. Track it as a variant.",
			Recommended: true,
		})
	}

	actions = append(actions, models.SimilarityAction{
		Type:        models.ActionSeparate,
		Label:       "Treat as a separate file",
		Description: "Store the upload as an independent document with no link to existing data.",
		Recommended: score.Overall < s.config.SimilarThreshold,
	})

	return actions
}
