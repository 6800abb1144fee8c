package services

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/fleetlens-io/fleetlens-engine/pkg/models"
)

// SimilarityBatchConfig tunes the batch comparison fan-out.
type SimilarityBatchConfig struct {
	// Workers bounds the number of concurrent comparisons.
	Workers int
}

// DefaultSimilarityBatchConfig returns the standard pool size.
func DefaultSimilarityBatchConfig() SimilarityBatchConfig {
	return SimilarityBatchConfig{Workers: 4}
}

// SimilarityBatchService compares a new upload against the full document
// inventory and returns the similar ones, best match first.
type SimilarityBatchService interface {
	// FindSimilar compares the new signature against every existing
	// document. Documents whose stored signature is missing or broken are
	// skipped with a warning; they never fail the batch. Results are
	// filtered to similar matches and sorted by confidence descending.
	FindSimilar(ctx context.Context, newSig *models.FileSignature, newFilename string, existing []models.DatasetDocument) []models.SimilarityResult
}

type similarityBatchService struct {
	config SimilarityBatchConfig
	scorer SimilarityService
	logger *zap.Logger
}

var _ SimilarityBatchService = (*similarityBatchService)(nil)

// NewSimilarityBatchService creates a SimilarityBatchService over the given
// scorer.
func NewSimilarityBatchService(cfg SimilarityBatchConfig, scorer SimilarityService, logger *zap.Logger) SimilarityBatchService {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &similarityBatchService{
		config: cfg,
		scorer: scorer,
		logger: logger.Named("similarity_batch"),
	}
}

func (s *similarityBatchService) FindSimilar(ctx context.Context, newSig *models.FileSignature, newFilename string, existing []models.DatasetDocument) []models.SimilarityResult {
	results := make([]*models.SimilarityResult, len(existing))

	var wg sync.WaitGroup
	sem := make(chan struct{}, s.config.Workers)
	for i := range existing {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = s.compareOne(newSig, newFilename, &existing[i])
		}(i)
	}
	wg.Wait()

	matches := make([]models.SimilarityResult, 0, len(existing))
	for _, r := range results {
		if r != nil && r.IsSimilar {
			matches = append(matches, *r)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Confidence > matches[j].Confidence
	})
	return matches
}

// compareOne scores the new upload against a single stored document.
// Returns nil when the document cannot be compared.
func (s *similarityBatchService) compareOne(newSig *models.FileSignature, newFilename string, doc *models.DatasetDocument) *models.SimilarityResult {
	if doc.Signature == nil {
		s.logger.Warn("skipping document without stored signature",
			zap.String("document_id", doc.ID.String()),
			zap.String("filename", doc.Filename))
		return nil
	}

	result := s.scorer.Compare(newSig, doc.Signature, newFilename, doc.Filename)
	result.MatchedDocument = &models.MatchedDocument{
		ID:         doc.ID,
		Filename:   doc.Filename,
		Context:    doc.BusinessContext,
		UploadedAt: doc.UploadedAt,
	}
	return result
}
