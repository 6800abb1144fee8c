package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fleetlens-io/fleetlens-engine/pkg/models"
	"github.com/fleetlens-io/fleetlens-engine/pkg/repositories"
)

// IngestionService runs the full upload pipeline: extraction, aggregation,
// quality assessment, signature building, optional summarization, and
// persistence. All collaborators are injected.
type IngestionService interface {
	// Ingest processes an uploaded file and stores the resulting document.
	Ingest(ctx context.Context, filename string, data []byte, businessContext string) (*models.DatasetDocument, error)

	// FindSimilar compares a stored document against the rest of the
	// inventory, best match first.
	FindSimilar(ctx context.Context, id uuid.UUID) ([]models.SimilarityResult, error)
}

type ingestionService struct {
	extraction  ExtractionService
	aggregation AggregationService
	quality     QualityService
	signatures  SignatureService
	summaries   SummaryService
	batch       SimilarityBatchService
	documents   repositories.DocumentRepository
	logger      *zap.Logger
}

var _ IngestionService = (*ingestionService)(nil)

// NewIngestionService creates an IngestionService.
func NewIngestionService(
	extraction ExtractionService,
	aggregation AggregationService,
	quality QualityService,
	signatures SignatureService,
	summaries SummaryService,
	batch SimilarityBatchService,
	documents repositories.DocumentRepository,
	logger *zap.Logger,
) IngestionService {
	return &ingestionService{
		extraction:  extraction,
		aggregation: aggregation,
		quality:     quality,
		signatures:  signatures,
		summaries:   summaries,
		batch:       batch,
		documents:   documents,
		logger:      logger.Named("ingestion"),
	}
}

func (s *ingestionService) Ingest(ctx context.Context, filename string, data []byte, businessContext string) (*models.DatasetDocument, error) {
	result, err := s.extraction.Extract(filename, data)
	if err != nil {
		return nil, err
	}

	aggregations, err := s.aggregation.Compute(result.RowMaps(), result.Columns)
	if err != nil {
		return nil, err
	}

	signature, err := s.signatures.Build(result)
	if err != nil {
		return nil, err
	}

	doc := &models.DatasetDocument{
		Filename:        filename,
		BusinessContext: businessContext,
		RowCount:        result.Shape.Rows,
		Columns:         result.Columns,
		Aggregations:    aggregations,
		Quality:         s.quality.Assess(result),
		Signature:       signature,
	}

	// Summarization is best effort. A provider outage must not block the
	// upload.
	summary, err := s.summaries.Summarize(ctx, doc)
	if err != nil {
		s.logger.Warn("summary generation failed",
			zap.String("filename", filename),
			zap.Error(err))
	} else {
		doc.Summary = summary
	}

	if err := s.documents.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("storing document %q: %w", filename, err)
	}

	s.logger.Info("ingested dataset",
		zap.String("document_id", doc.ID.String()),
		zap.String("filename", filename),
		zap.Int("rows", doc.RowCount),
		zap.Float64("quality", doc.Quality.OverallScore))
	return doc, nil
}

func (s *ingestionService) FindSimilar(ctx context.Context, id uuid.UUID) ([]models.SimilarityResult, error) {
	doc, err := s.documents.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.Signature == nil {
		return nil, fmt.Errorf("document %s has no signature", id)
	}

	all, err := s.documents.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	others := make([]models.DatasetDocument, 0, len(all))
	for _, other := range all {
		if other.ID != id {
			others = append(others, other)
		}
	}

	return s.batch.FindSimilar(ctx, doc.Signature, doc.Filename, others), nil
}
