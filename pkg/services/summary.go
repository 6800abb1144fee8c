package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/fleetlens-io/fleetlens-engine/pkg/llm"
	"github.com/fleetlens-io/fleetlens-engine/pkg/models"
	"github.com/fleetlens-io/fleetlens-engine/pkg/retry"
)

// SummaryService produces a short natural-language description of an
// ingested dataset from its aggregations and quality report.
type SummaryService interface {
	// Summarize returns a dataset summary, or an empty string when no
	// language model is configured.
	Summarize(ctx context.Context, doc *models.DatasetDocument) (string, error)
}

type summaryService struct {
	client llm.Client
	logger *zap.Logger
}

var _ SummaryService = (*summaryService)(nil)

const summarySystemMessage = "You describe tabular business datasets. " +
	"Write a factual three-sentence summary of the dataset from the statistics provided. " +
	"Mention the most important columns and any data quality concerns. Do not invent numbers."

// NewSummaryService creates a SummaryService. A nil client disables
// summarization without disabling ingestion.
func NewSummaryService(client llm.Client, logger *zap.Logger) SummaryService {
	return &summaryService{
		client: client,
		logger: logger.Named("summary"),
	}
}

func (s *summaryService) Summarize(ctx context.Context, doc *models.DatasetDocument) (string, error) {
	if s.client == nil {
		s.logger.Debug("no language model configured, skipping summary",
			zap.String("filename", doc.Filename))
		return "", nil
	}

	prompt := buildSummaryPrompt(doc)
	summary, err := retry.DoWithResult(ctx, retry.DefaultConfig(), func() (string, error) {
		return s.client.Complete(ctx, summarySystemMessage, prompt)
	})
	if err != nil {
		return "", fmt.Errorf("summarizing %q: %w", doc.Filename, err)
	}
	return strings.TrimSpace(summary), nil
}

// buildSummaryPrompt renders the document's stored statistics as a compact
// textual context. Keys are sorted so prompts are stable across runs.
func buildSummaryPrompt(doc *models.DatasetDocument) string {
	var b strings.Builder
	fmt.Fprintf(&b, "File: %s\nRows: %d\nColumns: %s\n", doc.Filename, doc.RowCount, strings.Join(doc.Columns, ", "))
	if doc.BusinessContext != "" {
		fmt.Fprintf(&b, "Business context: %s\n", doc.BusinessContext)
	}

	if agg := doc.Aggregations; agg != nil {
		cols := make([]string, 0, len(agg.Sums))
		for col := range agg.Sums {
			cols = append(cols, col)
		}
		sort.Strings(cols)
		for _, col := range cols {
			fmt.Fprintf(&b, "%s: sum=%.2f avg=%.2f min=%.2f max=%.2f over %d values\n",
				col, agg.Sums[col], agg.Averages[col], agg.Mins[col], agg.Maxs[col], agg.Counts[col])
		}
		if agg.Temporal != nil {
			fmt.Fprintf(&b, "Date columns: %s\n", strings.Join(agg.Temporal.DateColumns, ", "))
		}
	}

	if q := doc.Quality; q != nil {
		fmt.Fprintf(&b, "Data quality: %.0f/100\n", q.OverallScore)
		for _, rec := range q.Recommendations {
			fmt.Fprintf(&b, "Quality note: %s\n", rec)
		}
	}
	return b.String()
}
