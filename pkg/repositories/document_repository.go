// Package repositories provides PostgreSQL data access for stored dataset
// documents.
package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fleetlens-io/fleetlens-engine/pkg/apperrors"
	"github.com/fleetlens-io/fleetlens-engine/pkg/database"
	"github.com/fleetlens-io/fleetlens-engine/pkg/models"
)

// DocumentRepository provides data access for ingested dataset documents.
type DocumentRepository interface {
	// Create inserts a document and fills in its generated ID and upload
	// timestamp.
	Create(ctx context.Context, doc *models.DatasetDocument) error

	// GetByID returns a single document. Returns apperrors.ErrNotFound
	// when it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*models.DatasetDocument, error)

	// List returns all documents, newest first.
	List(ctx context.Context) ([]models.DatasetDocument, error)

	// Delete removes a document. Returns apperrors.ErrNotFound when it
	// does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

type documentRepository struct {
	db *database.DB
}

var _ DocumentRepository = (*documentRepository)(nil)

// NewDocumentRepository creates a DocumentRepository on the given pool.
func NewDocumentRepository(db *database.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(ctx context.Context, doc *models.DatasetDocument) error {
	aggregations, err := jsonbValue(doc.Aggregations)
	if err != nil {
		return fmt.Errorf("failed to encode aggregations: %w", err)
	}
	quality, err := jsonbValue(doc.Quality)
	if err != nil {
		return fmt.Errorf("failed to encode quality report: %w", err)
	}
	signature, err := jsonbValue(doc.Signature)
	if err != nil {
		return fmt.Errorf("failed to encode signature: %w", err)
	}

	query := `
		INSERT INTO dataset_documents (
			filename, business_context, row_count, column_names,
			aggregations, quality, signature, summary, uploaded_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, uploaded_at`

	err = r.db.QueryRow(ctx, query,
		doc.Filename,
		nullableString(doc.BusinessContext),
		doc.RowCount,
		doc.Columns,
		aggregations,
		quality,
		signature,
		doc.Summary,
		time.Now(),
	).Scan(&doc.ID, &doc.UploadedAt)
	if err != nil {
		return fmt.Errorf("failed to create dataset document: %w", err)
	}
	return nil
}

func (r *documentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.DatasetDocument, error) {
	query := selectDocuments + ` WHERE id = $1`

	row := r.db.QueryRow(ctx, query, id)
	doc, err := scanDocument(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("dataset document %s: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get dataset document: %w", err)
	}
	return doc, nil
}

func (r *documentRepository) List(ctx context.Context) ([]models.DatasetDocument, error) {
	query := selectDocuments + ` ORDER BY uploaded_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list dataset documents: %w", err)
	}
	defer rows.Close()

	var docs []models.DatasetDocument
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dataset document: %w", err)
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate dataset documents: %w", err)
	}
	return docs, nil
}

func (r *documentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM dataset_documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete dataset document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("dataset document %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

const selectDocuments = `
	SELECT id, filename, business_context, row_count, column_names,
	       aggregations, quality, signature, summary, uploaded_at
	FROM dataset_documents`

// rowScanner covers pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*models.DatasetDocument, error) {
	var (
		doc             models.DatasetDocument
		businessContext *string
		aggregations    []byte
		quality         []byte
		signature       []byte
	)
	err := row.Scan(
		&doc.ID,
		&doc.Filename,
		&businessContext,
		&doc.RowCount,
		&doc.Columns,
		&aggregations,
		&quality,
		&signature,
		&doc.Summary,
		&doc.UploadedAt,
	)
	if err != nil {
		return nil, err
	}

	if businessContext != nil {
		doc.BusinessContext = *businessContext
	}
	if err := jsonbScan(aggregations, &doc.Aggregations); err != nil {
		return nil, fmt.Errorf("decoding aggregations: %w", err)
	}
	if err := jsonbScan(quality, &doc.Quality); err != nil {
		return nil, fmt.Errorf("decoding quality report: %w", err)
	}
	if err := jsonbScan(signature, &doc.Signature); err != nil {
		return nil, fmt.Errorf("decoding signature: %w", err)
	}
	return &doc, nil
}

// jsonbValue encodes a value for a nullable JSONB column. Typed nil pointers
// become SQL NULL.
func jsonbValue(v any) (any, error) {
	switch t := v.(type) {
	case *models.Aggregations:
		if t == nil {
			return nil, nil
		}
	case *models.QualityReport:
		if t == nil {
			return nil, nil
		}
	case *models.FileSignature:
		if t == nil {
			return nil, nil
		}
	}
	return json.Marshal(v)
}

// jsonbScan decodes a nullable JSONB column into the target pointer. NULL
// leaves the target nil.
func jsonbScan(data []byte, target any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, target)
}

// nullableString maps empty strings to SQL NULL.
func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
