package services

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/fleetlens-io/fleetlens-engine/pkg/apperrors"
	"github.com/fleetlens-io/fleetlens-engine/pkg/models"
)

// SignatureService builds compact, comparable fingerprints of extracted
// datasets. A signature captures structure (columns, types, shape), detected
// business patterns and two SHA-256 digests, so documents can be compared
// without re-reading their rows.
type SignatureService interface {
	// Build derives a FileSignature from an extraction result. Returns
	// apperrors.ErrInsufficientData when column metadata or row data is
	// missing.
	Build(result *models.ExtractionResult) (*models.FileSignature, error)
}

type signatureService struct {
	detector *BusinessPatternDetector
	logger   *zap.Logger
}

var _ SignatureService = (*signatureService)(nil)

// NewSignatureService creates a SignatureService using the given pattern
// detector.
func NewSignatureService(detector *BusinessPatternDetector, logger *zap.Logger) SignatureService {
	return &signatureService{
		detector: detector,
		logger:   logger.Named("signature"),
	}
}

func (s *signatureService) Build(result *models.ExtractionResult) (*models.FileSignature, error) {
	if result == nil || len(result.Columns) == 0 {
		return nil, fmt.Errorf("building signature: column metadata missing: %w", apperrors.ErrInsufficientData)
	}
	rows := result.RowMaps()
	if rows == nil {
		return nil, fmt.Errorf("building signature for %q: row data missing: %w", result.Filename, apperrors.ErrInsufficientData)
	}

	sig := &models.FileSignature{
		Columns:     append([]string(nil), result.Columns...),
		ColumnTypes: make(map[string]string, len(result.Dtypes)),
		RowCount:    result.Shape.Rows,
	}
	for col, dtype := range result.Dtypes {
		sig.ColumnTypes[col] = dtype
	}

	sig.BusinessPatterns = s.detector.Detect(result.Columns, rows)

	structureHash, err := structureDigest(result.Columns, result.Shape)
	if err != nil {
		return nil, fmt.Errorf("hashing structure for %q: %w", result.Filename, err)
	}
	sig.StructureHash = structureHash

	contentHash, err := contentDigest(rows)
	if err != nil {
		return nil, fmt.Errorf("hashing content for %q: %w", result.Filename, err)
	}
	sig.ContentHash = contentHash

	return sig, nil
}

// structureDigest hashes the sorted column list and the dataset shape.
// Sorting makes the digest independent of column order.
func structureDigest(columns []string, shape models.Shape) (string, error) {
	sorted := append([]string(nil), columns...)
	sort.Strings(sorted)
	return canonicalDigest(map[string]any{
		"columns": sorted,
		"rows":    shape.Rows,
		"cols":    shape.Columns,
	})
}

// contentDigest hashes a bounded sample of the data: the first three and
// last three rows. Overlapping samples on short datasets are hashed as-is.
func contentDigest(rows []map[string]any) (string, error) {
	head := rows
	if len(head) > 3 {
		head = head[:3]
	}
	tail := rows
	if len(tail) > 3 {
		tail = tail[len(tail)-3:]
	}
	return canonicalDigest(map[string]any{
		"head": canonicalRows(head),
		"tail": canonicalRows(tail),
	})
}

// canonicalRows renders rows with sorted keys and string values so the
// digest does not depend on map iteration order or numeric formatting.
func canonicalRows(rows []map[string]any) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		keys := make([]string, 0, len(row))
		for k := range row {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		cells := make([]string, 0, len(keys)*2)
		for _, k := range keys {
			cells = append(cells, k, stringifyValue(row[k]))
		}
		out = append(out, cells)
	}
	return out
}

// canonicalDigest returns the hex SHA-256 of the JSON encoding of v.
// encoding/json sorts map keys, which makes the encoding canonical for the
// shapes hashed here.
func canonicalDigest(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
