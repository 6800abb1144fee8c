package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fleetlens-io/fleetlens-engine/pkg/logging"
	"github.com/fleetlens-io/fleetlens-engine/pkg/repositories"
	"github.com/fleetlens-io/fleetlens-engine/pkg/services"
)

// QueryHandler classifies user questions about stored datasets.
type QueryHandler struct {
	classifier services.QueryClassifierService
	documents  repositories.DocumentRepository
	logger     *zap.Logger
}

// NewQueryHandler creates a QueryHandler.
func NewQueryHandler(
	classifier services.QueryClassifierService,
	documents repositories.DocumentRepository,
	logger *zap.Logger,
) *QueryHandler {
	return &QueryHandler{
		classifier: classifier,
		documents:  documents,
		logger:     logger.Named("query_handler"),
	}
}

// RegisterRoutes registers the query routes on the given mux.
func (h *QueryHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/query/classify", h.Classify)
}

// ClassifyRequest is the body of POST /api/query/classify. DocumentID is
// optional; when present the document's columns seed the relevant-column
// matching.
type ClassifyRequest struct {
	Question   string `json:"question"`
	DocumentID string `json:"document_id,omitempty"`
}

// Classify handles POST /api/query/classify.
func (h *QueryHandler) Classify(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "question is required")
		return
	}

	var columns []string
	if req.DocumentID != "" {
		id, err := uuid.Parse(req.DocumentID)
		if err != nil {
			_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid document id")
			return
		}
		doc, err := h.documents.GetByID(r.Context(), id)
		if err != nil {
			_ = WriteError(w, err)
			return
		}
		columns = doc.Columns
	}

	classification := h.classifier.Classify(req.Question, columns)
	h.logger.Debug("classified question",
		zap.String("question", logging.SanitizeQuestion(req.Question)),
		zap.String("type", string(classification.Type)))
	_ = WriteJSON(w, http.StatusOK, classification)
}
