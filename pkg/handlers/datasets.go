package handlers

import (
	"io"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fleetlens-io/fleetlens-engine/pkg/models"
	"github.com/fleetlens-io/fleetlens-engine/pkg/repositories"
	"github.com/fleetlens-io/fleetlens-engine/pkg/services"
)

// DatasetsHandler exposes dataset ingestion, retrieval and similarity
// endpoints.
type DatasetsHandler struct {
	ingestion   services.IngestionService
	documents   repositories.DocumentRepository
	maxBodySize int64
	logger      *zap.Logger
}

// NewDatasetsHandler creates a DatasetsHandler.
func NewDatasetsHandler(
	ingestion services.IngestionService,
	documents repositories.DocumentRepository,
	maxBodySize int64,
	logger *zap.Logger,
) *DatasetsHandler {
	return &DatasetsHandler{
		ingestion:   ingestion,
		documents:   documents,
		maxBodySize: maxBodySize,
		logger:      logger.Named("datasets_handler"),
	}
}

// RegisterRoutes registers the dataset routes on the given mux.
func (h *DatasetsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/datasets", h.Upload)
	mux.HandleFunc("GET /api/datasets", h.List)
	mux.HandleFunc("GET /api/datasets/{id}", h.Get)
	mux.HandleFunc("DELETE /api/datasets/{id}", h.Delete)
	mux.HandleFunc("POST /api/datasets/{id}/similar", h.FindSimilar)
}

// Upload handles POST /api/datasets. Expects a multipart form with a "file"
// part and an optional "business_context" field.
func (h *DatasetsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	if err := r.ParseMultipartForm(h.maxBodySize); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "expected multipart form upload")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "missing file part")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "failed to read file")
		return
	}

	doc, err := h.ingestion.Ingest(r.Context(), header.Filename, data, r.FormValue("business_context"))
	if err != nil {
		h.logger.Warn("upload rejected",
			zap.String("filename", header.Filename),
			zap.Error(err))
		_ = WriteError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusCreated, doc)
}

// List handles GET /api/datasets.
func (h *DatasetsHandler) List(w http.ResponseWriter, r *http.Request) {
	docs, err := h.documents.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list documents", zap.Error(err))
		_ = WriteError(w, err)
		return
	}
	if docs == nil {
		docs = []models.DatasetDocument{}
	}
	_ = WriteJSON(w, http.StatusOK, docs)
}

// Get handles GET /api/datasets/{id}.
func (h *DatasetsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	doc, err := h.documents.GetByID(r.Context(), id)
	if err != nil {
		_ = WriteError(w, err)
		return
	}
	_ = WriteJSON(w, http.StatusOK, doc)
}

// Delete handles DELETE /api/datasets/{id}.
func (h *DatasetsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.documents.Delete(r.Context(), id); err != nil {
		_ = WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// FindSimilar handles POST /api/datasets/{id}/similar: compares the stored
// document against the rest of the inventory.
func (h *DatasetsHandler) FindSimilar(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	results, err := h.ingestion.FindSimilar(r.Context(), id)
	if err != nil {
		_ = WriteError(w, err)
		return
	}
	if results == nil {
		results = []models.SimilarityResult{}
	}
	_ = WriteJSON(w, http.StatusOK, results)
}

func (h *DatasetsHandler) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid document id")
		return uuid.Nil, false
	}
	return id, true
}
