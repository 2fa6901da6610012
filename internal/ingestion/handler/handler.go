package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/ardiangashi/docsearch/internal/ingestion"
	"github.com/ardiangashi/docsearch/internal/ingestion/extract"
	"github.com/ardiangashi/docsearch/internal/ingestion/pipeline"
	"github.com/ardiangashi/docsearch/internal/ingestion/validator"
	apperrors "github.com/ardiangashi/docsearch/pkg/errors"
	"github.com/ardiangashi/docsearch/pkg/logger"
)

// seedDocuments are indexed by the seed endpoint for demos and smoke tests.
var seedDocuments = []ingestion.IngestRequest{
	{
		Title:   "Database Systems",
		Content: "An inverted index maps words to documents to enable fast search.",
	},
	{
		Title:   "Information Retrieval",
		Content: "TF-IDF evaluates word importance across documents.",
	},
	{
		Title:   "Search Engines",
		Content: "Search engines use inverted indexes to enable fast full-text search.",
	},
}

// Handler exposes the ingestion pipeline over HTTP.
type Handler struct {
	pipeline       *pipeline.Pipeline
	extractors     *extract.Registry
	maxUploadBytes int64
	logger         *slog.Logger
}

// New creates a Handler.
func New(p *pipeline.Pipeline, extractors *extract.Registry, maxUploadBytes int64) *Handler {
	return &Handler{
		pipeline:       p,
		extractors:     extractors,
		maxUploadBytes: maxUploadBytes,
		logger:         slog.Default().With("component", "ingestion-handler"),
	}
}

// Ingest handles POST /api/v1/documents with a JSON title/content body.
func (h *Handler) Ingest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	var req ingestion.IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	docID, err := h.pipeline.Ingest(ctx, req.Title, req.Content)
	if err != nil {
		h.writePipelineError(w, log, err)
		return
	}
	log.Info("document ingested", "doc_id", docID)
	h.writeJSON(w, http.StatusCreated, ingestion.IngestResponse{
		DocumentID: docID,
		Status:     "indexed",
	})
}

// IngestFile handles POST /api/v1/documents/file with a multipart form
// carrying a title field and a file. Text is pulled out of the file by the
// extractor registered for its extension.
func (h *Handler) IngestFile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		title = strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename))
	}

	content, err := h.extractors.Extract(ctx, header.Filename, file)
	if err != nil {
		log.Warn("text extraction failed", "filename", header.Filename, "error", err)
		h.writeError(w, apperrors.HTTPStatusCode(err), err.Error())
		return
	}

	docID, err := h.pipeline.Ingest(ctx, title, content)
	if err != nil {
		h.writePipelineError(w, log, err)
		return
	}
	log.Info("file ingested", "doc_id", docID, "filename", header.Filename)
	h.writeJSON(w, http.StatusCreated, ingestion.IngestResponse{
		DocumentID: docID,
		Status:     "indexed",
	})
}

// Seed handles POST /api/v1/documents/seed and indexes the built-in sample
// documents.
func (h *Handler) Seed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	ids := make([]int64, 0, len(seedDocuments))
	for _, doc := range seedDocuments {
		docID, err := h.pipeline.Ingest(ctx, doc.Title, doc.Content)
		if err != nil {
			h.writePipelineError(w, log, err)
			return
		}
		ids = append(ids, docID)
	}
	h.writeJSON(w, http.StatusCreated, map[string]any{
		"status":       "seeded",
		"document_ids": ids,
	})
}

func (h *Handler) writePipelineError(w http.ResponseWriter, log *slog.Logger, err error) {
	var validationErr *validator.ValidationError
	if errors.As(err, &validationErr) {
		h.writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "validation failed",
			"fields": validationErr.Fields,
		})
		return
	}
	statusCode := apperrors.HTTPStatusCode(err)
	if statusCode >= http.StatusInternalServerError {
		log.Error("ingestion failed", "error", err, "status_code", statusCode)
	} else {
		log.Warn("ingestion rejected", "error", err, "status_code", statusCode)
	}
	h.writeError(w, statusCode, err.Error())
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
