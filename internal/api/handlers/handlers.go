// Package handlers implements the HTTP endpoints of the API server.
package handlers

import (
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/moumensaid/smartfin/internal/api/middleware"
	"github.com/moumensaid/smartfin/internal/jobs"
	"github.com/moumensaid/smartfin/internal/metrics"
	"github.com/moumensaid/smartfin/internal/report"
	"github.com/moumensaid/smartfin/internal/store"
	"github.com/moumensaid/smartfin/internal/uploads"
)

// maxUploadSize caps statement uploads at 32 MB. Bank statement PDFs are
// typically well under 5 MB.
const maxUploadSize = 32 << 20

// StatementsHandler handles statement upload endpoints.
type StatementsHandler struct {
	blobs     uploads.BlobStore
	publisher jobs.Publisher
	log       zerolog.Logger
}

// NewStatementsHandler creates a new statements handler.
func NewStatementsHandler(blobs uploads.BlobStore, publisher jobs.Publisher, log zerolog.Logger) *StatementsHandler {
	return &StatementsHandler{
		blobs:     blobs,
		publisher: publisher,
		log:       log,
	}
}

// Upload handles POST /api/statements/upload. It accepts a multipart PDF
// upload, stores the raw bytes and enqueues a parse job. Extraction happens
// asynchronously; poll /api/jobs/{id} for the result.
func (h *StatementsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	fileName := filepath.Base(header.Filename)
	if !strings.EqualFold(filepath.Ext(fileName), ".pdf") {
		middleware.WriteError(w, http.StatusBadRequest, "Only PDF files are supported")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.log.Error().Err(err).Str("file_name", fileName).Msg("Failed to read upload")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to read upload")
		return
	}

	fileRef, err := h.blobs.Save(ctx, fileName, data)
	if err != nil {
		h.log.Error().Err(err).Str("file_name", fileName).Msg("Failed to store upload")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to store upload")
		return
	}

	job := &jobs.ParseStatementJob{
		DocumentID: uuid.NewString(),
		FileRef:    fileRef,
		FileName:   fileName,
	}
	if err := h.publisher.PublishParseStatement(ctx, job); err != nil {
		h.log.Error().Err(err).Str("file_name", fileName).Msg("Failed to enqueue parse job")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to enqueue parse job")
		return
	}

	h.log.Info().
		Str("job_id", job.JobID).
		Str("document_id", job.DocumentID).
		Str("file_ref", fileRef).
		Msg("Parse job enqueued")

	middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
		"job_id":      job.JobID,
		"document_id": job.DocumentID,
		"file_name":   fileName,
		"status":      string(job.Status),
	})
}

// DataHandler serves the raw statement collection.
type DataHandler struct {
	repo *store.Repository
	log  zerolog.Logger
}

// NewDataHandler creates a new data handler.
func NewDataHandler(repo *store.Repository, log zerolog.Logger) *DataHandler {
	return &DataHandler{repo: repo, log: log}
}

// GetFinancialData handles GET /api/financial-data. It returns the persisted
// collection as-is, an empty array when nothing has been ingested yet.
func (h *DataHandler) GetFinancialData(w http.ResponseWriter, r *http.Request) {
	records, err := h.repo.Load()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load collection")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load financial data")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, records)
}

// MetricsHandler serves derived financial metrics.
type MetricsHandler struct {
	repo *store.Repository
	log  zerolog.Logger
}

// NewMetricsHandler creates a new metrics handler.
func NewMetricsHandler(repo *store.Repository, log zerolog.Logger) *MetricsHandler {
	return &MetricsHandler{repo: repo, log: log}
}

// GetFinancialMetrics handles GET /api/financial-metrics.
func (h *MetricsHandler) GetFinancialMetrics(w http.ResponseWriter, r *http.Request) {
	records, err := h.repo.Load()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load collection")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load financial data")
		return
	}
	if len(records) == 0 {
		middleware.WriteError(w, http.StatusNotFound, "No financial data available")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, metrics.Compute(records))
}

// ContextHandler serves the plain-text analysis report.
type ContextHandler struct {
	repo *store.Repository
	log  zerolog.Logger
}

// NewContextHandler creates a new context handler.
func NewContextHandler(repo *store.Repository, log zerolog.Logger) *ContextHandler {
	return &ContextHandler{repo: repo, log: log}
}

// GetFinancialContext handles GET /api/financial-context.
func (h *ContextHandler) GetFinancialContext(w http.ResponseWriter, r *http.Request) {
	records, err := h.repo.Load()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load collection")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load financial data")
		return
	}
	if len(records) == 0 {
		middleware.WriteError(w, http.StatusNotFound, "No financial data available")
		return
	}

	text := report.Render(metrics.Compute(records))
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, text)
}

// JobsHandler handles job-related endpoints.
type JobsHandler struct {
	store jobs.JobStore
	log   zerolog.Logger
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(store jobs.JobStore, log zerolog.Logger) *JobsHandler {
	return &JobsHandler{store: store, log: log}
}

// GetJob handles GET /api/jobs/{id}
func (h *JobsHandler) GetJob(w http.ResponseWriter, r *http.Request, jobID string) {
	ctx := r.Context()

	job, err := h.store.GetJob(ctx, jobID)
	if err != nil {
		h.log.Error().Err(err).Str("job_id", jobID).Msg("Failed to get job")
		middleware.WriteError(w, http.StatusNotFound, "Job not found")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, job)
}

// ListJobs handles GET /api/jobs
func (h *JobsHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query := r.URL.Query()
	filter := jobs.JobFilter{
		DocumentID: query.Get("document_id"),
		Status:     jobs.JobStatus(query.Get("status")),
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = limit
		}
	}
	if offsetStr := query.Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil {
			filter.Offset = offset
		}
	}

	jobsList, err := h.store.ListJobs(ctx, filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list jobs")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list jobs")
		return
	}
	if jobsList == nil {
		jobsList = []*jobs.ParseStatementJob{}
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  jobsList,
		"count": len(jobsList),
	})
}
