// Package http contains the chi HTTP handlers for the lead analytics API.
package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "github.com/michaeljuniorpb/Akasa-Leads-Analytic/internal/errors"
	"github.com/michaeljuniorpb/Akasa-Leads-Analytic/internal/middleware"
	"github.com/michaeljuniorpb/Akasa-Leads-Analytic/internal/services"
	"github.com/michaeljuniorpb/Akasa-Leads-Analytic/internal/validation"
)

// LeadHandler handles lead import and data-set HTTP requests
type LeadHandler struct {
	service        *services.LeadService
	validator      *middleware.ValidationMiddleware
	queryParams    *middleware.QueryParamValidator
	fileValidator  *validation.FileValidator
	maxUploadBytes int64
	logger         *slog.Logger
	errorHandler   *apierrors.ErrorHandler
}

// NewLeadHandler creates a new lead handler
func NewLeadHandler(service *services.LeadService, validator *middleware.ValidationMiddleware, queryParams *middleware.QueryParamValidator, fileValidator *validation.FileValidator, maxUploadBytes int64, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *LeadHandler {
	return &LeadHandler{
		service:        service,
		validator:      validator,
		queryParams:    queryParams,
		fileValidator:  fileValidator,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With(slog.String("component", "lead_handler")),
		errorHandler:   errorHandler,
	}
}

// Routes returns the lead routes
func (h *LeadHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.List)
	r.Delete("/", h.DeleteAll)
	r.Post("/upload", h.Upload)
	r.Post("/sheets", h.ImportSheets)

	return r
}

// List handles GET /api/leads. Optional limit/offset page through the
// working set; the default returns everything.
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, ok := h.queryParams.ValidateInt(w, r, "limit", 1, 10000, 0)
	if !ok {
		return
	}
	offset, ok := h.queryParams.ValidateInt(w, r, "offset", 0, 1<<30, 0)
	if !ok {
		return
	}

	leads, err := h.service.List(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	total := len(leads)
	if offset > total {
		offset = total
	}
	leads = leads[offset:]
	if limit > 0 && limit < len(leads) {
		leads = leads[:limit]
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   leads,
		"count":  len(leads),
		"total":  total,
	})
}

// DeleteAll handles DELETE /api/leads
func (h *LeadHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteAll(r.Context()); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
	})
}

// Upload handles POST /api/leads/upload (multipart form with a "file" part)
func (h *LeadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", "a file part is required"))
		return
	}
	defer file.Close()

	if err := h.fileValidator.ValidateUpload(header.Filename, header.Size, h.maxUploadBytes); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	mode := services.ImportMode(r.FormValue("mode"))

	h.logger.InfoContext(r.Context(), "processing upload",
		slog.String("request_id", reqID),
		slog.String("filename", header.Filename),
		slog.Int64("size", header.Size),
		slog.String("mode", string(mode)),
	)

	result, err := h.service.ImportUpload(r.Context(), header.Filename, file, mode)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   result,
	})
}

// sheetsImportRequest is the body for POST /api/leads/sheets
type sheetsImportRequest struct {
	// SheetID may be omitted when a default spreadsheet is configured
	SheetID string `json:"sheet_id"`
	Range   string `json:"range"`
	Mode    string `json:"mode" validate:"omitempty,oneof=replace append"`
}

// ImportSheets handles POST /api/leads/sheets
func (h *LeadHandler) ImportSheets(w http.ResponseWriter, r *http.Request) {
	var req sheetsImportRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.service.ImportSheet(r.Context(), req.SheetID, req.Range, services.ImportMode(req.Mode))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   result,
	})
}
