package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "github.com/michaeljuniorpb/Akasa-Leads-Analytic/internal/errors"
	"github.com/michaeljuniorpb/Akasa-Leads-Analytic/internal/middleware"
	"github.com/michaeljuniorpb/Akasa-Leads-Analytic/internal/services"
)

// InsightHandler handles narrative generation HTTP requests
type InsightHandler struct {
	service      *services.InsightService
	validator    *middleware.ValidationMiddleware
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewInsightHandler creates a new insight handler
func NewInsightHandler(service *services.InsightService, validator *middleware.ValidationMiddleware, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *InsightHandler {
	return &InsightHandler{
		service:      service,
		validator:    validator,
		logger:       logger.With(slog.String("component", "insight_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the insight routes
func (h *InsightHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/", h.Generate)

	return r
}

// insightRequest is the body for POST /api/insights
type insightRequest struct {
	From    string `json:"from" validate:"omitempty,iso8601"`
	To      string `json:"to" validate:"omitempty,iso8601"`
	Ranking string `json:"ranking" validate:"omitempty,oneof=bookings weighted"`
}

// Generate handles POST /api/insights
func (h *InsightHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req insightRequest
	if r.ContentLength > 0 {
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
			return
		}
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	from, err := parseOptionalDate(req.From)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("from", "must be a valid date in YYYY-MM-DD format"))
		return
	}
	to, err := parseOptionalDate(req.To)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("to", "must be a valid date in YYYY-MM-DD format"))
		return
	}

	narrative, stats, err := h.service.Narrative(r.Context(), from, to, req.Ranking)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":    "success",
		"narrative": narrative,
		"stats":     stats,
	})
}

func parseOptionalDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
