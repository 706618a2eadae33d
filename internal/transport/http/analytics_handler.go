package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "github.com/michaeljuniorpb/Akasa-Leads-Analytic/internal/errors"
	"github.com/michaeljuniorpb/Akasa-Leads-Analytic/internal/middleware"
	"github.com/michaeljuniorpb/Akasa-Leads-Analytic/internal/services"
)

// rankingValues are the accepted agent ranking strategies
var rankingValues = []string{"bookings", "weighted"}

// AnalyticsHandler handles dashboard aggregate HTTP requests
type AnalyticsHandler struct {
	service      *services.LeadService
	queryParams  *middleware.QueryParamValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(service *services.LeadService, queryParams *middleware.QueryParamValidator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AnalyticsHandler {
	return &AnalyticsHandler{
		service:      service,
		queryParams:  queryParams,
		logger:       logger.With(slog.String("component", "analytics_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the analytics routes
func (h *AnalyticsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.GetAnalytics)

	return r
}

// GetAnalytics handles GET /api/analytics?from=&to=&ranking=
func (h *AnalyticsHandler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	from, ok := h.queryParams.ValidateDate(w, r, "from")
	if !ok {
		return
	}
	to, ok := h.queryParams.ValidateDate(w, r, "to")
	if !ok {
		return
	}
	if from != nil && to != nil && to.Before(*from) {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("to", "to must not be before from"))
		return
	}
	ranking, ok := h.queryParams.ValidateEnum(w, r, "ranking", rankingValues, "")
	if !ok {
		return
	}

	stats, err := h.service.Analytics(r.Context(), from, to, ranking)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   stats,
	})
}
