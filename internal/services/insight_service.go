package services

import (
	"context"
	"log/slog"
	"time"

	apierrors "github.com/michaeljuniorpb/Akasa-Leads-Analytic/internal/errors"
	"github.com/michaeljuniorpb/Akasa-Leads-Analytic/internal/infrastructure"
	"github.com/michaeljuniorpb/Akasa-Leads-Analytic/pkg/contracts/domain"
)

// NarrativeGenerator produces an executive summary for a dashboard snapshot
type NarrativeGenerator interface {
	Summarize(ctx context.Context, stats *domain.DashboardStats, from, to string) (string, error)
}

// FallbackNarrative is served when the model call fails. The aggregates in
// the same response are still valid.
const FallbackNarrative = "Ringkasan naratif tidak dapat dibuat saat ini. Silakan coba beberapa saat lagi."

// NoDataNarrative is served without a model call when the filtered period
// holds no leads.
const NoDataNarrative = "Tidak ada data leads pada periode ini, sehingga ringkasan naratif belum dapat dibuat."

// InsightService generates narrative summaries on top of the lead service
type InsightService struct {
	leads     *LeadService
	generator NarrativeGenerator
	metrics   *infrastructure.Metrics
	logger    *slog.Logger
}

// NewInsightService creates an insight service. generator may be nil when
// the Gemini API is not configured.
func NewInsightService(leads *LeadService, generator NarrativeGenerator, metrics *infrastructure.Metrics, logger *slog.Logger) *InsightService {
	if logger == nil {
		logger = slog.Default()
	}
	return &InsightService{
		leads:     leads,
		generator: generator,
		metrics:   metrics,
		logger:    logger.With(slog.String("service", "insight")),
	}
}

// Narrative recomputes the aggregate for the given filter and asks the model
// for an executive summary.
func (s *InsightService) Narrative(ctx context.Context, from, to *time.Time, ranking string) (string, *domain.DashboardStats, error) {
	if s.generator == nil {
		return "", nil, apierrors.New(503, "INSIGHTS_NOT_CONFIGURED", "Narrative generation is not configured")
	}

	stats, err := s.leads.Analytics(ctx, from, to, ranking)
	if err != nil {
		return "", nil, err
	}

	// An empty period has nothing to summarize; skip the model round-trip.
	if stats.Status == domain.StatsNoData {
		s.countInsight("no_data")
		return NoDataNarrative, stats, nil
	}

	text, err := s.generator.Summarize(ctx, stats, displayDate(from), displayDate(to))
	if err != nil {
		// The numbers stay available even when the model call fails
		s.countInsight("error")
		s.logger.WarnContext(ctx, "narrative generation failed, using fallback",
			slog.String("error", err.Error()))
		return FallbackNarrative, stats, nil
	}
	s.countInsight("ok")

	return text, stats, nil
}

func displayDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return domain.DayKey(*t)
}

func (s *InsightService) countInsight(outcome string) {
	if s.metrics != nil {
		s.metrics.InsightsTotal.WithLabelValues(outcome).Inc()
	}
}
