package infrastructure

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the service
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	ImportsTotal   *prometheus.CounterVec
	LeadsStored    prometheus.Gauge
	InsightsTotal  *prometheus.CounterVec
	SheetsFetches  *prometheus.CounterVec
}

// NewMetrics creates and registers the service metrics on a fresh registry
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		ImportsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lead_imports_total",
			Help: "Total number of lead import operations by source and outcome",
		}, []string{"source", "outcome"}),
		LeadsStored: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "leads_stored",
			Help: "Number of lead records currently persisted",
		}),
		InsightsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "insight_generations_total",
			Help: "Total number of narrative generation attempts by outcome",
		}, []string{"outcome"}),
		SheetsFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sheets_fetches_total",
			Help: "Total number of Google Sheets fetches by outcome",
		}, []string{"outcome"}),
	}

	registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.ImportsTotal,
		m.LeadsStored,
		m.InsightsTotal,
		m.SheetsFetches,
	)

	return m
}

// Middleware records request counts and latencies per chi route pattern
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}

		m.requestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(ww.Status())).Inc()
		m.requestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Handler returns the HTTP handler for the /metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
