package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	buildTime string
	leads     *LeadService
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Data      *DataHealth            `json:"data,omitempty"`
}

// DataHealth describes the persisted lead data set
type DataHealth struct {
	Leads       int        `json:"leads"`
	LastUpdated *time.Time `json:"last_updated,omitempty"`
}

// NewHealthService creates a new health service
func NewHealthService(version, buildTime string, leads *LeadService, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("HealthService initialized",
		slog.String("version", version),
		slog.String("build_time", buildTime))

	return &HealthService{
		version:   version,
		buildTime: buildTime,
		leads:     leads,
		startTime: time.Now(),
		logger:    logger,
	}
}

// Check reports the service health including data set state
func (s *HealthService) Check(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   s.version,
		Runtime: map[string]interface{}{
			"go_version":     runtime.Version(),
			"os":             runtime.GOOS,
			"arch":           runtime.GOARCH,
			"goroutines":     runtime.NumGoroutine(),
			"uptime_seconds": time.Since(s.startTime).Seconds(),
		},
	}

	if s.leads != nil {
		data := &DataHealth{}
		count, err := s.leads.Count()
		if err != nil {
			s.logger.WarnContext(ctx, "health check could not read lead count",
				slog.String("error", err.Error()))
			status.Status = "degraded"
		} else {
			data.Leads = count
		}
		if updated, err := s.leads.LastUpdated(); err == nil && !updated.IsZero() {
			data.LastUpdated = &updated
		}
		status.Data = data
	}

	return status
}
