package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/michaeljuniorpb/Akasa-Leads-Analytic/internal/dataprocessing"
	apierrors "github.com/michaeljuniorpb/Akasa-Leads-Analytic/internal/errors"
	"github.com/michaeljuniorpb/Akasa-Leads-Analytic/internal/importer"
	"github.com/michaeljuniorpb/Akasa-Leads-Analytic/internal/infrastructure"
	"github.com/michaeljuniorpb/Akasa-Leads-Analytic/internal/leadstore"
	"github.com/michaeljuniorpb/Akasa-Leads-Analytic/pkg/contracts/domain"
)

// ImportMode selects how an import interacts with the existing data set
type ImportMode string

const (
	// ImportReplace discards the existing data set and starts fresh
	ImportReplace ImportMode = "replace"
	// ImportAppend adds the imported records to the existing data set
	ImportAppend ImportMode = "append"
)

// ImportResult summarizes a completed import
type ImportResult struct {
	Imported int        `json:"imported"`
	Total    int        `json:"total"`
	Mode     ImportMode `json:"mode"`
	Source   string     `json:"source"`
}

// SheetFetcher fetches a raw table from Google Sheets
type SheetFetcher interface {
	Fetch(ctx context.Context, sheetID, readRange string) (*importer.Table, error)
}

// LeadService orchestrates imports, persistence and aggregation
type LeadService struct {
	store   *leadstore.Store
	sheets  SheetFetcher
	metrics *infrastructure.Metrics
	ranking dataprocessing.RankingStrategy
	logger  *slog.Logger

	defaultSheetID string
	defaultRange   string
}

// NewLeadService creates a lead service. sheets and metrics may be nil when
// the corresponding features are not configured.
func NewLeadService(store *leadstore.Store, sheets SheetFetcher, metrics *infrastructure.Metrics, ranking dataprocessing.RankingStrategy, logger *slog.Logger) *LeadService {
	if logger == nil {
		logger = slog.Default()
	}
	if ranking == "" {
		ranking = dataprocessing.RankByBookings
	}
	return &LeadService{
		store:   store,
		sheets:  sheets,
		metrics: metrics,
		ranking: ranking,
		logger:  logger.With(slog.String("service", "lead")),
	}
}

// ImportUpload parses an uploaded .xlsx or .csv file and persists the
// normalized records.
func (s *LeadService) ImportUpload(ctx context.Context, filename string, r io.Reader, mode ImportMode) (*ImportResult, error) {
	var table *importer.Table
	var err error

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		table, err = importer.ReadWorkbook(r)
	case ".csv":
		table, err = importer.ReadCSV(r)
	default:
		return nil, apierrors.ErrUnsupportedFileType
	}
	if err != nil {
		s.countImport("upload", "parse_error")
		if errors.Is(err, importer.ErrNoData) {
			return nil, apierrors.ErrEmptyImport
		}
		return nil, apierrors.InvalidRequestWithError(err)
	}

	return s.importTable(ctx, table, mode, "upload")
}

// SetSheetDefaults installs the configured fallback spreadsheet ID and read
// range. Callers may still override both per request.
func (s *LeadService) SetSheetDefaults(sheetID, readRange string) {
	s.defaultSheetID = sheetID
	s.defaultRange = readRange
}

// ImportSheet fetches a Google Sheets range and persists the normalized
// records. Empty sheetID/readRange fall back to the configured defaults.
func (s *LeadService) ImportSheet(ctx context.Context, sheetID, readRange string, mode ImportMode) (*ImportResult, error) {
	if sheetID == "" {
		sheetID = s.defaultSheetID
	}
	if sheetID == "" {
		return nil, apierrors.ErrValidation("sheet_id", "a spreadsheet ID is required")
	}
	if readRange == "" {
		readRange = s.defaultRange
	}

	if s.sheets == nil {
		return nil, apierrors.New(503, "SHEETS_NOT_CONFIGURED", "Google Sheets integration is not configured")
	}

	table, err := s.sheets.Fetch(ctx, sheetID, readRange)
	if err != nil {
		s.countSheetsFetch("error")
		if errors.Is(err, importer.ErrNoData) {
			return nil, apierrors.ErrEmptyImport
		}
		return nil, apierrors.SheetsFetchError(err)
	}
	s.countSheetsFetch("ok")

	return s.importTable(ctx, table, mode, "sheets")
}

// importTable normalizes a raw table and persists it under the given mode
func (s *LeadService) importTable(ctx context.Context, table *importer.Table, mode ImportMode, source string) (*ImportResult, error) {
	if mode == "" {
		mode = ImportReplace
	}

	leads := dataprocessing.NormalizeRows(table.Headers, table.Rows)
	for i := range leads {
		if leads[i].ID == "" {
			leads[i].ID = uuid.New().String()
		}
	}

	var err error
	switch mode {
	case ImportReplace:
		err = s.store.SaveAll(ctx, leads)
	case ImportAppend:
		err = s.store.Append(ctx, leads)
	default:
		return nil, apierrors.ErrValidation("mode", fmt.Sprintf("mode must be %q or %q", ImportReplace, ImportAppend))
	}
	if err != nil {
		s.countImport(source, "store_error")
		return nil, apierrors.StoreError("import", err)
	}

	total, err := s.store.Count()
	if err != nil {
		return nil, apierrors.StoreError("count", err)
	}

	s.countImport(source, "ok")
	if s.metrics != nil {
		s.metrics.LeadsStored.Set(float64(total))
	}

	s.logger.InfoContext(ctx, "lead import completed",
		slog.String("source", source),
		slog.String("mode", string(mode)),
		slog.Int("imported", len(leads)),
		slog.Int("total", total),
	)

	return &ImportResult{
		Imported: len(leads),
		Total:    total,
		Mode:     mode,
		Source:   source,
	}, nil
}

// List returns the full persisted lead set
func (s *LeadService) List(ctx context.Context) ([]domain.Lead, error) {
	leads, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, apierrors.StoreError("load", err)
	}
	return leads, nil
}

// Count returns the number of persisted leads
func (s *LeadService) Count() (int, error) {
	return s.store.Count()
}

// LastUpdated returns when the data set was last written
func (s *LeadService) LastUpdated() (time.Time, error) {
	return s.store.LastUpdated()
}

// DeleteAll removes the persisted lead set
func (s *LeadService) DeleteAll(ctx context.Context) error {
	if err := s.store.DeleteAll(ctx); err != nil {
		return apierrors.StoreError("delete", err)
	}
	if s.metrics != nil {
		s.metrics.LeadsStored.Set(0)
	}
	s.logger.InfoContext(ctx, "lead data set deleted")
	return nil
}

// Analytics recomputes the dashboard aggregate over the persisted lead set.
// from and to are optional; a half-open filter is widened on the missing side.
func (s *LeadService) Analytics(ctx context.Context, from, to *time.Time, ranking string) (*domain.DashboardStats, error) {
	leads, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, apierrors.StoreError("load", err)
	}

	strategy := s.ranking
	if ranking != "" {
		strategy = dataprocessing.RankingStrategy(ranking)
	}

	stats := dataprocessing.Aggregate(leads, buildRange(from, to), dataprocessing.AggregateOptions{
		Ranking: strategy,
	})

	s.logger.InfoContext(ctx, "analytics recomputed",
		slog.Int("leads", len(leads)),
		slog.String("status", string(stats.Status)),
		slog.String("ranking", string(strategy)),
	)
	return stats, nil
}

// buildRange widens a half-open date filter on the missing side
func buildRange(from, to *time.Time) *domain.DateRange {
	if from == nil && to == nil {
		return nil
	}
	rng := &domain.DateRange{
		Start: time.Date(1, 1, 1, 0, 0, 0, 0, time.Local),
		End:   time.Date(9999, 12, 31, 0, 0, 0, 0, time.Local),
	}
	if from != nil {
		rng.Start = *from
	}
	if to != nil {
		rng.End = *to
	}
	return rng
}

func (s *LeadService) countImport(source, outcome string) {
	if s.metrics != nil {
		s.metrics.ImportsTotal.WithLabelValues(source, outcome).Inc()
	}
}

func (s *LeadService) countSheetsFetch(outcome string) {
	if s.metrics != nil {
		s.metrics.SheetsFetches.WithLabelValues(outcome).Inc()
	}
}
