// Command importer loads a lead export file into the local lead store from
// the command line, without going through the HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/michaeljuniorpb/Akasa-Leads-Analytic/internal/config"
	"github.com/michaeljuniorpb/Akasa-Leads-Analytic/internal/dataprocessing"
	"github.com/michaeljuniorpb/Akasa-Leads-Analytic/internal/exporter"
	"github.com/michaeljuniorpb/Akasa-Leads-Analytic/internal/importer"
	"github.com/michaeljuniorpb/Akasa-Leads-Analytic/internal/infrastructure"
	"github.com/michaeljuniorpb/Akasa-Leads-Analytic/internal/leadstore"
	"github.com/michaeljuniorpb/Akasa-Leads-Analytic/internal/sheets"
	"github.com/michaeljuniorpb/Akasa-Leads-Analytic/internal/validation"
	"github.com/michaeljuniorpb/Akasa-Leads-Analytic/pkg/contracts/domain"
)

func main() {
	filePath := flag.String("file", "", "path to the .xlsx or .csv lead export to import")
	sheetID := flag.String("sheet", "", "Google Sheets spreadsheet ID to pull instead of a file")
	readRange := flag.String("range", "", "A1 range for -sheet, comma-separated for multiple ranges (defaults to the configured range)")
	mode := flag.String("mode", "replace", "import mode: replace or append")
	export := flag.Bool("export", false, "write the normalized leads back out as a CSV report")
	flag.Parse()

	if *filePath != "" && *sheetID != "" {
		fmt.Fprintln(os.Stderr, "usage: importer -file <leads.xlsx|leads.csv> | -sheet <id> [-range A1] [-mode replace|append] [-export]")
		os.Exit(2)
	}
	if *mode != "replace" && *mode != "append" {
		fmt.Fprintf(os.Stderr, "invalid mode %q: must be replace or append\n", *mode)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = &config.Config{
			Paths: config.PathsConfig{DataDir: "data", ReportsDir: "reports", LogsDir: "logs"},
		}
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	if err := run(cfg, logger, runOptions{
		filePath:  *filePath,
		sheetID:   *sheetID,
		readRange: *readRange,
		mode:      *mode,
		export:    *export,
	}); err != nil {
		logger.Error("Import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

type runOptions struct {
	filePath  string
	sheetID   string
	readRange string
	mode      string
	export    bool
}

func run(cfg *config.Config, logger *slog.Logger, opts runOptions) error {
	// Tag the whole run with one trace ID so log lines correlate
	ctx := infrastructure.EnsureTraceID(context.Background())
	logger = infrastructure.LoggerWithContext(ctx)

	paths, err := config.ResolvePaths(cfg.Paths)
	if err != nil {
		return fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	table, err := loadTable(ctx, cfg, logger, opts)
	if err != nil {
		return err
	}

	leads := dataprocessing.NormalizeRows(table.Headers, table.Rows)
	if len(leads) == 0 {
		if opts.filePath != "" {
			return fmt.Errorf("no lead rows found in %s", opts.filePath)
		}
		return fmt.Errorf("no lead rows found in the requested sheet range")
	}
	for i := range leads {
		if leads[i].ID == "" {
			leads[i].ID = uuid.New().String()
		}
	}

	store, err := leadstore.New(paths.LeadsDir(), cfg.Store.BatchSize, logger)
	if err != nil {
		return fmt.Errorf("failed to open lead store: %w", err)
	}

	if opts.mode == "append" {
		err = store.Append(ctx, leads)
	} else {
		err = store.SaveAll(ctx, leads)
	}
	if err != nil {
		return fmt.Errorf("failed to persist leads: %w", err)
	}

	total, err := store.Count()
	if err != nil {
		return fmt.Errorf("failed to count stored leads: %w", err)
	}

	logger.Info("Import complete",
		slog.Int("imported", len(leads)),
		slog.Int("total", total))

	printSummary(leads)

	if opts.export {
		writer := exporter.NewCSVWriter(paths)
		path, err := writer.ExportLeads(leads)
		if err != nil {
			return fmt.Errorf("failed to export CSV report: %w", err)
		}
		logger.Info("Wrote CSV report", slog.String("path", path))
	}

	return nil
}

// loadTable reads the raw header/row table from either a local file or a
// Google Sheets range.
func loadTable(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts runOptions) (*importer.Table, error) {
	if opts.filePath != "" {
		fileValidator := validation.NewFileValidator(logger)
		if err := fileValidator.ValidateImportFile(opts.filePath); err != nil {
			return nil, err
		}

		logger.Info("Importing leads",
			slog.String("file", opts.filePath),
			slog.String("mode", opts.mode))

		table, err := importer.ReadFile(opts.filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", opts.filePath, err)
		}
		return table, nil
	}

	if cfg.Sheets.CredentialsFile == "" {
		return nil, fmt.Errorf("sheet import requires AKASA_SHEETS_CREDENTIALS_FILE")
	}

	sheetID := opts.sheetID
	if sheetID == "" {
		sheetID = cfg.Sheets.DefaultSheetID
	}
	if sheetID == "" {
		return nil, fmt.Errorf("no input: pass -file or -sheet, or configure a default sheet")
	}

	readRange := opts.readRange
	if readRange == "" {
		readRange = cfg.Sheets.DefaultRange
	}

	logger.Info("Importing leads",
		slog.String("sheet_id", sheetID),
		slog.String("range", readRange),
		slog.String("mode", opts.mode))

	client, err := sheets.NewClient(ctx, cfg.Sheets.CredentialsFile, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	ranges := splitRanges(readRange)
	if len(ranges) > 1 {
		tables, err := client.FetchAll(ctx, sheetID, ranges)
		if err != nil {
			return nil, err
		}
		return sheets.MergeTables(tables)
	}
	return client.Fetch(ctx, sheetID, readRange)
}

// splitRanges parses a comma-separated -range value into individual A1 ranges.
func splitRanges(spec string) []string {
	parts := strings.Split(spec, ",")
	ranges := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			ranges = append(ranges, part)
		}
	}
	return ranges
}

// printSummary writes a short funnel overview of the imported batch.
func printSummary(leads []domain.Lead) {
	stats := dataprocessing.Aggregate(leads, nil, dataprocessing.AggregateOptions{})

	fmt.Printf("Imported %d leads\n", stats.Funnel.Raw)
	fmt.Printf("  unique:   %d\n", stats.Funnel.Unique)
	fmt.Printf("  visited:  %d\n", stats.Funnel.Visited)
	fmt.Printf("  bookings: %d\n", stats.Funnel.Booking)
	if stats.TopSource != nil {
		fmt.Printf("  top source: %s\n", stats.TopSource.Source)
	}
	if stats.TopAgent != nil {
		fmt.Printf("  top agent:  %s\n", stats.TopAgent.Name)
	}
}
