// Package sheets fetches lead exports from Google Sheets using a service
// account and converts them into raw tables for normalization.
package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/michaeljuniorpb/Akasa-Leads-Analytic/internal/importer"
)

// Client wraps the Google Sheets API for read-only lead fetches
type Client struct {
	service *sheets.Service
	logger  *slog.Logger
}

// NewClient creates a Sheets client from a service account credentials file
func NewClient(ctx context.Context, credentialsFile string, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	credentialsJSON, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}
	if len(credentialsJSON) == 0 {
		return nil, fmt.Errorf("credentials file is empty")
	}

	service, err := sheets.NewService(ctx,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(sheets.SpreadsheetsReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{
		service: service,
		logger:  logger.With(slog.String("component", "sheets_client")),
	}, nil
}

// Fetch reads a single range from a spreadsheet and returns it as a raw
// table. The first non-empty row becomes the header.
func (c *Client) Fetch(ctx context.Context, sheetID, readRange string) (*importer.Table, error) {
	resp, err := c.service.Spreadsheets.Values.Get(sheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read from sheets: %w", err)
	}

	table, err := tableFromValues(resp.Values)
	if err != nil {
		return nil, err
	}

	c.logger.InfoContext(ctx, "sheet range fetched",
		slog.String("sheet_id", sheetID),
		slog.String("range", readRange),
		slog.Int("rows", len(table.Rows)),
	)
	return table, nil
}

// FetchAll reads multiple ranges concurrently and returns the tables in
// the same order as the requested ranges.
func (c *Client) FetchAll(ctx context.Context, sheetID string, ranges []string) ([]*importer.Table, error) {
	tables := make([]*importer.Table, len(ranges))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for i, readRange := range ranges {
		i, readRange := i, readRange
		g.Go(func() error {
			table, err := c.Fetch(gctx, sheetID, readRange)
			if err != nil {
				return err
			}
			mu.Lock()
			tables[i] = table
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tables, nil
}

// MergeTables combines the tables of a multi-range fetch into one. Rows are
// aligned by header name, so the ranges may list the same columns in a
// different order; headers unseen in earlier tables are appended on the right.
func MergeTables(tables []*importer.Table) (*importer.Table, error) {
	merged := &importer.Table{}
	columns := make(map[string]int)

	for _, table := range tables {
		if table == nil {
			continue
		}
		positions := make([]int, len(table.Headers))
		for i, header := range table.Headers {
			key := strings.ToLower(strings.TrimSpace(header))
			pos, ok := columns[key]
			if !ok {
				pos = len(merged.Headers)
				columns[key] = pos
				merged.Headers = append(merged.Headers, header)
			}
			positions[i] = pos
		}
		for _, row := range table.Rows {
			cells := make([]any, len(merged.Headers))
			for i, cell := range row {
				if i < len(positions) {
					cells[positions[i]] = cell
				}
			}
			merged.Rows = append(merged.Rows, cells)
		}
	}

	if len(merged.Rows) == 0 {
		return nil, importer.ErrNoData
	}
	return merged, nil
}

// tableFromValues converts the Sheets API value grid into a raw table
func tableFromValues(values [][]interface{}) (*importer.Table, error) {
	headerIdx := -1
	for i, row := range values {
		if !rowEmpty(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx == -1 || headerIdx == len(values)-1 {
		return nil, importer.ErrNoData
	}

	headers := make([]string, len(values[headerIdx]))
	for i, cell := range values[headerIdx] {
		headers[i] = strings.TrimSpace(fmt.Sprintf("%v", cell))
	}

	rows := make([][]any, 0, len(values)-headerIdx-1)
	for _, row := range values[headerIdx+1:] {
		if rowEmpty(row) {
			continue
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, importer.ErrNoData
	}

	return &importer.Table{Headers: headers, Rows: rows}, nil
}

func rowEmpty(row []interface{}) bool {
	for _, cell := range row {
		if strings.TrimSpace(fmt.Sprintf("%v", cell)) != "" {
			return false
		}
	}
	return true
}
