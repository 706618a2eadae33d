package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaeljuniorpb/Akasa-Leads-Analytic/internal/config"
	"github.com/michaeljuniorpb/Akasa-Leads-Analytic/internal/leadstore"
)

func TestSplitRanges(t *testing.T) {
	assert.Equal(t, []string{"Sheet1!A1:Z"}, splitRanges("Sheet1!A1:Z"))
	assert.Equal(t,
		[]string{"Sheet1!A1:Z", "Sheet2!A1:Z"},
		splitRanges("Sheet1!A1:Z, Sheet2!A1:Z"))
	assert.Empty(t, splitRanges(" , "))
}

func TestRunImportsCSVFile(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "leads.csv")
	content := "Cust ID,Agent,Source,Unique Status\nC001,Rina,Instagram,Unique\nC002,Sari,Google Ads,Not Unique\n"
	require.NoError(t, os.WriteFile(csvPath, []byte(content), 0o644))

	cfg := &config.Config{
		Paths: config.PathsConfig{
			DataDir:    filepath.Join(dir, "data"),
			ReportsDir: filepath.Join(dir, "reports"),
			LogsDir:    filepath.Join(dir, "logs"),
		},
		Store: config.StoreConfig{BatchSize: 400},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	err := run(cfg, logger, runOptions{filePath: csvPath, mode: "replace"})
	require.NoError(t, err)

	paths, err := config.ResolvePaths(cfg.Paths)
	require.NoError(t, err)
	store, err := leadstore.New(paths.LeadsDir(), cfg.Store.BatchSize, logger)
	require.NoError(t, err)

	count, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
