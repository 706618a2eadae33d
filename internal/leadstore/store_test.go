package leadstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaeljuniorpb/Akasa-Leads-Analytic/pkg/contracts/domain"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return parsed
}

func makeLeads(n int, prefix string) []domain.Lead {
	leads := make([]domain.Lead, n)
	for i := range leads {
		leads[i] = domain.Lead{
			ID:     fmt.Sprintf("%s-%03d", prefix, i),
			CustID: fmt.Sprintf("C%03d", i),
			Agent:  "Rina",
			Source: "Instagram",
		}
	}
	return leads
}

func TestSaveAllAndLoadAllRoundTrip(t *testing.T) {
	store, err := New(t.TempDir(), 400, nil)
	require.NoError(t, err)

	ctx := context.Background()
	leads := makeLeads(10, "lead")
	require.NoError(t, store.SaveAll(ctx, leads))

	loaded, err := store.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, leads, loaded)

	count, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 10, count)
}

func TestSaveAllChunksLargeDataSets(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir, 400, nil)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.SaveAll(ctx, makeLeads(1000, "lead")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	chunkFiles := 0
	for _, entry := range entries {
		if filepath.Ext(entry.Name()) == ".json" && entry.Name() != "manifest.json" {
			chunkFiles++
		}
	}
	// 1000 records at 400 per chunk
	assert.Equal(t, 3, chunkFiles)

	loaded, err := store.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded, 1000)
	assert.Equal(t, "lead-000", loaded[0].ID)
	assert.Equal(t, "lead-999", loaded[999].ID)
}

func TestSaveAllReplacesExistingData(t *testing.T) {
	store, err := New(t.TempDir(), 5, nil)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.SaveAll(ctx, makeLeads(12, "old")))
	require.NoError(t, store.SaveAll(ctx, makeLeads(3, "new")))

	loaded, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 3)
	assert.Equal(t, "new-000", loaded[0].ID)
}

func TestAppendFillsTrailingChunk(t *testing.T) {
	store, err := New(t.TempDir(), 5, nil)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.SaveAll(ctx, makeLeads(3, "a")))
	require.NoError(t, store.Append(ctx, makeLeads(7, "b")))

	loaded, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 10)
	assert.Equal(t, "a-000", loaded[0].ID)
	assert.Equal(t, "b-000", loaded[3].ID)
	assert.Equal(t, "b-006", loaded[9].ID)

	count, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 10, count)
}

func TestAppendToEmptyStore(t *testing.T) {
	store, err := New(t.TempDir(), 400, nil)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Append(ctx, makeLeads(2, "lead")))

	loaded, err := store.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded, 2)
}

func TestDeleteAll(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir, 400, nil)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.SaveAll(ctx, makeLeads(8, "lead")))
	require.NoError(t, store.DeleteAll(ctx))

	loaded, err := store.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)

	count, err := store.Count()
	require.NoError(t, err)
	assert.Zero(t, count)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLoadAllOnFreshStore(t *testing.T) {
	store, err := New(t.TempDir(), 400, nil)
	require.NoError(t, err)

	loaded, err := store.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestLastUpdatedReflectsWrites(t *testing.T) {
	store, err := New(t.TempDir(), 400, nil)
	require.NoError(t, err)

	updated, err := store.LastUpdated()
	require.NoError(t, err)
	assert.True(t, updated.IsZero())

	require.NoError(t, store.SaveAll(context.Background(), makeLeads(1, "lead")))

	updated, err = store.LastUpdated()
	require.NoError(t, err)
	assert.False(t, updated.IsZero())
}

func TestLeadDatesSurviveRoundTrip(t *testing.T) {
	store, err := New(t.TempDir(), 400, nil)
	require.NoError(t, err)

	ctx := context.Background()
	lead := makeLeads(1, "lead")[0]
	visit := mustTime(t, "2024-01-15T00:00:00Z")
	lead.AssignedAt = &visit
	lead.TanggalSiteVisit = &visit
	lead.StatusSiteVisit = "Visit Done"
	lead.Revenue = 500000000

	require.NoError(t, store.SaveAll(ctx, []domain.Lead{lead}))
	loaded, err := store.LoadAll(ctx)
	require.NoError(t, err)

	require.Len(t, loaded, 1)
	require.NotNil(t, loaded[0].TanggalSiteVisit)
	assert.True(t, loaded[0].TanggalSiteVisit.Equal(visit))
	assert.True(t, loaded[0].VisitDone())
	assert.Equal(t, float64(500000000), loaded[0].Revenue)
}
