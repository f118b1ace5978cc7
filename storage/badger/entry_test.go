package badger

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/finsight/core"
	"github.com/poiesic/finsight/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRepo(t *testing.T) storage.EntryRepository {
	t.Helper()
	repo, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	return repo
}

func testEntry(tenantID, text string, vector []float32) *core.IndexedEntry {
	return &core.IndexedEntry{
		Id:       core.EntryIDFor(tenantID, text),
		TenantID: tenantID,
		Chunk: core.Chunk{
			Text: text,
			Meta: core.MonthlySummaryMeta{Month: "2025-07", Year: "2025"},
		},
		Vector:     vector,
		InsertedAt: time.Now().UTC(),
	}
}

func TestAddAndGetTenantEntries(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	first := testEntry("user-1", "July income 1500", []float32{1, 0, 0})
	second := testEntry("user-1", "July expenses 275.5", []float32{0, 1, 0})
	require.NoError(t, repo.AddEntries(ctx, first, second))

	entries, err := repo.TenantEntries(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	texts := []string{entries[0].Chunk.Text, entries[1].Chunk.Text}
	assert.Contains(t, texts, "July income 1500")
	assert.Contains(t, texts, "July expenses 275.5")
	assert.Equal(t, "user-1", entries[0].TenantID)
	assert.Equal(t, core.MonthlySummaryMeta{Month: "2025-07", Year: "2025"}, entries[0].Chunk.Meta)
}

func TestAddEntriesOverwritesSameID(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	entry := testEntry("user-1", "July income 1500", []float32{1, 0, 0})
	require.NoError(t, repo.AddEntries(ctx, entry))
	require.NoError(t, repo.AddEntries(ctx, entry))

	entries, err := repo.TenantEntries(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestAddEntriesRejectsInvalid(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	missingTenant := testEntry("user-1", "some text", nil)
	missingTenant.TenantID = ""

	err := repo.AddEntries(ctx, missingTenant)
	assert.ErrorIs(t, err, core.ErrInvalidEntry)

	// Nothing was written
	entries, err := repo.TenantEntries(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTenantIsolation(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.AddEntries(ctx,
		testEntry("user-1", "tenant one data", []float32{1, 0}),
		testEntry("user-2", "tenant two data", []float32{1, 0}),
	))

	one, err := repo.TenantEntries(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, "tenant one data", one[0].Chunk.Text)

	// Identical query vector, but only user-2's entries are reachable
	results, err := repo.FindSimilar(ctx, "user-2", []float32{1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "tenant two data", results[0].Entry.Chunk.Text)
}

func TestTenantPrefixCannotShadow(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	// "user" and "user-1" share a textual prefix but are distinct tenants
	require.NoError(t, repo.AddEntries(ctx,
		testEntry("user", "short tenant data", []float32{1}),
		testEntry("user-1", "long tenant data", []float32{1}),
	))

	entries, err := repo.TenantEntries(ctx, "user")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "short tenant data", entries[0].Chunk.Text)
}

func TestDeleteTenantEntries(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.AddEntries(ctx,
		testEntry("user-1", "first", []float32{1}),
		testEntry("user-1", "second", []float32{1}),
		testEntry("user-2", "kept", []float32{1}),
	))

	removed, err := repo.DeleteTenantEntries(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	entries, err := repo.TenantEntries(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, entries)

	// Other tenant untouched
	kept, err := repo.TenantEntries(ctx, "user-2")
	require.NoError(t, err)
	assert.Len(t, kept, 1)
}

func TestDeleteTenantEntriesEmpty(t *testing.T) {
	repo := setupTestRepo(t)

	removed, err := repo.DeleteTenantEntries(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestFindSimilarOrdering(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.AddEntries(ctx,
		testEntry("user-1", "exact match", []float32{1, 0}),
		testEntry("user-1", "orthogonal", []float32{0, 1}),
		testEntry("user-1", "partial match", []float32{1, 1}),
	))

	results, err := repo.FindSimilar(ctx, "user-1", []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "exact match", results[0].Entry.Chunk.Text)
	assert.Equal(t, "partial match", results[1].Entry.Chunk.Text)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestFindSimilarInvalidQuery(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	_, err := repo.FindSimilar(ctx, "user-1", nil, 10)
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)

	_, err = repo.FindSimilar(ctx, "user-1", []float32{1}, 0)
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)

	_, err = repo.FindSimilar(ctx, "bad:tenant", []float32{1}, 10)
	assert.ErrorIs(t, err, core.ErrInvalidTenantID)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 2, 3}, []float32{1, 2, 3}), 1e-6)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-6)
	assert.InDelta(t, -1.0, cosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-6)
	assert.Zero(t, cosineSimilarity([]float32{0, 0}, []float32{1, 1}))
}
