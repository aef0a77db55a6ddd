package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docfold/docfold-cli/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestFingerprintSaveAndGet(t *testing.T) {
	store := newTestStore(t)
	fps := store.FingerprintStore()
	ctx := context.Background()

	require.NoError(t, fps.Save(ctx, "api/users.py", "abc123"))

	got, err := fps.Get(ctx, "api/users.py")
	require.NoError(t, err)
	assert.Equal(t, "abc123", got)
}

func TestFingerprintGetMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.FingerprintStore().Get(context.Background(), "nope.py")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFingerprintUpsert(t *testing.T) {
	store := newTestStore(t)
	fps := store.FingerprintStore()
	ctx := context.Background()

	require.NoError(t, fps.Save(ctx, "calc.py", "v1"))
	require.NoError(t, fps.Save(ctx, "calc.py", "v2"))

	got, err := fps.Get(ctx, "calc.py")
	require.NoError(t, err)
	assert.Equal(t, "v2", got)

	paths, err := fps.Paths(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"calc.py"}, paths)
}

func TestFingerprintDelete(t *testing.T) {
	store := newTestStore(t)
	fps := store.FingerprintStore()
	ctx := context.Background()

	require.NoError(t, fps.Save(ctx, "calc.py", "v1"))
	require.NoError(t, fps.Delete(ctx, "calc.py"))

	_, err := fps.Get(ctx, "calc.py")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFingerprintsPersistAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.FingerprintStore().Save(ctx, "calc.py", "v1"))
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.FingerprintStore().Get(ctx, "calc.py")
	require.NoError(t, err)
	assert.Equal(t, "v1", got)
}

func TestCorruptDatabaseRebuiltEmpty(t *testing.T) {
	dir := t.TempDir()

	// Write garbage where the database should be.
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFileName), []byte("not a database"), 0o600))

	store, err := NewStore(dir)
	require.NoError(t, err, "corruption must be recovered, not fatal")
	defer store.Close()

	paths, err := store.FingerprintStore().Paths(context.Background())
	require.NoError(t, err)
	assert.Empty(t, paths, "recovered cache starts empty")
}

func TestRunStoreSaveAndRecent(t *testing.T) {
	store := newTestStore(t)
	runs := store.RunStore()
	ctx := context.Background()

	old := domain.RunRecord{
		ID: "run-1", Root: "/src",
		StartedAt:  time.Now().Add(-time.Hour),
		FinishedAt: time.Now().Add(-time.Hour).Add(time.Minute),
		FilesTotal: 2, FilesGenerated: 2,
	}
	recent := domain.RunRecord{
		ID: "run-2", Root: "/src",
		StartedAt:  time.Now(),
		FinishedAt: time.Now().Add(time.Minute),
		FilesTotal: 2, FilesUnchanged: 1, FilesWarned: 1,
		Warnings: []string{"analysis failed for calc.py"},
	}
	require.NoError(t, runs.Save(ctx, old))
	require.NoError(t, runs.Save(ctx, recent))

	got, err := runs.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "run-2", got[0].ID, "newest first")
	assert.Equal(t, []string{"analysis failed for calc.py"}, got[0].Warnings)
	assert.Equal(t, "run-1", got[1].ID)
}
