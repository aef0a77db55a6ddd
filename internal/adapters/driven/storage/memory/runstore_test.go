package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docfold/docfold-cli/internal/core/domain"
)

func TestRunStoreRecentNewestFirst(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()

	base := time.Now()
	require.NoError(t, store.Save(ctx, domain.RunRecord{ID: "a", StartedAt: base.Add(-2 * time.Hour)}))
	require.NoError(t, store.Save(ctx, domain.RunRecord{ID: "c", StartedAt: base}))
	require.NoError(t, store.Save(ctx, domain.RunRecord{ID: "b", StartedAt: base.Add(-time.Hour)}))

	runs, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "c", runs[0].ID)
	assert.Equal(t, "b", runs[1].ID)
	assert.Equal(t, "a", runs[2].ID)
}

func TestRunStoreRecentLimit(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()

	base := time.Now()
	for i := 0; i < 5; i++ {
		rec := domain.RunRecord{ID: string(rune('a' + i)), StartedAt: base.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, store.Save(ctx, rec))
	}

	runs, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "e", runs[0].ID)
	assert.Equal(t, "d", runs[1].ID)
}
