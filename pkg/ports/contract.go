package ports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/textsum/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunRunStoreContract runs a suite of tests to verify that a RunStore implementation
// adheres to the defined interface contract. The store must start empty.
func RunRunStoreContract(t *testing.T, store RunStore) {
	ctx := context.Background()
	started := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	t.Run("Save and Load", func(t *testing.T) {
		run := domain.NewRun("run-a", started)
		rec := run.Stage(domain.StageDataIngestion)
		rec.Status = domain.StatusFailed
		rec.StartedAt = started
		rec.FinishedAt = started.Add(time.Minute)
		rec.Error = "boom"
		run.Status = domain.StatusFailed

		require.NoError(t, store.Save(ctx, run))

		loaded, err := store.Load(ctx, "run-a")
		require.NoError(t, err)
		assert.Equal(t, "run-a", loaded.ID)
		assert.Equal(t, domain.StatusFailed, loaded.Status)
		require.Len(t, loaded.Stages, 1)
		assert.Equal(t, "boom", loaded.Stages[0].Error)
		assert.True(t, started.Equal(loaded.StartedAt))
	})

	t.Run("Save Replaces", func(t *testing.T) {
		run := domain.NewRun("run-a", started)
		run.Status = domain.StatusCompleted
		require.NoError(t, store.Save(ctx, run))

		loaded, err := store.Load(ctx, "run-a")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, loaded.Status)
		assert.Empty(t, loaded.Stages)
	})

	t.Run("Load Is A Copy", func(t *testing.T) {
		loaded, err := store.Load(ctx, "run-a")
		require.NoError(t, err)
		loaded.Status = domain.StatusFailed

		again, err := store.Load(ctx, "run-a")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, again.Status)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "run-missing")
		assert.True(t, errors.Is(err, domain.ErrRunNotFound))
	})

	t.Run("List Oldest First", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, domain.NewRun("run-b", started.Add(time.Hour))))

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"run-a", "run-b"}, ids)
	})

	t.Run("Empty ID", func(t *testing.T) {
		assert.Error(t, store.Save(ctx, domain.NewRun("", started)))
	})
}
