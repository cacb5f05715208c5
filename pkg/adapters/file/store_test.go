package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/textsum/pkg/adapters/file"
	"github.com/aretw0/textsum/pkg/domain"
	"github.com/aretw0/textsum/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Contract(t *testing.T) {
	ports.RunRunStoreContract(t, file.New(t.TempDir()))
}

func TestFileStore_WritesJSONFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "runs")
	store := file.New(dir)

	run := domain.NewRun("abc", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	require.NoError(t, store.Save(context.Background(), run))

	data, err := os.ReadFile(filepath.Join(dir, "abc.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"id": "abc"`)
	assert.Contains(t, string(data), `"status": "running"`)
}

func TestFileStore_ListMissingDir(t *testing.T) {
	store := file.New(filepath.Join(t.TempDir(), "nope"))

	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestFileStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{"), 0644))

	_, err := file.New(dir).Load(context.Background(), "bad")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrRunNotFound)
}

func TestFileStore_RejectsEscapingIDs(t *testing.T) {
	root := t.TempDir()
	store := file.New(filepath.Join(root, "runs"))
	ctx := context.Background()

	outside := domain.NewRun("outside", time.Now())
	require.NoError(t, file.New(root).Save(ctx, outside))

	for _, id := range []string{"../outside", "..", `..\outside`, "a/b"} {
		_, err := store.Load(ctx, id)
		assert.ErrorIs(t, err, domain.ErrRunNotFound, id)

		err = store.Save(ctx, domain.NewRun(id, time.Now()))
		assert.ErrorContains(t, err, "invalid run id", id)
	}
}
