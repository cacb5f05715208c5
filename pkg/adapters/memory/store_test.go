package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/textsum/pkg/adapters/memory"
	"github.com/aretw0/textsum/pkg/domain"
	"github.com/aretw0/textsum/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	ports.RunRunStoreContract(t, memory.NewStore())
}

func TestMemoryStore_SaveCopiesStages(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	run := domain.NewRun("run-1", time.Now())
	run.Stage(domain.StageDataIngestion).Status = domain.StatusCompleted
	require.NoError(t, store.Save(ctx, run))

	run.Stages[0].Status = domain.StatusFailed

	loaded, err := store.Load(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, loaded.Stages[0].Status)
}
