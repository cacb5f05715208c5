package ports

import (
	"context"

	"github.com/aretw0/textsum/pkg/domain"
)

// RunStore persists run records so past pipeline invocations can be inspected.
type RunStore interface {
	// Save persists (or replaces) the record for run.ID.
	Save(ctx context.Context, run *domain.Run) error

	// Load retrieves a run record.
	// Returns domain.ErrRunNotFound if the run does not exist.
	Load(ctx context.Context, runID string) (*domain.Run, error)

	// List returns every stored run ID, oldest first.
	List(ctx context.Context) ([]string, error)
}
