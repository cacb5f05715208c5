package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/aretw0/textsum/pkg/domain"
)

// Store implements ports.RunStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Run
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Run),
	}
}

// Save persists a copy of run.
func (s *Store) Save(ctx context.Context, run *domain.Run) error {
	if run.ID == "" {
		return errors.New("run id cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[run.ID] = run.Clone()
	return nil
}

// Load retrieves a copy of the stored run so callers cannot mutate the store by pointer.
func (s *Store) Load(ctx context.Context, runID string) (*domain.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.data[runID]
	if !ok {
		return nil, domain.ErrRunNotFound
	}
	return run.Clone(), nil
}

// List returns the stored run IDs ordered by start time.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]*domain.Run, 0, len(s.data))
	for _, run := range s.data {
		runs = append(runs, run)
	}
	domain.SortRuns(runs)

	ids := make([]string, len(runs))
	for i, run := range runs {
		ids[i] = run.ID
	}
	return ids, nil
}
