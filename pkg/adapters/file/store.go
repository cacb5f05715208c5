package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/textsum/pkg/common"
	"github.com/aretw0/textsum/pkg/domain"
)

// DefaultDir is used when New is given an empty base path.
var DefaultDir = filepath.Join("logs", "runs")

// Store implements ports.RunStore using the local filesystem.
// Each run is one JSON file named after its ID.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
func New(basePath string) *Store {
	if basePath == "" {
		basePath = DefaultDir
	}
	return &Store{BasePath: basePath}
}

func (s *Store) path(runID string) string {
	return filepath.Join(s.BasePath, runID+".json")
}

// validID rejects ids that would resolve outside BasePath.
func validID(runID string) bool {
	return runID != "" && !strings.ContainsAny(runID, `/\`) && !strings.Contains(runID, "..")
}

// Save persists the run record atomically.
func (s *Store) Save(ctx context.Context, run *domain.Run) error {
	if run.ID == "" {
		return errors.New("run id cannot be empty")
	}
	if !validID(run.ID) {
		return fmt.Errorf("invalid run id %q", run.ID)
	}

	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}
	if err := common.WriteFileAtomic(s.path(run.ID), data); err != nil {
		return fmt.Errorf("failed to save run %s: %w", run.ID, err)
	}
	return nil
}

// Load retrieves the run record from its JSON file.
func (s *Store) Load(ctx context.Context, runID string) (*domain.Run, error) {
	if runID == "" {
		return nil, errors.New("run id cannot be empty")
	}
	if !validID(runID) {
		return nil, fmt.Errorf("%w: invalid run id %q", domain.ErrRunNotFound, runID)
	}

	data, err := os.ReadFile(s.path(runID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to read run file: %w", err)
	}

	var run domain.Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run %s: %w", runID, err)
	}
	return &run, nil
}

// List returns every stored run ID, oldest first.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	runs := make([]*domain.Run, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" || strings.HasPrefix(name, "tmp-") {
			continue
		}
		run, err := s.Load(ctx, strings.TrimSuffix(name, ".json"))
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	domain.SortRuns(runs)

	ids := make([]string, len(runs))
	for i, run := range runs {
		ids[i] = run.ID
	}
	return ids, nil
}
