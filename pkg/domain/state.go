package domain

import (
	"slices"
	"strings"
	"time"
)

// StageStatus is the lifecycle position of a single stage wrapper.
type StageStatus string

const (
	StatusNotStarted StageStatus = "not_started"
	StatusRunning    StageStatus = "running"
	StatusCompleted  StageStatus = "completed"
	StatusFailed     StageStatus = "failed"
)

// Terminal reports whether no further transition is possible from s.
func (s StageStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// StageRecord is the persisted outcome of one stage within a run.
type StageRecord struct {
	Name       StageName   `json:"name"`
	Status     StageStatus `json:"status"`
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt time.Time   `json:"finished_at,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// Run is the persisted snapshot of one orchestrator invocation.
type Run struct {
	ID         string        `json:"id"`
	Status     StageStatus   `json:"status"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at,omitempty"`
	Stages     []StageRecord `json:"stages"`
}

// NewRun creates a run record in the running state.
func NewRun(id string, startedAt time.Time) *Run {
	return &Run{
		ID:        id,
		Status:    StatusRunning,
		StartedAt: startedAt,
		Stages:    []StageRecord{},
	}
}

// Stage returns the record for the named stage, appending a fresh one if absent.
func (r *Run) Stage(name StageName) *StageRecord {
	for i := range r.Stages {
		if r.Stages[i].Name == name {
			return &r.Stages[i]
		}
	}
	r.Stages = append(r.Stages, StageRecord{Name: name, Status: StatusNotStarted})
	return &r.Stages[len(r.Stages)-1]
}

// Clone returns a deep copy of r.
func (r *Run) Clone() *Run {
	c := *r
	c.Stages = append([]StageRecord{}, r.Stages...)
	return &c
}

// SortRuns orders runs oldest first, breaking ties by ID.
func SortRuns(runs []*Run) {
	slices.SortFunc(runs, func(a, b *Run) int {
		if c := a.StartedAt.Compare(b.StartedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}
