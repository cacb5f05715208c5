package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStageStart  EventType = "stage_start"
	EventStageFinish EventType = "stage_finish"
)

// StageEvent describes a stage wrapper transition.
type StageEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	Type      EventType     `json:"type"`
	RunID     string        `json:"run_id"`
	Stage     StageName     `json:"stage"`
	Status    StageStatus   `json:"status"`
	Duration  time.Duration `json:"duration,omitempty"`
	Err       error         `json:"-"`
}

// LifecycleHooks defines callbacks for orchestrator observability.
// Any field may be nil.
type LifecycleHooks struct {
	OnStageStart  func(context.Context, *StageEvent)
	OnStageFinish func(context.Context, *StageEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnStageStart:  chain(h.OnStageStart, other.OnStageStart),
		OnStageFinish: chain(h.OnStageFinish, other.OnStageFinish),
	}
}

func chain(a, b func(context.Context, *StageEvent)) func(context.Context, *StageEvent) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, ev *StageEvent) {
		a(ctx, ev)
		b(ctx, ev)
	}
}
