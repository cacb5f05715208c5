package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/textsum/internal/logging"
	"github.com/aretw0/textsum/pkg/domain"
	"github.com/aretw0/textsum/pkg/ports"
	"github.com/google/uuid"
)

// Result is the outcome of one attempted stage.
type Result struct {
	Stage     domain.StageName
	Status    domain.StageStatus
	StartedAt time.Time
	Duration  time.Duration
	Err       error
}

// Report describes one orchestrator run. Stages after a failure have no Result.
type Report struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Results    []Result
}

// Status is StatusCompleted when every attempted stage completed, StatusFailed otherwise.
func (r *Report) Status() domain.StageStatus {
	for _, res := range r.Results {
		if res.Status != domain.StatusCompleted {
			return domain.StatusFailed
		}
	}
	return domain.StatusCompleted
}

// Failed returns the failing stage result, if any.
func (r *Report) Failed() (Result, bool) {
	for _, res := range r.Results {
		if res.Status == domain.StatusFailed {
			return res, true
		}
	}
	return Result{}, false
}

// Orchestrator runs stages in dependency order and stops at the first failure.
type Orchestrator struct {
	stages []Stage
	logger *slog.Logger
	hooks  domain.LifecycleHooks
	store  ports.RunStore
	runID  string
	now    func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the orchestrator logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithLifecycleHooks registers stage start/finish callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(o *Orchestrator) {
		o.hooks = o.hooks.Merge(hooks)
	}
}

// WithRunStore persists a run record after every stage transition.
func WithRunStore(store ports.RunStore) Option {
	return func(o *Orchestrator) {
		o.store = store
	}
}

// WithRunID fixes the run identifier instead of generating one.
func WithRunID(id string) Option {
	return func(o *Orchestrator) {
		o.runID = id
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

// NewOrchestrator orders stages with Plan and applies opts.
func NewOrchestrator(stages []Stage, opts ...Option) (*Orchestrator, error) {
	ordered, err := Plan(stages)
	if err != nil {
		return nil, err
	}
	o := &Orchestrator{stages: ordered, now: time.Now}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = logging.Module(o.logger, "main")
	if o.runID == "" {
		o.runID = uuid.NewString()
	}
	return o, nil
}

// RunID identifies the run this orchestrator records.
func (o *Orchestrator) RunID() string { return o.runID }

// Stages returns the stages in execution order.
func (o *Orchestrator) Stages() []Stage { return o.stages }

// Run executes every stage in order. On the first failure it logs the error, records the
// run as failed and returns the stage error unchanged; later stages never run.
func (o *Orchestrator) Run(ctx context.Context) (*Report, error) {
	report := &Report{RunID: o.runID, StartedAt: o.now()}
	run := domain.NewRun(o.runID, report.StartedAt)
	for _, s := range o.stages {
		run.Stage(s.Name())
	}
	o.save(ctx, run)

	for _, s := range o.stages {
		res := o.runStage(ctx, run, s)
		report.Results = append(report.Results, res)
		if res.Err != nil {
			report.FinishedAt = o.now()
			run.Status = domain.StatusFailed
			run.FinishedAt = report.FinishedAt
			o.save(ctx, run)
			o.logger.Error(fmt.Sprintf("Stage: %s aborted the run", s.Name()), "run_id", o.runID, "error", res.Err)
			return report, res.Err
		}
	}

	report.FinishedAt = o.now()
	run.Status = domain.StatusCompleted
	run.FinishedAt = report.FinishedAt
	o.save(ctx, run)
	return report, nil
}

func (o *Orchestrator) runStage(ctx context.Context, run *domain.Run, s Stage) Result {
	name := s.Name()
	start := o.now()
	o.logger.Info(fmt.Sprintf("Stage: %s initiated", name))

	rec := run.Stage(name)
	rec.Status = domain.StatusRunning
	rec.StartedAt = start
	o.save(ctx, run)
	o.emit(ctx, o.hooks.OnStageStart, &domain.StageEvent{
		Timestamp: start,
		Type:      domain.EventStageStart,
		RunID:     o.runID,
		Stage:     name,
		Status:    domain.StatusRunning,
	})

	err := s.Run(ctx)
	end := o.now()
	res := Result{Stage: name, Status: domain.StatusCompleted, StartedAt: start, Duration: end.Sub(start), Err: err}
	if err != nil {
		res.Status = domain.StatusFailed
		rec.Error = err.Error()
	}
	rec.Status = res.Status
	rec.FinishedAt = end
	o.emit(ctx, o.hooks.OnStageFinish, &domain.StageEvent{
		Timestamp: end,
		Type:      domain.EventStageFinish,
		RunID:     o.runID,
		Stage:     name,
		Status:    res.Status,
		Duration:  res.Duration,
		Err:       err,
	})

	if err == nil {
		o.save(ctx, run)
		o.logger.Info(fmt.Sprintf("Stage: %s completed", name))
	}
	return res
}

func (o *Orchestrator) emit(ctx context.Context, hook func(context.Context, *domain.StageEvent), ev *domain.StageEvent) {
	if hook != nil {
		hook(ctx, ev)
	}
}

// save persists the run record. Store failures are logged, never fatal to the pipeline.
func (o *Orchestrator) save(ctx context.Context, run *domain.Run) {
	if o.store == nil {
		return
	}
	if err := o.store.Save(context.WithoutCancel(ctx), run); err != nil {
		o.logger.Warn("failed to record run", "run_id", run.ID, "error", err)
	}
}
