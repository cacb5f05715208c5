package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/aretw0/textsum/internal/logging"
	"github.com/aretw0/textsum/pkg/components/evaluator"
	"github.com/aretw0/textsum/pkg/components/ingestion"
	"github.com/aretw0/textsum/pkg/components/trainer"
	"github.com/aretw0/textsum/pkg/components/transformation"
	"github.com/aretw0/textsum/pkg/config"
	"github.com/aretw0/textsum/pkg/domain"
	"github.com/aretw0/textsum/pkg/ports"
)

// Stage is one runnable pipeline phase.
type Stage interface {
	Name() domain.StageName
	Status() domain.StageStatus
	Run(ctx context.Context) error
}

// Options are shared by the stage wrappers.
type Options struct {
	// ConfigPath defaults to config.DefaultConfigPath.
	ConfigPath string
	// ParamsPath defaults to config.DefaultParamsPath.
	ParamsPath string
	Logger     *slog.Logger
	// Executor runs framework commands. Nil selects the process runner.
	Executor ports.FrameworkExecutor
	// HTTPClient is used by ingestion for http(s) sources.
	HTTPClient *http.Client
}

func (o Options) withDefaults() Options {
	if o.ConfigPath == "" {
		o.ConfigPath = config.DefaultConfigPath
	}
	if o.ParamsPath == "" {
		o.ParamsPath = config.DefaultParamsPath
	}
	if o.Logger == nil {
		o.Logger = logging.NewNop()
	}
	return o
}

// runFunc does the stage work with a freshly loaded configuration.
type runFunc func(ctx context.Context, m *config.Manager, opts Options) error

// wrapper drives one stage through NotStarted -> Running -> Completed | Failed.
type wrapper struct {
	name   domain.StageName
	opts   Options
	logger *slog.Logger
	run    runFunc

	mu     sync.Mutex
	status domain.StageStatus
}

func newWrapper(name domain.StageName, opts Options, run runFunc) *wrapper {
	opts = opts.withDefaults()
	return &wrapper{
		name:   name,
		opts:   opts,
		logger: logging.Module(opts.Logger, "pipeline"),
		run:    run,
		status: domain.StatusNotStarted,
	}
}

func (w *wrapper) Name() domain.StageName { return w.name }

func (w *wrapper) Status() domain.StageStatus {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

func (w *wrapper) setStatus(s domain.StageStatus) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.status = s
}

// Run executes the stage. A second call returns domain.ErrStageAlreadyRun; a stage error is
// logged and returned unchanged.
func (w *wrapper) Run(ctx context.Context) error {
	w.mu.Lock()
	if w.status != domain.StatusNotStarted {
		w.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrStageAlreadyRun, w.name)
	}
	w.status = domain.StatusRunning
	w.mu.Unlock()
	w.logger.Info(fmt.Sprintf("Running %s", w.name))

	err := w.execute(ctx)
	if err != nil {
		w.setStatus(domain.StatusFailed)
		w.logger.Error(fmt.Sprintf("%s failed", w.name), "error", err)
		return err
	}
	w.setStatus(domain.StatusCompleted)
	w.logger.Info(fmt.Sprintf("%s finished", w.name))
	return nil
}

func (w *wrapper) execute(ctx context.Context) error {
	m, err := config.NewManager(w.opts.ConfigPath, w.opts.ParamsPath, config.WithLogger(w.opts.Logger))
	if err != nil {
		return err
	}
	return w.run(ctx, m, w.opts)
}

// NewDataIngestion wraps the ingestion worker.
func NewDataIngestion(opts Options) Stage {
	return newWrapper(domain.StageDataIngestion, opts, func(ctx context.Context, m *config.Manager, o Options) error {
		cfg, err := m.DataIngestionConfig()
		if err != nil {
			return err
		}
		workerOpts := []ingestion.Option{ingestion.WithLogger(o.Logger)}
		if o.HTTPClient != nil {
			workerOpts = append(workerOpts, ingestion.WithHTTPClient(o.HTTPClient))
		}
		return ingestion.New(cfg, workerOpts...).Run(ctx)
	})
}

// NewDataTransformation wraps the transformation worker.
func NewDataTransformation(opts Options) Stage {
	return newWrapper(domain.StageDataTransformation, opts, func(ctx context.Context, m *config.Manager, o Options) error {
		cfg, err := m.DataTransformationConfig()
		if err != nil {
			return err
		}
		workerOpts := []transformation.Option{transformation.WithLogger(o.Logger)}
		if o.Executor != nil {
			workerOpts = append(workerOpts, transformation.WithExecutor(o.Executor))
		}
		return transformation.New(cfg, workerOpts...).Run(ctx)
	})
}

// NewModelTrainer wraps the trainer worker.
func NewModelTrainer(opts Options) Stage {
	return newWrapper(domain.StageModelTrainer, opts, func(ctx context.Context, m *config.Manager, o Options) error {
		cfg, err := m.ModelTrainerConfig()
		if err != nil {
			return err
		}
		workerOpts := []trainer.Option{trainer.WithLogger(o.Logger)}
		if o.Executor != nil {
			workerOpts = append(workerOpts, trainer.WithExecutor(o.Executor))
		}
		return trainer.New(cfg, workerOpts...).Run(ctx)
	})
}

// NewModelEvaluation wraps the evaluation worker.
func NewModelEvaluation(opts Options) Stage {
	return newWrapper(domain.StageModelEvaluation, opts, func(ctx context.Context, m *config.Manager, o Options) error {
		cfg, err := m.ModelEvaluationConfig()
		if err != nil {
			return err
		}
		workerOpts := []evaluator.Option{evaluator.WithLogger(o.Logger)}
		if o.Executor != nil {
			workerOpts = append(workerOpts, evaluator.WithExecutor(o.Executor))
		}
		return evaluator.New(cfg, workerOpts...).Run(ctx)
	})
}

// NewStage returns the wrapper for name.
func NewStage(name domain.StageName, opts Options) (Stage, error) {
	switch name {
	case domain.StageDataIngestion:
		return NewDataIngestion(opts), nil
	case domain.StageDataTransformation:
		return NewDataTransformation(opts), nil
	case domain.StageModelTrainer:
		return NewModelTrainer(opts), nil
	case domain.StageModelEvaluation:
		return NewModelEvaluation(opts), nil
	}
	return nil, fmt.Errorf("unknown stage %q", name)
}

// DefaultStages returns the four wrappers in execution order.
func DefaultStages(opts Options) []Stage {
	stages := make([]Stage, 0, len(domain.Stages))
	for _, name := range domain.Stages {
		s, _ := NewStage(name, opts)
		stages = append(stages, s)
	}
	return stages
}
