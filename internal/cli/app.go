// Package cli holds the command implementations behind cmd/textsum.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/textsum/internal/logging"
	"github.com/aretw0/textsum/pkg/adapters/file"
	"github.com/aretw0/textsum/pkg/adapters/redis"
	"github.com/aretw0/textsum/pkg/config"
	"github.com/aretw0/textsum/pkg/domain"
	"github.com/aretw0/textsum/pkg/observability"
	"github.com/aretw0/textsum/pkg/pipeline"
	"github.com/aretw0/textsum/pkg/ports"
)

// EnvLogLevel selects the log level (DEBUG, INFO, WARNING, ERROR).
const EnvLogLevel = "TEXTSUM_LOG_LEVEL"

// DefaultMetricsFile is written when the metrics section does not name a textfile.
const DefaultMetricsFile = "metrics.prom"

// Options are the global command-line settings.
type Options struct {
	ConfigPath string
	ParamsPath string
	// LogDir defaults to logging.DefaultDir.
	LogDir string
	// Stdout receives the console copy of the log. Defaults to os.Stdout.
	Stdout io.Writer
}

// App holds the resources shared by the commands of one process.
type App struct {
	Options Options
	Logger  *slog.Logger
	closers []io.Closer
}

// Bootstrap creates the logger. Callers must Close the App.
func Bootstrap(opts Options) (*App, error) {
	if opts.ConfigPath == "" {
		opts.ConfigPath = config.DefaultConfigPath
	}
	if opts.ParamsPath == "" {
		opts.ParamsPath = config.DefaultParamsPath
	}
	if opts.LogDir == "" {
		opts.LogDir = logging.DefaultDir
	}

	level, err := logging.ParseLevel(os.Getenv(EnvLogLevel))
	if err != nil {
		return nil, err
	}
	logger, closer, err := logging.New(logging.Options{Dir: opts.LogDir, Level: level, Stdout: opts.Stdout})
	if err != nil {
		return nil, err
	}
	return &App{Options: opts, Logger: logger, closers: []io.Closer{closer}}, nil
}

// Close releases the log file and any open store.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i].Close())
	}
	a.closers = nil
	return errors.Join(errs...)
}

// Manager loads the configuration documents.
func (a *App) Manager() (*config.Manager, error) {
	return config.NewManager(a.Options.ConfigPath, a.Options.ParamsPath, config.WithLogger(a.Logger))
}

// StageOptions returns the options shared by every stage wrapper.
func (a *App) StageOptions() pipeline.Options {
	return pipeline.Options{
		ConfigPath: a.Options.ConfigPath,
		ParamsPath: a.Options.ParamsPath,
		Logger:     a.Logger,
	}
}

// ambient holds the run store and metrics settings, falling back to defaults when the
// configuration cannot be loaded. The stage wrappers report configuration errors themselves.
func (a *App) ambient() (config.RunStoreConfig, config.MetricsConfig) {
	rs := config.RunStoreConfig{Backend: "file"}
	var mc config.MetricsConfig

	m, err := a.Manager()
	if err != nil {
		a.Logger.Warn("using default run store and metrics settings", "error", err)
		return rs, mc
	}
	if c, err := m.RunStoreConfig(); err != nil {
		a.Logger.Warn("invalid run_store section, using defaults", "error", err)
	} else {
		rs = c
	}
	if c, err := m.MetricsConfig(); err != nil {
		a.Logger.Warn("invalid metrics section, using defaults", "error", err)
	} else {
		mc = c
	}
	return rs, mc
}

// OpenRunStore opens the store selected by cfg. The "none" backend yields a nil store.
func (a *App) OpenRunStore(cfg config.RunStoreConfig) (ports.RunStore, error) {
	switch cfg.Backend {
	case "none":
		return nil, nil
	case "redis":
		store := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB,
			redis.WithPrefix(cfg.Prefix),
			redis.WithTTL(cfg.TTL),
		)
		a.closers = append(a.closers, store)
		return store, nil
	case "", "file":
		dir := cfg.Dir
		if dir == "" {
			dir = filepath.Join(a.Options.LogDir, "runs")
		}
		return file.New(dir), nil
	}
	return nil, fmt.Errorf("unknown run store backend %q", cfg.Backend)
}

// RunStore opens the run store named by the configuration. Only the run_store section is
// read, so listing runs neither logs configuration messages nor creates directories.
func (a *App) RunStore() (ports.RunStore, error) {
	rs, err := config.ReadRunStoreConfig(a.Options.ConfigPath)
	if err != nil {
		return nil, err
	}
	return a.OpenRunStore(rs)
}

// RunPipeline runs stages through an orchestrator that records the run and exports stage
// metrics. The returned error is the first stage error, unchanged.
func (a *App) RunPipeline(ctx context.Context, stages []pipeline.Stage) (*pipeline.Report, error) {
	rs, mc := a.ambient()
	opts := []pipeline.Option{pipeline.WithLogger(a.Logger)}

	store, err := a.OpenRunStore(rs)
	if err != nil {
		a.Logger.Warn("run history disabled", "error", err)
	} else if store != nil {
		opts = append(opts, pipeline.WithRunStore(store))
	}

	metrics := observability.NewMetrics()
	opts = append(opts, pipeline.WithLifecycleHooks(metrics.Hooks()))

	orch, err := pipeline.NewOrchestrator(stages, opts...)
	if err != nil {
		return nil, err
	}
	report, runErr := orch.Run(ctx)

	textfile := mc.Textfile
	if textfile == "" {
		textfile = filepath.Join(a.Options.LogDir, DefaultMetricsFile)
	}
	if err := metrics.WriteTextfile(textfile); err != nil {
		a.Logger.Warn("failed to export metrics", "error", err)
	}
	return report, runErr
}

// Validate loads every stage configuration, returning the first error.
func (a *App) Validate() error {
	m, err := a.Manager()
	if err != nil {
		return err
	}
	return m.Validate()
}

// SelectStages returns the wrappers for the given stage slugs, or every stage when none is given.
func (a *App) SelectStages(slugs ...string) ([]pipeline.Stage, error) {
	if len(slugs) == 0 {
		return pipeline.DefaultStages(a.StageOptions()), nil
	}
	stages := make([]pipeline.Stage, 0, len(slugs))
	for _, slug := range slugs {
		name, ok := domain.StageBySlug(slug)
		if !ok {
			return nil, fmt.Errorf("unknown stage %q", slug)
		}
		s, err := pipeline.NewStage(name, a.StageOptions())
		if err != nil {
			return nil, err
		}
		stages = append(stages, s)
	}
	return stages, nil
}
