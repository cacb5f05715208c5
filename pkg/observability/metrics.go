package observability

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/textsum/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects per-stage outcomes.
type Metrics struct {
	registry *prometheus.Registry

	stageRuns     *prometheus.CounterVec
	stageDuration *prometheus.GaugeVec
	stageStatus   *prometheus.GaugeVec
	lastRun       *prometheus.GaugeVec
}

// NewMetrics creates the collectors in a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		stageRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "textsum_stage_runs_total",
				Help: "Number of finished stage executions by outcome.",
			},
			[]string{"stage", "status"},
		),
		stageDuration: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "textsum_stage_duration_seconds",
				Help: "Wall-clock duration of the last execution of each stage.",
			},
			[]string{"stage"},
		),
		stageStatus: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "textsum_stage_success",
				Help: "1 if the last execution of the stage completed, 0 if it failed.",
			},
			[]string{"stage"},
		),
		lastRun: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "textsum_stage_last_finished_timestamp_seconds",
				Help: "Unix time the stage last finished.",
			},
			[]string{"stage"},
		),
	}
	m.registry.MustRegister(m.stageRuns, m.stageDuration, m.stageStatus, m.lastRun)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Hooks returns lifecycle hooks that record every finished stage.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStageFinish: func(_ context.Context, ev *domain.StageEvent) {
			m.Observe(ev)
		},
	}
}

// Observe records a stage finish event. Other events are ignored.
func (m *Metrics) Observe(ev *domain.StageEvent) {
	if ev.Type != domain.EventStageFinish {
		return
	}
	stage := ev.Stage.Slug()
	m.stageRuns.WithLabelValues(stage, string(ev.Status)).Inc()
	m.stageDuration.WithLabelValues(stage).Set(ev.Duration.Seconds())
	success := 0.0
	if ev.Status == domain.StatusCompleted {
		success = 1
	}
	m.stageStatus.WithLabelValues(stage).Set(success)
	m.lastRun.WithLabelValues(stage).Set(float64(ev.Timestamp.Unix()))
}

// WriteTextfile writes the current metrics to path in the Prometheus text format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
