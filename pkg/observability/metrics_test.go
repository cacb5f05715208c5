package observability_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/textsum/pkg/domain"
	"github.com/aretw0/textsum/pkg/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func finish(stage domain.StageName, status domain.StageStatus, d time.Duration) *domain.StageEvent {
	return &domain.StageEvent{
		Timestamp: time.Unix(1700000000, 0),
		Type:      domain.EventStageFinish,
		Stage:     stage,
		Status:    status,
		Duration:  d,
	}
}

func TestMetrics_Hooks(t *testing.T) {
	m := observability.NewMetrics()
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnStageFinish(ctx, finish(domain.StageDataIngestion, domain.StatusCompleted, 1500*time.Millisecond))
	hooks.OnStageFinish(ctx, finish(domain.StageModelTrainer, domain.StatusFailed, time.Second))
	m.Observe(&domain.StageEvent{Type: domain.EventStageStart, Stage: domain.StageModelTrainer})

	expected := `
# HELP textsum_stage_runs_total Number of finished stage executions by outcome.
# TYPE textsum_stage_runs_total counter
textsum_stage_runs_total{stage="data_ingestion",status="completed"} 1
textsum_stage_runs_total{stage="model_trainer",status="failed"} 1
# HELP textsum_stage_success 1 if the last execution of the stage completed, 0 if it failed.
# TYPE textsum_stage_success gauge
textsum_stage_success{stage="data_ingestion"} 1
textsum_stage_success{stage="model_trainer"} 0
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected),
		"textsum_stage_runs_total", "textsum_stage_success"))
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := observability.NewMetrics()
	m.Observe(finish(domain.StageModelEvaluation, domain.StatusCompleted, 2*time.Second))

	path := filepath.Join(t.TempDir(), "logs", "metrics.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `textsum_stage_duration_seconds{stage="model_evaluation"} 2`)
	assert.Contains(t, out, `textsum_stage_last_finished_timestamp_seconds{stage="model_evaluation"} 1.7e+09`)
}
