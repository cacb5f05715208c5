package domain_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/textsum/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageBySlug(t *testing.T) {
	for _, s := range domain.Stages {
		got, ok := domain.StageBySlug(s.Slug())
		require.True(t, ok, s)
		assert.Equal(t, s, got)
	}

	_, ok := domain.StageBySlug("deploy")
	assert.False(t, ok)
}

func TestRun_StageAppendsOnce(t *testing.T) {
	run := domain.NewRun("r1", time.Now())

	rec := run.Stage(domain.StageModelTrainer)
	rec.Status = domain.StatusRunning

	again := run.Stage(domain.StageModelTrainer)
	assert.Equal(t, domain.StatusRunning, again.Status)
	assert.Len(t, run.Stages, 1)
}

func TestLifecycleHooks_Merge(t *testing.T) {
	var calls []string
	a := domain.LifecycleHooks{
		OnStageStart: func(context.Context, *domain.StageEvent) { calls = append(calls, "a") },
	}
	b := domain.LifecycleHooks{
		OnStageStart:  func(context.Context, *domain.StageEvent) { calls = append(calls, "b") },
		OnStageFinish: func(context.Context, *domain.StageEvent) { calls = append(calls, "b-finish") },
	}

	merged := a.Merge(b)
	merged.OnStageStart(context.Background(), &domain.StageEvent{})
	merged.OnStageFinish(context.Background(), &domain.StageEvent{})

	assert.Equal(t, []string{"a", "b", "b-finish"}, calls)
	assert.Nil(t, domain.LifecycleHooks{}.Merge(domain.LifecycleHooks{}).OnStageStart)
}
