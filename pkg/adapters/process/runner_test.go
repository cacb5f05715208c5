package process_test

import (
	"bytes"
	"context"
	"log/slog"
	"runtime"
	"testing"
	"time"

	"github.com/aretw0/textsum/internal/logging"
	"github.com/aretw0/textsum/pkg/adapters/process"
	"github.com/aretw0/textsum/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("uses /bin/sh")
	}
}

func shell(script string) domain.Framework {
	return domain.Framework{Command: "sh", Args: []string{"-c", script}}
}

func TestEnviron(t *testing.T) {
	env := process.Environ(domain.Invocation{
		Framework: domain.Framework{Command: "x", Env: map[string]string{"HF_HOME": "/cache"}},
		Args: map[string]any{
			"data_path": "/data",
			"epochs":    2,
			"decay":     0.01,
			"splits":    []string{"train", "test"},
			"empty":     nil,
		},
	})

	assert.Equal(t, []string{
		"HF_HOME=/cache",
		"TEXTSUM_ARG_DATA_PATH=/data",
		"TEXTSUM_ARG_DECAY=0.01",
		"TEXTSUM_ARG_EMPTY=",
		"TEXTSUM_ARG_EPOCHS=2",
		`TEXTSUM_ARG_SPLITS=["train","test"]`,
	}, env)
}

func TestRunner_Execute(t *testing.T) {
	skipOnWindows(t)

	var logs bytes.Buffer
	r := process.NewRunner(process.WithLogger(slog.New(logging.NewHandler(&logs, slog.LevelInfo))))

	res, err := r.Execute(context.Background(), domain.Invocation{
		Stage:     domain.StageModelTrainer,
		Framework: shell(`echo "training on $TEXTSUM_ARG_DATA_PATH"; printf partial`),
		Args:      map[string]any{"data_path": "/data"},
	})
	require.NoError(t, err)
	assert.Equal(t, "training on /data\npartial", res.Stdout)
	assert.Equal(t, 0, res.ExitCode)
	assert.Contains(t, logs.String(), "INFO: main: training on /data command=sh]")
	assert.Contains(t, logs.String(), "INFO: main: partial command=sh]")
}

func TestRunner_ExecuteFailure(t *testing.T) {
	skipOnWindows(t)

	r := process.NewRunner()
	res, err := r.Execute(context.Background(), domain.Invocation{Framework: shell("echo out of memory >&2; exit 3")})

	require.Error(t, err)
	assert.Equal(t, 3, res.ExitCode)
	assert.Contains(t, err.Error(), "out of memory")
}

func TestRunner_ExecuteNotConfigured(t *testing.T) {
	_, err := process.NewRunner().Execute(context.Background(), domain.Invocation{})
	assert.Error(t, err)
}

func TestRunner_ExecuteCancelled(t *testing.T) {
	skipOnWindows(t)

	r := process.NewRunner(process.WithGracePeriod(500 * time.Millisecond))
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := r.Execute(ctx, domain.Invocation{Framework: shell("sleep 10")})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}
