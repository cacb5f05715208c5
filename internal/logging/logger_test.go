package logging_test

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/aretw0/textsum/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var lineRe = regexp.MustCompile(`^\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2},\d{3}: INFO: data_ingestion: Stage started\]$`)

func TestHandler_Format(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(logging.NewHandler(&buf, slog.LevelInfo))

	logging.Module(logger, "data_ingestion").Info("Stage started")

	assert.Regexp(t, lineRe, strings.TrimSpace(buf.String()))
}

func TestHandler_AttrsAndErrorKey(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(logging.NewHandler(&buf, slog.LevelDebug))

	logger.Error("stage failed", "error", errors.New("boom now"), "stage", "trainer")

	line := buf.String()
	assert.Contains(t, line, ": ERROR: main: stage failed")
	assert.Contains(t, line, `err="boom now"`)
	assert.Contains(t, line, "stage=trainer]")
}

func TestHandler_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(logging.NewHandler(&buf, slog.LevelWarn))

	logger.Info("hidden")
	assert.Empty(t, buf.String())

	logger.Warn("shown")
	assert.Contains(t, buf.String(), ": WARNING: main: shown]")
}

func TestHandler_Group(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(logging.NewHandler(&buf, slog.LevelInfo)).WithGroup("args")

	logger.Info("training", "epochs", 2)
	assert.Contains(t, buf.String(), "args.epochs=2]")
}

func TestNew_WritesFileAndStdout(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	var stdout bytes.Buffer

	logger, closer, err := logging.New(logging.Options{Dir: dir, Stdout: &stdout})
	require.NoError(t, err)

	logger.Info("hello")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(filepath.Join(dir, logging.DefaultFile))
	require.NoError(t, err)
	assert.Equal(t, stdout.String(), string(data))
	assert.Contains(t, string(data), "INFO: main: hello]")
}

func TestParseLevel(t *testing.T) {
	l, err := logging.ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, l)

	l, err = logging.ParseLevel("warning")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, l)

	_, err = logging.ParseLevel("loud")
	assert.Error(t, err)
}
