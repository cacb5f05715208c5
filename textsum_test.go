package textsum_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aretw0/textsum"
	"github.com/aretw0/textsum/internal/testutils"
	"github.com/aretw0/textsum/pkg/domain"
	"github.com/aretw0/textsum/pkg/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersion(t *testing.T) {
	assert.Regexp(t, `^\d+\.\d+\.\d+$`, textsum.Version)
}

func TestRun(t *testing.T) {
	src := filepath.Join(t.TempDir(), "samsum.zip")
	testutils.ZipDataset(t, src, testutils.SampleRecords())
	ws := testutils.NewWorkspace(t, "file://"+filepath.ToSlash(src), "")

	report, err := textsum.Run(context.Background(),
		pipeline.Options{ConfigPath: ws.ConfigPath, ParamsPath: ws.ParamsPath},
		pipeline.WithRunID("run-42"),
	)
	require.NoError(t, err)
	assert.Equal(t, "run-42", report.RunID)
	assert.Equal(t, domain.StatusCompleted, report.Status())
	assert.FileExists(t, ws.Path("artifacts", "model_evaluation", "metrics.csv"))
}
