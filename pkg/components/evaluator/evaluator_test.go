package evaluator_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/aretw0/textsum/internal/testutils"
	"github.com/aretw0/textsum/pkg/components/evaluator"
	"github.com/aretw0/textsum/pkg/components/trainer"
	"github.com/aretw0/textsum/pkg/components/transformation"
	"github.com/aretw0/textsum/pkg/config"
	"github.com/aretw0/textsum/pkg/domain"
	"github.com/aretw0/textsum/pkg/rouge"
	"github.com/aretw0/textsum/pkg/summarizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// trainedConfig runs transformation and training over the sample dataset and returns an
// evaluation config pointing at their artifacts.
func trainedConfig(t *testing.T) config.ModelEvaluationConfig {
	t.Helper()
	ctx := context.Background()

	raw := filepath.Join(t.TempDir(), testutils.DatasetName)
	testutils.WriteDataset(t, raw, testutils.SampleRecords())
	tw := transformation.New(config.DataTransformationConfig{RootDir: t.TempDir(), DataPath: raw, TokenizerName: "words"})
	require.NoError(t, tw.Run(ctx))

	mw := trainer.New(config.ModelTrainerConfig{
		RootDir:   t.TempDir(),
		DataPath:  tw.OutputDir(),
		ModelCkpt: "extractive-samsum",
		TrainingArguments: config.TrainingArguments{
			NumTrainEpochs:            3,
			PerDeviceTrainBatchSize:   1,
			GradientAccumulationSteps: 1,
		},
	})
	require.NoError(t, mw.Run(ctx))

	root := t.TempDir()
	return config.ModelEvaluationConfig{
		RootDir:        root,
		DataPath:       tw.OutputDir(),
		ModelPath:      mw.ModelDir(),
		TokenizerPath:  mw.TokenizerDir(),
		MetricFileName: filepath.Join(root, "metrics.csv"),
		BatchSize:      2,
	}
}

func TestWorker_Evaluate(t *testing.T) {
	cfg := trainedConfig(t)
	w := evaluator.New(cfg)

	scores, err := w.Evaluate(context.Background())
	require.NoError(t, err)
	for _, m := range rouge.Metrics {
		assert.GreaterOrEqual(t, scores[m], 0.0, m)
		assert.LessOrEqual(t, scores[m], 1.0, m)
	}
	assert.Greater(t, scores[rouge.Rouge1], 0.0)
	assert.GreaterOrEqual(t, scores[rouge.Rouge1], scores[rouge.Rouge2])

	report, err := evaluator.ReadReport(cfg.MetricFileName)
	require.NoError(t, err)
	assert.Equal(t, []string{"model", "rouge1", "rouge2", "rougeL", "rougeLsum"}, report.Header)
	require.Len(t, report.Rows, 1)
	assert.Equal(t, "extractive-samsum", report.Rows[0][0])

	r1, err := strconv.ParseFloat(report.Rows[0][1], 64)
	require.NoError(t, err)
	assert.InDelta(t, scores[rouge.Rouge1], r1, 1e-6)
}

func TestWorker_RunDeterministic(t *testing.T) {
	cfg := trainedConfig(t)

	require.NoError(t, evaluator.New(cfg).Run(context.Background()))
	first, err := os.ReadFile(cfg.MetricFileName)
	require.NoError(t, err)

	require.NoError(t, evaluator.New(cfg).Run(context.Background()))
	second, err := os.ReadFile(cfg.MetricFileName)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestWorker_MaxSamples(t *testing.T) {
	cfg := trainedConfig(t)
	cfg.MaxSamples = 1

	all, err := evaluator.New(trainedConfig(t)).Evaluate(context.Background())
	require.NoError(t, err)
	one, err := evaluator.New(cfg).Evaluate(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, all, one)
}

func TestWorker_MissingModel(t *testing.T) {
	cfg := trainedConfig(t)
	cfg.ModelPath = filepath.Join(t.TempDir(), "missing")

	err := evaluator.New(cfg).Run(context.Background())
	assert.ErrorIs(t, err, domain.ErrEvaluation)
	assert.NoFileExists(t, cfg.MetricFileName)
}

func TestWorker_IncompatibleTokenizer(t *testing.T) {
	cfg := trainedConfig(t)
	other := summarizer.BuildTokenizer("words", []string{"entirely different words"})
	data, err := json.Marshal(other)
	require.NoError(t, err)
	cfg.TokenizerPath = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(cfg.TokenizerPath, summarizer.TokenizerFile), data, 0644))

	err = evaluator.New(cfg).Run(context.Background())
	assert.ErrorIs(t, err, domain.ErrEvaluation)
	assert.ErrorIs(t, err, summarizer.ErrIncompatible)
}

type fakeExecutor struct {
	inv domain.Invocation
}

func (f *fakeExecutor) Execute(ctx context.Context, inv domain.Invocation) (domain.InvocationResult, error) {
	f.inv = inv
	path := inv.Args["metric_file_name"].(string)
	return domain.InvocationResult{}, os.WriteFile(path, []byte("model,rouge1\npegasus,0.4\n"), 0644)
}

func TestWorker_Framework(t *testing.T) {
	root := t.TempDir()
	cfg := config.ModelEvaluationConfig{
		RootDir:        root,
		DataPath:       filepath.Join(root, "data"),
		ModelPath:      filepath.Join(root, "model"),
		TokenizerPath:  filepath.Join(root, "tokenizer"),
		MetricFileName: filepath.Join(root, "metrics.csv"),
		BatchSize:      16,
		Framework:      &domain.Framework{Command: "python", Args: []string{"evaluate.py"}},
	}
	exec := &fakeExecutor{}

	require.NoError(t, evaluator.New(cfg, evaluator.WithExecutor(exec)).Run(context.Background()))
	assert.Equal(t, domain.StageModelEvaluation, exec.inv.Stage)
	assert.Equal(t, 16, exec.inv.Args["batch_size"])

	report, err := evaluator.ReadReport(cfg.MetricFileName)
	require.NoError(t, err)
	assert.Equal(t, []string{"pegasus", "0.4"}, report.Rows[0])
}
