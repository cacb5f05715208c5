// Package evaluator scores the trained model on the test split with ROUGE and writes a CSV report.
package evaluator

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"

	"github.com/aretw0/textsum/internal/logging"
	"github.com/aretw0/textsum/pkg/common"
	"github.com/aretw0/textsum/pkg/components"
	"github.com/aretw0/textsum/pkg/config"
	"github.com/aretw0/textsum/pkg/dataset"
	"github.com/aretw0/textsum/pkg/domain"
	"github.com/aretw0/textsum/pkg/ports"
	"github.com/aretw0/textsum/pkg/rouge"
	"github.com/aretw0/textsum/pkg/summarizer"
)

// Worker performs the model evaluation stage.
type Worker struct {
	cfg      config.ModelEvaluationConfig
	logger   *slog.Logger
	executor ports.FrameworkExecutor
}

// Option configures a Worker.
type Option func(*Worker)

// WithLogger sets the worker logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) {
		w.logger = logger
	}
}

// WithExecutor sets the executor used when a framework command is configured.
func WithExecutor(exec ports.FrameworkExecutor) Option {
	return func(w *Worker) {
		w.executor = exec
	}
}

// New creates an evaluation worker for cfg.
func New(cfg config.ModelEvaluationConfig, opts ...Option) *Worker {
	w := &Worker{cfg: cfg}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = logging.Module(w.logger, "model_evaluation")
	if w.executor == nil {
		w.executor = components.DefaultExecutor(w.logger)
	}
	return w
}

// Run evaluates the model and writes the metrics report. Failures wrap domain.ErrEvaluation.
func (w *Worker) Run(ctx context.Context) error {
	var err error
	if w.cfg.Framework.Enabled() {
		err = components.RunFramework(ctx, w.executor, w.logger, domain.StageModelEvaluation, w.cfg.Framework, map[string]any{
			"data_path":        w.cfg.DataPath,
			"model_path":       w.cfg.ModelPath,
			"tokenizer_path":   w.cfg.TokenizerPath,
			"metric_file_name": w.cfg.MetricFileName,
			"max_samples":      w.cfg.MaxSamples,
			"batch_size":       w.cfg.BatchSize,
		}, w.cfg.MetricFileName)
	} else {
		_, err = w.Evaluate(ctx)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrEvaluation, err)
	}
	return nil
}

// Evaluate scores the built-in reference model on the test split, writes the CSV report
// and returns the mean F1 per metric.
func (w *Worker) Evaluate(ctx context.Context) (map[string]float64, error) {
	model, err := summarizer.LoadModel(filepath.Join(w.cfg.ModelPath, summarizer.ModelFile))
	if err != nil {
		return nil, fmt.Errorf("failed to load model: %w", err)
	}
	tok, err := summarizer.LoadTokenizer(filepath.Join(w.cfg.TokenizerPath, summarizer.TokenizerFile))
	if err != nil {
		return nil, fmt.Errorf("failed to load tokenizer: %w", err)
	}
	if tok.Size() != model.VocabSize {
		return nil, fmt.Errorf("%w: tokenizer has %d tokens, model expects %d", summarizer.ErrIncompatible, tok.Size(), model.VocabSize)
	}

	records, err := dataset.ReadJSONL[dataset.Encoded](dataset.SplitPath(w.cfg.DataPath, dataset.SplitTest))
	if err != nil {
		return nil, fmt.Errorf("failed to read test split: %w", err)
	}
	if w.cfg.MaxSamples > 0 && len(records) > w.cfg.MaxSamples {
		records = records[:w.cfg.MaxSamples]
	}

	batchSize := max(w.cfg.BatchSize, 1)
	batches := (len(records) + batchSize - 1) / batchSize
	agg := rouge.NewAggregator()
	for b := 0; b < batches; b++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := min((b+1)*batchSize, len(records))
		for _, rec := range records[b*batchSize : end] {
			summary, err := model.Summarize(rec.InputIDs)
			if err != nil {
				return nil, fmt.Errorf("record %s: %w", rec.ID, err)
			}
			agg.Add(rouge.All(scored(summary), scored(rec.Labels), summarizer.SepID))
		}
		w.logger.Debug(fmt.Sprintf("Evaluated batch %d/%d", b+1, batches))
	}

	scores := agg.Mean()
	if err := w.writeReport(model.Checkpoint, scores); err != nil {
		return nil, err
	}
	w.logger.Info(fmt.Sprintf("Evaluated %d samples, metrics saved at: %s", len(records), w.cfg.MetricFileName),
		rouge.Rouge1, format(scores[rouge.Rouge1]),
		rouge.Rouge2, format(scores[rouge.Rouge2]),
		rouge.RougeL, format(scores[rouge.RougeL]),
		rouge.RougeLsum, format(scores[rouge.RougeLsum]),
	)
	return scores, nil
}

func (w *Worker) writeReport(modelName string, scores map[string]float64) error {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	header := append([]string{"model"}, rouge.Metrics...)
	row := []string{modelName}
	for _, m := range rouge.Metrics {
		row = append(row, format(scores[m]))
	}
	if err := cw.WriteAll([][]string{header, row}); err != nil {
		return fmt.Errorf("failed to encode metrics: %w", err)
	}
	return common.WriteFileAtomic(w.cfg.MetricFileName, buf.Bytes())
}

// scored keeps word and separator tokens, dropping padding and end-of-sequence markers.
func scored(ids []int) []int {
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if id == summarizer.PadID || id == summarizer.EOSID {
			continue
		}
		out = append(out, id)
	}
	return out
}

func format(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
