// Package transformation tokenizes the raw dialogue/summary splits into model-ready records.
package transformation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/textsum/internal/logging"
	"github.com/aretw0/textsum/pkg/common"
	"github.com/aretw0/textsum/pkg/components"
	"github.com/aretw0/textsum/pkg/config"
	"github.com/aretw0/textsum/pkg/dataset"
	"github.com/aretw0/textsum/pkg/domain"
	"github.com/aretw0/textsum/pkg/ports"
	"github.com/aretw0/textsum/pkg/summarizer"
)

// Worker performs the data transformation stage.
type Worker struct {
	cfg      config.DataTransformationConfig
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

// New creates a transformation worker for cfg.
func New(cfg config.DataTransformationConfig, opts ...Option) *Worker {
	w := &Worker{cfg: cfg}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = logging.Module(w.logger, "data_transformation")
	if w.executor == nil {
		w.executor = components.DefaultExecutor(w.logger)
	}
	return w
}

// OutputDir is where the transformed splits and the tokenizer are written.
func (w *Worker) OutputDir() string {
	return filepath.Join(w.cfg.RootDir, filepath.Base(w.cfg.DataPath))
}

// Run converts every split of DataPath. Failures wrap domain.ErrTransformation.
func (w *Worker) Run(ctx context.Context) error {
	var err error
	if w.cfg.Framework.Enabled() {
		err = components.RunFramework(ctx, w.executor, w.logger, domain.StageDataTransformation, w.cfg.Framework, map[string]any{
			"data_path":         w.cfg.DataPath,
			"output_dir":        w.OutputDir(),
			"tokenizer_name":    w.cfg.TokenizerName,
			"max_input_length":  w.cfg.MaxInputLength,
			"max_target_length": w.cfg.MaxTargetLength,
		}, w.OutputDir())
	} else {
		err = w.Convert()
	}
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrTransformation, err)
	}
	return nil
}

// Convert builds the vocabulary over all splits and writes the encoded splits with the
// built-in tokenizer. Equal input produces byte-identical output.
func (w *Worker) Convert() error {
	splits := make(map[string][]dataset.Record, len(dataset.Splits))
	var texts []string
	for _, split := range dataset.Splits {
		records, err := dataset.ReadJSONL[dataset.Record](dataset.SplitPath(w.cfg.DataPath, split))
		if err != nil {
			return fmt.Errorf("failed to read %s split: %w", split, err)
		}
		for _, rec := range records {
			texts = append(texts, rec.Dialogue, rec.Summary)
		}
		splits[split] = records
	}

	tok := summarizer.BuildTokenizer(w.cfg.TokenizerName, texts)
	w.logger.Info(fmt.Sprintf("Built tokenizer %q with %d tokens", tok.Name(), tok.Size()))

	out := w.OutputDir()
	for _, split := range dataset.Splits {
		encoded := make([]dataset.Encoded, 0, len(splits[split]))
		for _, rec := range splits[split] {
			encoded = append(encoded, w.encode(tok, rec))
		}
		data, err := dataset.MarshalJSONL(encoded)
		if err != nil {
			return fmt.Errorf("failed to encode %s split: %w", split, err)
		}
		if err := common.WriteFileAtomic(dataset.SplitPath(out, split), data); err != nil {
			return err
		}
		w.logger.Info(fmt.Sprintf("Transformed %d %s records", len(encoded), split))
	}

	vocab, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("failed to encode tokenizer: %w", err)
	}
	if err := common.WriteFileAtomic(filepath.Join(out, summarizer.TokenizerFile), vocab); err != nil {
		return err
	}
	w.logger.Info(fmt.Sprintf("Transformed dataset saved at: %s", out))
	return nil
}

func (w *Worker) encode(tok *summarizer.Tokenizer, rec dataset.Record) dataset.Encoded {
	input := tok.EncodeDialogue(rec.Dialogue, w.cfg.MaxInputLength)
	mask := make([]int, len(input))
	for i := range mask {
		mask[i] = 1
	}
	return dataset.Encoded{
		ID:            rec.ID,
		InputIDs:      input,
		AttentionMask: mask,
		Labels:        tok.Encode(rec.Summary, w.cfg.MaxTargetLength),
	}
}
