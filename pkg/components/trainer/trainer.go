// Package trainer fits the summarization model on the transformed train split.
package trainer

import (
	"context"
	"encoding/json"
	"errors"
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

// TokenizerDir is the directory under RootDir the tokenizer is copied to.
const TokenizerDir = "tokenizer"

// Worker performs the model training stage.
type Worker struct {
	cfg      config.ModelTrainerConfig
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

// New creates a trainer worker for cfg.
func New(cfg config.ModelTrainerConfig, opts ...Option) *Worker {
	w := &Worker{cfg: cfg}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = logging.Module(w.logger, "model_trainer")
	if w.executor == nil {
		w.executor = components.DefaultExecutor(w.logger)
	}
	return w
}

// ModelDir is where the trained model is saved: RootDir/<checkpoint base name>-model.
func (w *Worker) ModelDir() string {
	return filepath.Join(w.cfg.RootDir, filepath.Base(w.cfg.ModelCkpt)+"-model")
}

// TokenizerDir is where the tokenizer used for training is saved.
func (w *Worker) TokenizerDir() string {
	return filepath.Join(w.cfg.RootDir, TokenizerDir)
}

// Run trains and saves the model. Failures wrap domain.ErrTraining.
func (w *Worker) Run(ctx context.Context) error {
	args := w.cfg.TrainingArguments
	w.logger.Info("Training arguments",
		"num_train_epochs", args.NumTrainEpochs,
		"warmup_steps", args.WarmupSteps,
		"per_device_train_batch_size", args.PerDeviceTrainBatchSize,
		"weight_decay", args.WeightDecay,
		"logging_steps", args.LoggingSteps,
		"evaluation_strategy", args.EvaluationStrategy,
		"eval_steps", args.EvalSteps,
		"save_steps", args.SaveSteps,
		"gradient_accumulation_steps", args.GradientAccumulationSteps,
	)

	var err error
	if w.cfg.Framework.Enabled() {
		err = components.RunFramework(ctx, w.executor, w.logger, domain.StageModelTrainer, w.cfg.Framework, w.frameworkArgs(),
			w.ModelDir(), w.TokenizerDir())
	} else {
		err = w.Train()
	}
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrTraining, err)
	}
	return nil
}

func (w *Worker) frameworkArgs() map[string]any {
	args := w.cfg.TrainingArguments
	return map[string]any{
		"data_path":                   w.cfg.DataPath,
		"model_ckpt":                  w.cfg.ModelCkpt,
		"output_dir":                  w.ModelDir(),
		"tokenizer_dir":               w.TokenizerDir(),
		"num_train_epochs":            args.NumTrainEpochs,
		"warmup_steps":                args.WarmupSteps,
		"per_device_train_batch_size": args.PerDeviceTrainBatchSize,
		"weight_decay":                args.WeightDecay,
		"logging_steps":               args.LoggingSteps,
		"evaluation_strategy":         args.EvaluationStrategy,
		"eval_steps":                  args.EvalSteps,
		"save_steps":                  args.SaveSteps,
		"gradient_accumulation_steps": args.GradientAccumulationSteps,
	}
}

// Train fits the built-in reference model and saves it with its tokenizer.
func (w *Worker) Train() error {
	tok, err := summarizer.LoadTokenizer(filepath.Join(w.cfg.DataPath, summarizer.TokenizerFile))
	if err != nil {
		return fmt.Errorf("failed to load tokenizer: %w", err)
	}
	records, err := dataset.ReadJSONL[dataset.Encoded](dataset.SplitPath(w.cfg.DataPath, dataset.SplitTrain))
	if err != nil {
		return fmt.Errorf("failed to read train split: %w", err)
	}

	args := w.cfg.TrainingArguments
	model, err := summarizer.Train(records, tok.Size(), summarizer.TrainOptions{
		Checkpoint:                w.cfg.ModelCkpt,
		Epochs:                    args.NumTrainEpochs,
		WarmupSteps:               args.WarmupSteps,
		WeightDecay:               args.WeightDecay,
		BatchSize:                 args.PerDeviceTrainBatchSize,
		GradientAccumulationSteps: args.GradientAccumulationSteps,
		OnStep: func(step int, delta float64) {
			if args.LoggingSteps > 0 && step%args.LoggingSteps == 0 {
				w.logger.Info(fmt.Sprintf("Step %d: mean update %.6f", step, delta))
			}
		},
	})
	if err != nil {
		if errors.Is(err, summarizer.ErrEmptyDataset) {
			return fmt.Errorf("%s: %w", w.cfg.DataPath, err)
		}
		return err
	}

	data, err := json.MarshalIndent(model, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode model: %w", err)
	}
	if err := common.WriteFileAtomic(filepath.Join(w.ModelDir(), summarizer.ModelFile), data); err != nil {
		return err
	}
	vocab, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("failed to encode tokenizer: %w", err)
	}
	if err := common.WriteFileAtomic(filepath.Join(w.TokenizerDir(), summarizer.TokenizerFile), vocab); err != nil {
		return err
	}

	w.logger.Info(fmt.Sprintf("Model trained in %d steps and saved at: %s", model.Steps, w.ModelDir()))
	return nil
}
