package config

import (
	"time"

	"github.com/aretw0/textsum/pkg/domain"
)

// DataIngestionConfig is the ingestion stage's view of the configuration document.
type DataIngestionConfig struct {
	RootDir       string `mapstructure:"root_dir"`
	SourceURL     string `mapstructure:"source_url"`
	LocalDataFile string `mapstructure:"local_data_file"`
	UnzipDir      string `mapstructure:"unzip_dir"`
}

// DataTransformationConfig is the transformation stage's view of the configuration document.
type DataTransformationConfig struct {
	RootDir         string            `mapstructure:"root_dir"`
	DataPath        string            `mapstructure:"data_path"`
	TokenizerName   string            `mapstructure:"tokenizer_name"`
	MaxInputLength  int               `mapstructure:"max_input_length,omitempty"`
	MaxTargetLength int               `mapstructure:"max_target_length,omitempty"`
	Framework       *domain.Framework `mapstructure:"framework,omitempty"`
}

// TrainingArguments holds the hyperparameters read from the params document.
type TrainingArguments struct {
	NumTrainEpochs            int     `mapstructure:"num_train_epochs"`
	WarmupSteps               int     `mapstructure:"warmup_steps"`
	PerDeviceTrainBatchSize   int     `mapstructure:"per_device_train_batch_size"`
	WeightDecay               float64 `mapstructure:"weight_decay"`
	LoggingSteps              int     `mapstructure:"logging_steps"`
	EvaluationStrategy        string  `mapstructure:"evaluation_strategy"`
	EvalSteps                 int     `mapstructure:"eval_steps"`
	SaveSteps                 int     `mapstructure:"save_steps"`
	GradientAccumulationSteps int     `mapstructure:"gradient_accumulation_steps"`
}

// ModelTrainerConfig is the trainer stage's view of the configuration and params documents.
type ModelTrainerConfig struct {
	RootDir           string            `mapstructure:"root_dir"`
	DataPath          string            `mapstructure:"data_path"`
	ModelCkpt         string            `mapstructure:"model_ckpt"`
	Framework         *domain.Framework `mapstructure:"framework,omitempty"`
	TrainingArguments TrainingArguments `mapstructure:"-"`
}

// ModelEvaluationConfig is the evaluation stage's view of the configuration document.
type ModelEvaluationConfig struct {
	RootDir        string            `mapstructure:"root_dir"`
	DataPath       string            `mapstructure:"data_path"`
	ModelPath      string            `mapstructure:"model_path"`
	TokenizerPath  string            `mapstructure:"tokenizer_path"`
	MetricFileName string            `mapstructure:"metric_file_name"`
	MaxSamples     int               `mapstructure:"max_samples,omitempty"`
	BatchSize      int               `mapstructure:"batch_size,omitempty"`
	Framework      *domain.Framework `mapstructure:"framework,omitempty"`
}

// RunStoreConfig selects where run records are persisted.
type RunStoreConfig struct {
	// Backend is "file" (default), "redis" or "none".
	Backend       string        `mapstructure:"backend,omitempty"`
	Dir           string        `mapstructure:"dir,omitempty"`
	RedisAddr     string        `mapstructure:"redis_addr,omitempty"`
	RedisPassword string        `mapstructure:"redis_password,omitempty"`
	RedisDB       int           `mapstructure:"redis_db,omitempty"`
	Prefix        string        `mapstructure:"prefix,omitempty"`
	TTL           time.Duration `mapstructure:"ttl,omitempty"`
}

// MetricsConfig configures the Prometheus textfile written after each run.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile,omitempty"`
}
