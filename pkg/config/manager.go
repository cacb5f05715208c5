package config

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/textsum/internal/logging"
	"github.com/aretw0/textsum/pkg/common"
	"github.com/aretw0/textsum/pkg/domain"
)

const (
	// DefaultConfigPath is the well-known location of the configuration document.
	DefaultConfigPath = "config/config.yaml"
	// DefaultParamsPath is the well-known location of the params document.
	DefaultParamsPath = "params.yaml"

	defaultMaxInputLength  = 1024
	defaultMaxTargetLength = 128
	defaultBatchSize       = 16
)

// Section keys of the configuration document.
const (
	KeyArtifactsRoot      = "artifacts_root"
	KeyDataIngestion      = "data_ingestion"
	KeyDataTransformation = "data_transformation"
	KeyModelTrainer       = "model_trainer"
	KeyModelEvaluation    = "model_evaluation"
	KeyRunStore           = "run_store"
	KeyMetrics            = "metrics"
	KeyTrainingArguments  = "training_arguments"
)

// Manager loads the configuration and params documents and hands out one typed,
// validated config per stage. Every failure wraps domain.ErrConfiguration.
type Manager struct {
	config common.Document
	params common.Document
	logger *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for load and directory-creation messages.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager reads both documents and creates the artifacts root directory.
func NewManager(configPath, paramsPath string, opts ...Option) (*Manager, error) {
	m := &Manager{}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = logging.Module(m.logger, "configuration")

	var err error
	if m.config, err = common.ReadYAML(m.logger, configPath); err != nil {
		return nil, configError(err)
	}
	if m.params, err = common.ReadYAML(m.logger, paramsPath); err != nil {
		return nil, configError(err)
	}

	root, ok := m.config[KeyArtifactsRoot].(string)
	if !ok || root == "" {
		return nil, fmt.Errorf("%w: %q must be a non-empty string", domain.ErrConfiguration, KeyArtifactsRoot)
	}
	if err := common.CreateDirectories(m.logger, root); err != nil {
		return nil, configError(err)
	}
	return m, nil
}

// DataIngestionConfig returns the ingestion stage config.
func (m *Manager) DataIngestionConfig() (DataIngestionConfig, error) {
	var c DataIngestionConfig
	if err := section(m.config, KeyDataIngestion, &c); err != nil {
		return DataIngestionConfig{}, err
	}
	if err := m.mkdir(c.RootDir); err != nil {
		return DataIngestionConfig{}, err
	}
	return c, nil
}

// DataTransformationConfig returns the transformation stage config.
func (m *Manager) DataTransformationConfig() (DataTransformationConfig, error) {
	var c DataTransformationConfig
	if err := section(m.config, KeyDataTransformation, &c); err != nil {
		return DataTransformationConfig{}, err
	}
	if c.MaxInputLength == 0 {
		c.MaxInputLength = defaultMaxInputLength
	}
	if c.MaxTargetLength == 0 {
		c.MaxTargetLength = defaultMaxTargetLength
	}
	if c.MaxInputLength < 0 || c.MaxTargetLength < 0 {
		return DataTransformationConfig{}, fmt.Errorf("%w: section %q: lengths must be positive", domain.ErrConfiguration, KeyDataTransformation)
	}
	if err := validateFramework(KeyDataTransformation, c.Framework); err != nil {
		return DataTransformationConfig{}, err
	}
	if err := m.mkdir(c.RootDir); err != nil {
		return DataTransformationConfig{}, err
	}
	return c, nil
}

// ModelTrainerConfig returns the trainer stage config merged with the params training arguments.
func (m *Manager) ModelTrainerConfig() (ModelTrainerConfig, error) {
	var c ModelTrainerConfig
	if err := section(m.config, KeyModelTrainer, &c); err != nil {
		return ModelTrainerConfig{}, err
	}
	if err := section(m.params, KeyTrainingArguments, &c.TrainingArguments); err != nil {
		return ModelTrainerConfig{}, err
	}
	if c.TrainingArguments.NumTrainEpochs < 1 {
		return ModelTrainerConfig{}, fmt.Errorf("%w: section %q: num_train_epochs must be at least 1", domain.ErrConfiguration, KeyTrainingArguments)
	}
	if err := validateFramework(KeyModelTrainer, c.Framework); err != nil {
		return ModelTrainerConfig{}, err
	}
	if err := m.mkdir(c.RootDir); err != nil {
		return ModelTrainerConfig{}, err
	}
	return c, nil
}

// ModelEvaluationConfig returns the evaluation stage config.
func (m *Manager) ModelEvaluationConfig() (ModelEvaluationConfig, error) {
	var c ModelEvaluationConfig
	if err := section(m.config, KeyModelEvaluation, &c); err != nil {
		return ModelEvaluationConfig{}, err
	}
	if c.BatchSize == 0 {
		c.BatchSize = defaultBatchSize
	}
	if c.MaxSamples < 0 || c.BatchSize < 0 {
		return ModelEvaluationConfig{}, fmt.Errorf("%w: section %q: max_samples and batch_size must not be negative", domain.ErrConfiguration, KeyModelEvaluation)
	}
	if err := validateFramework(KeyModelEvaluation, c.Framework); err != nil {
		return ModelEvaluationConfig{}, err
	}
	if err := m.mkdir(c.RootDir); err != nil {
		return ModelEvaluationConfig{}, err
	}
	return c, nil
}

// RunStoreConfig returns the run store section, or the file-backend default when absent.
func (m *Manager) RunStoreConfig() (RunStoreConfig, error) {
	return runStoreConfig(m.config)
}

// ReadRunStoreConfig reads only the run store section of the configuration document at
// path. Unlike NewManager it logs nothing and creates no directory.
func ReadRunStoreConfig(path string) (RunStoreConfig, error) {
	doc, err := common.ReadYAML(nil, path)
	if err != nil {
		return RunStoreConfig{}, configError(err)
	}
	return runStoreConfig(doc)
}

func runStoreConfig(doc common.Document) (RunStoreConfig, error) {
	c := RunStoreConfig{Backend: "file"}
	if _, ok := doc[KeyRunStore]; ok {
		if err := section(doc, KeyRunStore, &c); err != nil {
			return RunStoreConfig{}, err
		}
	}
	switch c.Backend {
	case "":
		c.Backend = "file"
	case "file", "redis", "none":
	default:
		return RunStoreConfig{}, fmt.Errorf("%w: section %q: unknown backend %q", domain.ErrConfiguration, KeyRunStore, c.Backend)
	}
	if c.Backend == "redis" && c.RedisAddr == "" {
		return RunStoreConfig{}, fmt.Errorf("%w: section %q: redis_addr is required for the redis backend", domain.ErrConfiguration, KeyRunStore)
	}
	return c, nil
}

// MetricsConfig returns the metrics section, or an empty config when absent.
func (m *Manager) MetricsConfig() (MetricsConfig, error) {
	var c MetricsConfig
	if _, ok := m.config[KeyMetrics]; ok {
		if err := section(m.config, KeyMetrics, &c); err != nil {
			return MetricsConfig{}, err
		}
	}
	return c, nil
}

// Validate builds every stage config, returning the first error.
func (m *Manager) Validate() error {
	if _, err := m.DataIngestionConfig(); err != nil {
		return err
	}
	if _, err := m.DataTransformationConfig(); err != nil {
		return err
	}
	if _, err := m.ModelTrainerConfig(); err != nil {
		return err
	}
	if _, err := m.ModelEvaluationConfig(); err != nil {
		return err
	}
	if _, err := m.RunStoreConfig(); err != nil {
		return err
	}
	_, err := m.MetricsConfig()
	return err
}

func section(doc common.Document, key string, out any) error {
	values, ok := doc.Section(key)
	if !ok {
		if _, present := doc[key]; present {
			return fmt.Errorf("%w: section %q must be a mapping", domain.ErrConfiguration, key)
		}
		return fmt.Errorf("%w: missing section %q", domain.ErrConfiguration, key)
	}
	if err := decodeSection(key, values, out); err != nil {
		return configError(err)
	}
	return nil
}

func (m *Manager) mkdir(dir string) error {
	if err := common.CreateDirectories(m.logger, dir); err != nil {
		return configError(err)
	}
	return nil
}

func validateFramework(section string, f *domain.Framework) error {
	if f != nil && f.Command == "" {
		return fmt.Errorf("%w: section %q: framework.command is required when framework is set", domain.ErrConfiguration, section)
	}
	return nil
}

func configError(err error) error {
	return fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
}
