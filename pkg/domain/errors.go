package domain

import "errors"

// ErrConfiguration is returned when the configuration document is missing, unparseable,
// or lacks a section or key a stage requires.
var ErrConfiguration = errors.New("configuration error")

// ErrIngestion is returned when the raw dataset cannot be fetched, verified or extracted.
var ErrIngestion = errors.New("data ingestion error")

// ErrTransformation is returned when the raw dataset is missing or malformed.
var ErrTransformation = errors.New("data transformation error")

// ErrTraining is returned when the training dataset is unusable or training does not complete.
var ErrTraining = errors.New("model training error")

// ErrEvaluation is returned when the model cannot be loaded or does not match the evaluation dataset.
var ErrEvaluation = errors.New("model evaluation error")

// ErrStageAlreadyRun is returned when a stage wrapper is invoked a second time in the same process.
var ErrStageAlreadyRun = errors.New("stage already run")

// ErrRunNotFound is returned when a run ID cannot be found in the run store.
var ErrRunNotFound = errors.New("run not found")
