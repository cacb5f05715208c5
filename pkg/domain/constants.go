package domain

// StageName identifies one of the four ordered pipeline phases.
type StageName string

const (
	StageDataIngestion      StageName = "Data Ingestion Stage"
	StageDataTransformation StageName = "Data Transformation Stage"
	StageModelTrainer       StageName = "Model Trainer Stage"
	StageModelEvaluation    StageName = "Model Evaluation Stage"
)

// Stages lists the stages in execution order.
var Stages = []StageName{
	StageDataIngestion,
	StageDataTransformation,
	StageModelTrainer,
	StageModelEvaluation,
}

// Slug returns the short, filesystem and CLI friendly form of the stage name.
func (s StageName) Slug() string {
	switch s {
	case StageDataIngestion:
		return "data_ingestion"
	case StageDataTransformation:
		return "data_transformation"
	case StageModelTrainer:
		return "model_trainer"
	case StageModelEvaluation:
		return "model_evaluation"
	}
	return string(s)
}

// StageBySlug resolves a slug (as accepted on the command line) to a StageName.
func StageBySlug(slug string) (StageName, bool) {
	for _, s := range Stages {
		if s.Slug() == slug {
			return s, true
		}
	}
	return "", false
}
