/*
Package textsum trains a dialogue summarization model with a four-stage batch pipeline:
data ingestion, data transformation, model training and model evaluation.

Each stage reads its section of config/config.yaml (and the trainer also params.yaml),
does one unit of work and hands its artifacts to the next stage through the filesystem.
Stages run in a fixed order and the first failure aborts the run.

# Stages

  - Data Ingestion: download (or reuse) the dataset archive and extract it.
  - Data Transformation: build the vocabulary and tokenize every split.
  - Model Trainer: fit the model on the train split.
  - Model Evaluation: score the model with ROUGE and write a CSV report.

A stage either runs the built-in reference backend or, when its section has a framework
block, delegates to an external command such as a Python trainer.

# Usage

	report, err := textsum.Run(ctx, pipeline.Options{Logger: logger})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(report.Status())

The textsum command wraps the same entry point and adds stage, validate, graph, report and
history subcommands.
*/
package textsum
