/*
Package pipeline wires configuration, stage workers and run bookkeeping into the
four-stage training pipeline.

Each stage is wrapped by a Stage that builds a fresh config.Manager, fetches its typed
config, constructs the worker and runs it exactly once. The Orchestrator runs the stages in
the order given by the stage graph and stops at the first failure:

	stages := pipeline.DefaultStages(pipeline.Options{Logger: logger})
	orch, err := pipeline.NewOrchestrator(stages, pipeline.WithLogger(logger))
	if err != nil {
		return err
	}
	report, err := orch.Run(ctx)
*/
package pipeline
