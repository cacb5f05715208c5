/*
Package domain contains the core types shared by every part of the summarization pipeline.

It is kept free of I/O so that configuration, workers, wrappers and adapters can all depend on it
without depending on each other.

# Key Entities

  - StageName: one of the four ordered phases (ingestion, transformation, training, evaluation).
  - StageStatus: NotStarted, Running, Completed or Failed.
  - Run: the persisted record of one orchestrator invocation and its stage outcomes.
  - LifecycleHooks: callbacks fired on stage start and finish.
  - Framework / Invocation: an external command that performs a stage's work.
  - Err*: the error taxonomy, one sentinel per stage plus configuration.
*/
package domain
