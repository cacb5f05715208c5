/*
Package ports defines the driven ports (interfaces) of the pipeline.

These interfaces decouple stage workers and the orchestrator from concrete adapters.

# Key Interfaces

  - RunStore: persists run records (file, memory or Redis backends).
  - FrameworkExecutor: runs the external ML framework command a stage delegates to.

RunRunStoreContract is a reusable test suite every RunStore adapter runs.
*/
package ports
