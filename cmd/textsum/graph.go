package main

import (
	"fmt"

	"github.com/aretw0/textsum/internal/presentation/graph"
	"github.com/aretw0/textsum/pkg/domain"
	"github.com/aretw0/textsum/pkg/pipeline"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the stage graph",
	Long: `Prints the stage dependency graph in Graphviz DOT format (pipe it to "dot -Tsvg")
or as a Mermaid flowchart. With --run, the Mermaid output is painted with the stage
outcomes of a recorded run.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		runID, _ := cmd.Flags().GetString("run")

		switch format {
		case "dot":
			if runID != "" {
				return fmt.Errorf("--run requires --format mermaid")
			}
			return pipeline.WriteDOT(cmd.OutOrStdout(), pipeline.DefaultStages(pipeline.Options{}))
		case "mermaid":
			var overlay *graph.Overlay
			if runID != "" {
				run, err := loadRun(cmd, runID)
				if err != nil {
					return err
				}
				overlay = graph.OverlayFromRun(run)
			}
			fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(domain.Stages, pipeline.Dependencies, overlay))
			return nil
		}
		return fmt.Errorf("unknown format %q (expected dot or mermaid)", format)
	},
}

func loadRun(cmd *cobra.Command, id string) (*domain.Run, error) {
	app, err := bootstrapReadOnly(cmd)
	if err != nil {
		return nil, err
	}
	defer app.Close()

	store, err := app.RunStore()
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("run history is disabled (run_store.backend: none)")
	}
	return store.Load(cmd.Context(), id)
}

func init() {
	graphCmd.Flags().String("format", "dot", "Output format: dot or mermaid")
	graphCmd.Flags().String("run", "", "Paint the stage outcomes of this run id (mermaid only)")
	rootCmd.AddCommand(graphCmd)
}
