package main

import (
	"fmt"
	"os"

	"github.com/aretw0/textsum/internal/cli"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded pipeline runs",
	Long:  `Lists the runs kept by the configured run store (run_store section), oldest first.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := bootstrapReadOnly(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		store, err := app.RunStore()
		if err != nil {
			return err
		}
		if store == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Run history is disabled (run_store.backend: none).")
			return nil
		}
		return cli.ShowHistory(cmd.Context(), cmd.OutOrStdout(), store, termenv.NewOutput(os.Stdout).Profile)
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
