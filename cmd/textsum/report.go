package main

import (
	"os"

	"github.com/aretw0/textsum/internal/cli"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the evaluation metrics",
	Long:  `Renders the metrics CSV written by the evaluation stage. Output is styled when stdout is a terminal.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := bootstrapReadOnly(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		m, err := app.Manager()
		if err != nil {
			return err
		}
		cfg, err := m.ModelEvaluationConfig()
		if err != nil {
			return err
		}

		plain, _ := cmd.Flags().GetBool("plain")
		styled := !plain && term.IsTerminal(int(os.Stdout.Fd()))
		return cli.ShowReport(cmd.OutOrStdout(), cfg.MetricFileName, styled)
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().Bool("plain", false, "Print markdown without terminal styling")
}
