package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/aretw0/textsum/internal/cli"
	"github.com/aretw0/textsum/internal/presentation/tui"
	"github.com/aretw0/textsum/pkg/config"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// exitError carries a process exit status through cobra.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

var rootCmd = &cobra.Command{
	Use:   "textsum",
	Short: "textsum trains a dialogue summarization model",
	Long: `textsum runs the four-stage training pipeline (data ingestion, data transformation,
model training, model evaluation) described by config/config.yaml and params.yaml.
Without a subcommand every stage runs in order and the first failure aborts the run.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStages(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		code := 1
		var ee *exitError
		if errors.As(err, &ee) {
			code = ee.code
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(code)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", config.DefaultConfigPath, "Path to the configuration document")
	rootCmd.PersistentFlags().String("params", config.DefaultParamsPath, "Path to the params document")
}

// bootstrap builds the App from the persistent flags.
func bootstrap(cmd *cobra.Command) (*cli.App, error) {
	configPath, _ := cmd.Flags().GetString("config")
	paramsPath, _ := cmd.Flags().GetString("params")
	return cli.Bootstrap(cli.Options{ConfigPath: configPath, ParamsPath: paramsPath})
}

// bootstrapReadOnly is bootstrap for commands whose stdout is their result: the console
// copy of the log goes to stderr.
func bootstrapReadOnly(cmd *cobra.Command) (*cli.App, error) {
	configPath, _ := cmd.Flags().GetString("config")
	paramsPath, _ := cmd.Flags().GetString("params")
	return cli.Bootstrap(cli.Options{ConfigPath: configPath, ParamsPath: paramsPath, Stdout: cmd.ErrOrStderr()})
}

// runStages runs the selected stages (all when none) and maps the outcome to an exit status.
func runStages(cmd *cobra.Command, slugs ...string) error {
	app, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	stages, err := app.SelectStages(slugs...)
	if err != nil {
		return err
	}

	if len(slugs) == 0 && term.IsTerminal(int(os.Stdout.Fd())) {
		tui.PrintBanner(os.Stdout)
	}

	ctx := cli.NewSignalContext(cmd.Context())
	defer ctx.Stop()

	_, err = app.RunPipeline(ctx, stages)
	return exitStatus(err, ctx.Signal())
}

// exitStatus maps a pipeline error to the process exit status: 130 when a signal
// interrupted the run, 1 otherwise. The error is already logged by the orchestrator.
func exitStatus(err error, sig os.Signal) error {
	if err == nil {
		return nil
	}
	if sig != nil {
		return &exitError{code: 130, err: err}
	}
	return &exitError{code: 1, err: err}
}
