package main

import (
	"strings"

	"github.com/aretw0/textsum/pkg/domain"
	"github.com/spf13/cobra"
)

func stageSlugs() []string {
	slugs := make([]string, len(domain.Stages))
	for i, s := range domain.Stages {
		slugs[i] = s.Slug()
	}
	return slugs
}

var stageCmd = &cobra.Command{
	Use:       "stage <name>...",
	Short:     "Run selected stages",
	Long:      "Runs only the named stages, in pipeline order. Valid names: " + strings.Join(stageSlugs(), ", ") + ".",
	Args:      cobra.MatchAll(cobra.MinimumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: stageSlugs(),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStages(cmd, args...)
	},
}

func init() {
	rootCmd.AddCommand(stageCmd)
}
