package main

import (
	"fmt"

	"github.com/aretw0/textsum"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of textsum",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "textsum version %s\n", textsum.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
