package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/mazerunner"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of mazerunner",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "mazerunner version %s\n", strings.TrimSpace(mazerunner.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
