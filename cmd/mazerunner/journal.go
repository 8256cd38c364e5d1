package main

import (
	"errors"

	"github.com/aretw0/mazerunner/internal/cli"
	"github.com/spf13/cobra"
)

var journalCmd = &cobra.Command{
	Use:   "journal [path]",
	Short: "Print the recorded entries of a run",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		path := cfg.Journal.Path
		if len(args) > 0 {
			path = args[0]
		}
		if path == "" {
			return errors.New("no journal: pass a path or set journal.path")
		}
		runID, _ := cmd.Flags().GetString("run")
		return cli.PrintJournal(cmd.Context(), path, runID, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(journalCmd)

	journalCmd.Flags().String("run", "", "Run to print (defaults to the latest)")
}
