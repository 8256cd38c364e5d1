package main

import (
	"fmt"

	"github.com/aretw0/mazerunner/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [maze-file]",
	Short: "Check a maze file for consistency",
	Long: `Parses the maze file and reports missing rooms, dead ends, colliding exit
names and end rooms that cannot be reached from the start.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		path := cfg.MazeFile
		if len(args) > 0 {
			path = args[0]
		}

		out := cmd.OutOrStdout()
		if err := cli.ValidateFile(cmd.Context(), path, out); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Fprintln(out, "Mazes are valid! ✅")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
