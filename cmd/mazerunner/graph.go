package main

import (
	"github.com/aretw0/mazerunner/internal/cli"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [maze-file]",
	Short: "Export a maze as a Mermaid diagram",
	Long: `Outputs a Mermaid diagram (graph TD) of one maze. With --journal the rooms
visited by a recorded run are highlighted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		opts := cli.GraphOptions{MazeFile: cfg.MazeFile, JournalPath: cfg.Journal.Path}
		if len(args) > 0 {
			opts.MazeFile = args[0]
		}
		opts.Maze, _ = cmd.Flags().GetString("maze")
		opts.RunID, _ = cmd.Flags().GetString("run")
		if cmd.Flags().Changed("journal") {
			opts.JournalPath, _ = cmd.Flags().GetString("journal")
		}
		if opts.RunID == "" && !cmd.Flags().Changed("journal") {
			opts.JournalPath = ""
		}
		return cli.ExportGraph(cmd.Context(), opts, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)

	graphCmd.Flags().StringP("maze", "m", "", "Name of the maze to export (defaults to the first)")
	graphCmd.Flags().String("journal", "", "Journal to read the visited rooms from")
	graphCmd.Flags().String("run", "", "Run to overlay (defaults to the latest in the journal)")
}
