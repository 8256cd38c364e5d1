package main

import (
	"github.com/aretw0/mazerunner/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [maze-file]",
	Short: "Play one maze until the end room is reached",
	Long: `Loads the maze file, picks a maze at random and plays it on the configured
backend: the terminal (console), a Redis-backed feed (redis) or a social
network API (social). Ctrl+C stops the run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if len(args) > 0 {
			cfg.MazeFile = args[0]
		}
		if cmd.Flags().Changed("backend") {
			cfg.Backend, _ = cmd.Flags().GetString("backend")
		}
		if cmd.Flags().Changed("http") {
			cfg.HTTP.Addr, _ = cmd.Flags().GetString("http")
		}
		if cmd.Flags().Changed("journal") {
			cfg.Journal.Path, _ = cmd.Flags().GetString("journal")
		}
		if cmd.Flags().Changed("seed") {
			cfg.Seed, _ = cmd.Flags().GetUint64("seed")
		}
		if cmd.Flags().Changed("intro") {
			cfg.Intro, _ = cmd.Flags().GetBool("intro")
		}
		debug, _ := cmd.Flags().GetBool("debug")
		quiet, _ := cmd.Flags().GetBool("quiet")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		return cli.RunGame(ctx, cli.RunOptions{
			Config: cfg,
			Debug:  debug,
			Quiet:  quiet,
			In:     cmd.InOrStdin(),
			Out:    cmd.OutOrStdout(),
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("backend", "b", "", "Feed backend: console, redis or social")
	runCmd.Flags().String("http", "", "Serve status, events and metrics on this address (e.g. :8080)")
	runCmd.Flags().String("journal", "", "Record the run in this SQLite file")
	runCmd.Flags().Uint64("seed", 0, "Seed for maze selection (0 picks a random one)")
	runCmd.Flags().Bool("intro", false, "Post an introduction before the first room")
	runCmd.Flags().BoolP("quiet", "q", false, "Do not print the banner and system messages")

	// 'run' is the default command.
	rootCmd.RunE = runCmd.RunE
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
}
