package main

import (
	"strings"

	"github.com/aretw0/mazerunner/internal/cli"
	"github.com/spf13/cobra"
)

var voteCmd = &cobra.Command{
	Use:   "vote <text>",
	Short: "Mention the bot on the Redis feed",
	Long: `Adds a mention to the Redis feed watched by a run with the redis backend.
Handy to play a local game from several terminals.`,
	Example: `  mazerunner vote "go north"`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return cli.PushVote(cmd.Context(), cfg, strings.Join(args, " "), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(voteCmd)
}
