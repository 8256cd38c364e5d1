package main

import (
	"os"

	"github.com/aretw0/mazerunner/internal/cli"
	"github.com/aretw0/mazerunner/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mazerunner",
	Short: "Mazerunner walks through a text maze by popular vote",
	Long: `Mazerunner announces rooms of a maze on a social feed, counts the exits
named in its mentions and moves through the most voted one until it reaches bed.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		cli.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML config file (MAZERUNNER_* variables override it)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}

// loadConfig reads the config named by --config, if any.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}
