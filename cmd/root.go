package cmd

import (
	"context"

	"github.com/abhisek/lingoz/internal/config"
	"github.com/spf13/cobra"
)

// cfg is resolved once per invocation before any command runs.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:           "lingoz",
	Short:         "Adaptive English practice in the terminal",
	Long:          "Lingoz — timed multiple-choice English practice that adapts to your weakest skill.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd, "")
	},
}

func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides LINGOZ_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (overrides LINGOZ_CONFIG env var)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(studyCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(versionCmd)
}

func loadConfig(cmd *cobra.Command) error {
	var o config.Overrides
	o.DBPath, _ = cmd.Flags().GetString("db")
	o.ConfigPath, _ = cmd.Flags().GetString("config")
	o.LogLevel, _ = cmd.Flags().GetString("log-level")

	c, err := config.Load(o)
	if err != nil {
		return err
	}
	cfg = c
	return nil
}
