package cmd

import (
	"fmt"

	"github.com/abhisek/lingoz/internal/app"
	"github.com/abhisek/lingoz/internal/content"
	"github.com/abhisek/lingoz/internal/session"
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a practice session",
	Long: "Open the practice menu, or with --mode jump straight into a session.\n" +
		"Modes: mix, vocab, grammar, phrases, comprehension, review.",
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, _ := cmd.Flags().GetString("mode")
		return runPlay(cmd, mode)
	},
}

func init() {
	playCmd.Flags().String("mode", "", "Start a session in this mode right away")
}

// runPlay launches the TUI. An empty mode falls back to practice.mode from
// the config file, then to the menu.
func runPlay(cmd *cobra.Command, mode string) error {
	if mode == "" {
		mode = cfg.Mode
	}
	var start session.Mode
	if mode != "" {
		m, err := session.ParseMode(mode)
		if err != nil {
			return err
		}
		start = m
	}

	ctx := cmd.Context()
	e, err := openEnv(ctx, true)
	if err != nil {
		return err
	}
	defer e.Close()

	sheet, err := content.LoadCheatset()
	if err != nil {
		return fmt.Errorf("load cheatset: %w", err)
	}

	e.logger.Info("starting tui", "mode", start, "questions", e.bank.Len())
	return app.Run(app.Options{
		Controller: e.ctrl,
		Totals:     e.store.Totals,
		Cheatset:   sheet,
		StartMode:  start,
	})
}
