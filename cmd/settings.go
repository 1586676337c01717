package cmd

import (
	"fmt"

	"github.com/abhisek/lingoz/internal/session"
	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change practice settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer e.Close()

		s := e.ctrl.Snapshot().Settings
		changed := false
		if cmd.Flags().Changed("questions") {
			s.QuestionCount, _ = cmd.Flags().GetInt("questions")
			changed = true
		}
		if cmd.Flags().Changed("time-limit") {
			s.TimeLimitSeconds, _ = cmd.Flags().GetInt("time-limit")
			changed = true
		}
		if changed {
			e.ctrl.SetSettings(s)
		}

		out := cmd.OutOrStdout()
		current := e.ctrl.Snapshot().Settings
		for _, c := range session.Controls() {
			fmt.Fprintf(out, "%-22s %6s   (%s to %s)\n", c.Label, c.Format(c.Value(current)), c.Format(c.Min), c.Format(c.Max))
		}
		return nil
	},
}

func init() {
	settingsCmd.Flags().Int("questions", 0, "Questions per session (clamped to the allowed range)")
	settingsCmd.Flags().Int("time-limit", 0, "Seconds per question (clamped to the allowed range)")
}
