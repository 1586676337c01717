package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/lingoz/internal/mastery"
	"github.com/abhisek/lingoz/internal/session"
	"github.com/abhisek/lingoz/internal/skills"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := openEnv(ctx, false)
		if err != nil {
			return err
		}
		defer e.Close()

		out := cmd.OutOrStdout()
		stats := e.ctrl.Snapshot().Stats

		fmt.Fprintf(out, "%-12s  %-14s  %-8s  %-8s  %-8s  %s\n",
			"Skill", "Level", "Accuracy", "Recent", "Avg", "Streak")
		fmt.Fprintln(out, strings.Repeat("─", 66))
		for _, sk := range skills.All() {
			st := stats.Get(sk)
			fmt.Fprintf(out, "%-12s  %-14s  %7.0f%%  %-8d  %-8s  %d\n",
				sk.Label(),
				fmt.Sprintf("%d %s", st.Level, mastery.LevelName(st.Level)),
				st.Accuracy()*100,
				len(st.History),
				fmt.Sprintf("%.1fs", st.AverageMs()/1000),
				st.Streak,
			)
		}

		overall := mastery.Overall(stats)
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Overall accuracy: %.0f%% over %d recent answers\n", overall.Accuracy*100, overall.Attempts)
		fmt.Fprintf(out, "Focus next:       %s\n", session.WeakestSkill(stats).Label())
		fmt.Fprintf(out, "Wrong answers:    %d saved for review\n", e.ctrl.Snapshot().WrongCount)

		totals, err := e.store.Totals(ctx)
		if err != nil {
			return fmt.Errorf("load totals: %w", err)
		}
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Lifetime: %d sessions, %d answers, %d correct\n", totals.Sessions, totals.Answers, totals.Correct)
		for _, st := range totals.PerSkill {
			label := st.Skill
			if sk, err := skills.Parse(st.Skill); err == nil {
				label = sk.Label()
			}
			fmt.Fprintf(out, "  %-12s %5d answers  %5d correct  %4d timed out  avg %.1fs\n",
				label, st.Attempts, st.Correct, st.TimedOut, st.AverageMs/1000)
		}
		if !totals.LastAnswered.IsZero() {
			fmt.Fprintf(out, "Last practice: %s\n", totals.LastAnswered.Local().Format("2006-01-02 15:04"))
		}
		return nil
	},
}
