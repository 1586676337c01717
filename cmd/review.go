package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "List saved wrong answers",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer e.Close()

		out := cmd.OutOrStdout()
		entries := e.ctrl.WrongQuestions()
		if len(entries) == 0 {
			fmt.Fprintln(out, "No wrong answers saved.")
			return nil
		}

		fmt.Fprintf(out, "%-3s  %-16s  %-6s  %s\n", "#", "Missed", "Times", "Question")
		fmt.Fprintln(out, strings.Repeat("─", 72))
		for i, entry := range entries {
			q := entry.Question
			prompt := strings.ReplaceAll(q.Prompt, "\n", " ")
			fmt.Fprintf(out, "%-3d  %-16s  %-6d  [%s] %s\n",
				i+1, entry.MissedAt().Local().Format("2006-01-02 15:04"), entry.Attempts, q.Skill.Symbol(), prompt)
			fmt.Fprintf(out, "%29s answer: %s\n", "", q.Expected())
		}
		return nil
	},
}
