package cmd

import (
	"fmt"

	"github.com/abhisek/lingoz/internal/content"
	"github.com/abhisek/lingoz/internal/ui/components"
	"github.com/spf13/cobra"
)

var studyCmd = &cobra.Command{
	Use:   "study",
	Short: "Print the study sheet",
	RunE: func(cmd *cobra.Command, args []string) error {
		sheet, err := content.LoadCheatset()
		if err != nil {
			return fmt.Errorf("load cheatset: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, sheet.Title)
		if sheet.Intro != "" {
			fmt.Fprintln(out, components.Wrap(sheet.Intro, 76))
		}
		for _, sec := range sheet.Sections {
			fmt.Fprintln(out)
			fmt.Fprintln(out, "## "+sec.Title)
			if sec.Description != "" {
				fmt.Fprintln(out, components.Wrap(sec.Description, 76))
			}
			for _, item := range sec.Items {
				fmt.Fprintln(out, "  - "+item)
			}
		}
		return nil
	},
}
