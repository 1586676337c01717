package cmd

import (
	"fmt"

	"github.com/abhisek/lingoz/internal/content"
	"github.com/abhisek/lingoz/internal/problemgen"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Import the built-in question bank into the database",
	Long: "Validate the built-in question bank and copy it into the database.\n" +
		"Set content.source = \"database\" in the config file to practice from it.",
	RunE: func(cmd *cobra.Command, args []string) error {
		bank, err := content.Default()
		if err != nil {
			return fmt.Errorf("load embedded bank: %w", err)
		}

		out := cmd.OutOrStdout()
		problems := problemgen.Audit(bank)
		for _, p := range problems {
			fmt.Fprintln(out, "warning:", p.Error())
		}
		strict, _ := cmd.Flags().GetBool("strict")
		if strict && len(problems) > 0 {
			return fmt.Errorf("%d questions failed validation", len(problems))
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		n, err := st.SaveBank(cmd.Context(), bank)
		if err != nil {
			return fmt.Errorf("save bank: %w", err)
		}
		fmt.Fprintf(out, "Imported %d questions.\n", n)
		return nil
	},
}

func init() {
	seedCmd.Flags().Bool("strict", false, "Fail when any question would not render correctly")
}
