package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	cliadapter "github.com/example/see/internal/adapters/cli"
	"github.com/example/see/internal/ports/primary"
)

var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Track the ten-step engagement wizard",
}

var wizardStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the status of every wizard step",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := engagementID(cmd)
		if err != nil {
			return err
		}
		a, err := app()
		if err != nil {
			return err
		}
		ov, err := a.Wizard.GetOverview(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to get wizard overview: %w", err)
		}

		fmt.Printf("\nWizard %s · %d/%d done (%d%%)\n\n", ov.EngagementID, ov.Done, len(ov.Steps), ov.CompletionPct)
		for _, s := range ov.Steps {
			marker := "  "
			if s.Key == ov.NextStepKey {
				marker = "→ "
			}
			fmt.Printf("%s%2d. %-28s %-10s %s\n", marker, s.Number, s.Label, s.Phase, cliadapter.StatusLabel(s.Status))
		}
		fmt.Println()
		return nil
	},
}

var wizardSetCmd = &cobra.Command{
	Use:   "set [step-key] [status]",
	Short: "Record the status of a wizard step (PENDING, IN_PROGRESS, DONE)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := engagementID(cmd)
		if err != nil {
			return err
		}
		a, err := app()
		if err != nil {
			return err
		}
		notes, _ := cmd.Flags().GetString("notes")
		err = a.Wizard.SetStepStatus(cmd.Context(), primary.SetStepStatusRequest{
			EngagementID: id,
			StepKey:      args[0],
			Status:       args[1],
			Notes:        notes,
		})
		if err != nil {
			return err
		}
		fmt.Printf("✓ %s → %s\n", args[0], args[1])
		return nil
	},
}

func init() {
	wizardSetCmd.Flags().String("notes", "", "Step notes (free JSON)")
	addEngagementFlag(wizardStatusCmd, wizardSetCmd)

	wizardCmd.AddCommand(wizardStatusCmd)
	wizardCmd.AddCommand(wizardSetCmd)
}

// WizardCmd returns the wizard command
func WizardCmd() *cobra.Command {
	return wizardCmd
}
