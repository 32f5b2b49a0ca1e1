package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cliadapter "github.com/example/see/internal/adapters/cli"
)

var checkinCmd = &cobra.Command{
	Use:   "checkin",
	Short: "Monthly check-in of KPIs and initiatives",
}

func checkinAdapter() (*cliadapter.CheckinAdapter, error) {
	a, err := app()
	if err != nil {
		return nil, err
	}
	return cliadapter.NewCheckinAdapter(a.Checkin, os.Stdout, a.Config.Locale), nil
}

var checkinStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show how far the check-in has got",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := engagementID(cmd)
		if err != nil {
			return err
		}
		adapter, err := checkinAdapter()
		if err != nil {
			return err
		}
		return adapter.Status(cmd.Context(), id, scopeKey(cmd), periodKey(cmd))
	},
}

var checkinSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the scorecard and initiative snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := engagementID(cmd)
		if err != nil {
			return err
		}
		adapter, err := checkinAdapter()
		if err != nil {
			return err
		}
		return adapter.Summary(cmd.Context(), id, scopeKey(cmd), periodKey(cmd))
	},
}

var checkinSetCmd = &cobra.Command{
	Use:   "set [step] [status]",
	Short: "Mark a check-in step (checkin-initiatives, checkin-summary, datapack-ops, datapack-exec)",
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
		period := periodKey(cmd)
		if err := a.Checkin.SetStepStatus(cmd.Context(), id, args[0], scopeKey(cmd), period, args[1]); err != nil {
			return err
		}
		fmt.Printf("✓ %s for %s → %s\n", args[0], period, args[1])
		return nil
	},
}

var checkinPdfCmd = &cobra.Command{
	Use:   "pdf",
	Short: "Render the check-in summary as PDF",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := engagementID(cmd)
		if err != nil {
			return err
		}
		a, err := app()
		if err != nil {
			return err
		}
		period := periodKey(cmd)
		data, err := a.Reports.CheckinSummaryPDF(cmd.Context(), id, scopeKey(cmd), period)
		if err != nil {
			return err
		}
		out, _ := cmd.Flags().GetString("output")
		if out == "" {
			out = fmt.Sprintf("checkin-%s-%s.pdf", id, period)
		}
		return writeOutput(out, data)
	},
}

func init() {
	checkinPdfCmd.Flags().StringP("output", "o", "", "Output file (- for stdout)")
	addEngagementFlag(checkinStatusCmd, checkinSummaryCmd, checkinSetCmd, checkinPdfCmd)
	addPeriodFlags(checkinStatusCmd, checkinSummaryCmd, checkinSetCmd, checkinPdfCmd)

	checkinCmd.AddCommand(checkinStatusCmd)
	checkinCmd.AddCommand(checkinSummaryCmd)
	checkinCmd.AddCommand(checkinSetCmd)
	checkinCmd.AddCommand(checkinPdfCmd)
}

// CheckinCmd returns the checkin command
func CheckinCmd() *cobra.Command {
	return checkinCmd
}
