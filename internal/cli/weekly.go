package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	cliadapter "github.com/example/see/internal/adapters/cli"
	"github.com/example/see/internal/ports/primary"
)

var faenaCmd = &cobra.Command{
	Use:   "faena",
	Short: "Manage client sites",
}

var faenaCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Register a site",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := engagementID(cmd)
		if err != nil {
			return err
		}
		a, err := app()
		if err != nil {
			return err
		}
		code, _ := cmd.Flags().GetString("code")
		f, err := a.Weekly.CreateFaena(cmd.Context(), primary.CreateFaenaRequest{
			EngagementID: id,
			Name:         args[0],
			Code:         code,
		})
		if err != nil {
			return err
		}
		fmt.Printf("✓ Created faena %s: %s\n", f.ID, f.Name)
		return nil
	},
}

var faenaListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sites",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := engagementID(cmd)
		if err != nil {
			return err
		}
		a, err := app()
		if err != nil {
			return err
		}
		faenas, err := a.Weekly.ListFaenas(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to list faenas: %w", err)
		}
		if len(faenas) == 0 {
			fmt.Println("No faenas found")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCODE\tNAME")
		fmt.Fprintln(w, "--\t----\t----")
		for _, f := range faenas {
			fmt.Fprintf(w, "%s\t%s\t%s\n", f.ID, dashText(f.Code), f.Name)
		}
		return w.Flush()
	},
}

var weeklyCmd = &cobra.Command{
	Use:   "weekly",
	Short: "Weekly site report links and results",
}

var weeklyLinkCmd = &cobra.Command{
	Use:   "link",
	Short: "Issue a report link for a site and week",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := engagementID(cmd)
		if err != nil {
			return err
		}
		a, err := app()
		if err != nil {
			return err
		}
		faena, _ := cmd.Flags().GetString("faena")
		start, _ := cmd.Flags().GetString("week-start")
		end, _ := cmd.Flags().GetString("week-end")
		expires, _ := cmd.Flags().GetInt("expires")

		link, err := a.Weekly.CreateLink(cmd.Context(), primary.CreateWeeklyLinkRequest{
			AdminToken:    a.Config.Server.AdminToken,
			EngagementID:  id,
			FaenaID:       faena,
			WeekStart:     start,
			WeekEnd:       end,
			ExpiresInDays: expires,
		})
		if err != nil {
			return err
		}
		fmt.Printf("✓ Link for week %s (%s → %s)\n", link.WeekKey, link.WeekStart, link.WeekEnd)
		fmt.Printf("  URL: %s\n", link.URL)
		fmt.Printf("  Expires: %s\n", link.ExpiresAt)
		return nil
	},
}

var weeklyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List weekly reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := engagementID(cmd)
		if err != nil {
			return err
		}
		a, err := app()
		if err != nil {
			return err
		}
		faena, _ := cmd.Flags().GetString("faena")
		status, _ := cmd.Flags().GetString("status")
		limit, _ := cmd.Flags().GetInt("limit")

		rows, err := a.Weekly.ListReports(cmd.Context(), primary.WeeklyReportFilters{
			EngagementID: id,
			FaenaID:      faena,
			Status:       strings.ToUpper(status),
			Limit:        limit,
		})
		if err != nil {
			return fmt.Errorf("failed to list weekly reports: %w", err)
		}
		if len(rows) == 0 {
			fmt.Println("No weekly reports found")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tFAENA\tWEEK\tSTATUS\tSEMAPHORE\tM2 %\tSHIFTS %")
		fmt.Fprintln(w, "--\t-----\t----\t------\t---------\t----\t-------")
		for _, r := range rows {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", r.ID, r.FaenaName, r.WeekKey,
				r.Status, cliadapter.StatusLabel(r.Semaphore), pct(r.M2CompliancePct), pct(r.ShiftCompliancePct))
		}
		return w.Flush()
	},
}

var weeklyShowCmd = &cobra.Command{
	Use:   "show [report-id]",
	Short: "Show a weekly report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app()
		if err != nil {
			return err
		}
		r, err := a.Weekly.GetReport(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to get weekly report: %w", err)
		}
		fmt.Printf("\n%s · %s · %s\n", r.ID, r.FaenaName, r.WeekKey)
		fmt.Printf("  Week:      %s → %s\n", r.WeekStart, r.WeekEnd)
		fmt.Printf("  Status:    %s\n", r.Status)
		fmt.Printf("  Semaphore: %s\n", cliadapter.StatusLabel(r.Semaphore))
		fmt.Printf("  m² compliance:    %s\n", pct(r.M2CompliancePct))
		fmt.Printf("  Shift compliance: %s\n", pct(r.ShiftCompliancePct))
		if r.SubmittedAt != "" {
			fmt.Printf("  Submitted: %s\n", r.SubmittedAt)
		}
		if len(r.Payload) > 0 {
			fmt.Printf("\nPayload:\n%s\n", r.Payload)
		}
		return nil
	},
}

var weeklyPdfCmd = &cobra.Command{
	Use:   "pdf [report-id]",
	Short: "Render a weekly report as PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app()
		if err != nil {
			return err
		}
		data, err := a.Reports.WeeklyReportPDF(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		out, _ := cmd.Flags().GetString("output")
		if out == "" {
			out = fmt.Sprintf("weekly-%s.pdf", args[0])
		}
		return writeOutput(out, data)
	},
}

var weeklyDatapackCmd = &cobra.Command{
	Use:   "datapack",
	Short: "Render the month's weekly reports as the operations data pack",
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
		data, err := a.Reports.OpsDataPackPDF(cmd.Context(), id, period)
		if err != nil {
			return err
		}
		out, _ := cmd.Flags().GetString("output")
		if out == "" {
			out = fmt.Sprintf("datapack-ops-%s-%s.pdf", id, period)
		}
		return writeOutput(out, data)
	},
}

func pct(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", *v)
}

func init() {
	faenaCreateCmd.Flags().String("code", "", "Short site code")
	addEngagementFlag(faenaCreateCmd, faenaListCmd)
	faenaCmd.AddCommand(faenaCreateCmd)
	faenaCmd.AddCommand(faenaListCmd)

	weeklyLinkCmd.Flags().String("faena", "", "Faena ID (required)")
	weeklyLinkCmd.Flags().String("week-start", "", "First day of the week, YYYY-MM-DD (required)")
	weeklyLinkCmd.Flags().String("week-end", "", "Last day of the week (defaults to start + 6)")
	weeklyLinkCmd.Flags().Int("expires", 0, "Days until the link expires (defaults to the configured value)")
	weeklyLinkCmd.MarkFlagRequired("faena")
	weeklyLinkCmd.MarkFlagRequired("week-start")

	weeklyListCmd.Flags().String("faena", "", "Filter by faena ID")
	weeklyListCmd.Flags().String("status", "", "Filter by status (DRAFT, SUBMITTED)")
	weeklyListCmd.Flags().Int("limit", 50, "Maximum rows")

	weeklyPdfCmd.Flags().StringP("output", "o", "", "Output file (- for stdout)")
	weeklyDatapackCmd.Flags().StringP("output", "o", "", "Output file (- for stdout)")
	weeklyDatapackCmd.Flags().StringP("period", "p", "", "Period YYYY-MM (defaults to the focused period, then the current month)")

	addEngagementFlag(weeklyLinkCmd, weeklyListCmd, weeklyDatapackCmd)

	weeklyCmd.AddCommand(weeklyLinkCmd)
	weeklyCmd.AddCommand(weeklyListCmd)
	weeklyCmd.AddCommand(weeklyShowCmd)
	weeklyCmd.AddCommand(weeklyPdfCmd)
	weeklyCmd.AddCommand(weeklyDatapackCmd)
}

// FaenaCmd returns the faena command
func FaenaCmd() *cobra.Command {
	return faenaCmd
}

// WeeklyCmd returns the weekly command
func WeeklyCmd() *cobra.Command {
	return weeklyCmd
}
