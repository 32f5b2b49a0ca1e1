package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate the final engagement report",
}

var reportPdfCmd = &cobra.Command{
	Use:   "pdf",
	Short: "Render the engagement report as PDF",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := engagementID(cmd)
		if err != nil {
			return err
		}
		a, err := app()
		if err != nil {
			return err
		}
		data, err := a.Reports.EngagementReportPDF(cmd.Context(), id)
		if err != nil {
			return err
		}
		out, _ := cmd.Flags().GetString("output")
		if out == "" {
			out = fmt.Sprintf("report-%s.pdf", id)
		}
		return writeOutput(out, data)
	},
}

var reportTextCmd = &cobra.Command{
	Use:   "text",
	Short: "Print the engagement report as plain text",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := engagementID(cmd)
		if err != nil {
			return err
		}
		a, err := app()
		if err != nil {
			return err
		}
		text, err := a.Reports.EngagementReportText(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Print(text)
		return nil
	},
}

func init() {
	reportPdfCmd.Flags().StringP("output", "o", "", "Output file (- for stdout)")
	addEngagementFlag(reportPdfCmd, reportTextCmd)

	reportCmd.AddCommand(reportPdfCmd)
	reportCmd.AddCommand(reportTextCmd)
}

// ReportCmd returns the report command
func ReportCmd() *cobra.Command {
	return reportCmd
}
