package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	cliadapter "github.com/example/see/internal/adapters/cli"
	"github.com/example/see/internal/ports/primary"
)

var roadmapCmd = &cobra.Command{
	Use:   "roadmap",
	Short: "Plan the 20-week roadmap",
}

var roadmapInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the missing weeks of the 20-week skeleton",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := engagementID(cmd)
		if err != nil {
			return err
		}
		a, err := app()
		if err != nil {
			return err
		}
		added, err := a.Roadmap.GenerateRoadmap(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Roadmap of %s: %d week(s) added\n", id, added)
		return nil
	},
}

var roadmapSetCmd = &cobra.Command{
	Use:   "set [week]",
	Short: "Write one roadmap week",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := engagementID(cmd)
		if err != nil {
			return err
		}
		week, err := atoi("week", args[0])
		if err != nil {
			return err
		}
		a, err := app()
		if err != nil {
			return err
		}
		req := primary.SetRoadmapWeekRequest{EngagementID: id, Week: week}
		req.Objective, _ = cmd.Flags().GetString("objective")
		req.KeyActivities, _ = cmd.Flags().GetString("activities")
		req.Deliverables, _ = cmd.Flags().GetString("deliverables")
		req.KpiFocus, _ = cmd.Flags().GetString("kpi-focus")
		req.Ritual, _ = cmd.Flags().GetString("ritual")

		w, err := a.Roadmap.SetWeek(cmd.Context(), req)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Week %d (%s) saved\n", w.Week, w.Phase)
		return nil
	},
}

var roadmapListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the roadmap weeks",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := engagementID(cmd)
		if err != nil {
			return err
		}
		a, err := app()
		if err != nil {
			return err
		}
		weeks, err := a.Roadmap.ListWeeks(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to list roadmap: %w", err)
		}
		if len(weeks) == 0 {
			fmt.Println("No roadmap yet\nHint: run 'see roadmap init'")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "WEEK\tSTARTS\tPHASE\tOBJECTIVE\tDELIVERABLES\tRITUAL")
		fmt.Fprintln(w, "----\t------\t-----\t---------\t------------\t------")
		for _, wk := range weeks {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
				wk.Week, dashText(wk.StartsOn), wk.Phase, dashText(wk.Objective), dashText(wk.Deliverables), dashText(wk.Ritual))
		}
		return w.Flush()
	},
}

var roadmapClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every roadmap week",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := engagementID(cmd)
		if err != nil {
			return err
		}
		a, err := app()
		if err != nil {
			return err
		}
		if err := a.Roadmap.ClearRoadmap(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Printf("✓ Roadmap of %s cleared\n", id)
		return nil
	},
}

var roadmapTemplateCmd = &cobra.Command{
	Use:   "template",
	Short: "Write the 20-row roadmap template",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app()
		if err != nil {
			return err
		}
		out, _ := cmd.Flags().GetString("output")
		return writeOutput(out, a.Roadmap.TemplateCSV())
	},
}

var roadmapImportCmd = &cobra.Command{
	Use:   "import [file.csv]",
	Short: "Write roadmap weeks from a filled template (- for stdin)",
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
		f, err := openInput(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		replace, _ := cmd.Flags().GetBool("replace")
		result, err := a.Roadmap.ImportCSV(cmd.Context(), primary.CSVImportRequest{EngagementID: id, Source: f, ReplaceAll: replace})
		if err != nil {
			return err
		}
		cliadapter.PrintImportResult(os.Stdout, "roadmap weeks", result)
		return nil
	},
}

var roadmapExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the roadmap as XLSX",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := engagementID(cmd)
		if err != nil {
			return err
		}
		a, err := app()
		if err != nil {
			return err
		}
		data, err := a.Roadmap.ExportXLSX(cmd.Context(), id)
		if err != nil {
			return err
		}
		out, _ := cmd.Flags().GetString("output")
		if out == "" {
			out = fmt.Sprintf("roadmap-%s.xlsx", id)
		}
		return writeOutput(out, data)
	},
}

func init() {
	roadmapSetCmd.Flags().String("objective", "", "Week objective")
	roadmapSetCmd.Flags().String("activities", "", "Key activities")
	roadmapSetCmd.Flags().String("deliverables", "", "Deliverables")
	roadmapSetCmd.Flags().String("kpi-focus", "", "KPI focus")
	roadmapSetCmd.Flags().String("ritual", "", "Governance ritual")
	roadmapTemplateCmd.Flags().StringP("output", "o", "roadmap-template.csv", "Output file (- for stdout)")
	roadmapExportCmd.Flags().StringP("output", "o", "", "Output file (default roadmap-<engagement>.xlsx)")
	roadmapImportCmd.Flags().Bool("replace", false, "Clear the roadmap first")
	addEngagementFlag(roadmapInitCmd, roadmapSetCmd, roadmapListCmd, roadmapClearCmd, roadmapImportCmd, roadmapExportCmd)

	roadmapCmd.AddCommand(roadmapInitCmd)
	roadmapCmd.AddCommand(roadmapSetCmd)
	roadmapCmd.AddCommand(roadmapListCmd)
	roadmapCmd.AddCommand(roadmapClearCmd)
	roadmapCmd.AddCommand(roadmapTemplateCmd)
	roadmapCmd.AddCommand(roadmapImportCmd)
	roadmapCmd.AddCommand(roadmapExportCmd)
}

// RoadmapCmd returns the roadmap command
func RoadmapCmd() *cobra.Command {
	return roadmapCmd
}
