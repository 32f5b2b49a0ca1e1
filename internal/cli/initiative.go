package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	cliadapter "github.com/example/see/internal/adapters/cli"
	"github.com/example/see/internal/ports/primary"
)

var initiativeCmd = &cobra.Command{
	Use:   "initiative",
	Short: "Manage the initiative portfolio",
}

var initiativeCreateCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create an initiative",
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
		req := primary.CreateInitiativeRequest{EngagementID: id, Title: args[0]}
		req.Owner, _ = cmd.Flags().GetString("owner")
		req.Perspective, _ = cmd.Flags().GetString("perspective")
		req.KpiID, _ = cmd.Flags().GetString("kpi")
		req.Problem, _ = cmd.Flags().GetString("problem")
		req.DefinitionOfDone, _ = cmd.Flags().GetString("done-when")
		req.Status, _ = cmd.Flags().GetString("status")
		req.Impact, _ = cmd.Flags().GetInt("impact")
		req.Effort, _ = cmd.Flags().GetInt("effort")
		req.Risk, _ = cmd.Flags().GetInt("risk")
		req.StartDate, _ = cmd.Flags().GetString("start")
		req.EndDate, _ = cmd.Flags().GetString("end")
		req.Dependencies, _ = cmd.Flags().GetString("dependencies")
		req.Notes, _ = cmd.Flags().GetString("notes")

		in, err := a.Initiatives.CreateInitiative(cmd.Context(), req)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Created initiative %s: %s (priority %.1f)\n", in.ID, in.Title, in.PriorityScore)
		return nil
	},
}

var initiativeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List initiatives by priority",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := engagementID(cmd)
		if err != nil {
			return err
		}
		a, err := app()
		if err != nil {
			return err
		}
		status, _ := cmd.Flags().GetString("status")
		kpiID, _ := cmd.Flags().GetString("kpi")
		items, err := a.Initiatives.ListInitiatives(cmd.Context(), primary.InitiativeFilters{
			EngagementID: id,
			Status:       status,
			KpiID:        kpiID,
		})
		if err != nil {
			return fmt.Errorf("failed to list initiatives: %w", err)
		}
		if len(items) == 0 {
			fmt.Println("No initiatives found")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tOWNER\tSTATUS\tPROGRESS\tI/E/R\tSCORE")
		fmt.Fprintln(w, "--\t-----\t-----\t------\t--------\t-----\t-----")
		for _, in := range items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d/%d/%d\t%.1f\n",
				in.ID, in.Title, dashText(in.Owner), cliadapter.StatusLabel(in.Status), progressText(in.ProgressPct),
				in.Impact, in.Effort, in.Risk, in.PriorityScore)
		}
		return w.Flush()
	},
}

var initiativeShowCmd = &cobra.Command{
	Use:   "show [initiative-id]",
	Short: "Show an initiative",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app()
		if err != nil {
			return err
		}
		in, err := a.Initiatives.GetInitiative(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to get initiative: %w", err)
		}
		fmt.Printf("\nInitiative: %s\n", in.ID)
		fmt.Printf("Title:      %s\n", in.Title)
		fmt.Printf("Status:     %s\n", cliadapter.StatusLabel(in.Status))
		fmt.Printf("Progress:   %s\n", progressText(in.ProgressPct))
		fmt.Printf("Owner:      %s\n", dashText(in.Owner))
		fmt.Printf("Priority:   %.1f (impact %d, effort %d, risk %d)\n", in.PriorityScore, in.Impact, in.Effort, in.Risk)
		if in.Perspective != "" {
			fmt.Printf("Perspective: %s\n", in.Perspective)
		}
		if in.KpiID != "" {
			fmt.Printf("KPI:        %s\n", in.KpiID)
		}
		if in.StartDate != "" || in.EndDate != "" {
			fmt.Printf("Dates:      %s → %s\n", dashText(in.StartDate), dashText(in.EndDate))
		}
		for _, f := range []struct{ label, value string }{
			{"Problem", in.Problem},
			{"Done when", in.DefinitionOfDone},
			{"Dependencies", in.Dependencies},
			{"Notes", in.Notes},
		} {
			if f.value != "" {
				fmt.Printf("%s:\n  %s\n", f.label, f.value)
			}
		}
		fmt.Println()
		return nil
	},
}

var initiativeUpdateCmd = &cobra.Command{
	Use:   "update [initiative-id]",
	Short: "Update an initiative",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app()
		if err != nil {
			return err
		}
		progress, err := floatFlag(cmd, "progress")
		if err != nil {
			return err
		}
		req := primary.UpdateInitiativeRequest{
			InitiativeID: args[0],
			Impact:       intFlag(cmd, "impact"),
			Effort:       intFlag(cmd, "effort"),
			Risk:         intFlag(cmd, "risk"),
			ProgressPct:  progress,
		}
		req.Title, _ = cmd.Flags().GetString("title")
		req.Owner, _ = cmd.Flags().GetString("owner")
		req.Perspective, _ = cmd.Flags().GetString("perspective")
		req.KpiID, _ = cmd.Flags().GetString("kpi")
		req.Problem, _ = cmd.Flags().GetString("problem")
		req.DefinitionOfDone, _ = cmd.Flags().GetString("done-when")
		req.Status, _ = cmd.Flags().GetString("status")
		req.StartDate, _ = cmd.Flags().GetString("start")
		req.EndDate, _ = cmd.Flags().GetString("end")
		req.Dependencies, _ = cmd.Flags().GetString("dependencies")
		req.Notes, _ = cmd.Flags().GetString("notes")

		in, err := a.Initiatives.UpdateInitiative(cmd.Context(), req)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Initiative %s updated (priority %.1f)\n", in.ID, in.PriorityScore)
		return nil
	},
}

var initiativeRmCmd = &cobra.Command{
	Use:   "rm [initiative-id]",
	Short: "Delete an initiative",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app()
		if err != nil {
			return err
		}
		if err := a.Initiatives.DeleteInitiative(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("✓ Deleted initiative %s\n", args[0])
		return nil
	},
}

var initiativeCheckinCmd = &cobra.Command{
	Use:   "checkin [initiative-id]",
	Short: "Record an initiative's progress in the period check-in",
	Long: `Record one initiative in the check-in snapshot of a period. Items already
recorded for the period are kept.

Examples:
  see initiative checkin INI-003 --progress 40 --status BLOCKED --blockers "Falta firma"
  see initiative checkin INI-004 --progress 100 --status DONE --evidence https://drive/acta.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := engagementID(cmd)
		if err != nil {
			return err
		}
		a, err := app()
		if err != nil {
			return err
		}
		progress, err := floatFlag(cmd, "progress")
		if err != nil {
			return err
		}
		item := primary.InitiativeCheckinItem{InitiativeID: args[0], ProgressPct: progress}
		item.Status, _ = cmd.Flags().GetString("status")
		item.Notes, _ = cmd.Flags().GetString("notes")
		item.Blockers, _ = cmd.Flags().GetString("blockers")
		item.Evidence, _ = cmd.Flags().GetString("evidence")

		snap, err := a.Initiatives.Checkin(cmd.Context(), primary.InitiativeCheckinRequest{
			EngagementID: id,
			PeriodKey:    periodKey(cmd),
			ScopeKey:     scopeKey(cmd),
			Items:        []primary.InitiativeCheckinItem{item},
		})
		if err != nil {
			return err
		}
		fmt.Printf("✓ Check-in %s · %s: %d initiative(s) recorded\n", snap.PeriodKey, snap.ScopeKey, len(snap.Items))
		return nil
	},
}

func progressText(p *int) string {
	if p == nil {
		return "—"
	}
	return fmt.Sprintf("%d%%", *p)
}

var initiativeImportCmd = &cobra.Command{
	Use:   "import [file.csv]",
	Short: "Create initiatives from a CSV portfolio (- for stdin)",
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
		result, err := a.Initiatives.ImportCSV(cmd.Context(), primary.CSVImportRequest{EngagementID: id, Source: f, ReplaceAll: replace})
		if err != nil {
			return err
		}
		cliadapter.PrintImportResult(os.Stdout, "initiatives", result)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{initiativeCreateCmd, initiativeUpdateCmd} {
		c.Flags().String("owner", "", "Owner")
		c.Flags().String("perspective", "", "BSC perspective")
		c.Flags().String("kpi", "", "Linked KPI ID")
		c.Flags().String("problem", "", "Problem statement")
		c.Flags().String("done-when", "", "Definition of done")
		c.Flags().String("status", "", "NOT_STARTED, IN_PROGRESS, BLOCKED, DONE or CANCELLED")
		c.Flags().Int("impact", 3, "Impact 1-5")
		c.Flags().Int("effort", 3, "Effort 1-5")
		c.Flags().Int("risk", 3, "Risk 1-5")
		c.Flags().String("start", "", "Start date YYYY-MM-DD")
		c.Flags().String("end", "", "End date YYYY-MM-DD")
		c.Flags().String("dependencies", "", "Dependencies")
		c.Flags().String("notes", "", "Notes")
	}
	initiativeUpdateCmd.Flags().String("title", "", "Title")
	initiativeUpdateCmd.Flags().String("progress", "", "Progress 0-100")
	initiativeListCmd.Flags().StringP("status", "s", "", "Filter by status")
	initiativeListCmd.Flags().String("kpi", "", "Filter by KPI")
	initiativeCheckinCmd.Flags().String("progress", "", "Progress 0-100")
	initiativeCheckinCmd.Flags().String("status", "", "Status for the period")
	initiativeCheckinCmd.Flags().String("notes", "", "Notes")
	initiativeCheckinCmd.Flags().String("blockers", "", "Blockers")
	initiativeCheckinCmd.Flags().String("evidence", "", "Evidence URLs, comma separated")
	initiativeImportCmd.Flags().Bool("replace", false, "Delete the existing initiatives first")
	addEngagementFlag(initiativeCreateCmd, initiativeListCmd, initiativeCheckinCmd, initiativeImportCmd)
	addPeriodFlags(initiativeCheckinCmd)

	initiativeCmd.AddCommand(initiativeCreateCmd)
	initiativeCmd.AddCommand(initiativeListCmd)
	initiativeCmd.AddCommand(initiativeShowCmd)
	initiativeCmd.AddCommand(initiativeUpdateCmd)
	initiativeCmd.AddCommand(initiativeRmCmd)
	initiativeCmd.AddCommand(initiativeCheckinCmd)
	initiativeCmd.AddCommand(initiativeImportCmd)
}

// InitiativeCmd returns the initiative command
func InitiativeCmd() *cobra.Command {
	return initiativeCmd
}
