package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	cliadapter "github.com/example/see/internal/adapters/cli"
	"github.com/example/see/internal/ports/primary"
)

var actionCmd = &cobra.Command{
	Use:   "action",
	Short: "Manage governance action items",
}

var actionCreateCmd = &cobra.Command{
	Use:   "create [task]",
	Short: "Create an action item",
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
		req := primary.CreateActionRequest{EngagementID: id, Task: args[0]}
		req.Owner, _ = cmd.Flags().GetString("owner")
		req.DueDate, _ = cmd.Flags().GetString("due")
		req.Status, _ = cmd.Flags().GetString("status")
		req.Blocker, _ = cmd.Flags().GetString("blocker")
		req.Comments, _ = cmd.Flags().GetString("comments")

		item, err := a.Governance.CreateAction(cmd.Context(), req)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Created action %s: %s\n", item.ID, item.Task)
		return nil
	},
}

var actionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List action items by due date",
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
		items, err := a.Governance.ListActions(cmd.Context(), id, status, time.Now())
		if err != nil {
			return fmt.Errorf("failed to list actions: %w", err)
		}
		if len(items) == 0 {
			fmt.Println("No actions found")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tDUE\tTASK\tOWNER\tSTATUS\tBLOCKER")
		fmt.Fprintln(w, "--\t---\t----\t-----\t------\t-------")
		for _, it := range items {
			due := dashText(it.DueDate)
			if it.Overdue {
				due = color.New(color.FgRed).Sprint(due + " !")
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", it.ID, due, it.Task, dashText(it.Owner), cliadapter.StatusLabel(it.Status), dashText(it.Blocker))
		}
		return w.Flush()
	},
}

var actionStatusCmd = &cobra.Command{
	Use:   "status [action-id] [status]",
	Short: "Set an action's status (TODO, IN_PROGRESS, BLOCKED, DONE)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app()
		if err != nil {
			return err
		}
		if err := a.Governance.UpdateActionStatus(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("✓ Action %s → %s\n", args[0], args[1])
		return nil
	},
}

var actionRmCmd = &cobra.Command{
	Use:   "rm [action-id]",
	Short: "Delete an action item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app()
		if err != nil {
			return err
		}
		if err := a.Governance.DeleteAction(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("✓ Deleted action %s\n", args[0])
		return nil
	},
}

var decisionCmd = &cobra.Command{
	Use:   "decision",
	Short: "Manage the decision log",
}

var decisionCreateCmd = &cobra.Command{
	Use:   "create [decision]",
	Short: "Log a decision",
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
		req := primary.CreateDecisionRequest{EngagementID: id, Decision: args[0]}
		req.DecidedOn, _ = cmd.Flags().GetString("date")
		req.Options, _ = cmd.Flags().GetString("options")
		req.Recommendation, _ = cmd.Flags().GetString("recommendation")
		req.Responsible, _ = cmd.Flags().GetString("responsible")
		req.Status, _ = cmd.Flags().GetString("status")
		req.Notes, _ = cmd.Flags().GetString("notes")

		d, err := a.Governance.CreateDecision(cmd.Context(), req)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Logged decision %s: %s [%s]\n", d.ID, d.Decision, d.Status)
		return nil
	},
}

var decisionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List logged decisions",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := engagementID(cmd)
		if err != nil {
			return err
		}
		a, err := app()
		if err != nil {
			return err
		}
		items, err := a.Governance.ListDecisions(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to list decisions: %w", err)
		}
		if len(items) == 0 {
			fmt.Println("No decisions found")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tDATE\tDECISION\tRESPONSIBLE\tSTATUS")
		fmt.Fprintln(w, "--\t----\t--------\t-----------\t------")
		for _, d := range items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", d.ID, dashText(d.DecidedOn), d.Decision, dashText(d.Responsible), cliadapter.StatusLabel(d.Status))
		}
		return w.Flush()
	},
}

var decisionStatusCmd = &cobra.Command{
	Use:   "status [decision-id] [status]",
	Short: "Set a decision's status (PROPOSED, APPROVED, REJECTED, DEFERRED)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app()
		if err != nil {
			return err
		}
		if err := a.Governance.UpdateDecisionStatus(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("✓ Decision %s → %s\n", args[0], args[1])
		return nil
	},
}

var decisionRmCmd = &cobra.Command{
	Use:   "rm [decision-id]",
	Short: "Delete a decision",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app()
		if err != nil {
			return err
		}
		if err := a.Governance.DeleteDecision(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("✓ Deleted decision %s\n", args[0])
		return nil
	},
}

var raciCmd = &cobra.Command{
	Use:   "raci",
	Short: "Manage the RACI matrix",
}

var raciAddCmd = &cobra.Command{
	Use:   "add [initiative]",
	Short: "Add a RACI row",
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
		req := primary.CreateRaciRequest{EngagementID: id, Initiative: args[0]}
		req.Responsible, _ = cmd.Flags().GetString("responsible")
		req.Accountable, _ = cmd.Flags().GetString("accountable")
		req.Consulted, _ = cmd.Flags().GetString("consulted")
		req.Informed, _ = cmd.Flags().GetString("informed")

		row, err := a.Governance.CreateRaciRow(cmd.Context(), req)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Added RACI row %s: %s\n", row.ID, row.Initiative)
		return nil
	},
}

var raciListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the RACI matrix",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := engagementID(cmd)
		if err != nil {
			return err
		}
		a, err := app()
		if err != nil {
			return err
		}
		rows, err := a.Governance.ListRaciRows(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to list RACI rows: %w", err)
		}
		if len(rows) == 0 {
			fmt.Println("No RACI rows found")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tINITIATIVE\tR\tA\tC\tI")
		fmt.Fprintln(w, "--\t----------\t-\t-\t-\t-")
		for _, r := range rows {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", r.ID, r.Initiative, r.Responsible, r.Accountable, dashText(r.Consulted), dashText(r.Informed))
		}
		return w.Flush()
	},
}

var raciRmCmd = &cobra.Command{
	Use:   "rm [row-id]",
	Short: "Delete a RACI row",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app()
		if err != nil {
			return err
		}
		if err := a.Governance.DeleteRaciRow(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("✓ Deleted RACI row %s\n", args[0])
		return nil
	},
}

func init() {
	actionCreateCmd.Flags().String("owner", "", "Owner")
	actionCreateCmd.Flags().String("due", "", "Due date YYYY-MM-DD")
	actionCreateCmd.Flags().String("status", "", "Status (TODO, IN_PROGRESS, BLOCKED, DONE or Pendiente, En curso...)")
	actionCreateCmd.Flags().String("blocker", "", "Blocker")
	actionCreateCmd.Flags().String("comments", "", "Comments")
	actionListCmd.Flags().StringP("status", "s", "", "Filter by status")
	addEngagementFlag(actionCreateCmd, actionListCmd)
	actionCmd.AddCommand(actionCreateCmd)
	actionCmd.AddCommand(actionListCmd)
	actionCmd.AddCommand(actionStatusCmd)
	actionCmd.AddCommand(actionRmCmd)

	decisionCreateCmd.Flags().String("date", "", "Decision date YYYY-MM-DD")
	decisionCreateCmd.Flags().String("options", "", "Options considered")
	decisionCreateCmd.Flags().String("recommendation", "", "Recommendation")
	decisionCreateCmd.Flags().String("responsible", "", "Responsible")
	decisionCreateCmd.Flags().String("status", "", "PROPOSED, APPROVED, REJECTED or DEFERRED")
	decisionCreateCmd.Flags().String("notes", "", "Notes")
	addEngagementFlag(decisionCreateCmd, decisionListCmd)
	decisionCmd.AddCommand(decisionCreateCmd)
	decisionCmd.AddCommand(decisionListCmd)
	decisionCmd.AddCommand(decisionStatusCmd)
	decisionCmd.AddCommand(decisionRmCmd)

	raciAddCmd.Flags().StringP("responsible", "r", "", "Responsible")
	raciAddCmd.Flags().StringP("accountable", "a", "", "Accountable")
	raciAddCmd.Flags().StringP("consulted", "c", "", "Consulted")
	raciAddCmd.Flags().StringP("informed", "i", "", "Informed")
	addEngagementFlag(raciAddCmd, raciListCmd)
	raciCmd.AddCommand(raciAddCmd)
	raciCmd.AddCommand(raciListCmd)
	raciCmd.AddCommand(raciRmCmd)
}

// ActionCmd returns the action command
func ActionCmd() *cobra.Command {
	return actionCmd
}

// DecisionCmd returns the decision command
func DecisionCmd() *cobra.Command {
	return decisionCmd
}

// RaciCmd returns the raci command
func RaciCmd() *cobra.Command {
	return raciCmd
}
