package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cliadapter "github.com/example/see/internal/adapters/cli"
	"github.com/example/see/internal/config"
	"github.com/example/see/internal/ports/primary"
)

var engagementCmd = &cobra.Command{
	Use:     "engagement",
	Aliases: []string{"eng"},
	Short:   "Manage consulting engagements",
	Long:    "Create, list and move engagements through DRAFT → ACTIVE → CLOSED",
}

func engagementAdapter() (*cliadapter.EngagementAdapter, error) {
	a, err := app()
	if err != nil {
		return nil, err
	}
	return cliadapter.NewEngagementAdapter(a.Engagements, os.Stdout), nil
}

var engagementCreateCmd = &cobra.Command{
	Use:   "create [company]",
	Short: "Create a new engagement in DRAFT",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		adapter, err := engagementAdapter()
		if err != nil {
			return err
		}
		req := primary.CreateEngagementRequest{CompanyName: args[0]}
		req.Name, _ = cmd.Flags().GetString("name")
		req.ClientContact, _ = cmd.Flags().GetString("contact")
		req.Industry, _ = cmd.Flags().GetString("industry")
		req.Locale, _ = cmd.Flags().GetString("locale")
		req.BusinessContext, _ = cmd.Flags().GetString("context")
		req.Goals, _ = cmd.Flags().GetString("goals")
		req.Constraints, _ = cmd.Flags().GetString("constraints")
		req.SuccessDefinition, _ = cmd.Flags().GetString("success")
		req.StartDate, _ = cmd.Flags().GetString("start")
		req.EndDate, _ = cmd.Flags().GetString("end")

		_, err = adapter.Create(cmd.Context(), req)
		return err
	},
}

var engagementListCmd = &cobra.Command{
	Use:   "list",
	Short: "List engagements",
	RunE: func(cmd *cobra.Command, args []string) error {
		adapter, err := engagementAdapter()
		if err != nil {
			return err
		}
		status, _ := cmd.Flags().GetString("status")
		return adapter.List(cmd.Context(), status)
	},
}

var engagementShowCmd = &cobra.Command{
	Use:   "show [engagement-id]",
	Short: "Show engagement details",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := argOrEngagement(cmd, args)
		if err != nil {
			return err
		}
		adapter, err := engagementAdapter()
		if err != nil {
			return err
		}
		_, err = adapter.Show(cmd.Context(), id)
		return err
	},
}

var engagementUpdateCmd = &cobra.Command{
	Use:   "update [engagement-id]",
	Short: "Update the descriptive fields of an engagement",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := argOrEngagement(cmd, args)
		if err != nil {
			return err
		}
		adapter, err := engagementAdapter()
		if err != nil {
			return err
		}
		req := primary.UpdateEngagementRequest{EngagementID: id}
		req.CompanyName, _ = cmd.Flags().GetString("company")
		req.Name, _ = cmd.Flags().GetString("name")
		req.ClientContact, _ = cmd.Flags().GetString("contact")
		req.Industry, _ = cmd.Flags().GetString("industry")
		req.Locale, _ = cmd.Flags().GetString("locale")
		req.BusinessContext, _ = cmd.Flags().GetString("context")
		req.Goals, _ = cmd.Flags().GetString("goals")
		req.Constraints, _ = cmd.Flags().GetString("constraints")
		req.SuccessDefinition, _ = cmd.Flags().GetString("success")
		req.StartDate, _ = cmd.Flags().GetString("start")
		req.EndDate, _ = cmd.Flags().GetString("end")
		return adapter.Update(cmd.Context(), req)
	},
}

var engagementActivateCmd = &cobra.Command{
	Use:   "activate [engagement-id]",
	Short: "Move a DRAFT engagement to ACTIVE",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := argOrEngagement(cmd, args)
		if err != nil {
			return err
		}
		adapter, err := engagementAdapter()
		if err != nil {
			return err
		}
		return adapter.Activate(cmd.Context(), id)
	},
}

var engagementCloseCmd = &cobra.Command{
	Use:   "close [engagement-id]",
	Short: "Close an ACTIVE engagement",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := argOrEngagement(cmd, args)
		if err != nil {
			return err
		}
		adapter, err := engagementAdapter()
		if err != nil {
			return err
		}
		return adapter.Close(cmd.Context(), id)
	},
}

var engagementReopenCmd = &cobra.Command{
	Use:   "reopen [engagement-id]",
	Short: "Reopen a CLOSED engagement",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := argOrEngagement(cmd, args)
		if err != nil {
			return err
		}
		adapter, err := engagementAdapter()
		if err != nil {
			return err
		}
		return adapter.Reopen(cmd.Context(), id)
	},
}

var engagementDeleteCmd = &cobra.Command{
	Use:   "delete [engagement-id]",
	Short: "Delete a DRAFT or CLOSED engagement and everything under it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		if !force {
			return fmt.Errorf("deleting %s removes all of its data\nHint: re-run with --force to confirm", args[0])
		}
		adapter, err := engagementAdapter()
		if err != nil {
			return err
		}
		return adapter.Delete(cmd.Context(), args[0])
	},
}

var engagementAuditCmd = &cobra.Command{
	Use:   "audit [engagement-id]",
	Short: "Show the audit trail of an engagement",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := argOrEngagement(cmd, args)
		if err != nil {
			return err
		}
		adapter, err := engagementAdapter()
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")
		return adapter.Audit(cmd.Context(), id, limit)
	},
}

var engagementFocusCmd = &cobra.Command{
	Use:   "focus [engagement-id]",
	Short: "Set or show the engagement this directory works on",
	Long: `Store the engagement (and optionally the check-in period and scope) in
.see/context.json so other commands can omit --engagement.

Examples:
  see engagement focus ENG-001
  see engagement focus ENG-001 --period 2024-06 --scope GLOBAL
  see engagement focus --show
  see engagement focus --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		showOnly, _ := cmd.Flags().GetBool("show")
		clearFlag, _ := cmd.Flags().GetBool("clear")

		if clearFlag {
			if err := config.SaveFocus(cwd, &config.Focus{}); err != nil {
				return err
			}
			fmt.Println("✓ Focus cleared")
			return nil
		}

		focus := loadFocus()
		if showOnly || len(args) == 0 {
			if focus.EngagementID == "" {
				fmt.Println("No focus set")
				return nil
			}
			fmt.Printf("Engagement: %s\n", focus.EngagementID)
			if focus.PeriodKey != "" {
				fmt.Printf("Period:     %s\n", focus.PeriodKey)
			}
			if focus.ScopeKey != "" {
				fmt.Printf("Scope:      %s\n", focus.ScopeKey)
			}
			return nil
		}

		a, err := app()
		if err != nil {
			return err
		}
		eng, err := a.Engagements.GetEngagement(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to get engagement: %w", err)
		}
		focus.EngagementID = eng.ID
		if p, _ := cmd.Flags().GetString("period"); p != "" {
			focus.PeriodKey = p
		}
		if s, _ := cmd.Flags().GetString("scope"); s != "" {
			focus.ScopeKey = s
		}
		if err := config.SaveFocus(cwd, focus); err != nil {
			return err
		}
		fmt.Printf("✓ Focused on %s: %s\n", eng.ID, eng.DisplayName())
		return nil
	},
}

// argOrEngagement takes the engagement from the first argument, then the
// flag and focus.
func argOrEngagement(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return engagementID(cmd)
}

func init() {
	for _, c := range []*cobra.Command{engagementCreateCmd, engagementUpdateCmd} {
		c.Flags().String("name", "", "Engagement name (defaults to the company)")
		c.Flags().String("contact", "", "Client contact")
		c.Flags().String("industry", "", "Industry")
		c.Flags().String("locale", "", "Report language: es or en")
		c.Flags().String("context", "", "Business context")
		c.Flags().String("goals", "", "Goals")
		c.Flags().String("constraints", "", "Constraints")
		c.Flags().String("success", "", "Definition of success")
		c.Flags().String("start", "", "Start date YYYY-MM-DD")
		c.Flags().String("end", "", "End date YYYY-MM-DD")
	}
	engagementUpdateCmd.Flags().String("company", "", "Company name")
	engagementListCmd.Flags().StringP("status", "s", "", "Filter by status (DRAFT, ACTIVE, CLOSED)")
	engagementDeleteCmd.Flags().BoolP("force", "f", false, "Confirm deletion")
	engagementAuditCmd.Flags().Int("limit", 50, "Maximum entries")
	engagementFocusCmd.Flags().Bool("show", false, "Show current focus without changing it")
	engagementFocusCmd.Flags().Bool("clear", false, "Clear the current focus")
	engagementFocusCmd.Flags().String("period", "", "Check-in period YYYY-MM")
	engagementFocusCmd.Flags().String("scope", "", "Check-in scope key")
	addEngagementFlag(engagementShowCmd, engagementUpdateCmd, engagementActivateCmd,
		engagementCloseCmd, engagementReopenCmd, engagementAuditCmd)

	engagementCmd.AddCommand(engagementCreateCmd)
	engagementCmd.AddCommand(engagementListCmd)
	engagementCmd.AddCommand(engagementShowCmd)
	engagementCmd.AddCommand(engagementUpdateCmd)
	engagementCmd.AddCommand(engagementActivateCmd)
	engagementCmd.AddCommand(engagementCloseCmd)
	engagementCmd.AddCommand(engagementReopenCmd)
	engagementCmd.AddCommand(engagementDeleteCmd)
	engagementCmd.AddCommand(engagementAuditCmd)
	engagementCmd.AddCommand(engagementFocusCmd)
}

// EngagementCmd returns the engagement command
func EngagementCmd() *cobra.Command {
	return engagementCmd
}
