package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/see/internal/ports/primary"
)

var strategyCmd = &cobra.Command{
	Use:   "strategy",
	Short: "Vision, mission, objectives and the SWOT matrix",
}

var strategySetCmd = &cobra.Command{
	Use:   "set",
	Short: "Replace the vision, mission and objectives",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := engagementID(cmd)
		if err != nil {
			return err
		}
		a, err := app()
		if err != nil {
			return err
		}
		req := primary.SetStrategyRequest{EngagementID: id}
		req.Vision, _ = cmd.Flags().GetString("vision")
		req.Mission, _ = cmd.Flags().GetString("mission")
		req.Objectives, _ = cmd.Flags().GetString("objectives")

		if _, err := a.Strategy.SetStrategy(cmd.Context(), req); err != nil {
			return err
		}
		fmt.Printf("✓ Strategy of %s saved\n", id)
		return nil
	},
}

var strategyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the strategy and SWOT",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := engagementID(cmd)
		if err != nil {
			return err
		}
		a, err := app()
		if err != nil {
			return err
		}
		st, err := a.Strategy.GetStrategy(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to get strategy: %w", err)
		}
		fmt.Printf("\nVision:\n  %s\n", dashText(st.Vision))
		fmt.Printf("Mission:\n  %s\n", dashText(st.Mission))
		fmt.Printf("Objectives:\n  %s\n\n", dashText(st.Objectives))
		return printSwot(cmd, a.Strategy, id)
	},
}

var swotCmd = &cobra.Command{
	Use:   "swot",
	Short: "Manage SWOT items",
}

var swotAddCmd = &cobra.Command{
	Use:   "add [quadrant] [text]",
	Short: "Add a SWOT item (STRENGTH, WEAKNESS, OPPORTUNITY, THREAT or Fortaleza, Debilidad...)",
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
		item, err := a.Strategy.AddSwotItem(cmd.Context(), primary.AddSwotItemRequest{
			EngagementID: id,
			Quadrant:     args[0],
			Text:         args[1],
		})
		if err != nil {
			return err
		}
		fmt.Printf("✓ Added %s %s: %s\n", item.Quadrant, item.ID, item.Text)
		return nil
	},
}

var swotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List SWOT items",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := engagementID(cmd)
		if err != nil {
			return err
		}
		a, err := app()
		if err != nil {
			return err
		}
		return printSwot(cmd, a.Strategy, id)
	},
}

var swotRmCmd = &cobra.Command{
	Use:   "rm [item-id]",
	Short: "Delete a SWOT item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app()
		if err != nil {
			return err
		}
		if err := a.Strategy.DeleteSwotItem(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("✓ Deleted SWOT item %s\n", args[0])
		return nil
	},
}

func printSwot(cmd *cobra.Command, svc primary.StrategyService, engagementID string) error {
	items, err := svc.ListSwotItems(cmd.Context(), engagementID)
	if err != nil {
		return fmt.Errorf("failed to list SWOT items: %w", err)
	}
	if len(items) == 0 {
		fmt.Println("No SWOT items")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tQUADRANT\tTEXT")
	fmt.Fprintln(w, "--\t--------\t----")
	for _, it := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\n", it.ID, it.Quadrant, it.Text)
	}
	return w.Flush()
}

func dashText(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	strategySetCmd.Flags().String("vision", "", "Vision statement")
	strategySetCmd.Flags().String("mission", "", "Mission statement")
	strategySetCmd.Flags().String("objectives", "", "Strategic objectives")
	addEngagementFlag(strategySetCmd, strategyShowCmd, swotAddCmd, swotListCmd)

	swotCmd.AddCommand(swotAddCmd)
	swotCmd.AddCommand(swotListCmd)
	swotCmd.AddCommand(swotRmCmd)

	strategyCmd.AddCommand(strategySetCmd)
	strategyCmd.AddCommand(strategyShowCmd)
	strategyCmd.AddCommand(swotCmd)
}

// StrategyCmd returns the strategy command
func StrategyCmd() *cobra.Command {
	return strategyCmd
}
