package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	cliadapter "github.com/example/see/internal/adapters/cli"
	"github.com/example/see/internal/ports/primary"
)

var riskCmd = &cobra.Command{
	Use:   "risk",
	Short: "Manage the risk register",
}

var riskCreateCmd = &cobra.Command{
	Use:   "create [description]",
	Short: "Register a risk (probability and impact 1-5)",
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
		req := primary.CreateRiskRequest{EngagementID: id, Description: args[0]}
		req.Owner, _ = cmd.Flags().GetString("owner")
		req.Mitigation, _ = cmd.Flags().GetString("mitigation")
		req.Probability, _ = cmd.Flags().GetFloat64("probability")
		req.Impact, _ = cmd.Flags().GetFloat64("impact")
		req.Status, _ = cmd.Flags().GetString("status")
		req.ReviewDate, _ = cmd.Flags().GetString("review")
		req.Notes, _ = cmd.Flags().GetString("notes")

		r, err := a.Risks.CreateRisk(cmd.Context(), req)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Registered risk %s: score %d (%s)\n", r.ID, r.Score, cliadapter.StatusLabel(r.Level))
		return nil
	},
}

var riskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List risks by score",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := engagementID(cmd)
		if err != nil {
			return err
		}
		a, err := app()
		if err != nil {
			return err
		}
		risks, err := a.Risks.ListRisks(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to list risks: %w", err)
		}
		if len(risks) == 0 {
			fmt.Println("No risks found")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSCORE\tLEVEL\tDESCRIPTION\tOWNER\tSTATUS\tREVIEW")
		fmt.Fprintln(w, "--\t-----\t-----\t-----------\t-----\t------\t------")
		for _, r := range risks {
			fmt.Fprintf(w, "%s\t%d (%dx%d)\t%s\t%s\t%s\t%s\t%s\n",
				r.ID, r.Score, r.Probability, r.Impact, cliadapter.StatusLabel(r.Level), r.Description,
				dashText(r.Owner), r.Status, dashText(r.ReviewDate))
		}
		return w.Flush()
	},
}

var riskUpdateCmd = &cobra.Command{
	Use:   "update [risk-id]",
	Short: "Update a risk",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app()
		if err != nil {
			return err
		}
		req := primary.UpdateRiskRequest{RiskID: args[0]}
		req.Description, _ = cmd.Flags().GetString("description")
		req.Owner, _ = cmd.Flags().GetString("owner")
		req.Mitigation, _ = cmd.Flags().GetString("mitigation")
		req.Probability, _ = cmd.Flags().GetFloat64("probability")
		req.Impact, _ = cmd.Flags().GetFloat64("impact")
		req.Status, _ = cmd.Flags().GetString("status")
		req.ReviewDate, _ = cmd.Flags().GetString("review")
		req.Notes, _ = cmd.Flags().GetString("notes")

		r, err := a.Risks.UpdateRisk(cmd.Context(), req)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Risk %s updated: score %d (%s)\n", r.ID, r.Score, cliadapter.StatusLabel(r.Level))
		return nil
	},
}

var riskRmCmd = &cobra.Command{
	Use:   "rm [risk-id]",
	Short: "Delete a risk",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app()
		if err != nil {
			return err
		}
		if err := a.Risks.DeleteRisk(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("✓ Deleted risk %s\n", args[0])
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{riskCreateCmd, riskUpdateCmd} {
		c.Flags().String("owner", "", "Owner")
		c.Flags().String("mitigation", "", "Mitigation plan")
		c.Flags().Float64("probability", 0, "Probability 1-5")
		c.Flags().Float64("impact", 0, "Impact 1-5")
		c.Flags().String("status", "", "OPEN, MITIGATING or CLOSED")
		c.Flags().String("review", "", "Next review date YYYY-MM-DD")
		c.Flags().String("notes", "", "Notes")
	}
	riskUpdateCmd.Flags().String("description", "", "Description")
	addEngagementFlag(riskCreateCmd, riskListCmd)

	riskCmd.AddCommand(riskCreateCmd)
	riskCmd.AddCommand(riskListCmd)
	riskCmd.AddCommand(riskUpdateCmd)
	riskCmd.AddCommand(riskRmCmd)
}

// RiskCmd returns the risk command
func RiskCmd() *cobra.Command {
	return riskCmd
}
