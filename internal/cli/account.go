package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	cliadapter "github.com/example/see/internal/adapters/cli"
	"github.com/example/see/internal/ports/primary"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage the account plan and unit economics",
}

var accountCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Add an account to the plan",
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
		req := primary.CreateAccountRequest{EngagementID: id, Name: args[0]}
		req.Goal12m, _ = cmd.Flags().GetString("goal")
		req.DecisionMakers, _ = cmd.Flags().GetString("decision-makers")
		req.Competitors, _ = cmd.Flags().GetString("competitors")
		req.MainPain, _ = cmd.Flags().GetString("pain")
		req.ValueProp, _ = cmd.Flags().GetString("value-prop")
		req.Agenda8w, _ = cmd.Flags().GetString("agenda")
		req.NextStep, _ = cmd.Flags().GetString("next-step")
		req.Status, _ = cmd.Flags().GetString("status")

		acc, err := a.Accounts.CreateAccount(cmd.Context(), req)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Created account %s: %s (%s)\n", acc.ID, acc.Label, acc.Status)
		return nil
	},
}

var accountListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the account plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := engagementID(cmd)
		if err != nil {
			return err
		}
		a, err := app()
		if err != nil {
			return err
		}
		accounts, err := a.Accounts.ListAccounts(cmd.Context(), id)
		if err != nil {
			return err
		}
		if len(accounts) == 0 {
			fmt.Println("No accounts found")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tSTATUS\tGOAL 12M\tNEXT STEP")
		fmt.Fprintln(w, "--\t----\t------\t--------\t---------")
		for _, acc := range accounts {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				acc.ID, acc.Label, cliadapter.StatusLabel(acc.Status), dashText(acc.Goal12m), dashText(acc.NextStep))
		}
		return w.Flush()
	},
}

var accountUpdateCmd = &cobra.Command{
	Use:   "update [account-id]",
	Short: "Update an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app()
		if err != nil {
			return err
		}
		req := primary.UpdateAccountRequest{AccountID: args[0]}
		req.Name, _ = cmd.Flags().GetString("name")
		req.Goal12m, _ = cmd.Flags().GetString("goal")
		req.DecisionMakers, _ = cmd.Flags().GetString("decision-makers")
		req.Competitors, _ = cmd.Flags().GetString("competitors")
		req.MainPain, _ = cmd.Flags().GetString("pain")
		req.ValueProp, _ = cmd.Flags().GetString("value-prop")
		req.Agenda8w, _ = cmd.Flags().GetString("agenda")
		req.NextStep, _ = cmd.Flags().GetString("next-step")
		req.Status, _ = cmd.Flags().GetString("status")

		acc, err := a.Accounts.UpdateAccount(cmd.Context(), req)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Account %s updated (%s)\n", acc.ID, acc.Status)
		return nil
	},
}

var accountRmCmd = &cobra.Command{
	Use:   "rm [account-id]",
	Short: "Delete an account; its unit economics stay unlinked",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app()
		if err != nil {
			return err
		}
		if err := a.Accounts.DeleteAccount(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("✓ Deleted account %s\n", args[0])
		return nil
	},
}

var economicsCmd = &cobra.Command{
	Use:   "economics",
	Short: "Manage unit-economics rows",
}

var economicsAddCmd = &cobra.Command{
	Use:   "add [client-site]",
	Short: "Record a unit-economics row (revenue defaults to m² × USD/m²)",
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
		req := primary.AddUnitEconomicsRequest{EngagementID: id, ClientSite: args[0]}
		req.AccountID, _ = cmd.Flags().GetString("account")
		req.Modality, _ = cmd.Flags().GetString("modality")
		req.M2Month, _ = cmd.Flags().GetString("m2")
		req.PriceUSDM2, _ = cmd.Flags().GetString("price")
		req.RevenueMonth, _ = cmd.Flags().GetString("revenue")
		req.DirectCosts, _ = cmd.Flags().GetString("costs")
		req.Margin, _ = cmd.Flags().GetString("margin")
		req.MarginPct, _ = cmd.Flags().GetString("margin-pct")
		req.Risks, _ = cmd.Flags().GetString("risks")
		req.Evidence, _ = cmd.Flags().GetString("evidence")

		row, err := a.Accounts.AddUnitEconomics(cmd.Context(), req)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Recorded %s\n", row.ID)
		if req.AccountID != "" && row.AccountID == "" {
			fmt.Printf("  account %s is not part of %s; row left unlinked\n", req.AccountID, id)
		}
		return nil
	},
}

var economicsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List unit-economics rows",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := engagementID(cmd)
		if err != nil {
			return err
		}
		a, err := app()
		if err != nil {
			return err
		}
		accountID, _ := cmd.Flags().GetString("account")
		rows, err := a.Accounts.ListUnitEconomics(cmd.Context(), id, accountID)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			fmt.Println("No unit economics found")
			return nil
		}
		return cliadapter.PrintUnitEconomics(os.Stdout, rows)
	},
}

var economicsRmCmd = &cobra.Command{
	Use:   "rm [row-id]",
	Short: "Delete a unit-economics row",
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
		if err := a.Accounts.DeleteUnitEconomics(cmd.Context(), id, args[0]); err != nil {
			return err
		}
		fmt.Printf("✓ Deleted %s\n", args[0])
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{accountCreateCmd, accountUpdateCmd} {
		c.Flags().String("goal", "", "12-month goal")
		c.Flags().String("decision-makers", "", "Decision makers")
		c.Flags().String("competitors", "", "Competitors")
		c.Flags().String("pain", "", "Main pain")
		c.Flags().String("value-prop", "", "Value proposition")
		c.Flags().String("agenda", "", "8-week agenda")
		c.Flags().String("next-step", "", "Next step")
		c.Flags().String("status", "", "NOT_STARTED, IN_PROGRESS, BLOCKED, NEGOTIATING or CLOSED")
	}
	accountUpdateCmd.Flags().String("name", "", "Account name")
	addEngagementFlag(accountCreateCmd, accountListCmd)

	accountCmd.AddCommand(accountCreateCmd)
	accountCmd.AddCommand(accountListCmd)
	accountCmd.AddCommand(accountUpdateCmd)
	accountCmd.AddCommand(accountRmCmd)

	economicsAddCmd.Flags().String("modality", "", "Service modality")
	economicsAddCmd.Flags().String("m2", "", "m² per month")
	economicsAddCmd.Flags().String("price", "", "USD per m²")
	economicsAddCmd.Flags().String("revenue", "", "Monthly revenue in USD")
	economicsAddCmd.Flags().String("costs", "", "Direct costs in USD")
	economicsAddCmd.Flags().String("margin", "", "Margin in USD")
	economicsAddCmd.Flags().String("margin-pct", "", "Margin percentage")
	economicsAddCmd.Flags().String("risks", "", "Risks")
	economicsAddCmd.Flags().String("evidence", "", "Evidence")
	for _, c := range []*cobra.Command{economicsAddCmd, economicsListCmd} {
		c.Flags().String("account", "", "Account ID")
	}
	addEngagementFlag(economicsAddCmd, economicsListCmd, economicsRmCmd)

	economicsCmd.AddCommand(economicsAddCmd)
	economicsCmd.AddCommand(economicsListCmd)
	economicsCmd.AddCommand(economicsRmCmd)
	accountCmd.AddCommand(economicsCmd)
}

// AccountCmd returns the account command
func AccountCmd() *cobra.Command {
	return accountCmd
}
