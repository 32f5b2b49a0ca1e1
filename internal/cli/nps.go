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

var npsCmd = &cobra.Command{
	Use:   "nps",
	Short: "Client NPS invitations and results",
}

var npsInviteCmd = &cobra.Command{
	Use:   "invite [email]",
	Short: "Invite one contact",
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
		name, _ := cmd.Flags().GetString("name")
		role, _ := cmd.Flags().GetString("role")
		expires, _ := cmd.Flags().GetInt("expires")

		invites, err := a.Nps.CreateInvites(cmd.Context(), primary.CreateNpsInvitesRequest{
			EngagementID:  id,
			Contacts:      []primary.NpsContact{{Name: name, Email: args[0], Role: role}},
			ExpiresInDays: expires,
		})
		if err != nil {
			return err
		}
		for _, inv := range invites {
			fmt.Printf("✓ Created invite %s for %s\n", inv.ID, inv.ContactEmail)
			fmt.Printf("  Link: %s\n", inv.URL)
			fmt.Printf("  Expires: %s\n", inv.ExpiresAt)
		}
		return nil
	},
}

var npsImportCmd = &cobra.Command{
	Use:   "import [file|-]",
	Short: "Create invites from a contacts CSV (name;email;role)",
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
		in, err := openInput(args[0])
		if err != nil {
			return err
		}
		defer in.Close()

		res, err := a.Nps.ImportContactsCSV(cmd.Context(), id, in)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Imported contacts: %d invite(s), %d skipped\n", len(res.Invites), res.Skipped)
		for _, e := range res.Errors {
			fmt.Printf("  ✗ %s\n", e)
		}
		return nil
	},
}

var npsTemplateCmd = &cobra.Command{
	Use:   "template",
	Short: "Write the contacts CSV template",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app()
		if err != nil {
			return err
		}
		out, _ := cmd.Flags().GetString("output")
		return writeOutput(out, a.Nps.ContactsTemplateCSV())
	},
}

var npsSendCmd = &cobra.Command{
	Use:   "send [invite-id]",
	Short: "Mail an invite, or every pending invite with --all",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app()
		if err != nil {
			return err
		}
		all, _ := cmd.Flags().GetBool("all")
		if len(args) == 1 {
			if err := a.Nps.SendInvite(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("✓ Sent invite %s\n", args[0])
			return nil
		}
		if !all {
			return fmt.Errorf("specify an invite ID or --all")
		}
		id, err := engagementID(cmd)
		if err != nil {
			return err
		}
		n, err := a.Nps.SendPending(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Sent %d invite(s)\n", n)
		return nil
	},
}

var npsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List invites",
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
		invites, err := a.Nps.ListInvites(cmd.Context(), id, strings.ToUpper(status))
		if err != nil {
			return fmt.Errorf("failed to list invites: %w", err)
		}
		if len(invites) == 0 {
			fmt.Println("No invites found")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSTATUS\tCONTACT\tEMAIL\tSENT\tEXPIRES")
		fmt.Fprintln(w, "--\t------\t-------\t-----\t----\t-------")
		for _, inv := range invites {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", inv.ID, cliadapter.StatusLabel(inv.Status),
				dashText(inv.ContactName), inv.ContactEmail, dashText(inv.SentAt), inv.ExpiresAt)
		}
		return w.Flush()
	},
}

var npsMetricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Show the NPS of an engagement",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := engagementID(cmd)
		if err != nil {
			return err
		}
		a, err := app()
		if err != nil {
			return err
		}
		m, err := a.Nps.GetMetrics(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to get NPS metrics: %w", err)
		}
		fmt.Printf("\nNPS: %+d  (%d responses of %d invited)\n", m.NPS, m.Total, m.Invited)
		fmt.Printf("  Promoters:  %d\n  Passives:   %d\n  Detractors: %d\n\n", m.Promoters, m.Passives, m.Detractors)
		for score, count := range m.Distribution {
			fmt.Printf("  %2d │ %s %d\n", score, strings.Repeat("■", count), count)
		}
		if len(m.Comments) > 0 {
			fmt.Println("\nComments:")
			for _, c := range m.Comments {
				fmt.Printf("  • %s\n", c)
			}
		}
		return nil
	},
}

func init() {
	npsInviteCmd.Flags().String("name", "", "Contact name")
	npsInviteCmd.Flags().String("role", "", "Contact role")
	npsInviteCmd.Flags().Int("expires", 0, "Days until the link expires (defaults to the configured value)")
	npsTemplateCmd.Flags().StringP("output", "o", "nps-contacts-template.csv", "Output file (- for stdout)")
	npsSendCmd.Flags().Bool("all", false, "Send every pending invite of the engagement")
	npsListCmd.Flags().String("status", "", "Filter by status (PENDING, SENT, RESPONDED, EXPIRED)")
	addEngagementFlag(npsInviteCmd, npsImportCmd, npsSendCmd, npsListCmd, npsMetricsCmd)

	npsCmd.AddCommand(npsInviteCmd)
	npsCmd.AddCommand(npsImportCmd)
	npsCmd.AddCommand(npsTemplateCmd)
	npsCmd.AddCommand(npsSendCmd)
	npsCmd.AddCommand(npsListCmd)
	npsCmd.AddCommand(npsMetricsCmd)
}

// NpsCmd returns the nps command
func NpsCmd() *cobra.Command {
	return npsCmd
}
