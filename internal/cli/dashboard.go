package cli

import (
	"os"

	"github.com/spf13/cobra"

	cliadapter "github.com/example/see/internal/adapters/cli"
)

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash"},
	Short:   "Show the engagement dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := engagementID(cmd)
		if err != nil {
			return err
		}
		a, err := app()
		if err != nil {
			return err
		}
		adapter := cliadapter.NewDashboardAdapter(a.Dashboard, os.Stdout, a.Config.Locale)
		_, err = adapter.Show(cmd.Context(), id, periodKey(cmd))
		return err
	},
}

func init() {
	addEngagementFlag(dashboardCmd)
	dashboardCmd.Flags().StringP("period", "p", "", "Period YYYY-MM (defaults to the focused period, then the current month)")
}

// DashboardCmd returns the dashboard command
func DashboardCmd() *cobra.Command {
	return dashboardCmd
}
