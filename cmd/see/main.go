package main

import (
	"context"
	"fmt"
	"os"
	"os/user"

	"github.com/spf13/cobra"

	"github.com/example/see/internal/cli"
	"github.com/example/see/internal/ctxutil"
	"github.com/example/see/internal/version"
	"github.com/example/see/internal/wire"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "see",
		Short:   "SEE - strategy execution engagements",
		Version: version.String(),
		Long: `SEE runs a consulting engagement end to end: the setup wizard, strategy
and SWOT, balanced scorecard KPIs, initiatives and monthly check-ins, the
20-week roadmap, governance, risks, the data room, client surveys and NPS,
weekly site reports, and the final report.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			path, _ := cmd.Flags().GetString("config")
			verbose, _ := cmd.Flags().GetBool("verbose")
			wire.Configure(wire.Options{ConfigPath: path, Verbose: verbose})
		},
	}
	rootCmd.PersistentFlags().String("config", "", "Settings file (defaults to $SEE_CONFIG, then ~/.see/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Debug logging")

	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.EngagementCmd())
	rootCmd.AddCommand(cli.WizardCmd())
	rootCmd.AddCommand(cli.DashboardCmd())

	// Engagement content
	rootCmd.AddCommand(cli.StrategyCmd())
	rootCmd.AddCommand(cli.AccountCmd())
	rootCmd.AddCommand(cli.KpiCmd())
	rootCmd.AddCommand(cli.InitiativeCmd())
	rootCmd.AddCommand(cli.CheckinCmd())
	rootCmd.AddCommand(cli.RoadmapCmd())
	rootCmd.AddCommand(cli.ActionCmd())
	rootCmd.AddCommand(cli.DecisionCmd())
	rootCmd.AddCommand(cli.RaciCmd())
	rootCmd.AddCommand(cli.RiskCmd())
	rootCmd.AddCommand(cli.DataroomCmd())

	// Client feedback
	rootCmd.AddCommand(cli.SurveyCmd())
	rootCmd.AddCommand(cli.NpsCmd())
	rootCmd.AddCommand(cli.FaenaCmd())
	rootCmd.AddCommand(cli.WeeklyCmd())

	// Output and tooling
	rootCmd.AddCommand(cli.ReportCmd())
	rootCmd.AddCommand(cli.ServeCmd())
	rootCmd.AddCommand(cli.SeedCmd())

	ctx := ctxutil.WithActorID(context.Background(), actor())
	err := rootCmd.ExecuteContext(ctx)
	wire.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// actor names who is running the command in the audit log.
func actor() string {
	if a := os.Getenv("SEE_ACTOR"); a != "" {
		return a
	}
	if u, err := user.Current(); err == nil {
		return "cli:" + u.Username
	}
	return "cli"
}
