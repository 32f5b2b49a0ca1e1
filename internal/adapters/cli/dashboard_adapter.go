package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/see/internal/ports/primary"
)

// DashboardAdapter renders the engagement dashboard.
type DashboardAdapter struct {
	service primary.DashboardService
	out     io.Writer
	locale  string
}

// NewDashboardAdapter creates a new DashboardAdapter.
func NewDashboardAdapter(service primary.DashboardService, out io.Writer, locale string) *DashboardAdapter {
	return &DashboardAdapter{service: service, out: out, locale: locale}
}

// Show prints every dashboard section for a period.
func (a *DashboardAdapter) Show(ctx context.Context, engagementID, periodKey string) (*primary.Dashboard, error) {
	d, err := a.service.GetDashboard(ctx, engagementID, periodKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard: %w", err)
	}

	fmt.Fprintf(a.out, "\n%s · %s [%s] · %s\n\n", d.Engagement.ID, d.Engagement.DisplayName(), StatusLabel(d.Engagement.Status), d.PeriodKey)

	if d.Wizard != nil {
		fmt.Fprintf(a.out, "Wizard     %s %3d%%  (%d/%d steps)", bar(d.Wizard.CompletionPct), d.Wizard.CompletionPct, d.Wizard.Done, len(d.Wizard.Steps))
		if d.Wizard.NextStepKey != "" {
			fmt.Fprintf(a.out, "  next: %s", d.Wizard.NextStepKey)
		}
		fmt.Fprintln(a.out)
	}
	if d.DataRoom != nil {
		fmt.Fprintf(a.out, "Data room  %s %3d%%  (%d received, %d partial, %d pending)\n",
			bar(d.DataRoom.CompletionPct), d.DataRoom.CompletionPct, d.DataRoom.Received, d.DataRoom.Partial, d.DataRoom.Pending)
	}
	fmt.Fprintln(a.out)

	fmt.Fprintf(a.out, "KPIs: %d  (%s red, %s no data)\n", d.KpiCount, red.Sprint(len(d.RedKpis)), faint.Sprint(d.NoDataKpis))
	for _, row := range d.RedKpis {
		fmt.Fprintf(a.out, "  %s %s: %s vs target %s\n", red.Sprint("●"), row.Kpi.Name(a.locale), num(row.Evaluated), num(row.Target))
	}

	fmt.Fprintf(a.out, "Initiatives: %d\n", d.InitiativeCount)
	for _, in := range d.TopInitiatives {
		progress := "—"
		if in.ProgressPct != nil {
			progress = fmt.Sprintf("%d%%", *in.ProgressPct)
		}
		fmt.Fprintf(a.out, "  %s %-40s %s  score %.1f\n", StatusLabel(in.Status), in.Title, progress, in.PriorityScore)
	}

	fmt.Fprintf(a.out, "Risks: %d  (%s high)\n", d.RiskCount, red.Sprint(len(d.HighRisks)))
	for _, r := range d.HighRisks {
		fmt.Fprintf(a.out, "  %s [%d] %s (%s)\n", StatusLabel(r.Level), r.Score, r.Description, dash(r.Owner))
	}

	fmt.Fprintf(a.out, "Actions: %s overdue, %d due soon\n", red.Sprint(len(d.OverdueActions)), len(d.UpcomingActions))
	for _, act := range d.OverdueActions {
		fmt.Fprintf(a.out, "  %s %s · %s · %s\n", red.Sprint("!"), act.DueDate, act.Task, dash(act.Owner))
	}
	for _, act := range d.UpcomingActions {
		fmt.Fprintf(a.out, "  • %s · %s · %s\n", act.DueDate, act.Task, dash(act.Owner))
	}
	fmt.Fprintf(a.out, "Open decisions: %d\n", d.OpenDecisionCount)
	fmt.Fprintln(a.out)

	if d.SurveyAverages != nil && d.SurveyAverages.Overall != nil {
		fmt.Fprintf(a.out, "Survey average: %s / 5 (%d answers)\n", num(d.SurveyAverages.Overall), d.SurveyAverages.Count)
	} else {
		fmt.Fprintln(a.out, "Survey average: —")
	}
	if d.Nps != nil && d.Nps.Total > 0 {
		fmt.Fprintf(a.out, "NPS: %s  (%d of %d invited responded)\n", npsLabel(d.Nps.NPS), d.Nps.Responded, d.Nps.Invited)
	} else {
		fmt.Fprintln(a.out, "NPS: —")
	}

	fmt.Fprintf(a.out, "Weekly reports: %d latest, %s red\n", len(d.LatestWeekly), red.Sprint(d.RedWeeklyReports))
	for _, r := range d.LatestWeekly {
		fmt.Fprintf(a.out, "  %s %s %-24s %s\n", r.WeekKey, StatusLabel(r.Semaphore), r.FaenaName, StatusLabel(r.Status))
	}
	fmt.Fprintln(a.out)
	return d, nil
}

func npsLabel(score int) string {
	s := fmt.Sprintf("%+d", score)
	switch {
	case score >= 50:
		return green.Sprint(s)
	case score >= 0:
		return yellow.Sprint(s)
	default:
		return red.Sprint(s)
	}
}
