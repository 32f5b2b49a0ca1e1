package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/example/see/internal/ports/primary"
)

// CheckinAdapter renders check-in progress and the period summary.
type CheckinAdapter struct {
	service primary.CheckinService
	out     io.Writer
	locale  string
}

// NewCheckinAdapter creates a new CheckinAdapter.
func NewCheckinAdapter(service primary.CheckinService, out io.Writer, locale string) *CheckinAdapter {
	return &CheckinAdapter{service: service, out: out, locale: locale}
}

// Status prints how far the check-in of a period has got.
func (a *CheckinAdapter) Status(ctx context.Context, engagementID, scopeKey, periodKey string) error {
	st, err := a.service.GetStatus(ctx, engagementID, scopeKey, periodKey)
	if err != nil {
		return fmt.Errorf("failed to get check-in status: %w", err)
	}

	fmt.Fprintf(a.out, "\nCheck-in %s · %s · %s\n\n", st.EngagementID, st.PeriodKey, st.ScopeKey)
	fmt.Fprintf(a.out, "  %s KPIs         %d/%d with value\n", doneMark(st.KpiStepDone), st.KpisWithValue, st.KpisTotal)
	fmt.Fprintf(a.out, "  %s Initiatives  %d/%d updated\n", doneMark(st.InitiativesStepDone), st.InitiativesUpdated, st.InitiativesTotal)
	for _, step := range st.Steps {
		fmt.Fprintf(a.out, "  %s %-12s %s\n", doneMark(step.Status == "DONE"), step.Step, StatusLabel(step.Status))
	}
	fmt.Fprintln(a.out)
	return nil
}

// Summary prints the scorecard counts and each initiative's snapshot.
func (a *CheckinAdapter) Summary(ctx context.Context, engagementID, scopeKey, periodKey string) error {
	sum, err := a.service.GetSummary(ctx, engagementID, scopeKey, periodKey)
	if err != nil {
		return fmt.Errorf("failed to get check-in summary: %w", err)
	}

	card := sum.Scorecard
	fmt.Fprintf(a.out, "\n%s · %s · %s\n", sum.Engagement.DisplayName(), card.PeriodKey, card.ScopeKey)
	fmt.Fprintf(a.out, "KPIs: %s green, %s red, %s no data\n", green.Sprint(card.Green), red.Sprint(card.Red), faint.Sprint(card.NoData))
	if sum.SavedAt != "" {
		fmt.Fprintf(a.out, "Saved: %s\n", sum.SavedAt)
	}
	fmt.Fprintln(a.out)

	if len(sum.Initiatives) == 0 {
		fmt.Fprintln(a.out, "No initiatives")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INITIATIVE\tSTATUS\tPROGRESS\tNOTES\tBLOCKERS")
	fmt.Fprintln(w, "----------\t------\t--------\t-----\t--------")
	for _, row := range sum.Initiatives {
		status, progress := row.Initiative.Status, row.Initiative.ProgressPct
		notes, blockers := "", ""
		if s := row.Snapshot; s != nil {
			if s.Status != "" {
				status = s.Status
			}
			if s.ProgressPct != nil {
				progress = s.ProgressPct
			}
			notes, blockers = s.Notes, s.Blockers
		}
		pct := "—"
		if progress != nil {
			pct = fmt.Sprintf("%d%%", *progress)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", row.Initiative.Title, StatusLabel(status), pct, oneLine(notes), oneLine(blockers))
	}
	return w.Flush()
}

func doneMark(done bool) string {
	if done {
		return green.Sprint("✓")
	}
	return faint.Sprint("○")
}

func oneLine(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > 40 {
		return string(r[:39]) + "…"
	}
	return dash(s)
}
