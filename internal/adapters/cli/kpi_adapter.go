package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/example/see/internal/ports/primary"
)

// KpiAdapter renders the KPI catalogue, series and scorecard.
type KpiAdapter struct {
	service primary.KpiService
	out     io.Writer
	locale  string
}

// NewKpiAdapter creates a new KpiAdapter. Locale selects KPI names.
func NewKpiAdapter(service primary.KpiService, out io.Writer, locale string) *KpiAdapter {
	return &KpiAdapter{
		service: service,
		out:     out,
		locale:  locale,
	}
}

// List prints the catalogue in BSC perspective order.
func (a *KpiAdapter) List(ctx context.Context, engagementID string) error {
	kpis, err := a.service.ListKpis(ctx, engagementID)
	if err != nil {
		return fmt.Errorf("failed to list KPIs: %w", err)
	}

	if len(kpis) == 0 {
		fmt.Fprintln(a.out, "No KPIs found")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPERSPECTIVE\tNAME\tDIRECTION\tBASIS\tTARGET\tUNIT")
	fmt.Fprintln(w, "--\t-----------\t----\t---------\t-----\t------\t----")
	for _, k := range kpis {
		target := num(k.TargetValue)
		if k.TargetValue == nil && k.TargetText != "" {
			target = k.TargetText
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			k.ID, k.Perspective, k.Name(a.locale), directionArrow(k.Direction), k.Basis, target, dash(k.Unit))
	}
	return w.Flush()
}

// Show prints one KPI definition.
func (a *KpiAdapter) Show(ctx context.Context, kpiID string) error {
	k, err := a.service.GetKpi(ctx, kpiID)
	if err != nil {
		return fmt.Errorf("failed to get KPI: %w", err)
	}

	fmt.Fprintf(a.out, "\nKPI: %s\n", k.ID)
	fmt.Fprintf(a.out, "Name (es):   %s\n", k.NameEs)
	if k.NameEn != "" {
		fmt.Fprintf(a.out, "Name (en):   %s\n", k.NameEn)
	}
	fmt.Fprintf(a.out, "Perspective: %s\n", k.Perspective)
	fmt.Fprintf(a.out, "Frequency:   %s\n", k.Frequency)
	fmt.Fprintf(a.out, "Direction:   %s %s\n", directionArrow(k.Direction), k.Direction)
	fmt.Fprintf(a.out, "Basis:       %s\n", k.Basis)
	fmt.Fprintf(a.out, "Target:      %s %s\n", num(k.TargetValue), k.Unit)
	if k.TargetText != "" {
		fmt.Fprintf(a.out, "Target note: %s\n", k.TargetText)
	}
	if k.OwnerEmail != "" {
		fmt.Fprintf(a.out, "Owner:       %s\n", k.OwnerEmail)
	}
	if k.Description != "" {
		fmt.Fprintf(a.out, "Description: %s\n", k.Description)
	}
	fmt.Fprintln(a.out)
	return nil
}

// Series prints the monthly window of one KPI.
func (a *KpiAdapter) Series(ctx context.Context, req primary.KpiSeriesRequest) error {
	series, err := a.service.GetSeries(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to get series: %w", err)
	}

	fmt.Fprintf(a.out, "\n%s · %s (%s)\n\n", series.Kpi.ID, series.Kpi.Name(a.locale), series.Kpi.Basis)
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PERIOD\tVALUE\tEVALUATED\tSTATUS")
	fmt.Fprintln(w, "------\t-----\t---------\t------")
	for _, p := range series.Points {
		status := StatusLabel("NO_DATA")
		if p.IsGreen != nil {
			if *p.IsGreen {
				status = StatusLabel("GREEN")
			} else {
				status = StatusLabel("RED")
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.PeriodKey, num(p.Value), num(p.Evaluated), status)
	}
	return w.Flush()
}

// Scorecard prints the evaluated KPI table of a period.
func (a *KpiAdapter) Scorecard(ctx context.Context, engagementID, periodKey, scopeKey string) (*primary.Scorecard, error) {
	card, err := a.service.GetScorecard(ctx, engagementID, periodKey, scopeKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get scorecard: %w", err)
	}

	fmt.Fprintf(a.out, "\nScorecard %s · %s · %s\n", card.EngagementID, card.PeriodKey, card.ScopeKey)
	if len(card.Rows) == 0 {
		fmt.Fprintln(a.out, "No KPIs found")
		return card, nil
	}
	fmt.Fprintln(a.out)

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KPI\tPREVIOUS\tCURRENT\tEVALUATED\tTARGET\tΔ TARGET\tΔ PREV\tSTATUS")
	fmt.Fprintln(w, "---\t--------\t-------\t---------\t------\t--------\t------\t------")
	for _, r := range card.Rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Kpi.Name(a.locale), num(r.Previous), num(r.Current), num(r.Evaluated), num(r.Target),
			signed(r.DeltaVsTarget), signed(r.DeltaVsPrevious), StatusLabel(r.Status))
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "\n%s green  %s red  %s no data\n",
		green.Sprint(card.Green), red.Sprint(card.Red), faint.Sprint(card.NoData))
	return card, nil
}

// Record stores the values of one period and reports the counts.
func (a *KpiAdapter) Record(ctx context.Context, req primary.RecordValuesRequest) error {
	resp, err := a.service.RecordValues(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Recorded %s: %d saved, %d cleared\n", req.PeriodKey, resp.Saved, resp.Cleared)
	return nil
}

// Import loads a CSV catalogue and reports the outcome row by row.
func (a *KpiAdapter) Import(ctx context.Context, engagementID string, r io.Reader) error {
	result, err := a.service.ImportCSV(ctx, engagementID, r)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Imported KPIs: %d created, %d updated, %d failed\n", result.Created, result.Updated, result.Failed)
	for _, e := range result.Errors {
		fmt.Fprintf(a.out, "  %s %s\n", red.Sprint("✗"), e)
	}
	return nil
}

func directionArrow(direction string) string {
	if direction == "LOWER_IS_BETTER" {
		return "↓"
	}
	return "↑"
}
