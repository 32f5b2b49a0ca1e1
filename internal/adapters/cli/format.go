package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/example/see/internal/ports/primary"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed)
	faint  = color.New(color.Faint)
)

// StatusLabel colours a status, semaphore or risk level by its meaning.
func StatusLabel(status string) string {
	switch status {
	case "ACTIVE", "GREEN", "DONE", "SUBMITTED", "RECEIVED", "LOW", "APPROVED", "RESPONDED":
		return green.Sprint(status)
	case "DRAFT", "YELLOW", "IN_PROGRESS", "PARTIAL", "MEDIUM", "MITIGATING", "SENT", "PROPOSED":
		return yellow.Sprint(status)
	case "RED", "BLOCKED", "HIGH", "OPEN", "EXPIRED":
		return red.Sprint(status)
	case "NO_DATA", "CLOSED", "CANCELLED", "NOT_APPLICABLE", "REJECTED", "DEFERRED":
		return faint.Sprint(status)
	default:
		return status
	}
}

// PrintImportResult reports a CSV import, one line per rejected row.
func PrintImportResult(w io.Writer, what string, result *primary.CSVImportResult) {
	fmt.Fprintf(w, "✓ Imported %s: %d imported, %d failed\n", what, result.Imported, result.Failed)
	for _, e := range result.Errors {
		fmt.Fprintf(w, "  %s %s\n", red.Sprint("✗"), e)
	}
}

// PrintUnitEconomics renders unit-economics rows as a table.
func PrintUnitEconomics(w io.Writer, rows []*primary.UnitEconomics) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tACCOUNT\tSITE\tM2\tUSD/M2\tREVENUE\tCOSTS\tMARGIN\tMARGIN %")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, dash(r.AccountLabel), dash(r.ClientSite), num(r.M2Month), num(r.PriceUSDM2),
			num(r.RevenueMonth), num(r.DirectCosts), num(r.Margin), num(r.MarginPct))
	}
	return tw.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func dateRange(start, end string) string {
	if start == "" && end == "" {
		return "-"
	}
	return dash(start) + " → " + dash(end)
}

// num prints an optional value with at most two decimals.
func num(v *float64) string {
	if v == nil {
		return "—"
	}
	return strconv.FormatFloat(round2(*v), 'f', -1, 64)
}

// signed prints an optional delta with an explicit sign.
func signed(v *float64) string {
	if v == nil {
		return "—"
	}
	s := num(v)
	if *v > 0 {
		return "+" + s
	}
	return s
}

func round2(v float64) float64 {
	if v < 0 {
		return -float64(int64(-v*100+0.5)) / 100
	}
	return float64(int64(v*100+0.5)) / 100
}

// bar draws a ten-cell progress bar for a 0..100 percentage.
func bar(pct int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := pct / 10
	out := make([]rune, 10)
	for i := range out {
		if i < filled {
			out[i] = '█'
		} else {
			out[i] = '░'
		}
	}
	return string(out)
}
