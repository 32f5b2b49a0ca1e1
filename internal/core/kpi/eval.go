package kpi

import (
	"math"
	"strings"
)

// Point is one monthly observation. A nil Value means no data was captured.
type Point struct {
	PeriodKey string   `json:"periodKey"`
	Value     *float64 `json:"value"`
}

// ValuesByPeriod indexes the points that carry a finite value.
func ValuesByPeriod(points []Point) map[string]float64 {
	out := make(map[string]float64, len(points))
	for _, p := range points {
		if p.Value != nil && isFinite(*p.Value) {
			out[p.PeriodKey] = *p.Value
		}
	}
	return out
}

// IsPercentUnit reports whether unit denotes a rate rather than a flow.
// Rates are averaged over the trailing window; flows are summed.
func IsPercentUnit(unit string) bool {
	u := strings.ToLower(unit)
	return strings.Contains(u, "%") ||
		strings.Contains(u, "pp") ||
		strings.Contains(u, "pct") ||
		strings.Contains(u, "porc")
}

// ComputeEvaluatedValue rolls monthly values up to the figure that is
// compared against the target for periodKey.
//
// Basis A averages January through periodKey. Basis L takes the twelve
// months ending at periodKey and averages them for percentage units or
// sums them otherwise. Months without a finite value are skipped; ok is
// false when no month in the window has one.
func ComputeEvaluatedValue(basis Basis, unit string, values map[string]float64, periodKey string) (value float64, ok bool, err error) {
	var start string
	if basis == BasisTTM {
		start, err = AddMonths(periodKey, -11)
	} else {
		start, err = YearStartKey(periodKey)
	}
	if err != nil {
		return 0, false, err
	}

	months, err := MonthKeysBetween(start, periodKey)
	if err != nil {
		return 0, false, err
	}

	var sum float64
	n := 0
	for _, k := range months {
		v, found := values[k]
		if !found || !isFinite(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return 0, false, nil
	}

	if basis == BasisTTM && !IsPercentUnit(unit) {
		return sum, true, nil
	}
	return sum / float64(n), true, nil
}

// ComputeEvaluatedSeries evaluates every key "as of" that month.
// Entries without data are nil.
func ComputeEvaluatedSeries(basis Basis, unit string, values map[string]float64, keys []string) ([]*float64, error) {
	out := make([]*float64, len(keys))
	for i, k := range keys {
		v, ok, err := ComputeEvaluatedValue(basis, unit, values, k)
		if err != nil {
			return nil, err
		}
		if ok {
			vv := v
			out[i] = &vv
		}
	}
	return out, nil
}

// Average returns the mean of the finite values, ok is false when there are none.
func Average(values []float64) (float64, bool) {
	var sum float64
	n := 0
	for _, v := range values {
		if !isFinite(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
