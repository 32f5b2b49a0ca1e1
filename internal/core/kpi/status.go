package kpi

// IsGreen compares value against target in the KPI's direction.
// A missing value is never green; a missing target is always green.
func IsGreen(direction Direction, value, target *float64) bool {
	if value == nil {
		return false
	}
	if target == nil {
		return true
	}
	if direction == LowerIsBetter {
		return *value <= *target
	}
	return *value >= *target
}

// RowInput carries what EvaluateRow needs about one KPI for one period.
type RowInput struct {
	PeriodKey string
	Basis     Basis
	Direction Direction
	Unit      string
	Target    *float64
	// Values holds the KPI's monthly values, at least the last twelve
	// months up to PeriodKey.
	Values map[string]float64
}

// Row is the evaluated check-in line for one KPI.
type Row struct {
	Previous        *float64
	Current         *float64
	Evaluated       *float64
	Target          *float64
	DeltaVsTarget   *float64
	DeltaVsPrevious *float64
	Status          Status
}

// EvaluateRow derives the summary row for a KPI. The status is NO_DATA when
// the period itself has no value; otherwise it is the green/red outcome of
// the evaluated rollup against the target.
func EvaluateRow(in RowInput) (Row, error) {
	prevKey, err := PrevMonthKey(in.PeriodKey)
	if err != nil {
		return Row{}, err
	}

	row := Row{
		Previous: lookup(in.Values, prevKey),
		Current:  lookup(in.Values, in.PeriodKey),
		Target:   in.Target,
	}

	ev, ok, err := ComputeEvaluatedValue(in.Basis, in.Unit, in.Values, in.PeriodKey)
	if err != nil {
		return Row{}, err
	}
	if ok {
		row.Evaluated = &ev
	}

	if row.Evaluated != nil && row.Target != nil {
		d := *row.Evaluated - *row.Target
		row.DeltaVsTarget = &d
	}
	if row.Current != nil && row.Previous != nil {
		d := *row.Current - *row.Previous
		row.DeltaVsPrevious = &d
	}

	switch {
	case row.Current == nil:
		row.Status = StatusNoData
	case IsGreen(in.Direction, row.Evaluated, row.Target):
		row.Status = StatusGreen
	default:
		row.Status = StatusRed
	}
	return row, nil
}

func lookup(values map[string]float64, key string) *float64 {
	v, ok := values[key]
	if !ok || !isFinite(v) {
		return nil
	}
	return &v
}
