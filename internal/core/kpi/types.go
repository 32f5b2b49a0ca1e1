package kpi

// Basis selects the rollup window used to evaluate a KPI.
type Basis string

const (
	// BasisYTD averages the months from January through the period.
	BasisYTD Basis = "A"
	// BasisTTM rolls up the trailing twelve months ending at the period.
	BasisTTM Basis = "L"
)

// Direction tells whether a bigger value is an improvement.
type Direction string

const (
	HigherIsBetter Direction = "HIGHER_IS_BETTER"
	LowerIsBetter  Direction = "LOWER_IS_BETTER"
)

// Perspective is a balanced-scorecard perspective.
type Perspective string

const (
	PerspectiveFinancial       Perspective = "FINANCIAL"
	PerspectiveCustomer        Perspective = "CUSTOMER"
	PerspectiveInternalProcess Perspective = "INTERNAL_PROCESS"
	PerspectiveLearningGrowth  Perspective = "LEARNING_GROWTH"
)

// Perspectives lists the BSC perspectives in reporting order.
var Perspectives = []Perspective{
	PerspectiveFinancial,
	PerspectiveCustomer,
	PerspectiveInternalProcess,
	PerspectiveLearningGrowth,
}

// PerspectiveIndex returns the reporting position of p, or len(Perspectives)
// for unknown values so they sort last.
func PerspectiveIndex(p Perspective) int {
	for i, q := range Perspectives {
		if q == p {
			return i
		}
	}
	return len(Perspectives)
}

// Frequency is how often a KPI is measured.
type Frequency string

const (
	FrequencyWeekly    Frequency = "WEEKLY"
	FrequencyMonthly   Frequency = "MONTHLY"
	FrequencyQuarterly Frequency = "QUARTERLY"
	FrequencyYearly    Frequency = "YEARLY"
	FrequencyAdhoc     Frequency = "ADHOC"
)

// Status is the traffic-light outcome of evaluating a KPI for a period.
type Status string

const (
	StatusGreen  Status = "GREEN"
	StatusRed    Status = "RED"
	StatusNoData Status = "NO_DATA"
)

// GlobalScope is the scope key for engagement-wide values.
const GlobalScope = "GLOBAL"
