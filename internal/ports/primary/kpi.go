package primary

import (
	"context"
	"io"
)

// KpiService defines the primary port for the BSC KPI catalogue, monthly
// values and the evaluated scorecard.
type KpiService interface {
	CreateKpi(ctx context.Context, req CreateKpiRequest) (*Kpi, error)
	GetKpi(ctx context.Context, kpiID string) (*Kpi, error)
	// ListKpis returns the KPIs of an engagement in BSC perspective order.
	ListKpis(ctx context.Context, engagementID string) ([]*Kpi, error)
	UpdateKpi(ctx context.Context, req UpdateKpiRequest) (*Kpi, error)
	DeleteKpi(ctx context.Context, kpiID string) error

	// RecordValues upserts the values of one period and scope. An entry
	// without a value clears the stored one.
	RecordValues(ctx context.Context, req RecordValuesRequest) (*RecordValuesResponse, error)

	// GetSeries returns the raw and evaluated monthly series of a KPI.
	GetSeries(ctx context.Context, req KpiSeriesRequest) (*KpiSeries, error)

	// GetScorecard evaluates every KPI of an engagement for a period.
	GetScorecard(ctx context.Context, engagementID, periodKey, scopeKey string) (*Scorecard, error)

	// ImportCSV creates or updates KPIs from a CSV catalogue.
	ImportCSV(ctx context.Context, engagementID string, r io.Reader) (*KpiImportResult, error)

	// TemplateCSV returns an empty import template.
	TemplateCSV() []byte

	// ExportXLSX returns the catalogue and its values as a workbook.
	ExportXLSX(ctx context.Context, engagementID string) ([]byte, error)
}

// CreateKpiRequest contains parameters for creating a KPI.
type CreateKpiRequest struct {
	EngagementID string
	NameEs       string
	NameEn       string
	Description  string
	Perspective  string
	Frequency    string
	Direction    string
	Basis        string // A (default) or L
	Unit         string
	TargetValue  *float64
	TargetText   string
	OwnerEmail   string
}

// UpdateKpiRequest replaces a KPI's definition. Nil pointers and empty
// strings leave stored values unchanged; ClearTarget removes the target.
type UpdateKpiRequest struct {
	KpiID       string
	NameEs      string
	NameEn      string
	Description string
	Perspective string
	Frequency   string
	Direction   string
	Basis       string
	Unit        string
	TargetValue *float64
	ClearTarget bool
	TargetText  string
	OwnerEmail  string
}

// Kpi represents a KPI definition at the port boundary.
type Kpi struct {
	ID           string
	EngagementID string
	NameEs       string
	NameEn       string
	Description  string
	Perspective  string
	Frequency    string
	Direction    string
	Basis        string
	Unit         string
	TargetValue  *float64
	TargetText   string
	OwnerEmail   string
	CreatedAt    string
	UpdatedAt    string
}

// Name returns the KPI name for locale.
func (k *Kpi) Name(locale string) string {
	if locale == "en" && k.NameEn != "" {
		return k.NameEn
	}
	return k.NameEs
}

// RecordValuesRequest carries the values of one check-in period.
type RecordValuesRequest struct {
	EngagementID string
	PeriodKey    string // YYYY-MM
	ScopeKey     string // GLOBAL when empty
	Values       []KpiValueInput
}

// KpiValueInput is the raw entry for one KPI. Raw accepts a decimal comma.
type KpiValueInput struct {
	KpiID string
	Raw   string
	Note  string
}

// RecordValuesResponse reports what RecordValues did.
type RecordValuesResponse struct {
	Saved   int
	Cleared int
}

// KpiSeriesRequest selects a series window.
type KpiSeriesRequest struct {
	EngagementID string
	KpiID        string
	PeriodKey    string // last month of the window; current month when empty
	Months       int    // 12 when zero
	ScopeKey     string
}

// KpiSeries is a KPI's monthly window with the evaluated rollup.
type KpiSeries struct {
	Kpi    *Kpi
	Points []KpiSeriesPoint
}

// KpiSeriesPoint is one month of a series.
type KpiSeriesPoint struct {
	PeriodKey string   `json:"periodKey"`
	Value     *float64 `json:"value"`
	Evaluated *float64 `json:"evaluated"`
	IsGreen   *bool    `json:"isGreen"`
}

// Scorecard is the evaluated KPI table for a period.
type Scorecard struct {
	EngagementID string
	PeriodKey    string
	ScopeKey     string
	Rows         []*ScorecardRow
	Green        int
	Red          int
	NoData       int
}

// ScorecardRow is one KPI evaluated for the period.
type ScorecardRow struct {
	Kpi             *Kpi
	Previous        *float64
	Current         *float64
	Evaluated       *float64
	Target          *float64
	DeltaVsTarget   *float64
	DeltaVsPrevious *float64
	Status          string // GREEN, RED or NO_DATA
	Note            string
}

// KpiImportResult summarises a CSV import.
type KpiImportResult struct {
	Created int
	Updated int
	Failed  int
	Errors  []string
}
