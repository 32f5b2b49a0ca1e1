package secondary

import "context"

// KpiRepository defines the secondary port for KPI catalogue persistence.
type KpiRepository interface {
	// Create persists a new KPI.
	Create(ctx context.Context, kpi *KpiRecord) error

	// GetByID retrieves a KPI by its ID.
	GetByID(ctx context.Context, id string) (*KpiRecord, error)

	// FindByName looks up a KPI by its Spanish name within an engagement,
	// ignoring case. Returns ErrNotFound when absent.
	FindByName(ctx context.Context, engagementID, nameEs string) (*KpiRecord, error)

	// Update replaces a KPI's definition.
	Update(ctx context.Context, kpi *KpiRecord) error

	// Delete removes a KPI and its values.
	Delete(ctx context.Context, id string) error

	// List returns the KPIs of an engagement ordered by perspective then name.
	List(ctx context.Context, engagementID string) ([]*KpiRecord, error)

	// GetNextID returns the next available KPI ID.
	GetNextID(ctx context.Context) (string, error)
}

// KpiRecord represents a KPI definition as stored in persistence.
type KpiRecord struct {
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

// KpiValueRepository stores monthly KPI values.
type KpiValueRepository interface {
	// Upsert writes the value for (kpi, period, scope), keeping the row id
	// of an existing value.
	Upsert(ctx context.Context, value *KpiValueRecord) error

	// Delete removes the value for (kpi, period, scope), if any.
	Delete(ctx context.Context, kpiID, periodKey, scopeKey string) error

	// List returns values matching the filters ordered by period.
	List(ctx context.Context, filters KpiValueFilters) ([]*KpiValueRecord, error)
}

// KpiValueRecord is one kpi_values row.
type KpiValueRecord struct {
	ID          string
	KpiID       string
	PeriodKey   string
	ScopeKey    string
	Value       *float64
	Note        string
	IsGreen     *bool
	PeriodStart string
	PeriodEnd   string
	CreatedAt   string
	UpdatedAt   string
}

// KpiValueFilters narrows a value query. Period bounds are inclusive
// YYYY-MM keys; empty bounds are open.
type KpiValueFilters struct {
	EngagementID string
	KpiID        string
	ScopeKey     string
	FromPeriod   string
	ToPeriod     string
}
