package primary

import "context"

// CheckinService defines the primary port for periodic check-ins.
type CheckinService interface {
	// GetStatus reports how far a check-in for (period, scope) has got.
	GetStatus(ctx context.Context, engagementID, scopeKey, periodKey string) (*CheckinStatus, error)

	// GetSummary combines the scorecard with the initiative snapshot.
	GetSummary(ctx context.Context, engagementID, scopeKey, periodKey string) (*CheckinSummary, error)

	// SetStepStatus records the status of a progress-backed check-in step
	// (checkin-initiatives, checkin-summary, datapack-ops, datapack-exec).
	SetStepStatus(ctx context.Context, engagementID, step, scopeKey, periodKey, status string) error
}

// CheckinStatus is the check-in overview.
type CheckinStatus struct {
	EngagementID        string
	PeriodKey           string
	ScopeKey            string
	KpisTotal           int
	KpisWithValue       int
	InitiativesTotal    int
	InitiativesUpdated  int
	Steps               []CheckinStep
	KpiStepDone         bool
	InitiativesStepDone bool
}

// CheckinStep is the stored status of one progress-backed step.
type CheckinStep struct {
	Step   string
	Key    string
	Status string
}

// CheckinSummary is the printable check-in result.
type CheckinSummary struct {
	Engagement  *Engagement
	Scorecard   *Scorecard
	Initiatives []*InitiativeSummaryRow
	SavedAt     string
}

// InitiativeSummaryRow is an initiative with its check-in snapshot.
type InitiativeSummaryRow struct {
	Initiative *Initiative
	Snapshot   *InitiativeSnapshot
}
