package primary

import "context"

// InitiativeService defines the primary port for the initiative portfolio
// and its periodic check-ins.
type InitiativeService interface {
	CreateInitiative(ctx context.Context, req CreateInitiativeRequest) (*Initiative, error)
	GetInitiative(ctx context.Context, initiativeID string) (*Initiative, error)
	// ListInitiatives returns initiatives ordered by priority score.
	ListInitiatives(ctx context.Context, filters InitiativeFilters) ([]*Initiative, error)
	UpdateInitiative(ctx context.Context, req UpdateInitiativeRequest) (*Initiative, error)
	DeleteInitiative(ctx context.Context, initiativeID string) error

	// ImportCSV creates one initiative per row. Rows without a title or
	// owner are counted as failed and do not stop the import.
	ImportCSV(ctx context.Context, req CSVImportRequest) (*CSVImportResult, error)

	// Checkin stores the period snapshot and mirrors progress and status
	// onto each initiative.
	Checkin(ctx context.Context, req InitiativeCheckinRequest) (*InitiativeCheckin, error)

	// GetCheckin returns the stored snapshot, or nil when none exists.
	GetCheckin(ctx context.Context, engagementID, scopeKey, periodKey string) (*InitiativeCheckin, error)
}

// CreateInitiativeRequest contains parameters for creating an initiative.
type CreateInitiativeRequest struct {
	EngagementID     string
	Title            string
	Owner            string
	Perspective      string
	KpiID            string
	Problem          string
	DefinitionOfDone string
	Status           string
	Impact           int
	Effort           int
	Risk             int
	StartDate        string
	EndDate          string
	Dependencies     string
	Notes            string
}

// UpdateInitiativeRequest updates an initiative. Empty strings and nil
// pointers leave stored values unchanged.
type UpdateInitiativeRequest struct {
	InitiativeID     string
	Title            string
	Owner            string
	Perspective      string
	KpiID            string
	Problem          string
	DefinitionOfDone string
	Status           string
	Impact           *int
	Effort           *int
	Risk             *int
	StartDate        string
	EndDate          string
	Dependencies     string
	Notes            string
	ProgressPct      *float64
}

// Initiative represents an initiative at the port boundary.
type Initiative struct {
	ID               string
	EngagementID     string
	Title            string
	Owner            string
	Perspective      string
	KpiID            string
	Problem          string
	DefinitionOfDone string
	Status           string
	Impact           int
	Effort           int
	Risk             int
	StartDate        string
	EndDate          string
	Dependencies     string
	Notes            string
	ProgressPct      *int
	PriorityScore    float64
	CreatedAt        string
	UpdatedAt        string
}

// InitiativeFilters contains filter options for listing initiatives.
type InitiativeFilters struct {
	EngagementID string
	Status       string
	KpiID        string
}

// InitiativeCheckinRequest is the initiatives step of a check-in.
type InitiativeCheckinRequest struct {
	EngagementID string
	PeriodKey    string
	ScopeKey     string
	Items        []InitiativeCheckinItem
}

// InitiativeCheckinItem is the update of one initiative. Evidence is a
// comma or newline separated list of URLs.
type InitiativeCheckinItem struct {
	InitiativeID string
	ProgressPct  *float64
	Status       string
	Notes        string
	Blockers     string
	Evidence     string
}

// InitiativeCheckin is a stored check-in snapshot.
type InitiativeCheckin struct {
	EngagementID string
	PeriodKey    string
	ScopeKey     string
	SavedAt      string
	Items        []InitiativeSnapshot
}

// InitiativeSnapshot is one initiative as recorded in a check-in.
type InitiativeSnapshot struct {
	InitiativeID string
	ProgressPct  *int
	Status       string
	Notes        string
	Blockers     string
	EvidenceURLs []string
}
