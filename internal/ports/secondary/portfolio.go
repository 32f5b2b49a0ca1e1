package secondary

import "context"

// InitiativeRepository defines the secondary port for initiative persistence.
type InitiativeRepository interface {
	Create(ctx context.Context, initiative *InitiativeRecord) error
	GetByID(ctx context.Context, id string) (*InitiativeRecord, error)
	Update(ctx context.Context, initiative *InitiativeRecord) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filters InitiativeFilters) ([]*InitiativeRecord, error)
	GetNextID(ctx context.Context) (string, error)
}

// InitiativeRecord represents an initiative as stored in persistence.
type InitiativeRecord struct {
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
	CreatedAt        string
	UpdatedAt        string
}

// InitiativeFilters contains filter options for querying initiatives.
type InitiativeFilters struct {
	EngagementID string
	Status       string
	KpiID        string
}

// RoadmapRepository stores the 20-week roadmap.
type RoadmapRepository interface {
	// Upsert writes the row for (engagement, week).
	Upsert(ctx context.Context, week *RoadmapWeekRecord) error

	// EnsureWeeks inserts empty rows for the given weeks, leaving existing
	// rows untouched. Returns the number of rows created.
	EnsureWeeks(ctx context.Context, engagementID string, weeks []int) (int, error)

	// List returns the roadmap ordered by week.
	List(ctx context.Context, engagementID string) ([]*RoadmapWeekRecord, error)

	// DeleteAll clears the roadmap of an engagement.
	DeleteAll(ctx context.Context, engagementID string) error
}

// RoadmapWeekRecord is one roadmap_weeks row.
type RoadmapWeekRecord struct {
	ID            string
	EngagementID  string
	Week          int
	Objective     string
	KeyActivities string
	Deliverables  string
	KpiFocus      string
	Ritual        string
	UpdatedAt     string
}

// RiskRepository defines the secondary port for risk persistence.
type RiskRepository interface {
	Create(ctx context.Context, risk *RiskRecord) error
	GetByID(ctx context.Context, id string) (*RiskRecord, error)
	Update(ctx context.Context, risk *RiskRecord) error
	Delete(ctx context.Context, id string) error
	// List returns risks ordered by probability × impact, highest first.
	List(ctx context.Context, engagementID string) ([]*RiskRecord, error)
	GetNextID(ctx context.Context) (string, error)
}

// RiskRecord is one risks row.
type RiskRecord struct {
	ID           string
	EngagementID string
	Description  string
	Owner        string
	Mitigation   string
	Probability  int
	Impact       int
	Status       string
	ReviewDate   string
	Notes        string
	CreatedAt    string
	UpdatedAt    string
}
