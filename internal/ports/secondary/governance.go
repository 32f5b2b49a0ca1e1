package secondary

import "context"

// ActionItemRepository defines the secondary port for action item persistence.
type ActionItemRepository interface {
	Create(ctx context.Context, item *ActionItemRecord) error
	GetByID(ctx context.Context, id string) (*ActionItemRecord, error)
	Update(ctx context.Context, item *ActionItemRecord) error
	Delete(ctx context.Context, id string) error
	// List returns items ordered by due date, undated last.
	List(ctx context.Context, filters ActionItemFilters) ([]*ActionItemRecord, error)
	GetNextID(ctx context.Context) (string, error)
}

// ActionItemRecord is one action_items row.
type ActionItemRecord struct {
	ID           string
	EngagementID string
	Task         string
	Owner        string
	DueDate      string
	Status       string
	Blocker      string
	Comments     string
	CreatedAt    string
	UpdatedAt    string
}

// ActionItemFilters contains filter options for querying action items.
type ActionItemFilters struct {
	EngagementID string
	Status       string
}

// DecisionRepository defines the secondary port for decision log persistence.
type DecisionRepository interface {
	Create(ctx context.Context, decision *DecisionRecord) error
	GetByID(ctx context.Context, id string) (*DecisionRecord, error)
	Update(ctx context.Context, decision *DecisionRecord) error
	Delete(ctx context.Context, id string) error
	// List returns decisions newest first.
	List(ctx context.Context, engagementID string) ([]*DecisionRecord, error)
	GetNextID(ctx context.Context) (string, error)
}

// DecisionRecord is one decisions row.
type DecisionRecord struct {
	ID             string
	EngagementID   string
	DecidedOn      string
	Decision       string
	Options        string
	Recommendation string
	Responsible    string
	Status         string
	Notes          string
	CreatedAt      string
	UpdatedAt      string
}

// RaciRepository defines the secondary port for RACI matrix persistence.
type RaciRepository interface {
	Create(ctx context.Context, row *RaciRecord) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, engagementID string) ([]*RaciRecord, error)
	GetNextID(ctx context.Context) (string, error)
}

// RaciRecord is one raci_rows row.
type RaciRecord struct {
	ID           string
	EngagementID string
	Initiative   string
	Responsible  string
	Accountable  string
	Consulted    string
	Informed     string
	CreatedAt    string
}
