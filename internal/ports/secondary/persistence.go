// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import "context"

// EngagementRepository defines the secondary port for engagement persistence.
type EngagementRepository interface {
	// Create persists a new engagement.
	Create(ctx context.Context, engagement *EngagementRecord) error

	// GetByID retrieves an engagement by its ID.
	GetByID(ctx context.Context, id string) (*EngagementRecord, error)

	// Update updates an existing engagement's descriptive fields.
	Update(ctx context.Context, engagement *EngagementRecord) error

	// UpdateStatus changes the lifecycle status, stamping closed_at when closing.
	UpdateStatus(ctx context.Context, id, status string) error

	// Delete removes an engagement and everything it owns.
	Delete(ctx context.Context, id string) error

	// List retrieves engagements matching the given filters.
	List(ctx context.Context, filters EngagementFilters) ([]*EngagementRecord, error)

	// CountByStatus returns how many engagements have the given status.
	CountByStatus(ctx context.Context, status string) (int, error)

	// GetNextID returns the next available engagement ID.
	GetNextID(ctx context.Context) (string, error)
}

// EngagementRecord represents an engagement as stored in persistence.
type EngagementRecord struct {
	ID                string
	CompanyName       string
	Name              string
	ClientContact     string
	Industry          string
	Status            string
	Locale            string
	BusinessContext   string
	Goals             string
	Constraints       string
	SuccessDefinition string
	StartDate         string
	EndDate           string
	CreatedAt         string
	UpdatedAt         string
	ClosedAt          string
}

// EngagementFilters contains filter options for querying engagements.
type EngagementFilters struct {
	Status string
	Limit  int
}

// WizardProgressRepository stores per-step status. Check-in snapshots share
// the table under prefixed step keys.
type WizardProgressRepository interface {
	// List returns every progress row of an engagement.
	List(ctx context.Context, engagementID string) ([]*WizardProgressRecord, error)

	// Get returns one row or ErrNotFound.
	Get(ctx context.Context, engagementID, stepKey string) (*WizardProgressRecord, error)

	// Upsert inserts or replaces the row for (engagement, step key).
	Upsert(ctx context.Context, record *WizardProgressRecord) error
}

// WizardProgressRecord is one wizard_progress row. Notes holds free JSON.
type WizardProgressRecord struct {
	EngagementID string
	StepKey      string
	Status       string
	Notes        string
	UpdatedAt    string
}

// StrategyRepository stores the vision/mission/objectives of an engagement.
type StrategyRepository interface {
	// Get returns the strategy or ErrNotFound.
	Get(ctx context.Context, engagementID string) (*StrategyRecord, error)

	// Upsert writes the strategy.
	Upsert(ctx context.Context, record *StrategyRecord) error
}

// StrategyRecord is one strategies row.
type StrategyRecord struct {
	EngagementID string
	Vision       string
	Mission      string
	Objectives   string
	UpdatedAt    string
}

// SwotRepository stores SWOT items.
type SwotRepository interface {
	Create(ctx context.Context, item *SwotItemRecord) error
	GetByID(ctx context.Context, id string) (*SwotItemRecord, error)
	Delete(ctx context.Context, id string) error
	// List returns items ordered by quadrant then sort order.
	List(ctx context.Context, engagementID string) ([]*SwotItemRecord, error)
	// NextSortOrder returns one past the highest sort order in a quadrant.
	NextSortOrder(ctx context.Context, engagementID, quadrant string) (int, error)
	GetNextID(ctx context.Context) (string, error)
}

// SwotItemRecord is one swot_items row.
type SwotItemRecord struct {
	ID           string
	EngagementID string
	Quadrant     string
	Text         string
	SortOrder    int
	CreatedAt    string
}
