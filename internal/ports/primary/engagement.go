package primary

import "context"

// EngagementService defines the primary port for engagement operations.
type EngagementService interface {
	// CreateEngagement creates a new engagement in DRAFT.
	CreateEngagement(ctx context.Context, req CreateEngagementRequest) (*Engagement, error)

	// GetEngagement retrieves an engagement by ID.
	GetEngagement(ctx context.Context, engagementID string) (*Engagement, error)

	// ListEngagements lists engagements with optional filters.
	ListEngagements(ctx context.Context, filters EngagementFilters) ([]*Engagement, error)

	// UpdateEngagement updates the descriptive fields of an engagement.
	// Empty request fields leave the stored value unchanged.
	UpdateEngagement(ctx context.Context, req UpdateEngagementRequest) (*Engagement, error)

	// ActivateEngagement moves a DRAFT engagement to ACTIVE.
	ActivateEngagement(ctx context.Context, engagementID string) error

	// CloseEngagement closes an ACTIVE engagement.
	CloseEngagement(ctx context.Context, engagementID string) error

	// ReopenEngagement moves a CLOSED engagement back to ACTIVE.
	ReopenEngagement(ctx context.Context, engagementID string) error

	// DeleteEngagement deletes a DRAFT or CLOSED engagement and everything
	// recorded under it.
	DeleteEngagement(ctx context.Context, engagementID string) error

	// CountActive returns the number of ACTIVE engagements.
	CountActive(ctx context.Context) (int, error)

	// ListAudit returns the audit trail of an engagement, newest first.
	ListAudit(ctx context.Context, engagementID string, limit int) ([]*AuditEntry, error)
}

// CreateEngagementRequest contains parameters for creating an engagement.
type CreateEngagementRequest struct {
	CompanyName       string
	Name              string
	ClientContact     string
	Industry          string
	Locale            string // es (default) or en
	BusinessContext   string
	Goals             string
	Constraints       string
	SuccessDefinition string
	StartDate         string // YYYY-MM-DD
	EndDate           string // YYYY-MM-DD
}

// UpdateEngagementRequest contains parameters for updating an engagement.
type UpdateEngagementRequest struct {
	EngagementID      string
	CompanyName       string
	Name              string
	ClientContact     string
	Industry          string
	Locale            string
	BusinessContext   string
	Goals             string
	Constraints       string
	SuccessDefinition string
	StartDate         string
	EndDate           string
}

// Engagement represents an engagement entity at the port boundary.
type Engagement struct {
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

// DisplayName is the engagement name, falling back to the company.
func (e *Engagement) DisplayName() string {
	if e.Name != "" {
		return e.Name
	}
	return e.CompanyName
}

// EngagementFilters contains filter options for listing engagements.
type EngagementFilters struct {
	Status string
	Limit  int
}

// AuditEntry is one line of the audit trail.
type AuditEntry struct {
	ID         string
	Actor      string
	EntityType string
	EntityID   string
	Action     string
	FieldName  string
	OldValue   string
	NewValue   string
	CreatedAt  string
}
