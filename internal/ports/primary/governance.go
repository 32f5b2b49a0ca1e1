package primary

import (
	"context"
	"time"
)

// GovernanceService defines the primary port for action items, the
// decision log and the RACI matrix.
type GovernanceService interface {
	CreateAction(ctx context.Context, req CreateActionRequest) (*ActionItem, error)
	// ListActions returns items ordered by due date, flagging overdue ones
	// relative to today.
	ListActions(ctx context.Context, engagementID, status string, today time.Time) ([]*ActionItem, error)
	UpdateActionStatus(ctx context.Context, actionID, status string) error
	DeleteAction(ctx context.Context, actionID string) error

	CreateDecision(ctx context.Context, req CreateDecisionRequest) (*Decision, error)
	ListDecisions(ctx context.Context, engagementID string) ([]*Decision, error)
	UpdateDecisionStatus(ctx context.Context, decisionID, status string) error
	DeleteDecision(ctx context.Context, decisionID string) error

	CreateRaciRow(ctx context.Context, req CreateRaciRequest) (*RaciRow, error)
	ListRaciRows(ctx context.Context, engagementID string) ([]*RaciRow, error)
	DeleteRaciRow(ctx context.Context, rowID string) error
}

// CreateActionRequest contains parameters for creating an action item.
// Status accepts the Spanish board labels.
type CreateActionRequest struct {
	EngagementID string
	Task         string
	Owner        string
	DueDate      string
	Status       string
	Blocker      string
	Comments     string
}

// ActionItem is one governance action.
type ActionItem struct {
	ID       string
	Task     string
	Owner    string
	DueDate  string
	Status   string
	Blocker  string
	Comments string
	Overdue  bool
}

// CreateDecisionRequest contains parameters for logging a decision.
type CreateDecisionRequest struct {
	EngagementID   string
	DecidedOn      string
	Decision       string
	Options        string
	Recommendation string
	Responsible    string
	Status         string
	Notes          string
}

// Decision is one decision log entry.
type Decision struct {
	ID             string
	DecidedOn      string
	Decision       string
	Options        string
	Recommendation string
	Responsible    string
	Status         string
	Notes          string
}

// CreateRaciRequest contains parameters for a RACI row.
type CreateRaciRequest struct {
	EngagementID string
	Initiative   string
	Responsible  string
	Accountable  string
	Consulted    string
	Informed     string
}

// RaciRow is one RACI matrix row.
type RaciRow struct {
	ID          string
	Initiative  string
	Responsible string
	Accountable string
	Consulted   string
	Informed    string
}
