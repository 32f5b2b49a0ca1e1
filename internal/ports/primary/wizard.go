package primary

import "context"

// WizardService defines the primary port for wizard progress.
type WizardService interface {
	// SetStepStatus records the status (and optional notes) of a wizard step
	// or check-in progress key.
	SetStepStatus(ctx context.Context, req SetStepStatusRequest) error

	// GetOverview summarises the ten wizard steps of an engagement.
	GetOverview(ctx context.Context, engagementID string) (*WizardOverview, error)
}

// SetStepStatusRequest contains parameters for recording step progress.
type SetStepStatusRequest struct {
	EngagementID string
	StepKey      string
	Status       string
	Notes        string // free JSON, kept as-is
}

// WizardOverview is the per-step status list of an engagement.
type WizardOverview struct {
	EngagementID  string
	Steps         []WizardStep
	Done          int
	CompletionPct int
	NextStepKey   string
}

// WizardStep is one line of the overview.
type WizardStep struct {
	Number int
	Key    string
	Phase  string
	Label  string
	Status string
}
