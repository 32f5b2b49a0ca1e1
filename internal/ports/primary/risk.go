package primary

import "context"

// RiskService defines the primary port for the risk register.
type RiskService interface {
	CreateRisk(ctx context.Context, req CreateRiskRequest) (*Risk, error)
	// ListRisks returns risks by score, highest first.
	ListRisks(ctx context.Context, engagementID string) ([]*Risk, error)
	UpdateRisk(ctx context.Context, req UpdateRiskRequest) (*Risk, error)
	DeleteRisk(ctx context.Context, riskID string) error
}

// CreateRiskRequest contains parameters for registering a risk.
// Probability and impact are clamped to 1..5.
type CreateRiskRequest struct {
	EngagementID string
	Description  string
	Owner        string
	Mitigation   string
	Probability  float64
	Impact       float64
	Status       string
	ReviewDate   string
	Notes        string
}

// UpdateRiskRequest updates a risk. Zero values leave fields unchanged.
type UpdateRiskRequest struct {
	RiskID      string
	Description string
	Owner       string
	Mitigation  string
	Probability float64
	Impact      float64
	Status      string
	ReviewDate  string
	Notes       string
}

// Risk is one register entry with its derived score and level.
type Risk struct {
	ID           string
	EngagementID string
	Description  string
	Owner        string
	Mitigation   string
	Probability  int
	Impact       int
	Score        int
	Level        string
	Status       string
	ReviewDate   string
	Notes        string
}
