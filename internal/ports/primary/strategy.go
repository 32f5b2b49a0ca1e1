package primary

import "context"

// StrategyService defines the primary port for the strategy steps:
// vision, mission, objectives and the SWOT matrix.
type StrategyService interface {
	SetStrategy(ctx context.Context, req SetStrategyRequest) (*Strategy, error)
	GetStrategy(ctx context.Context, engagementID string) (*Strategy, error)

	AddSwotItem(ctx context.Context, req AddSwotItemRequest) (*SwotItem, error)
	ListSwotItems(ctx context.Context, engagementID string) ([]*SwotItem, error)
	DeleteSwotItem(ctx context.Context, itemID string) error
}

// SetStrategyRequest replaces the strategy texts of an engagement.
type SetStrategyRequest struct {
	EngagementID string
	Vision       string
	Mission      string
	Objectives   string
}

// Strategy is the vision/mission/objectives of an engagement.
type Strategy struct {
	EngagementID string
	Vision       string
	Mission      string
	Objectives   string
	UpdatedAt    string
}

// AddSwotItemRequest adds one item to a SWOT quadrant. Quadrant accepts
// canonical values or Spanish labels (Fortaleza, Debilidad...).
type AddSwotItemRequest struct {
	EngagementID string
	Quadrant     string
	Text         string
}

// SwotItem is one SWOT entry.
type SwotItem struct {
	ID        string
	Quadrant  string
	Text      string
	SortOrder int
}
