package secondary

import "context"

// FaenaRepository stores client sites.
type FaenaRepository interface {
	Create(ctx context.Context, faena *FaenaRecord) error
	GetByID(ctx context.Context, id string) (*FaenaRecord, error)
	List(ctx context.Context, engagementID string) ([]*FaenaRecord, error)
	GetNextID(ctx context.Context) (string, error)
}

// FaenaRecord is one faenas row.
type FaenaRecord struct {
	ID           string
	EngagementID string
	Name         string
	Code         string
	CreatedAt    string
}

// WeeklyReportRepository stores weekly site reports and their access tokens.
type WeeklyReportRepository interface {
	CreateToken(ctx context.Context, token *WeeklyTokenRecord) error

	// GetToken returns the token row for a public token or ErrNotFound.
	GetToken(ctx context.Context, token string) (*WeeklyTokenRecord, error)

	// TouchToken stamps last_opened_at, and used_at when used is true.
	TouchToken(ctx context.Context, tokenID, at string, used bool) error

	// DeleteToken removes a token; reports pointing at it keep a null token.
	DeleteToken(ctx context.Context, tokenID string) error

	CreateReport(ctx context.Context, report *WeeklyReportRecord) error
	GetReportByID(ctx context.Context, id string) (*WeeklyReportRecord, error)

	// GetReportByWeek returns the report for (faena, week key) or ErrNotFound.
	GetReportByWeek(ctx context.Context, faenaID, weekKey string) (*WeeklyReportRecord, error)

	// UpdateReport writes status, semaphore, payload, token and submitted_at.
	UpdateReport(ctx context.Context, report *WeeklyReportRecord) error

	// ListReports returns reports newest week first.
	ListReports(ctx context.Context, filters WeeklyReportFilters) ([]*WeeklyReportRecord, error)

	GetNextReportID(ctx context.Context) (string, error)
}

// WeeklyTokenRecord is one weekly_report_tokens row.
type WeeklyTokenRecord struct {
	ID           string
	Token        string
	EngagementID string
	FaenaID      string
	WeekStart    string
	WeekEnd      string
	ExpiresAt    string
	LastOpenedAt string
	UsedAt       string
	CreatedAt    string
}

// WeeklyReportRecord is one weekly_reports row. FaenaName is filled on reads.
type WeeklyReportRecord struct {
	ID           string
	EngagementID string
	FaenaID      string
	FaenaName    string
	WeekKey      string
	WeekStart    string
	WeekEnd      string
	Status       string
	Semaphore    string
	PayloadJSON  string
	TokenID      string
	SubmittedAt  string
	CreatedAt    string
	UpdatedAt    string
}

// WeeklyReportFilters contains filter options for listing reports.
type WeeklyReportFilters struct {
	EngagementID string
	FaenaID      string
	Status       string
	Limit        int
}
