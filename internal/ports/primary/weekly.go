package primary

import (
	"context"
	"encoding/json"
)

// WeeklyReportService defines the primary port for sites and their weekly
// reports filled through tokenized links.
type WeeklyReportService interface {
	CreateFaena(ctx context.Context, req CreateFaenaRequest) (*Faena, error)
	ListFaenas(ctx context.Context, engagementID string) ([]*Faena, error)

	// CreateLink issues a new token for (faena, week). The admin token must
	// match the configured one; an existing report is re-pointed to the
	// new token.
	CreateLink(ctx context.Context, req CreateWeeklyLinkRequest) (*WeeklyLink, error)

	// OpenByToken resolves a link, creating the draft report on first use.
	OpenByToken(ctx context.Context, token string) (*WeeklyReportForm, error)

	// Submit validates and stores the payload for a link.
	Submit(ctx context.Context, req SubmitWeeklyReportRequest) (*WeeklyReport, error)

	// Authorize checks the admin token that guards link creation and listing.
	Authorize(adminToken string) error

	GetReport(ctx context.Context, reportID string) (*WeeklyReport, error)
	ListReports(ctx context.Context, filters WeeklyReportFilters) ([]*WeeklyReport, error)
}

// CreateFaenaRequest registers a client site.
type CreateFaenaRequest struct {
	EngagementID string
	Name         string
	Code         string
}

// Faena is a client site.
type Faena struct {
	ID           string
	EngagementID string
	Name         string
	Code         string
}

// CreateWeeklyLinkRequest asks for a report link.
type CreateWeeklyLinkRequest struct {
	AdminToken    string
	EngagementID  string
	FaenaID       string
	WeekStart     string // YYYY-MM-DD or RFC 3339
	WeekEnd       string // start+6 when empty
	ExpiresInDays int
}

// WeeklyLink is an issued report link.
type WeeklyLink struct {
	Token     string `json:"token"`
	URL       string `json:"url"`
	ReportID  string `json:"reportId,omitempty"`
	WeekKey   string `json:"weekKey"`
	WeekStart string `json:"weekStart"`
	WeekEnd   string `json:"weekEnd"`
	ExpiresAt string `json:"expiresAt"`
}

// WeeklyReportForm is what the site administrator sees on the link.
type WeeklyReportForm struct {
	Report      *WeeklyReport `json:"report"`
	CompanyName string        `json:"companyName"`
	ExpiresAt   string        `json:"expiresAt"`
}

// SubmitWeeklyReportRequest carries the raw JSON payload of the form.
type SubmitWeeklyReportRequest struct {
	Token   string
	Payload json.RawMessage
}

// WeeklyReport is a stored weekly site report.
type WeeklyReport struct {
	ID                 string          `json:"id"`
	EngagementID       string          `json:"engagementId"`
	FaenaID            string          `json:"faenaId"`
	FaenaName          string          `json:"faenaName"`
	WeekKey            string          `json:"weekKey"`
	WeekStart          string          `json:"weekStart"`
	WeekEnd            string          `json:"weekEnd"`
	Status             string          `json:"status"`
	Semaphore          string          `json:"semaphore"`
	Payload            json.RawMessage `json:"payload,omitempty"`
	M2CompliancePct    *float64        `json:"m2CompliancePct,omitempty"`
	ShiftCompliancePct *float64        `json:"shiftCompliancePct,omitempty"`
	SubmittedAt        string          `json:"submittedAt,omitempty"`
	UpdatedAt          string          `json:"updatedAt"`
}

// WeeklyReportFilters contains filter options for listing reports.
type WeeklyReportFilters struct {
	EngagementID string
	FaenaID      string
	Status       string
	Limit        int
}
