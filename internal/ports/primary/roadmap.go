package primary

import "context"

// RoadmapService defines the primary port for the 20-week roadmap.
type RoadmapService interface {
	// GenerateRoadmap creates the missing weeks of the skeleton and returns
	// how many were added.
	GenerateRoadmap(ctx context.Context, engagementID string) (int, error)

	SetWeek(ctx context.Context, req SetRoadmapWeekRequest) (*RoadmapWeek, error)
	ListWeeks(ctx context.Context, engagementID string) ([]*RoadmapWeek, error)
	ClearRoadmap(ctx context.Context, engagementID string) error

	// ImportCSV upserts one week per row of a filled template.
	ImportCSV(ctx context.Context, req CSVImportRequest) (*CSVImportResult, error)

	// TemplateCSV returns a 20-row template to fill offline.
	TemplateCSV() []byte
	ExportXLSX(ctx context.Context, engagementID string) ([]byte, error)
}

// SetRoadmapWeekRequest writes one roadmap week.
type SetRoadmapWeekRequest struct {
	EngagementID  string
	Week          int
	Objective     string
	KeyActivities string
	Deliverables  string
	KpiFocus      string
	Ritual        string
}

// RoadmapWeek is one week of the roadmap.
type RoadmapWeek struct {
	Week          int
	Phase         string
	StartsOn      string // filled when the engagement has a start date
	Objective     string
	KeyActivities string
	Deliverables  string
	KpiFocus      string
	Ritual        string
}
