package primary

import "context"

// ReportService defines the primary port for generated documents.
type ReportService interface {
	// EngagementReportPDF renders the final engagement report.
	EngagementReportPDF(ctx context.Context, engagementID string) ([]byte, error)

	// EngagementReportText renders the final report as plain text.
	EngagementReportText(ctx context.Context, engagementID string) (string, error)

	// CheckinSummaryPDF renders the check-in summary of a period.
	CheckinSummaryPDF(ctx context.Context, engagementID, scopeKey, periodKey string) ([]byte, error)

	// WeeklyReportPDF renders one weekly site report.
	WeeklyReportPDF(ctx context.Context, reportID string) ([]byte, error)

	// OpsDataPackPDF renders the month's weekly site reports as the
	// operations data pack.
	OpsDataPackPDF(ctx context.Context, engagementID, periodKey string) ([]byte, error)
}
