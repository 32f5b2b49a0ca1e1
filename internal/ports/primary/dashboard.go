package primary

import "context"

// DashboardService defines the primary port for the engagement dashboard.
type DashboardService interface {
	// GetDashboard aggregates every area of an engagement for a period.
	// An empty period means the current month.
	GetDashboard(ctx context.Context, engagementID, periodKey string) (*Dashboard, error)
}

// Dashboard is the one-page engagement status.
type Dashboard struct {
	Engagement        *Engagement
	PeriodKey         string
	Wizard            *WizardOverview
	DataRoom          *DataRoom
	KpiCount          int
	RedKpis           []*ScorecardRow
	NoDataKpis        int
	InitiativeCount   int
	TopInitiatives    []*Initiative
	RiskCount         int
	HighRisks         []*Risk
	OverdueActions    []*ActionItem
	UpcomingActions   []*ActionItem
	SurveyAverages    *SurveyAverages
	Nps               *NpsMetrics
	LatestWeekly      []*WeeklyReport
	RedWeeklyReports  int
	OpenDecisionCount int
}
