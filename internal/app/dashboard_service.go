package app

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/example/see/internal/core/governance"
	"github.com/example/see/internal/core/kpi"
	"github.com/example/see/internal/core/risk"
	"github.com/example/see/internal/core/weekly"
	"github.com/example/see/internal/ports/primary"
)

// Dashboard limits.
const (
	dashboardTopInitiatives = 5
	dashboardLatestWeekly   = 6
	dashboardUpcomingDays   = 14
)

// DashboardServices are the services the dashboard reads from.
type DashboardServices struct {
	Engagements primary.EngagementService
	Wizard      primary.WizardService
	DataRoom    primary.DataRoomService
	Kpis        primary.KpiService
	Initiatives primary.InitiativeService
	Risks       primary.RiskService
	Governance  primary.GovernanceService
	Surveys     primary.SurveyService
	Nps         primary.NpsService
	Weekly      primary.WeeklyReportService
}

// DashboardServiceImpl implements the DashboardService interface.
type DashboardServiceImpl struct {
	svc    DashboardServices
	logger *zap.Logger
	now    func() time.Time
}

// NewDashboardService creates a new DashboardService with injected dependencies.
func NewDashboardService(svc DashboardServices, logger *zap.Logger) *DashboardServiceImpl {
	return &DashboardServiceImpl{svc: svc, logger: logger, now: time.Now}
}

// GetDashboard loads every section concurrently. Each section writes its own
// fields; the first failure cancels the rest.
func (s *DashboardServiceImpl) GetDashboard(ctx context.Context, engagementID, periodKey string) (*primary.Dashboard, error) {
	today := s.now()
	if periodKey == "" {
		periodKey = kpi.CurrentMonthKey(today)
	}
	if !kpi.ValidMonthKey(periodKey) {
		return nil, invalidInput("invalid period %q: want YYYY-MM", periodKey)
	}
	eng, err := s.svc.Engagements.GetEngagement(ctx, engagementID)
	if err != nil {
		return nil, err
	}

	d := &primary.Dashboard{Engagement: eng, PeriodKey: periodKey}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		d.Wizard, err = s.svc.Wizard.GetOverview(ctx, engagementID)
		return err
	})
	g.Go(func() (err error) {
		d.DataRoom, err = s.svc.DataRoom.GetDataRoom(ctx, engagementID)
		return err
	})
	g.Go(func() error {
		card, err := s.svc.Kpis.GetScorecard(ctx, engagementID, periodKey, kpi.GlobalScope)
		if err != nil {
			return err
		}
		d.KpiCount = len(card.Rows)
		d.NoDataKpis = card.NoData
		for _, row := range card.Rows {
			if row.Status == string(kpi.StatusRed) {
				d.RedKpis = append(d.RedKpis, row)
			}
		}
		return nil
	})
	g.Go(func() error {
		initiatives, err := s.svc.Initiatives.ListInitiatives(ctx, primary.InitiativeFilters{EngagementID: engagementID})
		if err != nil {
			return err
		}
		d.InitiativeCount = len(initiatives)
		if len(initiatives) > dashboardTopInitiatives {
			initiatives = initiatives[:dashboardTopInitiatives]
		}
		d.TopInitiatives = initiatives
		return nil
	})
	g.Go(func() error {
		risks, err := s.svc.Risks.ListRisks(ctx, engagementID)
		if err != nil {
			return err
		}
		d.RiskCount = len(risks)
		for _, r := range risks {
			if r.Level == risk.LevelHigh && r.Status != risk.StatusClosed {
				d.HighRisks = append(d.HighRisks, r)
			}
		}
		return nil
	})
	g.Go(func() error {
		actions, err := s.svc.Governance.ListActions(ctx, engagementID, "", today)
		if err != nil {
			return err
		}
		for _, a := range actions {
			switch {
			case a.Overdue:
				d.OverdueActions = append(d.OverdueActions, a)
			case governance.IsUpcoming(a.Status, a.DueDate, today, dashboardUpcomingDays):
				d.UpcomingActions = append(d.UpcomingActions, a)
			}
		}
		return nil
	})
	g.Go(func() error {
		decisions, err := s.svc.Governance.ListDecisions(ctx, engagementID)
		if err != nil {
			return err
		}
		for _, dec := range decisions {
			if dec.Status == governance.DecisionProposed {
				d.OpenDecisionCount++
			}
		}
		return nil
	})
	g.Go(func() (err error) {
		d.SurveyAverages, err = s.svc.Surveys.GetAverages(ctx, engagementID)
		return err
	})
	g.Go(func() (err error) {
		d.Nps, err = s.svc.Nps.GetMetrics(ctx, engagementID)
		return err
	})
	g.Go(func() error {
		reports, err := s.svc.Weekly.ListReports(ctx, primary.WeeklyReportFilters{EngagementID: engagementID, Limit: dashboardLatestWeekly})
		if err != nil {
			return err
		}
		d.LatestWeekly = reports
		for _, r := range reports {
			if r.Status == weekly.StatusSubmitted && r.Semaphore == weekly.Red {
				d.RedWeeklyReports++
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("dashboard aggregation failed", zap.String("engagement_id", engagementID), zap.Error(err))
		return nil, err
	}
	return d, nil
}

var _ primary.DashboardService = (*DashboardServiceImpl)(nil)
