package app

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/see/internal/adapters/sqlite"
	"github.com/example/see/internal/db"
)

// testStore wires the real SQLite repositories over an in-memory database.
// Services whose behaviour spans several tables are tested against it
// instead of hand-written mocks.
type testStore struct {
	db          *sql.DB
	engagements *sqlite.EngagementRepository
	progress    *sqlite.WizardProgressRepository
	kpis        *sqlite.KpiRepository
	kpiValues   *sqlite.KpiValueRepository
	initiatives *sqlite.InitiativeRepository
	roadmap     *sqlite.RoadmapRepository
	risks       *sqlite.RiskRepository
	accounts    *sqlite.AccountRepository
	economics   *sqlite.UnitEconomicsRepository
	actions     *sqlite.ActionItemRepository
	decisions   *sqlite.DecisionRepository
	raci        *sqlite.RaciRepository
	dataroom    *sqlite.DataRoomRepository
	surveys     *sqlite.SurveyRepository
	nps         *sqlite.NpsRepository
	faenas      *sqlite.FaenaRepository
	weekly      *sqlite.WeeklyReportRepository
	strategy    *sqlite.StrategyRepository
	swot        *sqlite.SwotRepository
	audit       *sqlite.AuditLogRepository
}

func newTestStore(t *testing.T) *testStore {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	testDB.SetMaxOpenConns(1)
	t.Cleanup(func() { testDB.Close() })

	_, err = testDB.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)
	_, err = testDB.Exec(db.GetSchemaSQL())
	require.NoError(t, err)

	logWriter := sqlite.NewLogWriterAdapter(testDB)
	return &testStore{
		db:          testDB,
		engagements: sqlite.NewEngagementRepository(testDB, logWriter),
		progress:    sqlite.NewWizardProgressRepository(testDB),
		kpis:        sqlite.NewKpiRepository(testDB, logWriter),
		kpiValues:   sqlite.NewKpiValueRepository(testDB),
		initiatives: sqlite.NewInitiativeRepository(testDB, logWriter),
		roadmap:     sqlite.NewRoadmapRepository(testDB),
		risks:       sqlite.NewRiskRepository(testDB, logWriter),
		accounts:    sqlite.NewAccountRepository(testDB, logWriter),
		economics:   sqlite.NewUnitEconomicsRepository(testDB, logWriter),
		actions:     sqlite.NewActionItemRepository(testDB, logWriter),
		decisions:   sqlite.NewDecisionRepository(testDB, logWriter),
		raci:        sqlite.NewRaciRepository(testDB, logWriter),
		dataroom:    sqlite.NewDataRoomRepository(testDB, logWriter),
		surveys:     sqlite.NewSurveyRepository(testDB),
		nps:         sqlite.NewNpsRepository(testDB, logWriter),
		faenas:      sqlite.NewFaenaRepository(testDB, logWriter),
		weekly:      sqlite.NewWeeklyReportRepository(testDB, logWriter),
		strategy:    sqlite.NewStrategyRepository(testDB, logWriter),
		swot:        sqlite.NewSwotRepository(testDB, logWriter),
		audit:       sqlite.NewAuditLogRepository(testDB),
	}
}

// seedEngagement inserts an engagement directly.
func (s *testStore) seedEngagement(t *testing.T, id, status, locale string) {
	t.Helper()
	if locale == "" {
		locale = "es"
	}
	_, err := s.db.Exec(
		"INSERT INTO engagements (id, company_name, name, status, locale) VALUES (?, ?, ?, ?, ?)",
		id, "Minera "+id, "Programa "+id, status, locale)
	require.NoError(t, err)
}

// seedAccount inserts an account-plan row directly.
func (s *testStore) seedAccount(t *testing.T, id, engagementID, name string) {
	t.Helper()
	_, err := s.db.Exec("INSERT INTO accounts (id, engagement_id, name) VALUES (?, ?, ?)", id, engagementID, name)
	require.NoError(t, err)
}

// seedKpi inserts a KPI directly.
func (s *testStore) seedKpi(t *testing.T, id, engagementID, name, perspective, direction string, target float64) {
	t.Helper()
	_, err := s.db.Exec(
		`INSERT INTO kpis (id, engagement_id, name_es, perspective, frequency, direction, basis, target_value)
		VALUES (?, ?, ?, ?, 'MONTHLY', ?, 'A', ?)`,
		id, engagementID, name, perspective, direction, target)
	require.NoError(t, err)
}

// testServices is every engagement service wired over one store with a
// fixed clock.
type testServices struct {
	engagements *EngagementServiceImpl
	wizard      *WizardServiceImpl
	strategy    *StrategyServiceImpl
	dataroom    *DataRoomServiceImpl
	kpis        *KpiServiceImpl
	initiatives *InitiativeServiceImpl
	roadmap     *RoadmapServiceImpl
	risks       *RiskServiceImpl
	accounts    *AccountServiceImpl
	governance  *GovernanceServiceImpl
	surveys     *SurveyServiceImpl
	nps         *NpsServiceImpl
	weekly      *WeeklyReportServiceImpl
	checkin     *CheckinServiceImpl
	dashboard   *DashboardServiceImpl
	reports     *ReportServiceImpl
	renderer    *mockDocumentRenderer
}

func (s *testStore) services(now time.Time) *testServices {
	clock := func() time.Time { return now }
	log := zap.NewNop()
	sheets := &mockSpreadsheetWriter{}

	svc := &testServices{
		engagements: NewEngagementService(s.engagements, s.audit, log),
		wizard:      NewWizardService(s.engagements, s.progress),
		strategy:    NewStrategyService(s.engagements, s.strategy, s.swot),
		dataroom:    NewDataRoomService(s.engagements, s.dataroom, log),
		kpis:        NewKpiService(s.engagements, s.kpis, s.kpiValues, s.accounts, sheets, log),
		initiatives: NewInitiativeService(s.engagements, s.initiatives, s.kpis, s.accounts, s.progress, log),
		roadmap:     NewRoadmapService(s.engagements, s.roadmap, sheets, log),
		risks:       NewRiskService(s.engagements, s.risks, log),
		accounts:    NewAccountService(s.engagements, s.accounts, s.economics, log),
		governance:  NewGovernanceService(s.engagements, s.actions, s.decisions, s.raci, log),
		surveys:     NewSurveyService(s.engagements, s.surveys, log),
		nps:         NewNpsService(s.engagements, s.nps, &mockMailer{}, NpsOptions{BaseURL: "https://see.example.com"}, log),
		weekly: NewWeeklyReportService(s.engagements, s.faenas, s.weekly,
			WeeklyOptions{BaseURL: "https://see.example.com", AdminToken: "admin-secret"}, log),
	}
	svc.kpis.now = clock
	svc.initiatives.now = clock
	svc.governance.now = clock
	svc.nps.now = clock
	svc.weekly.now = clock
	svc.checkin = NewCheckinService(s.engagements, s.progress, s.accounts, svc.kpis, svc.initiatives, log)
	svc.dashboard = NewDashboardService(DashboardServices{
		Engagements: svc.engagements,
		Wizard:      svc.wizard,
		DataRoom:    svc.dataroom,
		Kpis:        svc.kpis,
		Initiatives: svc.initiatives,
		Risks:       svc.risks,
		Governance:  svc.governance,
		Surveys:     svc.surveys,
		Nps:         svc.nps,
		Weekly:      svc.weekly,
	}, log)
	svc.dashboard.now = clock
	svc.renderer = &mockDocumentRenderer{}
	svc.reports = NewReportService(ReportServices{
		Engagements: svc.engagements,
		Strategy:    svc.strategy,
		Kpis:        svc.kpis,
		Initiatives: svc.initiatives,
		Roadmap:     svc.roadmap,
		Governance:  svc.governance,
		Risks:       svc.risks,
		Checkin:     svc.checkin,
		Weekly:      svc.weekly,
	}, svc.renderer, log)
	svc.reports.now = clock
	return svc
}
