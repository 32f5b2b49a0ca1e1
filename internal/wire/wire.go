// Package wire provides dependency injection for the see application.
// Services are built once, lazily, from the settings file.
package wire

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/example/see/internal/adapters/mail"
	"github.com/example/see/internal/adapters/pdf"
	"github.com/example/see/internal/adapters/sqlite"
	"github.com/example/see/internal/adapters/xlsx"
	"github.com/example/see/internal/app"
	"github.com/example/see/internal/config"
	"github.com/example/see/internal/db"
	"github.com/example/see/internal/httpapi"
	"github.com/example/see/internal/logging"
	"github.com/example/see/internal/ports/primary"
	"github.com/example/see/internal/ports/secondary"
)

// Options select the settings file and log verbosity. Set them with
// Configure before the first lookup.
type Options struct {
	ConfigPath string
	Verbose    bool
}

// App holds every primary service plus the shared infrastructure.
type App struct {
	Config *config.Config
	Logger *zap.Logger
	DB     *sql.DB

	Engagements primary.EngagementService
	Wizard      primary.WizardService
	Strategy    primary.StrategyService
	DataRoom    primary.DataRoomService
	Accounts    primary.AccountService
	Kpis        primary.KpiService
	Initiatives primary.InitiativeService
	Roadmap     primary.RoadmapService
	Governance  primary.GovernanceService
	Risks       primary.RiskService
	Surveys     primary.SurveyService
	Nps         primary.NpsService
	Weekly      primary.WeeklyReportService
	Checkin     primary.CheckinService
	Dashboard   primary.DashboardService
	Reports     primary.ReportService
}

var (
	opts     Options
	instance *App
	initErr  error
	once     sync.Once
)

// Configure sets the options used when the application is first built.
func Configure(o Options) {
	opts = o
}

// Get returns the singleton application, building it on first use.
func Get() (*App, error) {
	once.Do(func() {
		instance, initErr = initApp(opts)
	})
	return instance, initErr
}

// Close flushes the logger and closes the database, if they were opened.
func Close() {
	if instance == nil {
		return
	}
	_ = instance.Logger.Sync()
	_ = instance.DB.Close()
}

// ConfigPath resolves the settings file: explicit path, then SEE_CONFIG,
// then the default under the see home directory.
func ConfigPath(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if env := os.Getenv("SEE_CONFIG"); env != "" {
		return env, nil
	}
	return config.DefaultPath()
}

// initApp loads settings, opens the database and builds the services.
// This is called once via sync.Once.
func initApp(o Options) (*App, error) {
	path, err := ConfigPath(o.ConfigPath)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Logging, o.Verbose)
	if err != nil {
		return nil, err
	}

	database, err := db.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	mailer, err := mail.New(cfg.Mail, logger.Named("mail"))
	if err != nil {
		database.Close()
		return nil, err
	}

	logger.Debug("application initialized",
		zap.String("config", path),
		zap.String("database", cfg.Database.Path),
		zap.Bool("mail", cfg.Mail.Enabled))
	return Build(cfg, logger, database, mailer), nil
}

// Build wires every service over an open database. The mailer is injected
// so tests can capture outgoing mail.
func Build(cfg *config.Config, logger *zap.Logger, database *sql.DB, mailer secondary.Mailer) *App {
	logWriter := sqlite.NewLogWriterAdapter(database)

	engagementRepo := sqlite.NewEngagementRepository(database, logWriter)
	progressRepo := sqlite.NewWizardProgressRepository(database)
	kpiRepo := sqlite.NewKpiRepository(database, logWriter)
	accountRepo := sqlite.NewAccountRepository(database, logWriter)

	sheets := xlsx.NewWriter()
	renderer := pdf.NewRenderer()

	a := &App{Config: cfg, Logger: logger, DB: database}

	a.Engagements = app.NewEngagementService(engagementRepo, sqlite.NewAuditLogRepository(database), logger.Named("engagement"))
	a.Wizard = app.NewWizardService(engagementRepo, progressRepo)
	a.Strategy = app.NewStrategyService(engagementRepo,
		sqlite.NewStrategyRepository(database, logWriter),
		sqlite.NewSwotRepository(database, logWriter))
	a.DataRoom = app.NewDataRoomService(engagementRepo, sqlite.NewDataRoomRepository(database, logWriter), logger.Named("dataroom"))
	a.Accounts = app.NewAccountService(engagementRepo, accountRepo,
		sqlite.NewUnitEconomicsRepository(database, logWriter), logger.Named("account"))
	a.Kpis = app.NewKpiService(engagementRepo, kpiRepo, sqlite.NewKpiValueRepository(database), accountRepo, sheets, logger.Named("kpi"))
	a.Initiatives = app.NewInitiativeService(engagementRepo,
		sqlite.NewInitiativeRepository(database, logWriter), kpiRepo, accountRepo, progressRepo, logger.Named("initiative"))
	a.Roadmap = app.NewRoadmapService(engagementRepo, sqlite.NewRoadmapRepository(database), sheets, logger.Named("roadmap"))
	a.Governance = app.NewGovernanceService(engagementRepo,
		sqlite.NewActionItemRepository(database, logWriter),
		sqlite.NewDecisionRepository(database, logWriter),
		sqlite.NewRaciRepository(database, logWriter),
		logger.Named("governance"))
	a.Risks = app.NewRiskService(engagementRepo, sqlite.NewRiskRepository(database, logWriter), logger.Named("risk"))
	a.Surveys = app.NewSurveyService(engagementRepo, sqlite.NewSurveyRepository(database), logger.Named("survey"))
	a.Nps = app.NewNpsService(engagementRepo, sqlite.NewNpsRepository(database, logWriter), mailer,
		app.NpsOptions{
			BaseURL:       cfg.Server.BaseURL,
			ExpiresInDays: cfg.NPS.InviteExpiresInDays,
		}, logger.Named("nps"))
	a.Weekly = app.NewWeeklyReportService(engagementRepo,
		sqlite.NewFaenaRepository(database, logWriter),
		sqlite.NewWeeklyReportRepository(database, logWriter),
		app.WeeklyOptions{
			BaseURL:       cfg.Server.BaseURL,
			AdminToken:    cfg.Server.AdminToken,
			ExpiresInDays: cfg.WeeklyReport.ExpiresInDays,
		}, logger.Named("weekly"))
	a.Checkin = app.NewCheckinService(engagementRepo, progressRepo, accountRepo, a.Kpis, a.Initiatives, logger.Named("checkin"))
	a.Dashboard = app.NewDashboardService(app.DashboardServices{
		Engagements: a.Engagements,
		Wizard:      a.Wizard,
		DataRoom:    a.DataRoom,
		Kpis:        a.Kpis,
		Initiatives: a.Initiatives,
		Risks:       a.Risks,
		Governance:  a.Governance,
		Surveys:     a.Surveys,
		Nps:         a.Nps,
		Weekly:      a.Weekly,
	}, logger.Named("dashboard"))
	a.Reports = app.NewReportService(app.ReportServices{
		Engagements: a.Engagements,
		Strategy:    a.Strategy,
		Kpis:        a.Kpis,
		Initiatives: a.Initiatives,
		Roadmap:     a.Roadmap,
		Governance:  a.Governance,
		Risks:       a.Risks,
		Checkin:     a.Checkin,
		Weekly:      a.Weekly,
	}, renderer, logger.Named("report"))

	return a
}

// HTTPServer builds the HTTP API over the application services.
func (a *App) HTTPServer() *httpapi.Server {
	return httpapi.NewServer(httpapi.Services{
		Engagements: a.Engagements,
		Accounts:    a.Accounts,
		Kpis:        a.Kpis,
		Roadmap:     a.Roadmap,
		Nps:         a.Nps,
		Weekly:      a.Weekly,
		Reports:     a.Reports,
	}, a.Logger.Named("http"))
}
