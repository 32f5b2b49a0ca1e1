package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/see/internal/ports/primary"
)

type mockDashboardService struct {
	dashboard *primary.Dashboard
	err       error
}

func (m *mockDashboardService) GetDashboard(ctx context.Context, engagementID, periodKey string) (*primary.Dashboard, error) {
	return m.dashboard, m.err
}

func intPtr(v int) *int { return &v }

func TestDashboardAdapter_Show(t *testing.T) {
	mock := &mockDashboardService{dashboard: &primary.Dashboard{
		Engagement: &primary.Engagement{ID: "ENG-001", CompanyName: "Minera Andina", Status: "ACTIVE"},
		PeriodKey:  "2024-06",
		Wizard:     &primary.WizardOverview{Steps: make([]primary.WizardStep, 10), Done: 4, CompletionPct: 40, NextStepKey: "step-5-kpis"},
		DataRoom:   &primary.DataRoom{CompletionPct: 55, Received: 11, Partial: 2, Pending: 7},
		KpiCount:   3,
		RedKpis: []*primary.ScorecardRow{
			{Kpi: &primary.Kpi{NameEs: "Margen EBITDA"}, Evaluated: f64(12), Target: f64(18), Status: "RED"},
		},
		InitiativeCount:  1,
		TopInitiatives:   []*primary.Initiative{{Title: "Renegociar contratos", Status: "IN_PROGRESS", ProgressPct: intPtr(40), PriorityScore: 6.5}},
		RiskCount:        2,
		HighRisks:        []*primary.Risk{{Description: "Paro portuario", Level: "HIGH", Score: 20}},
		OverdueActions:   []*primary.ActionItem{{Task: "Enviar data pack", DueDate: "2024-06-01", Overdue: true}},
		SurveyAverages:   &primary.SurveyAverages{Overall: f64(3.75), Count: 8},
		Nps:              &primary.NpsMetrics{Total: 4, Responded: 4, Invited: 6, NPS: 25},
		LatestWeekly:     []*primary.WeeklyReport{{WeekKey: "2024-W23", FaenaName: "Faena Norte", Status: "SUBMITTED", Semaphore: "RED"}},
		RedWeeklyReports: 1,
	}}
	var out bytes.Buffer

	d, err := NewDashboardAdapter(mock, &out, "es").Show(context.Background(), "ENG-001", "2024-06")
	require.NoError(t, err)
	assert.Equal(t, "ENG-001", d.Engagement.ID)

	got := out.String()
	for _, want := range []string{
		"ENG-001 · Minera Andina [ACTIVE] · 2024-06",
		"████░░░░░░  40%  (4/10 steps)  next: step-5-kpis",
		"KPIs: 3  (1 red, 0 no data)",
		"Margen EBITDA: 12 vs target 18",
		"Renegociar contratos",
		"[20] Paro portuario (-)",
		"Actions: 1 overdue, 0 due soon",
		"Survey average: 3.75 / 5 (8 answers)",
		"NPS: +25  (4 of 6 invited responded)",
		"2024-W23 RED Faena Norte",
	} {
		assert.Contains(t, got, want)
	}
}

func TestDashboardAdapter_Error(t *testing.T) {
	mock := &mockDashboardService{err: primary.ErrInvalidInput}
	var out bytes.Buffer

	_, err := NewDashboardAdapter(mock, &out, "es").Show(context.Background(), "ENG-001", "2024-13")
	assert.True(t, errors.Is(err, primary.ErrInvalidInput))
	assert.Empty(t, out.String())
}

type mockCheckinService struct {
	primary.CheckinService

	status  *primary.CheckinStatus
	summary *primary.CheckinSummary
}

func (m *mockCheckinService) GetStatus(ctx context.Context, engagementID, scopeKey, periodKey string) (*primary.CheckinStatus, error) {
	return m.status, nil
}

func (m *mockCheckinService) GetSummary(ctx context.Context, engagementID, scopeKey, periodKey string) (*primary.CheckinSummary, error) {
	return m.summary, nil
}

func TestCheckinAdapter_Status(t *testing.T) {
	mock := &mockCheckinService{status: &primary.CheckinStatus{
		EngagementID:     "ENG-001",
		PeriodKey:        "2024-06",
		ScopeKey:         "GLOBAL",
		KpisTotal:        4,
		KpisWithValue:    4,
		KpiStepDone:      true,
		InitiativesTotal: 3,
		Steps:            []primary.CheckinStep{{Step: "summary", Status: "PENDING"}},
	}}
	var out bytes.Buffer

	require.NoError(t, NewCheckinAdapter(mock, &out, "es").Status(context.Background(), "ENG-001", "", "2024-06"))
	got := out.String()
	assert.Contains(t, got, "✓ KPIs         4/4 with value")
	assert.Contains(t, got, "○ Initiatives  0/3 updated")
	assert.Contains(t, got, "summary")
}

func TestCheckinAdapter_Summary(t *testing.T) {
	mock := &mockCheckinService{summary: &primary.CheckinSummary{
		Engagement: &primary.Engagement{CompanyName: "Minera Andina"},
		Scorecard:  &primary.Scorecard{PeriodKey: "2024-06", ScopeKey: "GLOBAL", Green: 2, Red: 1},
		Initiatives: []*primary.InitiativeSummaryRow{
			{
				Initiative: &primary.Initiative{Title: "Renegociar contratos", Status: "IN_PROGRESS", ProgressPct: intPtr(20)},
				Snapshot:   &primary.InitiativeSnapshot{Status: "BLOCKED", ProgressPct: intPtr(40), Blockers: "Falta   firma\ndel cliente"},
			},
			{Initiative: &primary.Initiative{Title: "Piloto turnos", Status: "NOT_STARTED"}},
		},
		SavedAt: "2024-06-30T18:00:00Z",
	}}
	var out bytes.Buffer

	require.NoError(t, NewCheckinAdapter(mock, &out, "es").Summary(context.Background(), "ENG-001", "", "2024-06"))
	got := out.String()
	assert.Contains(t, got, "KPIs: 2 green, 1 red, 0 no data")
	assert.Contains(t, got, "BLOCKED")
	assert.Contains(t, got, "40%")
	assert.Contains(t, got, "Falta firma del cliente")
	assert.Contains(t, got, "Piloto turnos")
	assert.NotContains(t, got, "20%")
}
