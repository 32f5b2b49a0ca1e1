package app

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/see/internal/ports/primary"
	"github.com/example/see/internal/ports/secondary"
)

func TestGetDashboard(t *testing.T) {
	store := newTestStore(t)
	store.seedEngagement(t, "ENG-001", "ACTIVE", "")
	store.seedKpi(t, "KPI-001", "ENG-001", "Margen", "FINANCIAL", "HIGHER_IS_BETTER", 30)
	store.seedKpi(t, "KPI-002", "ENG-001", "Ventas", "CUSTOMER", "HIGHER_IS_BETTER", 100)
	svc := store.services(time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()

	_, err := svc.dataroom.InitDataRoom(ctx, "ENG-001")
	require.NoError(t, err)
	_, err = svc.kpis.RecordValues(ctx, primary.RecordValuesRequest{
		EngagementID: "ENG-001", PeriodKey: "2024-06",
		Values: []primary.KpiValueInput{{KpiID: "KPI-001", Raw: "25"}},
	})
	require.NoError(t, err)
	for _, title := range []string{"Uno", "Dos", "Tres", "Cuatro", "Cinco", "Seis"} {
		_, err := svc.initiatives.CreateInitiative(ctx, primary.CreateInitiativeRequest{EngagementID: "ENG-001", Title: title})
		require.NoError(t, err)
	}
	_, err = svc.risks.CreateRisk(ctx, primary.CreateRiskRequest{EngagementID: "ENG-001", Description: "Paro de contratistas", Probability: 5, Impact: 5})
	require.NoError(t, err)
	_, err = svc.risks.CreateRisk(ctx, primary.CreateRiskRequest{EngagementID: "ENG-001", Description: "Lluvias", Probability: 2, Impact: 2})
	require.NoError(t, err)
	for _, a := range []primary.CreateActionRequest{
		{EngagementID: "ENG-001", Task: "Cerrar presupuesto", DueDate: "2024-06-01"},
		{EngagementID: "ENG-001", Task: "Comité mensual", DueDate: "2024-06-20"},
		{EngagementID: "ENG-001", Task: "Kickoff", DueDate: "2024-05-01", Status: "DONE"},
		{EngagementID: "ENG-001", Task: "Plan anual", DueDate: "2024-12-01"},
	} {
		_, err := svc.governance.CreateAction(ctx, a)
		require.NoError(t, err)
	}
	_, err = svc.governance.CreateDecision(ctx, primary.CreateDecisionRequest{EngagementID: "ENG-001", Decision: "Externalizar mantención"})
	require.NoError(t, err)

	faena, err := svc.weekly.CreateFaena(ctx, primary.CreateFaenaRequest{EngagementID: "ENG-001", Name: "Faena Norte"})
	require.NoError(t, err)
	link, err := svc.weekly.CreateLink(ctx, primary.CreateWeeklyLinkRequest{AdminToken: "admin-secret", FaenaID: faena.ID, WeekStart: "2024-06-10"})
	require.NoError(t, err)
	_, err = svc.weekly.Submit(ctx, primary.SubmitWeeklyReportRequest{Token: link.Token, Payload: json.RawMessage(`{"semaforo":"RED"}`)})
	require.NoError(t, err)

	d, err := svc.dashboard.GetDashboard(ctx, "ENG-001", "")
	require.NoError(t, err)
	assert.Equal(t, "2024-06", d.PeriodKey)
	assert.Equal(t, "Minera ENG-001", d.Engagement.CompanyName)
	require.NotNil(t, d.Wizard)
	assert.Equal(t, 22, d.DataRoom.Total)
	assert.Equal(t, 2, d.KpiCount)
	require.Len(t, d.RedKpis, 1)
	assert.Equal(t, "KPI-001", d.RedKpis[0].Kpi.ID)
	assert.Equal(t, 1, d.NoDataKpis)
	assert.Equal(t, 6, d.InitiativeCount)
	assert.Len(t, d.TopInitiatives, 5)
	assert.Equal(t, 2, d.RiskCount)
	require.Len(t, d.HighRisks, 1)
	assert.Equal(t, "Paro de contratistas", d.HighRisks[0].Description)
	require.Len(t, d.OverdueActions, 1)
	assert.Equal(t, "Cerrar presupuesto", d.OverdueActions[0].Task)
	require.Len(t, d.UpcomingActions, 1)
	assert.Equal(t, "Comité mensual", d.UpcomingActions[0].Task)
	assert.Equal(t, 1, d.OpenDecisionCount)
	assert.Equal(t, 0, d.SurveyAverages.Count)
	assert.Equal(t, 0, d.Nps.Total)
	require.Len(t, d.LatestWeekly, 1)
	assert.Equal(t, 1, d.RedWeeklyReports)
}

func TestGetDashboard_Errors(t *testing.T) {
	store := newTestStore(t)
	svc := store.services(time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()

	_, err := svc.dashboard.GetDashboard(ctx, "ENG-404", "2024-06")
	assert.ErrorIs(t, err, secondary.ErrNotFound)
	_, err = svc.dashboard.GetDashboard(ctx, "ENG-404", "junio")
	assert.ErrorIs(t, err, primary.ErrInvalidInput)
}
