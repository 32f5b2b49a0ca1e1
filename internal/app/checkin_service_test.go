package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/see/internal/ports/primary"
	"github.com/example/see/internal/ports/secondary"
)

type checkinFixture struct {
	store       *testStore
	service     *CheckinServiceImpl
	kpis        *KpiServiceImpl
	initiatives *InitiativeServiceImpl
}

func newTestCheckinService(t *testing.T) *checkinFixture {
	t.Helper()
	store := newTestStore(t)
	store.seedEngagement(t, "ENG-001", "ACTIVE", "")
	store.seedKpi(t, "KPI-001", "ENG-001", "Margen", "FINANCIAL", "HIGHER_IS_BETTER", 30)
	store.seedKpi(t, "KPI-002", "ENG-001", "Accidentes", "INTERNAL_PROCESS", "LOWER_IS_BETTER", 0)

	now := func() time.Time { return time.Date(2024, 6, 30, 18, 0, 0, 0, time.UTC) }
	kpis := NewKpiService(store.engagements, store.kpis, store.kpiValues, store.accounts, nil, zap.NewNop())
	kpis.now = now
	initiatives := NewInitiativeService(store.engagements, store.initiatives, store.kpis, store.accounts, store.progress, zap.NewNop())
	initiatives.now = now

	return &checkinFixture{
		store:       store,
		service:     NewCheckinService(store.engagements, store.progress, store.accounts, kpis, initiatives, zap.NewNop()),
		kpis:        kpis,
		initiatives: initiatives,
	}
}

func TestCheckinStatus(t *testing.T) {
	f := newTestCheckinService(t)
	ctx := context.Background()

	status, err := f.service.GetStatus(ctx, "ENG-001", "", "2024-06")
	require.NoError(t, err)
	assert.Equal(t, "GLOBAL", status.ScopeKey)
	assert.Equal(t, 2, status.KpisTotal)
	assert.Equal(t, 0, status.KpisWithValue)
	assert.False(t, status.KpiStepDone)
	require.Len(t, status.Steps, 4)
	assert.Equal(t, "checkin-initiatives:GLOBAL:2024-06", status.Steps[0].Key)
	for _, step := range status.Steps {
		assert.Equal(t, "PENDING", step.Status)
	}

	_, err = f.kpis.RecordValues(ctx, primary.RecordValuesRequest{
		EngagementID: "ENG-001", PeriodKey: "2024-06",
		Values: []primary.KpiValueInput{{KpiID: "KPI-001", Raw: "32"}, {KpiID: "KPI-002", Raw: "0"}},
	})
	require.NoError(t, err)
	first, err := f.initiatives.CreateInitiative(ctx, primary.CreateInitiativeRequest{EngagementID: "ENG-001", Title: "Renegociar contratos"})
	require.NoError(t, err)
	_, err = f.initiatives.CreateInitiative(ctx, primary.CreateInitiativeRequest{EngagementID: "ENG-001", Title: "Plan de seguridad"})
	require.NoError(t, err)
	_, err = f.initiatives.Checkin(ctx, primary.InitiativeCheckinRequest{
		EngagementID: "ENG-001", PeriodKey: "2024-06",
		Items: []primary.InitiativeCheckinItem{{InitiativeID: first.ID, ProgressPct: f64(40)}},
	})
	require.NoError(t, err)
	require.NoError(t, f.service.SetStepStatus(ctx, "ENG-001", "datapack-ops", "", "2024-06", "in_progress"))

	status, err = f.service.GetStatus(ctx, "ENG-001", "GLOBAL", "2024-06")
	require.NoError(t, err)
	assert.Equal(t, 2, status.KpisWithValue)
	assert.True(t, status.KpiStepDone)
	assert.Equal(t, 2, status.InitiativesTotal)
	assert.Equal(t, 1, status.InitiativesUpdated)
	assert.True(t, status.InitiativesStepDone)
	assert.Equal(t, "IN_PROGRESS", status.Steps[2].Status)

	other, err := f.service.GetStatus(ctx, "ENG-001", "UNIT:FAENA-001", "2024-06")
	require.NoError(t, err)
	assert.Equal(t, 0, other.KpisWithValue, "values are per scope")
}

func TestCheckinSummary(t *testing.T) {
	f := newTestCheckinService(t)
	ctx := context.Background()

	first, err := f.initiatives.CreateInitiative(ctx, primary.CreateInitiativeRequest{EngagementID: "ENG-001", Title: "Renegociar contratos"})
	require.NoError(t, err)
	_, err = f.initiatives.CreateInitiative(ctx, primary.CreateInitiativeRequest{EngagementID: "ENG-001", Title: "Plan de seguridad"})
	require.NoError(t, err)
	_, err = f.initiatives.Checkin(ctx, primary.InitiativeCheckinRequest{
		EngagementID: "ENG-001", PeriodKey: "2024-06",
		Items: []primary.InitiativeCheckinItem{{InitiativeID: first.ID, ProgressPct: f64(40), Notes: "Dos contratos cerrados"}},
	})
	require.NoError(t, err)

	summary, err := f.service.GetSummary(ctx, "ENG-001", "", "2024-06")
	require.NoError(t, err)
	assert.Equal(t, "Minera ENG-001", summary.Engagement.CompanyName)
	assert.Len(t, summary.Scorecard.Rows, 2)
	assert.Equal(t, "2024-06-30T18:00:00Z", summary.SavedAt)
	require.Len(t, summary.Initiatives, 2)

	var withSnapshot, without int
	for _, row := range summary.Initiatives {
		if row.Snapshot == nil {
			without++
			continue
		}
		withSnapshot++
		assert.Equal(t, "Dos contratos cerrados", row.Snapshot.Notes)
	}
	assert.Equal(t, 1, withSnapshot)
	assert.Equal(t, 1, without)
}

func TestCheckin_Invalid(t *testing.T) {
	f := newTestCheckinService(t)
	ctx := context.Background()

	_, err := f.service.GetStatus(ctx, "ENG-001", "", "2024-6")
	assert.ErrorIs(t, err, primary.ErrInvalidInput)
	_, err = f.service.GetStatus(ctx, "ENG-001", "../etc", "2024-06")
	assert.ErrorIs(t, err, primary.ErrInvalidInput)
	_, err = f.service.GetStatus(ctx, "ENG-404", "", "2024-06")
	assert.ErrorIs(t, err, secondary.ErrNotFound)

	err = f.service.SetStepStatus(ctx, "ENG-001", "checkin-kpis", "", "2024-06", "DONE")
	require.ErrorIs(t, err, primary.ErrInvalidInput)
	assert.Equal(t, `unknown check-in step "checkin-kpis" (use checkin-initiatives, checkin-summary, datapack-ops, datapack-exec)`, err.Error())
	err = f.service.SetStepStatus(ctx, "ENG-001", "checkin-summary", "", "2024-06", "FINISHED")
	assert.ErrorIs(t, err, primary.ErrInvalidInput)
}

func TestCheckin_ScopeIsAnAccount(t *testing.T) {
	f := newTestCheckinService(t)
	f.store.seedAccount(t, "ACC-001", "ENG-001", "Mall Norte")
	ctx := context.Background()

	err := f.service.SetStepStatus(ctx, "ENG-001", "datapack-ops", "norte", "2024-06", "DONE")
	require.ErrorIs(t, err, primary.ErrInvalidInput)
	require.NoError(t, f.service.SetStepStatus(ctx, "ENG-001", "datapack-ops", "ACC-001", "2024-06", "DONE"))

	first, err := f.initiatives.CreateInitiative(ctx, primary.CreateInitiativeRequest{EngagementID: "ENG-001", Title: "Renegociar contratos"})
	require.NoError(t, err)
	items := []primary.InitiativeCheckinItem{{InitiativeID: first.ID, ProgressPct: f64(20)}}

	_, err = f.initiatives.Checkin(ctx, primary.InitiativeCheckinRequest{EngagementID: "ENG-001", PeriodKey: "2024-06", ScopeKey: "ACC-404", Items: items})
	require.ErrorIs(t, err, primary.ErrInvalidInput)
	assert.Equal(t, `unknown scope "ACC-404": use GLOBAL or an account ID`, err.Error())

	checkin, err := f.initiatives.Checkin(ctx, primary.InitiativeCheckinRequest{EngagementID: "ENG-001", PeriodKey: "2024-06", ScopeKey: "ACC-001", Items: items})
	require.NoError(t, err)
	assert.Equal(t, "ACC-001", checkin.ScopeKey)

	status, err := f.service.GetStatus(ctx, "ENG-001", "ACC-001", "2024-06")
	require.NoError(t, err)
	assert.Equal(t, 1, status.InitiativesUpdated)
	assert.Equal(t, "DONE", status.Steps[2].Status)
}
