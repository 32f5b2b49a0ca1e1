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

func newTestGovernanceService(t *testing.T) *GovernanceServiceImpl {
	t.Helper()
	store := newTestStore(t)
	store.seedEngagement(t, "ENG-001", "ACTIVE", "")
	service := NewGovernanceService(store.engagements, store.actions, store.decisions, store.raci, zap.NewNop())
	service.now = func() time.Time { return time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC) }
	return service
}

func TestActions(t *testing.T) {
	service := newTestGovernanceService(t)
	ctx := context.Background()

	for _, req := range []primary.CreateActionRequest{
		{EngagementID: "ENG-001", Task: "Sin fecha"},
		{EngagementID: "ENG-001", Task: "Vencida", DueDate: "2024-05-01", Status: "En curso"},
		{EngagementID: "ENG-001", Task: "Cerrada a tiempo", DueDate: "2024-04-01", Status: "Cerrada"},
		{EngagementID: "ENG-001", Task: "Futura", DueDate: "2024-06-01", Status: "Por iniciar"},
	} {
		_, err := service.CreateAction(ctx, req)
		require.NoError(t, err)
	}

	today := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	items, err := service.ListActions(ctx, "ENG-001", "", today)
	require.NoError(t, err)
	require.Len(t, items, 4)

	tasks := make([]string, len(items))
	for i, it := range items {
		tasks[i] = it.Task
	}
	assert.Equal(t, []string{"Cerrada a tiempo", "Vencida", "Futura", "Sin fecha"}, tasks)
	assert.False(t, items[0].Overdue, "done items are never overdue")
	assert.True(t, items[1].Overdue)
	assert.Equal(t, "IN_PROGRESS", items[1].Status)
	assert.False(t, items[2].Overdue)

	require.NoError(t, service.UpdateActionStatus(ctx, items[1].ID, "Bloqueada"))
	blocked, err := service.ListActions(ctx, "ENG-001", "blocked", today)
	require.NoError(t, err)
	require.Len(t, blocked, 1)
	assert.Equal(t, "Vencida", blocked[0].Task)

	assert.ErrorIs(t, service.UpdateActionStatus(ctx, items[1].ID, "tal vez"), primary.ErrInvalidInput)
	require.NoError(t, service.DeleteAction(ctx, items[1].ID))
	assert.ErrorIs(t, service.DeleteAction(ctx, items[1].ID), secondary.ErrNotFound)
}

func TestCreateAction_Refused(t *testing.T) {
	service := newTestGovernanceService(t)
	ctx := context.Background()

	_, err := service.CreateAction(ctx, primary.CreateActionRequest{EngagementID: "ENG-001", Task: " "})
	require.ErrorIs(t, err, primary.ErrInvalidInput)
	assert.Equal(t, "task is required", err.Error())

	_, err = service.CreateAction(ctx, primary.CreateActionRequest{EngagementID: "ENG-001", Task: "x", DueDate: "10/05/2024"})
	require.ErrorIs(t, err, primary.ErrInvalidInput)
	assert.Equal(t, `invalid due date "10/05/2024": want YYYY-MM-DD`, err.Error())
}

func TestDecisions(t *testing.T) {
	service := newTestGovernanceService(t)
	ctx := context.Background()

	first, err := service.CreateDecision(ctx, primary.CreateDecisionRequest{EngagementID: "ENG-001", Decision: "Tercerizar mantención", DecidedOn: "2024-04-02"})
	require.NoError(t, err)
	assert.Equal(t, "PROPOSED", first.Status)

	second, err := service.CreateDecision(ctx, primary.CreateDecisionRequest{EngagementID: "ENG-001", Decision: "Nuevo turno", Status: "Aprobada"})
	require.NoError(t, err)
	assert.Equal(t, "2024-05-10", second.DecidedOn)
	assert.Equal(t, "APPROVED", second.Status)

	list, err := service.ListDecisions(ctx, "ENG-001")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)

	require.NoError(t, service.UpdateDecisionStatus(ctx, first.ID, "postergada"))
	list, err = service.ListDecisions(ctx, "ENG-001")
	require.NoError(t, err)
	assert.Equal(t, "DEFERRED", list[1].Status)

	_, err = service.CreateDecision(ctx, primary.CreateDecisionRequest{EngagementID: "ENG-001", Decision: ""})
	assert.ErrorIs(t, err, primary.ErrInvalidInput)
	require.NoError(t, service.DeleteDecision(ctx, first.ID))
}

func TestRaci(t *testing.T) {
	service := newTestGovernanceService(t)
	ctx := context.Background()

	_, err := service.CreateRaciRow(ctx, primary.CreateRaciRequest{EngagementID: "ENG-001", Initiative: "Data pack", Responsible: "Ana"})
	require.ErrorIs(t, err, primary.ErrInvalidInput)
	assert.Equal(t, "RACI row needs a responsible (R) and an accountable (A)", err.Error())

	row, err := service.CreateRaciRow(ctx, primary.CreateRaciRequest{
		EngagementID: "ENG-001",
		Initiative:   "Data pack",
		Responsible:  "Ana",
		Accountable:  "Gerente de operaciones",
		Informed:     "Directorio",
	})
	require.NoError(t, err)

	rows, err := service.ListRaciRows(ctx, "ENG-001")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Directorio", rows[0].Informed)

	require.NoError(t, service.DeleteRaciRow(ctx, row.ID))
	assert.ErrorIs(t, service.DeleteRaciRow(ctx, row.ID), secondary.ErrNotFound)
}
