package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/see/internal/adapters/sqlite"
	"github.com/example/see/internal/ports/secondary"
)

func TestInitiativeRepository(t *testing.T) {
	testDB := setupTestDB(t)
	seedEngagement(t, testDB, "ENG-001", "")
	seedKpi(t, testDB, "KPI-001", "ENG-001", "Margen", "FINANCIAL", 10)
	repo := sqlite.NewInitiativeRepository(testDB, sqlite.NewLogWriterAdapter(testDB))
	ctx := context.Background()

	id, err := repo.GetNextID(ctx)
	require.NoError(t, err)
	require.Equal(t, "INIT-001", id)

	require.NoError(t, repo.Create(ctx, &secondary.InitiativeRecord{
		ID: id, EngagementID: "ENG-001", Title: "Pricing por contrato", KpiID: "KPI-001",
		Status: "NOT_STARTED", Impact: 4, Effort: 2, StartDate: "2024-02-01",
	}))

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Impact)
	assert.Equal(t, 0, got.Risk)
	assert.Nil(t, got.ProgressPct)

	progress := 40
	got.Status = "IN_PROGRESS"
	got.ProgressPct = &progress
	require.NoError(t, repo.Update(ctx, got))

	list, err := repo.List(ctx, secondary.InitiativeFilters{EngagementID: "ENG-001", Status: "IN_PROGRESS"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 40, *list[0].ProgressPct)

	entries, err := sqlite.NewAuditLogRepository(testDB).List(ctx, secondary.AuditLogFilters{EntityType: "initiative"})
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	// Deleting the KPI unlinks the initiative instead of removing it.
	_, err = testDB.Exec("DELETE FROM kpis WHERE id = 'KPI-001'")
	require.NoError(t, err)
	unlinked, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, unlinked.KpiID)
}

func TestRoadmapRepository(t *testing.T) {
	testDB := setupTestDB(t)
	seedEngagement(t, testDB, "ENG-001", "")
	repo := sqlite.NewRoadmapRepository(testDB)
	ctx := context.Background()

	weeks := make([]int, 20)
	for i := range weeks {
		weeks[i] = i + 1
	}
	created, err := repo.EnsureWeeks(ctx, "ENG-001", weeks)
	require.NoError(t, err)
	assert.Equal(t, 20, created)

	require.NoError(t, repo.Upsert(ctx, &secondary.RoadmapWeekRecord{
		EngagementID: "ENG-001", Week: 3, Objective: "Kickoff de KPIs",
	}))

	created, err = repo.EnsureWeeks(ctx, "ENG-001", weeks)
	require.NoError(t, err)
	assert.Zero(t, created)

	list, err := repo.List(ctx, "ENG-001")
	require.NoError(t, err)
	require.Len(t, list, 20)
	assert.Equal(t, 1, list[0].Week)
	assert.Equal(t, "Kickoff de KPIs", list[2].Objective)

	err = repo.Upsert(ctx, &secondary.RoadmapWeekRecord{EngagementID: "ENG-001", Week: 21})
	assert.Error(t, err)

	require.NoError(t, repo.DeleteAll(ctx, "ENG-001"))
	list, err = repo.List(ctx, "ENG-001")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRiskRepository_ListByScore(t *testing.T) {
	testDB := setupTestDB(t)
	seedEngagement(t, testDB, "ENG-001", "")
	repo := sqlite.NewRiskRepository(testDB, nil)
	ctx := context.Background()

	for _, r := range []struct {
		desc string
		p, i int
	}{{"bajo", 1, 2}, {"alto", 5, 4}, {"medio", 3, 3}} {
		id, err := repo.GetNextID(ctx)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, &secondary.RiskRecord{
			ID: id, EngagementID: "ENG-001", Description: r.desc, Probability: r.p, Impact: r.i, Status: "OPEN",
		}))
	}

	risks, err := repo.List(ctx, "ENG-001")
	require.NoError(t, err)
	require.Len(t, risks, 3)
	assert.Equal(t, "alto", risks[0].Description)
	assert.Equal(t, "medio", risks[1].Description)
	assert.Equal(t, "bajo", risks[2].Description)

	risks[0].Status = "MITIGATING"
	require.NoError(t, repo.Update(ctx, risks[0]))
	got, err := repo.GetByID(ctx, risks[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "MITIGATING", got.Status)
}

func TestGovernanceRepositories(t *testing.T) {
	testDB := setupTestDB(t)
	seedEngagement(t, testDB, "ENG-001", "")
	actions := sqlite.NewActionItemRepository(testDB, nil)
	decisions := sqlite.NewDecisionRepository(testDB, nil)
	raci := sqlite.NewRaciRepository(testDB, nil)
	ctx := context.Background()

	require.NoError(t, actions.Create(ctx, &secondary.ActionItemRecord{ID: "ACT-001", EngagementID: "ENG-001", Task: "sin fecha", Status: "TODO"}))
	require.NoError(t, actions.Create(ctx, &secondary.ActionItemRecord{ID: "ACT-002", EngagementID: "ENG-001", Task: "tarde", DueDate: "2024-03-10", Status: "TODO"}))
	require.NoError(t, actions.Create(ctx, &secondary.ActionItemRecord{ID: "ACT-003", EngagementID: "ENG-001", Task: "pronto", DueDate: "2024-03-01", Status: "DONE"}))

	list, err := actions.List(ctx, secondary.ActionItemFilters{EngagementID: "ENG-001"})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "pronto", list[0].Task)
	assert.Equal(t, "tarde", list[1].Task)
	assert.Equal(t, "sin fecha", list[2].Task)

	next, err := actions.GetNextID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ACT-004", next)

	require.NoError(t, decisions.Create(ctx, &secondary.DecisionRecord{
		ID: "DEC-001", EngagementID: "ENG-001", Decision: "Priorizar faena norte", Status: "PROPOSED", DecidedOn: "2024-02-01",
	}))
	d, err := decisions.GetByID(ctx, "DEC-001")
	require.NoError(t, err)
	d.Status = "APPROVED"
	require.NoError(t, decisions.Update(ctx, d))
	ds, err := decisions.List(ctx, "ENG-001")
	require.NoError(t, err)
	require.Len(t, ds, 1)
	assert.Equal(t, "APPROVED", ds[0].Status)

	require.NoError(t, raci.Create(ctx, &secondary.RaciRecord{
		ID: "RACI-001", EngagementID: "ENG-001", Initiative: "Pricing", Responsible: "Comercial", Accountable: "Gerente",
	}))
	rows, err := raci.List(ctx, "ENG-001")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	require.NoError(t, raci.Delete(ctx, "RACI-001"))
	assert.ErrorIs(t, raci.Delete(ctx, "RACI-001"), secondary.ErrNotFound)
}
