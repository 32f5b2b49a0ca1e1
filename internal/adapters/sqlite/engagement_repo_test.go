package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/see/internal/adapters/sqlite"
	"github.com/example/see/internal/ctxutil"
	"github.com/example/see/internal/ports/secondary"
)

func TestEngagementRepository_CRUD(t *testing.T) {
	testDB := setupTestDB(t)
	logWriter := sqlite.NewLogWriterAdapter(testDB)
	repo := sqlite.NewEngagementRepository(testDB, logWriter)
	ctx := ctxutil.WithActorID(context.Background(), "consultor@see.cl")

	id, err := repo.GetNextID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ENG-001", id)

	err = repo.Create(ctx, &secondary.EngagementRecord{
		ID:          id,
		CompanyName: "Minera Andes",
		Name:        "Diagnóstico 2024",
		Status:      "DRAFT",
		Locale:      "es",
		StartDate:   "2024-01-08",
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Minera Andes", got.CompanyName)
	assert.Equal(t, "2024-01-08", got.StartDate)
	assert.NotEmpty(t, got.CreatedAt)
	assert.Empty(t, got.ClosedAt)

	next, err := repo.GetNextID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ENG-002", next)

	got.Goals = "Ordenar la estrategia"
	require.NoError(t, repo.Update(ctx, got))

	require.NoError(t, repo.UpdateStatus(ctx, id, "ACTIVE"))
	require.NoError(t, repo.UpdateStatus(ctx, id, "CLOSED"))
	closed, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "CLOSED", closed.Status)
	assert.Equal(t, "Ordenar la estrategia", closed.Goals)
	assert.NotEmpty(t, closed.ClosedAt)

	entries, err := sqlite.NewAuditLogRepository(testDB).List(ctx, secondary.AuditLogFilters{EngagementID: id})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "update", entries[0].Action)
	assert.Equal(t, "ACTIVE", entries[0].OldValue)
	assert.Equal(t, "CLOSED", entries[0].NewValue)
	assert.Equal(t, "consultor@see.cl", entries[2].Actor)

	require.NoError(t, repo.Delete(ctx, id))
	_, err = repo.GetByID(ctx, id)
	assert.ErrorIs(t, err, secondary.ErrNotFound)
}

func TestEngagementRepository_NotFound(t *testing.T) {
	repo := sqlite.NewEngagementRepository(setupTestDB(t), nil)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "ENG-404")
	assert.ErrorIs(t, err, secondary.ErrNotFound)
	assert.ErrorIs(t, repo.UpdateStatus(ctx, "ENG-404", "ACTIVE"), secondary.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "ENG-404"), secondary.ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, &secondary.EngagementRecord{ID: "ENG-404", CompanyName: "x", Locale: "es"}), secondary.ErrNotFound)
}

func TestEngagementRepository_ListAndCount(t *testing.T) {
	testDB := setupTestDB(t)
	seedEngagement(t, testDB, "ENG-001", "ACTIVE")
	seedEngagement(t, testDB, "ENG-002", "DRAFT")
	seedEngagement(t, testDB, "ENG-003", "ACTIVE")
	repo := sqlite.NewEngagementRepository(testDB, nil)
	ctx := context.Background()

	all, err := repo.List(ctx, secondary.EngagementFilters{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	active, err := repo.List(ctx, secondary.EngagementFilters{Status: "ACTIVE"})
	require.NoError(t, err)
	assert.Len(t, active, 2)

	n, err := repo.CountByStatus(ctx, "ACTIVE")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestEngagementRepository_DeleteCascades(t *testing.T) {
	testDB := setupTestDB(t)
	seedEngagement(t, testDB, "ENG-001", "CLOSED")
	seedKpi(t, testDB, "KPI-001", "ENG-001", "Margen", "FINANCIAL", 10)
	repo := sqlite.NewEngagementRepository(testDB, nil)

	require.NoError(t, repo.Delete(context.Background(), "ENG-001"))

	var n int
	require.NoError(t, testDB.QueryRow("SELECT COUNT(*) FROM kpis").Scan(&n))
	assert.Zero(t, n)
}

func TestWizardProgressRepository_Upsert(t *testing.T) {
	testDB := setupTestDB(t)
	seedEngagement(t, testDB, "ENG-001", "")
	repo := sqlite.NewWizardProgressRepository(testDB)
	ctx := context.Background()

	_, err := repo.Get(ctx, "ENG-001", "step-1-data-room")
	assert.ErrorIs(t, err, secondary.ErrNotFound)

	require.NoError(t, repo.Upsert(ctx, &secondary.WizardProgressRecord{
		EngagementID: "ENG-001", StepKey: "step-1-data-room", Status: "IN_PROGRESS",
	}))
	require.NoError(t, repo.Upsert(ctx, &secondary.WizardProgressRecord{
		EngagementID: "ENG-001", StepKey: "step-1-data-room", Status: "DONE", Notes: `{"ok":true}`,
	}))

	got, err := repo.Get(ctx, "ENG-001", "step-1-data-room")
	require.NoError(t, err)
	assert.Equal(t, "DONE", got.Status)
	assert.Equal(t, `{"ok":true}`, got.Notes)

	all, err := repo.List(ctx, "ENG-001")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestStrategyAndSwotRepositories(t *testing.T) {
	testDB := setupTestDB(t)
	seedEngagement(t, testDB, "ENG-001", "")
	strategies := sqlite.NewStrategyRepository(testDB, nil)
	swot := sqlite.NewSwotRepository(testDB, nil)
	ctx := context.Background()

	_, err := strategies.Get(ctx, "ENG-001")
	assert.ErrorIs(t, err, secondary.ErrNotFound)

	require.NoError(t, strategies.Upsert(ctx, &secondary.StrategyRecord{EngagementID: "ENG-001", Vision: "v1"}))
	require.NoError(t, strategies.Upsert(ctx, &secondary.StrategyRecord{EngagementID: "ENG-001", Vision: "v2", Mission: "m"}))
	s, err := strategies.Get(ctx, "ENG-001")
	require.NoError(t, err)
	assert.Equal(t, "v2", s.Vision)
	assert.Equal(t, "m", s.Mission)

	for _, item := range []struct{ quadrant, text string }{
		{"THREAT", "Nuevo competidor"},
		{"STRENGTH", "Equipo técnico"},
		{"STRENGTH", "Marca"},
	} {
		id, err := swot.GetNextID(ctx)
		require.NoError(t, err)
		order, err := swot.NextSortOrder(ctx, "ENG-001", item.quadrant)
		require.NoError(t, err)
		require.NoError(t, swot.Create(ctx, &secondary.SwotItemRecord{
			ID: id, EngagementID: "ENG-001", Quadrant: item.quadrant, Text: item.text, SortOrder: order,
		}))
	}

	items, err := swot.List(ctx, "ENG-001")
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Equipo técnico", items[0].Text)
	assert.Equal(t, "Marca", items[1].Text)
	assert.Equal(t, 2, items[1].SortOrder)
	assert.Equal(t, "THREAT", items[2].Quadrant)

	require.NoError(t, swot.Delete(ctx, items[0].ID))
	assert.ErrorIs(t, swot.Delete(ctx, items[0].ID), secondary.ErrNotFound)
}
