package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/see/internal/ports/primary"
	"github.com/example/see/internal/ports/secondary"
)

func TestRiskRegister(t *testing.T) {
	store := newTestStore(t)
	store.seedEngagement(t, "ENG-001", "ACTIVE", "")
	service := NewRiskService(store.engagements, store.risks, zap.NewNop())
	ctx := context.Background()

	low, err := service.CreateRisk(ctx, primary.CreateRiskRequest{EngagementID: "ENG-001", Description: "Rotación de operadores", Probability: 2, Impact: 2})
	require.NoError(t, err)
	assert.Equal(t, 4, low.Score)
	assert.Equal(t, "LOW", low.Level)
	assert.Equal(t, "OPEN", low.Status)

	high, err := service.CreateRisk(ctx, primary.CreateRiskRequest{EngagementID: "ENG-001", Description: "Paro de contratistas", Probability: 7, Impact: 4.6})
	require.NoError(t, err)
	assert.Equal(t, 5, high.Probability)
	assert.Equal(t, 5, high.Impact)
	assert.Equal(t, "HIGH", high.Level)

	list, err := service.ListRisks(ctx, "ENG-001")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, high.ID, list[0].ID)

	updated, err := service.UpdateRisk(ctx, primary.UpdateRiskRequest{RiskID: low.ID, Impact: 5, Status: "mitigating"})
	require.NoError(t, err)
	assert.Equal(t, 10, updated.Score)
	assert.Equal(t, "MEDIUM", updated.Level)
	assert.Equal(t, "MITIGATING", updated.Status)
	assert.Equal(t, 2, updated.Probability)

	require.NoError(t, service.DeleteRisk(ctx, high.ID))
	assert.ErrorIs(t, service.DeleteRisk(ctx, high.ID), secondary.ErrNotFound)
}

func TestCreateRisk_Invalid(t *testing.T) {
	store := newTestStore(t)
	store.seedEngagement(t, "ENG-001", "ACTIVE", "")
	service := NewRiskService(store.engagements, store.risks, zap.NewNop())
	ctx := context.Background()

	_, err := service.CreateRisk(ctx, primary.CreateRiskRequest{EngagementID: "ENG-001"})
	assert.ErrorIs(t, err, primary.ErrInvalidInput)
	_, err = service.CreateRisk(ctx, primary.CreateRiskRequest{EngagementID: "ENG-001", Description: "x", Status: "ACCEPTED"})
	assert.ErrorIs(t, err, primary.ErrInvalidInput)
	_, err = service.CreateRisk(ctx, primary.CreateRiskRequest{EngagementID: "ENG-001", Description: "x", ReviewDate: "mañana"})
	assert.ErrorIs(t, err, primary.ErrInvalidInput)
	_, err = service.CreateRisk(ctx, primary.CreateRiskRequest{EngagementID: "ENG-404", Description: "x"})
	assert.ErrorIs(t, err, secondary.ErrNotFound)
}
