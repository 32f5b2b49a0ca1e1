package app

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/see/internal/db"
	"github.com/example/see/internal/ports/primary"
)

func newTestSurveyService(t *testing.T) *SurveyServiceImpl {
	t.Helper()
	store := newTestStore(t)
	require.NoError(t, db.SeedQuestionSets(store.db))
	store.seedEngagement(t, "ENG-001", "ACTIVE", "")
	return NewSurveyService(store.engagements, store.surveys, zap.NewNop())
}

// internalSurvey answers every B1 item with score and fills the open block.
func internalSurvey(score string) map[string]string {
	answers := map[string]string{
		"B2.1": "Estandarizar reportes",
		"B2.2": "Perder el contrato principal",
		"B2.3": "Reportes manuales",
	}
	for i := 1; i <= 11; i++ {
		answers[fmt.Sprintf("B1.%d", i)] = score
	}
	return answers
}

func TestQuestionSets(t *testing.T) {
	service := newTestSurveyService(t)
	ctx := context.Background()

	sets, err := service.ListQuestionSets(ctx, true)
	require.NoError(t, err)
	require.Len(t, sets, 6)
	assert.Equal(t, "INTERVIEW", sets[0].Kind)

	set, err := service.GetQuestionSet(ctx, db.InternalSurveySetID)
	require.NoError(t, err)
	require.Len(t, set.Questions, 14)
	assert.Equal(t, "B1.1", set.Questions[0].Key)
	assert.Equal(t, "SCALE_1_5", set.Questions[0].Type)
}

func TestRecordAnswersAndAverages(t *testing.T) {
	service := newTestSurveyService(t)
	ctx := context.Background()

	stored, err := service.RecordAnswers(ctx, primary.RecordAnswersRequest{
		EngagementID: "ENG-001", SetID: db.InternalSurveySetID, Area: "Operaciones", Answers: internalSurvey("4"),
	})
	require.NoError(t, err)
	assert.Equal(t, 14, stored)

	_, err = service.RecordAnswers(ctx, primary.RecordAnswersRequest{
		EngagementID: "ENG-001", SetID: db.InternalSurveySetID, Area: "Comercial", Answers: internalSurvey("2"),
	})
	require.NoError(t, err)

	avg, err := service.GetAverages(ctx, "ENG-001")
	require.NoError(t, err)
	require.NotNil(t, avg.Overall)
	assert.InDelta(t, 3.0, *avg.Overall, 1e-9)
	assert.Equal(t, 22, avg.Count)
	require.Len(t, avg.ByArea, 2)
	assert.Equal(t, "Comercial", avg.ByArea[0].Area)
	assert.InDelta(t, 2.0, avg.ByArea[0].Average, 1e-9)

	answers, err := service.ListAnswers(ctx, "ENG-001", db.InternalSurveySetID)
	require.NoError(t, err)
	assert.Len(t, answers, 28)
}

func TestRecordAnswers_Invalid(t *testing.T) {
	service := newTestSurveyService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		answers map[string]string
		want    string
	}{
		{"out of scale", func() map[string]string { a := internalSurvey("4"); a["B1.3"] = "6"; return a }(), "question B1.3 expects a value from 1 to 5"},
		{"missing required", func() map[string]string { a := internalSurvey("4"); delete(a, "B2.2"); return a }(), "question B2.2 requires an answer"},
		{"unknown key", func() map[string]string { a := internalSurvey("4"); a["Z.1"] = "x"; return a }(), "question Z.1 is not part of set QS-006"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.RecordAnswers(ctx, primary.RecordAnswersRequest{EngagementID: "ENG-001", SetID: db.InternalSurveySetID, Answers: tt.answers})
			require.ErrorIs(t, err, primary.ErrInvalidInput)
			assert.Equal(t, tt.want, err.Error())
		})
	}

	answers, err := service.ListAnswers(ctx, "ENG-001", "")
	require.NoError(t, err)
	assert.Empty(t, answers, "nothing is stored when any answer fails")
}
