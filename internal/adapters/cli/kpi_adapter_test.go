package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/see/internal/ports/primary"
)

type mockKpiService struct {
	primary.KpiService

	listFn      func(ctx context.Context, engagementID string) ([]*primary.Kpi, error)
	seriesFn    func(ctx context.Context, req primary.KpiSeriesRequest) (*primary.KpiSeries, error)
	scorecardFn func(ctx context.Context, engagementID, periodKey, scopeKey string) (*primary.Scorecard, error)
	importFn    func(ctx context.Context, engagementID string, r io.Reader) (*primary.KpiImportResult, error)

	lastRecord primary.RecordValuesRequest
}

func (m *mockKpiService) ListKpis(ctx context.Context, engagementID string) ([]*primary.Kpi, error) {
	return m.listFn(ctx, engagementID)
}

func (m *mockKpiService) GetSeries(ctx context.Context, req primary.KpiSeriesRequest) (*primary.KpiSeries, error) {
	return m.seriesFn(ctx, req)
}

func (m *mockKpiService) GetScorecard(ctx context.Context, engagementID, periodKey, scopeKey string) (*primary.Scorecard, error) {
	return m.scorecardFn(ctx, engagementID, periodKey, scopeKey)
}

func (m *mockKpiService) RecordValues(ctx context.Context, req primary.RecordValuesRequest) (*primary.RecordValuesResponse, error) {
	m.lastRecord = req
	return &primary.RecordValuesResponse{Saved: len(req.Values) - 1, Cleared: 1}, nil
}

func (m *mockKpiService) ImportCSV(ctx context.Context, engagementID string, r io.Reader) (*primary.KpiImportResult, error) {
	return m.importFn(ctx, engagementID, r)
}

func f64(v float64) *float64 { return &v }

func boolPtr(v bool) *bool { return &v }

func TestKpiAdapter_List(t *testing.T) {
	mock := &mockKpiService{
		listFn: func(ctx context.Context, engagementID string) ([]*primary.Kpi, error) {
			return []*primary.Kpi{
				{ID: "KPI-1", NameEs: "Margen EBITDA", NameEn: "EBITDA margin", Perspective: "FINANCIAL", Direction: "HIGHER_IS_BETTER", Basis: "A", TargetValue: f64(18), Unit: "%"},
				{ID: "KPI-2", NameEs: "Accidentes", Perspective: "INTERNAL_PROCESS", Direction: "LOWER_IS_BETTER", Basis: "L", TargetText: "cero"},
			}, nil
		},
	}
	var out bytes.Buffer
	require.NoError(t, NewKpiAdapter(mock, &out, "en").List(context.Background(), "ENG-001"))

	got := out.String()
	assert.Contains(t, got, "EBITDA margin")
	assert.Contains(t, got, "Accidentes")
	assert.Contains(t, got, "cero")
	assert.Contains(t, got, "↓")
}

func TestKpiAdapter_ListEmpty(t *testing.T) {
	mock := &mockKpiService{
		listFn: func(ctx context.Context, engagementID string) ([]*primary.Kpi, error) { return nil, nil },
	}
	var out bytes.Buffer
	require.NoError(t, NewKpiAdapter(mock, &out, "es").List(context.Background(), "ENG-001"))
	assert.Equal(t, "No KPIs found\n", out.String())
}

func TestKpiAdapter_Scorecard(t *testing.T) {
	mock := &mockKpiService{
		scorecardFn: func(ctx context.Context, engagementID, periodKey, scopeKey string) (*primary.Scorecard, error) {
			return &primary.Scorecard{
				EngagementID: engagementID,
				PeriodKey:    periodKey,
				ScopeKey:     "GLOBAL",
				Rows: []*primary.ScorecardRow{
					{
						Kpi:             &primary.Kpi{NameEs: "Margen EBITDA"},
						Previous:        f64(15),
						Current:         f64(16.456),
						Evaluated:       f64(16.456),
						Target:          f64(18),
						DeltaVsTarget:   f64(-1.544),
						DeltaVsPrevious: f64(1.456),
						Status:          "RED",
					},
					{Kpi: &primary.Kpi{NameEs: "Rotación"}, Status: "NO_DATA"},
				},
				Red:    1,
				NoData: 1,
			}, nil
		},
	}
	var out bytes.Buffer
	card, err := NewKpiAdapter(mock, &out, "es").Scorecard(context.Background(), "ENG-001", "2024-06", "")
	require.NoError(t, err)
	assert.Len(t, card.Rows, 2)

	got := out.String()
	assert.Contains(t, got, "Scorecard ENG-001 · 2024-06 · GLOBAL")
	assert.Contains(t, got, "16.46")
	assert.Contains(t, got, "-1.54")
	assert.Contains(t, got, "+1.46")
	assert.Contains(t, got, "NO_DATA")
	assert.Contains(t, got, "0 green  1 red  1 no data")
}

func TestKpiAdapter_Series(t *testing.T) {
	mock := &mockKpiService{
		seriesFn: func(ctx context.Context, req primary.KpiSeriesRequest) (*primary.KpiSeries, error) {
			assert.Equal(t, "KPI-1", req.KpiID)
			return &primary.KpiSeries{
				Kpi: &primary.Kpi{ID: "KPI-1", NameEs: "Ventas", Basis: "A"},
				Points: []primary.KpiSeriesPoint{
					{PeriodKey: "2024-05"},
					{PeriodKey: "2024-06", Value: f64(10), Evaluated: f64(25), IsGreen: boolPtr(true)},
				},
			}, nil
		},
	}
	var out bytes.Buffer
	require.NoError(t, NewKpiAdapter(mock, &out, "es").Series(context.Background(), primary.KpiSeriesRequest{KpiID: "KPI-1"}))

	lines := strings.Split(out.String(), "\n")
	var may, june string
	for _, l := range lines {
		if strings.HasPrefix(l, "2024-05") {
			may = l
		}
		if strings.HasPrefix(l, "2024-06") {
			june = l
		}
	}
	assert.Contains(t, may, "NO_DATA")
	assert.Contains(t, june, "25")
	assert.Contains(t, june, "GREEN")
}

func TestKpiAdapter_Record(t *testing.T) {
	mock := &mockKpiService{}
	var out bytes.Buffer
	err := NewKpiAdapter(mock, &out, "es").Record(context.Background(), primary.RecordValuesRequest{
		EngagementID: "ENG-001",
		PeriodKey:    "2024-06",
		Values:       []primary.KpiValueInput{{KpiID: "KPI-1", Raw: "12,5"}, {KpiID: "KPI-2"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "12,5", mock.lastRecord.Values[0].Raw)
	assert.Equal(t, "✓ Recorded 2024-06: 1 saved, 1 cleared\n", out.String())
}

func TestKpiAdapter_Import(t *testing.T) {
	mock := &mockKpiService{
		importFn: func(ctx context.Context, engagementID string, r io.Reader) (*primary.KpiImportResult, error) {
			return &primary.KpiImportResult{Created: 2, Failed: 1, Errors: []string{"row 4: name is required"}}, nil
		},
	}
	var out bytes.Buffer
	require.NoError(t, NewKpiAdapter(mock, &out, "es").Import(context.Background(), "ENG-001", strings.NewReader("")))
	assert.Contains(t, out.String(), "2 created, 0 updated, 1 failed")
	assert.Contains(t, out.String(), "✗ row 4: name is required")
}
