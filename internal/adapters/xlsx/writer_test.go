package xlsx

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/example/see/internal/ports/secondary"
)

func TestWrite(t *testing.T) {
	w := NewWriter()
	out, err := w.Write(context.Background(), []secondary.Sheet{
		{
			Name:    "KPIs",
			Headers: []string{"ID", "Nombre", "Meta"},
			Rows: [][]any{
				{"KPI-001", "Margen EBITDA", 30.5},
				{"KPI-002", "Accidentes", nil},
			},
		},
		{Name: "Valores 2024/06", Headers: []string{"KPI", "Periodo"}},
		{Name: "kpis", Headers: []string{"x"}},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"KPIs", "Valores 2024-06", "kpis (2)"}, f.GetSheetList())
	rows, err := f.GetRows("KPIs")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"ID", "Nombre", "Meta"}, rows[0])
	assert.Equal(t, []string{"KPI-001", "Margen EBITDA", "30.5"}, rows[1])
	assert.Equal(t, []string{"KPI-002", "Accidentes"}, rows[2])
}

func TestWrite_Empty(t *testing.T) {
	_, err := NewWriter().Write(context.Background(), nil)
	assert.Error(t, err)
}

func TestSheetName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		index int
		want  string
	}{
		{"plain", "Roadmap", 0, "Roadmap"},
		{"forbidden characters", "a[b]:c*d?e/f\\g", 0, "a-b--c-d-e-f-g"},
		{"blank", "  ", 2, "Sheet3"},
		{"long", "Indicadores de la perspectiva financiera", 0, "Indicadores de la perspectiva f"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sheetName(tt.input, tt.index); got != tt.want {
				t.Errorf("sheetName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
