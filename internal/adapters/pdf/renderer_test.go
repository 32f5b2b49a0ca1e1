package pdf

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/see/internal/ports/secondary"
)

func sampleDocument(rows int) *secondary.Document {
	table := &secondary.Table{
		Headers: []string{"KPI", "Meta", "Actual", "Estado"},
		Widths:  []float64{60, 20, 20, 20},
	}
	for i := 0; i < rows; i++ {
		table.Rows = append(table.Rows, []string{fmt.Sprintf("Indicador %03d con un nombre largo que debe ajustarse", i), "30,00", "25,00", "Rojo"})
		table.Tones = append(table.Tones, "red")
	}
	return &secondary.Document{
		Title:    "Informe final · Programa Norte",
		Subtitle: "Minera Andina",
		Footer:   "Generado el 15-06-2024",
		Sections: []secondary.Section{
			{Heading: "Estrategia", Facts: []secondary.Fact{{Label: "Visión", Value: "Ser el contratista más seguro"}, {Label: "Misión", Value: "—"}}},
			{Heading: "Cuadro de mando", Table: table},
			{Heading: "Riesgos", Paragraphs: []string{"Sin riesgos registrados."}},
		},
	}
}

func TestRender(t *testing.T) {
	r := NewRenderer()
	r.compress = false

	out, err := r.Render(context.Background(), sampleDocument(3))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Contains(t, string(out), "Cuadro de mando")
	assert.Contains(t, string(out), "Sin riesgos registrados.")
	assert.Equal(t, 1, bytes.Count(out, []byte("/Type /Page\n")))
}

func TestRender_PageBreaks(t *testing.T) {
	r := NewRenderer()
	r.compress = false

	out, err := r.Render(context.Background(), sampleDocument(120))
	require.NoError(t, err)
	assert.Greater(t, bytes.Count(out, []byte("/Type /Page\n")), 1)
	headers := regexp.MustCompile(`\(KPI\)\s*Tj`).FindAll(out, -1)
	assert.Greater(t, len(headers), 1, "table header repeats on each page")
}

func TestRender_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRenderer().Render(ctx, sampleDocument(1))
	assert.ErrorIs(t, err, context.Canceled)
}
