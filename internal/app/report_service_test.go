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

func sectionHeadings(doc *secondary.Document) []string {
	out := make([]string, 0, len(doc.Sections))
	for _, s := range doc.Sections {
		out = append(out, s.Heading)
	}
	return out
}

func factValue(t *testing.T, s secondary.Section, label string) string {
	t.Helper()
	for _, f := range s.Facts {
		if f.Label == label {
			return f.Value
		}
	}
	t.Fatalf("fact %q not found in section %q", label, s.Heading)
	return ""
}

func seedReportEngagement(t *testing.T, svc *testServices, engagementID string) {
	t.Helper()
	ctx := context.Background()
	_, err := svc.strategy.SetStrategy(ctx, primary.SetStrategyRequest{EngagementID: engagementID, Vision: "Ser el contratista más seguro"})
	require.NoError(t, err)
	_, err = svc.strategy.AddSwotItem(ctx, primary.AddSwotItemRequest{EngagementID: engagementID, Quadrant: "STRENGTH", Text: "Equipo experimentado"})
	require.NoError(t, err)
	_, err = svc.kpis.RecordValues(ctx, primary.RecordValuesRequest{
		EngagementID: engagementID, PeriodKey: "2024-06",
		Values: []primary.KpiValueInput{{KpiID: "KPI-" + engagementID, Raw: "25"}},
	})
	require.NoError(t, err)
	_, err = svc.initiatives.CreateInitiative(ctx, primary.CreateInitiativeRequest{EngagementID: engagementID, Title: "Renegociar contratos"})
	require.NoError(t, err)
	_, err = svc.roadmap.GenerateRoadmap(ctx, engagementID)
	require.NoError(t, err)
	_, err = svc.governance.CreateAction(ctx, primary.CreateActionRequest{EngagementID: engagementID, Task: "Cerrar presupuesto", DueDate: "2024-06-01"})
	require.NoError(t, err)
	_, err = svc.risks.CreateRisk(ctx, primary.CreateRiskRequest{EngagementID: engagementID, Description: "Paro de contratistas", Probability: 5, Impact: 5})
	require.NoError(t, err)
}

func TestEngagementReportText(t *testing.T) {
	store := newTestStore(t)
	store.seedEngagement(t, "ENG-001", "ACTIVE", "es")
	store.seedKpi(t, "KPI-ENG-001", "ENG-001", "Margen", "FINANCIAL", "HIGHER_IS_BETTER", 30)
	svc := store.services(time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC))
	seedReportEngagement(t, svc, "ENG-001")

	text, err := svc.reports.EngagementReportText(context.Background(), "ENG-001")
	require.NoError(t, err)
	for _, want := range []string{
		"Informe final · Programa ENG-001",
		"Ser el contratista más seguro",
		"Fortalezas",
		"Equipo experimentado",
		"Cuadro de mando · 2024-06",
		"Margen",
		"Rojo",
		"Renegociar contratos",
		"Hoja de ruta 20 semanas",
		"Cerrar presupuesto",
		"(vencida)",
		"Paro de contratistas",
		"Sin decisiones registradas.",
		"Generado el 15-06-2024",
	} {
		assert.Contains(t, text, want)
	}
}

func TestEngagementReportPDF(t *testing.T) {
	store := newTestStore(t)
	store.seedEngagement(t, "ENG-002", "ACTIVE", "en")
	store.seedKpi(t, "KPI-ENG-002", "ENG-002", "Margen", "FINANCIAL", "HIGHER_IS_BETTER", 30)
	svc := store.services(time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC))
	seedReportEngagement(t, svc, "ENG-002")

	out, err := svc.reports.EngagementReportPDF(context.Background(), "ENG-002")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-mock", string(out))

	doc := svc.renderer.doc
	require.NotNil(t, doc)
	assert.Equal(t, "Final report · Programa ENG-002", doc.Title)
	assert.Equal(t, []string{
		"Engagement", "Strategy", "SWOT", "Scorecard · 2024-06", "Initiative portfolio",
		"20-week roadmap", "Actions", "Decisions", "RACI", "Risks",
	}, sectionHeadings(doc))

	card := doc.Sections[3].Table
	require.NotNil(t, card)
	require.Len(t, card.Rows, 1)
	assert.Equal(t, "Red", card.Rows[0][5])
	assert.Equal(t, []string{"red"}, card.Tones)
	assert.Len(t, doc.Sections[5].Table.Rows, 20)
	assert.Equal(t, "red", doc.Sections[9].Table.Tones[0])
}

func TestEngagementReport_NotFound(t *testing.T) {
	store := newTestStore(t)
	svc := store.services(time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC))

	_, err := svc.reports.EngagementReportText(context.Background(), "ENG-404")
	assert.ErrorIs(t, err, secondary.ErrNotFound)
}

func TestCheckinSummaryPDF(t *testing.T) {
	store := newTestStore(t)
	store.seedEngagement(t, "ENG-001", "ACTIVE", "es")
	store.seedKpi(t, "KPI-ENG-001", "ENG-001", "Margen", "FINANCIAL", "HIGHER_IS_BETTER", 30)
	svc := store.services(time.Date(2024, 6, 30, 18, 0, 0, 0, time.UTC))
	ctx := context.Background()

	in, err := svc.initiatives.CreateInitiative(ctx, primary.CreateInitiativeRequest{EngagementID: "ENG-001", Title: "Renegociar contratos"})
	require.NoError(t, err)
	_, err = svc.initiatives.Checkin(ctx, primary.InitiativeCheckinRequest{
		EngagementID: "ENG-001", PeriodKey: "2024-06",
		Items: []primary.InitiativeCheckinItem{{InitiativeID: in.ID, ProgressPct: f64(40), Status: "BLOCKED", Blockers: "Falta firma"}},
	})
	require.NoError(t, err)

	_, err = svc.reports.CheckinSummaryPDF(ctx, "ENG-001", "", "2024-06")
	require.NoError(t, err)
	doc := svc.renderer.doc
	assert.Equal(t, "Check-in 2024-06 · Programa ENG-001", doc.Title)
	assert.Equal(t, []string{"Resumen", "Cuadro de mando · 2024-06", "Iniciativas"}, sectionHeadings(doc))
	assert.Equal(t, "GLOBAL", factValue(t, doc.Sections[0], "Alcance"))
	assert.Equal(t, "1", factValue(t, doc.Sections[0], "Sin dato"))

	rows := doc.Sections[2].Table
	require.Len(t, rows.Rows, 1)
	assert.Equal(t, []string{"Renegociar contratos", "Bloqueada", "40%", "—", "Falta firma"}, rows.Rows[0])
	assert.Equal(t, []string{"yellow"}, rows.Tones)

	_, err = svc.reports.CheckinSummaryPDF(ctx, "ENG-001", "", "junio")
	assert.ErrorIs(t, err, primary.ErrInvalidInput)
}

func submitTestWeekly(t *testing.T, svc *testServices, faenaID, weekStart, payload string) *primary.WeeklyReport {
	t.Helper()
	ctx := context.Background()
	link, err := svc.weekly.CreateLink(ctx, primary.CreateWeeklyLinkRequest{AdminToken: testAdminToken, FaenaID: faenaID, WeekStart: weekStart})
	require.NoError(t, err)
	report, err := svc.weekly.Submit(ctx, primary.SubmitWeeklyReportRequest{Token: link.Token, Payload: json.RawMessage(payload)})
	require.NoError(t, err)
	return report
}

func TestWeeklyReportPDF(t *testing.T) {
	store := newTestStore(t)
	store.seedEngagement(t, "ENG-001", "ACTIVE", "es")
	svc := store.services(time.Date(2024, 6, 12, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	faena, err := svc.weekly.CreateFaena(ctx, primary.CreateFaenaRequest{EngagementID: "ENG-001", Name: "Faena Norte"})
	require.NoError(t, err)
	report := submitTestWeekly(t, svc, faena.ID, "2024-06-10", `{
		"semaforo": "YELLOW",
		"adminName": "Paula Rojas",
		"m2Planificados": 1000, "m2Ejecutados": 850,
		"causasDesvio": ["WEATHER"], "causasDesvioOther": "Neblina",
		"requiereApoyo": true, "tiposApoyo": ["MAINTENANCE"]
	}`)

	_, err = svc.reports.WeeklyReportPDF(ctx, report.ID)
	require.NoError(t, err)
	doc := svc.renderer.doc
	assert.Equal(t, "Reporte semanal · Faena Norte", doc.Title)
	assert.Equal(t, "Minera ENG-001 · 10-06-2024 – 16-06-2024", doc.Subtitle)
	require.Len(t, doc.Sections, 9)
	assert.Equal(t, "Amarillo", factValue(t, doc.Sections[0], "Semáforo"))
	assert.Equal(t, "Enviado", factValue(t, doc.Sections[0], "Estado"))
	assert.Equal(t, "Paula Rojas", factValue(t, doc.Sections[0], "Responsable"))
	assert.Equal(t, "WEATHER, Neblina", factValue(t, doc.Sections[2], "Causas desvío"))
	assert.Equal(t, "—", factValue(t, doc.Sections[3], "Turnos planificados"))
	assert.Equal(t, "Sí", factValue(t, doc.Sections[8], "Requiere apoyo"))

	_, err = svc.reports.WeeklyReportPDF(ctx, "WFR-404")
	assert.ErrorIs(t, err, secondary.ErrNotFound)
}

func TestOpsDataPackPDF(t *testing.T) {
	store := newTestStore(t)
	store.seedEngagement(t, "ENG-001", "ACTIVE", "en")
	svc := store.services(time.Date(2024, 6, 20, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	faena, err := svc.weekly.CreateFaena(ctx, primary.CreateFaenaRequest{EngagementID: "ENG-001", Name: "Faena Norte"})
	require.NoError(t, err)
	submitTestWeekly(t, svc, faena.ID, "2024-06-03", `{"semaforo":"RED","m2Planificados":100,"m2Ejecutados":80,"detencionesHubo":true,"detencionesEventos":1,"detencionesHoras":4.5,"detencionCausaPrincipal":"EQUIPMENT","incidentesCasi":2}`)
	submitTestWeekly(t, svc, faena.ID, "2024-06-10", `{"semaforo":"GREEN","m2Planificados":100,"m2Ejecutados":100}`)
	submitTestWeekly(t, svc, faena.ID, "2024-07-01", `{"semaforo":"RED"}`)

	_, err = svc.reports.OpsDataPackPDF(ctx, "ENG-001", "2024-06")
	require.NoError(t, err)
	doc := svc.renderer.doc
	assert.Equal(t, "Operations data pack · 2024-06", doc.Title)
	overview := doc.Sections[0]
	assert.Equal(t, "2", factValue(t, overview, "Reports"))
	assert.Equal(t, "2", factValue(t, overview, "Submitted"))
	assert.Equal(t, "1", factValue(t, overview, "Red"))
	assert.Equal(t, "90.0%", factValue(t, overview, "Average m² compliance"))
	assert.Equal(t, "4.5", factValue(t, overview, "Stoppage hours"))
	assert.Equal(t, "2", factValue(t, overview, "Near misses"))
	assert.Len(t, doc.Sections[1].Table.Rows, 2)

	_, err = svc.reports.OpsDataPackPDF(ctx, "ENG-001", "2024-08")
	require.NoError(t, err)
	assert.Equal(t, []string{"No weekly reports in this period."}, svc.renderer.doc.Sections[1].Paragraphs)

	_, err = svc.reports.OpsDataPackPDF(ctx, "ENG-001", "2024/06")
	assert.ErrorIs(t, err, primary.ErrInvalidInput)
}
