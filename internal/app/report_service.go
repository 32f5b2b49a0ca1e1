package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/see/internal/core/kpi"
	"github.com/example/see/internal/core/strategy"
	"github.com/example/see/internal/core/weekly"
	"github.com/example/see/internal/ports/primary"
	"github.com/example/see/internal/ports/secondary"
)

// ReportServices are the services the reports read from.
type ReportServices struct {
	Engagements primary.EngagementService
	Strategy    primary.StrategyService
	Kpis        primary.KpiService
	Initiatives primary.InitiativeService
	Roadmap     primary.RoadmapService
	Governance  primary.GovernanceService
	Risks       primary.RiskService
	Checkin     primary.CheckinService
	Weekly      primary.WeeklyReportService
}

// ReportServiceImpl implements the ReportService interface.
type ReportServiceImpl struct {
	svc      ReportServices
	renderer secondary.DocumentRenderer
	logger   *zap.Logger
	now      func() time.Time
}

// NewReportService creates a new ReportService with injected dependencies.
func NewReportService(svc ReportServices, renderer secondary.DocumentRenderer, logger *zap.Logger) *ReportServiceImpl {
	return &ReportServiceImpl{svc: svc, renderer: renderer, logger: logger, now: time.Now}
}

// EngagementReportPDF renders the final engagement report.
func (s *ReportServiceImpl) EngagementReportPDF(ctx context.Context, engagementID string) ([]byte, error) {
	doc, err := s.engagementReport(ctx, engagementID)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, doc)
}

// EngagementReportText renders the final report for the terminal.
func (s *ReportServiceImpl) EngagementReportText(ctx context.Context, engagementID string) (string, error) {
	doc, err := s.engagementReport(ctx, engagementID)
	if err != nil {
		return "", err
	}
	return renderText(doc), nil
}

func (s *ReportServiceImpl) render(ctx context.Context, doc *secondary.Document) ([]byte, error) {
	out, err := s.renderer.Render(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to render %q: %w", doc.Title, err)
	}
	s.logger.Debug("document rendered", zap.String("title", doc.Title), zap.Int("bytes", len(out)))
	return out, nil
}

func (s *ReportServiceImpl) engagementReport(ctx context.Context, engagementID string) (*secondary.Document, error) {
	eng, err := s.svc.Engagements.GetEngagement(ctx, engagementID)
	if err != nil {
		return nil, err
	}
	l := newLabeler(eng.Locale)
	now := s.now()
	period := kpi.CurrentMonthKey(now)

	strat, err := s.svc.Strategy.GetStrategy(ctx, engagementID)
	if err != nil {
		return nil, err
	}
	swot, err := s.svc.Strategy.ListSwotItems(ctx, engagementID)
	if err != nil {
		return nil, err
	}
	card, err := s.svc.Kpis.GetScorecard(ctx, engagementID, period, kpi.GlobalScope)
	if err != nil {
		return nil, err
	}
	initiatives, err := s.svc.Initiatives.ListInitiatives(ctx, primary.InitiativeFilters{EngagementID: engagementID})
	if err != nil {
		return nil, err
	}
	weeks, err := s.svc.Roadmap.ListWeeks(ctx, engagementID)
	if err != nil {
		return nil, err
	}
	actions, err := s.svc.Governance.ListActions(ctx, engagementID, "", now)
	if err != nil {
		return nil, err
	}
	decisions, err := s.svc.Governance.ListDecisions(ctx, engagementID)
	if err != nil {
		return nil, err
	}
	raci, err := s.svc.Governance.ListRaciRows(ctx, engagementID)
	if err != nil {
		return nil, err
	}
	risks, err := s.svc.Risks.ListRisks(ctx, engagementID)
	if err != nil {
		return nil, err
	}

	doc := &secondary.Document{
		Title:    l.t("Informe final", "Final report") + " · " + eng.DisplayName(),
		Subtitle: eng.CompanyName,
		Footer:   l.t("Generado el ", "Generated on ") + l.date(now.UTC().Format("2006-01-02")),
	}
	doc.Sections = append(doc.Sections,
		engagementSection(l, eng),
		strategySection(l, strat),
		swotSection(l, swot),
		scorecardSection(l, card),
		portfolioSection(l, initiatives),
		roadmapSection(l, weeks),
		actionsSection(l, actions),
		decisionsSection(l, decisions),
		raciSection(l, raci),
		risksSection(l, risks),
	)
	return doc, nil
}

// CheckinSummaryPDF renders the scorecard and the initiative snapshot of a period.
func (s *ReportServiceImpl) CheckinSummaryPDF(ctx context.Context, engagementID, scopeKey, periodKey string) ([]byte, error) {
	summary, err := s.svc.Checkin.GetSummary(ctx, engagementID, scopeKey, periodKey)
	if err != nil {
		return nil, err
	}
	l := newLabeler(summary.Engagement.Locale)

	overview := secondary.Section{
		Heading: l.t("Resumen", "Overview"),
		Facts: []secondary.Fact{
			{Label: l.t("Periodo", "Period"), Value: summary.Scorecard.PeriodKey},
			{Label: l.t("Alcance", "Scope"), Value: summary.Scorecard.ScopeKey},
			{Label: l.t("KPIs en verde", "Green KPIs"), Value: fmt.Sprint(summary.Scorecard.Green)},
			{Label: l.t("KPIs en rojo", "Red KPIs"), Value: fmt.Sprint(summary.Scorecard.Red)},
			{Label: l.t("Sin dato", "No data"), Value: fmt.Sprint(summary.Scorecard.NoData)},
			{Label: l.t("Check-in guardado", "Check-in saved"), Value: l.date(summary.SavedAt)},
		},
	}

	table := &secondary.Table{
		Headers: []string{l.t("Iniciativa", "Initiative"), l.t("Estado", "Status"), l.t("Avance", "Progress"), l.t("Notas", "Notes"), l.t("Bloqueos", "Blockers")},
		Widths:  []float64{55, 25, 20, 45, 35},
	}
	for _, row := range summary.Initiatives {
		status, progress, notes, blockers := row.Initiative.Status, row.Initiative.ProgressPct, "", ""
		if row.Snapshot != nil {
			if row.Snapshot.Status != "" {
				status = row.Snapshot.Status
			}
			if row.Snapshot.ProgressPct != nil {
				progress = row.Snapshot.ProgressPct
			}
			notes, blockers = row.Snapshot.Notes, row.Snapshot.Blockers
		}
		table.Rows = append(table.Rows, []string{row.Initiative.Title, l.status(status), progressLabel(l, progress), orDash(notes), orDash(blockers)})
		table.Tones = append(table.Tones, tone(status))
	}

	doc := &secondary.Document{
		Title:    "Check-in " + summary.Scorecard.PeriodKey + " · " + summary.Engagement.DisplayName(),
		Subtitle: summary.Engagement.CompanyName,
		Sections: []secondary.Section{
			overview,
			scorecardSection(l, summary.Scorecard),
			{Heading: l.t("Iniciativas", "Initiatives"), Table: table},
		},
	}
	return s.render(ctx, doc)
}

// WeeklyReportPDF renders one weekly site report with every payload block.
func (s *ReportServiceImpl) WeeklyReportPDF(ctx context.Context, reportID string) ([]byte, error) {
	report, err := s.svc.Weekly.GetReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	eng, err := s.svc.Engagements.GetEngagement(ctx, report.EngagementID)
	if err != nil {
		return nil, err
	}
	l := newLabeler(eng.Locale)

	var p weekly.Payload
	if len(report.Payload) > 0 {
		if err := json.Unmarshal(report.Payload, &p); err != nil {
			return nil, fmt.Errorf("failed to decode weekly report %s: %w", report.ID, err)
		}
	}

	doc := &secondary.Document{
		Title:    l.t("Reporte semanal", "Weekly report") + " · " + report.FaenaName,
		Subtitle: fmt.Sprintf("%s · %s – %s", eng.CompanyName, l.date(report.WeekStart), l.date(report.WeekEnd)),
		Sections: weeklySections(l, report, p),
	}
	return s.render(ctx, doc)
}

// OpsDataPackPDF renders the weekly site reports whose week starts in the period.
func (s *ReportServiceImpl) OpsDataPackPDF(ctx context.Context, engagementID, periodKey string) ([]byte, error) {
	if !kpi.ValidMonthKey(periodKey) {
		return nil, invalidInput("invalid period %q: want YYYY-MM", periodKey)
	}
	eng, err := s.svc.Engagements.GetEngagement(ctx, engagementID)
	if err != nil {
		return nil, err
	}
	l := newLabeler(eng.Locale)

	all, err := s.svc.Weekly.ListReports(ctx, primary.WeeklyReportFilters{EngagementID: engagementID})
	if err != nil {
		return nil, err
	}
	var reports []*primary.WeeklyReport
	for _, r := range all {
		if strings.HasPrefix(r.WeekStart, periodKey) {
			reports = append(reports, r)
		}
	}

	var (
		submitted, red int
		m2Sum          float64
		m2Count        int
		stoppageHours  float64
		nearMisses     int
		injuries       int
	)
	table := &secondary.Table{
		Headers: []string{
			l.t("Faena", "Site"), l.t("Semana", "Week"), l.t("Semáforo", "Status light"), l.t("Estado", "Status"),
			l.t("Cumpl. m²", "m² compliance"), l.t("Cumpl. turnos", "Shift compliance"), l.t("Detención (h)", "Stoppage (h)"),
		},
		Widths: []float64{40, 25, 25, 25, 25, 25, 25},
	}
	for _, r := range reports {
		var p weekly.Payload
		if len(r.Payload) > 0 {
			_ = json.Unmarshal(r.Payload, &p)
		}
		if r.Status == weekly.StatusSubmitted {
			submitted++
			if r.Semaphore == weekly.Red {
				red++
			}
		}
		if r.M2CompliancePct != nil {
			m2Sum += *r.M2CompliancePct
			m2Count++
		}
		if p.StoppageHours != nil {
			stoppageHours += *p.StoppageHours
		}
		if p.NearMisses != nil {
			nearMisses += *p.NearMisses
		}
		if p.RecordableInjuries != nil {
			injuries += *p.RecordableInjuries
		}
		table.Rows = append(table.Rows, []string{
			r.FaenaName, l.date(r.WeekStart), l.status(r.Semaphore), l.status(r.Status),
			l.pct(r.M2CompliancePct), l.pct(r.ShiftCompliancePct), l.num(p.StoppageHours, 1),
		})
		table.Tones = append(table.Tones, tone(r.Semaphore))
	}

	var m2Avg *float64
	if m2Count > 0 {
		v := m2Sum / float64(m2Count)
		m2Avg = &v
	}
	facts := []secondary.Fact{
		{Label: l.t("Periodo", "Period"), Value: periodKey},
		{Label: l.t("Reportes", "Reports"), Value: fmt.Sprint(len(reports))},
		{Label: l.t("Enviados", "Submitted"), Value: fmt.Sprint(submitted)},
		{Label: l.t("En rojo", "Red"), Value: fmt.Sprint(red)},
		{Label: l.t("Cumplimiento m² promedio", "Average m² compliance"), Value: l.pct(m2Avg)},
		{Label: l.t("Horas de detención", "Stoppage hours"), Value: l.num(&stoppageHours, 1)},
		{Label: l.t("Incidentes (casi)", "Near misses"), Value: fmt.Sprint(nearMisses)},
		{Label: l.t("Lesiones registrables", "Recordable injuries"), Value: fmt.Sprint(injuries)},
	}

	doc := &secondary.Document{
		Title:    l.t("Data pack operacional", "Operations data pack") + " · " + periodKey,
		Subtitle: eng.CompanyName,
		Sections: []secondary.Section{
			{Heading: l.t("Resumen", "Overview"), Facts: facts},
			{Heading: l.t("Reportes semanales", "Weekly reports"), Table: table},
		},
	}
	if len(reports) == 0 {
		doc.Sections[1].Paragraphs = []string{l.t("No hay reportes semanales en el periodo.", "No weekly reports in this period.")}
	}
	return s.render(ctx, doc)
}

func engagementSection(l labeler, eng *primary.Engagement) secondary.Section {
	return secondary.Section{
		Heading: l.t("Programa", "Engagement"),
		Facts: []secondary.Fact{
			{Label: l.t("Empresa", "Company"), Value: eng.CompanyName},
			{Label: l.t("Industria", "Industry"), Value: orDash(eng.Industry)},
			{Label: l.t("Estado", "Status"), Value: eng.Status},
			{Label: l.t("Inicio", "Start"), Value: l.date(eng.StartDate)},
			{Label: l.t("Término", "End"), Value: l.date(eng.EndDate)},
			{Label: l.t("Contexto", "Context"), Value: orDash(eng.BusinessContext)},
			{Label: l.t("Metas", "Goals"), Value: orDash(eng.Goals)},
			{Label: l.t("Definición de éxito", "Success definition"), Value: orDash(eng.SuccessDefinition)},
		},
	}
}

func strategySection(l labeler, s *primary.Strategy) secondary.Section {
	return secondary.Section{
		Heading: l.t("Estrategia", "Strategy"),
		Facts: []secondary.Fact{
			{Label: l.t("Visión", "Vision"), Value: orDash(s.Vision)},
			{Label: l.t("Misión", "Mission"), Value: orDash(s.Mission)},
			{Label: l.t("Objetivos", "Objectives"), Value: orDash(s.Objectives)},
		},
	}
}

func swotSection(l labeler, items []*primary.SwotItem) secondary.Section {
	section := secondary.Section{Heading: l.t("FODA", "SWOT")}
	table := &secondary.Table{Headers: []string{l.t("Cuadrante", "Quadrant"), l.t("Ítem", "Item")}, Widths: []float64{40, 140}}
	for _, q := range strategy.Quadrants {
		for _, it := range items {
			if it.Quadrant == q {
				table.Rows = append(table.Rows, []string{strategy.QuadrantLabel(q, l.locale), it.Text})
			}
		}
	}
	if len(table.Rows) == 0 {
		section.Paragraphs = []string{l.t("Sin ítems FODA.", "No SWOT items.")}
		return section
	}
	section.Table = table
	return section
}

func scorecardSection(l labeler, card *primary.Scorecard) secondary.Section {
	section := secondary.Section{Heading: l.t("Cuadro de mando", "Scorecard") + " · " + card.PeriodKey}
	table := &secondary.Table{
		Headers: []string{"KPI", l.t("Perspectiva", "Perspective"), l.t("Meta", "Target"), l.t("Actual", "Current"), l.t("Evaluado", "Evaluated"), l.t("Estado", "Status")},
		Widths:  []float64{55, 30, 22, 22, 22, 29},
	}
	for _, row := range card.Rows {
		table.Rows = append(table.Rows, []string{
			row.Kpi.Name(l.locale), row.Kpi.Perspective, l.num(row.Target, 2), l.num(row.Current, 2), l.num(row.Evaluated, 2), l.status(row.Status),
		})
		table.Tones = append(table.Tones, tone(row.Status))
	}
	if len(table.Rows) == 0 {
		section.Paragraphs = []string{l.t("Sin KPIs definidos.", "No KPIs defined.")}
		return section
	}
	section.Table = table
	return section
}

func portfolioSection(l labeler, initiatives []*primary.Initiative) secondary.Section {
	section := secondary.Section{Heading: l.t("Portafolio de iniciativas", "Initiative portfolio")}
	table := &secondary.Table{
		Headers: []string{"ID", l.t("Iniciativa", "Initiative"), l.t("Responsable", "Owner"), l.t("Estado", "Status"), l.t("Avance", "Progress"), l.t("Prioridad", "Priority")},
		Widths:  []float64{20, 65, 30, 25, 20, 20},
	}
	for _, in := range initiatives {
		score := in.PriorityScore
		table.Rows = append(table.Rows, []string{in.ID, in.Title, orDash(in.Owner), l.status(in.Status), progressLabel(l, in.ProgressPct), l.num(&score, 1)})
		table.Tones = append(table.Tones, tone(in.Status))
	}
	if len(table.Rows) == 0 {
		section.Paragraphs = []string{l.t("Sin iniciativas.", "No initiatives.")}
		return section
	}
	section.Table = table
	return section
}

func roadmapSection(l labeler, weeks []*primary.RoadmapWeek) secondary.Section {
	section := secondary.Section{Heading: l.t("Hoja de ruta 20 semanas", "20-week roadmap")}
	table := &secondary.Table{
		Headers: []string{l.t("Sem.", "Wk"), l.t("Fase", "Phase"), l.t("Objetivo", "Objective"), l.t("Entregables", "Deliverables"), l.t("Ritual", "Ritual")},
		Widths:  []float64{12, 30, 60, 50, 28},
	}
	for _, w := range weeks {
		table.Rows = append(table.Rows, []string{fmt.Sprint(w.Week), w.Phase, orDash(w.Objective), orDash(w.Deliverables), orDash(w.Ritual)})
	}
	if len(table.Rows) == 0 {
		section.Paragraphs = []string{l.t("Hoja de ruta no generada.", "Roadmap not generated.")}
		return section
	}
	section.Table = table
	return section
}

func actionsSection(l labeler, actions []*primary.ActionItem) secondary.Section {
	section := secondary.Section{Heading: l.t("Acciones", "Actions")}
	table := &secondary.Table{
		Headers: []string{l.t("Tarea", "Task"), l.t("Responsable", "Owner"), l.t("Vence", "Due"), l.t("Estado", "Status")},
		Widths:  []float64{80, 35, 30, 35},
	}
	for _, a := range actions {
		status := l.status(a.Status)
		rowTone := tone(a.Status)
		if a.Overdue {
			status += l.t(" (vencida)", " (overdue)")
			rowTone = "red"
		}
		table.Rows = append(table.Rows, []string{a.Task, orDash(a.Owner), l.date(a.DueDate), status})
		table.Tones = append(table.Tones, rowTone)
	}
	if len(table.Rows) == 0 {
		section.Paragraphs = []string{l.t("Sin acciones.", "No actions.")}
		return section
	}
	section.Table = table
	return section
}

func decisionsSection(l labeler, decisions []*primary.Decision) secondary.Section {
	section := secondary.Section{Heading: l.t("Decisiones", "Decisions")}
	table := &secondary.Table{
		Headers: []string{l.t("Fecha", "Date"), l.t("Decisión", "Decision"), l.t("Responsable", "Owner"), l.t("Estado", "Status")},
		Widths:  []float64{25, 95, 30, 30},
	}
	for _, d := range decisions {
		table.Rows = append(table.Rows, []string{l.date(d.DecidedOn), d.Decision, orDash(d.Responsible), l.status(d.Status)})
	}
	if len(table.Rows) == 0 {
		section.Paragraphs = []string{l.t("Sin decisiones registradas.", "No decisions logged.")}
		return section
	}
	section.Table = table
	return section
}

func raciSection(l labeler, rows []*primary.RaciRow) secondary.Section {
	section := secondary.Section{Heading: "RACI"}
	table := &secondary.Table{
		Headers: []string{l.t("Iniciativa", "Initiative"), "R", "A", "C", "I"},
		Widths:  []float64{60, 30, 30, 30, 30},
	}
	for _, r := range rows {
		table.Rows = append(table.Rows, []string{r.Initiative, r.Responsible, r.Accountable, orDash(r.Consulted), orDash(r.Informed)})
	}
	if len(table.Rows) == 0 {
		section.Paragraphs = []string{l.t("Sin matriz RACI.", "No RACI matrix.")}
		return section
	}
	section.Table = table
	return section
}

func risksSection(l labeler, risks []*primary.Risk) secondary.Section {
	section := secondary.Section{Heading: l.t("Riesgos", "Risks")}
	table := &secondary.Table{
		Headers: []string{l.t("Riesgo", "Risk"), "P", "I", l.t("Puntaje", "Score"), l.t("Nivel", "Level"), l.t("Mitigación", "Mitigation")},
		Widths:  []float64{60, 10, 10, 18, 22, 60},
	}
	for _, r := range risks {
		table.Rows = append(table.Rows, []string{
			r.Description, fmt.Sprint(r.Probability), fmt.Sprint(r.Impact), fmt.Sprint(r.Score), l.status(r.Level), orDash(r.Mitigation),
		})
		table.Tones = append(table.Tones, tone(r.Level))
	}
	if len(table.Rows) == 0 {
		section.Paragraphs = []string{l.t("Sin riesgos registrados.", "No risks logged.")}
		return section
	}
	section.Table = table
	return section
}

func weeklySections(l labeler, r *primary.WeeklyReport, p weekly.Payload) []secondary.Section {
	joined := func(values []string, other *string) string {
		out := make([]string, 0, len(values)+1)
		for _, v := range values {
			out = append(out, l.status(v))
		}
		if other != nil && strings.TrimSpace(*other) != "" {
			out = append(out, strings.TrimSpace(*other))
		}
		if len(out) == 0 {
			return noValue
		}
		return strings.Join(out, ", ")
	}
	text := func(v *string) string {
		if v == nil {
			return noValue
		}
		return orDash(l.status(*v))
	}

	return []secondary.Section{
		{Heading: l.t("Estado", "Status"), Facts: []secondary.Fact{
			{Label: l.t("Semáforo", "Status light"), Value: l.status(r.Semaphore)},
			{Label: l.t("Estado", "Status"), Value: l.status(r.Status)},
			{Label: l.t("Enviado", "Submitted"), Value: l.date(r.SubmittedAt)},
			{Label: "Email", Value: text(p.AdminEmail)},
			{Label: l.t("Responsable", "Administrator"), Value: text(p.AdminName)},
		}},
		{Heading: l.t("Identificación", "Identification"), Facts: []secondary.Fact{
			{Label: l.t("Turno", "Shift"), Value: text(p.Turn)},
			{Label: l.t("Dotación promedio", "Average headcount"), Value: l.count(p.Headcount)},
			{Label: l.t("Semana inicio", "Week start"), Value: l.date(r.WeekStart)},
			{Label: l.t("Semana fin", "Week end"), Value: l.date(r.WeekEnd)},
		}},
		{Heading: l.t("Plan vs real", "Plan vs actual"), Facts: []secondary.Fact{
			{Label: l.t("m² planificados", "m² planned"), Value: l.num(p.M2Planned, 1)},
			{Label: l.t("m² ejecutados", "m² executed"), Value: l.num(p.M2Executed, 1)},
			{Label: l.t("Cumplimiento m²", "m² compliance"), Value: l.pct(r.M2CompliancePct)},
			{Label: l.t("Causas desvío", "Deviation causes"), Value: joined(p.DeviationCauses, p.DeviationCausesOther)},
		}},
		{Heading: l.t("Disponibilidad", "Availability"), Facts: []secondary.Fact{
			{Label: l.t("Turnos planificados", "Shifts planned"), Value: l.count(p.ShiftsPlanned)},
			{Label: l.t("Turnos entregados", "Shifts delivered"), Value: l.count(p.ShiftsDelivered)},
			{Label: l.t("Cumplimiento turnos", "Shift compliance"), Value: l.pct(r.ShiftCompliancePct)},
			{Label: l.t("Hubo detenciones", "Stoppages"), Value: l.yesNo(p.Stoppages)},
			{Label: l.t("Eventos", "Events"), Value: l.count(p.StoppageEvents)},
			{Label: l.t("Horas", "Hours"), Value: l.num(p.StoppageHours, 1)},
			{Label: l.t("Causa principal", "Main cause"), Value: text(p.StoppageCause)},
		}},
		{Heading: l.t("Calidad", "Quality"), Facts: []secondary.Fact{
			{Label: l.t("Sin retrabajos", "No rework"), Value: l.yesNo(p.NoRework)},
			{Label: l.t("Sin no conformidades", "No non-conformities"), Value: l.yesNo(p.NoNonConformities)},
			{Label: l.t("Retrabajos (n)", "Rework (n)"), Value: l.count(p.ReworkCount)},
			{Label: l.t("No conformidades (n)", "Non-conformities (n)"), Value: l.count(p.NonConformityCount)},
			{Label: l.t("Acción correctiva", "Corrective action"), Value: text(p.CorrectiveActionLogged)},
		}},
		{Heading: l.t("Seguridad", "Safety"), Facts: []secondary.Fact{
			{Label: l.t("Horas-hombre", "Man-hours"), Value: l.num(p.ManHours, 0)},
			{Label: l.t("Incidentes (casi)", "Near misses"), Value: l.count(p.NearMisses)},
			{Label: l.t("Lesiones registrables", "Recordable injuries"), Value: l.count(p.RecordableInjuries)},
			{Label: l.t("Acciones HSEC cerradas", "HSEC actions closed"), Value: l.count(p.HsecActionsClosed)},
			{Label: l.t("Sin eventos", "No events"), Value: l.yesNo(p.NoHsecEvents)},
			{Label: l.t("Referencia", "Reference"), Value: text(p.HsecEventRef)},
		}},
		{Heading: l.t("Reporte / data pack", "Report / data pack"), Facts: []secondary.Fact{
			{Label: l.t("Reporte cliente", "Client report"), Value: text(p.ClientReportStatus)},
			{Label: l.t("Causa atraso", "Late cause"), Value: text(p.ClientReportLateCause)},
			{Label: l.t("Data pack mes", "Monthly data pack"), Value: text(p.DataPackStatus)},
		}},
		{Heading: l.t("Carpeta auditable", "Audit folder"), Facts: []secondary.Fact{
			{Label: l.t("Contrato/anexos", "Contract/annexes"), Value: l.yesNo(p.ContractAnnexesOK)},
			{Label: l.t("Plan de cierre", "Closure plan"), Value: l.yesNo(p.ClosurePlanOK)},
			{Label: l.t("Evidencias", "Evidence"), Value: l.yesNo(p.EvidenceOK)},
			{Label: l.t("Reportes archivados", "Reports archived"), Value: l.yesNo(p.ReportsArchivedOK)},
			{Label: l.t("Bitácora detenciones", "Stoppage log"), Value: l.yesNo(p.StoppageLogOK)},
			{Label: l.t("Registro calidad", "Quality log"), Value: l.yesNo(p.QualityLogOK)},
		}},
		{Heading: l.t("Semáforo / escalamiento", "Status light / escalation"), Facts: []secondary.Fact{
			{Label: l.t("Requiere apoyo", "Needs support"), Value: l.yesNo(p.NeedsSupport)},
			{Label: l.t("Tipos apoyo", "Support types"), Value: joined(p.SupportTypes, p.SupportTypesOther)},
			{Label: l.t("Comentario", "Comment"), Value: text(p.Comment)},
		}},
	}
}

func progressLabel(l labeler, pct *int) string {
	if pct == nil {
		return noValue
	}
	return l.count(pct) + "%"
}

var _ primary.ReportService = (*ReportServiceImpl)(nil)
