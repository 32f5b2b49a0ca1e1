package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

type seedQuestion struct {
	key      string
	kind     string
	required bool
	promptEs string
	promptEn string
	options  []string
}

type seedQuestionSet struct {
	id       string
	kind     string
	titleEs  string
	titleEn  string
	descEs   string
	descEn   string
	question []seedQuestion
}

// InternalSurveySetID is the question set holding the B1/B2 internal survey.
const InternalSurveySetID = "QS-006"

var defaultQuestionSets = []seedQuestionSet{
	{
		id: "QS-001", kind: "INTERVIEW",
		titleEs: "Kickoff y contexto", titleEn: "Kickoff and context",
		descEs: "Contexto del negocio, objetivos, restricciones y definición de éxito.",
		descEn: "Business context, goals, constraints and definition of success.",
		question: []seedQuestion{
			{"project_goal", "LONG_TEXT", true, "¿Cuál es el objetivo principal de este proceso (en una frase)?", "What is the main goal of this process (one sentence)?", nil},
			{"success_definition", "LONG_TEXT", true, "¿Cómo se define 'éxito' al cierre del proyecto?", "How do you define 'success' at the end of the project?", nil},
			{"constraints", "LONG_TEXT", false, "Restricciones: tiempo, presupuesto, recursos, tecnología, legales, etc.", "Constraints: time, budget, resources, tech, legal, etc.", nil},
		},
	},
	{
		id: "QS-002", kind: "SURVEY",
		titleEs: "Modelo de negocio", titleEn: "Business model",
		descEs: "Propuesta de valor, clientes, canales, ingresos y costos.",
		descEn: "Value prop, customers, channels, revenue and costs.",
		question: []seedQuestion{
			{"value_prop", "LONG_TEXT", true, "Describe la propuesta de valor actual (qué problema resuelve y para quién).", "Describe the current value proposition (problem and for whom).", nil},
			{"customer_segments", "LONG_TEXT", false, "Segmentos de cliente principales (y secundarios si aplica).", "Main customer segments (and secondary if applicable).", nil},
			{"pricing", "LONG_TEXT", false, "¿Cómo cobran hoy? (precio, plan, contrato, condiciones)", "How do you charge today? (pricing, plans, contract, terms)", nil},
		},
	},
	{
		id: "QS-003", kind: "SURVEY",
		titleEs: "Operación", titleEn: "Operations",
		descEs: "Proceso, equipo, cuellos de botella, riesgos operativos.",
		descEn: "Process, team, bottlenecks, operational risks.",
		question: []seedQuestion{
			{"process_overview", "LONG_TEXT", false, "Describe el proceso operativo end-to-end (paso a paso).", "Describe the end-to-end operating process (step by step).", nil},
			{"bottlenecks", "LONG_TEXT", false, "Top 3 cuellos de botella hoy (y por qué).", "Top 3 bottlenecks today (and why).", nil},
		},
	},
	{
		id: "QS-004", kind: "SURVEY",
		titleEs: "Mercado y competencia", titleEn: "Market and competition",
		descEs: "Competidores, sustitutos, diferenciación, riesgos de mercado.",
		descEn: "Competitors, substitutes, differentiation, market risks.",
		question: []seedQuestion{
			{"main_competitors", "LONG_TEXT", false, "Competidores principales (nombres + por qué compiten).", "Main competitors (names + why they compete).", nil},
			{"differentiation", "LONG_TEXT", false, "¿Dónde está tu diferenciación real hoy? (no marketing)", "What is your real differentiation today? (not marketing)", nil},
		},
	},
	{
		id: "QS-005", kind: "WORKSHOP",
		titleEs: "KPIs (definición inicial)", titleEn: "KPIs (initial definition)",
		descEs: "Qué se mide, por qué, frecuencia y dueño.",
		descEn: "What to measure, why, frequency and owner.",
		question: []seedQuestion{
			{"north_star", "TEXT", false, "North Star Metric (si aplica):", "North Star Metric (if applies):", nil},
			{"kpi_candidates", "LONG_TEXT", false, "Lista inicial de KPIs candidatos (10–20).", "Initial list of KPI candidates (10–20).", nil},
		},
	},
	{
		id: InternalSurveySetID, kind: "SURVEY",
		titleEs: "Encuesta interna", titleEn: "Internal survey",
		descEs: "Encuesta interna anónima (escala 1–5 y preguntas abiertas) usada para el diagnóstico 360°.",
		descEn: "Internal anonymous survey (1–5 scale and open questions) used for the 360° diagnosis.",
		question: []seedQuestion{
			{"B1.1", "SCALE_1_5", true, "Puedo explicar qué hace la empresa en una frase clara.", "I can explain what the company does in one clear sentence.", nil},
			{"B1.2", "SCALE_1_5", true, "La propuesta de valor es consistente en toda la empresa.", "The value proposition is consistent across the whole company.", nil},
			{"B1.3", "SCALE_1_5", true, "Tenemos prioridades claras para los próximos 90 días.", "We have clear priorities for the next 90 days.", nil},
			{"B1.4", "SCALE_1_5", true, "Entiendo qué valora más el cliente (agua, continuidad, cumplimiento, costo, seguridad, data).", "I understand what the client values most (water, continuity, compliance, cost, safety, data).", nil},
			{"B1.5", "SCALE_1_5", true, "Sé por qué ganamos negocios y por qué los perdemos.", "I know why we win deals and why we lose them.", nil},
			{"B1.6", "SCALE_1_5", true, "El servicio se entrega con estándares (no depende de 'héroes').", "Our service is delivered with standards (it does not depend on 'heroes').", nil},
			{"B1.7", "SCALE_1_5", true, "La seguridad (HSEC) está integrada a la operación (no es trámite).", "Safety (HSEC) is integrated into operations (not just bureaucracy).", nil},
			{"B1.8", "SCALE_1_5", true, "Lo que medimos hoy es útil y entendible para el cliente.", "What we measure today is useful and understandable for the client.", nil},
			{"B1.9", "SCALE_1_5", true, "Operación del cliente y Alta Dirección reciben lo que necesitan (no 'lo mismo para todos').", "Client operations and senior management receive what they need (not 'the same for everyone').", nil},
			{"B1.10", "SCALE_1_5", true, "Creo que nuestros reportes influyen en decisiones del cliente (renovación, auditorías, presupuesto).", "I believe our reports influence client decisions (renewals, audits, budgeting).", nil},
			{"B1.11", "SCALE_1_5", true, "Siento que el equipo está alineado con la visión del negocio.", "I feel the team is aligned with the business vision.", nil},
			{"B2.1", "TEXT", true, "¿Qué 3 cosas deberíamos lograr en 90 días para avanzar al siguiente nivel?", "What 3 things should we achieve in 90 days to move to the next level?", nil},
			{"B2.2", "TEXT", true, "¿Qué 1 cosa es la más peligrosa si seguimos igual por 6 meses?", "What 1 thing is most dangerous if we stay the same for 6 months?", nil},
			{"B2.3", "TEXT", true, "¿Qué deberíamos dejar de hacer (stop doing) para escalar?", "What should we stop doing in order to scale?", nil},
		},
	},
}

// SeedQuestionSets upserts the built-in question sets. Safe to run on every
// start: existing rows keep their ids and get refreshed prompts.
func SeedQuestionSets(database *sql.DB) error {
	for i, set := range defaultQuestionSets {
		_, err := database.Exec(`
			INSERT INTO question_sets (id, kind, title_es, title_en, description_es, description_en, sort_order, active)
			VALUES (?, ?, ?, ?, ?, ?, ?, 1)
			ON CONFLICT(id) DO UPDATE SET
				title_es = excluded.title_es,
				title_en = excluded.title_en,
				description_es = excluded.description_es,
				description_en = excluded.description_en,
				sort_order = excluded.sort_order`,
			set.id, set.kind, set.titleEs, set.titleEn, set.descEs, set.descEn, i+1,
		)
		if err != nil {
			return fmt.Errorf("seed question set %s: %w", set.id, err)
		}

		for j, q := range set.question {
			var options sql.NullString
			if len(q.options) > 0 {
				raw, err := json.Marshal(q.options)
				if err != nil {
					return fmt.Errorf("seed question %s: %w", q.key, err)
				}
				options = sql.NullString{String: string(raw), Valid: true}
			}
			_, err := database.Exec(`
				INSERT INTO questions (id, set_id, key, sort_order, type, prompt_es, prompt_en, required, options_json)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT(set_id, key) DO UPDATE SET
					sort_order = excluded.sort_order,
					type = excluded.type,
					prompt_es = excluded.prompt_es,
					prompt_en = excluded.prompt_en,
					required = excluded.required,
					options_json = excluded.options_json`,
				set.id+":"+q.key, set.id, q.key, j+1, q.kind, q.promptEs, q.promptEn, q.required, options,
			)
			if err != nil {
				return fmt.Errorf("seed question %s/%s: %w", set.id, q.key, err)
			}
		}
	}
	return nil
}

// SeedDemo creates a demo engagement with KPIs, values, initiatives and a
// site, for trying out the dashboard and reports.
func SeedDemo(database *sql.DB, now time.Time) (string, error) {
	var exists int
	if err := database.QueryRow("SELECT COUNT(*) FROM engagements WHERE id = 'ENG-DEMO'").Scan(&exists); err != nil {
		return "", fmt.Errorf("seed demo: %w", err)
	}
	if exists > 0 {
		return "ENG-DEMO", nil
	}

	year := now.Year()
	stamp := now.UTC().Format(time.RFC3339)
	stmts := []struct {
		query string
		args  []any
	}{
		{
			`INSERT INTO engagements (id, company_name, name, client_contact, industry, status, locale, business_context, goals, start_date, created_at, updated_at)
			 VALUES ('ENG-DEMO', 'Cliente Demo', 'Diagnóstico + Reporte + KPI (Demo)', 'demo@cliente.cl', 'Servicios', 'ACTIVE', 'es',
			 'Empresa de servicios a la minería con 3 faenas activas.', 'Ordenar la estrategia y medir lo que importa.', ?, ?, ?)`,
			[]any{fmt.Sprintf("%d-01-01", year), stamp, stamp},
		},
		{
			`INSERT INTO kpis (id, engagement_id, name_es, name_en, perspective, frequency, direction, basis, unit, target_value, owner_email)
			 VALUES ('KPI-DEMO-1', 'ENG-DEMO', 'Margen EBITDA', 'EBITDA margin', 'FINANCIAL', 'MONTHLY', 'HIGHER_IS_BETTER', 'A', '%', 18, 'cfo@cliente.cl')`, nil,
		},
		{
			`INSERT INTO kpis (id, engagement_id, name_es, name_en, perspective, frequency, direction, basis, unit, target_value)
			 VALUES ('KPI-DEMO-2', 'ENG-DEMO', 'Incidentes HSEC', 'HSEC incidents', 'INTERNAL_PROCESS', 'MONTHLY', 'LOWER_IS_BETTER', 'L', 'incidentes', 6)`, nil,
		},
		{
			`INSERT INTO kpis (id, engagement_id, name_es, name_en, perspective, frequency, direction, basis, unit, target_value)
			 VALUES ('KPI-DEMO-3', 'ENG-DEMO', 'NPS clientes', 'Client NPS', 'CUSTOMER', 'QUARTERLY', 'HIGHER_IS_BETTER', 'A', 'pts', 40)`, nil,
		},
		{
			`INSERT INTO initiatives (id, engagement_id, title, owner, perspective, kpi_id, status, impact, effort, risk, progress_pct)
			 VALUES ('INIT-DEMO-1', 'ENG-DEMO', 'Estandarizar reporte semanal de faena', 'Jefe de operaciones', 'INTERNAL_PROCESS', 'KPI-DEMO-2', 'IN_PROGRESS', 5, 2, 2, 40)`, nil,
		},
		{
			`INSERT INTO initiatives (id, engagement_id, title, owner, perspective, kpi_id, status, impact, effort, risk, progress_pct)
			 VALUES ('INIT-DEMO-2', 'ENG-DEMO', 'Revisión de pricing por contrato', 'Gerente comercial', 'FINANCIAL', 'KPI-DEMO-1', 'NOT_STARTED', 4, 3, 3, 0)`, nil,
		},
		{
			`INSERT INTO faenas (id, engagement_id, name, code) VALUES ('FAENA-DEMO-1', 'ENG-DEMO', 'Faena Norte', 'FN')`, nil,
		},
		{
			`INSERT INTO risks (id, engagement_id, description, owner, mitigation, probability, impact, status)
			 VALUES ('RISK-DEMO-1', 'ENG-DEMO', 'Rotación de supervisores en faena', 'RRHH', 'Plan de retención y backups', 4, 4, 'OPEN')`, nil,
		},
	}
	for _, s := range stmts {
		if _, err := database.Exec(s.query, s.args...); err != nil {
			return "", fmt.Errorf("seed demo: %w", err)
		}
	}

	margins := []float64{15, 17, 19, 16, 18, 20}
	incidents := []float64{1, 0, 2, 1, 0, 1}
	for i := range margins {
		period := fmt.Sprintf("%d-%02d", year, i+1)
		for _, v := range []struct {
			kpi   string
			value float64
		}{{"KPI-DEMO-1", margins[i]}, {"KPI-DEMO-2", incidents[i]}} {
			_, err := database.Exec(
				`INSERT INTO kpi_values (id, kpi_id, period_key, scope_key, value) VALUES (?, ?, ?, 'GLOBAL', ?)`,
				fmt.Sprintf("VAL-DEMO-%s-%s", v.kpi, period), v.kpi, period, v.value,
			)
			if err != nil {
				return "", fmt.Errorf("seed demo values: %w", err)
			}
		}
	}

	return "ENG-DEMO", nil
}
