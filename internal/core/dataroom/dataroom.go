// Package dataroom holds the master checklist of client inputs (Annex A.2)
// and the completion rules for an engagement's data room.
package dataroom

import "strings"

// Areas of the data room.
const (
	AreaGovernance = "GOVERNANCE"
	AreaCommercial = "COMMERCIAL"
	AreaOperations = "OPERATIONS"
	AreaHSEC       = "HSEC"
	AreaDataTech   = "DATA_TECH"
	AreaFinance    = "FINANCE"
)

// Areas in checklist order.
var Areas = []string{AreaGovernance, AreaCommercial, AreaOperations, AreaHSEC, AreaDataTech, AreaFinance}

// Item statuses.
const (
	StatusPending       = "PENDING"
	StatusPartial       = "PARTIAL"
	StatusReceived      = "RECEIVED"
	StatusNotApplicable = "NOT_APPLICABLE"
)

// ValidStatus reports whether s is a data room item status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusPartial, StatusReceived, StatusNotApplicable:
		return true
	}
	return false
}

// MasterItem is one row of the master checklist.
type MasterItem struct {
	Area        string
	Code        string
	Title       string
	Description string
}

// Master is copied into each engagement when its checklist is initialised.
var Master = []MasterItem{
	{AreaGovernance, "A.2.1", "Organigrama y roles", "Organigrama actual y descripción de roles clave (incluye subcontratos)."},
	{AreaGovernance, "A.2.2", "Actas de Directorio", "Actas o acuerdos del Directorio de los últimos 6–12 meses."},
	{AreaGovernance, "A.2.3", "Stakeholders críticos", "Lista de stakeholders críticos (clientes, mandantes, contratistas, partners)."},

	{AreaCommercial, "A.2.4", "Listado de contratos", "Cliente/faena, modalidad, alcance, monto, duración, renovación, margen estimado, competidor."},
	{AreaCommercial, "A.2.5", "Pipeline comercial", "Oportunidad, etapa, probabilidad, decisores, fecha estimada, win/loss."},
	{AreaCommercial, "A.2.6", "Propuestas ganadas y perdidas", "Tres propuestas ganadas y tres perdidas, idealmente con feedback del cliente."},
	{AreaCommercial, "A.2.7", "Material comercial", "One-pager, presentaciones, casos de éxito y base de precios vigente."},

	{AreaOperations, "A.2.8", "Plan de ejecución", "Plan semanal/mensual de ejecución: frentes de trabajo, dotación, equipos."},
	{AreaOperations, "A.2.9", "Registro de fallas y retrabajos", "Registro de fallas, retrabajos y emergencias de los últimos 12 meses."},
	{AreaOperations, "A.2.10", "Procedimientos operativos", "SOP (Standard Operating Procedure) u otros procedimientos si existen."},
	{AreaOperations, "A.2.11", "Capacidad real", "Capacidad real (m²/mes por dotación/equipos) y limitantes: clima, logística, turnos, permisos."},

	{AreaHSEC, "A.2.12", "Matriz de riesgos HSEC", "Matriz de riesgos HSEC y controles críticos asociados."},
	{AreaHSEC, "A.2.13", "Incidentes y casi-incidentes", "Incidentes y casi-incidentes de los últimos 12 meses y acciones correctivas."},
	{AreaHSEC, "A.2.14", "Evidencias de cumplimiento HSEC", "Inducciones, permisos, checklists, auditorías del mandante u otros."},
	{AreaHSEC, "A.2.15", "KPIs HSEC", "KPIs HSEC (TRIFR u equivalente) si existen."},

	{AreaDataTech, "A.2.16", "Catálogo de datos", "Qué se mide, cómo, frecuencia, calidad y trazabilidad de los datos."},
	{AreaDataTech, "A.2.17", "Reportes existentes", "Ejemplos de reportes enviados: operación versus alta dirección."},
	{AreaDataTech, "A.2.18", "Backlog de mejoras de plataforma", "Backlog de mejoras de plataforma y límites actuales (personas, sensores, conectividad)."},

	{AreaFinance, "A.2.19", "EERR histórico", "Estado de Resultados mensual de los últimos 12–24 meses, idealmente por línea de negocio."},
	{AreaFinance, "A.2.20", "Margen por contrato", "Margen por contrato (aunque sea aproximado) y costos directos asociados."},
	{AreaFinance, "A.2.21", "Ciclo de caja", "Días de cobro/pago y política de facturación (hitos, anticipos, retenciones)."},
	{AreaFinance, "A.2.22", "Proyecciones internas", "Proyecciones internas si existen (presupuesto, forecast, escenarios)."},
}

// Counts summarises checklist progress.
type Counts struct {
	Total         int
	Received      int
	Partial       int
	Pending       int
	NotApplicable int
}

// Applicable is the number of items that are expected from the client.
func (c Counts) Applicable() int {
	return c.Total - c.NotApplicable
}

// CompletionPct is received items over applicable items, 0 when nothing applies.
func (c Counts) CompletionPct() int {
	if c.Applicable() <= 0 {
		return 0
	}
	return c.Received * 100 / c.Applicable()
}

// Count tallies statuses. Unknown statuses count as pending.
func Count(statuses []string) Counts {
	c := Counts{Total: len(statuses)}
	for _, s := range statuses {
		switch strings.ToUpper(s) {
		case StatusReceived:
			c.Received++
		case StatusPartial:
			c.Partial++
		case StatusNotApplicable:
			c.NotApplicable++
		default:
			c.Pending++
		}
	}
	return c
}
