// Package weekly contains the rules for the weekly site ("faena") report:
// the tokenized link window, the report payload and its validation.
package weekly

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// Report statuses.
const (
	StatusDraft     = "DRAFT"
	StatusSubmitted = "SUBMITTED"
)

// Semaphore values.
const (
	Green  = "GREEN"
	Yellow = "YELLOW"
	Red    = "RED"
)

// Link expiry bounds, in days.
const (
	DefaultExpiryDays = 14
	MaxExpiryDays     = 60
	MaxComment        = 800
	maxShortText      = 200
)

// Enumerations accepted in the payload.
var (
	Turns             = []string{"DAY", "NIGHT", "MIXED", "NA"}
	DeviationCauses   = []string{"WEATHER", "CLIENT_RESTRICTION", "EQUIPMENT", "INPUTS", "HSEC", "COORDINATION", "OTHER"}
	StoppageCauses    = []string{"EQUIPMENT", "INPUTS", "CLIENT", "SAFETY", "WEATHER", "OTHER"}
	CorrectiveActions = []string{"YES", "NO", "NA"}
	ClientReportState = []string{"ON_TIME", "LATE", "NOT_APPLICABLE"}
	ClientLateCauses  = []string{"MISSING_DATA", "INTERNAL_APPROVAL", "CLIENT", "SYSTEM_TECH", "OTHER"}
	DataPackStates    = []string{"UP_TO_DATE", "LATE", "NOT_APPLICABLE"}
	Semaphores        = []string{Green, Yellow, Red}
	SupportTypes      = []string{"PURCHASING", "MAINTENANCE", "HSEC", "DATA_TECH", "COMMERCIAL_CLIENT", "OTHER"}
)

// ErrInvalidDate is returned for unparseable week dates.
var ErrInvalidDate = errors.New("invalid date")

// ParseDate accepts YYYY-MM-DD or an RFC 3339 timestamp and returns the
// start of that day in UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q", ErrInvalidDate, s)
	}
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

// WeekKey is the stable YYYY-MM-DD key of the week that starts on start.
func WeekKey(start time.Time) string {
	return start.UTC().Format("2006-01-02")
}

// Window is the resolved week and expiry of a report link.
type Window struct {
	Start     time.Time
	End       time.Time
	ExpiresAt time.Time
}

// ResolveWindow parses the week dates of a link request. An empty end
// defaults to start+6 days; expiry days must be 1..60, with 0 meaning the
// default of 14.
func ResolveWindow(start, end string, expiresInDays int, now time.Time) (Window, error) {
	s, err := ParseDate(start)
	if err != nil {
		return Window{}, err
	}
	e := s.AddDate(0, 0, 6)
	if strings.TrimSpace(end) != "" {
		if e, err = ParseDate(end); err != nil {
			return Window{}, err
		}
	}
	if e.Before(s) {
		return Window{}, fmt.Errorf("week end %s is before week start %s", WeekKey(e), WeekKey(s))
	}
	days, err := ExpiryDays(expiresInDays)
	if err != nil {
		return Window{}, err
	}
	return Window{Start: s, End: e, ExpiresAt: now.AddDate(0, 0, days)}, nil
}

// ExpiryDays validates the link lifetime. Zero selects the default.
func ExpiryDays(days int) (int, error) {
	switch {
	case days == 0:
		return DefaultExpiryDays, nil
	case days < 1 || days > MaxExpiryDays:
		return 0, fmt.Errorf("expiresInDays must be between 1 and %d (got %d)", MaxExpiryDays, days)
	}
	return days, nil
}

// Payload is the body of a weekly site report. Nil fields were not answered.
type Payload struct {
	AdminName  *string `json:"adminName,omitempty"`
	AdminEmail *string `json:"adminEmail,omitempty"`

	Headcount *int    `json:"dotacionPromedio,omitempty"`
	Turn      *string `json:"turn,omitempty"`

	M2Planned            *float64 `json:"m2Planificados,omitempty"`
	M2Executed           *float64 `json:"m2Ejecutados,omitempty"`
	DeviationCauses      []string `json:"causasDesvio,omitempty"`
	DeviationCausesOther *string  `json:"causasDesvioOther,omitempty"`

	ShiftsPlanned   *int     `json:"turnosPlanificados,omitempty"`
	ShiftsDelivered *int     `json:"turnosEntregados,omitempty"`
	Stoppages       *bool    `json:"detencionesHubo,omitempty"`
	StoppageEvents  *int     `json:"detencionesEventos,omitempty"`
	StoppageHours   *float64 `json:"detencionesHoras,omitempty"`
	StoppageCause   *string  `json:"detencionCausaPrincipal,omitempty"`

	NoRework               *bool   `json:"sinRetrabajos,omitempty"`
	NoNonConformities      *bool   `json:"sinNoConformidades,omitempty"`
	ReworkCount            *int    `json:"retrabajosN,omitempty"`
	NonConformityCount     *int    `json:"noConformidadesN,omitempty"`
	CorrectiveActionLogged *string `json:"accionCorrectivaRegistrada,omitempty"`

	ManHours           *float64 `json:"horasHombre,omitempty"`
	NearMisses         *int     `json:"incidentesCasi,omitempty"`
	RecordableInjuries *int     `json:"lesionesRegistrables,omitempty"`
	HsecActionsClosed  *int     `json:"accionesHsecCerradas,omitempty"`
	NoHsecEvents       *bool    `json:"sinEventosHsec,omitempty"`
	HsecEventRef       *string  `json:"referenciaEventoHsec,omitempty"`

	ClientReportStatus    *string `json:"reporteClienteEstado,omitempty"`
	ClientReportLateCause *string `json:"reporteClienteAtrasoCausa,omitempty"`
	DataPackStatus        *string `json:"dataPackMesEstado,omitempty"`

	ContractAnnexesOK *bool `json:"contratoAnexosOk,omitempty"`
	ClosurePlanOK     *bool `json:"planCierreOk,omitempty"`
	EvidenceOK        *bool `json:"evidenciasOk,omitempty"`
	ReportsArchivedOK *bool `json:"reportesArchivadosOk,omitempty"`
	StoppageLogOK     *bool `json:"bitacoraDetencionesOk,omitempty"`
	QualityLogOK      *bool `json:"registroCalidadOk,omitempty"`

	Semaphore         string   `json:"semaforo"`
	NeedsSupport      *bool    `json:"requiereApoyo,omitempty"`
	SupportTypes      []string `json:"tiposApoyo,omitempty"`
	SupportTypesOther *string  `json:"tiposApoyoOther,omitempty"`

	Comment *string `json:"comentario,omitempty"`
}

// Validate checks enum values, ranges and the conditional rules: a week
// with stoppages needs events, hours and a main cause; a late client
// report needs its cause.
func (p Payload) Validate() error {
	if !oneOf(p.Semaphore, Semaphores) {
		return fmt.Errorf("semaforo must be one of %s", strings.Join(Semaphores, ", "))
	}

	enums := []struct {
		field string
		v     *string
		set   []string
	}{
		{"turn", p.Turn, Turns},
		{"detencionCausaPrincipal", p.StoppageCause, StoppageCauses},
		{"accionCorrectivaRegistrada", p.CorrectiveActionLogged, CorrectiveActions},
		{"reporteClienteEstado", p.ClientReportStatus, ClientReportState},
		{"reporteClienteAtrasoCausa", p.ClientReportLateCause, ClientLateCauses},
		{"dataPackMesEstado", p.DataPackStatus, DataPackStates},
	}
	for _, e := range enums {
		if e.v != nil && !oneOf(*e.v, e.set) {
			return fmt.Errorf("%s: unknown value %q", e.field, *e.v)
		}
	}
	for _, c := range p.DeviationCauses {
		if !oneOf(c, DeviationCauses) {
			return fmt.Errorf("causasDesvio: unknown value %q", c)
		}
	}
	for _, c := range p.SupportTypes {
		if !oneOf(c, SupportTypes) {
			return fmt.Errorf("tiposApoyo: unknown value %q", c)
		}
	}

	ints := []struct {
		field string
		v     *int
	}{
		{"dotacionPromedio", p.Headcount},
		{"turnosPlanificados", p.ShiftsPlanned},
		{"turnosEntregados", p.ShiftsDelivered},
		{"detencionesEventos", p.StoppageEvents},
		{"retrabajosN", p.ReworkCount},
		{"noConformidadesN", p.NonConformityCount},
		{"incidentesCasi", p.NearMisses},
		{"lesionesRegistrables", p.RecordableInjuries},
		{"accionesHsecCerradas", p.HsecActionsClosed},
	}
	for _, f := range ints {
		if f.v != nil && *f.v < 0 {
			return fmt.Errorf("%s must not be negative", f.field)
		}
	}
	floats := []struct {
		field string
		v     *float64
	}{
		{"m2Planificados", p.M2Planned},
		{"m2Ejecutados", p.M2Executed},
		{"detencionesHoras", p.StoppageHours},
		{"horasHombre", p.ManHours},
	}
	for _, f := range floats {
		if f.v != nil && *f.v < 0 {
			return fmt.Errorf("%s must not be negative", f.field)
		}
	}

	texts := []struct {
		field string
		v     *string
		max   int
	}{
		{"adminName", p.AdminName, 120},
		{"causasDesvioOther", p.DeviationCausesOther, maxShortText},
		{"referenciaEventoHsec", p.HsecEventRef, maxShortText},
		{"tiposApoyoOther", p.SupportTypesOther, maxShortText},
		{"comentario", p.Comment, MaxComment},
	}
	for _, f := range texts {
		if f.v != nil && len([]rune(strings.TrimSpace(*f.v))) > f.max {
			return fmt.Errorf("%s exceeds %d characters", f.field, f.max)
		}
	}
	if p.AdminEmail != nil && strings.TrimSpace(*p.AdminEmail) != "" {
		if _, err := mail.ParseAddress(strings.TrimSpace(*p.AdminEmail)); err != nil {
			return fmt.Errorf("adminEmail is not a valid address")
		}
	}

	if p.Stoppages != nil && *p.Stoppages {
		if p.StoppageEvents == nil || p.StoppageHours == nil || p.StoppageCause == nil || *p.StoppageCause == "" {
			return errors.New("stoppages reported: events, hours and main cause are required")
		}
	}
	if p.ClientReportStatus != nil && *p.ClientReportStatus == "LATE" {
		if p.ClientReportLateCause == nil || *p.ClientReportLateCause == "" {
			return errors.New("client report is late: a cause is required")
		}
	}
	return nil
}

// M2CompliancePct is executed over planned m², nil when planned is unknown or zero.
func (p Payload) M2CompliancePct() *float64 {
	return ratioPct(p.M2Executed, p.M2Planned)
}

// ShiftCompliancePct is delivered over planned shifts.
func (p Payload) ShiftCompliancePct() *float64 {
	if p.ShiftsPlanned == nil || p.ShiftsDelivered == nil {
		return nil
	}
	d, pl := float64(*p.ShiftsDelivered), float64(*p.ShiftsPlanned)
	return ratioPct(&d, &pl)
}

func ratioPct(num, den *float64) *float64 {
	if num == nil || den == nil || *den == 0 {
		return nil
	}
	v := *num / *den * 100
	return &v
}

func oneOf(v string, set []string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
