package kpi

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/example/see/internal/core/textnorm"
)

var numericPattern = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// NormalizeNumber accepts "10", "10.5" and "10,5" and returns the value.
// ok is false for anything else.
func NormalizeNumber(raw string) (float64, bool) {
	s := strings.Join(strings.Fields(raw), "")
	if s == "" {
		return 0, false
	}
	s = strings.Replace(s, ",", ".", 1)
	if !numericPattern.MatchString(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !isFinite(v) {
		return 0, false
	}
	return v, true
}

// ParseBasis maps "A", "L", "YTD", "LTM", "TTM", "AVG" spellings.
func ParseBasis(raw string) (Basis, bool) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.ReplaceAll(strings.Join(strings.Fields(s), ""), "_", "-")
	switch {
	case s == "":
		return "", false
	case s == "A":
		return BasisYTD, true
	case s == "L":
		return BasisTTM, true
	case strings.Contains(s, "YTD"), strings.Contains(s, "AVG"):
		return BasisYTD, true
	case strings.Contains(s, "LTM"), strings.Contains(s, "TTM"):
		return BasisTTM, true
	}
	return "", false
}

var perspectiveAliases = map[string]Perspective{
	"financiera":                PerspectiveFinancial,
	"finanzas":                  PerspectiveFinancial,
	"financial":                 PerspectiveFinancial,
	"fin":                       PerspectiveFinancial,
	"financiera/operacional":    PerspectiveFinancial,
	"financiera / operacional":  PerspectiveFinancial,
	"operacional":               PerspectiveFinancial,
	"operacional/financiera":    PerspectiveFinancial,
	"cliente":                   PerspectiveCustomer,
	"clientes":                  PerspectiveCustomer,
	"customer":                  PerspectiveCustomer,
	"client":                    PerspectiveCustomer,
	"proceso_interno":           PerspectiveInternalProcess,
	"procesos_internos":         PerspectiveInternalProcess,
	"proceso interno":           PerspectiveInternalProcess,
	"procesos internos":         PerspectiveInternalProcess,
	"procesos":                  PerspectiveInternalProcess,
	"internal process":          PerspectiveInternalProcess,
	"internal_process":          PerspectiveInternalProcess,
	"aprendizaje_y_crecimiento": PerspectiveLearningGrowth,
	"aprendizaje y crecimiento": PerspectiveLearningGrowth,
	"learning & growth":         PerspectiveLearningGrowth,
	"learning and growth":       PerspectiveLearningGrowth,
	"learning_growth":           PerspectiveLearningGrowth,
}

// ParsePerspective maps canonical names and common Spanish/English labels.
func ParsePerspective(raw string) (Perspective, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}
	up := Perspective(strings.ToUpper(s))
	for _, p := range Perspectives {
		if p == up {
			return p, true
		}
	}
	p, ok := perspectiveAliases[textnorm.Fold(s)]
	return p, ok
}

// GuessPerspective is the lenient form of ParsePerspective used by imports:
// labels are matched by fragment and anything unrecognised is an internal
// process initiative.
func GuessPerspective(raw string) Perspective {
	if p, ok := ParsePerspective(raw); ok {
		return p
	}
	s := textnorm.Fold(raw)
	for _, g := range perspectiveFragments {
		for _, frag := range g.fragments {
			if strings.Contains(s, frag) {
				return g.perspective
			}
		}
	}
	return PerspectiveInternalProcess
}

// perspectiveFragments is checked in order: whole words first, then stems.
var perspectiveFragments = []struct {
	perspective Perspective
	fragments   []string
}{
	{PerspectiveInternalProcess, []string{"internal", "proceso", "operacion"}},
	{PerspectiveLearningGrowth, []string{"learning", "aprendiz", "equipo", "crecimiento"}},
	{PerspectiveFinancial, []string{"fin"}},
	{PerspectiveCustomer, []string{"clie"}},
	{PerspectiveInternalProcess, []string{"proc", "oper"}},
	{PerspectiveLearningGrowth, []string{"equip", "aprend"}},
}

// ParseFrequency maps canonical names and free-text descriptions such as
// "mensual" or "a demanda".
func ParseFrequency(raw string) (Frequency, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}
	switch f := Frequency(strings.ToUpper(s)); f {
	case FrequencyWeekly, FrequencyMonthly, FrequencyQuarterly, FrequencyYearly, FrequencyAdhoc:
		return f, true
	}

	n := textnorm.Fold(s)
	has := func(subs ...string) bool {
		for _, sub := range subs {
			if strings.Contains(n, sub) {
				return true
			}
		}
		return false
	}
	switch {
	case has("semanal", "weekly", "semana"):
		return FrequencyWeekly, true
	case has("trimestral", "quarterly", "trimestre"):
		// before monthly: "trimestral" contains "mes"
		return FrequencyQuarterly, true
	case has("mensual", "monthly", "mes"):
		return FrequencyMonthly, true
	case has("anual", "yearly", "ano"):
		return FrequencyYearly, true
	case has("a demanda", "adhoc", "ad hoc", "ad-hoc"):
		return FrequencyAdhoc, true
	}
	return "", false
}

// ParseDirection maps canonical names, arrows and "más alto es mejor" style labels.
func ParseDirection(raw string) (Direction, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}
	switch d := Direction(strings.ToUpper(s)); d {
	case HigherIsBetter, LowerIsBetter:
		return d, true
	}
	if strings.Contains(s, "↓") {
		return LowerIsBetter, true
	}
	if strings.Contains(s, "↑") {
		return HigherIsBetter, true
	}
	switch textnorm.Fold(s) {
	case "mas alto es mejor", "higher is better", "higher", "up":
		return HigherIsBetter, true
	case "mas bajo es mejor", "lower is better", "lower", "down":
		return LowerIsBetter, true
	}
	return "", false
}
