// Package wizard models the ten-step engagement wizard and the progress
// keys used by periodic check-ins.
package wizard

import (
	"fmt"
	"strings"
)

// Progress statuses.
const (
	StatusPending    = "PENDING"
	StatusInProgress = "IN_PROGRESS"
	StatusDone       = "DONE"
)

// Step is one wizard step.
type Step struct {
	Number  int
	Key     string
	Phase   string
	LabelEs string
	LabelEn string
}

// Label returns the step label for locale.
func (s Step) Label(locale string) string {
	if locale == "en" {
		return s.LabelEn
	}
	return s.LabelEs
}

// Phases in wizard order.
var Phases = []string{"Kickoff", "Diagnostic", "Strategy", "Portfolio", "Roadmap", "Governance", "Report"}

// DiagnosisKey groups the survey, 360 and interview sub-steps.
const DiagnosisKey = "step-2-diagnostico-360"

// Steps lists the wizard steps in order.
var Steps = []Step{
	{1, "step-0-engagement", "Kickoff", "Ficha cliente", "Client sheet"},
	{2, "step-1-data-room", "Kickoff", "Data room", "Data room"},
	{3, DiagnosisKey, "Diagnostic", "Diagnóstico", "Diagnosis"},
	{4, "step-3-estrategia", "Strategy", "Visión/Misión/Objetivos", "Vision/Mission/Objectives"},
	{5, "step-4-foda", "Strategy", "FODA", "SWOT"},
	{6, "step-5-bsc", "Strategy", "KPIs", "KPIs"},
	{7, "step-6-portafolio", "Portfolio", "Portafolio", "Portfolio"},
	{8, "step-7-roadmap", "Roadmap", "Roadmap", "Roadmap"},
	{9, "step-8-gobernanza", "Governance", "Gobernanza", "Governance"},
	{10, "step-9-reporte", "Report", "Reporte", "Report"},
}

var subSteps = map[string]string{
	"step-2-encuesta":     DiagnosisKey,
	"step-2-diagnostico":  DiagnosisKey,
	"step-2b-entrevistas": DiagnosisKey,
	DiagnosisKey:          DiagnosisKey,
}

// CanonicalStepKey maps sub-step keys onto their wizard step. ok is false
// for keys that are not wizard steps.
func CanonicalStepKey(key string) (string, bool) {
	key = strings.TrimSpace(key)
	if k, ok := subSteps[key]; ok {
		return k, true
	}
	for _, s := range Steps {
		if s.Key == key {
			return key, true
		}
	}
	return "", false
}

// StepByKey returns the step for key, accepting sub-step keys.
func StepByKey(key string) (Step, bool) {
	canon, ok := CanonicalStepKey(key)
	if !ok {
		return Step{}, false
	}
	for _, s := range Steps {
		if s.Key == canon {
			return s, true
		}
	}
	return Step{}, false
}

// Next returns the step after key; ok is false at the last step.
func Next(key string) (Step, bool) {
	s, ok := StepByKey(key)
	if !ok || s.Number >= len(Steps) {
		return Step{}, false
	}
	return Steps[s.Number], true
}

// Previous returns the step before key; ok is false at the first step.
func Previous(key string) (Step, bool) {
	s, ok := StepByKey(key)
	if !ok || s.Number <= 1 {
		return Step{}, false
	}
	return Steps[s.Number-2], true
}

// ValidStatus reports whether status is a progress status.
func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// StepState is one line of the wizard overview.
type StepState struct {
	Step   Step
	Status string
}

// Overview summarises wizard progress.
type Overview struct {
	Steps         []StepState
	Done          int
	CompletionPct int
	NextStep      *Step
}

// BuildOverview derives per-step status from stored progress keyed by step
// key. Sub-step entries count towards their step: any DONE sub-step with no
// pending siblings makes the step DONE, any started entry makes it IN_PROGRESS.
func BuildOverview(progress map[string]string) Overview {
	merged := map[string]string{}
	for key, status := range progress {
		canon, ok := CanonicalStepKey(key)
		if !ok {
			continue
		}
		merged[canon] = mergeStatus(merged[canon], status)
	}

	ov := Overview{Steps: make([]StepState, 0, len(Steps))}
	for _, s := range Steps {
		status := merged[s.Key]
		if status == "" {
			status = StatusPending
		}
		ov.Steps = append(ov.Steps, StepState{Step: s, Status: status})
		if status == StatusDone {
			ov.Done++
		} else if ov.NextStep == nil {
			step := s
			ov.NextStep = &step
		}
	}
	ov.CompletionPct = ov.Done * 100 / len(Steps)
	return ov
}

func mergeStatus(current, next string) string {
	switch {
	case current == "":
		return next
	case current == next:
		return current
	case current == StatusPending && next == StatusDone, current == StatusDone && next == StatusPending:
		return StatusInProgress
	case current == StatusInProgress || next == StatusInProgress:
		return StatusInProgress
	}
	return next
}

// Check-in progress key prefixes.
const (
	CheckinInitiatives = "checkin-initiatives"
	CheckinSummary     = "checkin-summary"
	DatapackOps        = "datapack-ops"
	DatapackExec       = "datapack-exec"
)

// CheckinSteps lists the progress-backed check-in steps in display order.
var CheckinSteps = []string{CheckinInitiatives, CheckinSummary, DatapackOps, DatapackExec}

// CheckinKey builds the wizard progress key for a check-in step.
func CheckinKey(prefix, scopeKey, periodKey string) string {
	return fmt.Sprintf("%s:%s:%s", prefix, scopeKey, periodKey)
}
