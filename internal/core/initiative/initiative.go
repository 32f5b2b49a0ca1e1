// Package initiative contains the pure business logic for the initiative
// portfolio: creation guards, prioritisation and check-in snapshots.
package initiative

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/example/see/internal/core/textnorm"
)

// Initiative statuses.
const (
	StatusNotStarted = "NOT_STARTED"
	StatusInProgress = "IN_PROGRESS"
	StatusBlocked    = "BLOCKED"
	StatusDone       = "DONE"
	StatusCancelled  = "CANCELLED"
)

// NormalizeStatus maps canonical values and Spanish labels onto statuses.
func NormalizeStatus(raw string) (string, bool) {
	switch textnorm.Fold(raw) {
	case "", "not_started", "not started", "por iniciar", "pendiente":
		return StatusNotStarted, true
	case "in_progress", "in progress", "en curso", "en progreso":
		return StatusInProgress, true
	case "blocked", "bloqueada", "bloqueado":
		return StatusBlocked, true
	case "done", "lista", "listo", "cerrada", "completada", "terminada":
		return StatusDone, true
	case "cancelled", "canceled", "cancelada":
		return StatusCancelled, true
	}
	return "", false
}

// ClampProgress rounds v and clamps it to 0..100.
func ClampProgress(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return int(math.Max(0, math.Min(100, math.Round(v))))
}

// SplitEvidence splits a comma or newline separated list of URLs,
// dropping blanks.
func SplitEvidence(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == '\n' })
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// PriorityScore ranks initiatives: impact counts double, effort and half
// the risk count against. Missing ratings count as 0.
func PriorityScore(impact, effort, risk int) float64 {
	return float64(impact)*2 - float64(effort) - float64(risk)/2
}

// Snapshot is the check-in record of one initiative for a period.
type Snapshot struct {
	InitiativeID string   `json:"initiativeId"`
	ProgressPct  *int     `json:"progressPct"`
	Status       string   `json:"status,omitempty"`
	Notes        string   `json:"notes,omitempty"`
	Blockers     string   `json:"blockers,omitempty"`
	EvidenceURLs []string `json:"evidenceUrls"`
}

// CheckinSnapshot is what is stored under the check-in progress key.
type CheckinSnapshot struct {
	PeriodKey string     `json:"periodKey"`
	ScopeKey  string     `json:"scopeKey"`
	SavedAt   string     `json:"savedAt"`
	Items     []Snapshot `json:"items"`
}

// ByID indexes the snapshot items.
func (c CheckinSnapshot) ByID() map[string]Snapshot {
	out := make(map[string]Snapshot, len(c.Items))
	for _, it := range c.Items {
		out[it.InitiativeID] = it
	}
	return out
}

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// CreateInitiativeContext provides context for initiative creation guards.
type CreateInitiativeContext struct {
	EngagementID     string
	EngagementExists bool
	Title            string
	KpiID            string // optional
	KpiInEngagement  bool   // only checked if KpiID != ""
	StartDate        string // YYYY-MM-DD, optional
	EndDate          string // YYYY-MM-DD, optional
	Impact           int
	Effort           int
	Risk             int
}

// CanCreateInitiative evaluates whether an initiative can be created or updated.
// Rules:
// - Engagement must exist
// - Title is required
// - Linked KPI must belong to the engagement
// - Dates must parse and end must not precede start
// - Impact, effort and risk are 0 (unset) or 1..5
func CanCreateInitiative(ctx CreateInitiativeContext) GuardResult {
	if !ctx.EngagementExists {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("engagement %s not found", ctx.EngagementID)}
	}
	if strings.TrimSpace(ctx.Title) == "" {
		return GuardResult{Allowed: false, Reason: "initiative title is required"}
	}
	if ctx.KpiID != "" && !ctx.KpiInEngagement {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("kpi %s does not belong to engagement %s", ctx.KpiID, ctx.EngagementID)}
	}
	for _, d := range []string{ctx.StartDate, ctx.EndDate} {
		if d == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return GuardResult{Allowed: false, Reason: fmt.Sprintf("invalid date %q: want YYYY-MM-DD", d)}
		}
	}
	if ctx.StartDate != "" && ctx.EndDate != "" && ctx.EndDate < ctx.StartDate {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("end date %s is before start date %s", ctx.EndDate, ctx.StartDate)}
	}
	ratings := []struct {
		name string
		v    int
	}{{"impact", ctx.Impact}, {"effort", ctx.Effort}, {"risk", ctx.Risk}}
	for _, r := range ratings {
		if r.v < 0 || r.v > 5 {
			return GuardResult{Allowed: false, Reason: fmt.Sprintf("%s must be between 1 and 5 (got %d)", r.name, r.v)}
		}
	}
	return GuardResult{Allowed: true}
}
