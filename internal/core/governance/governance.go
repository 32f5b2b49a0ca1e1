// Package governance contains the rules for action items, decisions and
// the RACI matrix.
package governance

import (
	"fmt"
	"strings"
	"time"

	"github.com/example/see/internal/core/textnorm"
)

// Action item statuses.
const (
	ActionTodo       = "TODO"
	ActionInProgress = "IN_PROGRESS"
	ActionBlocked    = "BLOCKED"
	ActionDone       = "DONE"
)

// Decision statuses.
const (
	DecisionProposed = "PROPOSED"
	DecisionApproved = "APPROVED"
	DecisionRejected = "REJECTED"
	DecisionDeferred = "DEFERRED"
)

// NormalizeActionStatus maps canonical values and the Spanish board labels
// ("Por iniciar", "En curso", "Bloqueada", "Cerrada") onto action statuses.
func NormalizeActionStatus(raw string) (string, bool) {
	switch textnorm.Fold(raw) {
	case "", "todo", "por iniciar", "pendiente", "abierta":
		return ActionTodo, true
	case "in_progress", "in progress", "en curso", "en progreso":
		return ActionInProgress, true
	case "blocked", "bloqueada", "bloqueado":
		return ActionBlocked, true
	case "done", "cerrada", "cerrado", "completada", "hecho":
		return ActionDone, true
	}
	return "", false
}

// ActionStatusLabel returns the Spanish board label of a status.
func ActionStatusLabel(status string) string {
	switch status {
	case ActionInProgress:
		return "En curso"
	case ActionBlocked:
		return "Bloqueada"
	case ActionDone:
		return "Cerrada"
	}
	return "Por iniciar"
}

// IsOverdue reports whether an action with dueDate (YYYY-MM-DD) is late on today.
func IsOverdue(status, dueDate string, today time.Time) bool {
	if status == ActionDone || dueDate == "" {
		return false
	}
	due, err := time.Parse("2006-01-02", dueDate)
	if err != nil {
		return false
	}
	y, m, d := today.Date()
	return due.Before(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// IsUpcoming reports whether an open action is due within days of today.
func IsUpcoming(status, dueDate string, today time.Time, days int) bool {
	if status == ActionDone || dueDate == "" {
		return false
	}
	due, err := time.Parse("2006-01-02", dueDate)
	if err != nil {
		return false
	}
	y, m, d := today.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return !due.Before(start) && !due.After(start.AddDate(0, 0, days))
}

// NormalizeDecisionStatus maps canonical and Spanish decision statuses.
func NormalizeDecisionStatus(raw string) (string, bool) {
	switch textnorm.Fold(raw) {
	case "", "proposed", "propuesta", "pendiente":
		return DecisionProposed, true
	case "approved", "aprobada":
		return DecisionApproved, true
	case "rejected", "rechazada":
		return DecisionRejected, true
	case "deferred", "postergada", "diferida":
		return DecisionDeferred, true
	}
	return "", false
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

// CreateActionContext provides context for action item creation guards.
type CreateActionContext struct {
	EngagementID     string
	EngagementExists bool
	Task             string
	DueDate          string
}

// CanCreateAction evaluates whether an action item can be created.
// Rules:
// - Engagement must exist
// - Task is required
// - Due date, when given, must be YYYY-MM-DD
func CanCreateAction(ctx CreateActionContext) GuardResult {
	if !ctx.EngagementExists {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("engagement %s not found", ctx.EngagementID)}
	}
	if strings.TrimSpace(ctx.Task) == "" {
		return GuardResult{Allowed: false, Reason: "task is required"}
	}
	if ctx.DueDate != "" {
		if _, err := time.Parse("2006-01-02", ctx.DueDate); err != nil {
			return GuardResult{Allowed: false, Reason: fmt.Sprintf("invalid due date %q: want YYYY-MM-DD", ctx.DueDate)}
		}
	}
	return GuardResult{Allowed: true}
}

// CreateDecisionContext provides context for decision creation guards.
type CreateDecisionContext struct {
	EngagementID     string
	EngagementExists bool
	Decision         string
}

// CanCreateDecision evaluates whether a decision can be logged.
// Rules:
// - Engagement must exist
// - Decision text is required
func CanCreateDecision(ctx CreateDecisionContext) GuardResult {
	if !ctx.EngagementExists {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("engagement %s not found", ctx.EngagementID)}
	}
	if strings.TrimSpace(ctx.Decision) == "" {
		return GuardResult{Allowed: false, Reason: "decision text is required"}
	}
	return GuardResult{Allowed: true}
}

// CreateRaciContext provides context for RACI row guards.
type CreateRaciContext struct {
	EngagementID     string
	EngagementExists bool
	Initiative       string
	Responsible      string
	Accountable      string
}

// CanCreateRaci evaluates whether a RACI row can be added.
// Rules:
// - Engagement must exist
// - Initiative, responsible and accountable are required
func CanCreateRaci(ctx CreateRaciContext) GuardResult {
	if !ctx.EngagementExists {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("engagement %s not found", ctx.EngagementID)}
	}
	if strings.TrimSpace(ctx.Initiative) == "" {
		return GuardResult{Allowed: false, Reason: "initiative name is required"}
	}
	if strings.TrimSpace(ctx.Responsible) == "" || strings.TrimSpace(ctx.Accountable) == "" {
		return GuardResult{Allowed: false, Reason: "RACI row needs a responsible (R) and an accountable (A)"}
	}
	return GuardResult{Allowed: true}
}
