// Package roadmap contains the rules for the 20-week execution roadmap.
package roadmap

import (
	"fmt"
	"time"
)

// Weeks is the length of the roadmap.
const Weeks = 20

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

// UpsertWeekContext provides context for roadmap week updates.
type UpsertWeekContext struct {
	EngagementID     string
	EngagementExists bool
	Week             int
}

// CanUpsertWeek evaluates whether a roadmap week can be written.
// Rules:
// - Engagement must exist
// - Week must be within 1..20
func CanUpsertWeek(ctx UpsertWeekContext) GuardResult {
	if !ctx.EngagementExists {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("engagement %s not found", ctx.EngagementID)}
	}
	if ctx.Week < 1 || ctx.Week > Weeks {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("week %d out of range (1..%d)", ctx.Week, Weeks)}
	}
	return GuardResult{Allowed: true}
}

// Phase names the roadmap block a week belongs to.
func Phase(week int) string {
	switch {
	case week <= 4:
		return "Quick wins"
	case week <= 12:
		return "Build"
	default:
		return "Scale"
	}
}

// WeekStart returns the start date of week n when the roadmap starts on start.
func WeekStart(start time.Time, week int) time.Time {
	return start.AddDate(0, 0, (week-1)*7)
}

// TemplateHeader is the CSV header of the roadmap template.
var TemplateHeader = []string{"week", "objective", "key_activities", "deliverables", "kpi_focus", "ritual"}
