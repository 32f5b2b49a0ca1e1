package kpi

import (
	"fmt"
	"strings"
)

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

// CreateKpiContext provides context for KPI creation guards.
type CreateKpiContext struct {
	EngagementID     string
	EngagementExists bool
	NameEs           string
	Perspective      Perspective
	Frequency        Frequency
	Direction        Direction
	Basis            Basis
}

// RecordValuesContext provides context for recording a period's values.
type RecordValuesContext struct {
	EngagementID     string
	EngagementExists bool
	EngagementStatus string
	PeriodKey        string
	ScopeKey         string
}

// CanCreateKpi evaluates whether a KPI can be created.
// Rules:
// - Engagement must exist
// - Spanish name is required
// - Perspective, frequency and direction must be known values
// - Basis, when given, must be A or L
func CanCreateKpi(ctx CreateKpiContext) GuardResult {
	if !ctx.EngagementExists {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("engagement %s not found", ctx.EngagementID)}
	}
	if strings.TrimSpace(ctx.NameEs) == "" {
		return GuardResult{Allowed: false, Reason: "kpi name is required"}
	}
	if PerspectiveIndex(ctx.Perspective) == len(Perspectives) {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("unknown perspective %q", ctx.Perspective)}
	}
	switch ctx.Frequency {
	case FrequencyWeekly, FrequencyMonthly, FrequencyQuarterly, FrequencyYearly, FrequencyAdhoc:
	default:
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("unknown frequency %q", ctx.Frequency)}
	}
	if ctx.Direction != HigherIsBetter && ctx.Direction != LowerIsBetter {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("unknown direction %q", ctx.Direction)}
	}
	if ctx.Basis != "" && ctx.Basis != BasisYTD && ctx.Basis != BasisTTM {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("unknown basis %q (use A or L)", ctx.Basis)}
	}
	return GuardResult{Allowed: true}
}

// CanRecordValues evaluates whether values can be saved for a period.
// Rules:
// - Engagement must exist and not be closed
// - Period must be a YYYY-MM key
// - Scope key must not be empty or contain path separators
func CanRecordValues(ctx RecordValuesContext) GuardResult {
	if !ctx.EngagementExists {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("engagement %s not found", ctx.EngagementID)}
	}
	if ctx.EngagementStatus == "CLOSED" {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("engagement %s is closed. Reopen first with: see engagement reopen %s", ctx.EngagementID, ctx.EngagementID)}
	}
	if !ValidMonthKey(ctx.PeriodKey) {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("invalid period %q: want YYYY-MM", ctx.PeriodKey)}
	}
	if !ValidScopeKey(ctx.ScopeKey) {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("invalid scope %q", ctx.ScopeKey)}
	}
	return GuardResult{Allowed: true}
}

// ValidScopeKey rejects empty, overlong or path-like scope keys.
func ValidScopeKey(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 120 {
		return false
	}
	return !strings.Contains(s, "/") && !strings.Contains(s, `\`) && !strings.Contains(s, "..")
}
