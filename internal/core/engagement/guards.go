// Package engagement contains the pure business logic for engagement lifecycle operations.
// Guards are pure functions that evaluate preconditions without side effects.
package engagement

import (
	"fmt"
	"strings"
)

// Engagement statuses.
const (
	StatusDraft  = "DRAFT"
	StatusActive = "ACTIVE"
	StatusClosed = "CLOSED"
)

// Supported report locales.
const (
	LocaleES = "es"
	LocaleEN = "en"
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

// CreateEngagementContext provides context for engagement creation guards.
type CreateEngagementContext struct {
	CompanyName string
	Locale      string
	StartDate   string // YYYY-MM-DD, optional
	EndDate     string // YYYY-MM-DD, optional
}

// StatusContext provides context for lifecycle transitions.
type StatusContext struct {
	EngagementID string
	Status       string
}

// CanCreateEngagement evaluates whether an engagement can be created.
// Rules:
// - Company name is required
// - Locale must be es or en when given
// - End date must not be before start date
func CanCreateEngagement(ctx CreateEngagementContext) GuardResult {
	if strings.TrimSpace(ctx.CompanyName) == "" {
		return GuardResult{Allowed: false, Reason: "company name is required"}
	}
	if ctx.Locale != "" && ctx.Locale != LocaleES && ctx.Locale != LocaleEN {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("unsupported locale %q (use es or en)", ctx.Locale)}
	}
	if ctx.StartDate != "" && ctx.EndDate != "" && ctx.EndDate < ctx.StartDate {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("end date %s is before start date %s", ctx.EndDate, ctx.StartDate)}
	}
	return GuardResult{Allowed: true}
}

// CanActivate evaluates whether an engagement can move to ACTIVE.
// Rules:
// - Closed engagements must be reopened first
// - Already active engagements cannot be activated again
func CanActivate(ctx StatusContext) GuardResult {
	switch ctx.Status {
	case StatusClosed:
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("cannot activate closed engagement %s. Reopen first with: see engagement reopen %s", ctx.EngagementID, ctx.EngagementID),
		}
	case StatusActive:
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("engagement %s is already active", ctx.EngagementID)}
	}
	return GuardResult{Allowed: true}
}

// CanClose evaluates whether an engagement can be closed.
// Rules:
// - Only ACTIVE engagements can be closed
func CanClose(ctx StatusContext) GuardResult {
	if ctx.Status != StatusActive {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("can only close active engagements (current status: %s)", ctx.Status),
		}
	}
	return GuardResult{Allowed: true}
}

// CanReopen evaluates whether an engagement can be reopened.
// Rules:
// - Only CLOSED engagements can be reopened
func CanReopen(ctx StatusContext) GuardResult {
	if ctx.Status != StatusClosed {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("can only reopen closed engagements (current status: %s)", ctx.Status),
		}
	}
	return GuardResult{Allowed: true}
}

// CanDelete evaluates whether an engagement can be deleted.
// Rules:
// - Active engagements cannot be deleted
func CanDelete(ctx StatusContext) GuardResult {
	if ctx.Status == StatusActive {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("cannot delete active engagement %s. Close first with: see engagement close %s", ctx.EngagementID, ctx.EngagementID),
		}
	}
	return GuardResult{Allowed: true}
}
