// Package account contains the rules for the account plan (the client
// accounts or business units an engagement works on) and the unit
// economics recorded against them.
package account

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/example/see/internal/core/textnorm"
)

// Plan statuses.
const (
	StatusNotStarted  = "NOT_STARTED"
	StatusInProgress  = "IN_PROGRESS"
	StatusBlocked     = "BLOCKED"
	StatusNegotiating = "NEGOTIATING"
	StatusClosed      = "CLOSED"
)

// UnnamedLabel is shown for an account row left without a name.
const UnnamedLabel = "Unidad sin nombre"

var statusAliases = map[string]string{
	"por iniciar":    StatusNotStarted,
	"not started":    StatusNotStarted,
	"en curso":       StatusInProgress,
	"in progress":    StatusInProgress,
	"bloqueado":      StatusBlocked,
	"bloqueada":      StatusBlocked,
	"blocked":        StatusBlocked,
	"en negociacion": StatusNegotiating,
	"negotiating":    StatusNegotiating,
	"cerrado":        StatusClosed,
	"cerrada":        StatusClosed,
	"closed":         StatusClosed,
}

// NormalizeStatus maps canonical values and Spanish labels onto plan
// statuses. Blank means not started.
func NormalizeStatus(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return StatusNotStarted, true
	}
	switch up := strings.ToUpper(s); up {
	case StatusNotStarted, StatusInProgress, StatusBlocked, StatusNegotiating, StatusClosed:
		return up, true
	}
	status, ok := statusAliases[textnorm.Fold(s)]
	return status, ok
}

// Label names an account row in pickers.
func Label(name string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	return UnnamedLabel
}

var nonDecimalChar = regexp.MustCompile(`[^0-9.\-]`)

// ParseDecimal reads an amount typed the Chilean way: dots group
// thousands and the comma is the decimal mark, so "1.234,5" is 1234.5.
// Currency signs and spaces are ignored. Blank or unreadable input is nil.
func ParseDecimal(raw string) *float64 {
	s := strings.Join(strings.Fields(raw), "")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	s = nonDecimalChar.ReplaceAllString(s, "")
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Revenue returns the monthly revenue of a unit-economics row. A typed
// revenue wins; otherwise it is m² per month times the price per m².
func Revenue(revenue, m2Month, priceUSDM2 *float64) *float64 {
	if revenue != nil {
		return revenue
	}
	if m2Month == nil || priceUSDM2 == nil {
		return nil
	}
	v := *m2Month * *priceUSDM2
	return &v
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

// ScopeContext provides context for scope checks on check-in writes.
type ScopeContext struct {
	EngagementID string
	ScopeKey     string
	GlobalScope  string
	// AccountEngagementID is the owner of the account named by ScopeKey,
	// empty when no such account exists.
	AccountEngagementID string
}

// CanUseScope evaluates whether values can be recorded under a scope.
// Rules:
// - The global scope is always allowed
// - Any other scope must be an account of the engagement
func CanUseScope(ctx ScopeContext) GuardResult {
	if ctx.ScopeKey == ctx.GlobalScope {
		return GuardResult{Allowed: true}
	}
	if ctx.AccountEngagementID == "" {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("unknown scope %q: use %s or an account ID", ctx.ScopeKey, ctx.GlobalScope)}
	}
	if ctx.AccountEngagementID != ctx.EngagementID {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("account %s does not belong to engagement %s", ctx.ScopeKey, ctx.EngagementID)}
	}
	return GuardResult{Allowed: true}
}
