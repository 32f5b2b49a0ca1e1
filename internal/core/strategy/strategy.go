// Package strategy contains the rules for vision/mission statements and SWOT items.
package strategy

import (
	"fmt"
	"strings"

	"github.com/example/see/internal/core/textnorm"
)

// SWOT quadrants.
const (
	Strength    = "STRENGTH"
	Weakness    = "WEAKNESS"
	Opportunity = "OPPORTUNITY"
	Threat      = "THREAT"
)

// Quadrants lists the SWOT quadrants in display order.
var Quadrants = []string{Strength, Weakness, Opportunity, Threat}

// MaxSwotText bounds a single SWOT item.
const MaxSwotText = 500

// ParseQuadrant accepts canonical names, English and Spanish (FODA) labels
// and the F/O/D/A and S/W/O/T initials.
func ParseQuadrant(raw string) (string, bool) {
	switch textnorm.Fold(raw) {
	case "strength", "strengths", "fortaleza", "fortalezas", "s", "f":
		return Strength, true
	case "weakness", "weaknesses", "debilidad", "debilidades", "w", "d":
		return Weakness, true
	case "opportunity", "opportunities", "oportunidad", "oportunidades", "o":
		return Opportunity, true
	case "threat", "threats", "amenaza", "amenazas", "t", "a":
		return Threat, true
	}
	return "", false
}

// QuadrantLabel returns the display label of a quadrant.
func QuadrantLabel(q, locale string) string {
	es := map[string]string{Strength: "Fortalezas", Weakness: "Debilidades", Opportunity: "Oportunidades", Threat: "Amenazas"}
	en := map[string]string{Strength: "Strengths", Weakness: "Weaknesses", Opportunity: "Opportunities", Threat: "Threats"}
	if locale == "en" {
		return en[q]
	}
	return es[q]
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

// AddSwotContext provides context for adding a SWOT item.
type AddSwotContext struct {
	EngagementID     string
	EngagementExists bool
	Quadrant         string
	Text             string
}

// CanAddSwotItem evaluates whether a SWOT item can be added.
// Rules:
// - Engagement must exist
// - Quadrant must be one of the four SWOT quadrants
// - Text is required and bounded
func CanAddSwotItem(ctx AddSwotContext) GuardResult {
	if !ctx.EngagementExists {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("engagement %s not found", ctx.EngagementID)}
	}
	valid := false
	for _, q := range Quadrants {
		if q == ctx.Quadrant {
			valid = true
		}
	}
	if !valid {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("unknown SWOT quadrant %q", ctx.Quadrant)}
	}
	text := strings.TrimSpace(ctx.Text)
	if text == "" {
		return GuardResult{Allowed: false, Reason: "SWOT text is required"}
	}
	if len([]rune(text)) > MaxSwotText {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("SWOT text exceeds %d characters", MaxSwotText)}
	}
	return GuardResult{Allowed: true}
}
