// Package risk scores engagement risks on a 5x5 probability/impact matrix.
package risk

import "math"

// Risk statuses.
const (
	StatusOpen       = "OPEN"
	StatusMitigating = "MITIGATING"
	StatusClosed     = "CLOSED"
)

// Risk levels.
const (
	LevelHigh   = "HIGH"
	LevelMedium = "MEDIUM"
	LevelLow    = "LOW"
)

// ClampRating rounds v and clamps it to 1..5.
func ClampRating(v float64) int {
	if math.IsNaN(v) {
		return 1
	}
	r := int(math.Round(v))
	if r < 1 {
		return 1
	}
	if r > 5 {
		return 5
	}
	return r
}

// Score is probability times impact, both clamped to 1..5.
func Score(probability, impact int) int {
	return ClampRating(float64(probability)) * ClampRating(float64(impact))
}

// Level classifies a score: HIGH from 16, MEDIUM from 9, LOW otherwise.
func Level(score int) string {
	switch {
	case score >= 16:
		return LevelHigh
	case score >= 9:
		return LevelMedium
	}
	return LevelLow
}

// ValidStatus reports whether s is a risk status.
func ValidStatus(s string) bool {
	return s == StatusOpen || s == StatusMitigating || s == StatusClosed
}
