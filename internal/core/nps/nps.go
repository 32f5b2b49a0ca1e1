// Package nps computes Net Promoter Score metrics and validates survey responses.
package nps

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"strings"
)

// Invite statuses.
const (
	InvitePending   = "PENDING"
	InviteSent      = "SENT"
	InviteResponded = "RESPONDED"
	InviteExpired   = "EXPIRED"
)

// Buckets.
const (
	Promoter  = "promoter"
	Passive   = "passive"
	Detractor = "detractor"
)

// MaxComment bounds the free-text comment of a response.
const MaxComment = 2000

// Reasons are the accepted answers to "why this score".
var Reasons = []string{
	"CONTROL_OPERATIVO",
	"PERFORMANCE_CAMINOS",
	"DATA_REPORTABILIDAD",
	"SEGURIDAD_HSEC",
	"RESPUESTA_EQUIPO",
	"OTRO",
}

// Focuses are the accepted answers to "what should we focus on".
var Focuses = []string{
	"MAYOR_PRESENCIA_EN_TERRENO",
	"MEJOR_TECNOLOGIA_INNOVACION",
	"MAS_DATOS_INSIGHTS",
	"GESTION_ADMINISTRATIVA",
	"MANTENER_ESTANDAR",
}

// Bucket classifies a 0..10 score.
func Bucket(score int) string {
	switch {
	case score >= 9:
		return Promoter
	case score >= 7:
		return Passive
	}
	return Detractor
}

// Slot is one bar of the 0..10 distribution.
type Slot struct {
	Score int `json:"score"`
	Count int `json:"count"`
}

// Metrics aggregates a set of scores.
type Metrics struct {
	Total        int    `json:"total"`
	Promoters    int    `json:"promoters"`
	Passives     int    `json:"passives"`
	Detractors   int    `json:"detractors"`
	NPS          int    `json:"nps"`
	Distribution []Slot `json:"distribution"`
}

// Compute derives NPS metrics. Scores are rounded and clamped to 0..10.
func Compute(scores []float64) Metrics {
	m := Metrics{Total: len(scores), Distribution: make([]Slot, 11)}
	for i := range m.Distribution {
		m.Distribution[i].Score = i
	}
	if m.Total == 0 {
		return m
	}
	for _, s := range scores {
		c := int(math.Max(0, math.Min(10, math.Round(s))))
		m.Distribution[c].Count++
		switch Bucket(c) {
		case Promoter:
			m.Promoters++
		case Passive:
			m.Passives++
		default:
			m.Detractors++
		}
	}
	total := float64(m.Total)
	m.NPS = int(roundHalfUp((float64(m.Promoters)/total - float64(m.Detractors)/total) * 100))
	return m
}

// ValidateScore requires an integer score between 0 and 10.
func ValidateScore(score float64) error {
	if math.IsNaN(score) || score != math.Trunc(score) || score < 0 || score > 10 {
		return fmt.Errorf("score must be an integer between 0 and 10")
	}
	return nil
}

// FilterChoice returns raw when it is one of allowed, otherwise "".
func FilterChoice(raw string, allowed []string) string {
	raw = strings.TrimSpace(raw)
	for _, a := range allowed {
		if a == raw {
			return raw
		}
	}
	return ""
}

// TrimComment trims the comment and cuts it at MaxComment runes.
func TrimComment(s string) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) > MaxComment {
		return string(r[:MaxComment])
	}
	return s
}

// HashIP returns the hex sha256 of the client address, "" when unknown.
func HashIP(ip string) string {
	ip = strings.TrimSpace(ip)
	if ip == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:])
}

// roundHalfUp rounds halves toward positive infinity, so -12.5 becomes -12.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}
