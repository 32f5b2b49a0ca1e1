package initiative

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/example/see/internal/core/textnorm"
)

var (
	nonAlnumRun = regexp.MustCompile(`[^a-z0-9]+`)
	digitRun    = regexp.MustCompile(`\d+`)
)

// minContainsKey is the shortest KPI name considered for a partial match.
const minContainsKey = 4

// NameKey folds a KPI name for matching: lowercase, no accents, and runs of
// anything but letters and digits become one space.
func NameKey(s string) string {
	s = textnorm.StripAccents(strings.ToLower(s))
	return strings.TrimSpace(nonAlnumRun.ReplaceAllString(s, " "))
}

// KpiName is a KPI as seen by the import matcher.
type KpiName struct {
	ID     string
	NameEs string
	NameEn string
}

// MatchKpi links free text to a KPI. An exact NameKey match on either
// language wins; otherwise the KPI whose key shares the longest containment
// with the text is chosen. Returns "" when nothing matches.
func MatchKpi(text string, kpis []KpiName) string {
	key := NameKey(text)
	if key == "" {
		return ""
	}
	type candidate struct{ key, id string }
	var keys []candidate
	for _, k := range kpis {
		for _, name := range []string{k.NameEs, k.NameEn} {
			if nk := NameKey(name); nk != "" {
				if nk == key {
					return k.ID
				}
				keys = append(keys, candidate{nk, k.ID})
			}
		}
	}

	best, bestLen := "", 0
	for _, c := range keys {
		if len(c.key) < minContainsKey {
			continue
		}
		if !strings.Contains(key, c.key) && !strings.Contains(c.key, key) {
			continue
		}
		if n := min(len(c.key), len(key)); n > bestLen {
			best, bestLen = c.id, n
		}
	}
	return best
}

// HorizonWeeks reads the largest number in a horizon such as "0-8 semanas"
// or "2 a 6 semanas".
func HorizonWeeks(raw string) (int, bool) {
	best, found := 0, false
	for _, m := range digitRun.FindAllString(raw, -1) {
		n, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		if !found || n > best {
			best, found = n, true
		}
	}
	return best, found
}

// ParseRating reads an impact, effort or risk cell. Blank or non-numeric
// cells are unset (0); numbers are clamped to 1..5.
func ParseRating(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return max(1, min(5, n))
}

// JoinNotes joins the non-blank parts with " · ".
func JoinNotes(parts ...string) string {
	clean := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			clean = append(clean, p)
		}
	}
	return strings.Join(clean, " · ")
}
