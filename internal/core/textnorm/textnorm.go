// Package textnorm folds user-typed labels (CSV headers, enum spellings in
// Spanish or English) into comparable keys.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	spaceRun      = regexp.MustCompile(`\s+`)
	nonKeyChar    = regexp.MustCompile(`[^a-z0-9_]`)
	underscoreRun = regexp.MustCompile(`_+`)
)

// StripAccents removes combining marks: "más" becomes "mas".
func StripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Fold lowercases, strips accents, trims and collapses whitespace.
func Fold(s string) string {
	s = StripAccents(strings.ToLower(strings.TrimSpace(s)))
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}

// HeaderKey turns a column header into a snake_case key:
// "Meta Numérica" becomes "meta_numerica".
func HeaderKey(s string) string {
	s = Fold(s)
	if s == "" {
		return ""
	}
	s = spaceRun.ReplaceAllString(s, "_")
	s = nonKeyChar.ReplaceAllString(s, "_")
	s = underscoreRun.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// StripBOM drops a leading UTF-8 byte order mark.
func StripBOM(s string) string {
	return strings.TrimPrefix(s, "\ufeff")
}
