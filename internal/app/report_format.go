package app

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/example/see/internal/ports/secondary"
)

const noValue = "—"

// labeler resolves bilingual labels and formats numbers for one locale.
type labeler struct {
	locale  string
	printer *message.Printer
}

func newLabeler(locale string) labeler {
	tag := language.Spanish
	if locale == "en" {
		tag = language.English
	} else {
		locale = "es"
	}
	return labeler{locale: locale, printer: message.NewPrinter(tag)}
}

// t picks the Spanish or English text.
func (l labeler) t(es, en string) string {
	if l.locale == "en" {
		return en
	}
	return es
}

// num formats an optional number with the locale's separators.
func (l labeler) num(v *float64, decimals int) string {
	if v == nil {
		return noValue
	}
	return l.printer.Sprintf(fmt.Sprintf("%%.%df", decimals), *v)
}

func (l labeler) pct(v *float64) string {
	if v == nil {
		return noValue
	}
	return l.num(v, 1) + "%"
}

func (l labeler) count(v *int) string {
	if v == nil {
		return noValue
	}
	return l.printer.Sprintf("%d", *v)
}

func (l labeler) yesNo(v *bool) string {
	switch {
	case v == nil:
		return noValue
	case *v:
		return l.t("Sí", "Yes")
	}
	return "No"
}

// date renders YYYY-MM-DD or RFC 3339 input as a short date.
func (l labeler) date(s string) string {
	if s == "" {
		return noValue
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		if t, err = time.Parse(time.RFC3339, s); err != nil {
			return s
		}
	}
	if l.locale == "en" {
		return t.Format("Jan 2, 2006")
	}
	return t.Format("02-01-2006")
}

func (l labeler) status(code string) string {
	if label, ok := statusLabels[code]; ok {
		return l.t(label[0], label[1])
	}
	if code == "" {
		return noValue
	}
	return code
}

// statusLabels are the display labels of status-like codes across reports.
var statusLabels = map[string][2]string{
	"GREEN":       {"Verde", "Green"},
	"YELLOW":      {"Amarillo", "Yellow"},
	"RED":         {"Rojo", "Red"},
	"NO_DATA":     {"Sin dato", "No data"},
	"DRAFT":       {"Borrador", "Draft"},
	"SUBMITTED":   {"Enviado", "Submitted"},
	"TODO":        {"Por iniciar", "To do"},
	"IN_PROGRESS": {"En curso", "In progress"},
	"BLOCKED":     {"Bloqueada", "Blocked"},
	"DONE":        {"Cerrada", "Done"},
	"PROPOSED":    {"Propuesta", "Proposed"},
	"APPROVED":    {"Aprobada", "Approved"},
	"REJECTED":    {"Rechazada", "Rejected"},
	"DEFERRED":    {"Postergada", "Deferred"},
	"OPEN":        {"Abierto", "Open"},
	"MITIGATING":  {"Mitigando", "Mitigating"},
	"CLOSED":      {"Cerrado", "Closed"},
	"HIGH":        {"Alto", "High"},
	"MEDIUM":      {"Medio", "Medium"},
	"LOW":         {"Bajo", "Low"},
	"PLANNED":     {"Planificada", "Planned"},
	"ON_HOLD":     {"En pausa", "On hold"},
	"CANCELLED":   {"Cancelada", "Cancelled"},
	"COMPLETED":   {"Completada", "Completed"},
	"PENDING":     {"Pendiente", "Pending"},
	"NOT_STARTED": {"No iniciada", "Not started"},
	"ON_TIME":     {"En plazo", "On time"},
	"LATE":        {"Con atraso", "Late"},
	"UP_TO_DATE":  {"Al día", "Up to date"},
}

// tone maps a status onto a table row tint.
func tone(status string) string {
	switch status {
	case "GREEN", "DONE", "COMPLETED", "LOW":
		return "green"
	case "YELLOW", "MEDIUM", "BLOCKED":
		return "yellow"
	case "RED", "HIGH":
		return "red"
	}
	return ""
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return noValue
	}
	return s
}

// renderText prints a document as plain text for the terminal.
func renderText(doc *secondary.Document) string {
	var b strings.Builder
	b.WriteString(doc.Title + "\n")
	b.WriteString(strings.Repeat("=", len([]rune(doc.Title))) + "\n")
	if doc.Subtitle != "" {
		b.WriteString(doc.Subtitle + "\n")
	}
	for _, s := range doc.Sections {
		b.WriteString("\n" + s.Heading + "\n")
		b.WriteString(strings.Repeat("-", len([]rune(s.Heading))) + "\n")
		for _, p := range s.Paragraphs {
			b.WriteString(p + "\n")
		}
		if len(s.Facts) > 0 {
			w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
			for _, f := range s.Facts {
				fmt.Fprintf(w, "%s:\t%s\n", f.Label, f.Value)
			}
			w.Flush()
		}
		if s.Table != nil && len(s.Table.Rows) > 0 {
			w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, strings.Join(s.Table.Headers, "\t"))
			for _, row := range s.Table.Rows {
				fmt.Fprintln(w, strings.Join(row, "\t"))
			}
			w.Flush()
		}
	}
	if doc.Footer != "" {
		b.WriteString("\n" + doc.Footer + "\n")
	}
	return b.String()
}
