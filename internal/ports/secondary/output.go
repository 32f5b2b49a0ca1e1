package secondary

import "context"

// DocumentRenderer turns a document into a printable file (PDF).
type DocumentRenderer interface {
	Render(ctx context.Context, doc *Document) ([]byte, error)
}

// Document is a locale-resolved report: every string is final text.
type Document struct {
	Title    string
	Subtitle string
	Footer   string
	Sections []Section
}

// Section is a heading followed by paragraphs, key/value facts and an
// optional table.
type Section struct {
	Heading    string
	Paragraphs []string
	Facts      []Fact
	Table      *Table
}

// Fact is a label/value line.
type Fact struct {
	Label string
	Value string
}

// Table is a simple grid. Tones, when set, has one entry per row:
// "green", "yellow", "red" or "" to tint the row.
type Table struct {
	Headers []string
	Widths  []float64
	Rows    [][]string
	Tones   []string
}

// SpreadsheetWriter serialises sheets into an XLSX workbook.
type SpreadsheetWriter interface {
	Write(ctx context.Context, sheets []Sheet) ([]byte, error)
}

// Sheet is one worksheet. Cells are strings, numbers or nil.
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]any
}

// Mailer sends transactional email.
type Mailer interface {
	Send(ctx context.Context, msg MailMessage) error
}

// MailMessage is a plain-text email with an optional HTML alternative.
type MailMessage struct {
	To      string
	Subject string
	Text    string
	HTML    string
}
