// Package pdf renders report documents with fpdf.
package pdf

import (
	"bytes"
	"context"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/example/see/internal/ports/secondary"
)

const (
	fontFamily = "Helvetica"
	lineHeight = 5.0
	cellPad    = 1.5
)

// Row tints, as RGB.
var tones = map[string][3]int{
	"green":  {220, 245, 225},
	"yellow": {255, 244, 204},
	"red":    {253, 220, 220},
}

// Renderer implements secondary.DocumentRenderer on A4 portrait pages.
type Renderer struct {
	compress bool
}

// NewRenderer creates a PDF renderer.
func NewRenderer() *Renderer {
	return &Renderer{compress: true}
}

// Render lays out the document and returns the PDF bytes.
func (r *Renderer) Render(ctx context.Context, doc *secondary.Document) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(r.compress)
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(doc.Title, true)
	pdf.SetCreator("see", true)

	footer := doc.Footer
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont(fontFamily, "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 4, tr(footer), "", 0, "L", false, 0, "")
		left, _, _, _ := pdf.GetMargins()
		pdf.SetX(left)
		pdf.CellFormat(0, 4, fmt.Sprintf("%d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()
	l := &layout{pdf: pdf, tr: tr}
	l.title(doc.Title, doc.Subtitle)
	for _, s := range doc.Sections {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		l.section(s)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

type layout struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (l *layout) width() float64 {
	pageW, _ := l.pdf.GetPageSize()
	left, _, right, _ := l.pdf.GetMargins()
	return pageW - left - right
}

func (l *layout) title(title, subtitle string) {
	l.pdf.SetFont(fontFamily, "B", 16)
	l.pdf.SetTextColor(20, 40, 80)
	l.pdf.MultiCell(0, 8, l.tr(title), "", "L", false)
	if subtitle != "" {
		l.pdf.SetFont(fontFamily, "", 11)
		l.pdf.SetTextColor(90, 90, 90)
		l.pdf.MultiCell(0, 6, l.tr(subtitle), "", "L", false)
	}
	l.pdf.Ln(4)
}

func (l *layout) section(s secondary.Section) {
	l.ensureSpace(20)
	l.pdf.SetFont(fontFamily, "B", 12)
	l.pdf.SetTextColor(20, 40, 80)
	l.pdf.MultiCell(0, 7, l.tr(s.Heading), "B", "L", false)
	l.pdf.Ln(1)

	l.pdf.SetTextColor(0, 0, 0)
	l.pdf.SetFont(fontFamily, "", 10)
	for _, p := range s.Paragraphs {
		l.pdf.MultiCell(0, lineHeight, l.tr(p), "", "L", false)
		l.pdf.Ln(1)
	}
	if len(s.Facts) > 0 {
		l.facts(s.Facts)
	}
	if s.Table != nil && len(s.Table.Rows) > 0 {
		l.table(s.Table)
	}
	l.pdf.Ln(4)
}

func (l *layout) facts(facts []secondary.Fact) {
	labelW := l.width() * 0.35
	valueW := l.width() - labelW
	left, _, _, _ := l.pdf.GetMargins()
	for _, f := range facts {
		label, value := l.tr(f.Label), l.tr(f.Value)
		l.pdf.SetFont(fontFamily, "", 10)
		lines := len(l.pdf.SplitLines([]byte(value), valueW-2*cellPad))
		if lines == 0 {
			lines = 1
		}
		h := float64(lines) * lineHeight
		l.ensureSpace(h)

		y := l.pdf.GetY()
		l.pdf.SetFont(fontFamily, "B", 10)
		l.pdf.SetXY(left, y)
		l.pdf.CellFormat(labelW, lineHeight, label, "", 0, "L", false, 0, "")
		l.pdf.SetFont(fontFamily, "", 10)
		l.pdf.SetXY(left+labelW, y)
		l.pdf.MultiCell(valueW, lineHeight, value, "", "L", false)
		l.pdf.SetXY(left, y+h)
	}
}

func (l *layout) table(t *secondary.Table) {
	widths := l.columnWidths(t)
	l.tableHeader(t.Headers, widths)

	l.pdf.SetFont(fontFamily, "", 9)
	for i, row := range t.Rows {
		h := l.rowHeight(row, widths)
		if l.ensureSpace(h) {
			l.tableHeader(t.Headers, widths)
			l.pdf.SetFont(fontFamily, "", 9)
		}
		fill := false
		if i < len(t.Tones) {
			if rgb, ok := tones[t.Tones[i]]; ok {
				l.pdf.SetFillColor(rgb[0], rgb[1], rgb[2])
				fill = true
			}
		}
		l.row(row, widths, h, fill)
	}
}

func (l *layout) tableHeader(headers []string, widths []float64) {
	l.pdf.SetFont(fontFamily, "B", 9)
	l.pdf.SetFillColor(20, 40, 80)
	l.pdf.SetTextColor(255, 255, 255)
	h := l.rowHeight(headers, widths)
	l.row(headers, widths, h, true)
	l.pdf.SetTextColor(0, 0, 0)
}

// row draws bordered cells of equal height, wrapping text inside each.
func (l *layout) row(cells []string, widths []float64, h float64, fill bool) {
	left, _, _, _ := l.pdf.GetMargins()
	x, y := left, l.pdf.GetY()
	style := "D"
	if fill {
		style = "FD"
	}
	for i, w := range widths {
		l.pdf.Rect(x, y, w, h, style)
		text := ""
		if i < len(cells) {
			text = l.tr(cells[i])
		}
		l.pdf.SetXY(x+cellPad, y+cellPad/2)
		l.pdf.MultiCell(w-2*cellPad, lineHeight-1, text, "", "L", false)
		x += w
	}
	l.pdf.SetXY(left, y+h)
}

func (l *layout) rowHeight(cells []string, widths []float64) float64 {
	maxLines := 1
	for i, w := range widths {
		if i >= len(cells) {
			break
		}
		if n := len(l.pdf.SplitLines([]byte(l.tr(cells[i])), w-2*cellPad)); n > maxLines {
			maxLines = n
		}
	}
	return float64(maxLines)*(lineHeight-1) + cellPad
}

// columnWidths scales the declared widths to the page, or splits the page
// evenly when widths are missing.
func (l *layout) columnWidths(t *secondary.Table) []float64 {
	n := len(t.Headers)
	for _, row := range t.Rows {
		if len(row) > n {
			n = len(row)
		}
	}
	total := l.width()
	out := make([]float64, n)
	if len(t.Widths) == n {
		var sum float64
		for _, w := range t.Widths {
			sum += w
		}
		if sum > 0 {
			for i, w := range t.Widths {
				out[i] = w / sum * total
			}
			return out
		}
	}
	for i := range out {
		out[i] = total / float64(n)
	}
	return out
}

// ensureSpace starts a new page when h does not fit; it reports whether it did.
func (l *layout) ensureSpace(h float64) bool {
	_, pageH := l.pdf.GetPageSize()
	_, _, _, bottom := l.pdf.GetMargins()
	if l.pdf.GetY()+h <= pageH-bottom {
		return false
	}
	l.pdf.AddPage()
	return true
}

var _ secondary.DocumentRenderer = (*Renderer)(nil)
