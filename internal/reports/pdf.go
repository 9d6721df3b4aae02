package reports

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"
)

const (
	brandColor = "003B7A"
	shadeColor = "F2F5F8"

	pageMargin     = 50.0
	tableWidth     = 530.0
	headerHeight   = 22.0
	rowHeight      = 25.0
	pageBreakY     = 680.0
	footerFromEdge = 60.0
	nbAlias        = "{nb}"
)

var (
	pdfColumnX     = [...]float64{50, 80, 190, 290, 410, 510}
	pdfColumnWidth = [...]float64{30, 110, 100, 120, 100, 70}
)

type rgb struct{ r, g, b int }

func hexColor(s string) rgb {
	v, _ := strconv.ParseUint(s, 16, 32)
	return rgb{int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)}
}

// pdfWriter draws one attendance document. Text goes through tr so accented
// names render with the core fonts.
type pdfWriter struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
	doc Document
}

// RenderPDF writes doc as a Letter-size PDF.
func RenderPDF(w io.Writer, doc Document) error {
	pdf := buildPDF(doc, true)
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("build attendance pdf: %w", err)
	}
	return pdf.Output(w)
}

func buildPDF(doc Document, compress bool) *fpdf.Fpdf {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetCompression(compress)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, pageMargin)
	pdf.AliasNbPages(nbAlias)

	w := &pdfWriter{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor(""), doc: doc}
	pdf.SetTitle(w.tr(doc.OrgName+" - "+documentTitle), false)
	pdf.SetCreator(doc.OrgName, false)
	pdf.SetFooterFunc(w.footer)

	pdf.AddPage()
	y := w.heading()
	y = w.tableHeader(y)
	for i, r := range doc.Rows {
		if y > pageBreakY {
			pdf.AddPage()
			y = w.tableHeader(pageMargin)
		}
		w.row(y, i, r)
		y += rowHeight
	}
	return pdf
}

func (w *pdfWriter) fill(hex string) {
	c := hexColor(hex)
	w.pdf.SetFillColor(c.r, c.g, c.b)
}

func (w *pdfWriter) text(hex string) {
	c := hexColor(hex)
	w.pdf.SetTextColor(c.r, c.g, c.b)
}

func (w *pdfWriter) draw(hex string, width float64) {
	c := hexColor(hex)
	w.pdf.SetDrawColor(c.r, c.g, c.b)
	w.pdf.SetLineWidth(width)
}

// heading draws the organization, title and event block and returns the y
// where the table starts.
func (w *pdfWriter) heading() float64 {
	pdf, tr := w.pdf, w.tr
	contentWidth := tableWidth

	pdf.SetXY(pageMargin, pageMargin)
	w.text(brandColor)
	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(contentWidth, 24, tr(w.doc.OrgName), "", 1, "C", false, 0, "")
	w.text("333333")
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentWidth, 18, tr("ATTENDANCE LIST"), "", 1, "C", false, 0, "")
	pdf.Ln(20)

	w.text("000000")
	info := [][2]string{
		{"Event: ", w.doc.EventName},
		{"Date: ", w.doc.Date},
		{"Time: ", w.doc.Time},
		{"Location: ", w.doc.Location},
		{"Total Attendees: ", strconv.Itoa(w.doc.Total())},
	}
	for _, kv := range info {
		pdf.SetX(pageMargin)
		pdf.SetFont("Helvetica", "B", 10)
		label := tr(kv[0])
		lw := pdf.GetStringWidth(label)
		pdf.CellFormat(lw, 14, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(contentWidth-lw, 14, w.fit(tr(kv[1]), contentWidth-lw), "", 1, "L", false, 0, "")
	}
	return pdf.GetY() + 12
}

// tableHeader draws the column header bar at y and returns the y below it.
func (w *pdfWriter) tableHeader(y float64) float64 {
	pdf := w.pdf
	w.fill(brandColor)
	pdf.Rect(pageMargin, y, tableWidth, headerHeight, "F")
	w.text("FFFFFF")
	pdf.SetFont("Helvetica", "B", 9)
	for i, h := range columnHeaders {
		align := "L"
		if i == 0 {
			align = "C"
		}
		pdf.SetXY(pdfColumnX[i], y)
		pdf.CellFormat(pdfColumnWidth[i], headerHeight, w.tr(h), "", 0, align, false, 0, "")
	}
	return y + headerHeight
}

func (w *pdfWriter) row(y float64, i int, r Row) {
	pdf := w.pdf
	if i%2 == 0 {
		w.fill(shadeColor)
		pdf.Rect(pageMargin, y, tableWidth, rowHeight, "F")
	}
	w.text("000000")
	pdf.SetFont("Helvetica", "", 8)

	cells := [...]string{strconv.Itoa(r.Number), r.FullName, r.NationalID, r.Institution, r.Position}
	for c, v := range cells {
		if c == 0 {
			pdf.SetXY(pdfColumnX[c], y)
			pdf.CellFormat(pdfColumnWidth[c], rowHeight, v, "", 0, "C", false, 0, "")
			continue
		}
		lines := w.wrap(w.tr(v), pdfColumnWidth[c]-4, 2)
		top := y + (rowHeight-float64(len(lines))*9)/2
		for k, line := range lines {
			pdf.SetXY(pdfColumnX[c], top+float64(k)*9)
			pdf.CellFormat(pdfColumnWidth[c], 9, line, "", 0, "L", false, 0, "")
		}
	}

	sig := pdfColumnX[5]
	w.draw("BBBBBB", 0.5)
	pdf.Line(sig, y+20, sig+65, y+20)
}

// footer is stamped on every page when the page is closed. The total page
// count is substituted for nbAlias when the document is written.
func (w *pdfWriter) footer() {
	pdf := w.pdf
	_, pageH := pdf.GetPageSize()
	y := pageH - footerFromEdge

	w.draw("EEEEEE", 0.5)
	pdf.Line(pageMargin, y-10, 562, y-10)

	w.text("777777")
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(pageMargin, y)
	txt := fmt.Sprintf("%s - Attendance Report | Page %d of %s | Generated: %s",
		w.doc.OrgName, pdf.PageNo(), nbAlias, w.doc.GeneratedAt)
	pdf.CellFormat(512, 10, w.tr(txt), "", 0, "C", false, 0, "")
}

// wrap splits s on spaces into at most max lines of width, ending the last
// kept line with an ellipsis when text is cut. s is already translated to the
// single-byte font encoding, so widths are measured per byte.
func (w *pdfWriter) wrap(s string, width float64, max int) []string {
	var lines []string
	cur := ""
	for _, word := range strings.Fields(s) {
		next := word
		if cur != "" {
			next = cur + " " + word
		}
		if cur == "" || w.pdf.GetStringWidth(next) <= width {
			cur = next
			continue
		}
		lines = append(lines, cur)
		cur = word
	}
	if cur != "" || len(lines) == 0 {
		lines = append(lines, cur)
	}
	for i := range lines {
		lines[i] = w.fit(lines[i], width)
	}
	if len(lines) > max {
		lines = lines[:max]
		lines[max-1] = w.cut(lines[max-1], width)
	}
	return lines
}

// fit returns s unchanged when it fits width, otherwise cut(s). s is already
// translated to the single-byte font encoding.
func (w *pdfWriter) fit(s string, width float64) string {
	if w.pdf.GetStringWidth(s) <= width {
		return s
	}
	return w.cut(s, width)
}

// cut trims s so that s plus an ellipsis fits width.
func (w *pdfWriter) cut(s string, width float64) string {
	for len(s) > 0 && w.pdf.GetStringWidth(s+"...") > width {
		s = s[:len(s)-1]
	}
	return strings.TrimRight(s, " ") + "..."
}
