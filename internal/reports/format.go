package reports

import (
	"fmt"
	"io"
	"strings"
)

// Format is a report output format.
type Format string

const (
	FormatExcel Format = "excel"
	FormatPDF   Format = "pdf"
)

// ParseFormat accepts "excel", "xlsx" or "pdf".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "excel", "xlsx":
		return FormatExcel, nil
	case "pdf":
		return FormatPDF, nil
	}
	return "", fmt.Errorf("unknown report format %q", s)
}

func (f Format) Extension() string {
	if f == FormatPDF {
		return "pdf"
	}
	return "xlsx"
}

func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Render writes doc to w in format f.
func Render(w io.Writer, f Format, doc Document) error {
	switch f {
	case FormatExcel:
		return RenderExcel(w, doc)
	case FormatPDF:
		return RenderPDF(w, doc)
	}
	return fmt.Errorf("unknown report format %q", f)
}
