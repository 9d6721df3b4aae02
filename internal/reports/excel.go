package reports

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	sheetName      = documentTitle
	excelHeaderRow = 8
	excelRowHeight = 25
)

var excelColumnWidths = [...]float64{8, 35, 18, 30, 25, 30}

type excelStyles struct {
	title, subtitle, event, info, infoBold, header, row, shaded, footer int
}

func newExcelStyles(f *excelize.File) (excelStyles, error) {
	var s excelStyles
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
	defs := []struct {
		dst   *int
		style *excelize.Style
	}{
		{&s.title, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Size: 16, Color: brandColor},
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"E8F4FF"}},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		}},
		{&s.subtitle, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Size: 14},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		}},
		{&s.event, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 12}}},
		{&s.info, &excelize.Style{Font: &excelize.Font{Size: 11}}},
		{&s.infoBold, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 11}}},
		{&s.header, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{brandColor}},
			Border:    border,
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		}},
		{&s.row, &excelize.Style{
			Border:    border,
			Alignment: &excelize.Alignment{Vertical: "center", WrapText: true},
		}},
		{&s.shaded, &excelize.Style{
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{shadeColor}},
			Border:    border,
			Alignment: &excelize.Alignment{Vertical: "center", WrapText: true},
		}},
		{&s.footer, &excelize.Style{
			Font:      &excelize.Font{Italic: true, Size: 9},
			Alignment: &excelize.Alignment{Horizontal: "right"},
		}},
	}
	for _, d := range defs {
		id, err := f.NewStyle(d.style)
		if err != nil {
			return s, err
		}
		*d.dst = id
	}
	return s, nil
}

// RenderExcel writes doc as a single-sheet workbook.
func RenderExcel(w io.Writer, doc Document) error {
	f, err := buildExcel(doc)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteTo(w)
	return err
}

func buildExcel(doc Document) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeSheet(f, doc); err != nil {
		f.Close()
		return nil, fmt.Errorf("build attendance sheet: %w", err)
	}
	return f, nil
}

func writeSheet(f *excelize.File, doc Document) error {
	st, err := newExcelStyles(f)
	if err != nil {
		return err
	}
	for i, width := range excelColumnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return err
		}
	}

	heading := []struct {
		from, to string
		value    string
		style    int
	}{
		{"A1", "F1", doc.OrgName, st.title},
		{"A2", "F2", "ATTENDANCE LIST", st.subtitle},
		{"A3", "F3", "Event: " + doc.EventName, st.event},
		{"A4", "C4", "Date: " + doc.Date, st.info},
		{"D4", "F4", "Time: " + doc.Time, st.info},
		{"A5", "F5", "Location: " + doc.Location, st.info},
		{"A6", "F6", fmt.Sprintf("Total Attendees: %d", doc.Total()), st.infoBold},
	}
	for _, h := range heading {
		if err := f.MergeCell(sheetName, h.from, h.to); err != nil {
			return err
		}
		if err := f.SetCellStr(sheetName, h.from, h.value); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheetName, h.from, h.to, h.style); err != nil {
			return err
		}
	}
	if err := f.SetRowHeight(sheetName, 1, 28); err != nil {
		return err
	}

	for i, title := range columnHeaders {
		if err := setCell(f, i+1, excelHeaderRow, title); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(sheetName, "A8", "F8", st.header); err != nil {
		return err
	}
	if err := f.SetRowHeight(sheetName, excelHeaderRow, 20); err != nil {
		return err
	}

	for i, r := range doc.Rows {
		rowNum := excelHeaderRow + 1 + i
		values := []interface{}{r.Number, r.FullName, r.NationalID, r.Institution, r.Position, ""}
		for c, v := range values {
			if err := setCell(f, c+1, rowNum, v); err != nil {
				return err
			}
		}
		style := st.row
		if i%2 == 0 {
			style = st.shaded
		}
		if err := f.SetCellStyle(sheetName, cell(1, rowNum), cell(6, rowNum), style); err != nil {
			return err
		}
		if err := f.SetRowHeight(sheetName, rowNum, excelRowHeight); err != nil {
			return err
		}
	}

	footerRow := excelHeaderRow + len(doc.Rows) + 2
	from, to := cell(1, footerRow), cell(6, footerRow)
	if err := f.MergeCell(sheetName, from, to); err != nil {
		return err
	}
	if err := f.SetCellStr(sheetName, from, "Generated: "+doc.GeneratedAt); err != nil {
		return err
	}
	return f.SetCellStyle(sheetName, from, to, st.footer)
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func setCell(f *excelize.File, col, row int, value interface{}) error {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if s, ok := value.(string); ok {
		return f.SetCellStr(sheetName, name, s)
	}
	return f.SetCellValue(sheetName, name, value)
}
