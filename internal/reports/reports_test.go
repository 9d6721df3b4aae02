package reports

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/asamblea-eventos/backend/internal/models"
	"github.com/asamblea-eventos/backend/pkg/apperr"
)

var generatedAt = time.Date(2026, 3, 14, 18, 45, 0, 0, time.UTC)

func testEvent() *models.Event {
	return &models.Event{
		ID:       3,
		Name:     "Asamblea General 2026",
		Active:   true,
		Date:     time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		Time:     "09:00",
		Location: "Salón Cobán",
	}
}

func attendees(n int) []models.Attendee {
	out := make([]models.Attendee, n)
	for i := range out {
		out[i] = models.Attendee{
			RegistrationID: int64(i + 1),
			EventID:        3,
			GivenNames:     fmt.Sprintf("Persona %03d", i),
			Surnames:       fmt.Sprintf("Apellido %03d", n-i),
			NationalID:     models.NationalID(1000000000000 + int64(i)),
			Kind:           models.KindInternal,
			Institution:    "Cooperativa Integral",
			Position:       "Delegado",
			Status:         models.StatusAttended,
		}
	}
	return out
}

func TestBuildSortsAndFormats(t *testing.T) {
	list := []models.Attendee{
		{GivenNames: "Luis", Surnames: "Ortiz", NationalID: 3},
		{GivenNames: "Ana", Surnames: "Álvarez", NationalID: 2, Institution: "INACOP", Position: "Técnica"},
		{GivenNames: "Carlos", Surnames: "Ñañez", NationalID: 4},
		{GivenNames: "Beatriz", Surnames: "Álvarez", NationalID: 1},
		{GivenNames: "Juan", Surnames: "Nájera"},
	}
	guatemala := time.FixedZone("CST", -6*3600)
	doc := Build("FEDECOVERA", testEvent(), list, generatedAt, guatemala)

	names := make([]string, len(doc.Rows))
	for i, r := range doc.Rows {
		names[i] = r.FullName
		assert.Equal(t, i+1, r.Number)
	}
	assert.Equal(t, []string{"Ana Álvarez", "Beatriz Álvarez", "Juan Nájera", "Carlos Ñañez", "Luis Ortiz"}, names)
	assert.Equal(t, "INACOP", doc.Rows[0].Institution)
	assert.Equal(t, "-", doc.Rows[1].Institution)
	assert.Equal(t, "N/A", doc.Rows[2].NationalID)
	assert.Equal(t, "Saturday, March 14, 2026", doc.Date)
	assert.Equal(t, "2026-03-14 12:45", doc.GeneratedAt)
	assert.Equal(t, 5, doc.Total())

	assert.Equal(t, "Ortiz", list[0].Surnames, "input is not reordered")
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "Attendance_Asamblea_General_2026.pdf", Filename("Asamblea General 2026", FormatPDF))
	assert.Equal(t, "Attendance_Reuni_n_Cob_n.xlsx", Filename("Reunión / Cobán", FormatExcel))
	assert.Equal(t, "Attendance_Report.pdf", Filename("¿?", FormatPDF))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("XLSX")
	require.NoError(t, err)
	assert.Equal(t, FormatExcel, f)
	_, err = ParseFormat("csv")
	assert.Error(t, err)
}

func openExcel(t *testing.T, doc Document) *excelize.File {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, RenderExcel(&buf, doc))
	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func cellValue(t *testing.T, f *excelize.File, axis string) string {
	t.Helper()
	v, err := f.GetCellValue(sheetName, axis)
	require.NoError(t, err)
	return v
}

func TestExcelLayout(t *testing.T) {
	doc := Build("FEDECOVERA", testEvent(), attendees(3), generatedAt, time.UTC)
	f := openExcel(t, doc)

	assert.Equal(t, []string{"Attendance List"}, f.GetSheetList())
	assert.Equal(t, "FEDECOVERA", cellValue(t, f, "A1"))
	assert.Equal(t, "ATTENDANCE LIST", cellValue(t, f, "A2"))
	assert.Equal(t, "Event: Asamblea General 2026", cellValue(t, f, "A3"))
	assert.Equal(t, "Time: 09:00", cellValue(t, f, "D4"))
	assert.Equal(t, "Total Attendees: 3", cellValue(t, f, "A6"))
	assert.Equal(t, "No.", cellValue(t, f, "A8"))
	assert.Equal(t, "Signature", cellValue(t, f, "F8"))

	assert.Equal(t, "1", cellValue(t, f, "A9"))
	assert.Equal(t, doc.Rows[0].FullName, cellValue(t, f, "B9"))
	assert.Equal(t, doc.Rows[0].NationalID, cellValue(t, f, "C9"))
	assert.Equal(t, "Cooperativa Integral", cellValue(t, f, "D11"))
	assert.Equal(t, "Generated: 2026-03-14 18:45", cellValue(t, f, "A13"))

	width, err := f.GetColWidth(sheetName, "B")
	require.NoError(t, err)
	assert.Equal(t, 35.0, width)
	height, err := f.GetRowHeight(sheetName, 9)
	require.NoError(t, err)
	assert.Equal(t, 25.0, height)

	merged, err := f.GetMergeCells(sheetName)
	require.NoError(t, err)
	ranges := map[string]bool{}
	for _, m := range merged {
		ranges[m.GetStartAxis()+":"+m.GetEndAxis()] = true
	}
	assert.True(t, ranges["A1:F1"])
	assert.True(t, ranges["A13:F13"])
}

func TestExcelWithoutAttendees(t *testing.T) {
	doc := Build("FEDECOVERA", testEvent(), nil, generatedAt, time.UTC)
	f := openExcel(t, doc)

	assert.Equal(t, "Total Attendees: 0", cellValue(t, f, "A6"))
	assert.Equal(t, "No.", cellValue(t, f, "A8"))
	assert.Empty(t, cellValue(t, f, "A9"))
	assert.Equal(t, "Generated: 2026-03-14 18:45", cellValue(t, f, "A10"))
}

func TestPDFWithoutAttendees(t *testing.T) {
	doc := Build("FEDECOVERA", testEvent(), nil, generatedAt, time.UTC)
	var buf bytes.Buffer
	require.NoError(t, RenderPDF(&buf, doc))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))

	pdf := buildPDF(doc, false)
	require.NoError(t, pdf.Error())
	assert.Equal(t, 1, pdf.PageCount())
}

func TestPDFFooterOnEveryPage(t *testing.T) {
	doc := Build("FEDECOVERA", testEvent(), attendees(75), generatedAt, time.UTC)
	pdf := buildPDF(doc, false)
	require.NoError(t, pdf.Error())
	pages := pdf.PageCount()
	require.Greater(t, pages, 2)

	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	out := buf.String()

	for i := 1; i <= pages; i++ {
		assert.Contains(t, out, fmt.Sprintf("FEDECOVERA - Attendance Report | Page %d of %d | Generated: 2026-03-14 18:45", i, pages))
	}
	assert.NotContains(t, out, nbAlias)
	assert.Equal(t, pages, strings.Count(out, "Full Name"), "table header repeats on every page")
}

type fakeEvents map[int64]*models.Event

func (f fakeEvents) GetByID(_ context.Context, id int64) (*models.Event, error) {
	if e, ok := f[id]; ok {
		return e, nil
	}
	return nil, apperr.New(apperr.CodeNotFound, "event not found")
}

type fakeAttendees struct {
	list   []models.Attendee
	status models.AttendanceStatus
}

func (f *fakeAttendees) ListByEvent(_ context.Context, _ int64, status models.AttendanceStatus) ([]models.Attendee, error) {
	f.status = status
	return f.list, nil
}

type fakeArchive struct {
	keys      []string
	body      []byte
	presigned error
	deleted   []string
}

func (f *fakeArchive) Upload(_ context.Context, key, _ string, body io.Reader, _ int64) error {
	b, err := io.ReadAll(body)
	f.keys = append(f.keys, key)
	f.body = b
	return err
}

func (f *fakeArchive) PresignedDownloadURL(_ context.Context, key, _ string) (string, error) {
	if f.presigned != nil {
		return "", f.presigned
	}
	return "https://reports.example/" + key, nil
}

func (f *fakeArchive) DeleteObject(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeArchive) PresignExpire() time.Duration { return 15 * time.Minute }

func newTestRouter(archive Archiver, src *fakeAttendees) *gin.Engine {
	gin.SetMode(gin.TestMode)
	gen := NewGenerator(fakeEvents{3: testEvent()}, src, "FEDECOVERA", time.UTC, nil)
	h := NewHandler(gen, archive, nil, false)
	r := gin.New()
	r.GET("/reportes/asistencia/:eventId/excel", h.Excel)
	r.GET("/reportes/asistencia/:eventId/pdf", h.PDF)
	r.POST("/reportes/asistencia/:eventId/:format/archivar", h.Archive)
	return r
}

func TestHandlerDownloads(t *testing.T) {
	src := &fakeAttendees{list: attendees(2)}
	var nilArchive Archiver
	r := newTestRouter(nilArchive, src)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reportes/asistencia/3/pdf", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Attendance_Asamblea_General_2026.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, models.StatusAttended, src.status)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reportes/asistencia/3/excel", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
	_, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	assert.NoError(t, err)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reportes/asistencia/99/pdf", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/reportes/asistencia/3/pdf/archivar", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHandlerArchive(t *testing.T) {
	archive := &fakeArchive{}
	r := newTestRouter(archive, &fakeAttendees{list: attendees(1)})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/reportes/asistencia/3/excel/archivar", nil))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.Len(t, archive.keys, 1)
	assert.True(t, strings.HasPrefix(archive.keys[0], "reportes/3/"))
	assert.True(t, strings.HasSuffix(archive.keys[0], "-Attendance_Asamblea_General_2026.xlsx"))
	assert.NotEmpty(t, archive.body)
	assert.Contains(t, w.Body.String(), "https://reports.example/reportes/3/")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/reportes/asistencia/3/csv/archivar", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	archive.presigned = fmt.Errorf("signing failed")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/reportes/asistencia/3/pdf/archivar", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Len(t, archive.deleted, 1)
}

func TestPDFWrapLongCells(t *testing.T) {
	doc := Build("FEDECOVERA", testEvent(), nil, generatedAt, time.UTC)
	pdf := buildPDF(doc, false)
	w := &pdfWriter{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor(""), doc: doc}
	pdf.SetFont("Helvetica", "", 8)

	lines := w.wrap(w.tr("Cooperativa Integral de Ahorro y Crédito San José Obrero Responsabilidad Limitada"), 96, 2)
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[1], "..."))
	for _, l := range lines {
		assert.LessOrEqual(t, pdf.GetStringWidth(l), 96.0)
	}
	assert.Equal(t, []string{"-"}, w.wrap("-", 96, 2))
	assert.Equal(t, []string{""}, w.wrap("", 96, 2))
}
