// Package reports renders attendance lists as spreadsheets and paged PDFs.
package reports

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/asamblea-eventos/backend/internal/models"
)

const (
	documentTitle = "Attendance List"
	dateLayout    = "Monday, January 2, 2006"
	stampLayout   = "2006-01-02 15:04"
)

var columnHeaders = [...]string{"No.", "Full Name", "DPI", "Cooperative/Institution", "Position", "Signature"}

// Row is one numbered table line.
type Row struct {
	Number      int
	FullName    string
	NationalID  string
	Institution string
	Position    string
}

// Document is everything both renderers draw.
type Document struct {
	OrgName     string
	EventName   string
	Date        string
	Time        string
	Location    string
	Rows        []Row
	GeneratedAt string
}

// Total is the attendee count shown in the header.
func (d Document) Total() int { return len(d.Rows) }

// Build lays out attendees for e, sorted by surname then given names using
// Spanish collation. generated is shown in loc.
func Build(org string, e *models.Event, attendees []models.Attendee, generated time.Time, loc *time.Location) Document {
	if loc == nil {
		loc = time.UTC
	}
	sorted := make([]models.Attendee, len(attendees))
	copy(sorted, attendees)
	col := collate.New(language.Spanish, collate.IgnoreCase)
	sort.SliceStable(sorted, func(i, j int) bool {
		if c := col.CompareString(sorted[i].Surnames, sorted[j].Surnames); c != 0 {
			return c < 0
		}
		return col.CompareString(sorted[i].GivenNames, sorted[j].GivenNames) < 0
	})

	rows := make([]Row, len(sorted))
	for i, a := range sorted {
		rows[i] = Row{
			Number:      i + 1,
			FullName:    strings.TrimSpace(a.FullName()),
			NationalID:  nationalID(a.NationalID),
			Institution: orDash(a.Institution),
			Position:    orDash(a.Position),
		}
	}

	return Document{
		OrgName:     org,
		EventName:   e.Name,
		Date:        e.Date.Format(dateLayout),
		Time:        e.Time,
		Location:    e.Location,
		Rows:        rows,
		GeneratedAt: generated.In(loc).Format(stampLayout),
	}
}

func nationalID(n models.NationalID) string {
	if n <= 0 {
		return "N/A"
	}
	return n.String()
}

func orDash(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "-"
	}
	return s
}

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9]+`)

// Filename is the attachment name for an event's report, e.g.
// "Attendance_Asamblea_General.pdf".
func Filename(eventName string, f Format) string {
	name := strings.Trim(unsafeFilename.ReplaceAllString(eventName, "_"), "_")
	if name == "" {
		name = "Report"
	}
	return "Attendance_" + name + "." + f.Extension()
}
