package reports

import (
	"bytes"
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/asamblea-eventos/backend/internal/models"
	"github.com/asamblea-eventos/backend/pkg/apperr"
)

// EventSource loads the event a report is about.
type EventSource interface {
	GetByID(ctx context.Context, id int64) (*models.Event, error)
}

// AttendeeSource lists an event's attendees, optionally filtered by status.
type AttendeeSource interface {
	ListByEvent(ctx context.Context, eventID int64, status models.AttendanceStatus) ([]models.Attendee, error)
}

// Report is a rendered document ready to send or archive.
type Report struct {
	Filename    string
	ContentType string
	Body        []byte
	Attendees   int
}

// Generator renders attendance reports for events. Only attendees marked as
// attended are listed.
type Generator struct {
	events    EventSource
	attendees AttendeeSource
	orgName   string
	loc       *time.Location
	now       func() time.Time
	logger    *zap.Logger
}

// NewGenerator creates a report generator. Timestamps are shown in loc.
func NewGenerator(events EventSource, attendees AttendeeSource, orgName string, loc *time.Location, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Generator{events: events, attendees: attendees, orgName: orgName, loc: loc, now: time.Now, logger: logger}
}

// Generate renders the attendance report of eventID in format f.
func (g *Generator) Generate(ctx context.Context, eventID int64, f Format) (*Report, error) {
	event, err := g.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	list, err := g.attendees.ListByEvent(ctx, eventID, models.StatusAttended)
	if err != nil {
		return nil, err
	}

	doc := Build(g.orgName, event, list, g.now(), g.loc)
	var buf bytes.Buffer
	if err := Render(&buf, f, doc); err != nil {
		return nil, apperr.Internal(err, "failed to render report")
	}
	g.logger.Info("attendance report rendered",
		zap.Int64("event_id", eventID),
		zap.String("format", string(f)),
		zap.Int("attendees", doc.Total()),
		zap.Int("bytes", buf.Len()),
	)
	return &Report{
		Filename:    Filename(event.Name, f),
		ContentType: f.ContentType(),
		Body:        buf.Bytes(),
		Attendees:   doc.Total(),
	}, nil
}
