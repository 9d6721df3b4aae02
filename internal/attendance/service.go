package attendance

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/asamblea-eventos/backend/internal/models"
	"github.com/asamblea-eventos/backend/pkg/apperr"
	"github.com/asamblea-eventos/backend/pkg/database"
)

// MaxBulk caps the ids accepted by one bulk mark.
const MaxBulk = 1000

// Mark is the outcome of a single status change.
type Mark struct {
	RegistrationID int64                   `json:"id_registro_evento"`
	PreviousStatus models.AttendanceStatus `json:"estado_anterior"`
	NewStatus      models.AttendanceStatus `json:"estado_nuevo"`
	At             time.Time               `json:"fecha"`
}

// Stats summarizes an event's attendance.
type Stats struct {
	Registered   int     `json:"total_registrados"`
	Attended     int     `json:"total_asistieron"`
	DidNotAttend int     `json:"total_no_asistieron"`
	Pending      int     `json:"total_pendientes"`
	Percentage   float64 `json:"porcentaje_asistencia"`
}

// EventAttendance is an event's attendee list split by status.
type EventAttendance struct {
	Total        int               `json:"total"`
	Attended     []models.Attendee `json:"asistieron"`
	Registered   []models.Attendee `json:"registrados"`
	DidNotAttend []models.Attendee `json:"no_asistieron"`
	Stats        Stats             `json:"estadisticas"`
}

// Service changes attendance state inside transactions.
type Service struct {
	db     database.TxBeginner
	repo   *Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates an attendance service.
func NewService(db database.TxBeginner, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{db: db, repo: NewRepository(db), logger: logger, now: time.Now}
}

// Repository returns the read side used by reports.
func (s *Service) Repository() *Repository { return s.repo }

func validateStatus(status models.AttendanceStatus) error {
	if !status.Valid() {
		return apperr.New(apperr.CodeInvalidInput, "estado_asistencia must be registrado, asistio or no_asistio")
	}
	return nil
}

func normalizeNotes(notes *string) (*string, error) {
	if notes == nil {
		return nil, nil
	}
	n := strings.TrimSpace(*notes)
	if n == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(n) > 500 {
		return nil, apperr.New(apperr.CodeInvalidInput, "notas cannot exceed 500 characters")
	}
	return &n, nil
}

// MarkOne sets a registration's status and records the change in the audit trail.
func (s *Service) MarkOne(ctx context.Context, registrationID int64, status models.AttendanceStatus, userID int64, notes *string) (*Mark, error) {
	if err := validateStatus(status); err != nil {
		return nil, err
	}
	notes, err := normalizeNotes(notes)
	if err != nil {
		return nil, err
	}

	var prev models.AttendanceStatus
	err = database.RunInTx(ctx, s.db, func(tx pgx.Tx) error {
		var err error
		prev, err = mark(ctx, NewRepository(tx), registrationID, status, userID, notes, ActionMark)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("attendance marked",
		zap.Int64("registration_id", registrationID),
		zap.String("from", string(prev)),
		zap.String("to", string(status)),
		zap.Int64("user_id", userID),
	)
	return &Mark{RegistrationID: registrationID, PreviousStatus: prev, NewStatus: status, At: s.now()}, nil
}

// MarkMany sets the same status on every registration in ids. Either all of
// them change or none do; an unknown id aborts the whole batch.
func (s *Service) MarkMany(ctx context.Context, ids []int64, status models.AttendanceStatus, userID int64) (int, error) {
	if err := validateStatus(status); err != nil {
		return 0, err
	}
	ids = dedupe(ids)
	if len(ids) == 0 {
		return 0, apperr.New(apperr.CodeInvalidInput, "registros must contain at least one id")
	}
	if len(ids) > MaxBulk {
		return 0, apperr.New(apperr.CodeInvalidInput, fmt.Sprintf("registros cannot exceed %d ids", MaxBulk))
	}

	err := database.RunInTx(ctx, s.db, func(tx pgx.Tx) error {
		repo := NewRepository(tx)
		for _, id := range ids {
			if _, err := mark(ctx, repo, id, status, userID, nil, ActionBulkMark); err != nil {
				if apperr.HasCode(err, apperr.CodeNotFound) {
					return apperr.Wrap(err, apperr.CodeNotFound, fmt.Sprintf("registration %d not found", id))
				}
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.logger.Info("attendance bulk marked",
		zap.Int("count", len(ids)),
		zap.String("to", string(status)),
		zap.Int64("user_id", userID),
	)
	return len(ids), nil
}

func mark(ctx context.Context, repo *Repository, id int64, status models.AttendanceStatus, userID int64, notes *string, action string) (models.AttendanceStatus, error) {
	prev, err := repo.LockStatus(ctx, id)
	if err != nil {
		return "", err
	}
	if err := repo.SetStatus(ctx, id, status, userID, notes); err != nil {
		return "", err
	}
	uid := userID
	err = repo.InsertAudit(ctx, models.AuditEntry{
		RegistrationID: id,
		Action:         action,
		PreviousStatus: &prev,
		NewStatus:      status,
		UserID:         &uid,
		Notes:          notes,
	})
	return prev, err
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// ForEvent returns the event's attendees grouped by status, with totals.
func (s *Service) ForEvent(ctx context.Context, eventID int64) (*EventAttendance, error) {
	list, err := s.repo.ListByEvent(ctx, eventID, "")
	if err != nil {
		return nil, err
	}
	return Group(list), nil
}

// Group splits attendees by status, keeping their order, and computes the totals.
func Group(list []models.Attendee) *EventAttendance {
	out := &EventAttendance{
		Total:        len(list),
		Attended:     []models.Attendee{},
		Registered:   []models.Attendee{},
		DidNotAttend: []models.Attendee{},
	}
	for _, a := range list {
		switch a.Status {
		case models.StatusAttended:
			out.Attended = append(out.Attended, a)
		case models.StatusDidNotAttend:
			out.DidNotAttend = append(out.DidNotAttend, a)
		default:
			out.Registered = append(out.Registered, a)
		}
	}
	out.Stats = Stats{
		Registered:   len(list),
		Attended:     len(out.Attended),
		DidNotAttend: len(out.DidNotAttend),
		Pending:      len(out.Registered),
	}
	if len(list) > 0 {
		out.Stats.Percentage = math.Round(float64(len(out.Attended))*10000/float64(len(list))) / 100
	}
	return out
}

// AuditTrail returns a registration's change history, newest first.
func (s *Service) AuditTrail(ctx context.Context, registrationID int64) ([]models.AuditEntry, error) {
	return s.repo.AuditTrail(ctx, registrationID)
}
