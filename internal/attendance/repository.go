// Package attendance marks who showed up to an event and keeps an audit trail.
package attendance

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/asamblea-eventos/backend/internal/models"
	"github.com/asamblea-eventos/backend/pkg/database"
)

const (
	ActionMark     = "marca_asistencia"
	ActionBulkMark = "marca_asistencia_masiva"
)

const attendeeColumns = `id_registro_evento, id_evento, id_persona, nombres, apellidos, dpi,
	tipo_participante, COALESCE(institucion, ''), COALESCE(puesto, ''), estado_asistencia, fecha_asistencia`

// Repository reads vw_reporte_asistencia and writes attendance state.
type Repository struct {
	db database.DBTX
}

// NewRepository creates an attendance repository over a pool or transaction.
func NewRepository(db database.DBTX) *Repository {
	return &Repository{db: db}
}

// LockStatus returns the current status of a registration and locks its row
// until the transaction ends.
func (r *Repository) LockStatus(ctx context.Context, registrationID int64) (models.AttendanceStatus, error) {
	var s string
	err := r.db.QueryRow(ctx,
		`SELECT estado_asistencia FROM registro_evento WHERE id_registro_evento = $1 FOR UPDATE`,
		registrationID).Scan(&s)
	if err != nil {
		return "", database.MapError(err, "registration")
	}
	return models.AttendanceStatus(s), nil
}

// SetStatus stores the new status. The attendance time is set when the status
// becomes attended and kept otherwise. Nil notes leave the stored notes alone.
func (r *Repository) SetStatus(ctx context.Context, registrationID int64, status models.AttendanceStatus, userID int64, notes *string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE registro_evento
		 SET estado_asistencia = $2,
		     fecha_asistencia = CASE WHEN $3 THEN NOW() ELSE fecha_asistencia END,
		     id_usuario_asistencia = $4,
		     notas = COALESCE($5, notas),
		     updated_at = NOW()
		 WHERE id_registro_evento = $1`,
		registrationID, string(status), status == models.StatusAttended, userID, notes)
	return database.MapError(err, "registration")
}

// InsertAudit appends a bitacora row.
func (r *Repository) InsertAudit(ctx context.Context, e models.AuditEntry) error {
	var prev *string
	if e.PreviousStatus != nil {
		s := string(*e.PreviousStatus)
		prev = &s
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO bitacora_asistencia (id_registro_evento, accion, estado_anterior, estado_nuevo, id_usuario, observaciones)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		e.RegistrationID, e.Action, prev, string(e.NewStatus), e.UserID, e.Notes)
	return database.MapError(err, "attendance audit")
}

// ListByEvent returns the event's attendees, attended first, then registered,
// then absent, each group by surname and given names. A non-empty status
// restricts the list to that status.
func (r *Repository) ListByEvent(ctx context.Context, eventID int64, status models.AttendanceStatus) ([]models.Attendee, error) {
	q := `SELECT ` + attendeeColumns + ` FROM vw_reporte_asistencia WHERE id_evento = $1`
	args := []any{eventID}
	if status != "" {
		q += ` AND estado_asistencia = $2`
		args = append(args, string(status))
	}
	q += ` ORDER BY CASE estado_asistencia WHEN 'asistio' THEN 1 WHEN 'registrado' THEN 2 ELSE 3 END, apellidos, nombres`

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, database.MapError(err, "attendance")
	}
	defer rows.Close()
	list := []models.Attendee{}
	for rows.Next() {
		a, err := scanAttendee(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, database.MapError(rows.Err(), "attendance")
}

func scanAttendee(row pgx.Row) (models.Attendee, error) {
	var (
		a      models.Attendee
		dpi    int64
		kind   string
		status string
	)
	err := row.Scan(&a.RegistrationID, &a.EventID, &a.PersonID, &a.GivenNames, &a.Surnames, &dpi,
		&kind, &a.Institution, &a.Position, &status, &a.AttendedAt)
	if err != nil {
		return a, database.MapError(err, "attendance")
	}
	a.NationalID = models.NationalID(dpi)
	a.Kind = models.RegistrationKind(kind)
	a.Status = models.AttendanceStatus(status)
	return a, nil
}

// AuditTrail returns a registration's bitacora, newest first, with the name of
// the user who made each change.
func (r *Repository) AuditTrail(ctx context.Context, registrationID int64) ([]models.AuditEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT b.id_bitacora, b.id_registro_evento, b.accion, b.estado_anterior, b.estado_nuevo,
		        b.id_usuario, u.nombre_completo, b.fecha_accion, b.observaciones
		 FROM bitacora_asistencia b
		 LEFT JOIN usuario u ON u.id_usuario = b.id_usuario
		 WHERE b.id_registro_evento = $1
		 ORDER BY b.fecha_accion DESC, b.id_bitacora DESC`,
		registrationID)
	if err != nil {
		return nil, database.MapError(err, "attendance audit")
	}
	defer rows.Close()
	list := []models.AuditEntry{}
	for rows.Next() {
		var (
			e    models.AuditEntry
			prev *string
			next string
		)
		if err := rows.Scan(&e.ID, &e.RegistrationID, &e.Action, &prev, &next,
			&e.UserID, &e.UserName, &e.At, &e.Notes); err != nil {
			return nil, database.MapError(err, "attendance audit")
		}
		if prev != nil {
			s := models.AttendanceStatus(*prev)
			e.PreviousStatus = &s
		}
		e.NewStatus = models.AttendanceStatus(next)
		list = append(list, e)
	}
	return list, database.MapError(rows.Err(), "attendance audit")
}
