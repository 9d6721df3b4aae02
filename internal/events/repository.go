package events

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/asamblea-eventos/backend/internal/models"
	"github.com/asamblea-eventos/backend/pkg/database"
)

const eventColumns = `id_evento, nombre_evento, estado_evento, fecha_evento, to_char(hora_evento, 'HH24:MI'),
	lugar_evento, publicado, link_publico, created_at, updated_at`

// ListFilter selects which events List returns.
type ListFilter int

const (
	ListAll ListFilter = iota
	ListActive
	ListUpcoming
)

// Patch holds the event fields to change. Nil fields are left untouched.
type Patch struct {
	Name     *string
	Active   *bool
	Date     *time.Time
	Time     *string
	Location *string
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Name == nil && p.Active == nil && p.Date == nil && p.Time == nil && p.Location == nil
}

// Repository handles evento persistence.
type Repository struct {
	db database.DBTX
}

// NewRepository creates an event repository.
func NewRepository(db database.DBTX) *Repository {
	return &Repository{db: db}
}

func scanEvent(row pgx.Row) (*models.Event, error) {
	var e models.Event
	err := row.Scan(&e.ID, &e.Name, &e.Active, &e.Date, &e.Time, &e.Location, &e.Published, &e.LinkToken, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, database.MapError(err, "event")
	}
	return &e, nil
}

// Create inserts a new, unpublished event.
func (r *Repository) Create(ctx context.Context, e *models.Event) error {
	const q = `INSERT INTO evento (nombre_evento, estado_evento, fecha_evento, hora_evento, lugar_evento)
		VALUES ($1, $2, $3, $4::text::time, $5)
		RETURNING ` + eventColumns
	created, err := scanEvent(r.db.QueryRow(ctx, q, e.Name, e.Active, e.Date, e.Time, e.Location))
	if err != nil {
		return err
	}
	*e = *created
	return nil
}

// GetByID returns an event by ID.
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	return scanEvent(r.db.QueryRow(ctx, `SELECT `+eventColumns+` FROM evento WHERE id_evento = $1`, id))
}

// GetByLinkToken returns the event owning a public link token, whatever its state.
func (r *Repository) GetByLinkToken(ctx context.Context, token string) (*models.Event, error) {
	return scanEvent(r.db.QueryRow(ctx, `SELECT `+eventColumns+` FROM evento WHERE link_publico = $1`, token))
}

// List returns events newest first, or soonest first for upcoming events.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.Event, error) {
	q := `SELECT ` + eventColumns + ` FROM evento`
	switch filter {
	case ListActive:
		q += ` WHERE estado_evento ORDER BY fecha_evento DESC, hora_evento DESC`
	case ListUpcoming:
		q += ` WHERE estado_evento AND fecha_evento >= CURRENT_DATE ORDER BY fecha_evento ASC, hora_evento ASC`
	default:
		q += ` ORDER BY fecha_evento DESC, hora_evento DESC`
	}
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, database.MapError(err, "event")
	}
	defer rows.Close()

	list := []models.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *e)
	}
	return list, database.MapError(rows.Err(), "event")
}

// Update applies a partial update and returns the stored event.
func (r *Repository) Update(ctx context.Context, id int64, p Patch) (*models.Event, error) {
	const q = `UPDATE evento SET
			nombre_evento = COALESCE($2, nombre_evento),
			estado_evento = COALESCE($3, estado_evento),
			fecha_evento  = COALESCE($4, fecha_evento),
			hora_evento   = COALESCE($5::text::time, hora_evento),
			lugar_evento  = COALESCE($6, lugar_evento),
			updated_at = NOW()
		WHERE id_evento = $1
		RETURNING ` + eventColumns
	return scanEvent(r.db.QueryRow(ctx, q, id, p.Name, p.Active, p.Date, p.Time, p.Location))
}

// Publish sets the publication flag. token is stored only if the event has no
// link yet, so a published link never changes.
func (r *Repository) Publish(ctx context.Context, id int64, token string) (*models.Event, error) {
	const q = `UPDATE evento
		SET publicado = TRUE, link_publico = COALESCE(link_publico, $2), updated_at = NOW()
		WHERE id_evento = $1
		RETURNING ` + eventColumns
	return scanEvent(r.db.QueryRow(ctx, q, id, token))
}

// Unpublish clears the publication flag and keeps the link.
func (r *Repository) Unpublish(ctx context.Context, id int64) (*models.Event, error) {
	const q = `UPDATE evento SET publicado = FALSE, updated_at = NOW()
		WHERE id_evento = $1
		RETURNING ` + eventColumns
	return scanEvent(r.db.QueryRow(ctx, q, id))
}

// Delete removes an event and, by cascade, its registrations.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM evento WHERE id_evento = $1`, id)
	if err != nil {
		return database.MapError(err, "event")
	}
	if tag.RowsAffected() == 0 {
		return database.MapError(pgx.ErrNoRows, "event")
	}
	return nil
}
