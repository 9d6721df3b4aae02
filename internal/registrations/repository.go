package registrations

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/asamblea-eventos/backend/internal/models"
	"github.com/asamblea-eventos/backend/pkg/database"
)

// Repository handles affiliation and event registration rows.
type Repository struct {
	db database.DBTX
}

// NewRepository creates a registration repository over a pool or transaction.
func NewRepository(db database.DBTX) *Repository {
	return &Repository{db: db}
}

func (r *Repository) findID(ctx context.Context, what, q string, args ...any) (int64, bool, error) {
	var id int64
	err := r.db.QueryRow(ctx, q, args...).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, database.MapError(err, what)
	}
	return id, true, nil
}

func (r *Repository) insertID(ctx context.Context, what, q string, args ...any) (int64, error) {
	var id int64
	if err := r.db.QueryRow(ctx, q, args...).Scan(&id); err != nil {
		return 0, database.MapError(err, what)
	}
	return id, nil
}

// FindInternal looks up the exact (person, cooperative, commission, position) tuple.
func (r *Repository) FindInternal(ctx context.Context, personID int64, a InternalAffiliation) (int64, bool, error) {
	return r.findID(ctx, "internal registration", `SELECT id_interno FROM registro_internos
		WHERE id_persona = $1 AND id_cooperativa = $2 AND id_comision = $3 AND id_puesto = $4`,
		personID, a.CooperativeID, a.CommissionID, a.PositionID)
}

// InsertInternal creates an internal registration.
func (r *Repository) InsertInternal(ctx context.Context, personID int64, a InternalAffiliation) (int64, error) {
	return r.insertID(ctx, "internal registration", `INSERT INTO registro_internos (id_persona, id_cooperativa, id_comision, id_puesto)
		VALUES ($1, $2, $3, $4) RETURNING id_interno`,
		personID, a.CooperativeID, a.CommissionID, a.PositionID)
}

// FindExternal looks up the exact (person, institution, position) tuple.
func (r *Repository) FindExternal(ctx context.Context, personID int64, a ExternalAffiliation) (int64, bool, error) {
	return r.findID(ctx, "external registration", `SELECT id_externo FROM registro_externo
		WHERE id_persona = $1 AND institucion = $2 AND puesto = $3`,
		personID, a.Institution, a.Position)
}

// InsertExternal creates an external registration.
func (r *Repository) InsertExternal(ctx context.Context, personID int64, a ExternalAffiliation) (int64, error) {
	return r.insertID(ctx, "external registration", `INSERT INTO registro_externo (id_persona, institucion, puesto)
		VALUES ($1, $2, $3) RETURNING id_externo`,
		personID, a.Institution, a.Position)
}

// EventRegistrationExists reports whether the event is already linked to ref.
func (r *Repository) EventRegistrationExists(ctx context.Context, eventID int64, ref models.AffiliationRef) (bool, error) {
	q := `SELECT id_registro_evento FROM registro_evento WHERE id_evento = $1 AND id_interno = $2`
	if ref.Kind() == models.KindExternal {
		q = `SELECT id_registro_evento FROM registro_evento WHERE id_evento = $1 AND id_externo = $2`
	}
	_, found, err := r.findID(ctx, "event registration", q, eventID, ref.ID())
	return found, err
}

// InsertEventRegistration links the event to exactly one affiliation.
func (r *Repository) InsertEventRegistration(ctx context.Context, eventID int64, ref models.AffiliationRef) (int64, error) {
	if !ref.Valid() {
		return 0, errors.New("event registration needs an affiliation")
	}
	internalID, externalID := ref.Columns()
	return r.insertID(ctx, "event registration", `INSERT INTO registro_evento (id_evento, id_interno, id_externo)
		VALUES ($1, $2, $3) RETURNING id_registro_evento`,
		eventID, internalID, externalID)
}
