package people

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/asamblea-eventos/backend/internal/models"
	"github.com/asamblea-eventos/backend/pkg/database"
)

// Repository handles persona persistence.
type Repository struct {
	db database.DBTX
}

// NewRepository creates a persona repository over a pool or transaction.
func NewRepository(db database.DBTX) *Repository {
	return &Repository{db: db}
}

// FindIDByNationalID returns the id of the person with the given DPI.
func (r *Repository) FindIDByNationalID(ctx context.Context, dpi models.NationalID) (int64, bool, error) {
	var id int64
	err := r.db.QueryRow(ctx, `SELECT id_persona FROM persona WHERE dpi = $1`, int64(dpi)).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, database.MapError(err, "person")
	}
	return id, true, nil
}

// UpdatePerson overwrites names and only the contact fields that were supplied.
func (r *Repository) UpdatePerson(ctx context.Context, id int64, in Input) error {
	const q = `UPDATE persona
		SET nombres = $2, apellidos = $3,
			email = COALESCE($4, email),
			telefono = COALESCE($5, telefono),
			updated_at = NOW()
		WHERE id_persona = $1`
	tag, err := r.db.Exec(ctx, q, id, in.GivenNames, in.Surnames, in.Email, in.Phone)
	if err != nil {
		return database.MapError(err, "person")
	}
	if tag.RowsAffected() == 0 {
		return database.MapError(pgx.ErrNoRows, "person")
	}
	return nil
}

// InsertPerson creates a person; unsupplied contact fields are stored as NULL.
func (r *Repository) InsertPerson(ctx context.Context, in Input) (int64, error) {
	const q = `INSERT INTO persona (nombres, apellidos, email, dpi, telefono)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id_persona`
	var id int64
	err := r.db.QueryRow(ctx, q, in.GivenNames, in.Surnames, in.Email, int64(in.NationalID), in.Phone).Scan(&id)
	if err != nil {
		return 0, database.MapError(err, "person")
	}
	return id, nil
}

// GetByNationalID returns the full person record for a DPI.
func (r *Repository) GetByNationalID(ctx context.Context, dpi models.NationalID) (*models.Person, error) {
	const q = `SELECT id_persona, nombres, apellidos, email, dpi, telefono, created_at, updated_at
		FROM persona WHERE dpi = $1`
	var p models.Person
	var raw int64
	err := r.db.QueryRow(ctx, q, int64(dpi)).
		Scan(&p.ID, &p.GivenNames, &p.Surnames, &p.Email, &raw, &p.Phone, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, database.MapError(err, "person")
	}
	p.NationalID = models.NationalID(raw)
	return &p, nil
}
