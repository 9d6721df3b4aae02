package auth

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/asamblea-eventos/backend/internal/models"
	"github.com/asamblea-eventos/backend/pkg/database"
)

const userColumns = `id_usuario, username, password_hash, nombre_completo, rol, estado, created_at`

// Repository handles usuario rows.
type Repository struct {
	db database.DBTX
}

// NewRepository creates a user repository.
func NewRepository(db database.DBTX) *Repository {
	return &Repository{db: db}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var (
		u    models.User
		role string
	)
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.FullName, &role, &u.Active, &u.CreatedAt)
	if err != nil {
		return nil, database.MapError(err, "user")
	}
	u.Role = models.Role(role)
	return &u, nil
}

// GetByID returns a user by id.
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM usuario WHERE id_usuario = $1`, id))
}

// GetByUsername returns a user by login name.
func (r *Repository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM usuario WHERE username = $1`, username))
}

// List returns all users ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM usuario ORDER BY nombre_completo`)
	if err != nil {
		return nil, database.MapError(err, "users")
	}
	defer rows.Close()
	list := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *u)
	}
	return list, database.MapError(rows.Err(), "users")
}

// Create inserts a user; u.ID and u.CreatedAt are filled in.
func (r *Repository) Create(ctx context.Context, u *models.User) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO usuario (username, password_hash, nombre_completo, rol, estado)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id_usuario, created_at`,
		u.Username, u.PasswordHash, u.FullName, string(u.Role), u.Active,
	).Scan(&u.ID, &u.CreatedAt)
	return database.MapError(err, "user")
}
