package catalog

import (
	"context"

	"github.com/asamblea-eventos/backend/internal/models"
	"github.com/asamblea-eventos/backend/pkg/database"
)

// Repository reads the cooperative, commission and position catalogs.
type Repository struct {
	db database.DBTX
}

// NewRepository creates a catalog repository.
func NewRepository(db database.DBTX) *Repository {
	return &Repository{db: db}
}

// ActiveCooperatives returns active cooperatives ordered by name.
func (r *Repository) ActiveCooperatives(ctx context.Context) ([]models.Cooperative, error) {
	rows, err := r.db.Query(ctx, `SELECT id_cooperativa, name_cooperativa, estado
		FROM cooperativa WHERE estado ORDER BY name_cooperativa`)
	if err != nil {
		return nil, database.MapError(err, "cooperative")
	}
	defer rows.Close()
	list := []models.Cooperative{}
	for rows.Next() {
		var c models.Cooperative
		if err := rows.Scan(&c.ID, &c.Name, &c.Active); err != nil {
			return nil, database.MapError(err, "cooperative")
		}
		list = append(list, c)
	}
	return list, database.MapError(rows.Err(), "cooperative")
}

// Commissions returns all commissions ordered by name.
func (r *Repository) Commissions(ctx context.Context) ([]models.Commission, error) {
	rows, err := r.db.Query(ctx, `SELECT id_comision, name_comision FROM comision ORDER BY name_comision`)
	if err != nil {
		return nil, database.MapError(err, "commission")
	}
	defer rows.Close()
	list := []models.Commission{}
	for rows.Next() {
		var c models.Commission
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, database.MapError(err, "commission")
		}
		list = append(list, c)
	}
	return list, database.MapError(rows.Err(), "commission")
}

// Positions returns all positions ordered by name.
func (r *Repository) Positions(ctx context.Context) ([]models.Position, error) {
	rows, err := r.db.Query(ctx, `SELECT id_puesto, name_puesto FROM puesto ORDER BY name_puesto`)
	if err != nil {
		return nil, database.MapError(err, "position")
	}
	defer rows.Close()
	list := []models.Position{}
	for rows.Next() {
		var p models.Position
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, database.MapError(err, "position")
		}
		list = append(list, p)
	}
	return list, database.MapError(rows.Err(), "position")
}
