package registrations

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/asamblea-eventos/backend/internal/events"
	"github.com/asamblea-eventos/backend/internal/models"
	"github.com/asamblea-eventos/backend/internal/people"
	"github.com/asamblea-eventos/backend/pkg/database"
)

// PostgresTx runs registrations inside a Postgres transaction.
type PostgresTx struct {
	db database.TxBeginner
}

// NewPostgresTx creates a TxRunner over a pool.
func NewPostgresTx(db database.TxBeginner) *PostgresTx {
	return &PostgresTx{db: db}
}

// RunInTx implements TxRunner.
func (t *PostgresTx) RunInTx(ctx context.Context, fn func(store Store) error) error {
	return database.RunInTx(ctx, t.db, func(tx pgx.Tx) error {
		return fn(&txStore{
			Repository: NewRepository(tx),
			people:     people.NewRepository(tx),
			events:     events.NewRepository(tx),
		})
	})
}

type txStore struct {
	*Repository
	people *people.Repository
	events *events.Repository
}

func (s *txStore) EventByLinkToken(ctx context.Context, token string) (*models.Event, error) {
	return s.events.GetByLinkToken(ctx, token)
}

func (s *txStore) FindIDByNationalID(ctx context.Context, dpi models.NationalID) (int64, bool, error) {
	return s.people.FindIDByNationalID(ctx, dpi)
}

func (s *txStore) UpdatePerson(ctx context.Context, id int64, in people.Input) error {
	return s.people.UpdatePerson(ctx, id, in)
}

func (s *txStore) InsertPerson(ctx context.Context, in people.Input) (int64, error) {
	return s.people.InsertPerson(ctx, in)
}
