// Package registrations implements public self-registration to events.
package registrations

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/asamblea-eventos/backend/internal/models"
	"github.com/asamblea-eventos/backend/internal/people"
	"github.com/asamblea-eventos/backend/pkg/apperr"
)

// Request is a public registration to the event behind LinkToken.
type Request struct {
	LinkToken string
	Person    people.Input
	Kind      string

	// internal
	CooperativeID *int64
	CommissionID  *int64
	PositionID    *int64

	// external
	Institution *string
	Position    *string
}

// Result is what the confirmation message is built from.
type Result struct {
	RegistrationID int64                   `json:"id_registro_evento"`
	PersonID       int64                   `json:"id_persona"`
	NewPerson      bool                    `json:"nuevo_persona"`
	Kind           models.RegistrationKind `json:"tipo"`
	EventName      string                  `json:"evento"`
}

// Store is the persistence a registration needs, scoped to one transaction.
type Store interface {
	people.Store

	EventByLinkToken(ctx context.Context, token string) (*models.Event, error)

	FindInternal(ctx context.Context, personID int64, a InternalAffiliation) (id int64, found bool, err error)
	InsertInternal(ctx context.Context, personID int64, a InternalAffiliation) (int64, error)
	FindExternal(ctx context.Context, personID int64, a ExternalAffiliation) (id int64, found bool, err error)
	InsertExternal(ctx context.Context, personID int64, a ExternalAffiliation) (int64, error)

	EventRegistrationExists(ctx context.Context, eventID int64, ref models.AffiliationRef) (bool, error)
	InsertEventRegistration(ctx context.Context, eventID int64, ref models.AffiliationRef) (int64, error)
}

// TxRunner runs fn with a Store bound to a single transaction.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(store Store) error) error
}

// InternalAffiliation is the {cooperative, commission, position} tuple.
type InternalAffiliation struct {
	CooperativeID int64
	CommissionID  int64
	PositionID    int64
}

// ExternalAffiliation is the {institution, position} pair.
type ExternalAffiliation struct {
	Institution string
	Position    string
}

// Service registers people to published events.
type Service struct {
	tx     TxRunner
	logger *zap.Logger
}

// NewService creates a registration service.
func NewService(tx TxRunner, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{tx: tx, logger: logger}
}

// Register resolves the person and links them to the event under the requested
// affiliation. A person may hold several registrations for one event as long
// as each uses a different affiliation. All writes share one transaction, so a
// rejected request leaves nothing behind.
func (s *Service) Register(ctx context.Context, req Request) (*Result, error) {
	var res *Result
	err := s.tx.RunInTx(ctx, func(store Store) error {
		var err error
		res, err = s.register(ctx, store, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("event registration created",
		zap.Int64("registration_id", res.RegistrationID),
		zap.Int64("person_id", res.PersonID),
		zap.String("kind", string(res.Kind)),
		zap.Bool("new_person", res.NewPerson),
	)
	return res, nil
}

func (s *Service) register(ctx context.Context, store Store, req Request) (*Result, error) {
	event, err := store.EventByLinkToken(ctx, req.LinkToken)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, apperr.Wrap(err, apperr.CodeNotFound, "event not found")
		}
		return nil, err
	}
	if !event.OpenForRegistration() {
		return nil, apperr.New(apperr.CodeNotAvailable, "event is not open for registration")
	}

	kind, err := models.ParseKind(req.Kind)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CodeInvalidInput, err.Error())
	}
	var (
		internal InternalAffiliation
		external ExternalAffiliation
	)
	if kind == models.KindInternal {
		internal, err = internalFrom(req)
	} else {
		external, err = externalFrom(req)
	}
	if err != nil {
		return nil, err
	}

	person, err := people.NewResolver(store).Resolve(ctx, req.Person)
	if err != nil {
		return nil, err
	}

	var ref models.AffiliationRef
	switch kind {
	case models.KindInternal:
		ref, err = linkInternal(ctx, store, person.PersonID, internal)
	case models.KindExternal:
		ref, err = linkExternal(ctx, store, person.PersonID, external)
	}
	if err != nil {
		return nil, err
	}

	exists, err := store.EventRegistrationExists(ctx, event.ID, ref)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.New(apperr.CodeDuplicate, "already registered for this event with this affiliation")
	}
	regID, err := store.InsertEventRegistration(ctx, event.ID, ref)
	if err != nil {
		return nil, conflictMessage(err, "already registered for this event with this affiliation")
	}

	return &Result{
		RegistrationID: regID,
		PersonID:       person.PersonID,
		NewPerson:      person.Created,
		Kind:           kind,
		EventName:      event.Name,
	}, nil
}

func linkInternal(ctx context.Context, store Store, personID int64, a InternalAffiliation) (models.AffiliationRef, error) {
	_, found, err := store.FindInternal(ctx, personID, a)
	if err != nil {
		return models.AffiliationRef{}, err
	}
	if found {
		return models.AffiliationRef{}, apperr.New(apperr.CodeDuplicate,
			"already registered with this cooperative/commission/position")
	}
	id, err := store.InsertInternal(ctx, personID, a)
	if err != nil {
		return models.AffiliationRef{}, conflictMessage(err, "already registered with this cooperative/commission/position")
	}
	return models.InternalRef(id), nil
}

func linkExternal(ctx context.Context, store Store, personID int64, a ExternalAffiliation) (models.AffiliationRef, error) {
	_, found, err := store.FindExternal(ctx, personID, a)
	if err != nil {
		return models.AffiliationRef{}, err
	}
	if found {
		return models.AffiliationRef{}, apperr.New(apperr.CodeDuplicate,
			"already registered with this institution/position")
	}
	id, err := store.InsertExternal(ctx, personID, a)
	if err != nil {
		return models.AffiliationRef{}, conflictMessage(err, "already registered with this institution/position")
	}
	return models.ExternalRef(id), nil
}

// conflictMessage gives a unique-constraint race the same wording as the
// matching duplicate check.
func conflictMessage(err error, msg string) error {
	if apperr.HasCode(err, apperr.CodeConflict) {
		return apperr.Wrap(err, apperr.CodeConflict, msg)
	}
	return err
}

func internalFrom(req Request) (InternalAffiliation, error) {
	if req.CooperativeID == nil || req.CommissionID == nil || req.PositionID == nil {
		return InternalAffiliation{}, apperr.New(apperr.CodeInvalidInput,
			"id_cooperativa, id_comision and id_puesto are required for internal registration")
	}
	a := InternalAffiliation{CooperativeID: *req.CooperativeID, CommissionID: *req.CommissionID, PositionID: *req.PositionID}
	if a.CooperativeID <= 0 || a.CommissionID <= 0 || a.PositionID <= 0 {
		return InternalAffiliation{}, apperr.New(apperr.CodeInvalidInput, "cooperative, commission and position ids must be positive")
	}
	return a, nil
}

func externalFrom(req Request) (ExternalAffiliation, error) {
	var a ExternalAffiliation
	if req.Institution != nil {
		a.Institution = strings.TrimSpace(*req.Institution)
	}
	if req.Position != nil {
		a.Position = strings.TrimSpace(*req.Position)
	}
	if a.Institution == "" || a.Position == "" {
		return a, apperr.New(apperr.CodeInvalidInput, "institucion and puesto are required for external registration")
	}
	return a, nil
}
