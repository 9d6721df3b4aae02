// Package people finds or creates registrants by DPI.
package people

import (
	"context"
	"strings"

	"github.com/asamblea-eventos/backend/internal/models"
	"github.com/asamblea-eventos/backend/pkg/apperr"
)

// Input is the person data carried by a registration request. Nil Email or
// Phone means the field was not supplied.
type Input struct {
	NationalID models.NationalID
	GivenNames string
	Surnames   string
	Email      *string
	Phone      *string
}

// Resolution is the outcome of Resolve.
type Resolution struct {
	PersonID int64
	Created  bool
}

// Store is the persistence the resolver needs.
type Store interface {
	FindIDByNationalID(ctx context.Context, dpi models.NationalID) (id int64, found bool, err error)
	UpdatePerson(ctx context.Context, id int64, in Input) error
	InsertPerson(ctx context.Context, in Input) (int64, error)
}

// Resolver reconciles registration data with the persona table.
type Resolver struct {
	store Store
}

// NewResolver creates a resolver over store.
func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve returns the person with in.NationalID, updating names and any supplied
// contact fields, or inserts a new person. A concurrent insert of the same DPI
// surfaces as CodeConflict.
func (r *Resolver) Resolve(ctx context.Context, in Input) (Resolution, error) {
	in, err := Normalize(in)
	if err != nil {
		return Resolution{}, err
	}

	id, found, err := r.store.FindIDByNationalID(ctx, in.NationalID)
	if err != nil {
		return Resolution{}, err
	}
	if found {
		if err := r.store.UpdatePerson(ctx, id, in); err != nil {
			return Resolution{}, err
		}
		return Resolution{PersonID: id}, nil
	}

	id, err = r.store.InsertPerson(ctx, in)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeConflict) {
			return Resolution{}, apperr.Wrap(err, apperr.CodeConflict,
				"a person with this DPI was registered at the same time, please try again")
		}
		return Resolution{}, err
	}
	return Resolution{PersonID: id, Created: true}, nil
}

// Normalize trims fields and drops empty optional fields. Format and length
// rules are enforced by the request binding.
func Normalize(in Input) (Input, error) {
	in.GivenNames = strings.TrimSpace(in.GivenNames)
	in.Surnames = strings.TrimSpace(in.Surnames)
	in.Email = trimOptional(in.Email)
	in.Phone = trimOptional(in.Phone)

	switch {
	case in.NationalID <= 0:
		return in, apperr.New(apperr.CodeInvalidInput, "dpi is required")
	case in.GivenNames == "":
		return in, apperr.New(apperr.CodeInvalidInput, "nombres is required")
	case in.Surnames == "":
		return in, apperr.New(apperr.CodeInvalidInput, "apellidos is required")
	}
	return in, nil
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
