package models

import (
	"errors"
	"strings"
	"time"
)

// RegistrationKind tells internal (cooperative) from external (institution) registrants.
type RegistrationKind string

const (
	KindInternal RegistrationKind = "interno"
	KindExternal RegistrationKind = "externo"
)

// ErrInvalidKind is returned by ParseKind for unknown values.
var ErrInvalidKind = errors.New("kind must be internal or external")

// ParseKind accepts the stored values and their English aliases.
func ParseKind(s string) (RegistrationKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "interno", "internal":
		return KindInternal, nil
	case "externo", "external":
		return KindExternal, nil
	}
	return "", ErrInvalidKind
}

// InternalRegistration is a person's {cooperative, commission, position} affiliation.
type InternalRegistration struct {
	ID            int64     `json:"id_interno"`
	PersonID      int64     `json:"id_persona"`
	CooperativeID int64     `json:"id_cooperativa"`
	CommissionID  int64     `json:"id_comision"`
	PositionID    int64     `json:"id_puesto"`
	CreatedAt     time.Time `json:"created_at"`
}

// ExternalRegistration is a person's {institution, position} affiliation.
type ExternalRegistration struct {
	ID          int64     `json:"id_externo"`
	PersonID    int64     `json:"id_persona"`
	Institution string    `json:"institucion"`
	Position    string    `json:"puesto"`
	CreatedAt   time.Time `json:"created_at"`
}

// AffiliationRef points an event registration at exactly one internal or
// external registration. The zero value is invalid.
type AffiliationRef struct {
	kind RegistrationKind
	id   int64
}

// InternalRef references an internal registration.
func InternalRef(id int64) AffiliationRef { return AffiliationRef{kind: KindInternal, id: id} }

// ExternalRef references an external registration.
func ExternalRef(id int64) AffiliationRef { return AffiliationRef{kind: KindExternal, id: id} }

func (a AffiliationRef) Kind() RegistrationKind { return a.kind }
func (a AffiliationRef) ID() int64              { return a.id }
func (a AffiliationRef) Valid() bool            { return a.kind != "" && a.id > 0 }

// Columns returns the (id_interno, id_externo) pair with exactly one set.
func (a AffiliationRef) Columns() (internalID, externalID *int64) {
	id := a.id
	if a.kind == KindInternal {
		return &id, nil
	}
	return nil, &id
}

// RefFromColumns rebuilds a reference from the two nullable columns.
func RefFromColumns(internalID, externalID *int64) (AffiliationRef, error) {
	switch {
	case internalID != nil && externalID == nil:
		return InternalRef(*internalID), nil
	case externalID != nil && internalID == nil:
		return ExternalRef(*externalID), nil
	}
	return AffiliationRef{}, errors.New("event registration must reference exactly one affiliation")
}

// EventRegistration links an event to one affiliation.
type EventRegistration struct {
	ID          int64
	EventID     int64
	Affiliation AffiliationRef
	Status      AttendanceStatus
	CreatedAt   time.Time
}
