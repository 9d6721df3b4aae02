package models

import "time"

// AttendanceStatus is the attendance state of an event registration.
type AttendanceStatus string

const (
	StatusRegistered   AttendanceStatus = "registrado"
	StatusAttended     AttendanceStatus = "asistio"
	StatusDidNotAttend AttendanceStatus = "no_asistio"
)

// Valid reports whether s is a known status.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusRegistered, StatusAttended, StatusDidNotAttend:
		return true
	}
	return false
}

// Attendee is one row of the attendance view: a registration with its person
// and the affiliation already coalesced.
type Attendee struct {
	RegistrationID int64            `json:"id_registro_evento"`
	EventID        int64            `json:"id_evento"`
	PersonID       int64            `json:"id_persona"`
	GivenNames     string           `json:"nombres"`
	Surnames       string           `json:"apellidos"`
	NationalID     NationalID       `json:"dpi"`
	Kind           RegistrationKind `json:"tipo_participante"`
	Institution    string           `json:"institucion"`
	Position       string           `json:"puesto"`
	Status         AttendanceStatus `json:"estado_asistencia"`
	AttendedAt     *time.Time       `json:"fecha_asistencia,omitempty"`
}

// FullName is given names followed by surnames.
func (a Attendee) FullName() string {
	return a.GivenNames + " " + a.Surnames
}

// AuditEntry is one bitacora_asistencia row.
type AuditEntry struct {
	ID             int64             `json:"id_bitacora"`
	RegistrationID int64             `json:"id_registro_evento"`
	Action         string            `json:"accion"`
	PreviousStatus *AttendanceStatus `json:"estado_anterior,omitempty"`
	NewStatus      AttendanceStatus  `json:"estado_nuevo"`
	UserID         *int64            `json:"id_usuario,omitempty"`
	UserName       *string           `json:"usuario,omitempty"`
	At             time.Time         `json:"fecha_accion"`
	Notes          *string           `json:"observaciones,omitempty"`
}
