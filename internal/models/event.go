package models

import "time"

// Event is an organization event open to registration once published.
type Event struct {
	ID        int64     `json:"id_evento"`
	Name      string    `json:"nombre_evento"`
	Active    bool      `json:"estado_evento"`
	Date      time.Time `json:"fecha_evento"`
	Time      string    `json:"hora_evento"` // HH:MM
	Location  string    `json:"lugar_evento"`
	Published bool      `json:"publicado"`
	LinkToken *string   `json:"link_publico,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OpenForRegistration reports whether the public link accepts registrations.
func (e *Event) OpenForRegistration() bool {
	return e.Published && e.Active
}

// PublicEvent is the descriptor served on the public registration page.
type PublicEvent struct {
	ID       int64     `json:"id_evento"`
	Name     string    `json:"nombre_evento"`
	Date     time.Time `json:"fecha_evento"`
	Time     string    `json:"hora_evento"`
	Location string    `json:"lugar_evento"`
	Link     string    `json:"link_publico"`
}

// Public returns the public descriptor of e.
func (e *Event) Public() PublicEvent {
	p := PublicEvent{ID: e.ID, Name: e.Name, Date: e.Date, Time: e.Time, Location: e.Location}
	if e.LinkToken != nil {
		p.Link = *e.LinkToken
	}
	return p
}
