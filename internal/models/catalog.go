package models

// Cooperative is a member cooperative.
type Cooperative struct {
	ID     int64  `json:"id_cooperativa"`
	Name   string `json:"name_cooperativa"`
	Active bool   `json:"estado"`
}

// Commission is a cooperative commission.
type Commission struct {
	ID   int64  `json:"id_comision"`
	Name string `json:"name_comision"`
}

// Position is a role held inside a cooperative.
type Position struct {
	ID   int64  `json:"id_puesto"`
	Name string `json:"name_puesto"`
}
