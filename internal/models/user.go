package models

import "time"

// Role represents a back-office user role.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOperator Role = "operador"
)

// User is a back-office account that marks attendance and downloads reports.
type User struct {
	ID           int64     `json:"id_usuario"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"nombre_completo"`
	Role         Role      `json:"rol"`
	Active       bool      `json:"estado"`
	CreatedAt    time.Time `json:"created_at"`
}
