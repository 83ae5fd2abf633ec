package entity

import "time"

// Role rol del operador del punto de venta.
type Role string

// Roles válidos.
const (
	RoleAdmin   Role = "admin"
	RoleCashier Role = "cashier"
)

// Valid indica si el rol pertenece al catálogo cerrado.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleCashier
}

// User operador del sistema.
type User struct {
	ID           int64
	Username     string
	PasswordHash string // bcrypt, nunca en plano
	Role         Role
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
