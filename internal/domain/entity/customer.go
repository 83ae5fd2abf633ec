package entity

import "time"

// Customer representa un cliente; DebtCents es el saldo adeudado acumulado (nunca negativo).
type Customer struct {
	ID        int64
	Name      string
	Phone     string // único si no está vacío
	Email     string
	Address   string
	DebtCents int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
