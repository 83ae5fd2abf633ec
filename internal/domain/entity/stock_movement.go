package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind tipo de movimiento de inventario.
type MovementKind string

// Tipos de movimiento.
const (
	MovementInitial    MovementKind = "initial"    // existencia inicial al crear el producto
	MovementReceive    MovementKind = "receive"    // entrada de mercancía
	MovementSale       MovementKind = "sale"       // salida por venta
	MovementReturn     MovementKind = "return"     // reingreso por devolución
	MovementAdjustment MovementKind = "adjustment" // ajuste manual a cantidad absoluta
)

// Valid indica si el tipo pertenece al catálogo cerrado.
func (k MovementKind) Valid() bool {
	switch k {
	case MovementInitial, MovementReceive, MovementSale, MovementReturn, MovementAdjustment:
		return true
	}
	return false
}

// StockMovement registro inmutable de un cambio de existencia.
// Quantity es el delta con signo; OldQuantity/NewQuantity son la foto antes y después.
type StockMovement struct {
	ID            int64
	TransactionID string // uuid de la operación que lo causó
	ProductID     int64
	Kind          MovementKind
	Quantity      decimal.Decimal
	OldQuantity   decimal.Decimal
	NewQuantity   decimal.Decimal
	CostCents     int64
	PriceCents    int64
	SaleID        *int64
	ReturnID      *int64
	Note          string
	CreatedAt     time.Time
}
