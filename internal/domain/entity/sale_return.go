package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// RefundMethod forma en que se devolvió dinero al cliente.
type RefundMethod string

// Métodos de reembolso.
const (
	RefundCash RefundMethod = "cash"
	RefundCard RefundMethod = "card"
)

// Valid indica si el método pertenece al catálogo cerrado.
func (m RefundMethod) Valid() bool {
	return m == RefundCash || m == RefundCard
}

// SaleReturn cabecera de una devolución parcial o total.
// TotalCents = suma de las líneas; DebtReducedCents + RefundCents <= TotalCents.
type SaleReturn struct {
	ID               int64
	TransactionID    string
	SaleID           int64
	TotalCents       int64
	DebtReducedCents int64
	RefundCents      int64
	RefundMethod     *RefundMethod // nil si no hubo reembolso monetario
	Note             string
	CreatedAt        time.Time
	Items            []SaleReturnItem
}

// SaleReturnItem línea devuelta, valorizada al precio original de la venta.
type SaleReturnItem struct {
	ID             int64
	ReturnID       int64
	SaleItemID     int64
	ProductID      int64
	Quantity       decimal.Decimal
	UnitPriceCents int64
	LineTotalCents int64
}
