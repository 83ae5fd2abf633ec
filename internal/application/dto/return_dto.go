package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReturnLineRequest línea a devolver, referida a la línea original de la venta.
type ReturnLineRequest struct {
	SaleItemID int64           `json:"sale_item_id"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// ReturnRefundRequest reembolso monetario indicado por el cajero.
type ReturnRefundRequest struct {
	Method string `json:"method" validate:"oneof=cash card"`
	Cents  int64  `json:"cents"`
}

// CreateReturnRequest body para POST /api/sales/:id/returns.
// Si no se indica Refund ni DebtReduceCents se aplica el reparto por defecto.
type CreateReturnRequest struct {
	Lines           []ReturnLineRequest  `json:"lines"`
	Refund          *ReturnRefundRequest `json:"refund,omitempty"`
	DebtReduceCents *int64               `json:"debt_reduce_cents,omitempty"`
	Note            string               `json:"note"`
}

// ReturnItemResponse línea devuelta.
type ReturnItemResponse struct {
	ID             int64           `json:"id"`
	SaleItemID     int64           `json:"sale_item_id"`
	ProductID      int64           `json:"product_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPriceCents int64           `json:"unit_price_cents"`
	LineTotalCents int64           `json:"line_total_cents"`
}

// ReturnResponse devolución con sus líneas.
type ReturnResponse struct {
	ID               int64                `json:"id"`
	TransactionID    string               `json:"transaction_id"`
	SaleID           int64                `json:"sale_id"`
	TotalCents       int64                `json:"total_cents"`
	DebtReducedCents int64                `json:"debt_reduced_cents"`
	RefundCents      int64                `json:"refund_cents"`
	RefundMethod     string               `json:"refund_method,omitempty"`
	Note             string               `json:"note,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
	Items            []ReturnItemResponse `json:"items"`
}
