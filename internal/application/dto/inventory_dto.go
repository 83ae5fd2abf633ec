package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SetStockRequest body para PUT /api/products/:id/stock (cantidad absoluta).
type SetStockRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
	Note     string          `json:"note"`
}

// ReceiveStockRequest body para POST /api/products/:id/receive.
type ReceiveStockRequest struct {
	Quantity  decimal.Decimal `json:"quantity"`
	CostCents *int64          `json:"cost_cents,omitempty"`
	Note      string          `json:"note"`
}

// StockMovementResponse salida de un movimiento de inventario.
type StockMovementResponse struct {
	ID            int64           `json:"id"`
	TransactionID string          `json:"transaction_id"`
	ProductID     int64           `json:"product_id"`
	Kind          string          `json:"kind"`
	Quantity      decimal.Decimal `json:"quantity"`
	OldQuantity   decimal.Decimal `json:"old_quantity"`
	NewQuantity   decimal.Decimal `json:"new_quantity"`
	CostCents     int64           `json:"cost_cents"`
	PriceCents    int64           `json:"price_cents"`
	SaleID        *int64          `json:"sale_id,omitempty"`
	ReturnID      *int64          `json:"return_id,omitempty"`
	Note          string          `json:"note,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// StockMovementListResponse historial paginado de un producto.
type StockMovementListResponse struct {
	Items []StockMovementResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}
