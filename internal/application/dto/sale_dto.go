package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest una línea del carrito.
type SaleItemRequest struct {
	ProductID int64           `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// SaleCustomerRequest datos del cliente; se reutiliza por teléfono o se crea por nombre.
type SaleCustomerRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	Items         []SaleItemRequest    `json:"items"`
	PaymentMethod string               `json:"payment_method" validate:"required,oneof=cash card mixed debt"`
	DiscountCents int64                `json:"discount_cents"`
	Customer      *SaleCustomerRequest `json:"customer,omitempty"`
	Note          string               `json:"note"`
}

// CreateSaleResponse resultado de la venta confirmada.
type CreateSaleResponse struct {
	SaleID        int64  `json:"sale_id"`
	TransactionID string `json:"transaction_id"`
	CustomerID    *int64 `json:"customer_id,omitempty"`
	SubtotalCents int64  `json:"subtotal_cents"`
	DiscountCents int64  `json:"discount_cents"`
	TaxCents      int64  `json:"tax_cents"`
	TotalCents    int64  `json:"total_cents"`
}

// SaleResponse cabecera de una venta.
type SaleResponse struct {
	ID            int64     `json:"id"`
	TransactionID string    `json:"transaction_id"`
	CustomerID    *int64    `json:"customer_id,omitempty"`
	SaleDate      time.Time `json:"sale_date"`
	SubtotalCents int64     `json:"subtotal_cents"`
	DiscountCents int64     `json:"discount_cents"`
	TaxCents      int64     `json:"tax_cents"`
	TotalCents    int64     `json:"total_cents"`
	PaymentMethod string    `json:"payment_method"`
	Note          string    `json:"note,omitempty"`
}

// SaleItemResponse línea de venta con la foto del producto al vender.
type SaleItemResponse struct {
	ID             int64           `json:"id"`
	SaleID         int64           `json:"sale_id"`
	ProductID      int64           `json:"product_id"`
	ProductName    string          `json:"product_name"`
	Barcode        string          `json:"barcode,omitempty"`
	UnitPriceCents int64           `json:"unit_price_cents"`
	CostCents      int64           `json:"cost_cents"`
	Quantity       decimal.Decimal `json:"quantity"`
	LineTotalCents int64           `json:"line_total_cents"`
	ProfitCents    int64           `json:"profit_cents"`
}

// SaleDetailResponse venta con líneas y cobro.
type SaleDetailResponse struct {
	SaleResponse
	Items   []SaleItemResponse `json:"items"`
	Payment *PaymentResponse   `json:"payment,omitempty"`
}

// PaymentResponse cobro de una venta.
type PaymentResponse struct {
	ID          int64     `json:"id"`
	Method      string    `json:"method"`
	AmountCents int64     `json:"amount_cents"`
	CreatedAt   time.Time `json:"created_at"`
}

// SaleListResponse lista paginada de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
