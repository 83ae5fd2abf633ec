package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	SKU        string           `json:"sku" validate:"required,min=1,max=100"`
	Name       string           `json:"name" validate:"required,min=1,max=200"`
	Barcode    string           `json:"barcode"`
	Unit       string           `json:"unit" validate:"omitempty,oneof=piece pack liter meter"`
	PriceCents int64            `json:"price_cents" validate:"min=0"`
	CostCents  int64            `json:"cost_cents" validate:"min=0"`
	Quantity   decimal.Decimal  `json:"quantity"`
	MinStock   *decimal.Decimal `json:"min_stock,omitempty"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID         int64           `json:"id"`
	SKU        string          `json:"sku"`
	Barcode    string          `json:"barcode,omitempty"`
	Name       string          `json:"name"`
	Unit       string          `json:"unit"`
	CostCents  int64           `json:"cost_cents"`
	PriceCents int64           `json:"price_cents"`
	Quantity   decimal.Decimal `json:"quantity"`
	MinStock   decimal.Decimal `json:"min_stock"`
	LowStock   bool            `json:"low_stock"`
	Active     bool            `json:"active"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// ProductListResponse lista de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
}

// DeactivateProductResponse resultado de la baja lógica.
type DeactivateProductResponse struct {
	ID         int64 `json:"id"`
	Active     bool  `json:"active"`
	References int   `json:"references"`
}
