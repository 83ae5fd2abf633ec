package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Unit unidad de medida del producto.
type Unit string

// Unidades admitidas.
const (
	UnitPiece Unit = "piece"
	UnitPack  Unit = "pack"
	UnitLiter Unit = "liter"
	UnitMeter Unit = "meter"
)

// Valid indica si la unidad pertenece al catálogo cerrado.
func (u Unit) Valid() bool {
	switch u {
	case UnitPiece, UnitPack, UnitLiter, UnitMeter:
		return true
	}
	return false
}

// Product representa un artículo del catálogo con su existencia actual.
// Quantity solo cambia a través del libro de inventario (inventory.Ledger).
type Product struct {
	ID         int64
	SKU        string // único
	Barcode    string // único si no está vacío
	Name       string
	Unit       Unit
	CostCents  int64
	PriceCents int64
	Quantity   decimal.Decimal
	MinStock   decimal.Decimal
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsLowStock indica si la existencia está en o por debajo del mínimo configurado.
func (p *Product) IsLowStock() bool {
	return p.Quantity.LessThanOrEqual(p.MinStock)
}
