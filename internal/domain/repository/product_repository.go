package repository

import (
	"context"

	"github.com/jhoicas/caja-pos/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ProductRepository define el puerto de persistencia para Product.
// Los métodos Get devuelven (nil, nil) cuando no existe la fila.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	// FindByCode busca un producto activo cuyo barcode o SKU coincida con code.
	FindByCode(ctx context.Context, code string) (*entity.Product, error)
	BarcodeExists(ctx context.Context, barcode string) (bool, error)
	List(ctx context.Context, includeInactive bool) ([]*entity.Product, error)
	ListLowStock(ctx context.Context) ([]*entity.Product, error)
	// UpdateQuantity es la única escritura de existencia; la usa solo el libro de inventario.
	UpdateQuantity(ctx context.Context, id int64, qty decimal.Decimal) error
	UpdateCost(ctx context.Context, id int64, costCents int64) error
	SetBarcode(ctx context.Context, id int64, barcode string) error
	SetActive(ctx context.Context, id int64, active bool) error
}
