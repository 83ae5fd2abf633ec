package repository

import (
	"context"

	"github.com/jhoicas/caja-pos/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ReturnedLine acumulado ya devuelto de una línea de venta.
type ReturnedLine struct {
	Quantity   decimal.Decimal
	TotalCents int64
}

// ReturnRepository define el puerto de persistencia para devoluciones.
type ReturnRepository interface {
	Create(ctx context.Context, ret *entity.SaleReturn) error
	CreateItem(ctx context.Context, item *entity.SaleReturnItem) error
	GetByID(ctx context.Context, id int64) (*entity.SaleReturn, error)
	ListBySale(ctx context.Context, saleID int64) ([]*entity.SaleReturn, error)
	// ReturnedBySaleItem acumula cantidades y montos ya devueltos por línea de la venta.
	ReturnedBySaleItem(ctx context.Context, saleID int64) (map[int64]ReturnedLine, error)
}
