package repository

import (
	"context"

	"github.com/jhoicas/caja-pos/internal/domain/entity"
)

// StockMovementRepository bitácora append-only de movimientos de inventario.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	ListByProduct(ctx context.Context, productID int64, limit, offset int) ([]*entity.StockMovement, error)
	CountReferences(ctx context.Context, productID int64) (int, error)
}
