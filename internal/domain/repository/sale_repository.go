package repository

import (
	"context"

	"github.com/jhoicas/caja-pos/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para ventas, líneas y cobros.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	CreateItem(ctx context.Context, item *entity.SaleItem) error
	CreatePayment(ctx context.Context, payment *entity.Payment) error
	GetByID(ctx context.Context, id int64) (*entity.Sale, error)
	GetItems(ctx context.Context, saleID int64) ([]*entity.SaleItem, error)
	GetPayment(ctx context.Context, saleID int64) (*entity.Payment, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Sale, error)
}
