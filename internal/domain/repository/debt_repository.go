package repository

import (
	"context"

	"github.com/jhoicas/caja-pos/internal/domain/entity"
)

// DebtRepository define el puerto de persistencia para deudas y su historial.
type DebtRepository interface {
	Create(ctx context.Context, debt *entity.Debt) error
	GetBySale(ctx context.Context, saleID int64) (*entity.Debt, error)
	// ListOpenByCustomer devuelve las deudas no pagadas, la más antigua primero.
	ListOpenByCustomer(ctx context.Context, customerID int64) ([]*entity.Debt, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]*entity.Debt, error)
	UpdatePaid(ctx context.Context, debt *entity.Debt) error
	CreateTransaction(ctx context.Context, tx *entity.DebtTransaction) error
	ListTransactions(ctx context.Context, customerID int64) ([]*entity.DebtTransaction, error)
}
