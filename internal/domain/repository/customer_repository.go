package repository

import (
	"context"

	"github.com/jhoicas/caja-pos/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para Customer.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id int64) (*entity.Customer, error)
	GetByPhone(ctx context.Context, phone string) (*entity.Customer, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Customer, error)
	// AddDebt suma delta (con signo) al saldo; el resultado nunca baja de cero.
	AddDebt(ctx context.Context, id int64, delta int64) (int64, error)
}
