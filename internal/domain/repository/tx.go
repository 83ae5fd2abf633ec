package repository

import "context"

// Repos agrupa los repositorios atados a una misma transacción.
type Repos struct {
	Products  ProductRepository
	Movements StockMovementRepository
	Customers CustomerRepository
	Sales     SaleRepository
	Debts     DebtRepository
	Returns   ReturnRepository
	PrintJobs PrintJobRepository
	Users     UserRepository
}

// TxRunner ejecuta fn dentro de una transacción del almacenamiento.
// Si fn retorna error se hace Rollback completo; si no, Commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}
