package sqlite

import (
	"context"
	"database/sql"

	"github.com/jhoicas/caja-pos/internal/domain/repository"
)

var _ repository.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción SQLite (BEGIN IMMEDIATE vía _txlock).
type TxRunner struct {
	db *sql.DB
}

// NewTxRunner construye el runner con la conexión.
func NewTxRunner(db *sql.DB) *TxRunner {
	return &TxRunner{db: db}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(r repository.Repos) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return wrap("begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(NewRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return wrap("commit transaction", err)
	}
	return nil
}

// NewRepos arma todos los repositorios sobre q (conexión o transacción).
func NewRepos(q Querier) repository.Repos {
	return repository.Repos{
		Products:  NewProductRepository(q),
		Movements: NewStockMovementRepository(q),
		Customers: NewCustomerRepository(q),
		Sales:     NewSaleRepository(q),
		Debts:     NewDebtRepository(q),
		Returns:   NewReturnRepository(q),
		PrintJobs: NewPrintJobRepository(q),
		Users:     NewUserRepository(q),
	}
}
