package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/caja-pos/internal/domain"
	"github.com/jhoicas/caja-pos/internal/domain/entity"
	"github.com/jhoicas/caja-pos/internal/domain/repository"
)

var _ repository.DebtRepository = (*DebtRepo)(nil)

// DebtRepo implementación del puerto DebtRepository sobre SQLite.
type DebtRepo struct {
	q Querier
}

// NewDebtRepository construye el adaptador de persistencia para deudas.
func NewDebtRepository(q Querier) *DebtRepo {
	return &DebtRepo{q: q}
}

const debtColumns = `id, customer_id, sale_id, total_cents, paid_cents, is_paid, due_date, created_at, updated_at`

// Create inserta la deuda y asigna su ID.
func (r *DebtRepo) Create(ctx context.Context, d *entity.Debt) error {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	d.UpdatedAt = d.CreatedAt
	var due sql.NullTime
	if d.DueDate != nil {
		due = sql.NullTime{Time: d.DueDate.UTC(), Valid: true}
	}
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO debts (customer_id, sale_id, total_cents, paid_cents, is_paid, due_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.CustomerID, nullInt64(d.SaleID), d.TotalCents, d.PaidCents, boolToInt(d.IsPaid), due, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return wrap("insert debt", err)
	}
	if d.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("insert debt: %w", err)
	}
	return nil
}

// GetBySale obtiene la deuda originada por la venta.
func (r *DebtRepo) GetBySale(ctx context.Context, saleID int64) (*entity.Debt, error) {
	d, err := scanDebt(r.q.QueryRowContext(ctx, `SELECT `+debtColumns+` FROM debts WHERE sale_id = ? ORDER BY id LIMIT 1`, saleID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap("get debt by sale", err)
	}
	return d, nil
}

// ListOpenByCustomer deudas no saldadas, la más antigua primero.
func (r *DebtRepo) ListOpenByCustomer(ctx context.Context, customerID int64) ([]*entity.Debt, error) {
	return r.list(ctx, "list open debts", `
		SELECT `+debtColumns+` FROM debts
		WHERE customer_id = ? AND is_paid = 0
		ORDER BY created_at, id`, customerID)
}

// ListByCustomer todas las deudas del cliente, la más antigua primero.
func (r *DebtRepo) ListByCustomer(ctx context.Context, customerID int64) ([]*entity.Debt, error) {
	return r.list(ctx, "list debts", `
		SELECT `+debtColumns+` FROM debts
		WHERE customer_id = ?
		ORDER BY created_at, id`, customerID)
}

// UpdatePaid persiste el monto abonado y la marca de pagada.
func (r *DebtRepo) UpdatePaid(ctx context.Context, d *entity.Debt) error {
	d.UpdatedAt = time.Now().UTC()
	res, err := r.q.ExecContext(ctx, `
		UPDATE debts SET paid_cents = ?, is_paid = ?, updated_at = ? WHERE id = ?`,
		d.PaidCents, boolToInt(d.IsPaid), d.UpdatedAt, d.ID,
	)
	if err != nil {
		return wrap("update debt", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update debt: deuda: %w", domain.ErrNotFound)
	}
	return nil
}

// CreateTransaction agrega un asiento al historial de deuda.
func (r *DebtRepo) CreateTransaction(ctx context.Context, t *entity.DebtTransaction) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO debt_transactions (customer_id, sale_id, return_id, kind, amount_cents, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.CustomerID, nullInt64(t.SaleID), nullInt64(t.ReturnID), string(t.Kind), t.AmountCents, t.Note, t.CreatedAt,
	)
	if err != nil {
		return wrap("insert debt transaction", err)
	}
	if t.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("insert debt transaction: %w", err)
	}
	return nil
}

// ListTransactions historial del cliente en orden cronológico.
func (r *DebtRepo) ListTransactions(ctx context.Context, customerID int64) ([]*entity.DebtTransaction, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, customer_id, sale_id, return_id, kind, amount_cents, note, created_at
		FROM debt_transactions WHERE customer_id = ? ORDER BY created_at, id`, customerID)
	if err != nil {
		return nil, wrap("list debt transactions", err)
	}
	defer rows.Close()
	var list []*entity.DebtTransaction
	for rows.Next() {
		var (
			t            entity.DebtTransaction
			sale, retRef sql.NullInt64
			kind         string
		)
		if err := rows.Scan(&t.ID, &t.CustomerID, &sale, &retRef, &kind, &t.AmountCents, &t.Note, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan debt transaction: %w", err)
		}
		t.SaleID, t.ReturnID = int64Ptr(sale), int64Ptr(retRef)
		t.Kind = entity.DebtTransactionKind(kind)
		list = append(list, &t)
	}
	return list, rows.Err()
}

func (r *DebtRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.Debt, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()
	var list []*entity.Debt
	for rows.Next() {
		d, err := scanDebt(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

func scanDebt(s scanner) (*entity.Debt, error) {
	var (
		d    entity.Debt
		sale sql.NullInt64
		due  sql.NullTime
	)
	if err := s.Scan(&d.ID, &d.CustomerID, &sale, &d.TotalCents, &d.PaidCents, &d.IsPaid, &due,
		&d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	d.SaleID = int64Ptr(sale)
	if due.Valid {
		t := due.Time
		d.DueDate = &t
	}
	return &d, nil
}
