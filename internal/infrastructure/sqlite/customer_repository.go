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

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación del puerto CustomerRepository sobre SQLite.
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador de persistencia para clientes.
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

const customerColumns = `id, name, phone, email, address, debt_cents, created_at, updated_at`

// Create persiste un nuevo cliente y asigna su ID.
func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	c.UpdatedAt = c.CreatedAt
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO customers (name, phone, email, address, debt_cents, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.Name, nullString(c.Phone), nullString(c.Email), nullString(c.Address), c.DebtCents, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return wrap("insert customer", err)
	}
	if c.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *CustomerRepo) GetByID(ctx context.Context, id int64) (*entity.Customer, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = ?`, id)
	return scanCustomerRow(row, "get customer")
}

// GetByPhone obtiene un cliente por teléfono exacto.
func (r *CustomerRepo) GetByPhone(ctx context.Context, phone string) (*entity.Customer, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE phone = ?`, phone)
	return scanCustomerRow(row, "get customer by phone")
}

// List devuelve clientes ordenados por nombre. limit <= 0 no limita.
func (r *CustomerRepo) List(ctx context.Context, limit, offset int) ([]*entity.Customer, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+customerColumns+` FROM customers
		ORDER BY name, id
		LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, wrap("list customers", err)
	}
	defer rows.Close()
	var list []*entity.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// AddDebt suma delta al saldo recortando en cero y devuelve el saldo resultante.
func (r *CustomerRepo) AddDebt(ctx context.Context, id int64, delta int64) (int64, error) {
	var balance int64
	err := r.q.QueryRowContext(ctx, `
		UPDATE customers
		SET debt_cents = MAX(0, debt_cents + ?), updated_at = ?
		WHERE id = ?
		RETURNING debt_cents`, delta, time.Now().UTC(), id,
	).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("add debt: cliente: %w", domain.ErrNotFound)
		}
		return 0, wrap("add debt", err)
	}
	return balance, nil
}

func scanCustomer(s scanner) (*entity.Customer, error) {
	var (
		c                     entity.Customer
		phone, email, address sql.NullString
	)
	if err := s.Scan(&c.ID, &c.Name, &phone, &email, &address, &c.DebtCents, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Phone, c.Email, c.Address = phone.String, email.String, address.String
	return &c, nil
}

func scanCustomerRow(row *sql.Row, op string) (*entity.Customer, error) {
	c, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap(op, err)
	}
	return c, nil
}
