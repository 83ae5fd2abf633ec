package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/caja-pos/internal/domain/entity"
	"github.com/jhoicas/caja-pos/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación del puerto SaleRepository sobre SQLite.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de persistencia para ventas.
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, transaction_id, customer_id, sale_date, subtotal_cents, discount_cents, tax_cents, total_cents, payment_method, note`

// Create inserta la cabecera de la venta y asigna su ID.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	if s.SaleDate.IsZero() {
		s.SaleDate = time.Now().UTC()
	}
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO sales (transaction_id, customer_id, sale_date, subtotal_cents, discount_cents, tax_cents, total_cents, payment_method, note)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.TransactionID, nullInt64(s.CustomerID), s.SaleDate, s.SubtotalCents, s.DiscountCents, s.TaxCents,
		s.TotalCents, string(s.PaymentMethod), s.Note,
	)
	if err != nil {
		return wrap("insert sale", err)
	}
	if s.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// CreateItem inserta una línea de venta.
func (r *SaleRepo) CreateItem(ctx context.Context, it *entity.SaleItem) error {
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO sale_items (sale_id, product_id, product_name, barcode, unit_price_cents, cost_cents, quantity, line_total_cents, profit_cents)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		it.SaleID, it.ProductID, it.ProductName, nullString(it.Barcode), it.UnitPriceCents, it.CostCents,
		it.Quantity, it.LineTotalCents, it.ProfitCents,
	)
	if err != nil {
		return wrap("insert sale item", err)
	}
	if it.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("insert sale item: %w", err)
	}
	return nil
}

// CreatePayment registra el cobro de la venta.
func (r *SaleRepo) CreatePayment(ctx context.Context, p *entity.Payment) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO payments (sale_id, method, amount_cents, created_at) VALUES (?, ?, ?, ?)`,
		p.SaleID, string(p.Method), p.AmountCents, p.CreatedAt,
	)
	if err != nil {
		return wrap("insert payment", err)
	}
	if p.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera de una venta.
func (r *SaleRepo) GetByID(ctx context.Context, id int64) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRowContext(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap("get sale", err)
	}
	return s, nil
}

// GetItems devuelve las líneas de la venta en orden de captura.
func (r *SaleRepo) GetItems(ctx context.Context, saleID int64) ([]*entity.SaleItem, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, sale_id, product_id, product_name, barcode, unit_price_cents, cost_cents, quantity, line_total_cents, profit_cents
		FROM sale_items WHERE sale_id = ? ORDER BY id`, saleID)
	if err != nil {
		return nil, wrap("get sale items", err)
	}
	defer rows.Close()
	var list []*entity.SaleItem
	for rows.Next() {
		var (
			it      entity.SaleItem
			barcode sql.NullString
		)
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.ProductName, &barcode, &it.UnitPriceCents,
			&it.CostCents, &it.Quantity, &it.LineTotalCents, &it.ProfitCents); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		it.Barcode = barcode.String
		list = append(list, &it)
	}
	return list, rows.Err()
}

// GetPayment devuelve el cobro de la venta, o nil si fue a crédito.
func (r *SaleRepo) GetPayment(ctx context.Context, saleID int64) (*entity.Payment, error) {
	var (
		p      entity.Payment
		method string
	)
	err := r.q.QueryRowContext(ctx, `
		SELECT id, sale_id, method, amount_cents, created_at FROM payments WHERE sale_id = ? ORDER BY id LIMIT 1`, saleID,
	).Scan(&p.ID, &p.SaleID, &method, &p.AmountCents, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap("get payment", err)
	}
	p.Method = entity.PaymentMethod(method)
	return &p, nil
}

// List devuelve ventas, la más reciente primero. limit <= 0 no limita.
func (r *SaleRepo) List(ctx context.Context, limit, offset int) ([]*entity.Sale, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+saleColumns+` FROM sales
		ORDER BY sale_date DESC, id DESC
		LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, wrap("list sales", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func scanSale(sc scanner) (*entity.Sale, error) {
	var (
		s        entity.Sale
		customer sql.NullInt64
		method   string
	)
	if err := sc.Scan(&s.ID, &s.TransactionID, &customer, &s.SaleDate, &s.SubtotalCents, &s.DiscountCents,
		&s.TaxCents, &s.TotalCents, &method, &s.Note); err != nil {
		return nil, err
	}
	s.CustomerID = int64Ptr(customer)
	s.PaymentMethod = entity.PaymentMethod(method)
	return &s, nil
}
