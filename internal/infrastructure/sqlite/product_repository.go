package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-pos/internal/domain"
	"github.com/jhoicas/caja-pos/internal/domain/entity"
	"github.com/jhoicas/caja-pos/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre SQLite (usable con db o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos.
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, sku, barcode, name, unit, cost_cents, price_cents, quantity, min_stock, active, created_at, updated_at`

// Create persiste un nuevo producto y asigna su ID.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = p.CreatedAt
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO products (sku, barcode, name, unit, cost_cents, price_cents, quantity, min_stock, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.SKU, nullString(p.Barcode), p.Name, string(p.Unit), p.CostCents, p.PriceCents,
		p.Quantity, p.MinStock, boolToInt(p.Active), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return wrap("insert product", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	p.ID = id
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	return scanProductRow(row, "get product")
}

// GetBySKU obtiene un producto por SKU.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE sku = ?`, sku)
	return scanProductRow(row, "get product by sku")
}

// FindByCode busca entre los activos por barcode primero y luego por SKU.
func (r *ProductRepo) FindByCode(ctx context.Context, code string) (*entity.Product, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE active = 1 AND (barcode = ? OR sku = ?)
		ORDER BY CASE WHEN barcode = ? THEN 0 ELSE 1 END
		LIMIT 1`, code, code, code)
	return scanProductRow(row, "find product by code")
}

// BarcodeExists indica si algún producto (activo o no) ya usa el código.
func (r *ProductRepo) BarcodeExists(ctx context.Context, barcode string) (bool, error) {
	var n int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM products WHERE barcode = ?`, barcode).Scan(&n); err != nil {
		return false, wrap("check barcode", err)
	}
	return n > 0, nil
}

// List devuelve el catálogo ordenado por nombre.
func (r *ProductRepo) List(ctx context.Context, includeInactive bool) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	if !includeInactive {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY name, id`
	return r.list(ctx, "list products", query)
}

// ListLowStock devuelve los activos con existencia en o bajo su mínimo.
func (r *ProductRepo) ListLowStock(ctx context.Context) ([]*entity.Product, error) {
	return r.list(ctx, "list low stock", `
		SELECT `+productColumns+` FROM products
		WHERE active = 1 AND quantity <= min_stock
		ORDER BY quantity, name`)
}

// UpdateQuantity fija la existencia absoluta del producto.
func (r *ProductRepo) UpdateQuantity(ctx context.Context, id int64, qty decimal.Decimal) error {
	return r.update(ctx, "update quantity", `UPDATE products SET quantity = ?, updated_at = ? WHERE id = ?`, qty, time.Now().UTC(), id)
}

// UpdateCost actualiza el costo unitario vigente.
func (r *ProductRepo) UpdateCost(ctx context.Context, id int64, costCents int64) error {
	return r.update(ctx, "update cost", `UPDATE products SET cost_cents = ?, updated_at = ? WHERE id = ?`, costCents, time.Now().UTC(), id)
}

// SetBarcode asigna el código de barras; "" lo deja en NULL.
func (r *ProductRepo) SetBarcode(ctx context.Context, id int64, barcode string) error {
	return r.update(ctx, "set barcode", `UPDATE products SET barcode = ?, updated_at = ? WHERE id = ?`, nullString(barcode), time.Now().UTC(), id)
}

// SetActive activa o desactiva (baja lógica) el producto.
func (r *ProductRepo) SetActive(ctx context.Context, id int64, active bool) error {
	return r.update(ctx, "set active", `UPDATE products SET active = ?, updated_at = ? WHERE id = ?`, boolToInt(active), time.Now().UTC(), id)
}

func (r *ProductRepo) update(ctx context.Context, op, query string, args ...any) error {
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return wrap(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: producto: %w", op, domain.ErrNotFound)
	}
	return nil
}

func (r *ProductRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(s scanner) (*entity.Product, error) {
	var (
		p       entity.Product
		barcode sql.NullString
		unit    string
	)
	if err := s.Scan(&p.ID, &p.SKU, &barcode, &p.Name, &unit, &p.CostCents, &p.PriceCents,
		&p.Quantity, &p.MinStock, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Barcode = barcode.String
	p.Unit = entity.Unit(unit)
	return &p, nil
}

func scanProductRow(row *sql.Row, op string) (*entity.Product, error) {
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap(op, err)
	}
	return p, nil
}
