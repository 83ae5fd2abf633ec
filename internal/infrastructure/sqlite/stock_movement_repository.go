package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jhoicas/caja-pos/internal/domain/entity"
	"github.com/jhoicas/caja-pos/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo bitácora de movimientos sobre SQLite. Solo inserta y lee.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador de persistencia para movimientos.
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create inserta el movimiento y asigna su ID.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO stock_movements (transaction_id, product_id, kind, quantity, old_quantity, new_quantity,
			cost_cents, price_cents, sale_id, return_id, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.TransactionID, m.ProductID, string(m.Kind), m.Quantity, m.OldQuantity, m.NewQuantity,
		m.CostCents, m.PriceCents, nullInt64(m.SaleID), nullInt64(m.ReturnID), m.Note, m.CreatedAt,
	)
	if err != nil {
		return wrap("insert stock movement", err)
	}
	if m.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// ListByProduct historial del producto, el más reciente primero. limit <= 0 no limita.
func (r *StockMovementRepo) ListByProduct(ctx context.Context, productID int64, limit, offset int) ([]*entity.StockMovement, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, transaction_id, product_id, kind, quantity, old_quantity, new_quantity,
			cost_cents, price_cents, sale_id, return_id, note, created_at
		FROM stock_movements
		WHERE product_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`, productID, limit, offset)
	if err != nil {
		return nil, wrap("list stock movements", err)
	}
	defer rows.Close()

	var list []*entity.StockMovement
	for rows.Next() {
		var (
			m            entity.StockMovement
			kind         string
			sale, retRef sql.NullInt64
		)
		if err := rows.Scan(&m.ID, &m.TransactionID, &m.ProductID, &kind, &m.Quantity, &m.OldQuantity, &m.NewQuantity,
			&m.CostCents, &m.PriceCents, &sale, &retRef, &m.Note, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		m.Kind = entity.MovementKind(kind)
		m.SaleID = int64Ptr(sale)
		m.ReturnID = int64Ptr(retRef)
		list = append(list, &m)
	}
	return list, rows.Err()
}

// CountReferences cuenta los movimientos que apuntan al producto.
func (r *StockMovementRepo) CountReferences(ctx context.Context, productID int64) (int, error) {
	var n int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM stock_movements WHERE product_id = ?`, productID).Scan(&n); err != nil {
		return 0, wrap("count stock movements", err)
	}
	return n, nil
}
