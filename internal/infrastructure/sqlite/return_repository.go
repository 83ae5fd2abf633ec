package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-pos/internal/domain/entity"
	"github.com/jhoicas/caja-pos/internal/domain/repository"
)

var _ repository.ReturnRepository = (*ReturnRepo)(nil)

// ReturnRepo implementación del puerto ReturnRepository sobre SQLite.
type ReturnRepo struct {
	q Querier
}

// NewReturnRepository construye el adaptador de persistencia para devoluciones.
func NewReturnRepository(q Querier) *ReturnRepo {
	return &ReturnRepo{q: q}
}

const returnColumns = `id, transaction_id, sale_id, total_cents, debt_reduced_cents, refund_cents, refund_method, note, created_at`

// Create inserta la cabecera de la devolución; las líneas van con CreateItem.
func (r *ReturnRepo) Create(ctx context.Context, ret *entity.SaleReturn) error {
	if ret.CreatedAt.IsZero() {
		ret.CreatedAt = time.Now().UTC()
	}
	var method sql.NullString
	if ret.RefundMethod != nil {
		method = nullString(string(*ret.RefundMethod))
	}
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO sale_returns (transaction_id, sale_id, total_cents, debt_reduced_cents, refund_cents, refund_method, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ret.TransactionID, ret.SaleID, ret.TotalCents, ret.DebtReducedCents, ret.RefundCents, method, ret.Note, ret.CreatedAt,
	)
	if err != nil {
		return wrap("insert sale return", err)
	}
	if ret.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("insert sale return: %w", err)
	}
	return nil
}

// CreateItem inserta una línea devuelta.
func (r *ReturnRepo) CreateItem(ctx context.Context, it *entity.SaleReturnItem) error {
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO sale_return_items (return_id, sale_item_id, product_id, quantity, unit_price_cents, line_total_cents)
		VALUES (?, ?, ?, ?, ?, ?)`,
		it.ReturnID, it.SaleItemID, it.ProductID, it.Quantity, it.UnitPriceCents, it.LineTotalCents,
	)
	if err != nil {
		return wrap("insert sale return item", err)
	}
	if it.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("insert sale return item: %w", err)
	}
	return nil
}

// GetByID obtiene la devolución con sus líneas.
func (r *ReturnRepo) GetByID(ctx context.Context, id int64) (*entity.SaleReturn, error) {
	ret, err := scanReturn(r.q.QueryRowContext(ctx, `SELECT `+returnColumns+` FROM sale_returns WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap("get sale return", err)
	}
	if ret.Items, err = r.items(ctx, ret.ID); err != nil {
		return nil, err
	}
	return ret, nil
}

// ListBySale devoluciones de la venta en orden cronológico, con sus líneas.
func (r *ReturnRepo) ListBySale(ctx context.Context, saleID int64) ([]*entity.SaleReturn, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+returnColumns+` FROM sale_returns WHERE sale_id = ? ORDER BY created_at, id`, saleID)
	if err != nil {
		return nil, wrap("list sale returns", err)
	}
	var list []*entity.SaleReturn
	for rows.Next() {
		ret, err := scanReturn(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan sale return: %w", err)
		}
		list = append(list, ret)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	// Con una sola conexión hay que liberar el cursor antes de la siguiente consulta.
	rows.Close()

	for _, ret := range list {
		if ret.Items, err = r.items(ctx, ret.ID); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// ReturnedBySaleItem acumula lo ya devuelto por línea. Las cantidades se suman en
// decimal para no arrastrar error de punto flotante.
func (r *ReturnRepo) ReturnedBySaleItem(ctx context.Context, saleID int64) (map[int64]repository.ReturnedLine, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT ri.sale_item_id, ri.quantity, ri.line_total_cents
		FROM sale_return_items ri
		JOIN sale_returns sr ON sr.id = ri.return_id
		WHERE sr.sale_id = ?`, saleID)
	if err != nil {
		return nil, wrap("sum returned lines", err)
	}
	defer rows.Close()
	out := make(map[int64]repository.ReturnedLine)
	for rows.Next() {
		var (
			itemID int64
			qty    decimal.Decimal
			total  int64
		)
		if err := rows.Scan(&itemID, &qty, &total); err != nil {
			return nil, fmt.Errorf("scan returned line: %w", err)
		}
		acc := out[itemID]
		acc.Quantity = acc.Quantity.Add(qty)
		acc.TotalCents += total
		out[itemID] = acc
	}
	return out, rows.Err()
}

func (r *ReturnRepo) items(ctx context.Context, returnID int64) ([]entity.SaleReturnItem, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, return_id, sale_item_id, product_id, quantity, unit_price_cents, line_total_cents
		FROM sale_return_items WHERE return_id = ? ORDER BY id`, returnID)
	if err != nil {
		return nil, wrap("get sale return items", err)
	}
	defer rows.Close()
	var list []entity.SaleReturnItem
	for rows.Next() {
		var it entity.SaleReturnItem
		if err := rows.Scan(&it.ID, &it.ReturnID, &it.SaleItemID, &it.ProductID, &it.Quantity,
			&it.UnitPriceCents, &it.LineTotalCents); err != nil {
			return nil, fmt.Errorf("scan sale return item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

func scanReturn(s scanner) (*entity.SaleReturn, error) {
	var (
		ret    entity.SaleReturn
		method sql.NullString
	)
	if err := s.Scan(&ret.ID, &ret.TransactionID, &ret.SaleID, &ret.TotalCents, &ret.DebtReducedCents,
		&ret.RefundCents, &method, &ret.Note, &ret.CreatedAt); err != nil {
		return nil, err
	}
	if method.Valid {
		m := entity.RefundMethod(method.String)
		ret.RefundMethod = &m
	}
	return &ret, nil
}
