package inventory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-pos/internal/domain"
	"github.com/jhoicas/caja-pos/internal/domain/entity"
	domaininv "github.com/jhoicas/caja-pos/internal/domain/inventory"
	"github.com/jhoicas/caja-pos/internal/domain/repository"
)

// Ledger es el único escritor de existencias. Cada método debe llamarse con repositorios
// atados a la transacción del caller: relee la cantidad actual, la escribe y agrega el
// movimiento en la misma tx, de modo que dos ventas concurrentes nunca pisan su lectura.
type Ledger struct{}

// NewLedger construye el libro de inventario.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Change describe un cambio de existencia a registrar.
type Change struct {
	ProductID     int64
	TransactionID string
	Kind          entity.MovementKind
	SaleID        *int64
	ReturnID      *int64
	Note          string
}

// AdjustTo fija la existencia absoluta y agrega un movimiento adjustment.
func (l *Ledger) AdjustTo(ctx context.Context, r repository.Repos, productID int64, newQty decimal.Decimal, txID, note string) (*entity.StockMovement, error) {
	if newQty.IsNegative() {
		return nil, fmt.Errorf("%w: la existencia no puede ser negativa", domain.ErrInvalidInput)
	}
	p, err := l.load(ctx, r, productID)
	if err != nil {
		return nil, err
	}
	return l.write(ctx, r, p, newQty, Change{
		ProductID: productID, TransactionID: txID, Kind: entity.MovementAdjustment, Note: note,
	})
}

// ConsumeForSale descuenta qty del producto por la venta saleID.
// Falla con ErrInsufficientStock si qty supera la existencia leída en la tx.
func (l *Ledger) ConsumeForSale(ctx context.Context, r repository.Repos, productID int64, qty decimal.Decimal, saleID int64, txID string) (oldQty, newQty decimal.Decimal, err error) {
	if !qty.IsPositive() {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: cantidad debe ser mayor a cero", domain.ErrInvalidInput)
	}
	p, err := l.load(ctx, r, productID)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	if qty.GreaterThan(p.Quantity) {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: %s (disponible %s, solicitado %s)",
			domain.ErrInsufficientStock, p.Name, p.Quantity, qty)
	}
	mov, err := l.write(ctx, r, p, p.Quantity.Sub(qty), Change{
		ProductID: productID, TransactionID: txID, Kind: entity.MovementSale, SaleID: &saleID,
	})
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return mov.OldQuantity, mov.NewQuantity, nil
}

// RestoreForReturn reingresa qty por la devolución returnID.
func (l *Ledger) RestoreForReturn(ctx context.Context, r repository.Repos, productID int64, qty decimal.Decimal, saleID, returnID int64, txID string) (*entity.StockMovement, error) {
	if !qty.IsPositive() {
		return nil, fmt.Errorf("%w: cantidad debe ser mayor a cero", domain.ErrInvalidInput)
	}
	p, err := l.load(ctx, r, productID)
	if err != nil {
		return nil, err
	}
	return l.write(ctx, r, p, p.Quantity.Add(qty), Change{
		ProductID: productID, TransactionID: txID, Kind: entity.MovementReturn, SaleID: &saleID, ReturnID: &returnID,
	})
}

// Receive ingresa mercancía. Si trae costo, recalcula el costo promedio ponderado del producto.
func (l *Ledger) Receive(ctx context.Context, r repository.Repos, productID int64, qty decimal.Decimal, costCents *int64, txID, note string) (*entity.StockMovement, error) {
	if !qty.IsPositive() {
		return nil, fmt.Errorf("%w: cantidad debe ser mayor a cero", domain.ErrInvalidInput)
	}
	p, err := l.load(ctx, r, productID)
	if err != nil {
		return nil, err
	}
	if costCents != nil {
		if *costCents < 0 {
			return nil, fmt.Errorf("%w: costo negativo", domain.ErrInvalidInput)
		}
		newCost := domaininv.WeightedCostCents(p.Quantity, p.CostCents, qty, *costCents)
		if err := r.Products.UpdateCost(ctx, p.ID, newCost); err != nil {
			return nil, err
		}
		p.CostCents = newCost
	}
	return l.write(ctx, r, p, p.Quantity.Add(qty), Change{
		ProductID: productID, TransactionID: txID, Kind: entity.MovementReceive, Note: note,
	})
}

// RecordInitial registra la existencia con la que se dio de alta el producto.
// No modifica la cantidad: el producto ya se creó con ella.
func (l *Ledger) RecordInitial(ctx context.Context, r repository.Repos, p *entity.Product, txID string) (*entity.StockMovement, error) {
	mov := &entity.StockMovement{
		TransactionID: txID,
		ProductID:     p.ID,
		Kind:          entity.MovementInitial,
		Quantity:      p.Quantity,
		OldQuantity:   decimal.Zero,
		NewQuantity:   p.Quantity,
		CostCents:     p.CostCents,
		PriceCents:    p.PriceCents,
		Note:          "existencia inicial",
	}
	if err := r.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

func (l *Ledger) load(ctx context.Context, r repository.Repos, productID int64) (*entity.Product, error) {
	p, err := r.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("producto %d: %w", productID, domain.ErrNotFound)
	}
	return p, nil
}

func (l *Ledger) write(ctx context.Context, r repository.Repos, p *entity.Product, newQty decimal.Decimal, c Change) (*entity.StockMovement, error) {
	if !c.Kind.Valid() {
		return nil, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, c.Kind)
	}
	if err := r.Products.UpdateQuantity(ctx, p.ID, newQty); err != nil {
		return nil, err
	}
	mov := &entity.StockMovement{
		TransactionID: c.TransactionID,
		ProductID:     p.ID,
		Kind:          c.Kind,
		Quantity:      newQty.Sub(p.Quantity),
		OldQuantity:   p.Quantity,
		NewQuantity:   newQty,
		CostCents:     p.CostCents,
		PriceCents:    p.PriceCents,
		SaleID:        c.SaleID,
		ReturnID:      c.ReturnID,
		Note:          c.Note,
	}
	if err := r.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	p.Quantity = newQty
	return mov, nil
}
