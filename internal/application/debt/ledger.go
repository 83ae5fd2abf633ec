package debt

import (
	"context"
	"fmt"

	"github.com/jhoicas/caja-pos/internal/domain"
	"github.com/jhoicas/caja-pos/internal/domain/entity"
	"github.com/jhoicas/caja-pos/internal/domain/repository"
)

// Ledger contabilidad de deuda de clientes. Como el libro de inventario, sus métodos
// reciben repositorios atados a la transacción del caller.
//
// Política de abonos: el monto se aplica a las deudas abiertas de la más antigua a la
// más reciente; cada deuda recibe como máximo su saldo pendiente. El excedente solo
// recorta el saldo del cliente en cero.
type Ledger struct{}

// NewLedger construye el libro de deudas.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Allocation parte de un abono aplicada a una deuda.
type Allocation struct {
	Debt    *entity.Debt
	Applied int64
}

// Incur registra la deuda de una venta a crédito: asiento debt_added, aumento del
// saldo del cliente y una fila Debt por el total. Una venta con total 0 (descuento
// completo) deja su fila Debt ya saldada y no genera asiento ni mueve el saldo.
func (l *Ledger) Incur(ctx context.Context, r repository.Repos, customerID, saleID, amount int64) (*entity.Debt, error) {
	if amount < 0 {
		return nil, fmt.Errorf("%w: deuda negativa", domain.ErrInvalidInput)
	}
	if amount == 0 {
		d := &entity.Debt{CustomerID: customerID, SaleID: &saleID, IsPaid: true}
		if err := r.Debts.Create(ctx, d); err != nil {
			return nil, err
		}
		return d, nil
	}
	if err := r.Debts.CreateTransaction(ctx, &entity.DebtTransaction{
		CustomerID:  customerID,
		SaleID:      &saleID,
		Kind:        entity.DebtAdded,
		AmountCents: amount,
		Note:        fmt.Sprintf("venta #%d", saleID),
	}); err != nil {
		return nil, err
	}
	if _, err := r.Customers.AddDebt(ctx, customerID, amount); err != nil {
		return nil, err
	}
	d := &entity.Debt{CustomerID: customerID, SaleID: &saleID, TotalCents: amount}
	if err := r.Debts.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Pay registra un abono del cliente y lo reparte entre sus deudas abiertas.
// Devuelve el asiento, el saldo resultante y el reparto.
func (l *Ledger) Pay(ctx context.Context, r repository.Repos, customerID, amount int64, note string) (*entity.DebtTransaction, int64, []Allocation, error) {
	if amount <= 0 {
		return nil, 0, nil, fmt.Errorf("%w: el abono debe ser mayor a cero", domain.ErrInvalidInput)
	}
	c, err := r.Customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, 0, nil, err
	}
	if c == nil {
		return nil, 0, nil, fmt.Errorf("cliente %d: %w", customerID, domain.ErrNotFound)
	}
	t := &entity.DebtTransaction{
		CustomerID:  customerID,
		Kind:        entity.DebtPayment,
		AmountCents: amount,
		Note:        note,
	}
	if err := r.Debts.CreateTransaction(ctx, t); err != nil {
		return nil, 0, nil, err
	}
	balance, err := r.Customers.AddDebt(ctx, customerID, -amount)
	if err != nil {
		return nil, 0, nil, err
	}
	open, err := r.Debts.ListOpenByCustomer(ctx, customerID)
	if err != nil {
		return nil, 0, nil, err
	}
	var allocs []Allocation
	remaining := amount
	for _, d := range open {
		if remaining <= 0 {
			break
		}
		applied := d.Apply(remaining)
		if applied == 0 {
			continue
		}
		if err := r.Debts.UpdatePaid(ctx, d); err != nil {
			return nil, 0, nil, err
		}
		remaining -= applied
		allocs = append(allocs, Allocation{Debt: d, Applied: applied})
	}
	return t, balance, allocs, nil
}

// ReduceForReturn descuenta amount de la deuda de la venta por una devolución.
// amount no puede superar el saldo pendiente de esa deuda.
func (l *Ledger) ReduceForReturn(ctx context.Context, r repository.Repos, d *entity.Debt, returnID, amount int64) error {
	if amount <= 0 {
		return nil
	}
	if amount > d.Outstanding() {
		return fmt.Errorf("%w: reducción %d supera el saldo pendiente %d", domain.ErrInvalidInput, amount, d.Outstanding())
	}
	if err := r.Debts.CreateTransaction(ctx, &entity.DebtTransaction{
		CustomerID:  d.CustomerID,
		SaleID:      d.SaleID,
		ReturnID:    &returnID,
		Kind:        entity.DebtPayment,
		AmountCents: amount,
		Note:        fmt.Sprintf("devolución #%d", returnID),
	}); err != nil {
		return err
	}
	if _, err := r.Customers.AddDebt(ctx, d.CustomerID, -amount); err != nil {
		return err
	}
	d.Apply(amount)
	return r.Debts.UpdatePaid(ctx, d)
}
