package entity

import "time"

// DebtTransactionKind tipo de asiento en el historial de deuda del cliente.
type DebtTransactionKind string

// Tipos de asiento.
const (
	DebtAdded   DebtTransactionKind = "debt_added"
	DebtPayment DebtTransactionKind = "payment"
)

// Valid indica si el tipo pertenece al catálogo cerrado.
func (k DebtTransactionKind) Valid() bool {
	return k == DebtAdded || k == DebtPayment
}

// Debt obligación de un cliente, normalmente ligada a una venta a crédito.
// Invariante: PaidCents <= TotalCents; IsPaid <=> PaidCents >= TotalCents.
type Debt struct {
	ID         int64
	CustomerID int64
	SaleID     *int64
	TotalCents int64
	PaidCents  int64
	IsPaid     bool
	DueDate    *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Outstanding devuelve el saldo pendiente de la deuda.
func (d *Debt) Outstanding() int64 {
	if d.PaidCents >= d.TotalCents {
		return 0
	}
	return d.TotalCents - d.PaidCents
}

// Apply abona hasta amount a la deuda y devuelve lo efectivamente aplicado.
func (d *Debt) Apply(amount int64) int64 {
	if amount <= 0 {
		return 0
	}
	applied := min(amount, d.Outstanding())
	d.PaidCents += applied
	d.IsPaid = d.PaidCents >= d.TotalCents
	return applied
}

// DebtTransaction asiento inmutable de cada cambio al saldo de un cliente.
type DebtTransaction struct {
	ID          int64
	CustomerID  int64
	SaleID      *int64
	ReturnID    *int64
	Kind        DebtTransactionKind
	AmountCents int64
	Note        string
	CreatedAt   time.Time
}
