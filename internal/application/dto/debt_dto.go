package dto

import "time"

// CustomerResponse salida de un cliente con su saldo.
type CustomerResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Address   string    `json:"address,omitempty"`
	DebtCents int64     `json:"debt_cents"`
	CreatedAt time.Time `json:"created_at"`
}

// CustomerListResponse lista paginada de clientes.
type CustomerListResponse struct {
	Items []CustomerResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// PayDebtRequest body para POST /api/customers/:id/payments.
type PayDebtRequest struct {
	AmountCents int64  `json:"amount_cents" validate:"required,gt=0"`
	Note        string `json:"note"`
}

// DebtAllocation parte del abono aplicada a una deuda.
type DebtAllocation struct {
	DebtID       int64 `json:"debt_id"`
	AppliedCents int64 `json:"applied_cents"`
	IsPaid       bool  `json:"is_paid"`
}

// PayDebtResponse resultado del abono.
type PayDebtResponse struct {
	CustomerID    int64            `json:"customer_id"`
	AmountCents   int64            `json:"amount_cents"`
	AppliedCents  int64            `json:"applied_cents"`
	BalanceCents  int64            `json:"balance_cents"`
	TransactionID int64            `json:"transaction_id"`
	Allocations   []DebtAllocation `json:"allocations"`
}

// DebtResponse salida de una deuda.
type DebtResponse struct {
	ID               int64      `json:"id"`
	CustomerID       int64      `json:"customer_id"`
	SaleID           *int64     `json:"sale_id,omitempty"`
	TotalCents       int64      `json:"total_cents"`
	PaidCents        int64      `json:"paid_cents"`
	OutstandingCents int64      `json:"outstanding_cents"`
	IsPaid           bool       `json:"is_paid"`
	DueDate          *time.Time `json:"due_date,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// DebtTransactionResponse asiento del historial de deuda.
type DebtTransactionResponse struct {
	ID          int64     `json:"id"`
	Kind        string    `json:"kind"`
	AmountCents int64     `json:"amount_cents"`
	SaleID      *int64    `json:"sale_id,omitempty"`
	ReturnID    *int64    `json:"return_id,omitempty"`
	Note        string    `json:"note,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
