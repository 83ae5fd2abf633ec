package debt

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/caja-pos/internal/application/dto"
	"github.com/jhoicas/caja-pos/internal/domain"
	"github.com/jhoicas/caja-pos/internal/domain/entity"
	"github.com/jhoicas/caja-pos/internal/domain/repository"
)

// CustomerUseCase consultas de clientes y abonos a su deuda.
type CustomerUseCase struct {
	txRunner repository.TxRunner
	repos    repository.Repos
	ledger   *Ledger
	log      zerolog.Logger
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(txRunner repository.TxRunner, repos repository.Repos, ledger *Ledger, log zerolog.Logger) *CustomerUseCase {
	return &CustomerUseCase{txRunner: txRunner, repos: repos, ledger: ledger, log: log}
}

// PayDebt registra un abono del cliente en una sola transacción.
func (uc *CustomerUseCase) PayDebt(ctx context.Context, customerID int64, in dto.PayDebtRequest) (*dto.PayDebtResponse, error) {
	var (
		t       *entity.DebtTransaction
		balance int64
		allocs  []Allocation
	)
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		var err error
		t, balance, allocs, err = uc.ledger.Pay(ctx, r, customerID, in.AmountCents, in.Note)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := &dto.PayDebtResponse{
		CustomerID:    customerID,
		AmountCents:   in.AmountCents,
		BalanceCents:  balance,
		TransactionID: t.ID,
		Allocations:   make([]dto.DebtAllocation, 0, len(allocs)),
	}
	for _, a := range allocs {
		out.AppliedCents += a.Applied
		out.Allocations = append(out.Allocations, dto.DebtAllocation{
			DebtID: a.Debt.ID, AppliedCents: a.Applied, IsPaid: a.Debt.IsPaid,
		})
	}
	uc.log.Info().Int64("customer_id", customerID).Int64("amount_cents", in.AmountCents).
		Int64("applied_cents", out.AppliedCents).Int64("balance_cents", balance).
		Msg("abono a deuda registrado")
	return out, nil
}

// List clientes ordenados por nombre.
func (uc *CustomerUseCase) List(ctx context.Context, limit, offset int) (*dto.CustomerListResponse, error) {
	list, err := uc.repos.Customers.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		items = append(items, toCustomerResponse(c))
	}
	return &dto.CustomerListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}

// GetByID obtiene el cliente con su saldo.
func (uc *CustomerUseCase) GetByID(ctx context.Context, id int64) (*dto.CustomerResponse, error) {
	c, err := uc.mustCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toCustomerResponse(c)
	return &out, nil
}

// ListDebts deudas del cliente; openOnly filtra las no pagadas.
func (uc *CustomerUseCase) ListDebts(ctx context.Context, customerID int64, openOnly bool) ([]dto.DebtResponse, error) {
	if _, err := uc.mustCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	var (
		list []*entity.Debt
		err  error
	)
	if openOnly {
		list, err = uc.repos.Debts.ListOpenByCustomer(ctx, customerID)
	} else {
		list, err = uc.repos.Debts.ListByCustomer(ctx, customerID)
	}
	if err != nil {
		return nil, err
	}
	out := make([]dto.DebtResponse, 0, len(list))
	for _, d := range list {
		out = append(out, dto.DebtResponse{
			ID:               d.ID,
			CustomerID:       d.CustomerID,
			SaleID:           d.SaleID,
			TotalCents:       d.TotalCents,
			PaidCents:        d.PaidCents,
			OutstandingCents: d.Outstanding(),
			IsPaid:           d.IsPaid,
			DueDate:          d.DueDate,
			CreatedAt:        d.CreatedAt,
		})
	}
	return out, nil
}

// ListTransactions historial de deuda del cliente.
func (uc *CustomerUseCase) ListTransactions(ctx context.Context, customerID int64) ([]dto.DebtTransactionResponse, error) {
	if _, err := uc.mustCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	list, err := uc.repos.Debts.ListTransactions(ctx, customerID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DebtTransactionResponse, 0, len(list))
	for _, t := range list {
		out = append(out, dto.DebtTransactionResponse{
			ID:          t.ID,
			Kind:        string(t.Kind),
			AmountCents: t.AmountCents,
			SaleID:      t.SaleID,
			ReturnID:    t.ReturnID,
			Note:        t.Note,
			CreatedAt:   t.CreatedAt,
		})
	}
	return out, nil
}

func (uc *CustomerUseCase) mustCustomer(ctx context.Context, id int64) (*entity.Customer, error) {
	c, err := uc.repos.Customers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("cliente %d: %w", id, domain.ErrNotFound)
	}
	return c, nil
}

func toCustomerResponse(c *entity.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		Email:     c.Email,
		Address:   c.Address,
		DebtCents: c.DebtCents,
		CreatedAt: c.CreatedAt,
	}
}
