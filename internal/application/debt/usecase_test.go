package debt_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/caja-pos/internal/application/debt"
	"github.com/jhoicas/caja-pos/internal/application/dto"
	"github.com/jhoicas/caja-pos/internal/application/inventory"
	"github.com/jhoicas/caja-pos/internal/application/sales"
	"github.com/jhoicas/caja-pos/internal/domain"
	"github.com/jhoicas/caja-pos/internal/domain/entity"
	"github.com/jhoicas/caja-pos/internal/infrastructure/sqlite/sqlitetest"
)

type fixture struct {
	env       *sqlitetest.Env
	customers *debt.CustomerUseCase
	sales     *sales.SaleUseCase
	product   *entity.Product
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	env := sqlitetest.NewEnv(t)
	ledger := debt.NewLedger()
	p := &entity.Product{
		SKU: "CAFE", Name: "Café", Unit: entity.UnitPiece,
		PriceCents: 100, CostCents: 50, Quantity: decimal.NewFromInt(1000), Active: true,
	}
	require.NoError(t, env.Repos.Products.Create(context.Background(), p))
	return &fixture{
		env:       env,
		customers: debt.NewCustomerUseCase(env.TxRunner, env.Repos, ledger, zerolog.Nop()),
		sales:     sales.NewSaleUseCase(env.TxRunner, env.Repos, inventory.NewLedger(), ledger, zerolog.Nop()),
		product:   p,
	}
}

// creditSale vende units unidades (100 centavos c/u) a crédito al cliente del teléfono dado.
func (f *fixture) creditSale(t *testing.T, phone string, units int64) *dto.CreateSaleResponse {
	t.Helper()
	out, err := f.sales.CreateSale(context.Background(), dto.CreateSaleRequest{
		Items:         []dto.SaleItemRequest{{ProductID: f.product.ID, Quantity: decimal.NewFromInt(units)}},
		PaymentMethod: "debt",
		Customer:      &dto.SaleCustomerRequest{Name: "Cliente " + phone, Phone: phone},
	})
	require.NoError(t, err)
	require.NotNil(t, out.CustomerID)
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Abonos
// ──────────────────────────────────────────────────────────────────────────────

func TestPayDebt_PagoTotalSaldaLaDeuda(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	sale := f.creditSale(t, "555-1", 24)

	out, err := f.customers.PayDebt(ctx, *sale.CustomerID, dto.PayDebtRequest{AmountCents: 2400, Note: "efectivo"})
	require.NoError(t, err)
	assert.EqualValues(t, 2400, out.AppliedCents)
	assert.EqualValues(t, 0, out.BalanceCents)
	require.Len(t, out.Allocations, 1)
	assert.True(t, out.Allocations[0].IsPaid)

	d, err := f.env.Repos.Debts.GetBySale(ctx, sale.SaleID)
	require.NoError(t, err)
	assert.True(t, d.IsPaid)
	assert.EqualValues(t, 2400, d.PaidCents)
}

func TestPayDebt_SobrepagoRecortaElSaldoEnCero(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	sale := f.creditSale(t, "555-2", 24)

	out, err := f.customers.PayDebt(ctx, *sale.CustomerID, dto.PayDebtRequest{AmountCents: 3000})
	require.NoError(t, err)
	assert.EqualValues(t, 3000, out.AmountCents)
	assert.EqualValues(t, 2400, out.AppliedCents)
	assert.EqualValues(t, 0, out.BalanceCents)

	c, err := f.customers.GetByID(ctx, *sale.CustomerID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, c.DebtCents, "el saldo nunca queda negativo")
}

func TestPayDebt_AplicaPrimeroLaDeudaMasAntigua(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	first := f.creditSale(t, "555-3", 10)
	second := f.creditSale(t, "555-3", 5)
	require.Equal(t, *first.CustomerID, *second.CustomerID)
	customerID := *first.CustomerID

	out, err := f.customers.PayDebt(ctx, customerID, dto.PayDebtRequest{AmountCents: 1200})
	require.NoError(t, err)
	require.Len(t, out.Allocations, 2)
	assert.EqualValues(t, 1000, out.Allocations[0].AppliedCents)
	assert.True(t, out.Allocations[0].IsPaid)
	assert.EqualValues(t, 200, out.Allocations[1].AppliedCents)
	assert.False(t, out.Allocations[1].IsPaid)
	assert.EqualValues(t, 300, out.BalanceCents)

	open, err := f.customers.ListDebts(ctx, customerID, true)
	require.NoError(t, err)
	require.Len(t, open, 1)
	require.NotNil(t, open[0].SaleID)
	assert.Equal(t, second.SaleID, *open[0].SaleID)
	assert.EqualValues(t, 300, open[0].OutstandingCents)

	all, err := f.customers.ListDebts(ctx, customerID, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestPayDebt_Rechazos(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	sale := f.creditSale(t, "555-4", 3)

	_, err := f.customers.PayDebt(ctx, *sale.CustomerID, dto.PayDebtRequest{AmountCents: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.customers.PayDebt(ctx, 999, dto.PayDebtRequest{AmountCents: 100})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	c, err := f.customers.GetByID(ctx, *sale.CustomerID)
	require.NoError(t, err)
	assert.EqualValues(t, 300, c.DebtCents)
}

// ──────────────────────────────────────────────────────────────────────────────
// Historial
// ──────────────────────────────────────────────────────────────────────────────

func TestListTransactions_CargosYAbonos(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	sale := f.creditSale(t, "555-5", 8)
	_, err := f.customers.PayDebt(ctx, *sale.CustomerID, dto.PayDebtRequest{AmountCents: 300, Note: "abono"})
	require.NoError(t, err)

	txs, err := f.customers.ListTransactions(ctx, *sale.CustomerID)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, string(entity.DebtAdded), txs[0].Kind)
	assert.EqualValues(t, 800, txs[0].AmountCents)
	assert.Equal(t, string(entity.DebtPayment), txs[1].Kind)
	assert.EqualValues(t, 300, txs[1].AmountCents)
	assert.Equal(t, "abono", txs[1].Note)

	_, err = f.customers.ListTransactions(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestList_Clientes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.creditSale(t, "555-6", 1)
	f.creditSale(t, "555-7", 2)

	out, err := f.customers.List(ctx, 20, 0)
	require.NoError(t, err)
	assert.Len(t, out.Items, 2)
}
