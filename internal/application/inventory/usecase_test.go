package inventory_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/caja-pos/internal/application/dto"
	"github.com/jhoicas/caja-pos/internal/application/inventory"
	"github.com/jhoicas/caja-pos/internal/domain"
	"github.com/jhoicas/caja-pos/internal/domain/entity"
	"github.com/jhoicas/caja-pos/internal/domain/repository"
	"github.com/jhoicas/caja-pos/internal/infrastructure/sqlite/sqlitetest"
)

func setup(t *testing.T, qty string, costCents int64) (*inventory.StockUseCase, *sqlitetest.Env, *entity.Product) {
	t.Helper()
	env := sqlitetest.NewEnv(t)
	p := &entity.Product{
		SKU:        "HARINA",
		Name:       "Harina 1kg",
		Unit:       entity.UnitPiece,
		PriceCents: 2000,
		CostCents:  costCents,
		Quantity:   decimal.RequireFromString(qty),
		Active:     true,
	}
	require.NoError(t, env.Repos.Products.Create(context.Background(), p))
	uc := inventory.NewStockUseCase(env.TxRunner, env.Repos, inventory.NewLedger(), zerolog.Nop())
	return uc, env, p
}

func costPtr(c int64) *int64 { return &c }

// ──────────────────────────────────────────────────────────────────────────────
// Ajustes
// ──────────────────────────────────────────────────────────────────────────────

func TestSetStock_RegistraDeltaYFoto(t *testing.T) {
	ctx := context.Background()
	uc, env, p := setup(t, "10", 500)

	out, err := uc.SetStock(ctx, p.ID, dto.SetStockRequest{Quantity: decimal.NewFromInt(4), Note: "conteo físico"})
	require.NoError(t, err)

	assert.Equal(t, string(entity.MovementAdjustment), out.Kind)
	assert.True(t, out.Quantity.Equal(decimal.NewFromInt(-6)))
	assert.True(t, out.OldQuantity.Equal(decimal.NewFromInt(10)))
	assert.True(t, out.NewQuantity.Equal(decimal.NewFromInt(4)))
	assert.Equal(t, "conteo físico", out.Note)
	assert.NotEmpty(t, out.TransactionID)

	got, err := env.Repos.Products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.Quantity.Equal(decimal.NewFromInt(4)))
}

func TestSetStock_Rechazos(t *testing.T) {
	ctx := context.Background()
	uc, _, p := setup(t, "10", 500)

	_, err := uc.SetStock(ctx, p.ID, dto.SetStockRequest{Quantity: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.SetStock(ctx, 999, dto.SetStockRequest{Quantity: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Entradas
// ──────────────────────────────────────────────────────────────────────────────

func TestReceiveStock_CostoPromedioPonderado(t *testing.T) {
	ctx := context.Background()
	uc, env, p := setup(t, "10", 1000)

	out, err := uc.ReceiveStock(ctx, p.ID, dto.ReceiveStockRequest{Quantity: decimal.NewFromInt(10), CostCents: costPtr(2000)})
	require.NoError(t, err)
	assert.Equal(t, string(entity.MovementReceive), out.Kind)
	assert.True(t, out.NewQuantity.Equal(decimal.NewFromInt(20)))
	assert.EqualValues(t, 1500, out.CostCents)

	got, err := env.Repos.Products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1500, got.CostCents)
	assert.True(t, got.Quantity.Equal(decimal.NewFromInt(20)))
}

func TestReceiveStock_SinCostoConservaElVigente(t *testing.T) {
	ctx := context.Background()
	uc, env, p := setup(t, "3", 700)

	_, err := uc.ReceiveStock(ctx, p.ID, dto.ReceiveStockRequest{Quantity: decimal.NewFromInt(2)})
	require.NoError(t, err)

	got, err := env.Repos.Products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 700, got.CostCents)
	assert.True(t, got.Quantity.Equal(decimal.NewFromInt(5)))
}

func TestReceiveStock_CantidadNoPositiva(t *testing.T) {
	uc, _, p := setup(t, "3", 700)
	_, err := uc.ReceiveStock(context.Background(), p.ID, dto.ReceiveStockRequest{Quantity: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Libro de inventario
// ──────────────────────────────────────────────────────────────────────────────

func TestLedger_ConsumeForSaleStockInsuficiente(t *testing.T) {
	ctx := context.Background()
	_, env, p := setup(t, "2", 100)
	ledger := inventory.NewLedger()

	err := env.TxRunner.Run(ctx, func(r repository.Repos) error {
		_, _, err := ledger.ConsumeForSale(ctx, r, p.ID, decimal.NewFromInt(3), 1, "tx")
		return err
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestListMovements_MasRecientePrimero(t *testing.T) {
	ctx := context.Background()
	uc, _, p := setup(t, "0", 100)

	_, err := uc.ReceiveStock(ctx, p.ID, dto.ReceiveStockRequest{Quantity: decimal.NewFromInt(5)})
	require.NoError(t, err)
	_, err = uc.SetStock(ctx, p.ID, dto.SetStockRequest{Quantity: decimal.NewFromInt(3)})
	require.NoError(t, err)

	out, err := uc.ListMovements(ctx, p.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, out.Items, 2)
	assert.Equal(t, string(entity.MovementAdjustment), out.Items[0].Kind)
	assert.Equal(t, string(entity.MovementReceive), out.Items[1].Kind)
	assert.Equal(t, 10, out.Page.Limit)
}
