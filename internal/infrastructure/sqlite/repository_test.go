package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/caja-pos/internal/domain"
	"github.com/jhoicas/caja-pos/internal/domain/entity"
	"github.com/jhoicas/caja-pos/internal/domain/repository"
	"github.com/jhoicas/caja-pos/internal/infrastructure/sqlite/sqlitetest"
)

func newProduct(sku, barcode string, qty int64) *entity.Product {
	return &entity.Product{
		SKU:        sku,
		Barcode:    barcode,
		Name:       "Producto " + sku,
		Unit:       entity.UnitPiece,
		PriceCents: 1000,
		CostCents:  600,
		Quantity:   decimal.NewFromInt(qty),
		MinStock:   decimal.NewFromInt(2),
		Active:     true,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos
// ──────────────────────────────────────────────────────────────────────────────

func TestProductRepo_SKUDuplicado(t *testing.T) {
	ctx := context.Background()
	env := sqlitetest.NewEnv(t)

	require.NoError(t, env.Repos.Products.Create(ctx, newProduct("SKU-1", "", 1)))
	err := env.Repos.Products.Create(ctx, newProduct("SKU-1", "", 1))
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestProductRepo_BarcodeVacioNoColisiona(t *testing.T) {
	ctx := context.Background()
	env := sqlitetest.NewEnv(t)

	require.NoError(t, env.Repos.Products.Create(ctx, newProduct("SKU-1", "", 1)))
	require.NoError(t, env.Repos.Products.Create(ctx, newProduct("SKU-2", "", 1)),
		"varios productos sin código de barras deben convivir")

	err := env.Repos.Products.Create(ctx, newProduct("SKU-3", "12345670", 1))
	require.NoError(t, err)
	err = env.Repos.Products.Create(ctx, newProduct("SKU-4", "12345670", 1))
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestProductRepo_FindByCodePrefiereBarcodeYSoloActivos(t *testing.T) {
	ctx := context.Background()
	env := sqlitetest.NewEnv(t)

	a := newProduct("ABC", "", 1)
	b := newProduct("OTRO", "ABC", 1)
	require.NoError(t, env.Repos.Products.Create(ctx, a))
	require.NoError(t, env.Repos.Products.Create(ctx, b))

	found, err := env.Repos.Products.FindByCode(ctx, "ABC")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, b.ID, found.ID)

	require.NoError(t, env.Repos.Products.SetActive(ctx, b.ID, false))
	found, err = env.Repos.Products.FindByCode(ctx, "ABC")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, a.ID, found.ID)
}

func TestProductRepo_GetByIDInexistente(t *testing.T) {
	env := sqlitetest.NewEnv(t)
	p, err := env.Repos.Products.GetByID(context.Background(), 999)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestProductRepo_CantidadFraccionaria(t *testing.T) {
	ctx := context.Background()
	env := sqlitetest.NewEnv(t)

	p := newProduct("TELA", "", 0)
	p.Unit = entity.UnitMeter
	require.NoError(t, env.Repos.Products.Create(ctx, p))
	require.NoError(t, env.Repos.Products.UpdateQuantity(ctx, p.ID, decimal.RequireFromString("2.75")))

	got, err := env.Repos.Products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.Quantity.Equal(decimal.RequireFromString("2.75")), "got %s", got.Quantity)
}

func TestProductRepo_StockNegativoRechazado(t *testing.T) {
	ctx := context.Background()
	env := sqlitetest.NewEnv(t)

	p := newProduct("SKU-1", "", 1)
	require.NoError(t, env.Repos.Products.Create(ctx, p))
	err := env.Repos.Products.UpdateQuantity(ctx, p.ID, decimal.NewFromInt(-1))
	assert.Error(t, err, "el CHECK del esquema impide existencias negativas")
}

func TestProductRepo_ListLowStock(t *testing.T) {
	ctx := context.Background()
	env := sqlitetest.NewEnv(t)

	require.NoError(t, env.Repos.Products.Create(ctx, newProduct("BAJO", "", 1)))
	require.NoError(t, env.Repos.Products.Create(ctx, newProduct("JUSTO", "", 2)))
	require.NoError(t, env.Repos.Products.Create(ctx, newProduct("OK", "", 10)))

	list, err := env.Repos.Products.ListLowStock(ctx)
	require.NoError(t, err)
	skus := make([]string, 0, len(list))
	for _, p := range list {
		skus = append(skus, p.SKU)
	}
	assert.ElementsMatch(t, []string{"BAJO", "JUSTO"}, skus)
}

// ──────────────────────────────────────────────────────────────────────────────
// Clientes
// ──────────────────────────────────────────────────────────────────────────────

func TestCustomerRepo_AddDebtNuncaNegativo(t *testing.T) {
	ctx := context.Background()
	env := sqlitetest.NewEnv(t)

	c := &entity.Customer{Name: "Lucía", Phone: "555-0101"}
	require.NoError(t, env.Repos.Customers.Create(ctx, c))

	bal, err := env.Repos.Customers.AddDebt(ctx, c.ID, 500)
	require.NoError(t, err)
	assert.EqualValues(t, 500, bal)

	bal, err = env.Repos.Customers.AddDebt(ctx, c.ID, -800)
	require.NoError(t, err)
	assert.EqualValues(t, 0, bal)

	_, err = env.Repos.Customers.AddDebt(ctx, 999, 10)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCustomerRepo_TelefonoUnico(t *testing.T) {
	ctx := context.Background()
	env := sqlitetest.NewEnv(t)

	require.NoError(t, env.Repos.Customers.Create(ctx, &entity.Customer{Name: "A", Phone: "555"}))
	err := env.Repos.Customers.Create(ctx, &entity.Customer{Name: "B", Phone: "555"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	found, err := env.Repos.Customers.GetByPhone(ctx, "555")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "A", found.Name)
}

// ──────────────────────────────────────────────────────────────────────────────
// Trabajos de impresión
// ──────────────────────────────────────────────────────────────────────────────

func TestPrintJobRepo_SoloDesdeQueued(t *testing.T) {
	ctx := context.Background()
	env := sqlitetest.NewEnv(t)

	j := &entity.PrintJob{Kind: entity.PrintJobReceipt, Status: entity.PrintJobDone, Copies: 0}
	require.NoError(t, env.Repos.PrintJobs.Create(ctx, j))
	assert.Equal(t, entity.PrintJobQueued, j.Status, "todo trabajo nace en queued")
	assert.Equal(t, 1, j.Copies)

	j.Status = entity.PrintJobQueued
	assert.ErrorIs(t, env.Repos.PrintJobs.Finish(ctx, j), domain.ErrInvalidInput)

	j.Status = entity.PrintJobFailed
	j.Error = "sin papel"
	require.NoError(t, env.Repos.PrintJobs.Finish(ctx, j))
	require.NotNil(t, j.FinishedAt)

	j.Status = entity.PrintJobDone
	assert.ErrorIs(t, env.Repos.PrintJobs.Finish(ctx, j), domain.ErrInvalidInput, "un estado terminal no cambia")

	got, err := env.Repos.PrintJobs.GetByID(ctx, j.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PrintJobFailed, got.Status)
	assert.Equal(t, "sin papel", got.Error)
	assert.NotNil(t, got.FinishedAt)
}

// ──────────────────────────────────────────────────────────────────────────────
// Transacciones
// ──────────────────────────────────────────────────────────────────────────────

func TestTxRunner_RollbackAnteError(t *testing.T) {
	ctx := context.Background()
	env := sqlitetest.NewEnv(t)
	boom := errors.New("boom")

	err := env.TxRunner.Run(ctx, func(r repository.Repos) error {
		if err := r.Products.Create(ctx, newProduct("TX-1", "", 3)); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	p, err := env.Repos.Products.GetBySKU(ctx, "TX-1")
	require.NoError(t, err)
	assert.Nil(t, p, "nada de la transacción fallida debe persistir")
}
