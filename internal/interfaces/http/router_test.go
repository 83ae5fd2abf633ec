package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/caja-pos/internal/application/auth"
	"github.com/jhoicas/caja-pos/internal/application/catalog"
	"github.com/jhoicas/caja-pos/internal/application/debt"
	"github.com/jhoicas/caja-pos/internal/application/dto"
	"github.com/jhoicas/caja-pos/internal/application/inventory"
	"github.com/jhoicas/caja-pos/internal/application/printing"
	"github.com/jhoicas/caja-pos/internal/application/returns"
	"github.com/jhoicas/caja-pos/internal/application/sales"
	"github.com/jhoicas/caja-pos/internal/domain"
	"github.com/jhoicas/caja-pos/internal/domain/entity"
	"github.com/jhoicas/caja-pos/internal/infrastructure/sqlite/sqlitetest"
	apphttp "github.com/jhoicas/caja-pos/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type missingBinary struct{}

func (missingBinary) Resolve(name string) (string, error) {
	return "", fmt.Errorf("%w: %s", domain.ErrBinaryNotFound, name)
}

type noopRunner struct{}

func (noopRunner) Run(context.Context, string, []string) error { return nil }

type api struct {
	app     *fiber.App
	admin   string
	cashier string
}

func newAPI(t *testing.T) *api {
	t.Helper()
	ctx := context.Background()
	env := sqlitetest.NewEnv(t)
	log := zerolog.Nop()
	stock, debts := inventory.NewLedger(), debt.NewLedger()

	authUC := auth.NewAuthUseCase(env.Repos.Users, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 60, Issuer: "caja-pos"}, log)
	_, err := authUC.EnsureAdmin(ctx, "admin", "admin1234")
	require.NoError(t, err)
	_, err = authUC.CreateUser(ctx, "cajero", "cajero1234", entity.RoleCashier)
	require.NoError(t, err)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:     authUC,
		ProductUC:  catalog.NewProductUseCase(env.TxRunner, env.Repos, stock, log),
		StockUC:    inventory.NewStockUseCase(env.TxRunner, env.Repos, stock, log),
		SaleUC:     sales.NewSaleUseCase(env.TxRunner, env.Repos, stock, debts, log),
		ReturnUC:   returns.NewReturnUseCase(env.TxRunner, env.Repos, stock, debts, log),
		CustomerUC: debt.NewCustomerUseCase(env.TxRunner, env.Repos, debts, log),
		PrintUC: printing.NewPrintUseCase(env.TxRunner, env.Repos, missingBinary{}, noopRunner{},
			printing.Config{ReceiptHeading: "Caja", BarcodeMaxAttempts: 5}, log),
		JWTSecret: testJWTSecret,
	})

	a := &api{app: app}
	a.admin = a.login(t, "admin", "admin1234")
	a.cashier = a.login(t, "cajero", "cajero1234")
	return a
}

func (a *api) do(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func (a *api) login(t *testing.T, user, pass string) string {
	t.Helper()
	status, body := a.do(t, fiber.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: user, Password: pass})
	require.Equal(t, fiber.StatusOK, status, string(body))
	var out dto.LoginResponse
	require.NoError(t, json.Unmarshal(body, &out))
	return out.Token
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &e))
	return e.Code
}

func (a *api) createProduct(t *testing.T, sku string, qty int) dto.ProductResponse {
	t.Helper()
	status, body := a.do(t, fiber.MethodPost, "/api/products", a.admin, map[string]any{
		"sku": sku, "name": "Producto " + sku, "price_cents": 1000, "cost_cents": 400, "quantity": qty,
	})
	require.Equal(t, fiber.StatusCreated, status, string(body))
	var p dto.ProductResponse
	require.NoError(t, json.Unmarshal(body, &p))
	return p
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujo de caja
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_LoginInvalido(t *testing.T) {
	a := newAPI(t)
	status, body := a.do(t, fiber.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "admin", Password: "mala"})
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, body))
}

func TestAPI_CajeroNoAdministraCatalogo(t *testing.T) {
	a := newAPI(t)
	p := a.createProduct(t, "ARROZ", 5)

	status, body := a.do(t, fiber.MethodPost, "/api/products", a.cashier, map[string]any{"sku": "X", "name": "X"})
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", errorCode(t, body))

	status, _ = a.do(t, fiber.MethodPut, fmt.Sprintf("/api/products/%d/stock", p.ID), a.cashier, map[string]any{"quantity": 1})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = a.do(t, fiber.MethodGet, fmt.Sprintf("/api/products/%d", p.ID), a.cashier, nil)
	assert.Equal(t, fiber.StatusOK, status, "la lectura es para todos")
}

func TestAPI_VentaYDevolucion(t *testing.T) {
	a := newAPI(t)
	p := a.createProduct(t, "ACEITE", 5)

	status, body := a.do(t, fiber.MethodPost, "/api/sales", a.cashier, map[string]any{
		"items":          []map[string]any{{"product_id": p.ID, "quantity": 2}},
		"payment_method": "cash",
	})
	require.Equal(t, fiber.StatusCreated, status, string(body))
	var sale dto.CreateSaleResponse
	require.NoError(t, json.Unmarshal(body, &sale))
	assert.EqualValues(t, 2000, sale.TotalCents)

	status, body = a.do(t, fiber.MethodGet, fmt.Sprintf("/api/sales/%d/items", sale.SaleID), a.cashier, nil)
	require.Equal(t, fiber.StatusOK, status)
	var items struct {
		Items []dto.SaleItemResponse `json:"items"`
	}
	require.NoError(t, json.Unmarshal(body, &items))
	require.Len(t, items.Items, 1)

	path := fmt.Sprintf("/api/sales/%d/returns", sale.SaleID)
	status, body = a.do(t, fiber.MethodPost, path, a.cashier, map[string]any{
		"lines": []map[string]any{{"sale_item_id": items.Items[0].ID, "quantity": 3}},
	})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "OVER_RETURN", errorCode(t, body))

	status, body = a.do(t, fiber.MethodPost, path, a.cashier, map[string]any{
		"lines": []map[string]any{{"sale_item_id": items.Items[0].ID, "quantity": 1}},
	})
	require.Equal(t, fiber.StatusCreated, status, string(body))
	var ret dto.ReturnResponse
	require.NoError(t, json.Unmarshal(body, &ret))
	assert.EqualValues(t, 1000, ret.RefundCents)

	status, body = a.do(t, fiber.MethodPost, "/api/sales/999/returns", a.cashier, map[string]any{
		"lines": []map[string]any{{"sale_item_id": 1, "quantity": 1}},
	})
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "RETURN_NOT_FOUND", errorCode(t, body))
}

func TestAPI_ErroresDeVenta(t *testing.T) {
	a := newAPI(t)
	p := a.createProduct(t, "SAL", 1)

	cases := []struct {
		name   string
		body   map[string]any
		status int
		code   string
	}{
		{"carrito vacío", map[string]any{"payment_method": "cash"}, fiber.StatusBadRequest, "EMPTY_CART"},
		{"stock insuficiente", map[string]any{
			"items": []map[string]any{{"product_id": p.ID, "quantity": 2}}, "payment_method": "cash",
		}, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
		{"crédito sin cliente", map[string]any{
			"items": []map[string]any{{"product_id": p.ID, "quantity": 1}}, "payment_method": "debt",
		}, fiber.StatusUnprocessableEntity, "MISSING_CUSTOMER"},
		{"producto inexistente", map[string]any{
			"items": []map[string]any{{"product_id": 999, "quantity": 1}}, "payment_method": "cash",
		}, fiber.StatusNotFound, "NOT_FOUND"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := a.do(t, fiber.MethodPost, "/api/sales", a.cashier, tc.body)
			assert.Equal(t, tc.status, status, string(body))
			assert.Equal(t, tc.code, errorCode(t, body))
		})
	}
}

func TestAPI_ImpresionFallidaDevuelveElTrabajo(t *testing.T) {
	a := newAPI(t)
	p := a.createProduct(t, "ETIQ", 1)

	status, body := a.do(t, fiber.MethodPost, "/api/print/label", a.cashier, dto.PrintLabelRequest{ProductID: p.ID})
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	var out dto.PrintErrorResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "PRINTER_BINARY_NOT_FOUND", out.Code)
	require.NotNil(t, out.Job)
	assert.Equal(t, string(entity.PrintJobFailed), out.Job.Status)
	assert.NotEmpty(t, out.Job.Barcode)

	status, _ = a.do(t, fiber.MethodGet, "/api/print/jobs", a.cashier, nil)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestAPI_IDInvalido(t *testing.T) {
	a := newAPI(t)
	status, body := a.do(t, fiber.MethodGet, "/api/sales/abc", a.cashier, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "INVALID_ID", errorCode(t, body))
}
