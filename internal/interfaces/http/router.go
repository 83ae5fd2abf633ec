package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/caja-pos/internal/application/auth"
	"github.com/jhoicas/caja-pos/internal/application/catalog"
	"github.com/jhoicas/caja-pos/internal/application/debt"
	"github.com/jhoicas/caja-pos/internal/application/inventory"
	"github.com/jhoicas/caja-pos/internal/application/printing"
	"github.com/jhoicas/caja-pos/internal/application/returns"
	"github.com/jhoicas/caja-pos/internal/application/sales"
	"github.com/jhoicas/caja-pos/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	ProductUC  *catalog.ProductUseCase
	StockUC    *inventory.StockUseCase
	SaleUC     *sales.SaleUseCase
	ReturnUC   *returns.ReturnUseCase
	CustomerUC *debt.CustomerUseCase
	PrintUC    *printing.PrintUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(string(entity.RoleAdmin))

	// Catálogo: lectura para todos, escritura solo admin
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	inventoryHandler := NewInventoryHandler(deps.StockUC)
	products.Get("/", productHandler.List)
	products.Post("/", adminOnly, productHandler.Create)
	products.Get("/find", productHandler.Find)
	products.Get("/low-stock", productHandler.LowStock)
	products.Get("/:id", productHandler.GetByID)
	products.Delete("/:id", adminOnly, productHandler.Deactivate)
	products.Put("/:id/stock", adminOnly, inventoryHandler.SetStock)
	products.Post("/:id/receive", adminOnly, inventoryHandler.Receive)
	products.Get("/:id/movements", inventoryHandler.Movements)

	// Ventas y devoluciones
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC, deps.ReturnUC)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Get("/:id/items", saleHandler.Items)
	salesGroup.Post("/:id/returns", saleHandler.CreateReturn)
	salesGroup.Get("/:id/returns", saleHandler.Returns)

	// Clientes y deudas
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Get("/:id/debts", customerHandler.Debts)
	customers.Get("/:id/transactions", customerHandler.Transactions)
	customers.Post("/:id/payments", customerHandler.Pay)

	// Impresión
	printGroup := protected.Group("/print")
	printHandler := NewPrintHandler(deps.PrintUC)
	printGroup.Post("/label", printHandler.Label)
	printGroup.Post("/receipt", printHandler.Receipt)
	printGroup.Post("/return-receipt", printHandler.ReturnReceipt)
	printGroup.Get("/jobs", printHandler.Jobs)
}
