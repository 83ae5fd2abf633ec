package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/caja-pos/internal/application/auth"
	"github.com/jhoicas/caja-pos/internal/application/catalog"
	"github.com/jhoicas/caja-pos/internal/application/debt"
	"github.com/jhoicas/caja-pos/internal/application/inventory"
	"github.com/jhoicas/caja-pos/internal/application/printing"
	"github.com/jhoicas/caja-pos/internal/application/returns"
	"github.com/jhoicas/caja-pos/internal/application/sales"
	"github.com/jhoicas/caja-pos/internal/infrastructure/sqlite"
	httpRouter "github.com/jhoicas/caja-pos/internal/interfaces/http"
	"github.com/jhoicas/caja-pos/pkg/config"
	"github.com/jhoicas/caja-pos/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(cfg.App)
	log.Info().
		Str("env", cfg.App.Env).
		Str("db", cfg.DB.Path).
		Msg("iniciando aplicación")

	ctx := context.Background()
	db, err := sqlite.Open(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("apertura de la base de datos")
	}
	defer db.Close()

	// Sin esquema al día no se atienden peticiones.
	if err := sqlite.Migrate(ctx, db, logger.Component(log, "migrations")); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	txRunner := sqlite.NewTxRunner(db)
	repos := sqlite.NewRepos(db)

	stockLedger := inventory.NewLedger()
	debtLedger := debt.NewLedger()

	authUC := auth.NewAuthUseCase(repos.Users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, logger.Component(log, "auth"))
	if _, err := authUC.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password); err != nil {
		log.Fatal().Err(err).Msg("creación del administrador inicial")
	}

	productUC := catalog.NewProductUseCase(txRunner, repos, stockLedger, logger.Component(log, "catalog"))
	stockUC := inventory.NewStockUseCase(txRunner, repos, stockLedger, logger.Component(log, "inventory"))
	saleUC := sales.NewSaleUseCase(txRunner, repos, stockLedger, debtLedger, logger.Component(log, "sales"))
	returnUC := returns.NewReturnUseCase(txRunner, repos, stockLedger, debtLedger, logger.Component(log, "returns"))
	customerUC := debt.NewCustomerUseCase(txRunner, repos, debtLedger, logger.Component(log, "debts"))

	resolver := printing.NewBinaryResolver(printing.ResolverConfig{
		LabelBin:     cfg.Print.LabelBin,
		ReceiptBin:   cfg.Print.ReceiptBin,
		BinDir:       cfg.Print.BinDir,
		ResourcesDir: cfg.Print.ResourcesDir,
	})
	printUC := printing.NewPrintUseCase(txRunner, repos, resolver, printing.NewExecRunner(), printing.Config{
		ReceiptHeading:     cfg.Print.ReceiptHeading,
		BarcodeMaxAttempts: cfg.Print.BarcodeMaxAttempts,
	}, logger.Component(log, "printing"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 60, // la impresión espera al ejecutable externo
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		version, err := sqlite.SchemaVersion(c.UserContext(), db)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "error": err.Error()})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "schema_version": version})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		ProductUC:  productUC,
		StockUC:    stockUC,
		SaleUC:     saleUC,
		ReturnUC:   returnUC,
		CustomerUC: customerUC,
		PrintUC:    printUC,
		JWTSecret:  cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
