package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tu-usuario/repuestos-pos/internal/application/auth"
	"github.com/tu-usuario/repuestos-pos/internal/application/inventory"
	"github.com/tu-usuario/repuestos-pos/internal/application/reports"
	"github.com/tu-usuario/repuestos-pos/internal/application/sales"
	"github.com/tu-usuario/repuestos-pos/internal/application/usecase"
	infrapdf "github.com/tu-usuario/repuestos-pos/internal/infrastructure/pdf"
	"github.com/tu-usuario/repuestos-pos/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/repuestos-pos/internal/interfaces/http"
	"github.com/tu-usuario/repuestos-pos/pkg/config"
	"github.com/tu-usuario/repuestos-pos/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(cfg.DB.ConnectionString(), cfg.Migrations.Dir); err != nil {
		log.Fatal().Err(err).Msg("aplicar migraciones")
	}

	// Repositorios de lectura (atados al pool). Las escrituras pasan por el
	// TxRunner, que crea repos atados a la transacción.
	productRepo := postgres.NewProductRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	movementRepo := postgres.NewInventoryMovementRepository(pool)
	profileRepo := postgres.NewProfileRepository(pool)
	txRunner := postgres.NewTxRunner(pool, cfg.Sales.NumberPrefix)

	ledgerUC := inventory.NewLedgerUseCase(txRunner, movementRepo)
	saleUC := sales.NewCreateSaleUseCase(txRunner, ledgerUC, saleRepo)
	productUC := usecase.NewProductUseCase(productRepo)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo)
	dashboardUC := usecase.NewDashboardUseCase(productRepo, saleRepo)
	reportUC := reports.NewReportUseCase(saleRepo, productRepo, supplierRepo)
	authUC := auth.NewAuthUseCase(profileRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	receipts := infrapdf.NewReceiptGenerator(cfg.App.Name)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Repuestos POS API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		ProductUC:   productUC,
		SupplierUC:  supplierUC,
		DashboardUC: dashboardUC,
		Ledger:      ledgerUC,
		SaleUC:      saleUC,
		ReportUC:    reportUC,
		Receipts:    receipts,
		JWTSecret:   cfg.JWT.Secret,
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
