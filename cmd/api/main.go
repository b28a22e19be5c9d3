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
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/application/auth"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/application/dispensing"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/application/inventory"
	appkardex "github.com/tu-usuario/farmacia-hospitalaria/internal/application/kardex"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/application/reports"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/application/ward"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/domain/stock24"
	infrapdf "github.com/tu-usuario/farmacia-hospitalaria/internal/infrastructure/pdf"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/farmacia-hospitalaria/internal/interfaces/http"
	"github.com/tu-usuario/farmacia-hospitalaria/pkg/config"
	"github.com/tu-usuario/farmacia-hospitalaria/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
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

	// Repositorios sobre el pool (lecturas fuera de transacción).
	userRepo := postgres.NewUserRepository(pool)
	variantRepo := postgres.NewVariantRepository(pool)
	lotRepo := postgres.NewLotRepository(pool)
	movRepo := postgres.NewMovementRepository(pool)
	reqRepo := postgres.NewRequisitionRepository(pool)
	sheetRepo := postgres.NewSheetRepository(pool)
	bufferRepo := postgres.NewStock24Repository(pool)
	cuadreRepo := postgres.NewCuadreRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)

	// Runners transaccionales por contexto.
	inventoryTx := postgres.NewInventoryTxRunner(pool)
	dispensingTx := postgres.NewDispensingTxRunner(pool)
	wardTx := postgres.NewWardTxRunner(pool)

	thresholds := stock24.Thresholds{
		Critical: decimal.NewFromFloat(cfg.Inventory.CriticalRatio),
		Low:      decimal.NewFromFloat(cfg.Inventory.LowRatio),
	}

	lotUC := inventory.NewLotStoreUseCase(inventoryTx, variantRepo, lotRepo)
	requisitionUC := dispensing.NewRequisitionUseCase(dispensingTx, variantRepo, reqRepo)
	sheetUC := dispensing.NewSheetUseCase(dispensingTx, variantRepo, sheetRepo)
	bufferUC := ward.NewBufferUseCase(wardTx, variantRepo, bufferRepo, lotRepo, thresholds)
	cuadreUC := ward.NewCuadreUseCase(wardTx, cuadreRepo)
	kardexQuery := appkardex.NewQueryUseCase(variantRepo, movRepo)
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	kardexPDF := appkardex.NewPDFUseCase(kardexQuery, variantRepo, pdfGenerator)
	stockStateUC := reports.NewStockStateUseCase(reportRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

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
		Title:    "Farmacia Hospitalaria API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		LotUC:         lotUC,
		RequisitionUC: requisitionUC,
		SheetUC:       sheetUC,
		BufferUC:      bufferUC,
		CuadreUC:      cuadreUC,
		KardexQuery:   kardexQuery,
		KardexPDF:     kardexPDF,
		StockStateUC:  stockStateUC,
		JWTSecret:     cfg.JWT.Secret,
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
