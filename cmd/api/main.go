package main

//go:generate swag init -d ../../ -g cmd/api/main.go -o ../../docs --outputTypes json

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/parts-ledger/docs"
	"github.com/jhoicas/parts-ledger/internal/application/inventory"
	"github.com/jhoicas/parts-ledger/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/parts-ledger/internal/interfaces/http"
	"github.com/jhoicas/parts-ledger/pkg/config"
	"github.com/jhoicas/parts-ledger/pkg/logger"
)

// @title        Parts Ledger API
// @version      1.0
// @description  Ledger de partes e inventario: recepciones, salidas FIFO a órdenes de trabajo, devoluciones, traslados y ajustes.
// @BasePath     /
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
		Dur("lock_timeout", cfg.Ledger.LockTimeout).
		Msg("iniciando aplicación")

	if cfg.RunMigrations {
		if err := postgres.RunMigrations(cfg.DB.ConnectionString(), log); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	partRepo := postgres.NewPartRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	workOrderRepo := postgres.NewWorkOrderRepository(pool)
	idempotencyRepo := postgres.NewIdempotencyRepository(pool)
	queryRepo := postgres.NewLedgerQueryRepository(pool)
	txRunner := postgres.NewTxRunner(pool, cfg.Ledger.LockTimeout)

	ledgerUC := inventory.NewLedgerUseCase(txRunner, locationRepo, workOrderRepo, idempotencyRepo, log)
	queryUC := inventory.NewQueryUseCase(queryRepo, partRepo, workOrderRepo, cfg.Ledger.MovementsMaxLimit)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if !httpRouter.MountDocs(app, "./docs/"+docs.FileName, cfg.App.Name) {
		log.Warn().Str("file", "./docs/"+docs.FileName).Msg("especificación OpenAPI no encontrada, /docs deshabilitado")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		Ledger:      ledgerUC,
		Queries:     queryUC,
		Logger:      log,
		ServiceName: cfg.App.Name,
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
