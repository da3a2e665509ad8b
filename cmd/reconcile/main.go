// Command reconcile verifica que la existencia de cada lote coincida con la suma de sus movimientos.
// Sale con estado 1 si encuentra descuadres.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/jhoicas/parts-ledger/internal/application/inventory"
	"github.com/jhoicas/parts-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/parts-ledger/pkg/config"
	"github.com/jhoicas/parts-ledger/pkg/logger"
)

func main() {
	partID := flag.String("part", "", "verificar solo esta parte")
	timeout := flag.Duration("timeout", 5*time.Minute, "tiempo máximo de la verificación")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "reconcile"})

	os.Exit(run(cfg, *partID, *timeout, log))
}

func run(cfg *config.Config, partID string, timeout time.Duration, log *logger.Logger) int {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("conexión a PostgreSQL")
		return 2
	}
	defer pool.Close()

	queries := inventory.NewQueryUseCase(
		postgres.NewLedgerQueryRepository(pool),
		postgres.NewPartRepository(pool),
		postgres.NewWorkOrderRepository(pool),
		cfg.Ledger.MovementsMaxLimit,
	)
	rows, err := queries.Reconcile(ctx, partID)
	if err != nil {
		log.Error().Err(err).Msg("conciliación")
		return 2
	}
	for _, r := range rows {
		log.Warn().
			Str("batch_id", r.BatchID).
			Str("part_id", r.PartID).
			Int("qty_on_hand", r.QtyOnHand).
			Int("ledger_sum", r.LedgerSum).
			Int("difference", r.Difference).
			Msg("lote descuadrado")
	}
	if len(rows) > 0 {
		log.Error().Int("mismatches", len(rows)).Msg("el ledger no cuadra")
		return 1
	}
	log.Info().Msg("ledger conciliado")
	return 0
}
