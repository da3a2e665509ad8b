//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/parts-ledger/internal/application/dto"
	"github.com/jhoicas/parts-ledger/internal/application/inventory"
	"github.com/jhoicas/parts-ledger/internal/domain"
	"github.com/jhoicas/parts-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/parts-ledger/pkg/config"
	"github.com/jhoicas/parts-ledger/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Suite contra PostgreSQL real (go test -tags integration ./...)
// ──────────────────────────────────────────────────────────────────────────────

type pgFixture struct {
	pool    *pgxpool.Pool
	ledger  *inventory.LedgerUseCase
	queries *inventory.QueryUseCase
}

func startPostgres(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_DB":       "inventory",
		},
		WaitingFor: wait.ForAll(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			wait.ForListeningPort("5432/tcp"),
		).WithDeadline(90 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)
	return fmt.Sprintf("postgres://postgres:postgres@%s:%s/inventory?sslmode=disable", host, port.Port())
}

func newPGFixture(t *testing.T) *pgFixture {
	t.Helper()
	ctx := context.Background()
	dsn := startPostgres(t)

	require.NoError(t, postgres.RunMigrations(dsn, logger.Nop()))
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 8})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `
		INSERT INTO parts (id, part_number, name) VALUES ('part-a', 'FLT-100', 'Filtro de aceite');
		INSERT INTO locations (id, name) VALUES ('loc-main', 'Almacén central'), ('loc-van', 'Camioneta 7');
		INSERT INTO work_orders (id, code) VALUES ('wo-1', 'OT-0001');`)
	require.NoError(t, err)

	runner := postgres.NewTxRunner(pool, 2*time.Second)
	return &pgFixture{
		pool: pool,
		ledger: inventory.NewLedgerUseCase(runner,
			postgres.NewLocationRepository(pool),
			postgres.NewWorkOrderRepository(pool),
			postgres.NewIdempotencyRepository(pool),
			nil),
		queries: inventory.NewQueryUseCase(
			postgres.NewLedgerQueryRepository(pool),
			postgres.NewPartRepository(pool),
			postgres.NewWorkOrderRepository(pool),
			0),
	}
}

func (f *pgFixture) receive(t *testing.T, loc string, qty int, cost string, at time.Time) {
	t.Helper()
	_, err := f.ledger.Receive(context.Background(), dto.ReceiveInput{
		Caller:     dto.Caller{ActorID: "tech-01"},
		PartID:     "part-a",
		LocationID: loc,
		Qty:        qty,
		UnitCost:   decimal.RequireFromString(cost),
		ReceivedAt: &at,
	})
	require.NoError(t, err)
}

func (f *pgFixture) assertReconciled(t *testing.T) {
	t.Helper()
	rows, err := f.queries.Reconcile(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestPostgres_FIFOYCostoDeOrden(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()
	day := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	f.receive(t, "loc-main", 10, "5.00", day)
	f.receive(t, "loc-main", 10, "7.00", day.Add(24*time.Hour))

	res, err := f.ledger.Issue(ctx, dto.IssueInput{
		Caller: dto.Caller{ActorID: "tech-01"}, WorkOrderID: "wo-1", PartID: "part-a", LocationID: "loc-main", Qty: 15,
	})
	require.NoError(t, err)
	require.Len(t, res.Allocations, 2)
	assert.Equal(t, 10, res.Allocations[0].QtyAllocated)
	assert.True(t, res.Allocations[0].UnitCost.Equal(decimal.NewFromInt(5)))
	assert.True(t, res.TotalCost.Equal(decimal.NewFromInt(85)), "got %s", res.TotalCost)

	report, err := f.queries.WorkOrderCost(ctx, "wo-1")
	require.NoError(t, err)
	assert.Equal(t, 15, report.TotalQty)
	assert.True(t, report.TotalPartsCost.Equal(decimal.NewFromInt(85)))

	onHand, err := f.queries.OnHand(ctx, dto.StockQuery{PartID: "part-a"})
	require.NoError(t, err)
	require.Len(t, onHand, 1)
	assert.Equal(t, 5, onHand[0].QtyOnHand)
	assert.True(t, onHand[0].AvgUnitCost.Equal(decimal.NewFromInt(7)), "got %s", onHand[0].AvgUnitCost)
	f.assertReconciled(t)
}

func TestPostgres_SalidasConcurrentesNoSobregiran(t *testing.T) {
	f := newPGFixture(t)
	f.receive(t, "loc-main", 20, "3.00", time.Now().Add(-time.Hour))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok, fail int
	)
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.ledger.Issue(context.Background(), dto.IssueInput{
				Caller: dto.Caller{ActorID: "tech-01"}, WorkOrderID: "wo-1", PartID: "part-a", LocationID: "loc-main", Qty: 15,
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if errors.Is(err, domain.ErrInsufficientStock) {
				fail++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, fail)
	f.assertReconciled(t)
}

func TestPostgres_IdempotenciaYTransferencia(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()
	f.receive(t, "loc-main", 8, "15.00", time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))

	in := dto.TransferInput{
		Caller: dto.Caller{ActorID: "tech-01", IdempotencyKey: "tr-1"},
		PartID: "part-a", FromLocationID: "loc-main", ToLocationID: "loc-van", Qty: 8,
	}
	first, err := f.ledger.Transfer(ctx, in)
	require.NoError(t, err)
	again, err := f.ledger.Transfer(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, first, again, "la repetición devuelve la respuesta guardada")

	batches, err := f.queries.Batches(ctx, dto.StockQuery{PartID: "part-a", LocationID: "loc-van"})
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, 8, batches[0].QtyOnHand)
	assert.True(t, batches[0].UnitCost.Equal(decimal.NewFromInt(15)))
	assert.True(t, batches[0].ReceivedAt.Equal(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)))

	movs, err := f.queries.Movements(ctx, dto.MovementQuery{PartID: "part-a"})
	require.NoError(t, err)
	assert.Len(t, movs, 3, "receive + transfer_out + transfer_in, sin duplicados")
	f.assertReconciled(t)
}

func TestPostgres_LedgerEsSoloInsercion(t *testing.T) {
	f := newPGFixture(t)
	f.receive(t, "loc-main", 1, "1.00", time.Now())

	_, err := f.pool.Exec(context.Background(), `DELETE FROM part_movements`)
	assert.Error(t, err, "el trigger rechaza borrar movimientos")
}

func TestPostgres_TransferenciasOpuestasNoSeBloquean(t *testing.T) {
	f := newPGFixture(t)
	day := time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC)
	f.receive(t, "loc-main", 30, "4.00", day)
	f.receive(t, "loc-van", 30, "4.00", day)

	var wg sync.WaitGroup
	errs := make(chan error, 40)
	for i := range 40 {
		from, to := "loc-main", "loc-van"
		if i%2 == 1 {
			from, to = "loc-van", "loc-main"
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.ledger.Transfer(context.Background(), dto.TransferInput{
				Caller: dto.Caller{ActorID: "tech-01"}, PartID: "part-a", FromLocationID: from, ToLocationID: to, Qty: 1,
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err, "sin deadlock no hay Busy")
	}
	f.assertReconciled(t)
}

func TestPostgres_FechasEnMicrosegundosYTopeDeCantidad(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()
	at := time.Date(2024, 5, 2, 9, 30, 0, 987_654_321, time.UTC)

	res, err := f.ledger.Receive(ctx, dto.ReceiveInput{
		Caller: dto.Caller{ActorID: "tech-01", IdempotencyKey: "rx-1"}, PartID: "part-a", LocationID: "loc-main",
		Qty: 2147483647, UnitCost: decimal.NewFromInt(1), ReceivedAt: &at,
	})
	require.NoError(t, err)
	again, err := f.ledger.Receive(ctx, dto.ReceiveInput{
		Caller: dto.Caller{ActorID: "tech-01", IdempotencyKey: "rx-1"}, PartID: "part-a", LocationID: "loc-main",
		Qty: 2147483647, UnitCost: decimal.NewFromInt(1), ReceivedAt: &at,
	})
	require.NoError(t, err)

	batches, err := f.queries.Batches(ctx, dto.StockQuery{PartID: "part-a"})
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.True(t, batches[0].ReceivedAt.Equal(res.ReceivedAt), "stored %s, returned %s", batches[0].ReceivedAt, res.ReceivedAt)
	assert.True(t, again.ReceivedAt.Equal(res.ReceivedAt))

	_, err = f.ledger.Return(ctx, dto.ReturnInput{
		Caller: dto.Caller{ActorID: "tech-01"}, WorkOrderID: "wo-1", PartID: "part-a", LocationID: "loc-main", Qty: 1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "desborde de INTEGER como entrada inválida")
	f.assertReconciled(t)
}
