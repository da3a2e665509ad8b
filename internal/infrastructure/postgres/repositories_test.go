package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/parts-ledger/internal/domain"
	"github.com/jhoicas/parts-ledger/internal/domain/entity"
	"github.com/jhoicas/parts-ledger/internal/infrastructure/postgres"
)

var t0 = time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)

// ──────────────────────────────────────────────────────────────────────────────
// IdempotencyRepo
// ──────────────────────────────────────────────────────────────────────────────

func TestIdempotencyRepo_Get(t *testing.T) {
	mock := newMock(t)
	payload := []byte(`{"transaction_id":"tx-1"}`)
	mock.ExpectQuery(`SELECT key, operation, actor_id, request_hash, response, created_at\s+FROM idempotency_keys`).
		WithArgs("k-1").
		WillReturnRows(pgxmock.NewRows([]string{"key", "operation", "actor_id", "request_hash", "response", "created_at"}).
			AddRow("k-1", entity.OperationIssue, "tech-01", "abc", payload, t0))

	rec, err := postgres.NewIdempotencyRepository(mock).Get(context.Background(), "k-1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, payload, rec.Response, "la respuesta se devuelve byte a byte")
	assert.True(t, rec.Matches(entity.OperationIssue, "tech-01"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotencyRepo_GetSinFila(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`FROM idempotency_keys`).WithArgs("nope").WillReturnError(pgx.ErrNoRows)

	rec, err := postgres.NewIdempotencyRepository(mock).Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestIdempotencyRepo_CreateDuplicado(t *testing.T) {
	mock := newMock(t)
	rec := &entity.IdempotencyRecord{
		Key: "k-1", Operation: entity.OperationIssue, ActorID: "tech-01",
		RequestHash: "abc", Response: []byte(`{}`), CreatedAt: t0,
	}
	mock.ExpectExec(`INSERT INTO idempotency_keys`).
		WithArgs(rec.Key, rec.Operation, rec.ActorID, rec.RequestHash, rec.Response, rec.CreatedAt).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := postgres.NewIdempotencyRepository(mock).Create(context.Background(), rec)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ──────────────────────────────────────────────────────────────────────────────
// MovementRepo / BatchRepo / WorkOrderPartRepo
// ──────────────────────────────────────────────────────────────────────────────

func TestMovementRepo_CreateOpcionalesComoNull(t *testing.T) {
	mock := newMock(t)
	batchID := "b-1"
	to := "loc-1"
	m := &entity.PartMovement{
		ID: "m-1", TransactionID: "tx-1", PartID: "p-1", BatchID: batchID, ToLocationID: to,
		Type: entity.MovementReceive, QtyDelta: 5, CreatedBy: "tech-01", CreatedAt: t0,
	}
	var null *string
	mock.ExpectExec(`INSERT INTO part_movements`).
		WithArgs("m-1", "tx-1", "p-1", &batchID, null, &to, "receive", 5, null, null, "", "tech-01", t0).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, postgres.NewMovementRepository(mock).Create(context.Background(), m))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchRepo_UpdateSinFilaEsNotFound(t *testing.T) {
	mock := newMock(t)
	b := &entity.InventoryBatch{ID: "b-x", QtyOnHand: 3, UpdatedAt: t0}
	mock.ExpectExec(`UPDATE inventory_batches SET qty_on_hand`).
		WithArgs("b-x", 3, 0, t0).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := postgres.NewBatchRepository(mock).UpdateQuantities(context.Background(), b)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBatchRepo_LockLocationsOrdenGlobal(t *testing.T) {
	mock := newMock(t)
	cols := []string{"id", "seq", "part_id", "location_id", "qty_on_hand", "qty_reserved", "qty_received",
		"unit_cost", "received_at", "pos_aisle", "pos_row", "pos_bin", "created_at", "updated_at"}
	mock.ExpectQuery(`WHERE part_id = \$1 AND location_id = ANY\(\$2\)\s+ORDER BY location_id, received_at, seq\s+FOR UPDATE`).
		WithArgs("p-1", []string{"l-a", "l-b"}).
		WillReturnRows(pgxmock.NewRows(cols))

	locked, err := postgres.NewBatchRepository(mock).LockLocations(context.Background(), "p-1", "l-b", "l-a")
	require.NoError(t, err)
	assert.Empty(t, locked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkOrderPartRepo_GetOrCreate(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`INSERT INTO work_order_parts .+ ON CONFLICT \(work_order_id, part_id\)`).
		WithArgs(pgxmock.AnyArg(), "wo-1", "p-1", t0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "work_order_id", "part_id", "created_at"}).
			AddRow("wop-existing", "wo-1", "p-1", t0.Add(-time.Hour)))

	wop, err := postgres.NewWorkOrderPartRepository(mock).GetOrCreate(context.Background(), "wo-1", "p-1", t0)
	require.NoError(t, err)
	assert.Equal(t, "wop-existing", wop.ID, "devuelve el agrupador existente")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLocationRepo_GetByIDInexistente(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`SELECT id, name FROM locations`).WithArgs("nope").WillReturnError(pgx.ErrNoRows)

	loc, err := postgres.NewLocationRepository(mock).GetByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, loc)
}
