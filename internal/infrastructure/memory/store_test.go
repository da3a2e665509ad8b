package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/parts-ledger/internal/application/inventory"
	"github.com/jhoicas/parts-ledger/internal/domain"
	"github.com/jhoicas/parts-ledger/internal/domain/entity"
	"github.com/jhoicas/parts-ledger/internal/domain/repository"
	"github.com/jhoicas/parts-ledger/internal/infrastructure/memory"
)

var t0 = time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

func newBatch(receivedAt time.Time, qty int) *entity.InventoryBatch {
	return &entity.InventoryBatch{
		PartID:      "p-1",
		LocationID:  "l-1",
		QtyOnHand:   qty,
		QtyReceived: qty,
		UnitCost:    decimal.NewFromInt(3),
		ReceivedAt:  receivedAt,
	}
}

func TestRun_PublicaSoloAlConfirmar(t *testing.T) {
	store := memory.NewStore(time.Second)
	ctx := context.Background()

	boom := errors.New("boom")
	err := store.Run(ctx, func(repos inventory.TxRepos) error {
		require.NoError(t, repos.Batches.Create(ctx, newBatch(t0, 5)))
		return boom
	})
	require.ErrorIs(t, err, boom)

	rows, err := store.Queries().Batches(ctx, repository.StockFilter{})
	require.NoError(t, err)
	assert.Empty(t, rows, "un error en fn descarta la transacción")

	require.NoError(t, store.Run(ctx, func(repos inventory.TxRepos) error {
		return repos.Batches.Create(ctx, newBatch(t0, 5))
	}))
	rows, err = store.Queries().Batches(ctx, repository.StockFilter{})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestRun_ContextoCanceladoAntesDelCommit(t *testing.T) {
	store := memory.NewStore(time.Second)
	ctx, cancel := context.WithCancel(context.Background())

	err := store.Run(ctx, func(repos inventory.TxRepos) error {
		require.NoError(t, repos.Batches.Create(ctx, newBatch(t0, 5)))
		cancel()
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)

	rows, err := store.Queries().Batches(context.Background(), repository.StockFilter{})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRun_LectoresNoVenCambiosSinConfirmar(t *testing.T) {
	store := memory.NewStore(time.Second)
	ctx := context.Background()

	require.NoError(t, store.Run(ctx, func(repos inventory.TxRepos) error {
		require.NoError(t, repos.Batches.Create(ctx, newBatch(t0, 5)))
		rows, err := store.Queries().Batches(ctx, repository.StockFilter{})
		require.NoError(t, err)
		assert.Empty(t, rows, "la foto publicada no incluye la transacción en curso")
		return nil
	}))
}

func TestRun_TimeoutDeEscrituraEsBusy(t *testing.T) {
	store := memory.NewStore(10 * time.Millisecond)
	ctx := context.Background()

	err := store.Run(ctx, func(inventory.TxRepos) error {
		return store.Run(ctx, func(inventory.TxRepos) error { return nil })
	})
	assert.ErrorIs(t, err, domain.ErrBusy)
}

func TestBatchRepo_OrdenFIFOYSecuencia(t *testing.T) {
	store := memory.NewStore(time.Second)
	ctx := context.Background()

	var ids []string
	require.NoError(t, store.Run(ctx, func(repos inventory.TxRepos) error {
		for _, b := range []*entity.InventoryBatch{newBatch(t0, 1), newBatch(t0.Add(-time.Hour), 2), newBatch(t0, 0)} {
			require.NoError(t, repos.Batches.Create(ctx, b))
			ids = append(ids, b.ID)
		}
		return nil
	}))

	require.NoError(t, store.Run(ctx, func(repos inventory.TxRepos) error {
		avail, err := repos.Batches.LockAvailable(ctx, "p-1", "l-1")
		require.NoError(t, err)
		require.Len(t, avail, 2, "el lote agotado no es candidato")
		assert.Equal(t, ids[1], avail[0].ID)
		assert.Equal(t, ids[0], avail[1].ID)

		all, err := repos.Batches.LockAll(ctx, "p-1", "l-1")
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, ids[2], all[2].ID, "a igual fecha gana el creado primero")
		assert.Less(t, all[1].Seq, all[2].Seq)
		return nil
	}))
}

func TestBatchRepo_LockLocationsOrdenGlobal(t *testing.T) {
	store := memory.NewStore(time.Second)
	ctx := context.Background()

	at := func(loc string, receivedAt time.Time) *entity.InventoryBatch {
		b := newBatch(receivedAt, 1)
		b.LocationID = loc
		return b
	}
	require.NoError(t, store.Run(ctx, func(repos inventory.TxRepos) error {
		for _, b := range []*entity.InventoryBatch{
			at("l-2", t0.Add(-2*time.Hour)),
			at("l-1", t0),
			at("l-3", t0),
			at("l-1", t0.Add(-time.Hour)),
		} {
			require.NoError(t, repos.Batches.Create(ctx, b))
		}
		return nil
	}))

	require.NoError(t, store.Run(ctx, func(repos inventory.TxRepos) error {
		// El orden de los argumentos no cambia el orden de bloqueo.
		locked, err := repos.Batches.LockLocations(ctx, "p-1", "l-2", "l-1", "l-2")
		require.NoError(t, err)
		require.Len(t, locked, 3, "l-3 queda fuera")
		assert.Equal(t, "l-1", locked[0].LocationID)
		assert.True(t, locked[0].ReceivedAt.Equal(t0.Add(-time.Hour)))
		assert.Equal(t, "l-1", locked[1].LocationID)
		assert.Equal(t, "l-2", locked[2].LocationID)
		return nil
	}))
}

func TestBatchRepo_UpdateRechazaNegativos(t *testing.T) {
	store := memory.NewStore(time.Second)
	ctx := context.Background()
	err := store.Run(ctx, func(repos inventory.TxRepos) error {
		b := newBatch(t0, 2)
		require.NoError(t, repos.Batches.Create(ctx, b))
		b.QtyOnHand = -1
		return repos.Batches.UpdateQuantities(ctx, b)
	})
	assert.Error(t, err)
}

func TestIdempotencyRepo_ClaveDuplicada(t *testing.T) {
	store := memory.NewStore(time.Second)
	ctx := context.Background()
	rec := &entity.IdempotencyRecord{Key: "k", Operation: entity.OperationIssue, ActorID: "a", Response: []byte(`{}`)}

	require.NoError(t, store.Idempotency().Create(ctx, rec))
	err := store.Idempotency().Create(ctx, rec)
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	got, err := store.Idempotency().Get(ctx, "k")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Matches(entity.OperationIssue, "a"))

	missing, err := store.Idempotency().Get(ctx, "otra")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestQueryRepo_ConciliacionDetectaDescuadre(t *testing.T) {
	store := memory.NewStore(time.Second)
	ctx := context.Background()

	require.NoError(t, store.Run(ctx, func(repos inventory.TxRepos) error {
		b := newBatch(t0, 4)
		require.NoError(t, repos.Batches.Create(ctx, b))
		// Movimiento por 3 en vez de 4: el lote queda descuadrado.
		return repos.Movements.Create(ctx, &entity.PartMovement{
			TransactionID: "tx", PartID: b.PartID, BatchID: b.ID, ToLocationID: b.LocationID,
			Type: entity.MovementReceive, QtyDelta: 3, CreatedBy: "a", CreatedAt: t0,
		})
	}))

	rows, err := store.Queries().Reconcile(ctx, "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 4, rows[0].QtyOnHand)
	assert.Equal(t, 3, rows[0].LedgerSum)
}
