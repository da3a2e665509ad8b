package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/parts-ledger/internal/domain"
	"github.com/jhoicas/parts-ledger/internal/domain/entity"
	"github.com/jhoicas/parts-ledger/internal/domain/inventory"
	"github.com/jhoicas/parts-ledger/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

const batchColumns = `id, seq, part_id, location_id, qty_on_hand, qty_reserved, qty_received,
		unit_cost, received_at, pos_aisle, pos_row, pos_bin, created_at, updated_at`

// BatchRepo lotes de inventario. Los métodos de bloqueo requieren una tx como Querier.
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

// Create inserta el lote y asigna Seq desde la secuencia de la tabla.
func (r *BatchRepo) Create(ctx context.Context, b *entity.InventoryBatch) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventory_batches (id, part_id, location_id, qty_on_hand, qty_reserved, qty_received,
			unit_cost, received_at, pos_aisle, pos_row, pos_bin, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING seq`
	err := r.q.QueryRow(ctx, query,
		b.ID, b.PartID, b.LocationID, b.QtyOnHand, b.QtyReserved, b.QtyReceived,
		b.UnitCost, b.ReceivedAt, b.Position.Aisle, b.Position.Row, b.Position.Bin, b.CreatedAt, b.UpdatedAt,
	).Scan(&b.Seq)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create batch %s: %w", b.ID, domain.ErrDuplicate)
		}
		return fmt.Errorf("create batch: %w", err)
	}
	return nil
}

// GetForUpdate bloquea un lote por ID; (nil, nil) si no existe.
func (r *BatchRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryBatch, error) {
	query := `SELECT ` + batchColumns + ` FROM inventory_batches WHERE id = $1 FOR UPDATE`
	b, err := scanBatch(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock batch: %w", err)
	}
	return b, nil
}

// LockAvailable bloquea, en orden FIFO, los lotes con disponible > 0 (SELECT FOR UPDATE).
func (r *BatchRepo) LockAvailable(ctx context.Context, partID, locationID string) ([]*entity.InventoryBatch, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM inventory_batches
		WHERE part_id = $1 AND location_id = $2 AND qty_on_hand > qty_reserved
		ORDER BY received_at, seq
		FOR UPDATE`
	return r.queryBatches(ctx, "lock available batches", query, partID, locationID)
}

// LockAll bloquea, en orden FIFO, todos los lotes de (parte, ubicación).
func (r *BatchRepo) LockAll(ctx context.Context, partID, locationID string) ([]*entity.InventoryBatch, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM inventory_batches
		WHERE part_id = $1 AND location_id = $2
		ORDER BY received_at, seq
		FOR UPDATE`
	return r.queryBatches(ctx, "lock batches", query, partID, locationID)
}

// LockLocations bloquea los lotes de la parte en varias ubicaciones en un orden global
// (location_id, received_at, seq). Dos traslados en sentidos opuestos esperan en vez de cruzarse.
func (r *BatchRepo) LockLocations(ctx context.Context, partID string, locationIDs ...string) ([]*entity.InventoryBatch, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM inventory_batches
		WHERE part_id = $1 AND location_id = ANY($2)
		ORDER BY location_id, received_at, seq
		FOR UPDATE`
	return r.queryBatches(ctx, "lock batches by location", query, partID, inventory.LockLocations(locationIDs...))
}

// FindTransferTarget bloquea el lote destino con mismo costo, fecha de recepción y posición.
func (r *BatchRepo) FindTransferTarget(ctx context.Context, partID, locationID string, unitCost decimal.Decimal, receivedAt time.Time, pos entity.Position) (*entity.InventoryBatch, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM inventory_batches
		WHERE part_id = $1 AND location_id = $2 AND unit_cost = $3 AND received_at = $4
		  AND pos_aisle = $5 AND pos_row = $6 AND pos_bin = $7
		ORDER BY received_at, seq
		LIMIT 1
		FOR UPDATE`
	b, err := scanBatch(r.q.QueryRow(ctx, query, partID, locationID, unitCost, receivedAt, pos.Aisle, pos.Row, pos.Bin))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find transfer target: %w", err)
	}
	return b, nil
}

// UpdateQuantities persiste existencia y reservado. Los CHECK de la tabla rechazan negativos.
func (r *BatchRepo) UpdateQuantities(ctx context.Context, b *entity.InventoryBatch) error {
	query := `UPDATE inventory_batches SET qty_on_hand = $2, qty_reserved = $3, updated_at = $4 WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, b.ID, b.QtyOnHand, b.QtyReserved, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update batch: %w", domain.NotFound("batch", b.ID))
	}
	return nil
}

func (r *BatchRepo) queryBatches(ctx context.Context, op, query string, args ...any) ([]*entity.InventoryBatch, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []*entity.InventoryBatch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func scanBatch(row pgx.Row) (*entity.InventoryBatch, error) {
	var b entity.InventoryBatch
	err := row.Scan(
		&b.ID, &b.Seq, &b.PartID, &b.LocationID, &b.QtyOnHand, &b.QtyReserved, &b.QtyReceived,
		&b.UnitCost, &b.ReceivedAt, &b.Position.Aisle, &b.Position.Row, &b.Position.Bin,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
