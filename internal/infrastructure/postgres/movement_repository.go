package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/parts-ledger/internal/domain/entity"
	"github.com/jhoicas/parts-ledger/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo ledger de movimientos. Solo inserta: un trigger rechaza UPDATE y DELETE.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un movimiento.
func (r *MovementRepo) Create(ctx context.Context, m *entity.PartMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO part_movements (id, transaction_id, part_id, batch_id, from_location_id, to_location_id,
			movement_type, qty_delta, work_order_id, receipt_ref, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.TransactionID, m.PartID, nullString(m.BatchID),
		nullString(m.FromLocationID), nullString(m.ToLocationID),
		string(m.Type), m.QtyDelta, nullString(m.WorkOrderID), nullString(m.ReceiptRef),
		m.Notes, m.CreatedBy, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create part movement: %w", err)
	}
	return nil
}
