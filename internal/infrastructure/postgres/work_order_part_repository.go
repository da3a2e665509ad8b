package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/parts-ledger/internal/domain/entity"
	"github.com/jhoicas/parts-ledger/internal/domain/repository"
)

var _ repository.WorkOrderPartRepository = (*WorkOrderPartRepo)(nil)

// WorkOrderPartRepo líneas de consumo por orden de trabajo.
type WorkOrderPartRepo struct {
	q Querier
}

// NewWorkOrderPartRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWorkOrderPartRepository(q Querier) *WorkOrderPartRepo {
	return &WorkOrderPartRepo{q: q}
}

// GetOrCreate devuelve el agrupador (orden, parte). DO UPDATE hace que RETURNING devuelva también la fila existente.
func (r *WorkOrderPartRepo) GetOrCreate(ctx context.Context, workOrderID, partID string, now time.Time) (*entity.WorkOrderPart, error) {
	query := `
		INSERT INTO work_order_parts (id, work_order_id, part_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (work_order_id, part_id) DO UPDATE SET work_order_id = EXCLUDED.work_order_id
		RETURNING id, work_order_id, part_id, created_at`
	var wop entity.WorkOrderPart
	err := r.q.QueryRow(ctx, query, uuid.New().String(), workOrderID, partID, now).Scan(
		&wop.ID, &wop.WorkOrderID, &wop.PartID, &wop.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get or create work order part: %w", err)
	}
	return &wop, nil
}

// CreateRequest persiste una línea de consumo (QtyUsed > 0) o devolución (QtyUsed < 0).
func (r *WorkOrderPartRepo) CreateRequest(ctx context.Context, req *entity.WorkOrderPartRequest) error {
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	query := `
		INSERT INTO work_order_part_requests (id, work_order_part_id, work_order_id, part_id, batch_id, movement_id,
			qty_used, unit_cost_snapshot, total_parts_cost, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		req.ID, req.WorkOrderPartID, req.WorkOrderID, req.PartID, req.BatchID, req.MovementID,
		req.QtyUsed, req.UnitCostSnapshot, req.TotalPartsCost, req.CreatedBy, req.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create work order part request: %w", err)
	}
	return nil
}
