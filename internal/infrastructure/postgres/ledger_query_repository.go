package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/parts-ledger/internal/domain/entity"
	"github.com/jhoicas/parts-ledger/internal/domain/inventory"
	"github.com/jhoicas/parts-ledger/internal/domain/repository"
)

var _ repository.LedgerQueryRepository = (*LedgerQueryRepo)(nil)

// LedgerQueryRepo consultas de solo lectura (sin FOR UPDATE); usar con el pool.
type LedgerQueryRepo struct {
	q Querier
}

// NewLedgerQueryRepository construye el adaptador de consultas.
func NewLedgerQueryRepository(q Querier) *LedgerQueryRepo {
	return &LedgerQueryRepo{q: q}
}

// OnHand existencia agregada por (parte, ubicación), sin grupos vacíos.
func (r *LedgerQueryRepo) OnHand(ctx context.Context, f repository.StockFilter) ([]repository.OnHandResult, error) {
	query := `
		SELECT b.part_id, p.part_number, p.name, b.location_id, l.name,
			SUM(b.qty_on_hand), SUM(b.qty_reserved), COALESCE(SUM(b.qty_on_hand * b.unit_cost), 0)
		FROM inventory_batches b
		JOIN parts p ON p.id = b.part_id
		JOIN locations l ON l.id = b.location_id
		WHERE ($1::text = '' OR b.part_id = $1) AND ($2::text = '' OR b.location_id = $2)
		GROUP BY b.part_id, p.part_number, p.name, b.location_id, l.name
		HAVING SUM(b.qty_on_hand) > 0
		ORDER BY p.part_number, l.name, b.location_id`
	rows, err := r.q.Query(ctx, query, f.PartID, f.LocationID)
	if err != nil {
		return nil, fmt.Errorf("on hand: %w", err)
	}
	defer rows.Close()

	var out []repository.OnHandResult
	for rows.Next() {
		var row repository.OnHandResult
		if err := rows.Scan(
			&row.PartID, &row.PartNumber, &row.PartName, &row.LocationID, &row.LocationName,
			&row.QtyOnHand, &row.QtyReserved, &row.TotalValue,
		); err != nil {
			return nil, fmt.Errorf("scan on hand: %w", err)
		}
		row.AvgUnitCost = inventory.FromTotals(row.QtyOnHand, row.QtyReserved, row.TotalValue).RoundedAvg()
		out = append(out, row)
	}
	return out, rows.Err()
}

// Batches lotes (incluidos los agotados) en orden número de parte, ubicación, FIFO.
func (r *LedgerQueryRepo) Batches(ctx context.Context, f repository.StockFilter) ([]repository.BatchResult, error) {
	query := `
		SELECT b.id, b.seq, b.part_id, b.location_id, b.qty_on_hand, b.qty_reserved, b.qty_received,
			b.unit_cost, b.received_at, b.pos_aisle, b.pos_row, b.pos_bin, b.created_at, b.updated_at,
			p.part_number, l.name
		FROM inventory_batches b
		JOIN parts p ON p.id = b.part_id
		JOIN locations l ON l.id = b.location_id
		WHERE ($1::text = '' OR b.part_id = $1) AND ($2::text = '' OR b.location_id = $2)
		ORDER BY p.part_number, l.name, b.location_id, b.received_at, b.seq`
	rows, err := r.q.Query(ctx, query, f.PartID, f.LocationID)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()

	var out []repository.BatchResult
	for rows.Next() {
		var row repository.BatchResult
		b := &row.Batch
		if err := rows.Scan(
			&b.ID, &b.Seq, &b.PartID, &b.LocationID, &b.QtyOnHand, &b.QtyReserved, &b.QtyReceived,
			&b.UnitCost, &b.ReceivedAt, &b.Position.Aisle, &b.Position.Row, &b.Position.Bin,
			&b.CreatedAt, &b.UpdatedAt, &row.PartNumber, &row.LocationName,
		); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Movements historial del más reciente al más antiguo. La ubicación coincide con origen o destino.
func (r *LedgerQueryRepo) Movements(ctx context.Context, f repository.MovementFilter) ([]*entity.PartMovement, error) {
	query := `
		SELECT id, transaction_id, part_id, batch_id, from_location_id, to_location_id,
			movement_type, qty_delta, work_order_id, receipt_ref, notes, created_by, created_at
		FROM part_movements
		WHERE ($1::text = '' OR part_id = $1)
		  AND ($2::text = '' OR from_location_id = $2 OR to_location_id = $2)
		  AND ($3::text = '' OR work_order_id = $3)
		  AND ($4::timestamptz IS NULL OR created_at >= $4)
		  AND ($5::timestamptz IS NULL OR created_at <= $5)
		ORDER BY created_at DESC, seq DESC
		LIMIT $6`
	rows, err := r.q.Query(ctx, query, f.PartID, f.LocationID, f.WorkOrderID, f.From, f.To, f.Limit)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var out []*entity.PartMovement
	for rows.Next() {
		var m entity.PartMovement
		var batchID, fromLoc, toLoc, woID, receiptRef *string
		var movementType string
		if err := rows.Scan(
			&m.ID, &m.TransactionID, &m.PartID, &batchID, &fromLoc, &toLoc,
			&movementType, &m.QtyDelta, &woID, &receiptRef, &m.Notes, &m.CreatedBy, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		m.Type = entity.MovementType(movementType)
		m.BatchID = derefString(batchID)
		m.FromLocationID = derefString(fromLoc)
		m.ToLocationID = derefString(toLoc)
		m.WorkOrderID = derefString(woID)
		m.ReceiptRef = derefString(receiptRef)
		out = append(out, &m)
	}
	return out, rows.Err()
}

// WorkOrderLines líneas de consumo y devolución de la orden en orden de creación.
func (r *LedgerQueryRepo) WorkOrderLines(ctx context.Context, workOrderID string) ([]repository.WorkOrderLineResult, error) {
	query := `
		SELECT r.id, r.work_order_part_id, r.work_order_id, r.part_id, r.batch_id, r.movement_id,
			r.qty_used, r.unit_cost_snapshot, r.total_parts_cost, r.created_by, r.created_at, p.part_number
		FROM work_order_part_requests r
		JOIN parts p ON p.id = r.part_id
		WHERE r.work_order_id = $1
		ORDER BY r.created_at, r.seq`
	rows, err := r.q.Query(ctx, query, workOrderID)
	if err != nil {
		return nil, fmt.Errorf("work order lines: %w", err)
	}
	defer rows.Close()

	var out []repository.WorkOrderLineResult
	for rows.Next() {
		var line repository.WorkOrderLineResult
		req := &line.Request
		if err := rows.Scan(
			&req.ID, &req.WorkOrderPartID, &req.WorkOrderID, &req.PartID, &req.BatchID, &req.MovementID,
			&req.QtyUsed, &req.UnitCostSnapshot, &req.TotalPartsCost, &req.CreatedBy, &req.CreatedAt,
			&line.PartNumber,
		); err != nil {
			return nil, fmt.Errorf("scan work order line: %w", err)
		}
		out = append(out, line)
	}
	return out, rows.Err()
}

// PartLocations existencia de una parte por ubicación y pasillo/fila/estante.
func (r *LedgerQueryRepo) PartLocations(ctx context.Context, partID string) ([]repository.PartLocationResult, error) {
	query := `
		SELECT b.location_id, l.name, b.pos_aisle, b.pos_row, b.pos_bin, SUM(b.qty_on_hand)
		FROM inventory_batches b
		JOIN locations l ON l.id = b.location_id
		WHERE b.part_id = $1
		GROUP BY b.location_id, l.name, b.pos_aisle, b.pos_row, b.pos_bin
		HAVING SUM(b.qty_on_hand) > 0
		ORDER BY l.name, b.location_id, b.pos_aisle, b.pos_row, b.pos_bin`
	rows, err := r.q.Query(ctx, query, partID)
	if err != nil {
		return nil, fmt.Errorf("part locations: %w", err)
	}
	defer rows.Close()

	var out []repository.PartLocationResult
	for rows.Next() {
		var row repository.PartLocationResult
		if err := rows.Scan(
			&row.LocationID, &row.LocationName, &row.Position.Aisle, &row.Position.Row, &row.Position.Bin, &row.QtyOnHand,
		); err != nil {
			return nil, fmt.Errorf("scan part location: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Reconcile lotes cuya existencia difiere de la suma de sus movimientos.
func (r *LedgerQueryRepo) Reconcile(ctx context.Context, partID string) ([]repository.ReconcileResult, error) {
	query := `
		SELECT b.id, b.part_id, b.qty_on_hand, COALESCE(SUM(m.qty_delta), 0)
		FROM inventory_batches b
		LEFT JOIN part_movements m ON m.batch_id = b.id
		WHERE ($1::text = '' OR b.part_id = $1)
		GROUP BY b.id, b.part_id, b.qty_on_hand, b.seq
		HAVING b.qty_on_hand <> COALESCE(SUM(m.qty_delta), 0)
		ORDER BY b.part_id, b.seq`
	rows, err := r.q.Query(ctx, query, partID)
	if err != nil {
		return nil, fmt.Errorf("reconcile: %w", err)
	}
	defer rows.Close()

	var out []repository.ReconcileResult
	for rows.Next() {
		var row repository.ReconcileResult
		if err := rows.Scan(&row.BatchID, &row.PartID, &row.QtyOnHand, &row.LedgerSum); err != nil {
			return nil, fmt.Errorf("scan reconcile: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
