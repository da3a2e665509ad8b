package inventory

import (
	"context"

	"github.com/jhoicas/parts-ledger/internal/application/dto"
	"github.com/jhoicas/parts-ledger/internal/domain"
	"github.com/jhoicas/parts-ledger/internal/domain/repository"
)

// Límites del historial de movimientos.
const (
	DefaultMovementsLimit = 100
	MaxMovementsLimit     = 1000
)

// QueryUseCase consultas de solo lectura sobre el ledger. No toma bloqueos.
type QueryUseCase struct {
	queries    repository.LedgerQueryRepository
	parts      repository.PartRepository
	workOrders repository.WorkOrderRepository
	maxLimit   int
}

// NewQueryUseCase construye el caso de uso. maxLimit <= 0 usa MaxMovementsLimit.
func NewQueryUseCase(
	queries repository.LedgerQueryRepository,
	parts repository.PartRepository,
	workOrders repository.WorkOrderRepository,
	maxLimit int,
) *QueryUseCase {
	if maxLimit <= 0 {
		maxLimit = MaxMovementsLimit
	}
	return &QueryUseCase{queries: queries, parts: parts, workOrders: workOrders, maxLimit: maxLimit}
}

// OnHand existencia por (parte, ubicación) con valor total y costo promedio ponderado.
// Las combinaciones sin existencia no aparecen.
func (uc *QueryUseCase) OnHand(ctx context.Context, q dto.StockQuery) ([]dto.OnHandRow, error) {
	rows, err := uc.queries.OnHand(ctx, repository.StockFilter{PartID: q.PartID, LocationID: q.LocationID})
	if err != nil {
		return nil, err
	}
	out := make([]dto.OnHandRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.OnHandRow{
			PartID:       r.PartID,
			PartNumber:   r.PartNumber,
			PartName:     r.PartName,
			LocationID:   r.LocationID,
			LocationName: r.LocationName,
			QtyOnHand:    r.QtyOnHand,
			QtyReserved:  r.QtyReserved,
			QtyAvailable: max(r.QtyOnHand-r.QtyReserved, 0),
			TotalValue:   r.TotalValue,
			AvgUnitCost:  r.AvgUnitCost,
		})
	}
	return out, nil
}

// Batches lista de lotes en orden FIFO, incluidos los agotados.
func (uc *QueryUseCase) Batches(ctx context.Context, q dto.StockQuery) ([]dto.BatchRow, error) {
	rows, err := uc.queries.Batches(ctx, repository.StockFilter{PartID: q.PartID, LocationID: q.LocationID})
	if err != nil {
		return nil, err
	}
	out := make([]dto.BatchRow, 0, len(rows))
	for _, r := range rows {
		b := r.Batch
		out = append(out, dto.BatchRow{
			BatchID:      b.ID,
			PartID:       b.PartID,
			PartNumber:   r.PartNumber,
			LocationID:   b.LocationID,
			LocationName: r.LocationName,
			QtyOnHand:    b.QtyOnHand,
			QtyReserved:  b.QtyReserved,
			QtyAvailable: b.QtyAvailable(),
			QtyReceived:  b.QtyReceived,
			UnitCost:     b.UnitCost,
			TotalValue:   b.TotalValue(),
			ReceivedAt:   b.ReceivedAt,
			Position:     fromPosition(b.Position),
		})
	}
	return out, nil
}

// Movements historial en orden cronológico inverso. Limit 0 = DefaultMovementsLimit;
// valores mayores al máximo se recortan.
func (uc *QueryUseCase) Movements(ctx context.Context, q dto.MovementQuery) ([]dto.MovementRow, error) {
	if q.Limit < 0 {
		return nil, domain.Invalid("limit must not be negative, got %d", q.Limit)
	}
	if q.From != nil && q.To != nil && q.From.After(*q.To) {
		return nil, domain.Invalid("from must not be after to")
	}
	limit := q.Limit
	if limit == 0 {
		limit = DefaultMovementsLimit
	}
	limit = min(limit, uc.maxLimit)

	movs, err := uc.queries.Movements(ctx, repository.MovementFilter{
		PartID:      q.PartID,
		LocationID:  q.LocationID,
		WorkOrderID: q.WorkOrderID,
		From:        q.From,
		To:          q.To,
		Limit:       limit,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementRow, 0, len(movs))
	for _, m := range movs {
		out = append(out, dto.MovementRow{
			ID:             m.ID,
			TransactionID:  m.TransactionID,
			PartID:         m.PartID,
			BatchID:        m.BatchID,
			FromLocationID: m.FromLocationID,
			ToLocationID:   m.ToLocationID,
			Type:           string(m.Type),
			QtyDelta:       m.QtyDelta,
			WorkOrderID:    m.WorkOrderID,
			ReceiptRef:     m.ReceiptRef,
			Notes:          m.Notes,
			CreatedBy:      m.CreatedBy,
			CreatedAt:      m.CreatedAt,
		})
	}
	return out, nil
}

// WorkOrderCost costo neto de partes de la orden: las devoluciones restan.
func (uc *QueryUseCase) WorkOrderCost(ctx context.Context, workOrderID string) (*dto.WorkOrderCostReport, error) {
	if workOrderID == "" {
		return nil, domain.Invalid("work_order_id is required")
	}
	wo, err := uc.workOrders.GetByID(ctx, workOrderID)
	if err != nil {
		return nil, err
	}
	if wo == nil {
		return nil, domain.NotFound("work order", workOrderID)
	}
	lines, err := uc.queries.WorkOrderLines(ctx, workOrderID)
	if err != nil {
		return nil, err
	}

	report := &dto.WorkOrderCostReport{
		WorkOrderID:   wo.ID,
		WorkOrderCode: wo.Code,
		Lines:         make([]dto.WorkOrderCostLine, 0, len(lines)),
	}
	for _, l := range lines {
		r := l.Request
		report.Lines = append(report.Lines, dto.WorkOrderCostLine{
			RequestID:        r.ID,
			PartID:           r.PartID,
			PartNumber:       l.PartNumber,
			BatchID:          r.BatchID,
			MovementID:       r.MovementID,
			QtyUsed:          r.QtyUsed,
			UnitCostSnapshot: r.UnitCostSnapshot,
			TotalPartsCost:   r.TotalPartsCost,
			CreatedAt:        r.CreatedAt,
		})
		report.TotalQty += r.QtyUsed
		report.TotalPartsCost = report.TotalPartsCost.Add(r.TotalPartsCost)
	}
	return report, nil
}

// PartLocations existencia de una parte agrupada por ubicación y pasillo/fila/estante.
func (uc *QueryUseCase) PartLocations(ctx context.Context, partID string) ([]dto.PartLocationRow, error) {
	if partID == "" {
		return nil, domain.Invalid("part_id is required")
	}
	part, err := uc.parts.GetByID(ctx, partID)
	if err != nil {
		return nil, err
	}
	if part == nil {
		return nil, domain.NotFound("part", partID)
	}
	rows, err := uc.queries.PartLocations(ctx, partID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PartLocationRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.PartLocationRow{
			LocationID:   r.LocationID,
			LocationName: r.LocationName,
			Position:     fromPosition(r.Position),
			QtyOnHand:    r.QtyOnHand,
		})
	}
	return out, nil
}

// Reconcile devuelve los lotes cuya existencia difiere de la suma de sus movimientos.
// Un resultado vacío significa que el ledger cuadra.
func (uc *QueryUseCase) Reconcile(ctx context.Context, partID string) ([]dto.ReconcileRow, error) {
	rows, err := uc.queries.Reconcile(ctx, partID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReconcileRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ReconcileRow{
			BatchID:    r.BatchID,
			PartID:     r.PartID,
			QtyOnHand:  r.QtyOnHand,
			LedgerSum:  r.LedgerSum,
			Difference: r.QtyOnHand - r.LedgerSum,
		})
	}
	return out, nil
}
