package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// WorkOrderPart agrupa todo el consumo de una parte en una orden de trabajo.
type WorkOrderPart struct {
	ID          string
	WorkOrderID string
	PartID      string
	CreatedAt   time.Time
}

// WorkOrderPartRequest registra un evento de asignación FIFO contra un lote.
// QtyUsed positivo = salida, negativo = devolución. Los costos son snapshots y no se recalculan.
type WorkOrderPartRequest struct {
	ID               string
	WorkOrderPartID  string
	WorkOrderID      string
	PartID           string
	BatchID          string
	MovementID       string
	QtyUsed          int
	UnitCostSnapshot decimal.Decimal
	TotalPartsCost   decimal.Decimal // QtyUsed × UnitCostSnapshot
	CreatedBy        string
	CreatedAt        time.Time
}

// NewWorkOrderPartRequest construye la línea calculando el costo total.
func NewWorkOrderPartRequest(wop *WorkOrderPart, batch *InventoryBatch, movementID string, qtyUsed int, actor string, now time.Time) *WorkOrderPartRequest {
	return &WorkOrderPartRequest{
		WorkOrderPartID:  wop.ID,
		WorkOrderID:      wop.WorkOrderID,
		PartID:           wop.PartID,
		BatchID:          batch.ID,
		MovementID:       movementID,
		QtyUsed:          qtyUsed,
		UnitCostSnapshot: batch.UnitCost,
		TotalPartsCost:   decimal.NewFromInt(int64(qtyUsed)).Mul(batch.UnitCost),
		CreatedBy:        actor,
		CreatedAt:        now,
	}
}
