package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockQuery filtros opcionales de OnHand y Batches.
type StockQuery struct {
	PartID     string `query:"part_id"`
	LocationID string `query:"location_id"`
}

// MovementQuery filtros del historial. Limit 0 = valor por defecto.
type MovementQuery struct {
	PartID      string
	LocationID  string
	WorkOrderID string
	From        *time.Time
	To          *time.Time
	Limit       int
}

// OnHandRow existencia agregada por (parte, ubicación).
type OnHandRow struct {
	PartID       string          `json:"part_id"`
	PartNumber   string          `json:"part_number"`
	PartName     string          `json:"part_name"`
	LocationID   string          `json:"location_id"`
	LocationName string          `json:"location_name"`
	QtyOnHand    int             `json:"qty_on_hand"`
	QtyReserved  int             `json:"qty_reserved"`
	QtyAvailable int             `json:"qty_available"`
	TotalValue   decimal.Decimal `json:"total_value"`
	AvgUnitCost  decimal.Decimal `json:"avg_unit_cost"`
}

// BatchRow lote en orden FIFO.
type BatchRow struct {
	BatchID      string          `json:"batch_id"`
	PartID       string          `json:"part_id"`
	PartNumber   string          `json:"part_number"`
	LocationID   string          `json:"location_id"`
	LocationName string          `json:"location_name"`
	QtyOnHand    int             `json:"qty_on_hand"`
	QtyReserved  int             `json:"qty_reserved"`
	QtyAvailable int             `json:"qty_available"`
	QtyReceived  int             `json:"qty_received"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	TotalValue   decimal.Decimal `json:"total_value"`
	ReceivedAt   time.Time       `json:"received_at"`
	Position     PositionDTO     `json:"position"`
}

// MovementRow fila del ledger.
type MovementRow struct {
	ID             string    `json:"id"`
	TransactionID  string    `json:"transaction_id"`
	PartID         string    `json:"part_id"`
	BatchID        string    `json:"batch_id,omitempty"`
	FromLocationID string    `json:"from_location_id,omitempty"`
	ToLocationID   string    `json:"to_location_id,omitempty"`
	Type           string    `json:"type"`
	QtyDelta       int       `json:"qty_delta"`
	WorkOrderID    string    `json:"work_order_id,omitempty"`
	ReceiptRef     string    `json:"receipt_ref,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	CreatedBy      string    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
}

// WorkOrderCostLine consumo (o devolución, QtyUsed < 0) de una orden de trabajo.
type WorkOrderCostLine struct {
	RequestID        string          `json:"request_id"`
	PartID           string          `json:"part_id"`
	PartNumber       string          `json:"part_number"`
	BatchID          string          `json:"batch_id"`
	MovementID       string          `json:"movement_id"`
	QtyUsed          int             `json:"qty_used"`
	UnitCostSnapshot decimal.Decimal `json:"unit_cost_snapshot"`
	TotalPartsCost   decimal.Decimal `json:"total_parts_cost"`
	CreatedAt        time.Time       `json:"created_at"`
}

// WorkOrderCostReport costo neto de partes de una orden de trabajo.
type WorkOrderCostReport struct {
	WorkOrderID    string              `json:"work_order_id"`
	WorkOrderCode  string              `json:"work_order_code"`
	Lines          []WorkOrderCostLine `json:"lines"`
	TotalQty       int                 `json:"total_qty"`
	TotalPartsCost decimal.Decimal     `json:"total_parts_cost"`
}

// PartLocationRow existencia de una parte por ubicación y posición.
type PartLocationRow struct {
	LocationID   string      `json:"location_id"`
	LocationName string      `json:"location_name"`
	Position     PositionDTO `json:"position"`
	QtyOnHand    int         `json:"qty_on_hand"`
}

// ReconcileRow lote descuadrado: QtyOnHand distinto de la suma de sus movimientos.
type ReconcileRow struct {
	BatchID    string `json:"batch_id"`
	PartID     string `json:"part_id"`
	QtyOnHand  int    `json:"qty_on_hand"`
	LedgerSum  int    `json:"ledger_sum"`
	Difference int    `json:"difference"`
}

// ReconcileReport respuesta de la conciliación; Consistent si no hay descuadres.
type ReconcileReport struct {
	Consistent bool           `json:"consistent"`
	Mismatches []ReconcileRow `json:"mismatches"`
}
