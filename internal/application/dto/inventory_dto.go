package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PositionDTO ubicación física dentro de una bodega (pasillo/fila/estante).
type PositionDTO struct {
	Aisle string `json:"aisle,omitempty" validate:"max=50"`
	Row   string `json:"row,omitempty" validate:"max=50"`
	Bin   string `json:"bin,omitempty" validate:"max=50"`
}

// IsZero indica que no se especificó ninguna coordenada.
func (p *PositionDTO) IsZero() bool {
	return p == nil || (p.Aisle == "" && p.Row == "" && p.Bin == "")
}

// Caller identidad del llamador, común a todas las mutaciones. Se llena desde cabeceras, no desde el body.
type Caller struct {
	ActorID        string `json:"-"`
	IdempotencyKey string `json:"-"`
}

// ReceiveInput body para POST /api/inventory/receive.
type ReceiveInput struct {
	Caller
	PartID     string          `json:"part_id" validate:"required"`
	LocationID string          `json:"location_id" validate:"required"`
	Qty        int             `json:"qty" validate:"gt=0,lte=2147483647"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	ReceivedAt *time.Time      `json:"received_at,omitempty"`
	ReceiptRef string          `json:"receipt_ref,omitempty" validate:"max=100"`
	Position   *PositionDTO    `json:"position,omitempty"`
}

// IssueInput body para POST /api/inventory/issue.
type IssueInput struct {
	Caller
	WorkOrderID string `json:"work_order_id" validate:"required"`
	PartID      string `json:"part_id" validate:"required"`
	LocationID  string `json:"location_id" validate:"required"`
	Qty         int    `json:"qty" validate:"gt=0,lte=2147483647"`
}

// ReturnInput body para POST /api/inventory/return.
type ReturnInput struct {
	Caller
	WorkOrderID string `json:"work_order_id" validate:"required"`
	PartID      string `json:"part_id" validate:"required"`
	LocationID  string `json:"location_id" validate:"required"`
	Qty         int    `json:"qty" validate:"gt=0,lte=2147483647"`
}

// TransferInput body para POST /api/inventory/transfer.
type TransferInput struct {
	Caller
	PartID         string       `json:"part_id" validate:"required"`
	FromLocationID string       `json:"from_location_id" validate:"required"`
	ToLocationID   string       `json:"to_location_id" validate:"required"`
	Qty            int          `json:"qty" validate:"gt=0,lte=2147483647"`
	Position       *PositionDTO `json:"position,omitempty"`
}

// AdjustInput body para POST /api/inventory/adjust (conteo cíclico de un lote).
type AdjustInput struct {
	Caller
	BatchID    string `json:"batch_id" validate:"required"`
	CountedQty int    `json:"counted_qty" validate:"gte=0,lte=2147483647"`
	Notes      string `json:"notes,omitempty" validate:"max=500"`
}

// ReceiveResult respuesta de Receive.
type ReceiveResult struct {
	TransactionID string          `json:"transaction_id"`
	BatchID       string          `json:"batch_id"`
	MovementID    string          `json:"movement_id"`
	PartID        string          `json:"part_id"`
	LocationID    string          `json:"location_id"`
	Qty           int             `json:"qty"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	TotalValue    decimal.Decimal `json:"total_value"`
	ReceivedAt    time.Time       `json:"received_at"`
}

// AllocationDTO una línea de asignación contra un lote.
type AllocationDTO struct {
	BatchID      string          `json:"batch_id"`
	MovementID   string          `json:"movement_id"`
	RequestID    string          `json:"request_id"`
	QtyAllocated int             `json:"qty_allocated"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	ReceivedAt   time.Time       `json:"received_at"`
}

// IssueResult respuesta de Issue: una asignación por lote tocado, en orden FIFO.
type IssueResult struct {
	TransactionID string          `json:"transaction_id"`
	WorkOrderID   string          `json:"work_order_id"`
	PartID        string          `json:"part_id"`
	LocationID    string          `json:"location_id"`
	Allocations   []AllocationDTO `json:"allocations"`
	TotalQty      int             `json:"total_qty"`
	TotalCost     decimal.Decimal `json:"total_cost"`
}

// ReturnResult respuesta de Return.
type ReturnResult struct {
	TransactionID   string          `json:"transaction_id"`
	WorkOrderID     string          `json:"work_order_id"`
	PartID          string          `json:"part_id"`
	LocationID      string          `json:"location_id"`
	Allocations     []AllocationDTO `json:"allocations"`
	TotalQty        int             `json:"total_qty"`
	TotalCreditCost decimal.Decimal `json:"total_credit_cost"`
}

// TransferLegDTO un tramo de traslado (salida u entrada) contra un lote.
type TransferLegDTO struct {
	BatchID    string          `json:"batch_id"`
	MovementID string          `json:"movement_id"`
	LocationID string          `json:"location_id"`
	Qty        int             `json:"qty"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	ReceivedAt time.Time       `json:"received_at"`
}

// TransferResult respuesta de Transfer. TransfersOut[i] y TransfersIn[i] forman un par.
type TransferResult struct {
	TransactionID  string           `json:"transaction_id"`
	PartID         string           `json:"part_id"`
	FromLocationID string           `json:"from_location_id"`
	ToLocationID   string           `json:"to_location_id"`
	TransfersOut   []TransferLegDTO `json:"transfers_out"`
	TransfersIn    []TransferLegDTO `json:"transfers_in"`
	TotalQty       int              `json:"total_qty"`
	TotalValue     decimal.Decimal  `json:"total_value"`
}

// AdjustResult respuesta de Adjust.
type AdjustResult struct {
	TransactionID string `json:"transaction_id"`
	BatchID       string `json:"batch_id"`
	MovementID    string `json:"movement_id"`
	PartID        string `json:"part_id"`
	LocationID    string `json:"location_id"`
	PreviousQty   int    `json:"previous_qty"`
	CountedQty    int    `json:"counted_qty"`
	Delta         int    `json:"delta"`
}
