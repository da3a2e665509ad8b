package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/parts-ledger/internal/domain/entity"
)

// StockFilter filtros opcionales por parte y ubicación ("" = todos).
type StockFilter struct {
	PartID     string
	LocationID string
}

// MovementFilter filtros del historial de movimientos.
// LocationID coincide con origen o destino. Limit ya viene normalizado por el caso de uso.
type MovementFilter struct {
	PartID      string
	LocationID  string
	WorkOrderID string
	From        *time.Time
	To          *time.Time
	Limit       int
}

// OnHandResult resultado crudo agregado por (parte, ubicación).
type OnHandResult struct {
	PartID       string
	PartNumber   string
	PartName     string
	LocationID   string
	LocationName string
	QtyOnHand    int
	QtyReserved  int
	TotalValue   decimal.Decimal // Σ qty_on_hand × unit_cost
	AvgUnitCost  decimal.Decimal // promedio ponderado, 4 decimales
}

// BatchResult lote con etiquetas de parte y ubicación.
type BatchResult struct {
	Batch        entity.InventoryBatch
	PartNumber   string
	LocationName string
}

// WorkOrderLineResult línea de consumo con el número de parte.
type WorkOrderLineResult struct {
	Request    entity.WorkOrderPartRequest
	PartNumber string
}

// PartLocationResult existencia de una parte agrupada por ubicación y posición.
type PartLocationResult struct {
	LocationID   string
	LocationName string
	Position     entity.Position
	QtyOnHand    int
}

// ReconcileResult lote cuya existencia no coincide con la suma de sus movimientos.
type ReconcileResult struct {
	BatchID   string
	PartID    string
	QtyOnHand int
	LedgerSum int
}

// LedgerQueryRepository consultas de solo lectura del ledger (sin bloqueos).
type LedgerQueryRepository interface {
	// OnHand omite los grupos sin existencia.
	OnHand(ctx context.Context, f StockFilter) ([]OnHandResult, error)
	// Batches en orden número de parte, ubicación, FIFO.
	Batches(ctx context.Context, f StockFilter) ([]BatchResult, error)
	// Movements en orden cronológico inverso.
	Movements(ctx context.Context, f MovementFilter) ([]*entity.PartMovement, error)
	WorkOrderLines(ctx context.Context, workOrderID string) ([]WorkOrderLineResult, error)
	PartLocations(ctx context.Context, partID string) ([]PartLocationResult, error)
	Reconcile(ctx context.Context, partID string) ([]ReconcileResult, error)
}
