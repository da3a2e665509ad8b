package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/parts-ledger/internal/domain/entity"
)

// PartRepository puerto de lectura del catálogo y actualización del último costo.
// GetByID devuelve (nil, nil) si la parte no existe.
type PartRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Part, error)
	UpdateLastUnitCost(ctx context.Context, id string, cost decimal.Decimal) error
}

// LocationRepository consulta ubicaciones del host. (nil, nil) si no existe.
type LocationRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Location, error)
}

// WorkOrderRepository consulta órdenes de trabajo del host. (nil, nil) si no existe.
type WorkOrderRepository interface {
	GetByID(ctx context.Context, id string) (*entity.WorkOrder, error)
}

// BatchRepository persistencia de lotes. Los métodos Lock* y GetForUpdate bloquean las
// filas hasta el fin de la transacción y devuelven los lotes en orden FIFO.
type BatchRepository interface {
	// Create inserta el lote y asigna ID (si falta) y Seq.
	Create(ctx context.Context, batch *entity.InventoryBatch) error
	GetForUpdate(ctx context.Context, id string) (*entity.InventoryBatch, error)
	// LockAvailable bloquea los lotes de (parte, ubicación) con disponible > 0.
	LockAvailable(ctx context.Context, partID, locationID string) ([]*entity.InventoryBatch, error)
	// LockAll bloquea todos los lotes de (parte, ubicación), incluidos los agotados.
	LockAll(ctx context.Context, partID, locationID string) ([]*entity.InventoryBatch, error)
	// LockLocations bloquea todos los lotes de la parte en las ubicaciones dadas, ordenados
	// por ubicación y luego FIFO. Transfer lo usa antes de planificar.
	LockLocations(ctx context.Context, partID string, locationIDs ...string) ([]*entity.InventoryBatch, error)
	// FindTransferTarget bloquea el lote destino con mismo costo, fecha y posición, o (nil, nil).
	FindTransferTarget(ctx context.Context, partID, locationID string, unitCost decimal.Decimal, receivedAt time.Time, pos entity.Position) (*entity.InventoryBatch, error)
	// UpdateQuantities persiste QtyOnHand/QtyReserved del lote.
	UpdateQuantities(ctx context.Context, batch *entity.InventoryBatch) error
}

// MovementRepository ledger append-only: no hay Update ni Delete.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.PartMovement) error
}

// WorkOrderPartRepository líneas de consumo por orden de trabajo.
type WorkOrderPartRepository interface {
	// GetOrCreate devuelve el agrupador (orden, parte), creándolo si no existe.
	GetOrCreate(ctx context.Context, workOrderID, partID string, now time.Time) (*entity.WorkOrderPart, error)
	CreateRequest(ctx context.Context, req *entity.WorkOrderPartRequest) error
}

// IdempotencyRepository tabla lateral de respuestas por clave.
type IdempotencyRepository interface {
	// Get devuelve (nil, nil) si la clave no existe.
	Get(ctx context.Context, key string) (*entity.IdempotencyRecord, error)
	// Create devuelve domain.ErrDuplicate si la clave ya fue registrada.
	Create(ctx context.Context, rec *entity.IdempotencyRecord) error
}
