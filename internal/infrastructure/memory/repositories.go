package memory

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/parts-ledger/internal/domain"
	"github.com/jhoicas/parts-ledger/internal/domain/entity"
	"github.com/jhoicas/parts-ledger/internal/domain/inventory"
	"github.com/jhoicas/parts-ledger/internal/domain/repository"
)

var (
	_ repository.PartRepository          = (*PartRepo)(nil)
	_ repository.LocationRepository      = (*LocationRepo)(nil)
	_ repository.WorkOrderRepository     = (*WorkOrderRepo)(nil)
	_ repository.BatchRepository         = (*BatchRepo)(nil)
	_ repository.MovementRepository      = (*MovementRepo)(nil)
	_ repository.WorkOrderPartRepository = (*WorkOrderPartRepo)(nil)
	_ repository.IdempotencyRepository   = (*IdempotencyRepo)(nil)
)

// PartRepo partes. Fuera de transacción lee la última foto y escribe en una transacción propia.
type PartRepo struct {
	store *Store
	tx    *state
}

func (r *PartRepo) view() *state {
	if r.tx != nil {
		return r.tx
	}
	return r.store.snapshot()
}

// GetByID devuelve (nil, nil) si la parte no existe.
func (r *PartRepo) GetByID(ctx context.Context, id string) (*entity.Part, error) {
	p, ok := r.view().parts[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// UpdateLastUnitCost fija el último costo unitario conocido.
func (r *PartRepo) UpdateLastUnitCost(ctx context.Context, id string, cost decimal.Decimal) error {
	update := func(tx *state) error {
		p, ok := tx.parts[id]
		if !ok {
			return domain.NotFound("part", id)
		}
		p.LastUnitCost = decimal.NewNullDecimal(cost)
		p.UpdatedAt = time.Now().UTC()
		tx.parts[id] = p
		return nil
	}
	if r.tx != nil {
		return update(r.tx)
	}
	return r.store.runTx(ctx, update)
}

// LocationRepo ubicaciones del host.
type LocationRepo struct {
	store *Store
}

// GetByID devuelve (nil, nil) si la ubicación no existe.
func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	l, ok := r.store.snapshot().locations[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

// WorkOrderRepo órdenes de trabajo del host.
type WorkOrderRepo struct {
	store *Store
}

// GetByID devuelve (nil, nil) si la orden no existe.
func (r *WorkOrderRepo) GetByID(ctx context.Context, id string) (*entity.WorkOrder, error) {
	wo, ok := r.store.snapshot().workOrders[id]
	if !ok {
		return nil, nil
	}
	return &wo, nil
}

// BatchRepo lotes dentro de una transacción. Devuelve copias: los cambios se
// persisten con UpdateQuantities.
type BatchRepo struct {
	tx *state
}

// Create inserta el lote asignando Seq.
func (r *BatchRepo) Create(ctx context.Context, b *entity.InventoryBatch) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	if _, ok := r.tx.batches[b.ID]; ok {
		return fmt.Errorf("create batch %s: %w", b.ID, domain.ErrDuplicate)
	}
	if err := b.Validate(); err != nil {
		return fmt.Errorf("create batch: %w", err)
	}
	r.tx.batchSeq++
	b.Seq = r.tx.batchSeq
	r.tx.batches[b.ID] = *b
	return nil
}

// GetForUpdate devuelve (nil, nil) si el lote no existe.
func (r *BatchRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryBatch, error) {
	b, ok := r.tx.batches[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

// LockAvailable lotes con disponible > 0 en orden FIFO.
func (r *BatchRepo) LockAvailable(ctx context.Context, partID, locationID string) ([]*entity.InventoryBatch, error) {
	return r.selectFIFO(func(b *entity.InventoryBatch) bool {
		return b.PartID == partID && b.LocationID == locationID && b.QtyAvailable() > 0
	}), nil
}

// LockAll todos los lotes de (parte, ubicación) en orden FIFO.
func (r *BatchRepo) LockAll(ctx context.Context, partID, locationID string) ([]*entity.InventoryBatch, error) {
	return r.selectFIFO(func(b *entity.InventoryBatch) bool {
		return b.PartID == partID && b.LocationID == locationID
	}), nil
}

// LockLocations todos los lotes de la parte en esas ubicaciones, por ubicación y FIFO.
func (r *BatchRepo) LockLocations(ctx context.Context, partID string, locationIDs ...string) ([]*entity.InventoryBatch, error) {
	locs := inventory.LockLocations(locationIDs...)
	out := r.selectFIFO(func(b *entity.InventoryBatch) bool {
		return b.PartID == partID && slices.Contains(locs, b.LocationID)
	})
	inventory.SortForLock(out)
	return out, nil
}

// FindTransferTarget primer lote (FIFO) equivalente en destino o (nil, nil).
func (r *BatchRepo) FindTransferTarget(ctx context.Context, partID, locationID string, unitCost decimal.Decimal, receivedAt time.Time, pos entity.Position) (*entity.InventoryBatch, error) {
	src := &entity.InventoryBatch{PartID: partID, UnitCost: unitCost, ReceivedAt: receivedAt}
	matches := r.selectFIFO(func(b *entity.InventoryBatch) bool {
		return inventory.MatchesTransferTarget(b, src, locationID, pos)
	})
	if len(matches) == 0 {
		return nil, nil
	}
	return matches[0], nil
}

// UpdateQuantities persiste QtyOnHand, QtyReserved y UpdatedAt.
func (r *BatchRepo) UpdateQuantities(ctx context.Context, b *entity.InventoryBatch) error {
	cur, ok := r.tx.batches[b.ID]
	if !ok {
		return fmt.Errorf("update batch: %w", domain.NotFound("batch", b.ID))
	}
	if err := b.Validate(); err != nil {
		return fmt.Errorf("update batch: %w", err)
	}
	cur.QtyOnHand = b.QtyOnHand
	cur.QtyReserved = b.QtyReserved
	cur.UpdatedAt = b.UpdatedAt
	r.tx.batches[b.ID] = cur
	return nil
}

func (r *BatchRepo) selectFIFO(keep func(b *entity.InventoryBatch) bool) []*entity.InventoryBatch {
	var out []*entity.InventoryBatch
	for _, b := range r.tx.batches {
		if keep(&b) {
			out = append(out, &b)
		}
	}
	inventory.SortFIFO(out)
	return out
}

// MovementRepo ledger append-only.
type MovementRepo struct {
	tx *state
}

// Create agrega el movimiento al final del ledger.
func (r *MovementRepo) Create(ctx context.Context, m *entity.PartMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	r.tx.movements = append(r.tx.movements, *m)
	return nil
}

// WorkOrderPartRepo líneas de orden de trabajo.
type WorkOrderPartRepo struct {
	tx *state
}

// GetOrCreate devuelve el agrupador (orden, parte), creándolo si falta.
func (r *WorkOrderPartRepo) GetOrCreate(ctx context.Context, workOrderID, partID string, now time.Time) (*entity.WorkOrderPart, error) {
	key := woPartKey{workOrderID: workOrderID, partID: partID}
	if wop, ok := r.tx.woParts[key]; ok {
		return &wop, nil
	}
	wop := entity.WorkOrderPart{
		ID:          uuid.New().String(),
		WorkOrderID: workOrderID,
		PartID:      partID,
		CreatedAt:   now,
	}
	r.tx.woParts[key] = wop
	return &wop, nil
}

// CreateRequest agrega una línea de consumo o devolución.
func (r *WorkOrderPartRepo) CreateRequest(ctx context.Context, req *entity.WorkOrderPartRequest) error {
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	r.tx.requests = append(r.tx.requests, *req)
	return nil
}

// IdempotencyRepo tabla lateral de respuestas.
type IdempotencyRepo struct {
	store *Store
	tx    *state
}

// Get devuelve (nil, nil) si la clave no existe.
func (r *IdempotencyRepo) Get(ctx context.Context, key string) (*entity.IdempotencyRecord, error) {
	st := r.tx
	if st == nil {
		st = r.store.snapshot()
	}
	rec, ok := st.idempotency[key]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// Create registra la clave; domain.ErrDuplicate si ya existe.
func (r *IdempotencyRepo) Create(ctx context.Context, rec *entity.IdempotencyRecord) error {
	insert := func(tx *state) error {
		if _, ok := tx.idempotency[rec.Key]; ok {
			return fmt.Errorf("idempotency key %q: %w", rec.Key, domain.ErrDuplicate)
		}
		tx.idempotency[rec.Key] = *rec
		return nil
	}
	if r.tx != nil {
		return insert(r.tx)
	}
	return r.store.runTx(ctx, insert)
}
