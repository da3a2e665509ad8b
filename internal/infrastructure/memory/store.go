// Package memory implementa los puertos del ledger en memoria: mismo contrato transaccional
// que PostgreSQL (todo o nada, escritores serializados, timeout de bloqueo) para tests y uso embebido.
package memory

import (
	"context"
	"maps"
	"sync/atomic"
	"time"

	"github.com/jhoicas/parts-ledger/internal/application/inventory"
	"github.com/jhoicas/parts-ledger/internal/domain"
	"github.com/jhoicas/parts-ledger/internal/domain/entity"
)

var _ inventory.TxRunner = (*Store)(nil)

// DefaultLockTimeout espera máxima por el turno de escritura.
const DefaultLockTimeout = 5 * time.Second

// state foto inmutable una vez publicada. Las transacciones trabajan sobre un clon.
type state struct {
	parts       map[string]entity.Part
	locations   map[string]entity.Location
	workOrders  map[string]entity.WorkOrder
	batches     map[string]entity.InventoryBatch
	batchSeq    int64
	movements   []entity.PartMovement
	woParts     map[woPartKey]entity.WorkOrderPart
	requests    []entity.WorkOrderPartRequest
	idempotency map[string]entity.IdempotencyRecord
}

type woPartKey struct {
	workOrderID string
	partID      string
}

func newState() *state {
	return &state{
		parts:       map[string]entity.Part{},
		locations:   map[string]entity.Location{},
		workOrders:  map[string]entity.WorkOrder{},
		batches:     map[string]entity.InventoryBatch{},
		woParts:     map[woPartKey]entity.WorkOrderPart{},
		idempotency: map[string]entity.IdempotencyRecord{},
	}
}

// clone copia los mapas. Los slices append-only se recortan a su capacidad para que
// un append en el clon nunca escriba sobre el arreglo de la foto publicada.
func (s *state) clone() *state {
	return &state{
		parts:       maps.Clone(s.parts),
		locations:   maps.Clone(s.locations),
		workOrders:  maps.Clone(s.workOrders),
		batches:     maps.Clone(s.batches),
		batchSeq:    s.batchSeq,
		movements:   s.movements[:len(s.movements):len(s.movements)],
		woParts:     maps.Clone(s.woParts),
		requests:    s.requests[:len(s.requests):len(s.requests)],
		idempotency: maps.Clone(s.idempotency),
	}
}

// Store ledger en memoria. Lectores cargan la última foto publicada sin bloquear;
// los escritores se serializan con un semáforo de un cupo.
type Store struct {
	current     atomic.Pointer[state]
	writer      chan struct{}
	lockTimeout time.Duration
}

// NewStore crea un store vacío. lockTimeout <= 0 usa DefaultLockTimeout.
func NewStore(lockTimeout time.Duration) *Store {
	if lockTimeout <= 0 {
		lockTimeout = DefaultLockTimeout
	}
	s := &Store{writer: make(chan struct{}, 1), lockTimeout: lockTimeout}
	s.current.Store(newState())
	return s
}

// Run ejecuta fn sobre una copia privada del estado y la publica solo si fn devuelve nil
// y ctx sigue vigente. Si no obtiene el turno de escritura dentro del timeout devuelve domain.ErrBusy.
func (s *Store) Run(ctx context.Context, fn func(repos inventory.TxRepos) error) error {
	return s.runTx(ctx, func(tx *state) error {
		return fn(s.txRepos(tx))
	})
}

func (s *Store) runTx(ctx context.Context, fn func(tx *state) error) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer func() { <-s.writer }()

	tx := s.current.Load().clone()
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.current.Store(tx)
	return nil
}

func (s *Store) acquire(ctx context.Context) error {
	timer := time.NewTimer(s.lockTimeout)
	defer timer.Stop()
	select {
	case s.writer <- struct{}{}:
		return nil
	case <-timer.C:
		return domain.ErrBusy
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) txRepos(tx *state) inventory.TxRepos {
	return inventory.TxRepos{
		Parts:          &PartRepo{store: s, tx: tx},
		Batches:        &BatchRepo{tx: tx},
		Movements:      &MovementRepo{tx: tx},
		WorkOrderParts: &WorkOrderPartRepo{tx: tx},
		Idempotency:    &IdempotencyRepo{store: s, tx: tx},
	}
}

func (s *Store) snapshot() *state {
	return s.current.Load()
}

// Parts repositorio de partes fuera de transacción.
func (s *Store) Parts() *PartRepo { return &PartRepo{store: s} }

// Locations repositorio de ubicaciones.
func (s *Store) Locations() *LocationRepo { return &LocationRepo{store: s} }

// WorkOrders repositorio de órdenes de trabajo.
func (s *Store) WorkOrders() *WorkOrderRepo { return &WorkOrderRepo{store: s} }

// Idempotency repositorio de idempotencia fuera de transacción.
func (s *Store) Idempotency() *IdempotencyRepo { return &IdempotencyRepo{store: s} }

// Queries repositorio de consultas.
func (s *Store) Queries() *QueryRepo { return &QueryRepo{store: s} }

// ─── Datos de referencia (propiedad del host) ───────────────────────────────

// PutPart registra o reemplaza una parte del catálogo.
func (s *Store) PutPart(ctx context.Context, p entity.Part) error {
	return s.runTx(ctx, func(tx *state) error {
		tx.parts[p.ID] = p
		return nil
	})
}

// PutLocation registra o reemplaza una ubicación.
func (s *Store) PutLocation(ctx context.Context, l entity.Location) error {
	return s.runTx(ctx, func(tx *state) error {
		tx.locations[l.ID] = l
		return nil
	})
}

// PutWorkOrder registra o reemplaza una orden de trabajo.
func (s *Store) PutWorkOrder(ctx context.Context, wo entity.WorkOrder) error {
	return s.runTx(ctx, func(tx *state) error {
		tx.workOrders[wo.ID] = wo
		return nil
	})
}
