package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/parts-ledger/internal/domain/entity"
	"github.com/jhoicas/parts-ledger/internal/domain/repository"
)

var (
	_ repository.LocationRepository  = (*LocationRepo)(nil)
	_ repository.WorkOrderRepository = (*WorkOrderRepo)(nil)
)

// LocationRepo lectura de ubicaciones del host.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

// GetByID obtiene una ubicación; (nil, nil) si no existe.
func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	var l entity.Location
	err := r.q.QueryRow(ctx, `SELECT id, name FROM locations WHERE id = $1`, id).Scan(&l.ID, &l.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return &l, nil
}

// WorkOrderRepo lectura de órdenes de trabajo del host.
type WorkOrderRepo struct {
	q Querier
}

// NewWorkOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWorkOrderRepository(q Querier) *WorkOrderRepo {
	return &WorkOrderRepo{q: q}
}

// GetByID obtiene una orden de trabajo; (nil, nil) si no existe.
func (r *WorkOrderRepo) GetByID(ctx context.Context, id string) (*entity.WorkOrder, error) {
	var wo entity.WorkOrder
	err := r.q.QueryRow(ctx, `SELECT id, code FROM work_orders WHERE id = $1`, id).Scan(&wo.ID, &wo.Code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get work order: %w", err)
	}
	return &wo, nil
}
