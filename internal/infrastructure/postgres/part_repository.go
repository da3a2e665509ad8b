package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/parts-ledger/internal/domain"
	"github.com/jhoicas/parts-ledger/internal/domain/entity"
	"github.com/jhoicas/parts-ledger/internal/domain/repository"
)

var _ repository.PartRepository = (*PartRepo)(nil)

// PartRepo implementación del puerto PartRepository sobre PostgreSQL (usable con pool o tx).
type PartRepo struct {
	q Querier
}

// NewPartRepository construye el adaptador de partes. Pasar pool o tx (Querier).
func NewPartRepository(q Querier) *PartRepo {
	return &PartRepo{q: q}
}

// GetByID obtiene una parte por ID; (nil, nil) si no existe.
func (r *PartRepo) GetByID(ctx context.Context, id string) (*entity.Part, error) {
	query := `
		SELECT id, part_number, name, description, category, make, component, last_unit_cost, created_at, updated_at
		FROM parts WHERE id = $1`
	var p entity.Part
	err := r.q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.PartNumber, &p.Name, &p.Description, &p.Category, &p.Make, &p.Component,
		&p.LastUnitCost, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get part: %w", err)
	}
	return &p, nil
}

// UpdateLastUnitCost fija el último costo unitario recibido.
func (r *PartRepo) UpdateLastUnitCost(ctx context.Context, id string, cost decimal.Decimal) error {
	query := `UPDATE parts SET last_unit_cost = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, cost)
	if err != nil {
		return fmt.Errorf("update part cost: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("part", id)
	}
	return nil
}
