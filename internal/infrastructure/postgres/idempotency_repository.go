package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/parts-ledger/internal/domain"
	"github.com/jhoicas/parts-ledger/internal/domain/entity"
	"github.com/jhoicas/parts-ledger/internal/domain/repository"
)

var _ repository.IdempotencyRepository = (*IdempotencyRepo)(nil)

// IdempotencyRepo tabla lateral idempotency_keys. La respuesta se guarda como BYTEA para
// devolverla byte a byte (JSONB reordena claves).
type IdempotencyRepo struct {
	q Querier
}

// NewIdempotencyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewIdempotencyRepository(q Querier) *IdempotencyRepo {
	return &IdempotencyRepo{q: q}
}

// Get obtiene el registro de la clave; (nil, nil) si no existe.
func (r *IdempotencyRepo) Get(ctx context.Context, key string) (*entity.IdempotencyRecord, error) {
	query := `
		SELECT key, operation, actor_id, request_hash, response, created_at
		FROM idempotency_keys WHERE key = $1`
	var rec entity.IdempotencyRecord
	err := r.q.QueryRow(ctx, query, key).Scan(
		&rec.Key, &rec.Operation, &rec.ActorID, &rec.RequestHash, &rec.Response, &rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get idempotency key: %w", err)
	}
	return &rec, nil
}

// Create inserta el registro; domain.ErrDuplicate si otra transacción ya confirmó la clave.
func (r *IdempotencyRepo) Create(ctx context.Context, rec *entity.IdempotencyRecord) error {
	query := `
		INSERT INTO idempotency_keys (key, operation, actor_id, request_hash, response, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, rec.Key, rec.Operation, rec.ActorID, rec.RequestHash, rec.Response, rec.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("idempotency key %q: %w", rec.Key, domain.ErrDuplicate)
		}
		return fmt.Errorf("create idempotency key: %w", err)
	}
	return nil
}
