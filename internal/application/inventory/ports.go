package inventory

import (
	"context"

	"github.com/jhoicas/parts-ledger/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Parts          repository.PartRepository
	Batches        repository.BatchRepository
	Movements      repository.MovementRepository
	WorkOrderParts repository.WorkOrderPartRepository
	Idempotency    repository.IdempotencyRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Commit si fn devuelve nil, Rollback en cualquier otro caso (incluido ctx cancelado).
// Los bloqueos que exceden el timeout se devuelven como domain.ErrBusy.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}
