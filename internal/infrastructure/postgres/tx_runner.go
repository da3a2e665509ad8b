package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/parts-ledger/internal/application/inventory"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	db          TxBeginner
	lockTimeout time.Duration
}

// NewTxRunner construye el runner. lockTimeout > 0 se aplica con SET LOCAL lock_timeout a cada transacción.
func NewTxRunner(db TxBeginner, lockTimeout time.Duration) *TxRunner {
	return &TxRunner{db: db, lockTimeout: lockTimeout}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Timeouts de bloqueo, deadlocks y fallas de serialización se devuelven como domain.ErrBusy.
func (r *TxRunner) Run(ctx context.Context, fn func(repos inventory.TxRepos) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return classify(fmt.Errorf("begin transaction: %w", err))
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if r.lockTimeout > 0 {
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("set lock timeout: %w", err)
		}
	}

	repos := inventory.TxRepos{
		Parts:          NewPartRepository(tx),
		Batches:        NewBatchRepository(tx),
		Movements:      NewMovementRepository(tx),
		WorkOrderParts: NewWorkOrderPartRepository(tx),
		Idempotency:    NewIdempotencyRepository(tx),
	}
	if err := fn(repos); err != nil {
		return classify(err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return classify(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}
