package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/parts-ledger/internal/application/dto"
	"github.com/jhoicas/parts-ledger/internal/domain"
	"github.com/jhoicas/parts-ledger/internal/domain/entity"
	"github.com/jhoicas/parts-ledger/internal/domain/inventory"
)

func validateCaller(c dto.Caller) error {
	if c.ActorID == "" {
		return domain.Invalid("actor id is required")
	}
	if len(c.IdempotencyKey) > 255 {
		return domain.Invalid("idempotency key longer than 255 characters")
	}
	return nil
}

func requirePart(ctx context.Context, repos TxRepos, partID string) (*entity.Part, error) {
	part, err := repos.Parts.GetByID(ctx, partID)
	if err != nil {
		return nil, err
	}
	if part == nil {
		return nil, domain.NotFound("part", partID)
	}
	return part, nil
}

func (uc *LedgerUseCase) requireLocation(ctx context.Context, locationID string) error {
	loc, err := uc.locations.GetByID(ctx, locationID)
	if err != nil {
		return err
	}
	if loc == nil {
		return domain.NotFound("location", locationID)
	}
	return nil
}

func (uc *LedgerUseCase) requireWorkOrder(ctx context.Context, workOrderID string) error {
	wo, err := uc.workOrders.GetByID(ctx, workOrderID)
	if err != nil {
		return err
	}
	if wo == nil {
		return domain.NotFound("work order", workOrderID)
	}
	return nil
}

func validateQty(qty int) error {
	if qty <= 0 {
		return domain.Invalid("qty must be positive, got %d", qty)
	}
	if qty > entity.MaxQty {
		return domain.Invalid("qty must not exceed %d, got %d", entity.MaxQty, qty)
	}
	return nil
}

// applyDelta suma delta a la existencia del lote bloqueado y la persiste.
// Un resultado por encima de entity.MaxQty es entrada inválida y deja el lote intacto.
func applyDelta(ctx context.Context, repos TxRepos, batch *entity.InventoryBatch, delta int, now time.Time) error {
	if delta > 0 && batch.QtyOnHand > entity.MaxQty-delta {
		return domain.Invalid("batch %s would hold more than %d units (on hand %d, delta %d)",
			batch.ID, entity.MaxQty, batch.QtyOnHand, delta)
	}
	batch.QtyOnHand += delta
	batch.UpdatedAt = now
	if err := batch.Validate(); err != nil {
		return fmt.Errorf("apply delta %d: %w", delta, err)
	}
	return repos.Batches.UpdateQuantities(ctx, batch)
}

func recordMovement(ctx context.Context, repos TxRepos, mov *entity.PartMovement) error {
	if err := mov.Validate(); err != nil {
		return fmt.Errorf("record movement: %w", err)
	}
	return repos.Movements.Create(ctx, mov)
}

// availableAt lotes de la ubicación con disponible > 0, en orden FIFO.
func availableAt(batches []*entity.InventoryBatch, locationID string) []*entity.InventoryBatch {
	var out []*entity.InventoryBatch
	for _, b := range batches {
		if b.LocationID == locationID && b.QtyAvailable() > 0 {
			out = append(out, b)
		}
	}
	inventory.SortFIFO(out)
	return out
}

// withShortageScope completa parte y ubicación del faltante (el plan no las conoce si no hay lotes).
func withShortageScope(err error, partID, locationID string) error {
	var short *domain.InsufficientStockError
	if errors.As(err, &short) {
		short.PartID = partID
		short.LocationID = locationID
	}
	return err
}

// excludePosition descarta los lotes que ya están en la posición destino.
func excludePosition(batches []*entity.InventoryBatch, pos entity.Position) []*entity.InventoryBatch {
	out := make([]*entity.InventoryBatch, 0, len(batches))
	for _, b := range batches {
		if b.Position != pos {
			out = append(out, b)
		}
	}
	return out
}

func toPosition(p *dto.PositionDTO) entity.Position {
	if p == nil {
		return entity.Position{}
	}
	return entity.Position{Aisle: p.Aisle, Row: p.Row, Bin: p.Bin}
}

func fromPosition(p entity.Position) dto.PositionDTO {
	return dto.PositionDTO{Aisle: p.Aisle, Row: p.Row, Bin: p.Bin}
}

func decimalFromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}
