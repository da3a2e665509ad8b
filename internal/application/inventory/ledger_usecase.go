package inventory

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/parts-ledger/internal/application/dto"
	"github.com/jhoicas/parts-ledger/internal/domain"
	"github.com/jhoicas/parts-ledger/internal/domain/entity"
	"github.com/jhoicas/parts-ledger/internal/domain/inventory"
	"github.com/jhoicas/parts-ledger/internal/domain/repository"
	"github.com/jhoicas/parts-ledger/pkg/logger"
)

const tracerName = "github.com/jhoicas/parts-ledger/internal/application/inventory"

// LedgerUseCase registra los movimientos físicos de partes (Receive, Issue, Return, Transfer, Adjust).
// Cada operación corre en una sola transacción: bloquea los lotes candidatos en orden FIFO,
// aplica los deltas, escribe movimientos y líneas de orden de trabajo y, si hay clave de
// idempotencia, guarda la respuesta en la misma transacción.
type LedgerUseCase struct {
	txRunner    TxRunner
	locations   repository.LocationRepository
	workOrders  repository.WorkOrderRepository
	idempotency repository.IdempotencyRepository
	log         *logger.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

// NewLedgerUseCase construye el caso de uso. log puede ser nil.
func NewLedgerUseCase(
	txRunner TxRunner,
	locations repository.LocationRepository,
	workOrders repository.WorkOrderRepository,
	idempotency repository.IdempotencyRepository,
	log *logger.Logger,
) *LedgerUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &LedgerUseCase{
		txRunner:    txRunner,
		locations:   locations,
		workOrders:  workOrders,
		idempotency: idempotency,
		log:         log.Component("ledger"),
		tracer:      otel.Tracer(tracerName),
		now:         time.Now,
	}
}

// txFunc cuerpo de una operación dentro de la transacción.
type txFunc[T any] func(ctx context.Context, repos TxRepos, txID string, now time.Time) (*T, error)

// execute resuelve la idempotencia y corre fn en una transacción.
// La respuesta siempre se decodifica desde los bytes guardados, de modo que la primera
// ejecución y las repeticiones devuelven exactamente el mismo resultado.
func execute[T any](ctx context.Context, uc *LedgerUseCase, op string, caller dto.Caller, request any, fn txFunc[T]) (*T, error) {
	if caller.IdempotencyKey != "" {
		res, err := replay[T](ctx, uc, op, caller)
		if err != nil || res != nil {
			return res, err
		}
	}

	txID := uuid.New().String()
	now := uc.now().UTC().Truncate(time.Microsecond)
	var payload []byte
	err := uc.txRunner.Run(ctx, func(repos TxRepos) error {
		res, err := fn(ctx, repos, txID, now)
		if err != nil {
			return err
		}
		payload, err = json.Marshal(res)
		if err != nil {
			return fmt.Errorf("encode %s response: %w", op, err)
		}
		if caller.IdempotencyKey == "" {
			return nil
		}
		return repos.Idempotency.Create(ctx, &entity.IdempotencyRecord{
			Key:         caller.IdempotencyKey,
			Operation:   op,
			ActorID:     caller.ActorID,
			RequestHash: requestHash(request),
			Response:    payload,
			CreatedAt:   now,
		})
	})
	if err != nil {
		// Otra petición con la misma clave confirmó primero: devolver su respuesta.
		if caller.IdempotencyKey != "" && errors.Is(err, domain.ErrDuplicate) {
			res, rerr := replay[T](ctx, uc, op, caller)
			if rerr != nil || res != nil {
				return res, rerr
			}
		}
		uc.logFailure(op, caller, err)
		return nil, err
	}

	var out T
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", op, err)
	}
	uc.log.Info().
		Str("op", op).
		Str("transaction_id", txID).
		Str("actor_id", caller.ActorID).
		Bool("replayed", false).
		Msg("movimiento registrado")
	return &out, nil
}

// replay devuelve la respuesta guardada bajo la clave, o (nil, nil) si no existe.
func replay[T any](ctx context.Context, uc *LedgerUseCase, op string, caller dto.Caller) (*T, error) {
	rec, err := uc.idempotency.Get(ctx, caller.IdempotencyKey)
	if err != nil {
		return nil, fmt.Errorf("lookup idempotency key: %w", err)
	}
	if rec == nil {
		return nil, nil
	}
	if !rec.Matches(op, caller.ActorID) {
		uc.log.Warn().
			Str("op", op).
			Str("idempotency_key", caller.IdempotencyKey).
			Str("stored_op", rec.Operation).
			Msg("clave de idempotencia reutilizada")
		return nil, fmt.Errorf("%w: key %q belongs to %s", domain.ErrIdempotencyConflict, caller.IdempotencyKey, rec.Operation)
	}
	var out T
	if err := json.Unmarshal(rec.Response, &out); err != nil {
		return nil, fmt.Errorf("decode stored %s response: %w", op, err)
	}
	uc.log.Info().
		Str("op", op).
		Str("idempotency_key", caller.IdempotencyKey).
		Bool("replayed", true).
		Msg("respuesta idempotente")
	return &out, nil
}

func (uc *LedgerUseCase) logFailure(op string, caller dto.Caller, err error) {
	switch domain.Kind(err) {
	case domain.KindBusy, domain.KindIdempotencyConflict:
		uc.log.Warn().Err(err).Str("op", op).Str("actor_id", caller.ActorID).Msg("operación rechazada")
	case domain.KindInternal:
		uc.log.Error().Err(err).Str("op", op).Str("actor_id", caller.ActorID).Msg("operación fallida")
	}
}

func requestHash(request any) string {
	raw, err := json.Marshal(request)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

func (uc *LedgerUseCase) startSpan(ctx context.Context, op, partID string, qty int) (context.Context, trace.Span) {
	return uc.tracer.Start(ctx, "inventory."+op, trace.WithAttributes(
		attribute.String("inventory.op", op),
		attribute.String("inventory.part_id", partID),
		attribute.Int("inventory.qty", qty),
	))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(domain.Kind(err)))
	}
	span.End()
}

// ─── Receive ────────────────────────────────────────────────────────────────

// Receive crea un lote nuevo con la cantidad recibida y registra un movimiento receive.
// Actualiza el último costo unitario conocido de la parte.
func (uc *LedgerUseCase) Receive(ctx context.Context, in dto.ReceiveInput) (res *dto.ReceiveResult, err error) {
	ctx, span := uc.startSpan(ctx, entity.OperationReceive, in.PartID, in.Qty)
	defer func() { endSpan(span, err) }()

	if err := validateCaller(in.Caller); err != nil {
		return nil, err
	}
	if in.PartID == "" || in.LocationID == "" {
		return nil, domain.Invalid("part_id and location_id are required")
	}
	if err := validateQty(in.Qty); err != nil {
		return nil, err
	}
	if in.UnitCost.IsNegative() {
		return nil, domain.Invalid("unit_cost must not be negative, got %s", in.UnitCost)
	}

	return execute(ctx, uc, entity.OperationReceive, in.Caller, in,
		func(ctx context.Context, repos TxRepos, txID string, now time.Time) (*dto.ReceiveResult, error) {
			if _, err := requirePart(ctx, repos, in.PartID); err != nil {
				return nil, err
			}
			if err := uc.requireLocation(ctx, in.LocationID); err != nil {
				return nil, err
			}

			receivedAt := now
			if in.ReceivedAt != nil {
				receivedAt = in.ReceivedAt.UTC().Truncate(time.Microsecond)
			}
			unitCost := in.UnitCost.Round(4)
			batch := &entity.InventoryBatch{
				ID:          uuid.New().String(),
				PartID:      in.PartID,
				LocationID:  in.LocationID,
				QtyOnHand:   in.Qty,
				QtyReceived: in.Qty,
				UnitCost:    unitCost,
				ReceivedAt:  receivedAt,
				Position:    toPosition(in.Position),
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := repos.Batches.Create(ctx, batch); err != nil {
				return nil, err
			}
			mov := &entity.PartMovement{
				ID:            uuid.New().String(),
				TransactionID: txID,
				PartID:        in.PartID,
				BatchID:       batch.ID,
				ToLocationID:  in.LocationID,
				Type:          entity.MovementReceive,
				QtyDelta:      in.Qty,
				ReceiptRef:    in.ReceiptRef,
				CreatedBy:     in.ActorID,
				CreatedAt:     now,
			}
			if err := recordMovement(ctx, repos, mov); err != nil {
				return nil, err
			}
			if err := repos.Parts.UpdateLastUnitCost(ctx, in.PartID, unitCost); err != nil {
				return nil, err
			}
			return &dto.ReceiveResult{
				TransactionID: txID,
				BatchID:       batch.ID,
				MovementID:    mov.ID,
				PartID:        in.PartID,
				LocationID:    in.LocationID,
				Qty:           in.Qty,
				UnitCost:      unitCost,
				TotalValue:    batch.TotalValue(),
				ReceivedAt:    receivedAt,
			}, nil
		})
}

// ─── Issue ──────────────────────────────────────────────────────────────────

// Issue consume qty de la ubicación hacia la orden de trabajo, del lote más antiguo al más nuevo.
// Si el disponible no alcanza devuelve *domain.InsufficientStockError y no persiste nada.
func (uc *LedgerUseCase) Issue(ctx context.Context, in dto.IssueInput) (res *dto.IssueResult, err error) {
	ctx, span := uc.startSpan(ctx, entity.OperationIssue, in.PartID, in.Qty)
	defer func() { endSpan(span, err) }()

	if err := validateCaller(in.Caller); err != nil {
		return nil, err
	}
	if in.WorkOrderID == "" || in.PartID == "" || in.LocationID == "" {
		return nil, domain.Invalid("work_order_id, part_id and location_id are required")
	}
	if err := validateQty(in.Qty); err != nil {
		return nil, err
	}

	return execute(ctx, uc, entity.OperationIssue, in.Caller, in,
		func(ctx context.Context, repos TxRepos, txID string, now time.Time) (*dto.IssueResult, error) {
			if err := uc.requireWorkOrder(ctx, in.WorkOrderID); err != nil {
				return nil, err
			}
			if _, err := requirePart(ctx, repos, in.PartID); err != nil {
				return nil, err
			}
			if err := uc.requireLocation(ctx, in.LocationID); err != nil {
				return nil, err
			}

			batches, err := repos.Batches.LockAvailable(ctx, in.PartID, in.LocationID)
			if err != nil {
				return nil, err
			}
			plan, err := inventory.PlanDepletion(batches, in.Qty)
			if err != nil {
				return nil, withShortageScope(err, in.PartID, in.LocationID)
			}
			wop, err := repos.WorkOrderParts.GetOrCreate(ctx, in.WorkOrderID, in.PartID, now)
			if err != nil {
				return nil, err
			}

			res := &dto.IssueResult{
				TransactionID: txID,
				WorkOrderID:   in.WorkOrderID,
				PartID:        in.PartID,
				LocationID:    in.LocationID,
				Allocations:   make([]dto.AllocationDTO, 0, len(plan)),
			}
			for _, a := range plan {
				if err := applyDelta(ctx, repos, a.Batch, -a.Qty, now); err != nil {
					return nil, err
				}
				mov := &entity.PartMovement{
					ID:             uuid.New().String(),
					TransactionID:  txID,
					PartID:         in.PartID,
					BatchID:        a.Batch.ID,
					FromLocationID: in.LocationID,
					Type:           entity.MovementIssue,
					QtyDelta:       -a.Qty,
					WorkOrderID:    in.WorkOrderID,
					CreatedBy:      in.ActorID,
					CreatedAt:      now,
				}
				if err := recordMovement(ctx, repos, mov); err != nil {
					return nil, err
				}
				req := entity.NewWorkOrderPartRequest(wop, a.Batch, mov.ID, a.Qty, in.ActorID, now)
				req.ID = uuid.New().String()
				if err := repos.WorkOrderParts.CreateRequest(ctx, req); err != nil {
					return nil, err
				}
				res.Allocations = append(res.Allocations, dto.AllocationDTO{
					BatchID:      a.Batch.ID,
					MovementID:   mov.ID,
					RequestID:    req.ID,
					QtyAllocated: a.Qty,
					UnitCost:     req.UnitCostSnapshot,
					TotalCost:    req.TotalPartsCost,
					ReceivedAt:   a.Batch.ReceivedAt,
				})
				res.TotalQty += a.Qty
				res.TotalCost = res.TotalCost.Add(req.TotalPartsCost)
			}
			return res, nil
		})
}

// ─── Return ─────────────────────────────────────────────────────────────────

// Return devuelve qty desde la orden de trabajo al lote más antiguo de la ubicación (aunque esté
// agotado). Sin lotes, crea uno con el último costo de la parte. La línea de la orden lleva
// QtyUsed negativo valorizado al costo actual del lote.
func (uc *LedgerUseCase) Return(ctx context.Context, in dto.ReturnInput) (res *dto.ReturnResult, err error) {
	ctx, span := uc.startSpan(ctx, entity.OperationReturn, in.PartID, in.Qty)
	defer func() { endSpan(span, err) }()

	if err := validateCaller(in.Caller); err != nil {
		return nil, err
	}
	if in.WorkOrderID == "" || in.PartID == "" || in.LocationID == "" {
		return nil, domain.Invalid("work_order_id, part_id and location_id are required")
	}
	if err := validateQty(in.Qty); err != nil {
		return nil, err
	}

	return execute(ctx, uc, entity.OperationReturn, in.Caller, in,
		func(ctx context.Context, repos TxRepos, txID string, now time.Time) (*dto.ReturnResult, error) {
			if err := uc.requireWorkOrder(ctx, in.WorkOrderID); err != nil {
				return nil, err
			}
			part, err := requirePart(ctx, repos, in.PartID)
			if err != nil {
				return nil, err
			}
			if err := uc.requireLocation(ctx, in.LocationID); err != nil {
				return nil, err
			}

			batches, err := repos.Batches.LockAll(ctx, in.PartID, in.LocationID)
			if err != nil {
				return nil, err
			}
			batch := inventory.PickReturnBatch(batches)
			if batch == nil {
				batch = &entity.InventoryBatch{
					ID:          uuid.New().String(),
					PartID:      in.PartID,
					LocationID:  in.LocationID,
					QtyOnHand:   in.Qty,
					QtyReceived: in.Qty,
					UnitCost:    part.CostOrZero(),
					ReceivedAt:  now,
					CreatedAt:   now,
					UpdatedAt:   now,
				}
				if err := repos.Batches.Create(ctx, batch); err != nil {
					return nil, err
				}
			} else if err := applyDelta(ctx, repos, batch, in.Qty, now); err != nil {
				return nil, err
			}

			wop, err := repos.WorkOrderParts.GetOrCreate(ctx, in.WorkOrderID, in.PartID, now)
			if err != nil {
				return nil, err
			}
			mov := &entity.PartMovement{
				ID:            uuid.New().String(),
				TransactionID: txID,
				PartID:        in.PartID,
				BatchID:       batch.ID,
				ToLocationID:  in.LocationID,
				Type:          entity.MovementReturn,
				QtyDelta:      in.Qty,
				WorkOrderID:   in.WorkOrderID,
				CreatedBy:     in.ActorID,
				CreatedAt:     now,
			}
			if err := recordMovement(ctx, repos, mov); err != nil {
				return nil, err
			}
			req := entity.NewWorkOrderPartRequest(wop, batch, mov.ID, -in.Qty, in.ActorID, now)
			req.ID = uuid.New().String()
			if err := repos.WorkOrderParts.CreateRequest(ctx, req); err != nil {
				return nil, err
			}

			credit := req.TotalPartsCost.Neg()
			return &dto.ReturnResult{
				TransactionID: txID,
				WorkOrderID:   in.WorkOrderID,
				PartID:        in.PartID,
				LocationID:    in.LocationID,
				Allocations: []dto.AllocationDTO{{
					BatchID:      batch.ID,
					MovementID:   mov.ID,
					RequestID:    req.ID,
					QtyAllocated: in.Qty,
					UnitCost:     req.UnitCostSnapshot,
					TotalCost:    credit,
					ReceivedAt:   batch.ReceivedAt,
				}},
				TotalQty:        in.Qty,
				TotalCreditCost: credit,
			}, nil
		})
}

// ─── Transfer ───────────────────────────────────────────────────────────────

// Transfer mueve qty entre ubicaciones (o a otra posición de la misma ubicación) conservando
// costo unitario y fecha de recepción de cada lote origen. Cada salida tiene su entrada pareada.
func (uc *LedgerUseCase) Transfer(ctx context.Context, in dto.TransferInput) (res *dto.TransferResult, err error) {
	ctx, span := uc.startSpan(ctx, entity.OperationTransfer, in.PartID, in.Qty)
	defer func() { endSpan(span, err) }()

	if err := validateCaller(in.Caller); err != nil {
		return nil, err
	}
	if in.PartID == "" || in.FromLocationID == "" || in.ToLocationID == "" {
		return nil, domain.Invalid("part_id, from_location_id and to_location_id are required")
	}
	if err := validateQty(in.Qty); err != nil {
		return nil, err
	}
	sameLocation := in.FromLocationID == in.ToLocationID
	if sameLocation && in.Position.IsZero() {
		return nil, domain.Invalid("from and to location are the same and no target position was given")
	}

	return execute(ctx, uc, entity.OperationTransfer, in.Caller, in,
		func(ctx context.Context, repos TxRepos, txID string, now time.Time) (*dto.TransferResult, error) {
			if _, err := requirePart(ctx, repos, in.PartID); err != nil {
				return nil, err
			}
			if err := uc.requireLocation(ctx, in.FromLocationID); err != nil {
				return nil, err
			}
			if !sameLocation {
				if err := uc.requireLocation(ctx, in.ToLocationID); err != nil {
					return nil, err
				}
			}

			pos := toPosition(in.Position)
			// Origen y destino en un solo orden global, antes de tocar ningún lote.
			locked, err := repos.Batches.LockLocations(ctx, in.PartID, in.FromLocationID, in.ToLocationID)
			if err != nil {
				return nil, err
			}
			batches := availableAt(locked, in.FromLocationID)
			if sameLocation {
				batches = excludePosition(batches, pos)
			}
			plan, err := inventory.PlanDepletion(batches, in.Qty)
			if err != nil {
				return nil, withShortageScope(err, in.PartID, in.FromLocationID)
			}

			res := &dto.TransferResult{
				TransactionID:  txID,
				PartID:         in.PartID,
				FromLocationID: in.FromLocationID,
				ToLocationID:   in.ToLocationID,
				TransfersOut:   make([]dto.TransferLegDTO, 0, len(plan)),
				TransfersIn:    make([]dto.TransferLegDTO, 0, len(plan)),
			}
			for _, a := range plan {
				src := a.Batch
				if err := applyDelta(ctx, repos, src, -a.Qty, now); err != nil {
					return nil, err
				}
				out := &entity.PartMovement{
					ID:             uuid.New().String(),
					TransactionID:  txID,
					PartID:         in.PartID,
					BatchID:        src.ID,
					FromLocationID: in.FromLocationID,
					ToLocationID:   in.ToLocationID,
					Type:           entity.MovementTransferOut,
					QtyDelta:       -a.Qty,
					CreatedBy:      in.ActorID,
					CreatedAt:      now,
				}
				if err := recordMovement(ctx, repos, out); err != nil {
					return nil, err
				}

				dest, err := receiveTransfer(ctx, repos, src, in.ToLocationID, pos, a.Qty, now)
				if err != nil {
					return nil, err
				}
				inMov := &entity.PartMovement{
					ID:             uuid.New().String(),
					TransactionID:  txID,
					PartID:         in.PartID,
					BatchID:        dest.ID,
					FromLocationID: in.FromLocationID,
					ToLocationID:   in.ToLocationID,
					Type:           entity.MovementTransferIn,
					QtyDelta:       a.Qty,
					CreatedBy:      in.ActorID,
					CreatedAt:      now,
				}
				if err := recordMovement(ctx, repos, inMov); err != nil {
					return nil, err
				}

				res.TransfersOut = append(res.TransfersOut, dto.TransferLegDTO{
					BatchID: src.ID, MovementID: out.ID, LocationID: in.FromLocationID,
					Qty: a.Qty, UnitCost: src.UnitCost, ReceivedAt: src.ReceivedAt,
				})
				res.TransfersIn = append(res.TransfersIn, dto.TransferLegDTO{
					BatchID: dest.ID, MovementID: inMov.ID, LocationID: in.ToLocationID,
					Qty: a.Qty, UnitCost: dest.UnitCost, ReceivedAt: dest.ReceivedAt,
				})
				res.TotalQty += a.Qty
				res.TotalValue = res.TotalValue.Add(src.UnitCost.Mul(decimalFromInt(a.Qty)))
			}
			return res, nil
		})
}

// receiveTransfer suma qty al lote destino equivalente (mismo costo, fecha y posición) o crea uno.
func receiveTransfer(ctx context.Context, repos TxRepos, src *entity.InventoryBatch, toLocationID string, pos entity.Position, qty int, now time.Time) (*entity.InventoryBatch, error) {
	dest, err := repos.Batches.FindTransferTarget(ctx, src.PartID, toLocationID, src.UnitCost, src.ReceivedAt, pos)
	if err != nil {
		return nil, err
	}
	if dest != nil {
		return dest, applyDelta(ctx, repos, dest, qty, now)
	}
	dest = &entity.InventoryBatch{
		ID:          uuid.New().String(),
		PartID:      src.PartID,
		LocationID:  toLocationID,
		QtyOnHand:   qty,
		QtyReceived: qty,
		UnitCost:    src.UnitCost,
		ReceivedAt:  src.ReceivedAt,
		Position:    pos,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := repos.Batches.Create(ctx, dest); err != nil {
		return nil, err
	}
	return dest, nil
}

// ─── Adjust ─────────────────────────────────────────────────────────────────

// Adjust corrige la existencia de un lote tras un conteo físico: registra un movimiento
// adjustment con delta = contado - en mano.
func (uc *LedgerUseCase) Adjust(ctx context.Context, in dto.AdjustInput) (res *dto.AdjustResult, err error) {
	ctx, span := uc.startSpan(ctx, entity.OperationAdjust, "", in.CountedQty)
	defer func() { endSpan(span, err) }()

	if err := validateCaller(in.Caller); err != nil {
		return nil, err
	}
	if in.BatchID == "" {
		return nil, domain.Invalid("batch_id is required")
	}
	if in.CountedQty < 0 {
		return nil, domain.Invalid("counted_qty must not be negative, got %d", in.CountedQty)
	}
	if in.CountedQty > entity.MaxQty {
		return nil, domain.Invalid("counted_qty must not exceed %d, got %d", entity.MaxQty, in.CountedQty)
	}

	return execute(ctx, uc, entity.OperationAdjust, in.Caller, in,
		func(ctx context.Context, repos TxRepos, txID string, now time.Time) (*dto.AdjustResult, error) {
			batch, err := repos.Batches.GetForUpdate(ctx, in.BatchID)
			if err != nil {
				return nil, err
			}
			if batch == nil {
				return nil, domain.NotFound("batch", in.BatchID)
			}
			if in.CountedQty < batch.QtyReserved {
				return nil, domain.Invalid("counted_qty %d is below reserved qty %d", in.CountedQty, batch.QtyReserved)
			}
			previous := batch.QtyOnHand
			delta := in.CountedQty - previous
			if delta == 0 {
				return nil, domain.Invalid("counted_qty equals on-hand qty %d, nothing to adjust", previous)
			}
			if err := applyDelta(ctx, repos, batch, delta, now); err != nil {
				return nil, err
			}
			mov := &entity.PartMovement{
				ID:            uuid.New().String(),
				TransactionID: txID,
				PartID:        batch.PartID,
				BatchID:       batch.ID,
				Type:          entity.MovementAdjustment,
				QtyDelta:      delta,
				Notes:         in.Notes,
				CreatedBy:     in.ActorID,
				CreatedAt:     now,
			}
			if delta > 0 {
				mov.ToLocationID = batch.LocationID
			} else {
				mov.FromLocationID = batch.LocationID
			}
			if err := recordMovement(ctx, repos, mov); err != nil {
				return nil, err
			}
			return &dto.AdjustResult{
				TransactionID: txID,
				BatchID:       batch.ID,
				MovementID:    mov.ID,
				PartID:        batch.PartID,
				LocationID:    batch.LocationID,
				PreviousQty:   previous,
				CountedQty:    in.CountedQty,
				Delta:         delta,
			}, nil
		})
}
