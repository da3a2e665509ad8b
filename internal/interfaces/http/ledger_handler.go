package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/parts-ledger/internal/application/dto"
	"github.com/jhoicas/parts-ledger/internal/application/inventory"
	"github.com/jhoicas/parts-ledger/pkg/logger"
)

// LedgerHandler expone las mutaciones del ledger. Requiere ActorMiddleware.
type LedgerHandler struct {
	uc  *inventory.LedgerUseCase
	v   *bodyValidator
	log *logger.Logger
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(uc *inventory.LedgerUseCase, log *logger.Logger) *LedgerHandler {
	return &LedgerHandler{uc: uc, v: newBodyValidator(), log: log}
}

// Receive godoc
// @Summary      Recibir partes (crea un lote)
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        X-Actor-ID       header  string  true   "Actor"
// @Param        Idempotency-Key  header  string  false  "Clave de idempotencia"
// @Param        body  body  dto.ReceiveInput  true  "part_id, location_id, qty, unit_cost"
// @Success      201   {object}  dto.ReceiveResult
// @Failure      400   {object}  dto.ValidationErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/receive [post]
func (h *LedgerHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveInput
	if ok, err := h.v.parseBody(c, &in); !ok {
		return err
	}
	in.Caller = callerFrom(c)
	out, err := h.uc.Receive(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Issue godoc
// @Summary      Entregar partes a una orden de trabajo (FIFO)
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.IssueInput  true  "work_order_id, part_id, location_id, qty"
// @Success      201   {object}  dto.IssueResult
// @Failure      409   {object}  dto.InsufficientStockResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/inventory/issue [post]
func (h *LedgerHandler) Issue(c *fiber.Ctx) error {
	var in dto.IssueInput
	if ok, err := h.v.parseBody(c, &in); !ok {
		return err
	}
	in.Caller = callerFrom(c)
	out, err := h.uc.Issue(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Return godoc
// @Summary      Devolver partes de una orden de trabajo
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReturnInput  true  "work_order_id, part_id, location_id, qty"
// @Success      201   {object}  dto.ReturnResult
// @Router       /api/inventory/return [post]
func (h *LedgerHandler) Return(c *fiber.Ctx) error {
	var in dto.ReturnInput
	if ok, err := h.v.parseBody(c, &in); !ok {
		return err
	}
	in.Caller = callerFrom(c)
	out, err := h.uc.Return(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Transfer godoc
// @Summary      Transferir partes entre ubicaciones conservando costo y antigüedad
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferInput  true  "part_id, from_location_id, to_location_id, qty"
// @Success      201   {object}  dto.TransferResult
// @Router       /api/inventory/transfer [post]
func (h *LedgerHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferInput
	if ok, err := h.v.parseBody(c, &in); !ok {
		return err
	}
	in.Caller = callerFrom(c)
	out, err := h.uc.Transfer(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Adjust godoc
// @Summary      Ajuste por conteo cíclico de un lote
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustInput  true  "batch_id, counted_qty"
// @Success      201   {object}  dto.AdjustResult
// @Router       /api/inventory/adjust [post]
func (h *LedgerHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustInput
	if ok, err := h.v.parseBody(c, &in); !ok {
		return err
	}
	in.Caller = callerFrom(c)
	out, err := h.uc.Adjust(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
