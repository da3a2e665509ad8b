package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/parts-ledger/internal/application/dto"
	"github.com/jhoicas/parts-ledger/internal/application/inventory"
	"github.com/jhoicas/parts-ledger/internal/domain"
	"github.com/jhoicas/parts-ledger/pkg/logger"
)

// QueryHandler expone las consultas de solo lectura.
type QueryHandler struct {
	uc  *inventory.QueryUseCase
	log *logger.Logger
}

// NewQueryHandler construye el handler.
func NewQueryHandler(uc *inventory.QueryUseCase, log *logger.Logger) *QueryHandler {
	return &QueryHandler{uc: uc, log: log}
}

// OnHand godoc
// @Summary      Existencia por parte y ubicación
// @Tags         inventory
// @Produce      json
// @Param        part_id      query  string  false  "Filtrar por parte"
// @Param        location_id  query  string  false  "Filtrar por ubicación"
// @Success      200  {object}  dto.ListResponse{items=[]dto.OnHandRow}
// @Router       /api/inventory/on-hand [get]
func (h *QueryHandler) OnHand(c *fiber.Ctx) error {
	var q dto.StockQuery
	if err := c.QueryParser(&q); err != nil {
		return invalidBody(c)
	}
	rows, err := h.uc.OnHand(c.UserContext(), q)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.NewList(rows))
}

// Batches godoc
// @Summary      Lotes en orden FIFO
// @Tags         inventory
// @Produce      json
// @Param        part_id      query  string  false  "Filtrar por parte"
// @Param        location_id  query  string  false  "Filtrar por ubicación"
// @Success      200  {object}  dto.ListResponse{items=[]dto.BatchRow}
// @Router       /api/inventory/batches [get]
func (h *QueryHandler) Batches(c *fiber.Ctx) error {
	var q dto.StockQuery
	if err := c.QueryParser(&q); err != nil {
		return invalidBody(c)
	}
	rows, err := h.uc.Batches(c.UserContext(), q)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.NewList(rows))
}

// Movements godoc
// @Summary      Historial de movimientos (más reciente primero)
// @Tags         inventory
// @Produce      json
// @Param        part_id        query  string  false  "Filtrar por parte"
// @Param        location_id    query  string  false  "Origen o destino"
// @Param        work_order_id  query  string  false  "Filtrar por orden de trabajo"
// @Param        from           query  string  false  "RFC3339, inclusivo"
// @Param        to             query  string  false  "RFC3339, inclusivo"
// @Param        limit          query  int     false  "Máximo de filas"
// @Success      200  {object}  dto.ListResponse{items=[]dto.MovementRow}
// @Router       /api/inventory/movements [get]
func (h *QueryHandler) Movements(c *fiber.Ctx) error {
	q, err := parseMovementQuery(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	rows, err := h.uc.Movements(c.UserContext(), q)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.NewList(rows))
}

// WorkOrderCost godoc
// @Summary      Costo de partes de una orden de trabajo
// @Tags         inventory
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.WorkOrderCostReport
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/work-orders/{id}/cost [get]
func (h *QueryHandler) WorkOrderCost(c *fiber.Ctx) error {
	report, err := h.uc.WorkOrderCost(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(report)
}

// PartLocations godoc
// @Summary      Dónde está una parte (ubicación y pasillo/fila/estante)
// @Tags         inventory
// @Produce      json
// @Param        id   path  string  true  "ID de la parte"
// @Success      200  {object}  dto.ListResponse{items=[]dto.PartLocationRow}
// @Router       /api/inventory/parts/{id}/locations [get]
func (h *QueryHandler) PartLocations(c *fiber.Ctx) error {
	rows, err := h.uc.PartLocations(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.NewList(rows))
}

// Reconcile godoc
// @Summary      Lotes cuya existencia no cuadra con el ledger
// @Tags         inventory
// @Produce      json
// @Param        part_id  query  string  false  "Filtrar por parte"
// @Success      200  {object}  dto.ReconcileReport
// @Router       /api/inventory/reconcile [get]
func (h *QueryHandler) Reconcile(c *fiber.Ctx) error {
	rows, err := h.uc.Reconcile(c.UserContext(), c.Query("part_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ReconcileReport{Consistent: len(rows) == 0, Mismatches: rows})
}

func parseMovementQuery(c *fiber.Ctx) (dto.MovementQuery, error) {
	q := dto.MovementQuery{
		PartID:      c.Query("part_id"),
		LocationID:  c.Query("location_id"),
		WorkOrderID: c.Query("work_order_id"),
	}
	var err error
	if q.From, err = parseTimeParam(c, "from"); err != nil {
		return q, err
	}
	if q.To, err = parseTimeParam(c, "to"); err != nil {
		return q, err
	}
	if raw := c.Query("limit"); raw != "" {
		q.Limit, err = strconv.Atoi(raw)
		if err != nil {
			return q, domain.Invalid("limit must be an integer, got %q", raw)
		}
	}
	return q, nil
}

func parseTimeParam(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, domain.Invalid("%s must be RFC3339, got %q", name, raw)
	}
	return &t, nil
}
