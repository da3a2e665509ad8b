package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/parts-ledger/internal/application/dto"
	"github.com/jhoicas/parts-ledger/internal/domain"
	"github.com/jhoicas/parts-ledger/pkg/logger"
)

// retryAfterSeconds valor de Retry-After para respuestas BUSY.
const retryAfterSeconds = "1"

// writeError traduce la taxonomía del dominio a status y cuerpo HTTP.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	switch domain.Kind(err) {
	case domain.KindInvalidInput:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case domain.KindNotFound:
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case domain.KindInsufficientStock:
		body := dto.InsufficientStockResponse{
			ErrorResponse: dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"},
		}
		var short *domain.InsufficientStockError
		if errors.As(err, &short) {
			body.PartID = short.PartID
			body.LocationID = short.LocationID
			body.Requested = short.Requested
			body.Available = short.Available
		}
		return c.Status(fiber.StatusConflict).JSON(body)
	case domain.KindIdempotencyConflict:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "IDEMPOTENCY_CONFLICT", Message: err.Error()})
	case domain.KindBusy:
		c.Set(fiber.HeaderRetryAfter, retryAfterSeconds)
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "BUSY", Message: "inventario ocupado, reintente"})
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
