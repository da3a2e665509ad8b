package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/parts-ledger/internal/application/dto"
)

// Cabeceras que el host (autenticación externa) propaga al ledger.
const (
	HeaderActorID        = "X-Actor-ID"
	HeaderIdempotencyKey = "Idempotency-Key"
)

// Locals keys para actor e idempotencia en Fiber.
const (
	LocalActorID        = "actor_id"
	LocalIdempotencyKey = "idempotency_key"
)

// maxIdempotencyKeyLen longitud máxima aceptada para Idempotency-Key.
const maxIdempotencyKeyLen = 255

// ActorMiddleware exige X-Actor-ID y carga actor y clave de idempotencia en c.Locals.
func ActorMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actorID := strings.TrimSpace(c.Get(HeaderActorID))
		if actorID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: HeaderActorID + " header requerido"})
		}
		key := strings.TrimSpace(c.Get(HeaderIdempotencyKey))
		if len(key) > maxIdempotencyKeyLen {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: HeaderIdempotencyKey + " demasiado largo"})
		}
		c.Locals(LocalActorID, actorID)
		c.Locals(LocalIdempotencyKey, key)
		return c.Next()
	}
}

// GetActorID devuelve el actor del contexto (después de ActorMiddleware).
func GetActorID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalActorID).(string)
	return s
}

// GetIdempotencyKey devuelve la clave de idempotencia del contexto, vacía si no se envió.
func GetIdempotencyKey(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalIdempotencyKey).(string)
	return s
}

func callerFrom(c *fiber.Ctx) dto.Caller {
	return dto.Caller{ActorID: GetActorID(c), IdempotencyKey: GetIdempotencyKey(c)}
}
