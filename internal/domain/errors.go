package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrIdempotencyConflict = errors.New("clave de idempotencia usada por otra operación")
	ErrBusy                = errors.New("recurso ocupado, reintente")
	ErrInternal            = errors.New("error interno")

	// ErrDuplicate lo devuelven los repositorios ante una violación de unicidad.
	ErrDuplicate = errors.New("recurso duplicado")
)

// InsufficientStockError detalla el faltante de una asignación FIFO.
// errors.Is(err, ErrInsufficientStock) es verdadero para este tipo.
type InsufficientStockError struct {
	PartID     string
	LocationID string
	Requested  int
	Available  int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: parte %s en ubicación %s, solicitado %d, disponible %d",
		ErrInsufficientStock.Error(), e.PartID, e.LocationID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// Invalid envuelve ErrInvalidInput con la restricción violada.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// NotFound envuelve ErrNotFound indicando el recurso.
func NotFound(resource, id string) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, resource, id)
}

// ErrorKind clasifica un error para el llamador (taxonomía del ledger).
type ErrorKind string

const (
	KindInvalidInput        ErrorKind = "invalid_input"
	KindNotFound            ErrorKind = "not_found"
	KindInsufficientStock   ErrorKind = "insufficient_stock"
	KindIdempotencyConflict ErrorKind = "idempotency_conflict"
	KindBusy                ErrorKind = "busy"
	KindInternal            ErrorKind = "internal"
)

// Kind devuelve la categoría de err. Todo lo no reconocido es Internal.
func Kind(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrInsufficientStock):
		return KindInsufficientStock
	case errors.Is(err, ErrIdempotencyConflict):
		return KindIdempotencyConflict
	case errors.Is(err, ErrBusy):
		return KindBusy
	default:
		return KindInternal
	}
}

// IsRetryable indica si el llamador puede reintentar con la misma clave de idempotencia.
func IsRetryable(err error) bool {
	return Kind(err) == KindBusy
}
