package entity

import "time"

// Operaciones que aceptan clave de idempotencia.
const (
	OperationReceive  = "receive"
	OperationIssue    = "issue"
	OperationReturn   = "return"
	OperationTransfer = "transfer"
	OperationAdjust   = "adjust"
)

// IdempotencyRecord guarda la respuesta de una operación exitosa bajo la clave del llamador.
// Se crea una vez, en la misma transacción que la mutación, y luego es de solo lectura.
type IdempotencyRecord struct {
	Key         string
	Operation   string
	ActorID     string
	RequestHash string // sha256 del request, solo auditoría
	Response    []byte // JSON de la respuesta original
	CreatedAt   time.Time
}

// Matches indica si la clave se reutiliza para la misma operación y el mismo actor.
func (r *IdempotencyRecord) Matches(operation, actorID string) bool {
	return r.Operation == operation && r.ActorID == actorID
}
