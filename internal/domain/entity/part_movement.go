package entity

import (
	"fmt"
	"time"
)

// MovementType tipo de movimiento del ledger.
type MovementType string

// Tipos de movimiento de partes.
const (
	MovementReceive     MovementType = "receive"
	MovementIssue       MovementType = "issue"
	MovementReturn      MovementType = "return"
	MovementTransferOut MovementType = "transfer_out"
	MovementTransferIn  MovementType = "transfer_in"
	MovementAdjustment  MovementType = "adjustment"
)

// PartMovement fila inmutable del ledger: un cambio físico de cantidad.
// Los campos opcionales usan "" como ausencia (NULL en base de datos).
type PartMovement struct {
	ID             string
	TransactionID  string // agrupa las filas de una misma operación
	PartID         string
	BatchID        string
	FromLocationID string
	ToLocationID   string
	Type           MovementType
	QtyDelta       int // con signo, nunca cero
	WorkOrderID    string
	ReceiptRef     string
	Notes          string
	CreatedBy      string
	CreatedAt      time.Time
}

// Validate verifica la regla de signo por tipo de movimiento.
func (m *PartMovement) Validate() error {
	if m.QtyDelta == 0 {
		return fmt.Errorf("movement %s: qty_delta must not be zero", m.Type)
	}
	switch m.Type {
	case MovementReceive, MovementReturn, MovementTransferIn:
		if m.QtyDelta < 0 {
			return fmt.Errorf("movement %s: qty_delta must be positive, got %d", m.Type, m.QtyDelta)
		}
	case MovementIssue, MovementTransferOut:
		if m.QtyDelta > 0 {
			return fmt.Errorf("movement %s: qty_delta must be negative, got %d", m.Type, m.QtyDelta)
		}
	case MovementAdjustment:
	default:
		return fmt.Errorf("unknown movement type %q", m.Type)
	}
	return nil
}
