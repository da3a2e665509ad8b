package entity

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// MaxQty tope de cualquier cantidad de lote o movimiento (columnas INTEGER).
const MaxQty = math.MaxInt32

// Position coordenadas dentro de una ubicación (pasillo/fila/estante). Vacío = sin posición.
type Position struct {
	Aisle string
	Row   string
	Bin   string
}

// IsZero indica que no se especificó ninguna coordenada.
func (p Position) IsZero() bool {
	return p.Aisle == "" && p.Row == "" && p.Bin == ""
}

// InventoryBatch es un lote físico de una parte en una ubicación.
// Nunca se elimina: un lote agotado (QtyOnHand = 0) queda como historia.
type InventoryBatch struct {
	ID          string
	Seq         int64 // secuencia de creación, desempate FIFO
	PartID      string
	LocationID  string
	QtyOnHand   int
	QtyReserved int
	QtyReceived int // inmutable una vez creado
	UnitCost    decimal.Decimal
	ReceivedAt  time.Time // clave de orden FIFO
	Position    Position
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// QtyAvailable cantidad disponible (en mano - reservada), nunca negativa.
func (b *InventoryBatch) QtyAvailable() int {
	if avail := b.QtyOnHand - b.QtyReserved; avail > 0 {
		return avail
	}
	return 0
}

// TotalValue valor del lote: en mano × costo unitario.
func (b *InventoryBatch) TotalValue() decimal.Decimal {
	return decimal.NewFromInt(int64(b.QtyOnHand)).Mul(b.UnitCost)
}

// Validate verifica los invariantes de cantidades del lote.
func (b *InventoryBatch) Validate() error {
	if b.QtyOnHand < 0 {
		return fmt.Errorf("batch %s: qty_on_hand %d < 0", b.ID, b.QtyOnHand)
	}
	if b.QtyOnHand > MaxQty {
		return fmt.Errorf("batch %s: qty_on_hand %d > %d", b.ID, b.QtyOnHand, MaxQty)
	}
	if b.QtyReserved < 0 {
		return fmt.Errorf("batch %s: qty_reserved %d < 0", b.ID, b.QtyReserved)
	}
	if b.QtyReserved > b.QtyOnHand {
		return fmt.Errorf("batch %s: qty_reserved %d > qty_on_hand %d", b.ID, b.QtyReserved, b.QtyOnHand)
	}
	return nil
}
