package inventory

import (
	"slices"
	"sort"

	"github.com/jhoicas/parts-ledger/internal/domain"
	"github.com/jhoicas/parts-ledger/internal/domain/entity"
)

// Allocation cantidad a tomar de un lote concreto.
type Allocation struct {
	Batch *entity.InventoryBatch
	Qty   int
}

// FIFOLess ordena por (ReceivedAt ASC, Seq ASC): el lote más antiguo primero y,
// a igual fecha, el creado primero.
func FIFOLess(a, b *entity.InventoryBatch) bool {
	if !a.ReceivedAt.Equal(b.ReceivedAt) {
		return a.ReceivedAt.Before(b.ReceivedAt)
	}
	return a.Seq < b.Seq
}

// SortFIFO ordena los lotes in-place en orden FIFO.
func SortFIFO(batches []*entity.InventoryBatch) {
	sort.SliceStable(batches, func(i, j int) bool {
		return FIFOLess(batches[i], batches[j])
	})
}

// LockLess orden global de bloqueo: ubicación y luego FIFO. Issue y Return bloquean
// una sola ubicación en FIFO, que es un tramo consistente de este mismo orden.
func LockLess(a, b *entity.InventoryBatch) bool {
	if a.LocationID != b.LocationID {
		return a.LocationID < b.LocationID
	}
	return FIFOLess(a, b)
}

// SortForLock ordena los lotes in-place según LockLess.
func SortForLock(batches []*entity.InventoryBatch) {
	sort.SliceStable(batches, func(i, j int) bool {
		return LockLess(batches[i], batches[j])
	})
}

// LockLocations ubicaciones sin repetir, en el orden en que deben bloquearse.
func LockLocations(locationIDs ...string) []string {
	out := make([]string, 0, len(locationIDs))
	for _, id := range locationIDs {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out
}

// TotalAvailable suma la cantidad disponible de los lotes.
func TotalAvailable(batches []*entity.InventoryBatch) int {
	total := 0
	for _, b := range batches {
		total += b.QtyAvailable()
	}
	return total
}

// PlanDepletion calcula qué lotes cubren qty consumiendo el más antiguo primero.
// No modifica los lotes. Si el total disponible no alcanza devuelve
// *domain.InsufficientStockError y ninguna asignación.
func PlanDepletion(batches []*entity.InventoryBatch, qty int) ([]Allocation, error) {
	if qty <= 0 {
		return nil, domain.Invalid("quantity must be positive, got %d", qty)
	}
	ordered := make([]*entity.InventoryBatch, len(batches))
	copy(ordered, batches)
	SortFIFO(ordered)

	if avail := TotalAvailable(ordered); avail < qty {
		shortage := &domain.InsufficientStockError{Requested: qty, Available: avail}
		if len(ordered) > 0 {
			shortage.PartID = ordered[0].PartID
			shortage.LocationID = ordered[0].LocationID
		}
		return nil, shortage
	}

	remaining := qty
	plan := make([]Allocation, 0, len(ordered))
	for _, b := range ordered {
		if remaining == 0 {
			break
		}
		take := min(remaining, b.QtyAvailable())
		if take == 0 {
			continue
		}
		plan = append(plan, Allocation{Batch: b, Qty: take})
		remaining -= take
	}
	return plan, nil
}

// PickReturnBatch devuelve el lote más antiguo (aunque esté agotado) o nil si no hay ninguno.
// Las devoluciones llenan la capa más antigua primero.
func PickReturnBatch(batches []*entity.InventoryBatch) *entity.InventoryBatch {
	var oldest *entity.InventoryBatch
	for _, b := range batches {
		if oldest == nil || FIFOLess(b, oldest) {
			oldest = b
		}
	}
	return oldest
}

// MatchesTransferTarget indica si b es un destino válido para un traslado desde src:
// misma parte, ubicación destino, mismo costo, misma fecha de recepción y misma posición.
func MatchesTransferTarget(b, src *entity.InventoryBatch, toLocationID string, pos entity.Position) bool {
	return b.PartID == src.PartID &&
		b.LocationID == toLocationID &&
		b.UnitCost.Equal(src.UnitCost) &&
		b.ReceivedAt.Equal(src.ReceivedAt) &&
		b.Position == pos
}
