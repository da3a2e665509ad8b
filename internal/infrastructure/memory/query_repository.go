package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/parts-ledger/internal/domain/entity"
	"github.com/jhoicas/parts-ledger/internal/domain/inventory"
	"github.com/jhoicas/parts-ledger/internal/domain/repository"
)

var _ repository.LedgerQueryRepository = (*QueryRepo)(nil)

// QueryRepo consultas sobre la última foto publicada.
type QueryRepo struct {
	store *Store
}

func matchStock(b *entity.InventoryBatch, f repository.StockFilter) bool {
	return (f.PartID == "" || b.PartID == f.PartID) && (f.LocationID == "" || b.LocationID == f.LocationID)
}

// sortedBatches lotes filtrados en orden número de parte, nombre de ubicación, FIFO.
func sortedBatches(st *state, keep func(b *entity.InventoryBatch) bool) []*entity.InventoryBatch {
	var out []*entity.InventoryBatch
	for _, b := range st.batches {
		if keep(&b) {
			out = append(out, &b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := st.parts[out[i].PartID].PartNumber, st.parts[out[j].PartID].PartNumber
		if pi != pj {
			return pi < pj
		}
		li, lj := st.locations[out[i].LocationID].Name, st.locations[out[j].LocationID].Name
		if li != lj {
			return li < lj
		}
		if out[i].LocationID != out[j].LocationID {
			return out[i].LocationID < out[j].LocationID
		}
		return inventory.FIFOLess(out[i], out[j])
	})
	return out
}

// OnHand agrega por (parte, ubicación) omitiendo los grupos sin existencia.
func (r *QueryRepo) OnHand(ctx context.Context, f repository.StockFilter) ([]repository.OnHandResult, error) {
	st := r.store.snapshot()
	batches := sortedBatches(st, func(b *entity.InventoryBatch) bool { return matchStock(b, f) })

	var out []repository.OnHandResult
	var group []*entity.InventoryBatch
	flush := func() {
		if len(group) == 0 {
			return
		}
		v := inventory.Value(group)
		if v.QtyOnHand > 0 {
			first := group[0]
			out = append(out, repository.OnHandResult{
				PartID:       first.PartID,
				PartNumber:   st.parts[first.PartID].PartNumber,
				PartName:     st.parts[first.PartID].Name,
				LocationID:   first.LocationID,
				LocationName: st.locations[first.LocationID].Name,
				QtyOnHand:    v.QtyOnHand,
				QtyReserved:  v.QtyReserved,
				TotalValue:   v.TotalValue,
				AvgUnitCost:  v.RoundedAvg(),
			})
		}
		group = group[:0]
	}
	for _, b := range batches {
		if len(group) > 0 && (group[0].PartID != b.PartID || group[0].LocationID != b.LocationID) {
			flush()
		}
		group = append(group, b)
	}
	flush()
	return out, nil
}

// Batches lotes en orden FIFO dentro de cada (parte, ubicación).
func (r *QueryRepo) Batches(ctx context.Context, f repository.StockFilter) ([]repository.BatchResult, error) {
	st := r.store.snapshot()
	batches := sortedBatches(st, func(b *entity.InventoryBatch) bool { return matchStock(b, f) })
	out := make([]repository.BatchResult, 0, len(batches))
	for _, b := range batches {
		out = append(out, repository.BatchResult{
			Batch:        *b,
			PartNumber:   st.parts[b.PartID].PartNumber,
			LocationName: st.locations[b.LocationID].Name,
		})
	}
	return out, nil
}

// Movements del más reciente al más antiguo; From y To inclusivos.
func (r *QueryRepo) Movements(ctx context.Context, f repository.MovementFilter) ([]*entity.PartMovement, error) {
	st := r.store.snapshot()
	var out []*entity.PartMovement
	for i := len(st.movements) - 1; i >= 0; i-- {
		m := st.movements[i]
		switch {
		case f.PartID != "" && m.PartID != f.PartID:
			continue
		case f.LocationID != "" && m.FromLocationID != f.LocationID && m.ToLocationID != f.LocationID:
			continue
		case f.WorkOrderID != "" && m.WorkOrderID != f.WorkOrderID:
			continue
		case f.From != nil && m.CreatedAt.Before(*f.From):
			continue
		case f.To != nil && m.CreatedAt.After(*f.To):
			continue
		}
		out = append(out, &m)
	}
	// El orden de commit no siempre coincide con CreatedAt (se toma antes del turno de escritura).
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// WorkOrderLines líneas de la orden en orden de creación.
func (r *QueryRepo) WorkOrderLines(ctx context.Context, workOrderID string) ([]repository.WorkOrderLineResult, error) {
	st := r.store.snapshot()
	var out []repository.WorkOrderLineResult
	for _, req := range st.requests {
		if req.WorkOrderID != workOrderID {
			continue
		}
		out = append(out, repository.WorkOrderLineResult{
			Request:    req,
			PartNumber: st.parts[req.PartID].PartNumber,
		})
	}
	return out, nil
}

// PartLocations existencia de la parte por ubicación y posición, sin grupos vacíos.
func (r *QueryRepo) PartLocations(ctx context.Context, partID string) ([]repository.PartLocationResult, error) {
	st := r.store.snapshot()
	type key struct {
		locationID string
		pos        entity.Position
	}
	totals := map[key]int{}
	for _, b := range st.batches {
		if b.PartID == partID {
			totals[key{b.LocationID, b.Position}] += b.QtyOnHand
		}
	}
	out := make([]repository.PartLocationResult, 0, len(totals))
	for k, qty := range totals {
		if qty == 0 {
			continue
		}
		out = append(out, repository.PartLocationResult{
			LocationID:   k.locationID,
			LocationName: st.locations[k.locationID].Name,
			Position:     k.pos,
			QtyOnHand:    qty,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.LocationName != b.LocationName {
			return a.LocationName < b.LocationName
		}
		if a.LocationID != b.LocationID {
			return a.LocationID < b.LocationID
		}
		if a.Position.Aisle != b.Position.Aisle {
			return a.Position.Aisle < b.Position.Aisle
		}
		if a.Position.Row != b.Position.Row {
			return a.Position.Row < b.Position.Row
		}
		return a.Position.Bin < b.Position.Bin
	})
	return out, nil
}

// Reconcile lotes cuya existencia difiere de la suma de sus movimientos.
func (r *QueryRepo) Reconcile(ctx context.Context, partID string) ([]repository.ReconcileResult, error) {
	st := r.store.snapshot()
	sums := map[string]int{}
	for _, m := range st.movements {
		if m.BatchID != "" {
			sums[m.BatchID] += m.QtyDelta
		}
	}
	var out []repository.ReconcileResult
	for _, b := range sortedBatches(st, func(b *entity.InventoryBatch) bool {
		return partID == "" || b.PartID == partID
	}) {
		if sum := sums[b.ID]; sum != b.QtyOnHand {
			out = append(out, repository.ReconcileResult{
				BatchID:   b.ID,
				PartID:    b.PartID,
				QtyOnHand: b.QtyOnHand,
				LedgerSum: sum,
			})
		}
	}
	return out, nil
}
