package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/parts-ledger/internal/domain/entity"
)

// AvgCostScale decimales del costo promedio informado.
const AvgCostScale = 4

// WeightedCost combina dos capas de costo en su promedio ponderado:
// (qtyA × costA + qtyB × costB) / (qtyA + qtyB). Sin existencia devuelve cero.
func WeightedCost(qtyA int, costA decimal.Decimal, qtyB int, costB decimal.Decimal) decimal.Decimal {
	total := qtyA + qtyB
	if total <= 0 {
		return decimal.Zero
	}
	num := costA.Mul(decimal.NewFromInt(int64(qtyA))).Add(costB.Mul(decimal.NewFromInt(int64(qtyB))))
	return num.Div(decimal.NewFromInt(int64(total)))
}

// Valuation resume un conjunto de lotes de una misma (parte, ubicación).
// AvgUnitCost es informativo; las salidas siempre consumen al costo de su lote.
type Valuation struct {
	QtyOnHand   int
	QtyReserved int
	TotalValue  decimal.Decimal
	AvgUnitCost decimal.Decimal
}

// Add incorpora un lote; los agotados no mueven el promedio.
func (v *Valuation) Add(b *entity.InventoryBatch) {
	if b.QtyOnHand > 0 {
		v.AvgUnitCost = WeightedCost(v.QtyOnHand, v.AvgUnitCost, b.QtyOnHand, b.UnitCost)
	}
	v.QtyOnHand += b.QtyOnHand
	v.QtyReserved += b.QtyReserved
	v.TotalValue = v.TotalValue.Add(b.TotalValue())
}

// QtyAvailable en mano menos reservado.
func (v Valuation) QtyAvailable() int {
	return v.QtyOnHand - v.QtyReserved
}

// RoundedAvg costo promedio a AvgCostScale decimales.
func (v Valuation) RoundedAvg() decimal.Decimal {
	return v.AvgUnitCost.Round(AvgCostScale)
}

// Value valora los lotes dados.
func Value(batches []*entity.InventoryBatch) Valuation {
	var v Valuation
	for _, b := range batches {
		v.Add(b)
	}
	return v
}

// FromTotals reconstruye la valoración de un agregado ya sumado (por ejemplo en SQL).
func FromTotals(qtyOnHand, qtyReserved int, totalValue decimal.Decimal) Valuation {
	v := Valuation{QtyOnHand: qtyOnHand, QtyReserved: qtyReserved, TotalValue: totalValue}
	if qtyOnHand > 0 {
		v.AvgUnitCost = totalValue.Div(decimal.NewFromInt(int64(qtyOnHand)))
	}
	return v
}
