package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/parts-ledger/internal/domain/entity"
	"github.com/jhoicas/parts-ledger/internal/domain/inventory"
)

func TestWeightedCost_PromedioPonderado(t *testing.T) {
	// (10 × 10 + 30 × 14) / 40 = 13
	got := inventory.WeightedCost(10, decimal.NewFromInt(10), 30, decimal.NewFromInt(14))
	assert.True(t, got.Equal(decimal.NewFromInt(13)), "got %s", got)

	assert.True(t, inventory.WeightedCost(0, decimal.Zero, 0, decimal.NewFromInt(5)).IsZero())
}

func TestValue_SumaCapasFIFO(t *testing.T) {
	v := inventory.Value([]*entity.InventoryBatch{
		batch("b-1", 1, 10, "10", 3),
		batch("b-2", 2, 30, "14", 2),
		batch("b-3", 3, 0, "99", 1),
	})
	assert.Equal(t, 40, v.QtyOnHand)
	assert.Equal(t, 40, v.QtyAvailable())
	assert.True(t, v.TotalValue.Equal(decimal.NewFromInt(520)), "got %s", v.TotalValue)
	assert.True(t, v.AvgUnitCost.Equal(decimal.NewFromInt(13)), "got %s", v.AvgUnitCost)
}

// ──────────────────────────────────────────────────────────────────────────────
// Agregados SQL: mismo promedio que la valoración por lotes
// ──────────────────────────────────────────────────────────────────────────────

func TestFromTotals_CoincideConValue(t *testing.T) {
	batches := []*entity.InventoryBatch{
		batch("b-1", 1, 3, "10.5", 0),
		batch("b-2", 2, 4, "12.25", 0),
	}
	porLotes := inventory.Value(batches)
	agregado := inventory.FromTotals(porLotes.QtyOnHand, porLotes.QtyReserved, porLotes.TotalValue)

	// (3 × 10.5 + 4 × 12.25) / 7 = 11.5
	assert.True(t, agregado.RoundedAvg().Equal(decimal.RequireFromString("11.5")), "got %s", agregado.RoundedAvg())
	assert.True(t, porLotes.RoundedAvg().Equal(agregado.RoundedAvg()))
}

func TestFromTotals_SinExistencia(t *testing.T) {
	v := inventory.FromTotals(0, 0, decimal.Zero)
	assert.True(t, v.AvgUnitCost.IsZero())
	assert.Equal(t, 0, v.QtyAvailable())
}
