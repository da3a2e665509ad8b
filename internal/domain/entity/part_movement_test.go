package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/parts-ledger/internal/domain/entity"
)

func TestPartMovement_Validate_ReglaDeSigno(t *testing.T) {
	cases := []struct {
		typ   entity.MovementType
		delta int
		ok    bool
	}{
		{entity.MovementReceive, 5, true},
		{entity.MovementReceive, -5, false},
		{entity.MovementReturn, 1, true},
		{entity.MovementTransferIn, -1, false},
		{entity.MovementIssue, -3, true},
		{entity.MovementIssue, 3, false},
		{entity.MovementTransferOut, -2, true},
		{entity.MovementAdjustment, -7, true},
		{entity.MovementAdjustment, 7, true},
		{entity.MovementAdjustment, 0, false},
		{entity.MovementType("rtv"), -1, false},
	}
	for _, tc := range cases {
		m := &entity.PartMovement{Type: tc.typ, QtyDelta: tc.delta}
		if tc.ok {
			assert.NoError(t, m.Validate(), "%s %d", tc.typ, tc.delta)
		} else {
			assert.Error(t, m.Validate(), "%s %d", tc.typ, tc.delta)
		}
	}
}

func TestInventoryBatch_Validate(t *testing.T) {
	assert.NoError(t, (&entity.InventoryBatch{QtyOnHand: 5, QtyReserved: 5}).Validate())
	assert.Error(t, (&entity.InventoryBatch{QtyOnHand: -1}).Validate())
	assert.Error(t, (&entity.InventoryBatch{QtyOnHand: 2, QtyReserved: 3}).Validate())
	assert.Equal(t, 0, (&entity.InventoryBatch{QtyOnHand: 2, QtyReserved: 3}).QtyAvailable())
}
