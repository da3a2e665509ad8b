package domain_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/parts-ledger/internal/domain"
)

func TestKind(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want domain.ErrorKind
	}{
		{"invalid", domain.Invalid("qty must be positive"), domain.KindInvalidInput},
		{"not found", domain.NotFound("part", "p-1"), domain.KindNotFound},
		{"shortage", fmt.Errorf("issue: %w", &domain.InsufficientStockError{Requested: 5, Available: 2}), domain.KindInsufficientStock},
		{"conflict", domain.ErrIdempotencyConflict, domain.KindIdempotencyConflict},
		{"busy", fmt.Errorf("lock batches: %w", domain.ErrBusy), domain.KindBusy},
		{"desconocido", context.Canceled, domain.KindInternal},
		{"nil", nil, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, domain.Kind(tc.err))
		})
	}
}

func TestIsRetryable_SoloBusy(t *testing.T) {
	assert.True(t, domain.IsRetryable(domain.ErrBusy))
	assert.False(t, domain.IsRetryable(domain.ErrInsufficientStock))
	assert.False(t, domain.IsRetryable(errors.New("boom")))
}

func TestInsufficientStockError_Mensaje(t *testing.T) {
	err := &domain.InsufficientStockError{PartID: "p-1", LocationID: "l-1", Requested: 15, Available: 5}
	assert.Contains(t, err.Error(), "solicitado 15")
	assert.Contains(t, err.Error(), "disponible 5")
}
