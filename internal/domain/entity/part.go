package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Part representa una entrada del catálogo de repuestos.
// La identidad es inmutable; LastUnitCost se actualiza en cada recepción.
type Part struct {
	ID           string
	PartNumber   string // único
	Name         string
	Description  string
	Category     string
	Make         string // fabricante o marca
	Component    string
	LastUnitCost decimal.NullDecimal // inválido si nunca se ha recibido
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CostOrZero devuelve el último costo conocido o cero.
func (p *Part) CostOrZero() decimal.Decimal {
	if p.LastUnitCost.Valid {
		return p.LastUnitCost.Decimal
	}
	return decimal.Zero
}
