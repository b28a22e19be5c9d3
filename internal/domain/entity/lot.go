package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lot representa un lote de un ProductVariant: cantidad restante, vencimiento y
// costo unitario propios. Unicidad: (VariantID, LotNumber).
// Cantidad restante nunca negativa; se desactiva al anular la recepción, nunca se borra.
type Lot struct {
	ID         string
	VariantID  string
	LotNumber  string
	Expiry     time.Time
	UnitCost   decimal.Decimal
	Quantity   decimal.Decimal // restante, >= 0
	ProviderID string
	Active     bool
	Sequence   int64 // orden de inserción, desempate FEFO
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// HasStock indica si el lote tiene cantidad disponible.
func (l *Lot) HasStock() bool {
	return l.Active && l.Quantity.GreaterThan(decimal.Zero)
}

// SameTerms compara los términos comerciales del lote con una nueva recepción.
// Mismo vencimiento y mismo costo unitario = misma recepción acumulable.
func (l *Lot) SameTerms(expiry time.Time, unitCost decimal.Decimal) bool {
	return l.Expiry.Equal(expiry) && l.UnitCost.Equal(unitCost)
}
