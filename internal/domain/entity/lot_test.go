package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/tu-usuario/farmacia-hospitalaria/internal/domain/entity"
)

func TestLot_SameTerms(t *testing.T) {
	expiry := time.Date(2027, 6, 30, 0, 0, 0, 0, time.UTC)
	lot := &entity.Lot{
		Expiry:   expiry,
		UnitCost: decimal.NewFromFloat(3.50),
	}

	assert.True(t, lot.SameTerms(expiry, decimal.NewFromFloat(3.50)))
	// Mismo costo con distinta escala decimal sigue siendo el mismo término.
	assert.True(t, lot.SameTerms(expiry, decimal.NewFromFloat(3.5)))

	assert.False(t, lot.SameTerms(expiry.AddDate(0, 1, 0), decimal.NewFromFloat(3.50)),
		"vencimiento distinto")
	assert.False(t, lot.SameTerms(expiry, decimal.NewFromFloat(3.51)),
		"costo distinto")
}

func TestLot_HasStock(t *testing.T) {
	lot := &entity.Lot{Active: true, Quantity: decimal.NewFromInt(5)}
	assert.True(t, lot.HasStock())

	lot.Quantity = decimal.Zero
	assert.False(t, lot.HasStock(), "sin cantidad no hay stock")

	lot.Quantity = decimal.NewFromInt(5)
	lot.Active = false
	assert.False(t, lot.HasStock(), "un lote inactivo no cuenta")
}

func TestConsolidatedSheet_Recompute(t *testing.T) {
	sheet := &entity.ConsolidatedSheet{
		Lines: []entity.SheetLine{
			{Quantity: decimal.NewFromInt(2), UnitCost: decimal.NewFromFloat(1.50)},
			{Quantity: decimal.NewFromInt(3), UnitCost: decimal.NewFromFloat(4.00)},
		},
	}
	sheet.Recompute()

	assert.Equal(t, 2, sheet.TotalItems)
	assert.True(t, decimal.NewFromFloat(15).Equal(sheet.TotalCost),
		"2*1.50 + 3*4.00 = 15, obtenido %s", sheet.TotalCost)

	// Recompute es idempotente y refleja el set vigente de líneas.
	sheet.Lines = sheet.Lines[:1]
	sheet.Recompute()
	assert.Equal(t, 1, sheet.TotalItems)
	assert.True(t, decimal.NewFromFloat(3).Equal(sheet.TotalCost))
}

func TestCuadre_PendingCount(t *testing.T) {
	counted := decimal.NewFromInt(4)
	cuadre := &entity.Cuadre{
		Lines: []entity.CuadreLine{
			{Theoretical: decimal.NewFromInt(5)},
			{Theoretical: decimal.NewFromInt(3), Physical: &counted},
			{Theoretical: decimal.NewFromInt(1)},
		},
	}

	assert.Equal(t, 2, cuadre.PendingCount())
	assert.False(t, cuadre.Lines[0].Counted())
	assert.True(t, cuadre.Lines[1].Counted())
}
