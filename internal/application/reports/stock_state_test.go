package reports_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/farmacia-hospitalaria/internal/application/reports"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/domain/repository"
)

type fakeReportRepo struct {
	rows       []repository.StockStateRow
	gotVariant string
}

func (f *fakeReportRepo) StockState(ctx context.Context, variantID string) ([]repository.StockStateRow, error) {
	f.gotVariant = variantID
	return f.rows, nil
}

func row(variantID, name, lotID string, reorder, qty, cost float64, expiry time.Time) repository.StockStateRow {
	return repository.StockStateRow{
		VariantID:      variantID,
		MedicationName: name,
		ReorderPoint:   decimal.NewFromFloat(reorder),
		LotID:          lotID,
		LotNumber:      "LN-" + lotID,
		Expiry:         expiry,
		UnitCost:       decimal.NewFromFloat(cost),
		Quantity:       decimal.NewFromFloat(qty),
	}
}

func TestStockState_AgrupaPorProductoYValoriza(t *testing.T) {
	future := time.Now().AddDate(1, 0, 0)
	repo := &fakeReportRepo{rows: []repository.StockStateRow{
		row("var-a", "Amoxicilina 500mg", "lot-1", 50, 30, 2, future),
		row("var-a", "Amoxicilina 500mg", "lot-2", 50, 10, 3, future),
		row("var-b", "Dipirona 1g", "lot-3", 5, 40, 1.50, future),
	}}
	uc := reports.NewStockStateUseCase(repo)

	out, err := uc.StockState(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, out, 2)

	a := out[0]
	assert.Equal(t, "var-a", a.VariantID)
	require.Len(t, a.Lots, 2)
	assert.True(t, decimal.NewFromInt(40).Equal(a.TotalQuantity), "30 + 10")
	assert.True(t, decimal.NewFromInt(90).Equal(a.TotalValue), "30*2 + 10*3")
	assert.True(t, a.BelowReorder, "40 < punto de reorden 50")

	b := out[1]
	assert.False(t, b.BelowReorder, "40 >= punto de reorden 5")
	assert.True(t, decimal.NewFromInt(60).Equal(b.TotalValue))
}

func TestStockState_MarcaLotesVencidos(t *testing.T) {
	repo := &fakeReportRepo{rows: []repository.StockStateRow{
		row("var-a", "Amoxicilina 500mg", "lot-1", 0, 10, 2, time.Now().AddDate(0, 0, -1)),
		row("var-a", "Amoxicilina 500mg", "lot-2", 0, 10, 2, time.Now().AddDate(0, 0, 30)),
	}}
	uc := reports.NewStockStateUseCase(repo)

	out, err := uc.StockState(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Len(t, out[0].Lots, 2)
	assert.True(t, out[0].Lots[0].Expired)
	assert.False(t, out[0].Lots[1].Expired)
}

func TestStockState_FiltroPorProductoSePropaga(t *testing.T) {
	repo := &fakeReportRepo{}
	uc := reports.NewStockStateUseCase(repo)

	out, err := uc.StockState(context.Background(), "var-a")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, "var-a", repo.gotVariant)
}
