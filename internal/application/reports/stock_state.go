package reports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/application/dto"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/domain/repository"
)

// StockStateUseCase proyección de solo lectura: estado del stock por producto
// con desglose por lote, total valorizado y bandera de reorden.
type StockStateUseCase struct {
	reportRepo repository.ReportRepository
}

// NewStockStateUseCase construye el caso de uso.
func NewStockStateUseCase(reportRepo repository.ReportRepository) *StockStateUseCase {
	return &StockStateUseCase{reportRepo: reportRepo}
}

// StockState arma el reporte. variantID vacío = todos los productos con stock.
func (uc *StockStateUseCase) StockState(ctx context.Context, variantID string) ([]dto.StockStateVariantResponse, error) {
	rows, err := uc.reportRepo.StockState(ctx, variantID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var out []dto.StockStateVariantResponse
	index := make(map[string]int)

	for _, r := range rows {
		i, ok := index[r.VariantID]
		if !ok {
			out = append(out, dto.StockStateVariantResponse{
				VariantID:      r.VariantID,
				MedicationName: r.MedicationName,
				Classification: r.Classification,
				ReorderPoint:   r.ReorderPoint,
				TotalQuantity:  decimal.Zero,
				TotalValue:     decimal.Zero,
			})
			i = len(out) - 1
			index[r.VariantID] = i
		}
		v := &out[i]
		v.TotalQuantity = v.TotalQuantity.Add(r.Quantity)
		v.TotalValue = v.TotalValue.Add(r.Quantity.Mul(r.UnitCost))
		v.Lots = append(v.Lots, dto.StockStateLotResponse{
			LotID:     r.LotID,
			LotNumber: r.LotNumber,
			Expiry:    r.Expiry,
			Expired:   r.Expiry.Before(now),
			UnitCost:  r.UnitCost,
			Quantity:  r.Quantity,
		})
	}
	for i := range out {
		out[i].BelowReorder = out[i].TotalQuantity.LessThan(out[i].ReorderPoint)
	}
	return out, nil
}
