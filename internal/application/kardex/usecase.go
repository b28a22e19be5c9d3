package kardex

import (
	"context"
	"time"

	"github.com/tu-usuario/farmacia-hospitalaria/internal/application/dto"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/domain"
	domkardex "github.com/tu-usuario/farmacia-hospitalaria/internal/domain/kardex"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/domain/repository"
)

// QueryUseCase reconstruye el Kardex de un producto para un rango de fechas.
// Es de solo lectura y sin estado entre invocaciones: consume la foto de
// movimientos ya confirmados al momento de la consulta.
type QueryUseCase struct {
	variantRepo repository.VariantRepository
	movRepo     repository.MovementRepository
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(variantRepo repository.VariantRepository, movRepo repository.MovementRepository) *QueryUseCase {
	return &QueryUseCase{variantRepo: variantRepo, movRepo: movRepo}
}

// Query trae los movimientos del producto en el rango y ejecuta la
// reconstrucción pura del libro.
func (uc *QueryUseCase) Query(ctx context.Context, in dto.KardexRequest) (*dto.KardexResponse, error) {
	if in.VariantID == "" || in.From.IsZero() || in.To.IsZero() || in.To.Before(in.From) {
		return nil, domain.ErrInvalidInput
	}
	variant, err := uc.variantRepo.GetByID(in.VariantID)
	if err != nil {
		return nil, err
	}
	if variant == nil {
		return nil, domain.ErrNotFound
	}

	movements, err := uc.movRepo.ListByVariant(in.VariantID, in.From, in.To)
	if err != nil {
		return nil, err
	}

	input := make([]domkardex.Movement, 0, len(movements))
	for _, m := range movements {
		input = append(input, domkardex.Movement{
			Reference: m.Reference,
			Date:      m.Date,
			Direction: m.Direction,
			Quantity:  m.Quantity,
			UnitCost:  m.UnitCost,
			Source:    m.Source,
			SourceID:  m.SourceID,
		})
	}
	result := domkardex.Reconstruct(input)

	return toResponse(in.VariantID, in.From, in.To, result), nil
}

func toResponse(variantID string, from, to time.Time, r domkardex.Result) *dto.KardexResponse {
	rows := make([]dto.KardexRowResponse, 0, len(r.Rows))
	for _, row := range r.Rows {
		rows = append(rows, dto.KardexRowResponse{
			Reference:    row.Reference,
			Date:         row.Date,
			Source:       row.Source,
			SourceID:     row.SourceID,
			InQty:        row.InQty,
			InUnitCost:   row.InUnitCost,
			InValue:      row.InValue,
			OutQty:       row.OutQty,
			OutUnitCost:  row.OutUnitCost,
			OutValue:     row.OutValue,
			BalanceQty:   row.BalanceQty,
			AverageCost:  row.AverageCost,
			BalanceValue: row.BalanceValue,
		})
	}
	return &dto.KardexResponse{
		VariantID:    variantID,
		From:         from,
		To:           to,
		Rows:         rows,
		TotalIn:      r.TotalIn,
		TotalOut:     r.TotalOut,
		FinalQty:     r.FinalQty,
		FinalValue:   r.FinalValue,
		FinalAverage: r.FinalAverage,
	}
}
