package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/application/dto"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/domain"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/domain/entity"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/domain/repository"
)

// LotStoreUseCase opera el almacén general de lotes: recepciones, rebajas,
// selección FEFO y anulación de recepciones. Toda mutación corre dentro de
// una transacción con bloqueo de fila (SELECT FOR UPDATE).
type LotStoreUseCase struct {
	txRunner    TxRunner
	variantRepo repository.VariantRepository
	lotRepo     repository.LotRepository
}

// NewLotStoreUseCase construye el caso de uso.
func NewLotStoreUseCase(
	txRunner TxRunner,
	variantRepo repository.VariantRepository,
	lotRepo repository.LotRepository,
) *LotStoreUseCase {
	return &LotStoreUseCase{
		txRunner:    txRunner,
		variantRepo: variantRepo,
		lotRepo:     lotRepo,
	}
}

// Receive registra una recepción de mercancía: crea el lote, o si ya existe
// (VariantID, LotNumber) inactivo lo reactiva con los términos nuevos.
// Un lote activo con el mismo número y términos idénticos acumula cantidad;
// con términos distintos falla con ErrDuplicateLot. Agrega el movimiento
// de entrada para el Kardex en la misma transacción.
func (uc *LotStoreUseCase) Receive(ctx context.Context, userID string, in dto.ReceiveLotRequest) (*entity.Lot, error) {
	if in.VariantID == "" || in.LotNumber == "" || in.Expiry.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	if !in.Quantity.GreaterThan(decimal.Zero) || in.UnitCost.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	variant, err := uc.variantRepo.GetByID(in.VariantID)
	if err != nil {
		return nil, err
	}
	if variant == nil || !variant.Active {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	var result *entity.Lot
	err = uc.txRunner.Run(ctx, func(lotRepo repository.LotRepository, movRepo repository.MovementRepository) error {
		existing, err := lotRepo.GetByNumberForUpdate(in.VariantID, in.LotNumber)
		if err != nil {
			return err
		}
		switch {
		case existing == nil:
			lot := &entity.Lot{
				ID:         uuid.New().String(),
				VariantID:  in.VariantID,
				LotNumber:  in.LotNumber,
				Expiry:     in.Expiry,
				UnitCost:   in.UnitCost,
				Quantity:   in.Quantity,
				ProviderID: in.ProviderID,
				Active:     true,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			if err := lotRepo.Create(lot); err != nil {
				return err
			}
			result = lot
		case existing.Active && existing.SameTerms(in.Expiry, in.UnitCost):
			existing.Quantity = existing.Quantity.Add(in.Quantity)
			existing.UpdatedAt = now
			if err := lotRepo.Update(existing); err != nil {
				return err
			}
			result = existing
		case existing.Active:
			return domain.ErrDuplicateLot
		default:
			// Reactivación: la recepción anulada dejó el lote inactivo;
			// la nueva recepción lo repone con sus propios términos.
			existing.Active = true
			existing.Expiry = in.Expiry
			existing.UnitCost = in.UnitCost
			existing.Quantity = in.Quantity
			existing.ProviderID = in.ProviderID
			existing.UpdatedAt = now
			if err := lotRepo.Update(existing); err != nil {
				return err
			}
			result = existing
		}

		mov := &entity.Movement{
			ID:        uuid.New().String(),
			VariantID: in.VariantID,
			Direction: entity.MovementIn,
			Quantity:  in.Quantity,
			UnitCost:  in.UnitCost,
			Source:    entity.MovementSourceReceipt,
			SourceID:  result.ID,
			Date:      now,
			CreatedAt: now,
			CreatedBy: userID,
		}
		return movRepo.Create(mov)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Deduct rebaja cantidad de un lote. Falla con ErrInsufficientStock si la
// cantidad excede el restante; nunca recorta a cero.
func (uc *LotStoreUseCase) Deduct(ctx context.Context, in dto.DeductLotRequest) error {
	if in.LotID == "" || !in.Quantity.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.Run(ctx, func(lotRepo repository.LotRepository, _ repository.MovementRepository) error {
		lot, err := lotRepo.GetByIDForUpdate(in.LotID)
		if err != nil {
			return err
		}
		if lot == nil {
			return domain.ErrNotFound
		}
		if lot.Quantity.LessThan(in.Quantity) {
			return domain.ErrInsufficientStock
		}
		return lotRepo.UpdateQuantity(lot.ID, lot.Quantity.Sub(in.Quantity))
	})
}

// SelectFEFO devuelve el lote activo con stock de vencimiento más próximo
// (empates por orden de inserción). nil sin error cuando no hay lote elegible.
func (uc *LotStoreUseCase) SelectFEFO(ctx context.Context, variantID string) (*entity.Lot, error) {
	if variantID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.lotRepo.SelectFEFO(variantID)
}

// DeactivateByReceiptReversal marca el lote como inactivo al anular su
// recepción. No borra: el rastro de auditoría se conserva.
func (uc *LotStoreUseCase) DeactivateByReceiptReversal(ctx context.Context, in dto.ReverseReceiptRequest) error {
	if in.VariantID == "" || in.LotNumber == "" {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.Run(ctx, func(lotRepo repository.LotRepository, _ repository.MovementRepository) error {
		lot, err := lotRepo.GetByNumberForUpdate(in.VariantID, in.LotNumber)
		if err != nil {
			return err
		}
		if lot == nil {
			return domain.ErrNotFound
		}
		lot.Active = false
		lot.UpdatedAt = time.Now()
		return lotRepo.Update(lot)
	})
}

// ListByVariant lista los lotes de un producto (para consulta y reportes).
func (uc *LotStoreUseCase) ListByVariant(ctx context.Context, variantID string, onlyActive bool) ([]*entity.Lot, error) {
	if variantID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.lotRepo.ListByVariant(variantID, onlyActive)
}
