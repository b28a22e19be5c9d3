package dispensing

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

// SheetUseCase máquina de estados de hojas de consumo consolidado:
// active → closed | annulled. La hoja activa se edita por reemplazo completo
// de líneas; los totales son derivados y se recalculan en cada edición
// aceptada. Las rebajas de hoja son informativas para el costeo: no se
// verifican contra el almacén de lotes como en las requisiciones.
type SheetUseCase struct {
	txRunner    TxRunner
	variantRepo repository.VariantRepository
	sheetRepo   repository.SheetRepository
}

// NewSheetUseCase construye el caso de uso.
func NewSheetUseCase(
	txRunner TxRunner,
	variantRepo repository.VariantRepository,
	sheetRepo repository.SheetRepository,
) *SheetUseCase {
	return &SheetUseCase{
		txRunner:    txRunner,
		variantRepo: variantRepo,
		sheetRepo:   sheetRepo,
	}
}

// buildLines valida y convierte el set de líneas entrante.
func (uc *SheetUseCase) buildLines(in []dto.SheetLineRequest) ([]entity.SheetLine, error) {
	if len(in) == 0 {
		return nil, domain.ErrInvalidInput
	}
	lines := make([]entity.SheetLine, 0, len(in))
	for _, l := range in {
		if l.VariantID == "" || !l.Quantity.GreaterThan(decimal.Zero) || l.UnitCost.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		variant, err := uc.variantRepo.GetByID(l.VariantID)
		if err != nil {
			return nil, err
		}
		if variant == nil || !variant.Active {
			return nil, domain.ErrInvalidInput
		}
		lines = append(lines, entity.SheetLine{
			ID:           uuid.New().String(),
			Bed:          l.Bed,
			PatientID:    l.PatientID,
			RecordNumber: l.RecordNumber,
			Sex:          l.Sex,
			VariantID:    l.VariantID,
			Quantity:     l.Quantity,
			UnitCost:     l.UnitCost,
		})
	}
	return lines, nil
}

// Create registra una hoja en estado active con sus líneas y totales derivados.
func (uc *SheetUseCase) Create(ctx context.Context, userID string, in dto.CreateSheetRequest) (*entity.ConsolidatedSheet, error) {
	if in.ServiceID == "" {
		return nil, domain.ErrInvalidInput
	}
	lines, err := uc.buildLines(in.Lines)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	date := in.Date
	if date.IsZero() {
		date = now
	}
	sheet := &entity.ConsolidatedSheet{
		ID:           uuid.New().String(),
		ServiceID:    in.ServiceID,
		Shift:        in.Shift,
		Date:         date,
		State:        entity.SheetActive,
		Observations: in.Observations,
		Lines:        lines,
		CreatedBy:    userID,
		CreatedAt:    now,
	}
	sheet.Recompute()

	err = uc.txRunner.Run(ctx, func(
		_ repository.RequisitionRepository,
		sheetRepo repository.SheetRepository,
		_ repository.LotRepository,
		_ repository.Stock24Repository,
		_ repository.BufferMovementRepository,
		_ repository.MovementRepository,
	) error {
		return sheetRepo.Create(sheet)
	})
	if err != nil {
		return nil, err
	}
	return sheet, nil
}

// Update reemplaza el set completo de líneas de una hoja activa (borra todo,
// reinserta) y recalcula los totales. Sobre una hoja no activa falla con
// ErrInvalidState.
func (uc *SheetUseCase) Update(ctx context.Context, sheetID string, in dto.UpdateSheetRequest) (*entity.ConsolidatedSheet, error) {
	if sheetID == "" {
		return nil, domain.ErrInvalidInput
	}
	lines, err := uc.buildLines(in.Lines)
	if err != nil {
		return nil, err
	}

	var result *entity.ConsolidatedSheet
	err = uc.txRunner.Run(ctx, func(
		_ repository.RequisitionRepository,
		sheetRepo repository.SheetRepository,
		_ repository.LotRepository,
		_ repository.Stock24Repository,
		_ repository.BufferMovementRepository,
		_ repository.MovementRepository,
	) error {
		sheet, err := sheetRepo.GetForUpdate(sheetID)
		if err != nil {
			return err
		}
		if sheet == nil {
			return domain.ErrNotFound
		}
		if sheet.State != entity.SheetActive {
			return domain.ErrInvalidState
		}
		if err := sheetRepo.ReplaceLines(sheet.ID, lines); err != nil {
			return err
		}
		sheet.Lines = lines
		sheet.Recompute()
		if err := sheetRepo.UpdateHeader(sheet); err != nil {
			return err
		}
		result = sheet
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Close transiciona active → closed y estampa el cierre. Cerrar una hoja ya
// cerrada (o anulada) falla con ErrInvalidState.
func (uc *SheetUseCase) Close(ctx context.Context, userID, sheetID string) (*entity.ConsolidatedSheet, error) {
	if sheetID == "" {
		return nil, domain.ErrInvalidInput
	}
	var result *entity.ConsolidatedSheet
	err := uc.txRunner.Run(ctx, func(
		_ repository.RequisitionRepository,
		sheetRepo repository.SheetRepository,
		_ repository.LotRepository,
		_ repository.Stock24Repository,
		_ repository.BufferMovementRepository,
		_ repository.MovementRepository,
	) error {
		sheet, err := sheetRepo.GetForUpdate(sheetID)
		if err != nil {
			return err
		}
		if sheet == nil {
			return domain.ErrNotFound
		}
		if sheet.State != entity.SheetActive || !sheet.State.CanTransition(entity.SheetClosed) {
			return domain.ErrInvalidState
		}
		now := time.Now()
		sheet.State = entity.SheetClosed
		sheet.ClosedAt = &now
		if err := sheetRepo.UpdateHeader(sheet); err != nil {
			return err
		}
		result = sheet
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Annul anula la hoja desde cualquier estado no anulado y concatena el motivo.
// No revierte rebajas de inventario ya aplicadas.
func (uc *SheetUseCase) Annul(ctx context.Context, userID, sheetID string, in dto.AnnulSheetRequest) (*entity.ConsolidatedSheet, error) {
	if sheetID == "" {
		return nil, domain.ErrInvalidInput
	}
	var result *entity.ConsolidatedSheet
	err := uc.txRunner.Run(ctx, func(
		_ repository.RequisitionRepository,
		sheetRepo repository.SheetRepository,
		_ repository.LotRepository,
		_ repository.Stock24Repository,
		_ repository.BufferMovementRepository,
		_ repository.MovementRepository,
	) error {
		sheet, err := sheetRepo.GetForUpdate(sheetID)
		if err != nil {
			return err
		}
		if sheet == nil {
			return domain.ErrNotFound
		}
		if !sheet.State.CanTransition(entity.SheetAnnulled) {
			return domain.ErrInvalidState
		}
		sheet.State = entity.SheetAnnulled
		sheet.AppendObservation("Anulada: " + in.Reason)
		if err := sheetRepo.UpdateHeader(sheet); err != nil {
			return err
		}
		result = sheet
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Deliver estampa cantidades entregadas y lote por línea, agrega los
// movimientos de salida informativos para el Kardex y cierra la hoja.
func (uc *SheetUseCase) Deliver(ctx context.Context, userID, sheetID string, in dto.DeliverSheetRequest) (*entity.ConsolidatedSheet, error) {
	if sheetID == "" {
		return nil, domain.ErrInvalidInput
	}
	var result *entity.ConsolidatedSheet
	err := uc.txRunner.Run(ctx, func(
		_ repository.RequisitionRepository,
		sheetRepo repository.SheetRepository,
		_ repository.LotRepository,
		_ repository.Stock24Repository,
		_ repository.BufferMovementRepository,
		movRepo repository.MovementRepository,
	) error {
		sheet, err := sheetRepo.GetForUpdate(sheetID)
		if err != nil {
			return err
		}
		if sheet == nil {
			return domain.ErrNotFound
		}
		if sheet.State != entity.SheetActive {
			return domain.ErrInvalidState
		}

		now := time.Now()
		for i := range sheet.Lines {
			line := &sheet.Lines[i]
			d, ok := in.Lines[line.ID]
			if !ok {
				continue
			}
			if d.Delivered.LessThan(decimal.Zero) {
				return domain.ErrInvalidInput
			}
			line.Delivered = d.Delivered
			if d.LotID != nil {
				line.LotID = d.LotID
			}
			if d.Delivered.GreaterThan(decimal.Zero) {
				mov := &entity.Movement{
					ID:        uuid.New().String(),
					VariantID: line.VariantID,
					Direction: entity.MovementOut,
					Quantity:  d.Delivered,
					UnitCost:  line.UnitCost,
					Source:    entity.MovementSourceSheet,
					SourceID:  sheet.ID,
					Date:      now,
					CreatedAt: now,
					CreatedBy: userID,
				}
				if err := movRepo.Create(mov); err != nil {
					return err
				}
			}
		}
		if err := sheetRepo.ReplaceLines(sheet.ID, sheet.Lines); err != nil {
			return err
		}

		sheet.State = entity.SheetClosed
		sheet.ClosedAt = &now
		if err := sheetRepo.UpdateHeader(sheet); err != nil {
			return err
		}
		result = sheet
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID lectura de una hoja con sus líneas.
func (uc *SheetUseCase) GetByID(ctx context.Context, sheetID string) (*entity.ConsolidatedSheet, error) {
	sheet, err := uc.sheetRepo.GetByID(sheetID)
	if err != nil {
		return nil, err
	}
	if sheet == nil {
		return nil, domain.ErrNotFound
	}
	return sheet, nil
}
