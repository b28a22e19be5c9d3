package ward

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

// CuadreUseCase ciclo de conciliación del stock 24h contra conteo físico:
// start congela las cantidades teóricas, recordCount captura los conteos,
// finalize sobrescribe el buffer con el conteo físico (la realidad manda
// sobre lo teórico) cuando todas las líneas están contadas.
type CuadreUseCase struct {
	txRunner   TxRunner
	cuadreRepo repository.CuadreRepository
}

// NewCuadreUseCase construye el caso de uso.
func NewCuadreUseCase(txRunner TxRunner, cuadreRepo repository.CuadreRepository) *CuadreUseCase {
	return &CuadreUseCase{txRunner: txRunner, cuadreRepo: cuadreRepo}
}

// Start abre un cuadre: una línea pendiente de conteo por cada fila activa
// del stock 24h, con la cantidad actual congelada como teórica.
func (uc *CuadreUseCase) Start(ctx context.Context, userID string) (*entity.Cuadre, error) {
	now := time.Now()
	cuadre := &entity.Cuadre{
		ID:        uuid.New().String(),
		State:     entity.CuadreInProgress,
		StartedBy: userID,
		StartedAt: now,
	}
	err := uc.txRunner.Run(ctx, func(
		bufferRepo repository.Stock24Repository,
		_ repository.BufferMovementRepository,
		_ repository.ReplenishmentRepository,
		cuadreRepo repository.CuadreRepository,
	) error {
		entries, err := bufferRepo.ListActive()
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return domain.ErrInvalidInput
		}
		cuadre.Lines = make([]entity.CuadreLine, 0, len(entries))
		for _, e := range entries {
			cuadre.Lines = append(cuadre.Lines, entity.CuadreLine{
				ID:          uuid.New().String(),
				CuadreID:    cuadre.ID,
				VariantID:   e.VariantID,
				Theoretical: e.CurrentQuantity,
			})
		}
		return cuadreRepo.Create(cuadre)
	})
	if err != nil {
		return nil, err
	}
	return cuadre, nil
}

// RecordCount captura el conteo físico de una línea y calcula la diferencia
// (físico - teórico). Solo mientras el cuadre está en progreso.
func (uc *CuadreUseCase) RecordCount(ctx context.Context, cuadreID, lineID string, in dto.RecordCountRequest) (*entity.Cuadre, error) {
	if cuadreID == "" || lineID == "" || in.Physical.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	var result *entity.Cuadre
	err := uc.txRunner.Run(ctx, func(
		_ repository.Stock24Repository,
		_ repository.BufferMovementRepository,
		_ repository.ReplenishmentRepository,
		cuadreRepo repository.CuadreRepository,
	) error {
		cuadre, err := cuadreRepo.GetForUpdate(cuadreID)
		if err != nil {
			return err
		}
		if cuadre == nil {
			return domain.ErrNotFound
		}
		if cuadre.State != entity.CuadreInProgress {
			return domain.ErrInvalidState
		}
		var line *entity.CuadreLine
		for i := range cuadre.Lines {
			if cuadre.Lines[i].ID == lineID {
				line = &cuadre.Lines[i]
				break
			}
		}
		if line == nil {
			return domain.ErrNotFound
		}
		physical := in.Physical
		line.Physical = &physical
		line.Difference = physical.Sub(line.Theoretical)
		if err := cuadreRepo.UpdateLine(line); err != nil {
			return err
		}
		result = cuadre
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Finalize cierra el cuadre. Falla con ErrIncompleteCount mientras quede
// alguna línea sin conteo. Por cada línea con diferencia distinta de cero
// sobrescribe la cantidad del buffer con el conteo físico y deja rastro en
// el historial del stock 24h.
func (uc *CuadreUseCase) Finalize(ctx context.Context, userID, cuadreID string) (*entity.Cuadre, error) {
	if cuadreID == "" {
		return nil, domain.ErrInvalidInput
	}
	var result *entity.Cuadre
	err := uc.txRunner.Run(ctx, func(
		bufferRepo repository.Stock24Repository,
		bufMovRepo repository.BufferMovementRepository,
		_ repository.ReplenishmentRepository,
		cuadreRepo repository.CuadreRepository,
	) error {
		cuadre, err := cuadreRepo.GetForUpdate(cuadreID)
		if err != nil {
			return err
		}
		if cuadre == nil {
			return domain.ErrNotFound
		}
		if cuadre.State != entity.CuadreInProgress {
			return domain.ErrInvalidState
		}
		if cuadre.PendingCount() > 0 {
			return domain.ErrIncompleteCount
		}

		now := time.Now()
		for i := range cuadre.Lines {
			line := &cuadre.Lines[i]
			if line.Difference.IsZero() {
				continue
			}
			entry, err := bufferRepo.GetByVariantForUpdate(line.VariantID)
			if err != nil {
				return err
			}
			if entry == nil {
				return domain.ErrNotFound
			}
			entry.CurrentQuantity = *line.Physical
			entry.UpdatedAt = now
			if err := bufferRepo.Update(entry); err != nil {
				return err
			}
			if err := bufMovRepo.Create(&entity.BufferMovement{
				ID:        uuid.New().String(),
				VariantID: line.VariantID,
				Type:      entity.BufferMovementCuadre,
				Quantity:  line.Difference,
				Reference: cuadre.ID,
				CreatedAt: now,
				CreatedBy: userID,
			}); err != nil {
				return err
			}
		}

		cuadre.State = entity.CuadreCompleted
		cuadre.FinalizedAt = &now
		if err := cuadreRepo.UpdateHeader(cuadre); err != nil {
			return err
		}
		result = cuadre
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID lectura de un cuadre con sus líneas.
func (uc *CuadreUseCase) GetByID(ctx context.Context, cuadreID string) (*entity.Cuadre, error) {
	cuadre, err := uc.cuadreRepo.GetByID(cuadreID)
	if err != nil {
		return nil, err
	}
	if cuadre == nil {
		return nil, domain.ErrNotFound
	}
	return cuadre, nil
}
