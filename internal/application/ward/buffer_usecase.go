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
	"github.com/tu-usuario/farmacia-hospitalaria/internal/domain/stock24"
)

// BufferUseCase administra el stock 24h de sala: inscripción de productos,
// ajuste de par, reposición desde el almacén y listado con nivel de alerta.
type BufferUseCase struct {
	txRunner    TxRunner
	variantRepo repository.VariantRepository
	bufferRepo  repository.Stock24Repository
	lotRepo     repository.LotRepository
	thresholds  stock24.Thresholds
}

// NewBufferUseCase construye el caso de uso. thresholds son los umbrales de
// alerta compartidos (configuración).
func NewBufferUseCase(
	txRunner TxRunner,
	variantRepo repository.VariantRepository,
	bufferRepo repository.Stock24Repository,
	lotRepo repository.LotRepository,
	thresholds stock24.Thresholds,
) *BufferUseCase {
	return &BufferUseCase{
		txRunner:    txRunner,
		variantRepo: variantRepo,
		bufferRepo:  bufferRepo,
		lotRepo:     lotRepo,
		thresholds:  thresholds,
	}
}

// Enroll inscribe un producto en el stock 24h con su cantidad par.
// Falla con ErrDuplicateEnrollment si el producto ya está inscrito.
func (uc *BufferUseCase) Enroll(ctx context.Context, in dto.EnrollStock24Request) (*entity.Stock24Entry, error) {
	if in.VariantID == "" || in.ParQuantity.LessThan(decimal.Zero) || in.InitialQuantity.LessThan(decimal.Zero) {
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
	entry := &entity.Stock24Entry{
		ID:              uuid.New().String(),
		VariantID:       in.VariantID,
		ParQuantity:     in.ParQuantity,
		CurrentQuantity: in.InitialQuantity,
		Active:          true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	err = uc.txRunner.Run(ctx, func(
		bufferRepo repository.Stock24Repository,
		_ repository.BufferMovementRepository,
		_ repository.ReplenishmentRepository,
		_ repository.CuadreRepository,
	) error {
		existing, err := bufferRepo.GetByVariant(in.VariantID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicateEnrollment
		}
		return bufferRepo.Create(entry)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// ConfigurePar actualiza el objetivo par de un producto inscrito.
// No altera la cantidad actual.
func (uc *BufferUseCase) ConfigurePar(ctx context.Context, in dto.ConfigureParRequest) (*entity.Stock24Entry, error) {
	if in.VariantID == "" || in.ParQuantity.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	var result *entity.Stock24Entry
	err := uc.txRunner.Run(ctx, func(
		bufferRepo repository.Stock24Repository,
		_ repository.BufferMovementRepository,
		_ repository.ReplenishmentRepository,
		_ repository.CuadreRepository,
	) error {
		entry, err := bufferRepo.GetByVariantForUpdate(in.VariantID)
		if err != nil {
			return err
		}
		if entry == nil {
			return domain.ErrNotFound
		}
		entry.ParQuantity = in.ParQuantity
		entry.UpdatedAt = time.Now()
		if err := bufferRepo.Update(entry); err != nil {
			return err
		}
		result = entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Replenish aplica una reposición en bloque: por cada línea incrementa la
// cantidad del buffer, registra el detalle atado a su lote de origen y
// actualiza el sello de última reposición. El lote de origen NO se rebaja
// aquí: su depleción la registra la capa de movimientos de mercancía
// (asimetría heredada, documentada).
func (uc *BufferUseCase) Replenish(ctx context.Context, userID string, in dto.ReplenishRequest) (*entity.Replenishment, error) {
	if len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	rep := &entity.Replenishment{
		ID:        uuid.New().String(),
		CreatedBy: userID,
		CreatedAt: now,
		Lines:     make([]entity.ReplenishmentLine, 0, len(in.Lines)),
	}
	for _, l := range in.Lines {
		if l.VariantID == "" || l.LotID == "" || !l.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		lot, err := uc.lotRepo.GetByID(l.LotID)
		if err != nil {
			return nil, err
		}
		if lot == nil || lot.VariantID != l.VariantID {
			return nil, domain.ErrNotFound
		}
		rep.Lines = append(rep.Lines, entity.ReplenishmentLine{
			ID:        uuid.New().String(),
			VariantID: l.VariantID,
			LotID:     l.LotID,
			Quantity:  l.Quantity,
		})
	}

	err := uc.txRunner.Run(ctx, func(
		bufferRepo repository.Stock24Repository,
		bufMovRepo repository.BufferMovementRepository,
		replRepo repository.ReplenishmentRepository,
		_ repository.CuadreRepository,
	) error {
		if err := replRepo.Create(rep); err != nil {
			return err
		}
		for _, line := range rep.Lines {
			entry, err := bufferRepo.GetByVariantForUpdate(line.VariantID)
			if err != nil {
				return err
			}
			if entry == nil {
				return domain.ErrNotFound
			}
			entry.CurrentQuantity = entry.CurrentQuantity.Add(line.Quantity)
			entry.LastReplenishedAt = &now
			entry.UpdatedAt = now
			if err := bufferRepo.Update(entry); err != nil {
				return err
			}
			if err := bufMovRepo.Create(&entity.BufferMovement{
				ID:        uuid.New().String(),
				VariantID: line.VariantID,
				Type:      entity.BufferMovementReplenishment,
				Quantity:  line.Quantity,
				Reference: rep.ID,
				CreatedAt: now,
				CreatedBy: userID,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rep, nil
}

// List devuelve las filas activas del stock 24h con su nivel de alerta,
// derivado al leer (nunca almacenado).
func (uc *BufferUseCase) List(ctx context.Context) ([]dto.Stock24EntryResponse, error) {
	entries, err := uc.bufferRepo.ListActive()
	if err != nil {
		return nil, err
	}
	out := make([]dto.Stock24EntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.Stock24EntryResponse{
			VariantID:         e.VariantID,
			ParQuantity:       e.ParQuantity,
			CurrentQuantity:   e.CurrentQuantity,
			AlertLevel:        stock24.AlertLevel(e.CurrentQuantity, e.ParQuantity, uc.thresholds),
			LastReplenishedAt: e.LastReplenishedAt,
		})
	}
	return out, nil
}

// Alerts devuelve solo las filas en nivel crítico o bajo.
func (uc *BufferUseCase) Alerts(ctx context.Context) ([]dto.Stock24EntryResponse, error) {
	all, err := uc.List(ctx)
	if err != nil {
		return nil, err
	}
	alerts := make([]dto.Stock24EntryResponse, 0)
	for _, e := range all {
		if e.AlertLevel != stock24.AlertNormal {
			alerts = append(alerts, e)
		}
	}
	return alerts, nil
}
