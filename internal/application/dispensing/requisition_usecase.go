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

// RequisitionUseCase máquina de estados de requisiciones de servicio:
// pending → approved → delivered, con rechazo y cancelación desde pending.
// Cada transición corre en una sola transacción; el guard de estado se evalúa
// sobre la cabecera bloqueada para resolver aprobaciones concurrentes.
type RequisitionUseCase struct {
	txRunner    TxRunner
	variantRepo repository.VariantRepository
	reqRepo     repository.RequisitionRepository
}

// NewRequisitionUseCase construye el caso de uso.
func NewRequisitionUseCase(
	txRunner TxRunner,
	variantRepo repository.VariantRepository,
	reqRepo repository.RequisitionRepository,
) *RequisitionUseCase {
	return &RequisitionUseCase{
		txRunner:    txRunner,
		variantRepo: variantRepo,
		reqRepo:     reqRepo,
	}
}

// Create registra una requisición en estado pending. Exige al menos una línea
// y que cada línea referencie un producto configurado; cabecera y líneas se
// insertan en la misma transacción.
func (uc *RequisitionUseCase) Create(ctx context.Context, userID string, in dto.CreateRequisitionRequest) (*entity.Requisition, error) {
	if in.ServiceID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	origin := in.DispatchOrigin
	if origin == "" {
		origin = entity.DispatchOriginWarehouse
	}
	if origin != entity.DispatchOriginWarehouse && origin != entity.DispatchOriginStock24 {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	req := &entity.Requisition{
		ID:             uuid.New().String(),
		ServiceID:      in.ServiceID,
		DispatchOrigin: origin,
		State:          entity.RequisitionPending,
		Observations:   in.Observations,
		CreatedBy:      userID,
		CreatedAt:      now,
		Lines:          make([]entity.RequisitionLine, 0, len(in.Lines)),
	}
	for _, l := range in.Lines {
		if l.VariantID == "" || !l.Requested.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		variant, err := uc.variantRepo.GetByID(l.VariantID)
		if err != nil {
			return nil, err
		}
		if variant == nil || !variant.Active {
			return nil, domain.ErrInvalidInput
		}
		req.Lines = append(req.Lines, entity.RequisitionLine{
			ID:         uuid.New().String(),
			VariantID:  l.VariantID,
			Requested:  l.Requested,
			Authorized: l.Requested, // punto de partida; la aprobación puede ajustarla
			LotID:      l.LotID,
			PatientID:  l.PatientID,
			Bed:        l.Bed,
		})
	}

	err := uc.txRunner.Run(ctx, func(
		reqRepo repository.RequisitionRepository,
		_ repository.SheetRepository,
		_ repository.LotRepository,
		_ repository.Stock24Repository,
		_ repository.BufferMovementRepository,
		_ repository.MovementRepository,
	) error {
		return reqRepo.Create(req)
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// Approve transiciona pending → approved: estampa aprobador, aplica overrides
// de cantidad autorizada y asigna lote FEFO a las líneas de clasificación
// prescription sin lote. Un FEFO sin lote elegible deja la línea sin asignar;
// la aprobación no falla por eso.
func (uc *RequisitionUseCase) Approve(ctx context.Context, userID, reqID string, in dto.ApproveRequisitionRequest) (*entity.Requisition, error) {
	if reqID == "" {
		return nil, domain.ErrInvalidInput
	}
	for _, qty := range in.AuthorizedOverrides {
		if qty.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}

	var result *entity.Requisition
	err := uc.txRunner.Run(ctx, func(
		reqRepo repository.RequisitionRepository,
		_ repository.SheetRepository,
		lotRepo repository.LotRepository,
		_ repository.Stock24Repository,
		_ repository.BufferMovementRepository,
		_ repository.MovementRepository,
	) error {
		req, err := reqRepo.GetForUpdate(reqID)
		if err != nil {
			return err
		}
		if req == nil {
			return domain.ErrNotFound
		}
		if !req.State.CanTransition(entity.RequisitionApproved) {
			return domain.ErrInvalidState
		}

		now := time.Now()
		req.State = entity.RequisitionApproved
		req.ApprovedBy = userID
		req.ApprovedAt = &now

		for i := range req.Lines {
			line := &req.Lines[i]
			if qty, ok := in.AuthorizedOverrides[line.ID]; ok {
				line.Authorized = qty
			}
			if line.LotID == nil {
				variant, err := uc.variantRepo.GetByID(line.VariantID)
				if err != nil {
					return err
				}
				if variant != nil && variant.Classification == entity.ClassificationPrescription {
					lot, err := lotRepo.SelectFEFO(line.VariantID)
					if err != nil {
						return err
					}
					if lot != nil {
						line.LotID = &lot.ID
					}
					// Sin lote con stock: la línea queda sin asignar.
				}
			}
			if err := reqRepo.UpdateLine(line); err != nil {
				return err
			}
		}
		if err := reqRepo.UpdateHeader(req); err != nil {
			return err
		}
		result = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Deliver transiciona approved → delivered. Por cada línea entregada estampa
// la cantidad y el costo unitario leído del lote al momento de la entrega
// (pisa cualquier precio anterior). Origen almacén: rebaja el lote asignado y
// agrega el movimiento de salida para el Kardex. Origen stock 24h: rebaja el
// buffer del servicio y registra el movimiento de consumo, sin tocar lotes.
func (uc *RequisitionUseCase) Deliver(ctx context.Context, userID, reqID string, in dto.DeliverRequisitionRequest) (*entity.Requisition, error) {
	if reqID == "" {
		return nil, domain.ErrInvalidInput
	}
	for _, qty := range in.DeliveredQuantities {
		if qty.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}

	var result *entity.Requisition
	err := uc.txRunner.Run(ctx, func(
		reqRepo repository.RequisitionRepository,
		_ repository.SheetRepository,
		lotRepo repository.LotRepository,
		bufferRepo repository.Stock24Repository,
		bufMovRepo repository.BufferMovementRepository,
		movRepo repository.MovementRepository,
	) error {
		req, err := reqRepo.GetForUpdate(reqID)
		if err != nil {
			return err
		}
		if req == nil {
			return domain.ErrNotFound
		}
		if !req.State.CanTransition(entity.RequisitionDelivered) {
			return domain.ErrInvalidState
		}

		now := time.Now()
		for i := range req.Lines {
			line := &req.Lines[i]
			delivered, ok := in.DeliveredQuantities[line.ID]
			if !ok {
				delivered = line.Authorized
			}
			if !delivered.GreaterThan(decimal.Zero) {
				continue
			}
			line.Delivered = delivered

			if req.DispatchOrigin == entity.DispatchOriginStock24 {
				if err := uc.deliverFromBuffer(bufferRepo, bufMovRepo, req, line, delivered, userID, now); err != nil {
					return err
				}
			} else {
				if err := uc.deliverFromWarehouse(lotRepo, movRepo, req, line, delivered, userID, now); err != nil {
					return err
				}
			}
			if err := reqRepo.UpdateLine(line); err != nil {
				return err
			}
		}

		req.State = entity.RequisitionDelivered
		req.DeliveredBy = userID
		req.DeliveredAt = &now
		if err := reqRepo.UpdateHeader(req); err != nil {
			return err
		}
		result = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// deliverFromWarehouse rebaja el lote asignado y estampa su costo unitario
// como costo final de la línea.
func (uc *RequisitionUseCase) deliverFromWarehouse(
	lotRepo repository.LotRepository,
	movRepo repository.MovementRepository,
	req *entity.Requisition,
	line *entity.RequisitionLine,
	delivered decimal.Decimal,
	userID string,
	now time.Time,
) error {
	if line.LotID == nil {
		return domain.ErrInvalidInput
	}
	lot, err := lotRepo.GetByIDForUpdate(*line.LotID)
	if err != nil {
		return err
	}
	if lot == nil {
		return domain.ErrNotFound
	}
	if lot.Quantity.LessThan(delivered) {
		return domain.ErrInsufficientStock
	}
	if err := lotRepo.UpdateQuantity(lot.ID, lot.Quantity.Sub(delivered)); err != nil {
		return err
	}
	line.UnitCost = lot.UnitCost

	mov := &entity.Movement{
		ID:        uuid.New().String(),
		VariantID: line.VariantID,
		Direction: entity.MovementOut,
		Quantity:  delivered,
		UnitCost:  lot.UnitCost,
		Source:    entity.MovementSourceRequisition,
		SourceID:  req.ID,
		Date:      now,
		CreatedAt: now,
		CreatedBy: userID,
	}
	return movRepo.Create(mov)
}

// deliverFromBuffer rebaja el stock 24h del servicio y deja rastro en el
// historial del buffer. No toca el almacén de lotes.
func (uc *RequisitionUseCase) deliverFromBuffer(
	bufferRepo repository.Stock24Repository,
	bufMovRepo repository.BufferMovementRepository,
	req *entity.Requisition,
	line *entity.RequisitionLine,
	delivered decimal.Decimal,
	userID string,
	now time.Time,
) error {
	entry, err := bufferRepo.GetByVariantForUpdate(line.VariantID)
	if err != nil {
		return err
	}
	if entry == nil {
		return domain.ErrNotFound
	}
	if entry.CurrentQuantity.LessThan(delivered) {
		return domain.ErrInsufficientStock
	}
	entry.CurrentQuantity = entry.CurrentQuantity.Sub(delivered)
	entry.UpdatedAt = now
	if err := bufferRepo.Update(entry); err != nil {
		return err
	}
	return bufMovRepo.Create(&entity.BufferMovement{
		ID:        uuid.New().String(),
		VariantID: line.VariantID,
		Type:      entity.BufferMovementConsumption,
		Quantity:  delivered.Neg(),
		Reference: req.ID,
		CreatedAt: now,
		CreatedBy: userID,
	})
}

// Reject transiciona pending → rejected y concatena el motivo a las
// observaciones (campo libre, no estructurado).
func (uc *RequisitionUseCase) Reject(ctx context.Context, userID, reqID string, in dto.RejectRequisitionRequest) (*entity.Requisition, error) {
	if reqID == "" {
		return nil, domain.ErrInvalidInput
	}
	var result *entity.Requisition
	err := uc.txRunner.Run(ctx, func(
		reqRepo repository.RequisitionRepository,
		_ repository.SheetRepository,
		_ repository.LotRepository,
		_ repository.Stock24Repository,
		_ repository.BufferMovementRepository,
		_ repository.MovementRepository,
	) error {
		req, err := reqRepo.GetForUpdate(reqID)
		if err != nil {
			return err
		}
		if req == nil {
			return domain.ErrNotFound
		}
		if !req.State.CanTransition(entity.RequisitionRejected) {
			return domain.ErrInvalidState
		}
		now := time.Now()
		req.State = entity.RequisitionRejected
		req.RejectedBy = userID
		req.RejectedAt = &now
		req.AppendObservation("Rechazada: " + in.Reason)
		if err := reqRepo.UpdateHeader(req); err != nil {
			return err
		}
		result = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Cancel transiciona pending → cancelled. La cancelación desde approved no
// está habilitada en la tabla de transiciones.
func (uc *RequisitionUseCase) Cancel(ctx context.Context, userID, reqID string) (*entity.Requisition, error) {
	if reqID == "" {
		return nil, domain.ErrInvalidInput
	}
	var result *entity.Requisition
	err := uc.txRunner.Run(ctx, func(
		reqRepo repository.RequisitionRepository,
		_ repository.SheetRepository,
		_ repository.LotRepository,
		_ repository.Stock24Repository,
		_ repository.BufferMovementRepository,
		_ repository.MovementRepository,
	) error {
		req, err := reqRepo.GetForUpdate(reqID)
		if err != nil {
			return err
		}
		if req == nil {
			return domain.ErrNotFound
		}
		if !req.State.CanTransition(entity.RequisitionCancelled) {
			return domain.ErrInvalidState
		}
		req.State = entity.RequisitionCancelled
		req.AppendObservation("Cancelada por " + userID)
		if err := reqRepo.UpdateHeader(req); err != nil {
			return err
		}
		result = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID lectura de una requisición con sus líneas.
func (uc *RequisitionUseCase) GetByID(ctx context.Context, reqID string) (*entity.Requisition, error) {
	req, err := uc.reqRepo.GetByID(reqID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	return req, nil
}
