package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/application/dispensing"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/application/dto"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/domain"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/domain/entity"
)

// RequisitionHandler maneja el ciclo de vida de requisiciones (protegido).
type RequisitionHandler struct {
	uc *dispensing.RequisitionUseCase
}

// NewRequisitionHandler construye el handler.
func NewRequisitionHandler(uc *dispensing.RequisitionUseCase) *RequisitionHandler {
	return &RequisitionHandler{uc: uc}
}

func requisitionToResponse(req *entity.Requisition) dto.RequisitionResponse {
	out := dto.RequisitionResponse{
		ID:             req.ID,
		ServiceID:      req.ServiceID,
		DispatchOrigin: req.DispatchOrigin,
		State:          string(req.State),
		Observations:   req.Observations,
		CreatedBy:      req.CreatedBy,
		CreatedAt:      req.CreatedAt,
		ApprovedBy:     req.ApprovedBy,
		ApprovedAt:     req.ApprovedAt,
		DeliveredBy:    req.DeliveredBy,
		DeliveredAt:    req.DeliveredAt,
	}
	for _, l := range req.Lines {
		out.Lines = append(out.Lines, dto.RequisitionLineResponse{
			ID:         l.ID,
			VariantID:  l.VariantID,
			Requested:  l.Requested,
			Authorized: l.Authorized,
			Delivered:  l.Delivered,
			UnitCost:   l.UnitCost,
			LotID:      l.LotID,
			PatientID:  l.PatientID,
			Bed:        l.Bed,
		})
	}
	return out
}

// mapRequisitionError traduce errores de dominio a respuestas HTTP. El flujo
// comparte el mismo mapeo en todas las transiciones.
func mapRequisitionError(c *fiber.Ctx, err error) error {
	if err == domain.ErrInvalidInput {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	}
	if err == domain.ErrNotFound {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "requisición o recurso no encontrado"})
	}
	if err == domain.ErrInvalidState {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_STATE", Message: "la requisición no admite esta transición"})
	}
	if err == domain.ErrInsufficientStock {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente para la entrega"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

// Create godoc
// @Summary      Crear requisición
// @Tags         requisitions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRequisitionRequest  true  "service_id, dispatch_origin, lines"
// @Success      201   {object}  dto.RequisitionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/requisitions [post]
func (h *RequisitionHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	var in dto.CreateRequisitionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	req, err := h.uc.Create(c.Context(), userID, in)
	if err != nil {
		return mapRequisitionError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(requisitionToResponse(req))
}

// Approve godoc
// @Summary      Aprobar requisición
// @Description  Pasa a approved, aplica overrides de cantidad autorizada y asigna
//
//	lote FEFO a las líneas de prescripción sin lote.
//
// @Tags         requisitions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la requisición"
// @Param        body  body  dto.ApproveRequisitionRequest  false  "authorized_overrides"
// @Success      200   {object}  dto.RequisitionResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/requisitions/{id}/approve [post]
func (h *RequisitionHandler) Approve(c *fiber.Ctx) error {
	userID := GetUserID(c)
	var in dto.ApproveRequisitionRequest
	if err := c.BodyParser(&in); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	req, err := h.uc.Approve(c.Context(), userID, c.Params("id"), in)
	if err != nil {
		return mapRequisitionError(c, err)
	}
	return c.JSON(requisitionToResponse(req))
}

// Deliver godoc
// @Summary      Entregar requisición
// @Description  Pasa a delivered. Origen warehouse rebaja lotes y emite movimientos
//
//	de salida; origen stock24 descuenta el stock 24h del servicio.
//
// @Tags         requisitions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la requisición"
// @Param        body  body  dto.DeliverRequisitionRequest  false  "delivered_quantities"
// @Success      200   {object}  dto.RequisitionResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/requisitions/{id}/deliver [post]
func (h *RequisitionHandler) Deliver(c *fiber.Ctx) error {
	userID := GetUserID(c)
	var in dto.DeliverRequisitionRequest
	if err := c.BodyParser(&in); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	req, err := h.uc.Deliver(c.Context(), userID, c.Params("id"), in)
	if err != nil {
		return mapRequisitionError(c, err)
	}
	return c.JSON(requisitionToResponse(req))
}

// Reject godoc
// @Summary      Rechazar requisición
// @Tags         requisitions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la requisición"
// @Param        body  body  dto.RejectRequisitionRequest  true  "reason"
// @Success      200   {object}  dto.RequisitionResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/requisitions/{id}/reject [post]
func (h *RequisitionHandler) Reject(c *fiber.Ctx) error {
	userID := GetUserID(c)
	var in dto.RejectRequisitionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	req, err := h.uc.Reject(c.Context(), userID, c.Params("id"), in)
	if err != nil {
		return mapRequisitionError(c, err)
	}
	return c.JSON(requisitionToResponse(req))
}

// Cancel godoc
// @Summary      Cancelar requisición
// @Description  Solo desde pending. Nada de inventario se revierte.
// @Tags         requisitions
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la requisición"
// @Success      200  {object}  dto.RequisitionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/requisitions/{id}/cancel [post]
func (h *RequisitionHandler) Cancel(c *fiber.Ctx) error {
	userID := GetUserID(c)
	req, err := h.uc.Cancel(c.Context(), userID, c.Params("id"))
	if err != nil {
		return mapRequisitionError(c, err)
	}
	return c.JSON(requisitionToResponse(req))
}

// GetByID godoc
// @Summary      Consultar requisición
// @Tags         requisitions
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la requisición"
// @Success      200  {object}  dto.RequisitionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/requisitions/{id} [get]
func (h *RequisitionHandler) GetByID(c *fiber.Ctx) error {
	req, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return mapRequisitionError(c, err)
	}
	return c.JSON(requisitionToResponse(req))
}
