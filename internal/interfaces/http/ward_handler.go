package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/application/dto"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/application/ward"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/domain"
)

// WardHandler maneja el stock 24h del servicio: inscripción, par, reposición
// y niveles de alerta (protegido).
type WardHandler struct {
	uc *ward.BufferUseCase
}

// NewWardHandler construye el handler.
func NewWardHandler(uc *ward.BufferUseCase) *WardHandler {
	return &WardHandler{uc: uc}
}

// Enroll godoc
// @Summary      Inscribir producto en el stock 24h
// @Tags         stock24
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.EnrollStock24Request  true  "variant_id, par_quantity, initial_quantity"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock24/enroll [post]
func (h *WardHandler) Enroll(c *fiber.Ctx) error {
	var in dto.EnrollStock24Request
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	entry, err := h.uc.Enroll(c.Context(), in)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
		}
		if err == domain.ErrDuplicateEnrollment {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_ENROLLED", Message: "el producto ya está inscrito en el stock 24h"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": entry.ID, "message": "producto inscrito"})
}

// ConfigurePar godoc
// @Summary      Configurar cantidad par
// @Description  Ajusta el objetivo fijo de reposición. No altera la cantidad actual.
// @Tags         stock24
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ConfigureParRequest  true  "variant_id, par_quantity"
// @Success      200   {object}  map[string]string
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock24/par [put]
func (h *WardHandler) ConfigurePar(c *fiber.Ctx) error {
	var in dto.ConfigureParRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	_, err := h.uc.ConfigurePar(c.Context(), in)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no inscrito en el stock 24h"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"message": "cantidad par actualizada"})
}

// Replenish godoc
// @Summary      Reponer stock 24h desde el almacén
// @Tags         stock24
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReplenishRequest  true  "lines (variant_id, lot_id, quantity)"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock24/replenish [post]
func (h *WardHandler) Replenish(c *fiber.Ctx) error {
	userID := GetUserID(c)
	var in dto.ReplenishRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	rep, err := h.uc.Replenish(c.Context(), userID, in)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "lote o producto no encontrado, o producto no inscrito"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": rep.ID, "message": "reposición registrada"})
}

// List godoc
// @Summary      Listar stock 24h
// @Description  Cada fila incluye su nivel de alerta derivado (critical/low/normal).
// @Tags         stock24
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.Stock24EntryResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/stock24 [get]
func (h *WardHandler) List(c *fiber.Ctx) error {
	entries, err := h.uc.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(entries)
}

// Alerts godoc
// @Summary      Alertas del stock 24h
// @Description  Solo las filas en nivel critical o low, para la pizarra del servicio.
// @Tags         stock24
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.Stock24EntryResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/stock24/alerts [get]
func (h *WardHandler) Alerts(c *fiber.Ctx) error {
	entries, err := h.uc.Alerts(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(entries)
}
