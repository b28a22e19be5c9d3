package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/application/dispensing"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/application/dto"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/domain"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/domain/entity"
)

// SheetHandler maneja las hojas de consumo consolidado (protegido).
type SheetHandler struct {
	uc *dispensing.SheetUseCase
}

// NewSheetHandler construye el handler.
func NewSheetHandler(uc *dispensing.SheetUseCase) *SheetHandler {
	return &SheetHandler{uc: uc}
}

func sheetToResponse(s *entity.ConsolidatedSheet) dto.SheetResponse {
	out := dto.SheetResponse{
		ID:           s.ID,
		ServiceID:    s.ServiceID,
		Shift:        s.Shift,
		Date:         s.Date,
		State:        string(s.State),
		Observations: s.Observations,
		TotalItems:   s.TotalItems,
		TotalCost:    s.TotalCost,
		ClosedAt:     s.ClosedAt,
	}
	for _, l := range s.Lines {
		out.Lines = append(out.Lines, dto.SheetLineResponse{
			ID:           l.ID,
			Bed:          l.Bed,
			PatientID:    l.PatientID,
			RecordNumber: l.RecordNumber,
			Sex:          l.Sex,
			VariantID:    l.VariantID,
			Quantity:     l.Quantity,
			UnitCost:     l.UnitCost,
			Delivered:    l.Delivered,
			LotID:        l.LotID,
		})
	}
	return out
}

func mapSheetError(c *fiber.Ctx, err error) error {
	if err == domain.ErrInvalidInput {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	}
	if err == domain.ErrNotFound {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "hoja o recurso no encontrado"})
	}
	if err == domain.ErrInvalidState {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_STATE", Message: "la hoja no admite esta transición"})
	}
	if err == domain.ErrInsufficientStock {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente para la entrega"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

// Create godoc
// @Summary      Crear hoja de consumo consolidado
// @Tags         sheets
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSheetRequest  true  "service_id, shift, date, lines"
// @Success      201   {object}  dto.SheetResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/sheets [post]
func (h *SheetHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	var in dto.CreateSheetRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	sheet, err := h.uc.Create(c.Context(), userID, in)
	if err != nil {
		return mapSheetError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sheetToResponse(sheet))
}

// Update godoc
// @Summary      Reemplazar líneas de una hoja activa
// @Description  La edición es por reemplazo completo del set de líneas; los
//
//	totales se recalculan siempre.
//
// @Tags         sheets
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la hoja"
// @Param        body  body  dto.UpdateSheetRequest  true  "lines"
// @Success      200   {object}  dto.SheetResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sheets/{id} [put]
func (h *SheetHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateSheetRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	sheet, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return mapSheetError(c, err)
	}
	return c.JSON(sheetToResponse(sheet))
}

// Close godoc
// @Summary      Cerrar hoja
// @Tags         sheets
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la hoja"
// @Success      200  {object}  dto.SheetResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sheets/{id}/close [post]
func (h *SheetHandler) Close(c *fiber.Ctx) error {
	userID := GetUserID(c)
	sheet, err := h.uc.Close(c.Context(), userID, c.Params("id"))
	if err != nil {
		return mapSheetError(c, err)
	}
	return c.JSON(sheetToResponse(sheet))
}

// Annul godoc
// @Summary      Anular hoja
// @Description  Permitida también sobre hojas cerradas. No revierte inventario.
// @Tags         sheets
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la hoja"
// @Param        body  body  dto.AnnulSheetRequest  true  "reason"
// @Success      200   {object}  dto.SheetResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sheets/{id}/annul [post]
func (h *SheetHandler) Annul(c *fiber.Ctx) error {
	userID := GetUserID(c)
	var in dto.AnnulSheetRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	sheet, err := h.uc.Annul(c.Context(), userID, c.Params("id"), in)
	if err != nil {
		return mapSheetError(c, err)
	}
	return c.JSON(sheetToResponse(sheet))
}

// Deliver godoc
// @Summary      Entregar hoja
// @Description  Estampa entregas y lotes por línea, emite los movimientos de
//
//	salida y cierra la hoja.
//
// @Tags         sheets
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la hoja"
// @Param        body  body  dto.DeliverSheetRequest  false  "lines"
// @Success      200   {object}  dto.SheetResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sheets/{id}/deliver [post]
func (h *SheetHandler) Deliver(c *fiber.Ctx) error {
	userID := GetUserID(c)
	var in dto.DeliverSheetRequest
	if err := c.BodyParser(&in); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	sheet, err := h.uc.Deliver(c.Context(), userID, c.Params("id"), in)
	if err != nil {
		return mapSheetError(c, err)
	}
	return c.JSON(sheetToResponse(sheet))
}

// GetByID godoc
// @Summary      Consultar hoja
// @Tags         sheets
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la hoja"
// @Success      200  {object}  dto.SheetResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sheets/{id} [get]
func (h *SheetHandler) GetByID(c *fiber.Ctx) error {
	sheet, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return mapSheetError(c, err)
	}
	return c.JSON(sheetToResponse(sheet))
}
