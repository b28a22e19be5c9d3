package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/application/dto"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/application/ward"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/domain"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/domain/entity"
)

// CuadreHandler maneja los cuadres (auditorías) del stock 24h (protegido).
type CuadreHandler struct {
	uc *ward.CuadreUseCase
}

// NewCuadreHandler construye el handler.
func NewCuadreHandler(uc *ward.CuadreUseCase) *CuadreHandler {
	return &CuadreHandler{uc: uc}
}

func cuadreToResponse(c *entity.Cuadre) dto.CuadreResponse {
	out := dto.CuadreResponse{
		ID:          c.ID,
		State:       string(c.State),
		StartedBy:   c.StartedBy,
		StartedAt:   c.StartedAt,
		FinalizedAt: c.FinalizedAt,
	}
	for _, l := range c.Lines {
		out.Lines = append(out.Lines, dto.CuadreLineResponse{
			ID:          l.ID,
			VariantID:   l.VariantID,
			Theoretical: l.Theoretical,
			Physical:    l.Physical,
			Difference:  l.Difference,
		})
	}
	return out
}

func mapCuadreError(c *fiber.Ctx, err error) error {
	if err == domain.ErrInvalidInput {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	}
	if err == domain.ErrNotFound {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "cuadre o línea no encontrada"})
	}
	if err == domain.ErrInvalidState {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_STATE", Message: "el cuadre ya está completado"})
	}
	if err == domain.ErrIncompleteCount {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INCOMPLETE_COUNT", Message: "el cuadre tiene líneas sin conteo físico"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

// Start godoc
// @Summary      Iniciar cuadre
// @Description  Congela las cantidades teóricas actuales del stock 24h como
//
//	líneas de conteo.
//
// @Tags         cuadres
// @Security     Bearer
// @Produce      json
// @Success      201  {object}  dto.CuadreResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/cuadres [post]
func (h *CuadreHandler) Start(c *fiber.Ctx) error {
	userID := GetUserID(c)
	cuadre, err := h.uc.Start(c.Context(), userID)
	if err != nil {
		return mapCuadreError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(cuadreToResponse(cuadre))
}

// RecordCount godoc
// @Summary      Registrar conteo físico de una línea
// @Tags         cuadres
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id       path  string  true  "ID del cuadre"
// @Param        line_id  path  string  true  "ID de la línea"
// @Param        body     body  dto.RecordCountRequest  true  "physical"
// @Success      200   {object}  dto.CuadreResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cuadres/{id}/lines/{line_id} [put]
func (h *CuadreHandler) RecordCount(c *fiber.Ctx) error {
	var in dto.RecordCountRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	cuadre, err := h.uc.RecordCount(c.Context(), c.Params("id"), c.Params("line_id"), in)
	if err != nil {
		return mapCuadreError(c, err)
	}
	return c.JSON(cuadreToResponse(cuadre))
}

// Finalize godoc
// @Summary      Finalizar cuadre
// @Description  Exige el conteo completo. Donde hay diferencia, el físico
//
//	sobrescribe la cantidad del stock 24h y queda el ajuste en el historial.
//
// @Tags         cuadres
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del cuadre"
// @Success      200  {object}  dto.CuadreResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/cuadres/{id}/finalize [post]
func (h *CuadreHandler) Finalize(c *fiber.Ctx) error {
	userID := GetUserID(c)
	cuadre, err := h.uc.Finalize(c.Context(), userID, c.Params("id"))
	if err != nil {
		return mapCuadreError(c, err)
	}
	return c.JSON(cuadreToResponse(cuadre))
}

// GetByID godoc
// @Summary      Consultar cuadre
// @Tags         cuadres
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del cuadre"
// @Success      200  {object}  dto.CuadreResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cuadres/{id} [get]
func (h *CuadreHandler) GetByID(c *fiber.Ctx) error {
	cuadre, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return mapCuadreError(c, err)
	}
	return c.JSON(cuadreToResponse(cuadre))
}
