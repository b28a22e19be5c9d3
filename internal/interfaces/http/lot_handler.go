package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/application/dto"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/application/inventory"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/domain"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/domain/entity"
)

// LotHandler maneja las peticiones HTTP del almacén de lotes (protegido).
type LotHandler struct {
	uc *inventory.LotStoreUseCase
}

// NewLotHandler construye el handler.
func NewLotHandler(uc *inventory.LotStoreUseCase) *LotHandler {
	return &LotHandler{uc: uc}
}

func lotToResponse(l *entity.Lot) dto.LotResponse {
	return dto.LotResponse{
		ID:         l.ID,
		VariantID:  l.VariantID,
		LotNumber:  l.LotNumber,
		Expiry:     l.Expiry,
		UnitCost:   l.UnitCost,
		Quantity:   l.Quantity,
		ProviderID: l.ProviderID,
		Active:     l.Active,
	}
}

// Receive godoc
// @Summary      Registrar recepción de mercancía
// @Description  Crea el lote, acumula sobre uno activo con los mismos términos,
//
//	o reactiva uno anulado. Emite el movimiento de entrada del Kardex.
//
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceiveLotRequest  true  "variant_id, lot_number, expiry, quantity, unit_cost, provider_id"
// @Success      201   {object}  dto.LotResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/lots/receive [post]
func (h *LotHandler) Receive(c *fiber.Ctx) error {
	userID := GetUserID(c)
	var in dto.ReceiveLotRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	lot, err := h.uc.Receive(c.Context(), userID, in)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado o inactivo"})
		}
		if err == domain.ErrDuplicateLot {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE_LOT", Message: "ya existe un lote activo con ese número y términos distintos"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(lotToResponse(lot))
}

// Deduct godoc
// @Summary      Rebajar cantidad de un lote
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DeductLotRequest  true  "lot_id, quantity"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/lots/deduct [post]
func (h *LotHandler) Deduct(c *fiber.Ctx) error {
	var in dto.DeductLotRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.uc.Deduct(c.Context(), in)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "lote no encontrado"})
		}
		if err == domain.ErrInsufficientStock {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente en el lote"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"message": "cantidad rebajada"})
}

// ReverseReceipt godoc
// @Summary      Anular una recepción
// @Description  Desactiva el lote. La cantidad restante deja de estar disponible;
//
//	el historial del Kardex no se toca.
//
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReverseReceiptRequest  true  "variant_id, lot_number"
// @Success      200   {object}  map[string]string
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/lots/reverse-receipt [post]
func (h *LotHandler) ReverseReceipt(c *fiber.Ctx) error {
	var in dto.ReverseReceiptRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.uc.DeactivateByReceiptReversal(c.Context(), in)
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "lote no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"message": "recepción anulada"})
}

// ListByVariant godoc
// @Summary      Listar lotes de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        variant_id  path   string  true   "ID del producto"
// @Param        only_active query  bool    false  "Solo lotes activos"
// @Success      200  {array}   dto.LotResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/variants/{variant_id}/lots [get]
func (h *LotHandler) ListByVariant(c *fiber.Ctx) error {
	variantID := c.Params("variant_id")
	onlyActive := c.QueryBool("only_active", false)
	lots, err := h.uc.ListByVariant(c.Context(), variantID, onlyActive)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.LotResponse, 0, len(lots))
	for _, l := range lots {
		out = append(out, lotToResponse(l))
	}
	return c.JSON(out)
}

// SelectFEFO godoc
// @Summary      Lote candidato FEFO de un producto
// @Description  Devuelve el lote activo con stock de vencimiento más próximo.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        variant_id  path  string  true  "ID del producto"
// @Success      200  {object}  dto.LotResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/variants/{variant_id}/fefo [get]
func (h *LotHandler) SelectFEFO(c *fiber.Ctx) error {
	variantID := c.Params("variant_id")
	lot, err := h.uc.SelectFEFO(c.Context(), variantID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if lot == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "sin lote elegible para el producto"})
	}
	return c.JSON(lotToResponse(lot))
}
