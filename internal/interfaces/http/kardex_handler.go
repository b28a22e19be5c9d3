package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/application/dto"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/application/kardex"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/application/reports"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/domain"
)

// KardexHandler maneja la consulta del Kardex y los reportes de stock (protegido).
type KardexHandler struct {
	query      *kardex.QueryUseCase
	pdf        *kardex.PDFUseCase
	stockState *reports.StockStateUseCase
}

// NewKardexHandler construye el handler.
func NewKardexHandler(query *kardex.QueryUseCase, pdf *kardex.PDFUseCase, stockState *reports.StockStateUseCase) *KardexHandler {
	return &KardexHandler{query: query, pdf: pdf, stockState: stockState}
}

// parseKardexRequest arma la consulta desde path y query params.
// Rango por defecto: el año corrido hasta hoy.
func parseKardexRequest(c *fiber.Ctx) (dto.KardexRequest, error) {
	in := dto.KardexRequest{VariantID: c.Params("variant_id")}
	now := time.Now()
	in.From = now.AddDate(-1, 0, 0)
	in.To = now
	if s := c.Query("from"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return in, err
		}
		in.From = t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return in, err
		}
		// Fin de día inclusive.
		in.To = t.Add(24*time.Hour - time.Nanosecond)
	}
	return in, nil
}

func mapKardexError(c *fiber.Ctx, err error) error {
	if err == domain.ErrInvalidInput {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "rango de fechas inválido"})
	}
	if err == domain.ErrNotFound {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

// Query godoc
// @Summary      Kardex de un producto
// @Description  Reconstruye la tarjeta valorizada al costo promedio ponderado a
//
//	partir de los movimientos del período.
//
// @Tags         kardex
// @Security     Bearer
// @Produce      json
// @Param        variant_id  path   string  true   "ID del producto"
// @Param        from        query  string  false  "Fecha inicial (YYYY-MM-DD)"
// @Param        to          query  string  false  "Fecha final (YYYY-MM-DD)"
// @Success      200  {object}  dto.KardexResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/kardex/{variant_id} [get]
func (h *KardexHandler) Query(c *fiber.Ctx) error {
	in, err := parseKardexRequest(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "formato de fecha inválido (YYYY-MM-DD)"})
	}
	report, err := h.query.Query(c.Context(), in)
	if err != nil {
		return mapKardexError(c, err)
	}
	return c.JSON(report)
}

// PDF godoc
// @Summary      Kardex de un producto en PDF
// @Tags         kardex
// @Security     Bearer
// @Produce      application/pdf
// @Param        variant_id  path   string  true   "ID del producto"
// @Param        from        query  string  false  "Fecha inicial (YYYY-MM-DD)"
// @Param        to          query  string  false  "Fecha final (YYYY-MM-DD)"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/kardex/{variant_id}/pdf [get]
func (h *KardexHandler) PDF(c *fiber.Ctx) error {
	in, err := parseKardexRequest(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "formato de fecha inválido (YYYY-MM-DD)"})
	}
	data, err := h.pdf.Generate(c.Context(), in)
	if err != nil {
		return mapKardexError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="kardex.pdf"`)
	return c.Send(data)
}

// StockState godoc
// @Summary      Estado de stock del almacén
// @Description  Lotes activos con existencia, agrupados por producto, con total
//
//	valorizado y marca de vencidos o bajo punto de reorden.
//
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        variant_id  query  string  false  "Filtrar por producto"
// @Success      200  {array}   dto.StockStateVariantResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/reports/stock-state [get]
func (h *KardexHandler) StockState(c *fiber.Ctx) error {
	out, err := h.stockState.StockState(c.Context(), c.Query("variant_id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
