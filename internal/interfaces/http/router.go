package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/application/auth"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/application/dispensing"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/application/inventory"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/application/kardex"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/application/reports"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/application/ward"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	LotUC         *inventory.LotStoreUseCase
	RequisitionUC *dispensing.RequisitionUseCase
	SheetUC       *dispensing.SheetUseCase
	BufferUC      *ward.BufferUseCase
	CuadreUC      *ward.CuadreUseCase
	KardexQuery   *kardex.QueryUseCase
	KardexPDF     *kardex.PDFUseCase
	StockStateUC  *reports.StockStateUseCase
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Solo farmacia: recepciones, anulaciones y reposiciones las ejecuta el
	// personal de farmacia o un administrador.
	pharmacy := RequireRole(entity.RoleAdmin, entity.RoleFarmaceutico)

	// Almacén de lotes (protegido)
	lotHandler := NewLotHandler(deps.LotUC)
	lots := protected.Group("/lots")
	lots.Post("/receive", pharmacy, lotHandler.Receive)
	lots.Post("/deduct", pharmacy, lotHandler.Deduct)
	lots.Post("/reverse-receipt", pharmacy, lotHandler.ReverseReceipt)
	variants := protected.Group("/variants")
	variants.Get("/:variant_id/lots", lotHandler.ListByVariant)
	variants.Get("/:variant_id/fefo", lotHandler.SelectFEFO)

	// Requisiciones (protegido). Cualquier rol crea; aprueba y entrega farmacia.
	reqHandler := NewRequisitionHandler(deps.RequisitionUC)
	requisitions := protected.Group("/requisitions")
	requisitions.Post("/", reqHandler.Create)
	requisitions.Get("/:id", reqHandler.GetByID)
	requisitions.Post("/:id/approve", pharmacy, reqHandler.Approve)
	requisitions.Post("/:id/deliver", pharmacy, reqHandler.Deliver)
	requisitions.Post("/:id/reject", pharmacy, reqHandler.Reject)
	requisitions.Post("/:id/cancel", reqHandler.Cancel)

	// Hojas de consumo consolidado (protegido)
	sheetHandler := NewSheetHandler(deps.SheetUC)
	sheets := protected.Group("/sheets")
	sheets.Post("/", sheetHandler.Create)
	sheets.Get("/:id", sheetHandler.GetByID)
	sheets.Put("/:id", sheetHandler.Update)
	sheets.Post("/:id/close", sheetHandler.Close)
	sheets.Post("/:id/annul", pharmacy, sheetHandler.Annul)
	sheets.Post("/:id/deliver", pharmacy, sheetHandler.Deliver)

	// Stock 24h (protegido)
	wardHandler := NewWardHandler(deps.BufferUC)
	stock24 := protected.Group("/stock24")
	stock24.Get("/", wardHandler.List)
	stock24.Get("/alerts", wardHandler.Alerts)
	stock24.Post("/enroll", pharmacy, wardHandler.Enroll)
	stock24.Put("/par", pharmacy, wardHandler.ConfigurePar)
	stock24.Post("/replenish", pharmacy, wardHandler.Replenish)

	// Cuadres (protegido). El conteo lo registra cualquier rol; finaliza farmacia.
	cuadreHandler := NewCuadreHandler(deps.CuadreUC)
	cuadres := protected.Group("/cuadres")
	cuadres.Post("/", cuadreHandler.Start)
	cuadres.Get("/:id", cuadreHandler.GetByID)
	cuadres.Put("/:id/lines/:line_id", cuadreHandler.RecordCount)
	cuadres.Post("/:id/finalize", pharmacy, cuadreHandler.Finalize)

	// Kardex y reportes (protegido)
	kardexHandler := NewKardexHandler(deps.KardexQuery, deps.KardexPDF, deps.StockStateUC)
	kardexGroup := protected.Group("/kardex")
	kardexGroup.Get("/:variant_id", kardexHandler.Query)
	kardexGroup.Get("/:variant_id/pdf", kardexHandler.PDF)
	reportsGroup := protected.Group("/reports")
	reportsGroup.Get("/stock-state", kardexHandler.StockState)
}
