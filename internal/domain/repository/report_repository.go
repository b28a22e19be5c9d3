package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// StockStateRow resultado crudo del reporte de estado de stock: un lote con
// los datos de su producto para el desglose por variante.
type StockStateRow struct {
	VariantID      string
	MedicationName string
	Classification string
	ReorderPoint   decimal.Decimal
	LotID          string
	LotNumber      string
	Expiry         time.Time
	UnitCost       decimal.Decimal
	Quantity       decimal.Decimal
}

// ReportRepository consultas de solo lectura para proyecciones de reporte.
type ReportRepository interface {
	// StockState lista los lotes activos con stock, con su producto,
	// ordenados por producto y vencimiento.
	StockState(ctx context.Context, variantID string) ([]StockStateRow, error)
}
