package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// KardexRequest consulta del Kardex de un producto en un rango de fechas.
type KardexRequest struct {
	VariantID string    `json:"variant_id"`
	From      time.Time `json:"from"`
	To        time.Time `json:"to"`
}

// KardexRowResponse una fila del Kardex valorizado.
type KardexRowResponse struct {
	Reference    int64           `json:"reference"`
	Date         time.Time       `json:"date"`
	Source       string          `json:"source"`
	SourceID     string          `json:"source_id"`
	InQty        decimal.Decimal `json:"in_qty"`
	InUnitCost   decimal.Decimal `json:"in_unit_cost"`
	InValue      decimal.Decimal `json:"in_value"`
	OutQty       decimal.Decimal `json:"out_qty"`
	OutUnitCost  decimal.Decimal `json:"out_unit_cost"`
	OutValue     decimal.Decimal `json:"out_value"`
	BalanceQty   decimal.Decimal `json:"balance_qty"`
	AverageCost  decimal.Decimal `json:"average_cost"`
	BalanceValue decimal.Decimal `json:"balance_value"`
}

// KardexResponse filas + totales del período.
type KardexResponse struct {
	VariantID    string              `json:"variant_id"`
	From         time.Time           `json:"from"`
	To           time.Time           `json:"to"`
	Rows         []KardexRowResponse `json:"rows"`
	TotalIn      decimal.Decimal     `json:"total_in"`
	TotalOut     decimal.Decimal     `json:"total_out"`
	FinalQty     decimal.Decimal     `json:"final_qty"`
	FinalValue   decimal.Decimal     `json:"final_value"`
	FinalAverage decimal.Decimal     `json:"final_average"`
}

// StockStateVariantResponse desglose de stock de un producto por lote.
type StockStateVariantResponse struct {
	VariantID      string                   `json:"variant_id"`
	MedicationName string                   `json:"medication_name"`
	Classification string                   `json:"classification"`
	ReorderPoint   decimal.Decimal          `json:"reorder_point"`
	TotalQuantity  decimal.Decimal          `json:"total_quantity"`
	TotalValue     decimal.Decimal          `json:"total_value"`
	BelowReorder   bool                     `json:"below_reorder"`
	Lots           []StockStateLotResponse  `json:"lots"`
}

// StockStateLotResponse un lote dentro del reporte de estado de stock.
type StockStateLotResponse struct {
	LotID     string          `json:"lot_id"`
	LotNumber string          `json:"lot_number"`
	Expiry    time.Time       `json:"expiry"`
	Expired   bool            `json:"expired"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Quantity  decimal.Decimal `json:"quantity"`
}
