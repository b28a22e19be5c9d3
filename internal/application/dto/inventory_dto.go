package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiveLotRequest entrada de mercancía: crea o reactiva un lote.
type ReceiveLotRequest struct {
	VariantID  string          `json:"variant_id"`
	LotNumber  string          `json:"lot_number"`
	Expiry     time.Time       `json:"expiry"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	ProviderID string          `json:"provider_id"`
}

// DeductLotRequest rebaja directa de un lote.
type DeductLotRequest struct {
	LotID    string          `json:"lot_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

// ReverseReceiptRequest anulación de una recepción: desactiva el lote.
type ReverseReceiptRequest struct {
	VariantID string `json:"variant_id"`
	LotNumber string `json:"lot_number"`
}

// LotResponse representación de un lote en respuestas.
type LotResponse struct {
	ID         string          `json:"id"`
	VariantID  string          `json:"variant_id"`
	LotNumber  string          `json:"lot_number"`
	Expiry     time.Time       `json:"expiry"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	Quantity   decimal.Decimal `json:"quantity"`
	ProviderID string          `json:"provider_id"`
	Active     bool            `json:"active"`
}
