package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// EnrollStock24Request inscripción de un producto en el stock 24h.
type EnrollStock24Request struct {
	VariantID       string          `json:"variant_id"`
	ParQuantity     decimal.Decimal `json:"par_quantity"`
	InitialQuantity decimal.Decimal `json:"initial_quantity"`
}

// ConfigureParRequest ajuste del objetivo par de un producto inscrito.
type ConfigureParRequest struct {
	VariantID   string          `json:"variant_id"`
	ParQuantity decimal.Decimal `json:"par_quantity"`
}

// ReplenishRequest reposición en bloque del stock 24h desde el almacén.
type ReplenishRequest struct {
	Lines []ReplenishLineRequest `json:"lines"`
}

// ReplenishLineRequest una línea de reposición, atada al lote de origen.
type ReplenishLineRequest struct {
	VariantID string          `json:"variant_id"`
	LotID     string          `json:"lot_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// Stock24EntryResponse una fila del stock 24h con su nivel de alerta derivado.
type Stock24EntryResponse struct {
	VariantID         string          `json:"variant_id"`
	ParQuantity       decimal.Decimal `json:"par_quantity"`
	CurrentQuantity   decimal.Decimal `json:"current_quantity"`
	AlertLevel        string          `json:"alert_level"`
	LastReplenishedAt *time.Time      `json:"last_replenished_at,omitempty"`
}

// RecordCountRequest conteo físico de una línea de cuadre.
type RecordCountRequest struct {
	Physical decimal.Decimal `json:"physical"`
}

// CuadreResponse cabecera + líneas de un cuadre.
type CuadreResponse struct {
	ID          string               `json:"id"`
	State       string               `json:"state"`
	StartedBy   string               `json:"started_by"`
	StartedAt   time.Time            `json:"started_at"`
	FinalizedAt *time.Time           `json:"finalized_at,omitempty"`
	Lines       []CuadreLineResponse `json:"lines"`
}

// CuadreLineResponse línea de cuadre: teórico, físico y diferencia.
type CuadreLineResponse struct {
	ID          string           `json:"id"`
	VariantID   string           `json:"variant_id"`
	Theoretical decimal.Decimal  `json:"theoretical"`
	Physical    *decimal.Decimal `json:"physical,omitempty"`
	Difference  decimal.Decimal  `json:"difference"`
}
