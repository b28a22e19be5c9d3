package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateRequisitionRequest alta de una requisición con sus líneas.
type CreateRequisitionRequest struct {
	ServiceID      string                         `json:"service_id"`
	DispatchOrigin string                         `json:"dispatch_origin"` // warehouse | stock24
	Observations   string                         `json:"observations"`
	Lines          []CreateRequisitionLineRequest `json:"lines"`
}

// CreateRequisitionLineRequest línea solicitada: producto, cantidad y paciente/cama.
type CreateRequisitionLineRequest struct {
	VariantID string          `json:"variant_id"`
	Requested decimal.Decimal `json:"requested"`
	LotID     *string         `json:"lot_id,omitempty"`
	PatientID string          `json:"patient_id"`
	Bed       string          `json:"bed"`
}

// ApproveRequisitionRequest aprobación con overrides opcionales de cantidad autorizada.
type ApproveRequisitionRequest struct {
	AuthorizedOverrides map[string]decimal.Decimal `json:"authorized_overrides,omitempty"` // lineID -> cantidad
}

// DeliverRequisitionRequest entrega: cantidades entregadas por línea.
type DeliverRequisitionRequest struct {
	DeliveredQuantities map[string]decimal.Decimal `json:"delivered_quantities"` // lineID -> cantidad
}

// RejectRequisitionRequest rechazo con motivo (se concatena a observaciones).
type RejectRequisitionRequest struct {
	Reason string `json:"reason"`
}

// RequisitionResponse cabecera + líneas de una requisición.
type RequisitionResponse struct {
	ID             string                    `json:"id"`
	ServiceID      string                    `json:"service_id"`
	DispatchOrigin string                    `json:"dispatch_origin"`
	State          string                    `json:"state"`
	Observations   string                    `json:"observations"`
	Lines          []RequisitionLineResponse `json:"lines"`
	CreatedBy      string                    `json:"created_by"`
	CreatedAt      time.Time                 `json:"created_at"`
	ApprovedBy     string                    `json:"approved_by,omitempty"`
	ApprovedAt     *time.Time                `json:"approved_at,omitempty"`
	DeliveredBy    string                    `json:"delivered_by,omitempty"`
	DeliveredAt    *time.Time                `json:"delivered_at,omitempty"`
}

// RequisitionLineResponse línea de requisición en respuestas.
type RequisitionLineResponse struct {
	ID         string          `json:"id"`
	VariantID  string          `json:"variant_id"`
	Requested  decimal.Decimal `json:"requested"`
	Authorized decimal.Decimal `json:"authorized"`
	Delivered  decimal.Decimal `json:"delivered"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	LotID      *string         `json:"lot_id,omitempty"`
	PatientID  string          `json:"patient_id"`
	Bed        string          `json:"bed"`
}

// SheetLineRequest línea de hoja consolidada (set de reemplazo completo).
type SheetLineRequest struct {
	Bed          string          `json:"bed"`
	PatientID    string          `json:"patient_id"`
	RecordNumber string          `json:"record_number"`
	Sex          string          `json:"sex"`
	VariantID    string          `json:"variant_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
}

// CreateSheetRequest alta de hoja de consumo consolidado.
type CreateSheetRequest struct {
	ServiceID    string             `json:"service_id"`
	Shift        string             `json:"shift"`
	Date         time.Time          `json:"date"`
	Observations string             `json:"observations"`
	Lines        []SheetLineRequest `json:"lines"`
}

// UpdateSheetRequest reemplazo completo de líneas de una hoja activa.
type UpdateSheetRequest struct {
	Lines []SheetLineRequest `json:"lines"`
}

// AnnulSheetRequest anulación con motivo.
type AnnulSheetRequest struct {
	Reason string `json:"reason"`
}

// DeliverSheetRequest entrega: cantidades entregadas y lote por línea.
type DeliverSheetRequest struct {
	Lines map[string]DeliverSheetLine `json:"lines"` // lineID -> entrega
}

// DeliverSheetLine entrega de una línea de hoja consolidada.
type DeliverSheetLine struct {
	Delivered decimal.Decimal `json:"delivered"`
	LotID     *string         `json:"lot_id,omitempty"`
}

// SheetResponse cabecera + líneas de una hoja consolidada.
type SheetResponse struct {
	ID           string              `json:"id"`
	ServiceID    string              `json:"service_id"`
	Shift        string              `json:"shift"`
	Date         time.Time           `json:"date"`
	State        string              `json:"state"`
	Observations string              `json:"observations"`
	TotalItems   int                 `json:"total_items"`
	TotalCost    decimal.Decimal     `json:"total_cost"`
	Lines        []SheetLineResponse `json:"lines"`
	ClosedAt     *time.Time          `json:"closed_at,omitempty"`
}

// SheetLineResponse línea de hoja consolidada en respuestas.
type SheetLineResponse struct {
	ID           string          `json:"id"`
	Bed          string          `json:"bed"`
	PatientID    string          `json:"patient_id"`
	RecordNumber string          `json:"record_number"`
	Sex          string          `json:"sex"`
	VariantID    string          `json:"variant_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	Delivered    decimal.Decimal `json:"delivered"`
	LotID        *string         `json:"lot_id,omitempty"`
}
