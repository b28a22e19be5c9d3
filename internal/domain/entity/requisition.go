package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// RequisitionState estado de una requisición (enum cerrado).
type RequisitionState string

const (
	RequisitionPending   RequisitionState = "pending"
	RequisitionApproved  RequisitionState = "approved"
	RequisitionDelivered RequisitionState = "delivered"
	RequisitionRejected  RequisitionState = "rejected"
	RequisitionCancelled RequisitionState = "cancelled"
)

// Tabla única de transiciones válidas. Todos los call sites validan aquí,
// nunca contra literales dispersos. Cancelación solo desde pending.
var requisitionTransitions = map[RequisitionState][]RequisitionState{
	RequisitionPending: {RequisitionApproved, RequisitionRejected, RequisitionCancelled},
	RequisitionApproved: {RequisitionDelivered},
}

// CanTransition indica si la transición de estado es válida.
func (s RequisitionState) CanTransition(to RequisitionState) bool {
	for _, next := range requisitionTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal indica si el estado no admite más transiciones.
func (s RequisitionState) Terminal() bool {
	return len(requisitionTransitions[s]) == 0
}

// Origen del despacho de una requisición.
const (
	DispatchOriginWarehouse = "warehouse" // almacén general (lotes)
	DispatchOriginStock24   = "stock24"   // stock 24h del servicio
)

// Requisition es una solicitud de medicamentos de un servicio hospitalario
// para pacientes/camas concretos.
type Requisition struct {
	ID             string
	ServiceID      string
	DispatchOrigin string // warehouse | stock24
	State          RequisitionState
	Observations   string
	Lines          []RequisitionLine
	CreatedBy      string
	CreatedAt      time.Time
	ApprovedBy     string
	ApprovedAt     *time.Time
	DeliveredBy    string
	DeliveredAt    *time.Time
	RejectedBy     string
	RejectedAt     *time.Time
}

// RequisitionLine línea de detalle: producto, cantidades y paciente/cama.
// Requested <= Authorized NO se exige: la cantidad autorizada se ajusta aparte.
type RequisitionLine struct {
	ID        string
	VariantID string
	Requested  decimal.Decimal
	Authorized decimal.Decimal
	Delivered  decimal.Decimal
	UnitCost   decimal.Decimal // costo final: se lee del lote al entregar
	LotID      *string         // asignado manualmente o por FEFO en la aprobación
	PatientID  string
	Bed        string
}

// AppendObservation concatena una observación al campo libre (no destructivo).
func (r *Requisition) AppendObservation(text string) {
	if text == "" {
		return
	}
	if r.Observations == "" {
		r.Observations = text
		return
	}
	r.Observations = r.Observations + " | " + text
}
