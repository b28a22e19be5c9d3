package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SheetState estado de una hoja de consumo consolidado (enum cerrado).
type SheetState string

const (
	SheetActive   SheetState = "active"
	SheetClosed   SheetState = "closed"
	SheetAnnulled SheetState = "annulled"
)

// Tabla única de transiciones válidas. La anulación se permite desde
// cualquier estado no anulado (incluye hojas ya cerradas).
var sheetTransitions = map[SheetState][]SheetState{
	SheetActive: {SheetClosed, SheetAnnulled},
	SheetClosed: {SheetAnnulled},
}

// CanTransition indica si la transición de estado es válida.
func (s SheetState) CanTransition(to SheetState) bool {
	for _, next := range sheetTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// ConsolidatedSheet resume las administraciones de un servicio por turno,
// varias camas y medicamentos. Los totales son derivados, nunca se capturan.
type ConsolidatedSheet struct {
	ID           string
	ServiceID    string
	Shift        string
	Date         time.Time
	State        SheetState
	Observations string
	TotalItems   int
	TotalCost    decimal.Decimal
	Lines        []SheetLine
	CreatedBy    string
	CreatedAt    time.Time
	ClosedAt     *time.Time
}

// SheetLine una administración: cama, paciente y medicamento con cantidad > 0.
type SheetLine struct {
	ID           string
	Bed          string
	PatientID    string
	RecordNumber string
	Sex          string
	VariantID    string
	Quantity     decimal.Decimal
	UnitCost     decimal.Decimal
	Delivered    decimal.Decimal
	LotID        *string
}

// Recompute recalcula los agregados derivados a partir de las líneas actuales.
func (s *ConsolidatedSheet) Recompute() {
	s.TotalItems = len(s.Lines)
	total := decimal.Zero
	for _, l := range s.Lines {
		total = total.Add(l.Quantity.Mul(l.UnitCost))
	}
	s.TotalCost = total
}

// AppendObservation concatena una observación al campo libre (no destructivo).
func (s *ConsolidatedSheet) AppendObservation(text string) {
	if text == "" {
		return
	}
	if s.Observations == "" {
		s.Observations = text
		return
	}
	s.Observations = s.Observations + " | " + text
}
