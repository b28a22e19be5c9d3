package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Clasificación de un producto para la segmentación de costeo.
const (
	ClassificationRequisition  = "requisition"  // despacho por requisición de servicio
	ClassificationPrescription = "prescription" // despacho por prescripción (lote FEFO automático)
)

// ProductVariant representa un medicamento en una combinación concreta de
// presentación y unidad de medida. Identidad inmutable: se desactiva, nunca se borra.
type ProductVariant struct {
	ID             string
	MedicationName string
	PresentationID string
	UnitID         string
	Classification string          // requisition | prescription
	ReorderPoint   decimal.Decimal // umbral de reorden en almacén general
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
