package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock24Entry una fila del stock 24h del servicio: un producto inscrito con
// su cantidad par (objetivo fijo) y su cantidad actual.
type Stock24Entry struct {
	ID                string
	VariantID         string
	ParQuantity       decimal.Decimal
	CurrentQuantity   decimal.Decimal
	Active            bool
	LastReplenishedAt *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Tipos de movimiento del stock 24h (historial de auditoría).
const (
	BufferMovementReplenishment = "replenishment"
	BufferMovementConsumption   = "consumption_from_requisition"
	BufferMovementCuadre        = "cuadre_adjustment"
)

// BufferMovement movimiento sobre el stock 24h: reposición, consumo por
// requisición de origen sala, o ajuste por cuadre.
type BufferMovement struct {
	ID        string
	VariantID string
	Type      string
	Quantity  decimal.Decimal // positivo entra al buffer, negativo sale
	Reference string          // id de requisición, reposición o cuadre
	CreatedAt time.Time
	CreatedBy string
}

// Replenishment registra un traslado en bloque del almacén general al stock 24h.
type Replenishment struct {
	ID        string
	CreatedBy string
	CreatedAt time.Time
	Lines     []ReplenishmentLine
}

// ReplenishmentLine una línea de reposición, atada al lote de origen.
type ReplenishmentLine struct {
	ID        string
	VariantID string
	LotID     string
	Quantity  decimal.Decimal
}
