package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direcciones de movimiento de inventario.
const (
	MovementIn  = "in"  // recepción de mercancía
	MovementOut = "out" // entrega por requisición u hoja consolidada
)

// Fuentes de movimiento (para trazar el documento de origen).
const (
	MovementSourceReceipt     = "goods_receipt"
	MovementSourceRequisition = "requisition_delivery"
	MovementSourceSheet       = "consolidated_sheet"
)

// Movement es la abstracción que consume el Kardex: todo subsistema que mueve
// inventario del almacén general agrega aquí su proyección cronológica.
type Movement struct {
	ID        string
	Reference int64 // consecutivo numérico, desempate cronológico en el Kardex
	VariantID string
	Direction string // in | out
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal
	Source    string
	SourceID  string
	Date      time.Time
	CreatedAt time.Time
	CreatedBy string
}
