package repository

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/domain/entity"
)

// LotRepository puerto de persistencia para lotes. Se usa dentro de
// transacciones: las mutaciones bloquean la fila (SELECT FOR UPDATE).
type LotRepository interface {
	Create(lot *entity.Lot) error
	GetByID(id string) (*entity.Lot, error)
	GetByIDForUpdate(id string) (*entity.Lot, error)
	GetByNumber(variantID, lotNumber string) (*entity.Lot, error)
	GetByNumberForUpdate(variantID, lotNumber string) (*entity.Lot, error)
	Update(lot *entity.Lot) error
	UpdateQuantity(id string, quantity decimal.Decimal) error
	// SelectFEFO devuelve el lote activo con stock > 0 de vencimiento más
	// próximo; empates por orden de inserción. nil sin error si no hay lote.
	SelectFEFO(variantID string) (*entity.Lot, error)
	ListByVariant(variantID string, onlyActive bool) ([]*entity.Lot, error)
}
