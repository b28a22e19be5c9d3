package repository

import "github.com/tu-usuario/farmacia-hospitalaria/internal/domain/entity"

// Stock24Repository puerto de persistencia para el stock 24h de sala.
type Stock24Repository interface {
	Create(entry *entity.Stock24Entry) error
	GetByVariant(variantID string) (*entity.Stock24Entry, error)
	GetByVariantForUpdate(variantID string) (*entity.Stock24Entry, error)
	Update(entry *entity.Stock24Entry) error
	ListActive() ([]*entity.Stock24Entry, error)
}

// BufferMovementRepository historial de movimientos del stock 24h.
type BufferMovementRepository interface {
	Create(mov *entity.BufferMovement) error
	ListByVariant(variantID string, limit, offset int) ([]*entity.BufferMovement, error)
}

// ReplenishmentRepository puerto de persistencia para reposiciones del stock 24h.
type ReplenishmentRepository interface {
	Create(rep *entity.Replenishment) error
	GetByID(id string) (*entity.Replenishment, error)
}
