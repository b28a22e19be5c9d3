package repository

import (
	"time"

	"github.com/tu-usuario/farmacia-hospitalaria/internal/domain/entity"
)

// MovementRepository puerto de persistencia para la proyección de movimientos
// que alimenta el Kardex. Append-only: los correctivos son nuevos movimientos.
type MovementRepository interface {
	Create(mov *entity.Movement) error
	// ListByVariant devuelve los movimientos de un producto en el rango,
	// ordenados por fecha y referencia ascendente (el orden que espera el Kardex).
	ListByVariant(variantID string, from, to time.Time) ([]*entity.Movement, error)
}
