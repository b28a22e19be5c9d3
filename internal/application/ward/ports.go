package ward

import (
	"context"

	"github.com/tu-usuario/farmacia-hospitalaria/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Reposición y cuadre escriben varias filas
// del stock 24h en un solo commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		bufferRepo repository.Stock24Repository,
		bufMovRepo repository.BufferMovementRepository,
		replRepo repository.ReplenishmentRepository,
		cuadreRepo repository.CuadreRepository,
	) error) error
}
