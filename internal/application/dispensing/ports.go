package dispensing

import (
	"context"

	"github.com/tu-usuario/farmacia-hospitalaria/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Los flujos de despacho tocan requisiciones,
// hojas consolidadas, lotes, stock 24h y la proyección de movimientos en un
// solo commit: o se aplica todo, o nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		reqRepo repository.RequisitionRepository,
		sheetRepo repository.SheetRepository,
		lotRepo repository.LotRepository,
		bufferRepo repository.Stock24Repository,
		bufMovRepo repository.BufferMovementRepository,
		movRepo repository.MovementRepository,
	) error) error
}
