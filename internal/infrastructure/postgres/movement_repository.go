package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/tu-usuario/farmacia-hospitalaria/internal/domain/entity"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del puerto MovementRepository sobre PostgreSQL.
// Append-only: no hay Update ni Delete. La columna reference es un bigserial
// que da el consecutivo numérico de desempate del Kardex.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador de persistencia para movimientos. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un movimiento. Reference lo asigna la BD (bigserial).
func (r *MovementRepo) Create(mov *entity.Movement) error {
	query := `
		INSERT INTO inventory_movements (id, variant_id, direction, quantity, unit_cost, source, source_id, date, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING reference`
	err := r.q.QueryRow(context.Background(), query,
		mov.ID, mov.VariantID, mov.Direction, mov.Quantity, mov.UnitCost,
		mov.Source, mov.SourceID, mov.Date, mov.CreatedAt, mov.CreatedBy,
	).Scan(&mov.Reference)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// ListByVariant lista los movimientos de un producto en [from, to], en el
// orden cronológico que espera el Kardex: fecha y referencia ascendente.
func (r *MovementRepo) ListByVariant(variantID string, from, to time.Time) ([]*entity.Movement, error) {
	query := `
		SELECT id, reference, variant_id, direction, quantity, unit_cost, source, source_id, date, created_at, created_by
		FROM inventory_movements
		WHERE variant_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC, reference ASC`
	rows, err := r.q.Query(context.Background(), query, variantID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var movs []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		err := rows.Scan(
			&m.ID, &m.Reference, &m.VariantID, &m.Direction, &m.Quantity, &m.UnitCost,
			&m.Source, &m.SourceID, &m.Date, &m.CreatedAt, &m.CreatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		movs = append(movs, &m)
	}
	return movs, rows.Err()
}
