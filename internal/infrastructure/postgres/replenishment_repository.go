package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/domain/entity"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/domain/repository"
)

var _ repository.ReplenishmentRepository = (*ReplenishmentRepo)(nil)

// ReplenishmentRepo implementación del puerto ReplenishmentRepository sobre PostgreSQL.
type ReplenishmentRepo struct {
	q Querier
}

// NewReplenishmentRepository construye el adaptador de persistencia para reposiciones. Pasar pool o tx (Querier).
func NewReplenishmentRepository(q Querier) *ReplenishmentRepo {
	return &ReplenishmentRepo{q: q}
}

// Create persiste la reposición con todas sus líneas.
func (r *ReplenishmentRepo) Create(rep *entity.Replenishment) error {
	_, err := r.q.Exec(context.Background(),
		`INSERT INTO replenishments (id, created_by, created_at) VALUES ($1, $2, $3)`,
		rep.ID, rep.CreatedBy, rep.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert replenishment: %w", err)
	}
	query := `
		INSERT INTO replenishment_lines (id, replenishment_id, variant_id, lot_id, quantity)
		VALUES ($1, $2, $3, $4, $5)`
	for i := range rep.Lines {
		l := &rep.Lines[i]
		_, err := r.q.Exec(context.Background(), query, l.ID, rep.ID, l.VariantID, l.LotID, l.Quantity)
		if err != nil {
			return fmt.Errorf("insert replenishment line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la reposición con sus líneas.
func (r *ReplenishmentRepo) GetByID(id string) (*entity.Replenishment, error) {
	var rep entity.Replenishment
	err := r.q.QueryRow(context.Background(),
		`SELECT id, created_by, created_at FROM replenishments WHERE id = $1`, id,
	).Scan(&rep.ID, &rep.CreatedBy, &rep.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get replenishment: %w", err)
	}

	rows, err := r.q.Query(context.Background(),
		`SELECT id, variant_id, lot_id, quantity FROM replenishment_lines WHERE replenishment_id = $1 ORDER BY id ASC`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("list replenishment lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l entity.ReplenishmentLine
		if err := rows.Scan(&l.ID, &l.VariantID, &l.LotID, &l.Quantity); err != nil {
			return nil, fmt.Errorf("scan replenishment line: %w", err)
		}
		rep.Lines = append(rep.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &rep, nil
}
