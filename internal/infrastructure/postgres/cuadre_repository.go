package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/domain/entity"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/domain/repository"
)

var _ repository.CuadreRepository = (*CuadreRepo)(nil)

// CuadreRepo implementación del puerto CuadreRepository sobre PostgreSQL.
type CuadreRepo struct {
	q Querier
}

// NewCuadreRepository construye el adaptador de persistencia para cuadres. Pasar pool o tx (Querier).
func NewCuadreRepository(q Querier) *CuadreRepo {
	return &CuadreRepo{q: q}
}

// Create persiste el cuadre con su foto teórica completa.
func (r *CuadreRepo) Create(cuadre *entity.Cuadre) error {
	_, err := r.q.Exec(context.Background(),
		`INSERT INTO cuadres (id, state, started_by, started_at, finalized_at) VALUES ($1, $2, $3, $4, $5)`,
		cuadre.ID, cuadre.State, cuadre.StartedBy, cuadre.StartedAt, cuadre.FinalizedAt,
	)
	if err != nil {
		return fmt.Errorf("insert cuadre: %w", err)
	}
	query := `
		INSERT INTO cuadre_lines (id, cuadre_id, variant_id, theoretical, physical, difference)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for i := range cuadre.Lines {
		l := &cuadre.Lines[i]
		_, err := r.q.Exec(context.Background(), query,
			l.ID, cuadre.ID, l.VariantID, l.Theoretical, l.Physical, l.Difference,
		)
		if err != nil {
			return fmt.Errorf("insert cuadre line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene el cuadre con sus líneas.
func (r *CuadreRepo) GetByID(id string) (*entity.Cuadre, error) {
	query := `SELECT id, state, started_by, started_at, finalized_at FROM cuadres WHERE id = $1`
	return r.getOne(query, id)
}

// GetForUpdate obtiene el cuadre bloqueando la cabecera.
func (r *CuadreRepo) GetForUpdate(id string) (*entity.Cuadre, error) {
	query := `SELECT id, state, started_by, started_at, finalized_at FROM cuadres WHERE id = $1 FOR UPDATE`
	return r.getOne(query, id)
}

func (r *CuadreRepo) getOne(query, id string) (*entity.Cuadre, error) {
	var c entity.Cuadre
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&c.ID, &c.State, &c.StartedBy, &c.StartedAt, &c.FinalizedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cuadre: %w", err)
	}
	if err := r.loadLines(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CuadreRepo) loadLines(cuadre *entity.Cuadre) error {
	query := `
		SELECT id, cuadre_id, variant_id, theoretical, physical, difference
		FROM cuadre_lines WHERE cuadre_id = $1 ORDER BY id ASC`
	rows, err := r.q.Query(context.Background(), query, cuadre.ID)
	if err != nil {
		return fmt.Errorf("list cuadre lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l entity.CuadreLine
		err := rows.Scan(&l.ID, &l.CuadreID, &l.VariantID, &l.Theoretical, &l.Physical, &l.Difference)
		if err != nil {
			return fmt.Errorf("scan cuadre line: %w", err)
		}
		cuadre.Lines = append(cuadre.Lines, l)
	}
	return rows.Err()
}

// UpdateHeader actualiza estado y estampa de finalización.
func (r *CuadreRepo) UpdateHeader(cuadre *entity.Cuadre) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE cuadres SET state = $2, finalized_at = $3 WHERE id = $1`,
		cuadre.ID, cuadre.State, cuadre.FinalizedAt,
	)
	if err != nil {
		return fmt.Errorf("update cuadre: %w", err)
	}
	return nil
}

// UpdateLine registra el conteo físico y la diferencia de una línea.
func (r *CuadreRepo) UpdateLine(line *entity.CuadreLine) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE cuadre_lines SET physical = $2, difference = $3 WHERE id = $1`,
		line.ID, line.Physical, line.Difference,
	)
	if err != nil {
		return fmt.Errorf("update cuadre line: %w", err)
	}
	return nil
}

// ListRecent lista cuadres del más reciente al más antiguo, sin líneas.
func (r *CuadreRepo) ListRecent(limit, offset int) ([]*entity.Cuadre, error) {
	query := `
		SELECT id, state, started_by, started_at, finalized_at
		FROM cuadres ORDER BY started_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list cuadres: %w", err)
	}
	defer rows.Close()

	var cuadres []*entity.Cuadre
	for rows.Next() {
		var c entity.Cuadre
		err := rows.Scan(&c.ID, &c.State, &c.StartedBy, &c.StartedAt, &c.FinalizedAt)
		if err != nil {
			return nil, fmt.Errorf("scan cuadre: %w", err)
		}
		cuadres = append(cuadres, &c)
	}
	return cuadres, rows.Err()
}
