package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/domain/entity"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/domain/repository"
)

var _ repository.VariantRepository = (*VariantRepo)(nil)

// VariantRepo implementación del puerto VariantRepository sobre PostgreSQL (usable con pool o tx).
type VariantRepo struct {
	q Querier
}

// NewVariantRepository construye el adaptador de persistencia para el catálogo. Pasar pool o tx (Querier).
func NewVariantRepository(q Querier) *VariantRepo {
	return &VariantRepo{q: q}
}

const variantColumns = `id, medication_name, presentation_id, unit_id, classification, reorder_point, active, created_at, updated_at`

func scanVariant(row pgx.Row) (*entity.ProductVariant, error) {
	var v entity.ProductVariant
	err := row.Scan(
		&v.ID, &v.MedicationName, &v.PresentationID, &v.UnitID, &v.Classification,
		&v.ReorderPoint, &v.Active, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// GetByID obtiene un producto por ID.
func (r *VariantRepo) GetByID(id string) (*entity.ProductVariant, error) {
	query := `SELECT ` + variantColumns + ` FROM product_variants WHERE id = $1`
	v, err := scanVariant(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get variant: %w", err)
	}
	return v, nil
}

// List lista productos del catálogo con paginación.
func (r *VariantRepo) List(onlyActive bool, limit, offset int) ([]*entity.ProductVariant, error) {
	query := `SELECT ` + variantColumns + ` FROM product_variants`
	if onlyActive {
		query += ` WHERE active = true`
	}
	query += ` ORDER BY medication_name ASC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	defer rows.Close()

	var variants []*entity.ProductVariant
	for rows.Next() {
		v, err := scanVariant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		variants = append(variants, v)
	}
	return variants, rows.Err()
}
