package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/domain"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/domain/entity"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

// LotRepo implementación del puerto LotRepository sobre PostgreSQL (usable con pool o tx).
// La columna sequence es un bigserial: el orden de inserción queda fijado por la BD.
type LotRepo struct {
	q Querier
}

// NewLotRepository construye el adaptador de persistencia para lotes. Pasar pool o tx (Querier).
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

const lotColumns = `id, variant_id, lot_number, expiry, unit_cost, quantity, provider_id, active, sequence, created_at, updated_at`

func scanLot(row pgx.Row) (*entity.Lot, error) {
	var l entity.Lot
	err := row.Scan(
		&l.ID, &l.VariantID, &l.LotNumber, &l.Expiry, &l.UnitCost, &l.Quantity,
		&l.ProviderID, &l.Active, &l.Sequence, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// Create persiste un lote nuevo. Sequence lo asigna la BD (bigserial).
func (r *LotRepo) Create(lot *entity.Lot) error {
	query := `
		INSERT INTO lots (id, variant_id, lot_number, expiry, unit_cost, quantity, provider_id, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING sequence`
	err := r.q.QueryRow(context.Background(), query,
		lot.ID, lot.VariantID, lot.LotNumber, lot.Expiry, lot.UnitCost, lot.Quantity,
		lot.ProviderID, lot.Active, lot.CreatedAt, lot.UpdatedAt,
	).Scan(&lot.Sequence)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateLot
		}
		return fmt.Errorf("insert lot: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID.
func (r *LotRepo) GetByID(id string) (*entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots WHERE id = $1`
	return r.getOne(query, id)
}

// GetByIDForUpdate obtiene un lote por ID bloqueando la fila.
func (r *LotRepo) GetByIDForUpdate(id string) (*entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots WHERE id = $1 FOR UPDATE`
	return r.getOne(query, id)
}

// GetByNumber obtiene un lote por producto y número de lote.
func (r *LotRepo) GetByNumber(variantID, lotNumber string) (*entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots WHERE variant_id = $1 AND lot_number = $2`
	return r.getOne(query, variantID, lotNumber)
}

// GetByNumberForUpdate obtiene un lote por producto y número bloqueando la fila.
// Serializa dos recepciones concurrentes del mismo número de lote.
func (r *LotRepo) GetByNumberForUpdate(variantID, lotNumber string) (*entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots WHERE variant_id = $1 AND lot_number = $2 FOR UPDATE`
	return r.getOne(query, variantID, lotNumber)
}

func (r *LotRepo) getOne(query string, args ...any) (*entity.Lot, error) {
	l, err := scanLot(r.q.QueryRow(context.Background(), query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lot: %w", err)
	}
	return l, nil
}

// Update actualiza los términos del lote: vencimiento, costo, cantidad, activo.
// Sequence no cambia: la reactivación conserva el orden de inserción original.
func (r *LotRepo) Update(lot *entity.Lot) error {
	query := `
		UPDATE lots SET expiry = $2, unit_cost = $3, quantity = $4, provider_id = $5, active = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		lot.ID, lot.Expiry, lot.UnitCost, lot.Quantity, lot.ProviderID, lot.Active, lot.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update lot: %w", err)
	}
	return nil
}

// UpdateQuantity actualiza solo la cantidad restante del lote.
func (r *LotRepo) UpdateQuantity(id string, quantity decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE lots SET quantity = $2, updated_at = now() WHERE id = $1`,
		id, quantity,
	)
	if err != nil {
		return fmt.Errorf("update lot quantity: %w", err)
	}
	return nil
}

// SelectFEFO devuelve el lote activo con stock de vencimiento más próximo;
// empates por sequence (orden de inserción). nil sin error si no hay candidato.
func (r *LotRepo) SelectFEFO(variantID string) (*entity.Lot, error) {
	query := `
		SELECT ` + lotColumns + ` FROM lots
		WHERE variant_id = $1 AND active = true AND quantity > 0
		ORDER BY expiry ASC, sequence ASC
		LIMIT 1`
	return r.getOne(query, variantID)
}

// ListByVariant lista los lotes de un producto, opcionalmente solo activos.
func (r *LotRepo) ListByVariant(variantID string, onlyActive bool) ([]*entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots WHERE variant_id = $1`
	if onlyActive {
		query += ` AND active = true`
	}
	query += ` ORDER BY expiry ASC, sequence ASC`
	rows, err := r.q.Query(context.Background(), query, variantID)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	defer rows.Close()

	var lots []*entity.Lot
	for rows.Next() {
		l, err := scanLot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lot: %w", err)
		}
		lots = append(lots, l)
	}
	return lots, rows.Err()
}
