package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/domain"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/domain/entity"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/domain/repository"
)

var _ repository.Stock24Repository = (*Stock24Repo)(nil)
var _ repository.BufferMovementRepository = (*BufferMovementRepo)(nil)

// Stock24Repo implementación del puerto Stock24Repository sobre PostgreSQL.
// Unicidad: un registro por producto (variant_id UNIQUE).
type Stock24Repo struct {
	q Querier
}

// NewStock24Repository construye el adaptador de persistencia para el stock 24h. Pasar pool o tx (Querier).
func NewStock24Repository(q Querier) *Stock24Repo {
	return &Stock24Repo{q: q}
}

const stock24Columns = `id, variant_id, par_quantity, current_quantity, active, last_replenished_at, created_at, updated_at`

func scanStock24(row pgx.Row) (*entity.Stock24Entry, error) {
	var e entity.Stock24Entry
	err := row.Scan(
		&e.ID, &e.VariantID, &e.ParQuantity, &e.CurrentQuantity, &e.Active,
		&e.LastReplenishedAt, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inscribe un producto en el stock 24h.
func (r *Stock24Repo) Create(entry *entity.Stock24Entry) error {
	query := `
		INSERT INTO stock24_entries (` + stock24Columns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.VariantID, entry.ParQuantity, entry.CurrentQuantity, entry.Active,
		entry.LastReplenishedAt, entry.CreatedAt, entry.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEnrollment
		}
		return fmt.Errorf("insert stock24 entry: %w", err)
	}
	return nil
}

// GetByVariant obtiene el registro de un producto en el stock 24h.
func (r *Stock24Repo) GetByVariant(variantID string) (*entity.Stock24Entry, error) {
	query := `SELECT ` + stock24Columns + ` FROM stock24_entries WHERE variant_id = $1`
	return r.getOne(query, variantID)
}

// GetByVariantForUpdate obtiene el registro bloqueando la fila. Serializa
// consumo, reposición y cuadre sobre el mismo producto.
func (r *Stock24Repo) GetByVariantForUpdate(variantID string) (*entity.Stock24Entry, error) {
	query := `SELECT ` + stock24Columns + ` FROM stock24_entries WHERE variant_id = $1 FOR UPDATE`
	return r.getOne(query, variantID)
}

func (r *Stock24Repo) getOne(query, variantID string) (*entity.Stock24Entry, error) {
	e, err := scanStock24(r.q.QueryRow(context.Background(), query, variantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock24 entry: %w", err)
	}
	return e, nil
}

// Update actualiza par, cantidad actual y estampas del registro.
func (r *Stock24Repo) Update(entry *entity.Stock24Entry) error {
	query := `
		UPDATE stock24_entries SET par_quantity = $2, current_quantity = $3, active = $4,
			last_replenished_at = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.ParQuantity, entry.CurrentQuantity, entry.Active,
		entry.LastReplenishedAt, entry.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update stock24 entry: %w", err)
	}
	return nil
}

// ListActive lista los productos inscritos activos del stock 24h.
func (r *Stock24Repo) ListActive() ([]*entity.Stock24Entry, error) {
	query := `SELECT ` + stock24Columns + ` FROM stock24_entries WHERE active = true ORDER BY created_at ASC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list stock24 entries: %w", err)
	}
	defer rows.Close()

	var entries []*entity.Stock24Entry
	for rows.Next() {
		e, err := scanStock24(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock24 entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// BufferMovementRepo implementación del historial de movimientos del stock 24h.
// Append-only, igual que los movimientos de almacén.
type BufferMovementRepo struct {
	q Querier
}

// NewBufferMovementRepository construye el adaptador del historial del stock 24h. Pasar pool o tx (Querier).
func NewBufferMovementRepository(q Querier) *BufferMovementRepo {
	return &BufferMovementRepo{q: q}
}

// Create persiste un movimiento del stock 24h.
func (r *BufferMovementRepo) Create(mov *entity.BufferMovement) error {
	query := `
		INSERT INTO buffer_movements (id, variant_id, type, quantity, reference, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		mov.ID, mov.VariantID, mov.Type, mov.Quantity, mov.Reference, mov.CreatedAt, mov.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert buffer movement: %w", err)
	}
	return nil
}

// ListByVariant lista el historial de un producto, del más reciente al más antiguo.
func (r *BufferMovementRepo) ListByVariant(variantID string, limit, offset int) ([]*entity.BufferMovement, error) {
	query := `
		SELECT id, variant_id, type, quantity, reference, created_at, created_by
		FROM buffer_movements WHERE variant_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, variantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list buffer movements: %w", err)
	}
	defer rows.Close()

	var movs []*entity.BufferMovement
	for rows.Next() {
		var m entity.BufferMovement
		err := rows.Scan(&m.ID, &m.VariantID, &m.Type, &m.Quantity, &m.Reference, &m.CreatedAt, &m.CreatedBy)
		if err != nil {
			return nil, fmt.Errorf("scan buffer movement: %w", err)
		}
		movs = append(movs, &m)
	}
	return movs, rows.Err()
}
