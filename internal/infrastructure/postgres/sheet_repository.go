package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/domain/entity"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/domain/repository"
)

var _ repository.SheetRepository = (*SheetRepo)(nil)

// SheetRepo implementación del puerto SheetRepository sobre PostgreSQL.
// La edición es por reemplazo completo de líneas (delete + insert en la tx).
type SheetRepo struct {
	q Querier
}

// NewSheetRepository construye el adaptador de persistencia para hojas consolidadas. Pasar pool o tx (Querier).
func NewSheetRepository(q Querier) *SheetRepo {
	return &SheetRepo{q: q}
}

const sheetColumns = `id, service_id, shift, date, state, observations, total_items, total_cost, created_by, created_at, closed_at`

func scanSheet(row pgx.Row) (*entity.ConsolidatedSheet, error) {
	var s entity.ConsolidatedSheet
	err := row.Scan(
		&s.ID, &s.ServiceID, &s.Shift, &s.Date, &s.State, &s.Observations,
		&s.TotalItems, &s.TotalCost, &s.CreatedBy, &s.CreatedAt, &s.ClosedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create persiste la hoja con todas sus líneas.
func (r *SheetRepo) Create(sheet *entity.ConsolidatedSheet) error {
	query := `
		INSERT INTO consolidated_sheets (` + sheetColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		sheet.ID, sheet.ServiceID, sheet.Shift, sheet.Date, sheet.State, sheet.Observations,
		sheet.TotalItems, sheet.TotalCost, sheet.CreatedBy, sheet.CreatedAt, sheet.ClosedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sheet: %w", err)
	}
	return r.insertLines(sheet.ID, sheet.Lines)
}

func (r *SheetRepo) insertLines(sheetID string, lines []entity.SheetLine) error {
	query := `
		INSERT INTO sheet_lines (id, sheet_id, bed, patient_id, record_number, sex, variant_id, quantity, unit_cost, delivered, lot_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	for i := range lines {
		l := &lines[i]
		_, err := r.q.Exec(context.Background(), query,
			l.ID, sheetID, l.Bed, l.PatientID, l.RecordNumber, l.Sex,
			l.VariantID, l.Quantity, l.UnitCost, l.Delivered, l.LotID,
		)
		if err != nil {
			return fmt.Errorf("insert sheet line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la hoja con sus líneas.
func (r *SheetRepo) GetByID(id string) (*entity.ConsolidatedSheet, error) {
	query := `SELECT ` + sheetColumns + ` FROM consolidated_sheets WHERE id = $1`
	return r.getOne(query, id)
}

// GetForUpdate obtiene la hoja bloqueando la cabecera.
func (r *SheetRepo) GetForUpdate(id string) (*entity.ConsolidatedSheet, error) {
	query := `SELECT ` + sheetColumns + ` FROM consolidated_sheets WHERE id = $1 FOR UPDATE`
	return r.getOne(query, id)
}

func (r *SheetRepo) getOne(query, id string) (*entity.ConsolidatedSheet, error) {
	sheet, err := scanSheet(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sheet: %w", err)
	}
	if err := r.loadLines(sheet); err != nil {
		return nil, err
	}
	return sheet, nil
}

func (r *SheetRepo) loadLines(sheet *entity.ConsolidatedSheet) error {
	query := `
		SELECT id, bed, patient_id, record_number, sex, variant_id, quantity, unit_cost, delivered, lot_id
		FROM sheet_lines WHERE sheet_id = $1 ORDER BY bed ASC, id ASC`
	rows, err := r.q.Query(context.Background(), query, sheet.ID)
	if err != nil {
		return fmt.Errorf("list sheet lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l entity.SheetLine
		err := rows.Scan(
			&l.ID, &l.Bed, &l.PatientID, &l.RecordNumber, &l.Sex,
			&l.VariantID, &l.Quantity, &l.UnitCost, &l.Delivered, &l.LotID,
		)
		if err != nil {
			return fmt.Errorf("scan sheet line: %w", err)
		}
		sheet.Lines = append(sheet.Lines, l)
	}
	return rows.Err()
}

// UpdateHeader actualiza estado, observaciones, totales y estampas de la cabecera.
func (r *SheetRepo) UpdateHeader(sheet *entity.ConsolidatedSheet) error {
	query := `
		UPDATE consolidated_sheets SET shift = $2, date = $3, state = $4, observations = $5,
			total_items = $6, total_cost = $7, closed_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		sheet.ID, sheet.Shift, sheet.Date, sheet.State, sheet.Observations,
		sheet.TotalItems, sheet.TotalCost, sheet.ClosedAt,
	)
	if err != nil {
		return fmt.Errorf("update sheet: %w", err)
	}
	return nil
}

// ReplaceLines borra todas las líneas de la hoja y reinserta el set recibido.
func (r *SheetRepo) ReplaceLines(sheetID string, lines []entity.SheetLine) error {
	if _, err := r.q.Exec(context.Background(), `DELETE FROM sheet_lines WHERE sheet_id = $1`, sheetID); err != nil {
		return fmt.Errorf("delete sheet lines: %w", err)
	}
	return r.insertLines(sheetID, lines)
}

// ListByService lista hojas de un servicio, con filtro opcional de estado.
func (r *SheetRepo) ListByService(serviceID string, state entity.SheetState, limit, offset int) ([]*entity.ConsolidatedSheet, error) {
	query := `SELECT ` + sheetColumns + ` FROM consolidated_sheets WHERE service_id = $1`
	args := []any{serviceID}
	if state != "" {
		query += ` AND state = $2`
		args = append(args, state)
	}
	query += fmt.Sprintf(` ORDER BY date DESC, created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sheets: %w", err)
	}
	defer rows.Close()

	var sheets []*entity.ConsolidatedSheet
	for rows.Next() {
		sheet, err := scanSheet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sheet: %w", err)
		}
		sheets = append(sheets, sheet)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, sheet := range sheets {
		if err := r.loadLines(sheet); err != nil {
			return nil, err
		}
	}
	return sheets, nil
}
