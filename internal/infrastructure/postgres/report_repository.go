package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/farmacia-hospitalaria/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de solo lectura para reportes. Opera sobre el pool,
// nunca dentro de transacciones.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador de consultas de reporte.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// StockState lista los lotes activos con stock junto a su producto. Con
// variantID vacío devuelve el almacén completo.
func (r *ReportRepo) StockState(ctx context.Context, variantID string) ([]repository.StockStateRow, error) {
	query := `
		SELECT v.id, v.medication_name, v.classification, v.reorder_point,
			l.id, l.lot_number, l.expiry, l.unit_cost, l.quantity
		FROM lots l
		JOIN product_variants v ON v.id = l.variant_id
		WHERE l.active = true AND l.quantity > 0`
	args := []any{}
	if variantID != "" {
		query += ` AND v.id = $1`
		args = append(args, variantID)
	}
	query += ` ORDER BY v.medication_name ASC, l.expiry ASC, l.sequence ASC`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query stock state: %w", err)
	}
	defer rows.Close()

	var result []repository.StockStateRow
	for rows.Next() {
		var row repository.StockStateRow
		err := rows.Scan(
			&row.VariantID, &row.MedicationName, &row.Classification, &row.ReorderPoint,
			&row.LotID, &row.LotNumber, &row.Expiry, &row.UnitCost, &row.Quantity,
		)
		if err != nil {
			return nil, fmt.Errorf("scan stock state row: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
