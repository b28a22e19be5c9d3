package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/domain/entity"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/domain/repository"
)

var _ repository.RequisitionRepository = (*RequisitionRepo)(nil)

// RequisitionRepo implementación del puerto RequisitionRepository sobre PostgreSQL.
// Cabecera y líneas se insertan juntas; los guards de estado usan GetForUpdate.
type RequisitionRepo struct {
	q Querier
}

// NewRequisitionRepository construye el adaptador de persistencia para requisiciones. Pasar pool o tx (Querier).
func NewRequisitionRepository(q Querier) *RequisitionRepo {
	return &RequisitionRepo{q: q}
}

const requisitionColumns = `id, service_id, dispatch_origin, state, observations, created_by, created_at, approved_by, approved_at, delivered_by, delivered_at, rejected_by, rejected_at`

func scanRequisition(row pgx.Row) (*entity.Requisition, error) {
	var req entity.Requisition
	err := row.Scan(
		&req.ID, &req.ServiceID, &req.DispatchOrigin, &req.State, &req.Observations,
		&req.CreatedBy, &req.CreatedAt, &req.ApprovedBy, &req.ApprovedAt,
		&req.DeliveredBy, &req.DeliveredAt, &req.RejectedBy, &req.RejectedAt,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// Create persiste la requisición con todas sus líneas.
func (r *RequisitionRepo) Create(req *entity.Requisition) error {
	query := `
		INSERT INTO requisitions (` + requisitionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		req.ID, req.ServiceID, req.DispatchOrigin, req.State, req.Observations,
		req.CreatedBy, req.CreatedAt, req.ApprovedBy, req.ApprovedAt,
		req.DeliveredBy, req.DeliveredAt, req.RejectedBy, req.RejectedAt,
	)
	if err != nil {
		return fmt.Errorf("insert requisition: %w", err)
	}
	for i := range req.Lines {
		if err := r.insertLine(req.ID, &req.Lines[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *RequisitionRepo) insertLine(reqID string, line *entity.RequisitionLine) error {
	query := `
		INSERT INTO requisition_lines (id, requisition_id, variant_id, requested, authorized, delivered, unit_cost, lot_id, patient_id, bed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, reqID, line.VariantID, line.Requested, line.Authorized,
		line.Delivered, line.UnitCost, line.LotID, line.PatientID, line.Bed,
	)
	if err != nil {
		return fmt.Errorf("insert requisition line: %w", err)
	}
	return nil
}

// GetByID obtiene la requisición con sus líneas.
func (r *RequisitionRepo) GetByID(id string) (*entity.Requisition, error) {
	query := `SELECT ` + requisitionColumns + ` FROM requisitions WHERE id = $1`
	return r.getOne(query, id)
}

// GetForUpdate obtiene la requisición bloqueando la cabecera. Las líneas no se
// bloquean: solo se mutan bajo el lock de cabecera.
func (r *RequisitionRepo) GetForUpdate(id string) (*entity.Requisition, error) {
	query := `SELECT ` + requisitionColumns + ` FROM requisitions WHERE id = $1 FOR UPDATE`
	return r.getOne(query, id)
}

func (r *RequisitionRepo) getOne(query, id string) (*entity.Requisition, error) {
	req, err := scanRequisition(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get requisition: %w", err)
	}
	if err := r.loadLines(req); err != nil {
		return nil, err
	}
	return req, nil
}

func (r *RequisitionRepo) loadLines(req *entity.Requisition) error {
	query := `
		SELECT id, variant_id, requested, authorized, delivered, unit_cost, lot_id, patient_id, bed
		FROM requisition_lines WHERE requisition_id = $1 ORDER BY id ASC`
	rows, err := r.q.Query(context.Background(), query, req.ID)
	if err != nil {
		return fmt.Errorf("list requisition lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l entity.RequisitionLine
		err := rows.Scan(
			&l.ID, &l.VariantID, &l.Requested, &l.Authorized, &l.Delivered,
			&l.UnitCost, &l.LotID, &l.PatientID, &l.Bed,
		)
		if err != nil {
			return fmt.Errorf("scan requisition line: %w", err)
		}
		req.Lines = append(req.Lines, l)
	}
	return rows.Err()
}

// UpdateHeader actualiza estado, observaciones y estampas de la cabecera.
func (r *RequisitionRepo) UpdateHeader(req *entity.Requisition) error {
	query := `
		UPDATE requisitions SET state = $2, observations = $3,
			approved_by = $4, approved_at = $5,
			delivered_by = $6, delivered_at = $7,
			rejected_by = $8, rejected_at = $9
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		req.ID, req.State, req.Observations,
		req.ApprovedBy, req.ApprovedAt,
		req.DeliveredBy, req.DeliveredAt,
		req.RejectedBy, req.RejectedAt,
	)
	if err != nil {
		return fmt.Errorf("update requisition: %w", err)
	}
	return nil
}

// UpdateLine actualiza cantidades, costo y lote de una línea.
func (r *RequisitionRepo) UpdateLine(line *entity.RequisitionLine) error {
	query := `
		UPDATE requisition_lines SET authorized = $2, delivered = $3, unit_cost = $4, lot_id = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.Authorized, line.Delivered, line.UnitCost, line.LotID,
	)
	if err != nil {
		return fmt.Errorf("update requisition line: %w", err)
	}
	return nil
}

// ListByService lista requisiciones de un servicio, con filtro opcional de estado.
func (r *RequisitionRepo) ListByService(serviceID string, state entity.RequisitionState, limit, offset int) ([]*entity.Requisition, error) {
	query := `SELECT ` + requisitionColumns + ` FROM requisitions WHERE service_id = $1`
	args := []any{serviceID}
	if state != "" {
		query += ` AND state = $2`
		args = append(args, state)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list requisitions: %w", err)
	}
	defer rows.Close()

	var reqs []*entity.Requisition
	for rows.Next() {
		req, err := scanRequisition(rows)
		if err != nil {
			return nil, fmt.Errorf("scan requisition: %w", err)
		}
		reqs = append(reqs, req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, req := range reqs {
		if err := r.loadLines(req); err != nil {
			return nil, err
		}
	}
	return reqs, nil
}
