package repository

import "github.com/tu-usuario/farmacia-hospitalaria/internal/domain/entity"

// RequisitionRepository puerto de persistencia para requisiciones.
// La cabecera y sus líneas se escriben en la misma transacción; el guard de
// estado se verifica sobre la fila bloqueada (GetForUpdate) para que dos
// aprobaciones concurrentes no observen ambas "pending".
type RequisitionRepository interface {
	Create(req *entity.Requisition) error
	GetByID(id string) (*entity.Requisition, error)
	GetForUpdate(id string) (*entity.Requisition, error)
	UpdateHeader(req *entity.Requisition) error
	UpdateLine(line *entity.RequisitionLine) error
	ListByService(serviceID string, state entity.RequisitionState, limit, offset int) ([]*entity.Requisition, error)
}
