package repository

import "github.com/tu-usuario/farmacia-hospitalaria/internal/domain/entity"

// SheetRepository puerto de persistencia para hojas de consumo consolidado.
// ReplaceLines borra todas las líneas y reinserta el nuevo set (la hoja activa
// se edita por reemplazo completo, nunca línea a línea).
type SheetRepository interface {
	Create(sheet *entity.ConsolidatedSheet) error
	GetByID(id string) (*entity.ConsolidatedSheet, error)
	GetForUpdate(id string) (*entity.ConsolidatedSheet, error)
	UpdateHeader(sheet *entity.ConsolidatedSheet) error
	ReplaceLines(sheetID string, lines []entity.SheetLine) error
	ListByService(serviceID string, state entity.SheetState, limit, offset int) ([]*entity.ConsolidatedSheet, error)
}
