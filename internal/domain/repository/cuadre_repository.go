package repository

import "github.com/tu-usuario/farmacia-hospitalaria/internal/domain/entity"

// CuadreRepository puerto de persistencia para cuadres del stock 24h.
type CuadreRepository interface {
	Create(cuadre *entity.Cuadre) error
	GetByID(id string) (*entity.Cuadre, error)
	GetForUpdate(id string) (*entity.Cuadre, error)
	UpdateHeader(cuadre *entity.Cuadre) error
	UpdateLine(line *entity.CuadreLine) error
	ListRecent(limit, offset int) ([]*entity.Cuadre, error)
}
