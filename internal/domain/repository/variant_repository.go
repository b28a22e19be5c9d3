package repository

import "github.com/tu-usuario/farmacia-hospitalaria/internal/domain/entity"

// VariantRepository puerto de consulta del catálogo de productos.
// El núcleo solo necesita existencia y clasificación; el CRUD del catálogo
// vive en la capa administrativa.
type VariantRepository interface {
	GetByID(id string) (*entity.ProductVariant, error)
	List(onlyActive bool, limit, offset int) ([]*entity.ProductVariant, error)
}
