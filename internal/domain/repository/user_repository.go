package repository

import "github.com/tu-usuario/farmacia-hospitalaria/internal/domain/entity"

// UserRepository puerto de persistencia para el personal del sistema.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
	Update(user *entity.User) error
}
