package entity

import "time"

// Roles válidos para User (personal del hospital).
const (
	RoleAdmin        = "admin"
	RoleFarmaceutico = "farmaceutico"
	RoleEnfermero    = "enfermero"
)

// User representa un usuario del sistema: el actor cuya identidad estampa
// creaciones, aprobaciones y entregas. Opaco para el núcleo más allá del ID.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, farmaceutico, enfermero
	ServiceID    string // servicio hospitalario al que pertenece, vacío para admin
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
