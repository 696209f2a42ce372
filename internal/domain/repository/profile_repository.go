package repository

import "github.com/tu-usuario/repuestos-pos/internal/domain/entity"

// ProfileRepository define el puerto de persistencia para perfiles de usuario.
type ProfileRepository interface {
	Create(profile *entity.Profile) error
	GetByID(id string) (*entity.Profile, error)
	GetByEmail(email string) (*entity.Profile, error)
}
