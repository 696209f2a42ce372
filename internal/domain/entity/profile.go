package entity

import "time"

// Roles de usuario.
const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleEmployee = "employee"
)

// Profile representa la identidad de un actor autenticado.
// El core solo usa su ID para created_by; roles y sesión son asunto de la capa HTTP.
type Profile struct {
	ID           string
	Email        string
	FullName     string
	Role         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
