package entity

import "time"

// Roles de usuario.
const (
	RoleAdmin    = "admin"    // administra catálogo y ubicaciones
	RoleOperador = "operador" // opera handhelds, solo escaneo y consultas
)

// User operador o administrador del sistema de escaneo.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
