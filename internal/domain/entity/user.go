package entity

import "time"

// Roles del personal.
const (
	RoleManager = "gerente"
	RoleWaiter  = "mesero"
	RoleCook    = "cocinero"
)

// IsValidRole valida el rol.
func IsValidRole(role string) bool {
	return role == RoleManager || role == RoleWaiter || role == RoleCook
}

// User miembro del personal. Deleted es borrado lógico: conserva las ventas asociadas.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string // bcrypt
	Role         string
	Deleted      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
