package entity

import "time"

// Roles válidos para User, ordenados por jerarquía.
const (
	RoleFuncionario = "funcionario" // rol base: solicita y recibe ítems
	RoleAlmacenista = "almacenista" // bodeguero: aprueba solicitudes y devoluciones
	RoleGerente     = "gerente"
	RoleAdmin       = "admin"
)

// roleRank jerarquía única de roles; toda verificación de permisos pasa por aquí
// en lugar de comparaciones de strings repartidas por los handlers.
var roleRank = map[string]int{
	RoleFuncionario: 1,
	RoleAlmacenista: 2,
	RoleGerente:     3,
	RoleAdmin:       4,
}

// RoleRank devuelve el rango numérico de un rol; 0 si el rol es desconocido.
func RoleRank(role string) int {
	return roleRank[role]
}

// HasMinRole indica si role alcanza al menos la jerarquía de min.
func HasMinRole(role, min string) bool {
	r, m := roleRank[role], roleRank[min]
	return r > 0 && m > 0 && r >= m
}

// IsElevated indica si el rol puede aprobar solicitudes y devoluciones a bodega
// (almacenista, gerente o admin).
func IsElevated(role string) bool {
	return HasMinRole(role, RoleAlmacenista)
}

// User representa un usuario del sistema (pertenece a una Company).
type User struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // funcionario, almacenista, gerente, admin
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
