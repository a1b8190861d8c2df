package model

import "github.com/google/uuid"

// Role is the fixed staff role carried by every user account.
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleGateAdmin  Role = "GATE_ADMIN"
	RoleServant    Role = "SERVANT"
)

// AllRoles lists every role, most privileged first.
var AllRoles = []Role{RoleSuperAdmin, RoleAdmin, RoleGateAdmin, RoleServant}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}
	return false
}

// Actor is the authenticated staff member on whose behalf an operation runs.
type Actor struct {
	UserID uuid.UUID `json:"user_id"`
	Role   Role      `json:"role"`
	Name   string    `json:"name"`
}
