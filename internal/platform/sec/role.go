// Copyright (c) 2026 Souq. All rights reserved.

package sec

// # User Roles

// Role represents the authorization level granted to an account.
type Role string

const (
	// Unrestricted system access, bootstrapped via the seed command
	RoleSuperAdmin Role = "super_admin"

	// Can manage the catalog and issue access codes
	RoleAdmin Role = "admin"

	// Default role for standard registered users
	RoleUser Role = "user"
)

// Valid reports whether the role is one of the closed enumeration.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleUser:
		return true
	}
	return false
}

// Roles returns the closed set of valid role names.
// Used by validators that accept a role as input (access-code generation).
func Roles() []string {
	return []string{string(RoleSuperAdmin), string(RoleAdmin), string(RoleUser)}
}
