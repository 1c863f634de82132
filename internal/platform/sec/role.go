// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// UserRole is an optional label copied into issued tokens.
//
// Roles are informational only; no route is gated on them.
type UserRole string

const (
	// RoleNone marks an account without a role. It is omitted from tokens.
	RoleNone UserRole = ""

	// Default role for standard registered users
	RoleMember UserRole = "member"

	// Operator accounts created out of band
	RoleAdmin UserRole = "admin"
)

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleNone, RoleMember, RoleAdmin:
		return true
	default:
		return false
	}
}
