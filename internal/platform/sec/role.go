// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"strings"

	"golang.org/x/text/cases"
)

// # Roles

// UserRole is the authorization level granted to an account. Values mirror
// the rows of pwd.role.
type UserRole string

const (
	// Registry staff. Reviews and manages every registration.
	RoleAdmin UserRole = "admin"

	// Self-registered applicant.
	RoleUser UserRole = "user"
)

// Role ids seeded by the initial migration.
const (
	RoleIDAdmin = 1
	RoleIDUser  = 2
)

// ParseRole folds name into a [UserRole]. Unknown names are returned folded
// but unchanged otherwise.
func ParseRole(name string) UserRole {
	return UserRole(cases.Fold().String(strings.TrimSpace(name)))
}

// IsAdmin reports whether r is the admin role.
func (r UserRole) IsAdmin() bool {
	return ParseRole(string(r)) == RoleAdmin
}

// String returns the role name.
func (r UserRole) String() string {
	return string(r)
}
