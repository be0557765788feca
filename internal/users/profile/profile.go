// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package profile serves the registry attributes stored against each account
(pwd.user) together with the name of the role they reference (pwd.role).

Reads go through a bounded LRU cache keyed by account id. Writes evict the
entry so the next read sees the new row.
*/
package profile

import "time"

// Profile is a pwd.user row joined with its role name. The JSON shape is the
// one clients decode into their session profile.
type Profile struct {
	UserID     string    `json:"user_id"`
	FirstName  string    `json:"first_name"`
	MiddleName string    `json:"middle_name,omitempty"`
	LastName   string    `json:"last_name"`
	Mobile     string    `json:"mobile,omitempty"`
	RoleID     int       `json:"role_id"`
	RoleName   string    `json:"role_name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateInput is what registration stores for a new account.
type CreateInput struct {
	UserID     string
	FirstName  string
	MiddleName string
	LastName   string
	Mobile     string

	// RoleID of zero means the service default.
	RoleID int
}
