// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// PwdUserTable represents the 'pwd.user' profile table
type PwdUserTable struct {
	Table      string
	UserID     string
	FirstName  string
	MiddleName string
	LastName   string
	Mobile     string
	RoleID     string
	CreatedAt  string
	UpdatedAt  string
}

// PwdUser is the schema definition for pwd.user
var PwdUser = PwdUserTable{
	Table:      "pwd.user",
	UserID:     "userid",
	FirstName:  "firstname",
	MiddleName: "middlename",
	LastName:   "lastname",
	Mobile:     "mobile",
	RoleID:     "roleid",
	CreatedAt:  "createdat",
	UpdatedAt:  "updatedat",
}

// PwdRoleTable represents the 'pwd.role' lookup table
type PwdRoleTable struct {
	Table    string
	ID       string
	RoleName string
}

// PwdRole is the schema definition for pwd.role
var PwdRole = PwdRoleTable{
	Table:    "pwd.role",
	ID:       "id",
	RoleName: "rolename",
}
