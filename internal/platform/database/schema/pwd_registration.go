// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns the stores build queries from.
package schema

// PwdRegistrationTable represents the 'pwd.registration' table
type PwdRegistrationTable struct {
	Table           string
	ID              string
	SubmittedBy     string
	PersonalInfo    string
	DisabilityInfo  string
	Education       string
	Skills          string
	Address         string
	GovernmentIDURL string
	CreatedAt       string
	UpdatedAt       string
}

// PwdRegistration is the schema definition for pwd.registration
var PwdRegistration = PwdRegistrationTable{
	Table:           "pwd.registration",
	ID:              "id",
	SubmittedBy:     "submittedby",
	PersonalInfo:    "personalinfo",
	DisabilityInfo:  "disabilityinfo",
	Education:       "education",
	Skills:          "skills",
	Address:         "address",
	GovernmentIDURL: "governmentidurl",
	CreatedAt:       "createdat",
	UpdatedAt:       "updatedat",
}

func (t PwdRegistrationTable) Columns() []string {
	return []string{
		t.ID, t.SubmittedBy, t.PersonalInfo, t.DisabilityInfo, t.Education,
		t.Skills, t.Address, t.GovernmentIDURL, t.CreatedAt, t.UpdatedAt,
	}
}

// JSONField addresses a text field inside a JSONB column, e.g.
// address->>'city'.
func (t PwdRegistrationTable) JSONField(column, key string) string {
	return column + "->>'" + key + "'"
}
