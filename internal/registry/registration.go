// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package registry stores PWD (persons with disability) registration records.

Each record is a set of typed sections kept as JSONB columns of
pwd.registration. Applicants submit; administrators list, read, amend and
remove. Who may call which endpoint is decided by the authz policy table, not
by this package.
*/
package registry

import "time"

// # Domain Entities

// PersonalInfo identifies the applicant.
type PersonalInfo struct {
	Name        string `json:"name" yaml:"name"`
	Email       string `json:"email" yaml:"email"`
	Phone       string `json:"phone" yaml:"phone"`
	DateOfBirth string `json:"date_of_birth" yaml:"date_of_birth"`
	Gender      string `json:"gender" yaml:"gender"`
}

// DisabilityInfo describes the registered disability.
type DisabilityInfo struct {
	Type          string `json:"type" yaml:"type"`
	Severity      string `json:"severity" yaml:"severity"`
	DiagnosisDate string `json:"diagnosis_date" yaml:"diagnosis_date"`
}

// Education is the highest completed level.
type Education struct {
	Level         string `json:"level" yaml:"level"`
	Institution   string `json:"institution" yaml:"institution"`
	YearCompleted int    `json:"year_completed,omitempty" yaml:"year_completed,omitempty"`
}

// Address is the applicant's residence.
type Address struct {
	Street  string `json:"street" yaml:"street"`
	City    string `json:"city" yaml:"city"`
	State   string `json:"state" yaml:"state"`
	Pincode string `json:"pincode" yaml:"pincode"`
}

// Registration is one row of pwd.registration.
type Registration struct {
	ID              string         `json:"id"`
	SubmittedBy     string         `json:"submitted_by,omitempty"`
	PersonalInfo    PersonalInfo   `json:"personal_info"`
	DisabilityInfo  DisabilityInfo `json:"disability_info"`
	Education       Education      `json:"education"`
	Skills          []string       `json:"skills"`
	Address         Address        `json:"address"`
	GovernmentIDURL string         `json:"government_id_url,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// Input is the writable part of a registration.
type Input struct {
	PersonalInfo    PersonalInfo   `json:"personal_info" yaml:"personal_info"`
	DisabilityInfo  DisabilityInfo `json:"disability_info" yaml:"disability_info"`
	Education       Education      `json:"education" yaml:"education"`
	Skills          []string       `json:"skills" yaml:"skills"`
	Address         Address        `json:"address" yaml:"address"`
	GovernmentIDURL string         `json:"government_id_url" yaml:"government_id_url"`
}

// Patch replaces whole sections; nil sections are left untouched.
type Patch struct {
	PersonalInfo    *PersonalInfo   `json:"personal_info"`
	DisabilityInfo  *DisabilityInfo `json:"disability_info"`
	Education       *Education      `json:"education"`
	Skills          *[]string       `json:"skills"`
	Address         *Address        `json:"address"`
	GovernmentIDURL *string         `json:"government_id_url"`
}

// Filter narrows a registration listing.
type Filter struct {
	// DisabilityTypes matches any of the given types, case-insensitively.
	DisabilityTypes []string

	// City is a case-insensitive substring of address.city.
	City string
}

// # Enumerations

// Recognised severities and genders.
var (
	Severities = []string{"mild", "moderate", "severe", "profound"}
	Genders    = []string{"male", "female", "other", "undisclosed"}
)

// # Field Identifiers

const (
	FieldName            = "personal_info.name"
	FieldEmail           = "personal_info.email"
	FieldPhone           = "personal_info.phone"
	FieldDateOfBirth     = "personal_info.date_of_birth"
	FieldGender          = "personal_info.gender"
	FieldDisabilityType  = "disability_info.type"
	FieldSeverity        = "disability_info.severity"
	FieldDiagnosisDate   = "disability_info.diagnosis_date"
	FieldEducationLevel  = "education.level"
	FieldYearCompleted   = "education.year_completed"
	FieldSkills          = "skills"
	FieldCity            = "address.city"
	FieldPincode         = "address.pincode"
	FieldGovernmentIDURL = "government_id_url"
)

// Length limits.
const (
	MaxTextLength  = 200
	MaxSkills      = 50
	MinYear        = 1900
	MaxPincodeSize = 10
)
