// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/pwdregistry/internal/platform/validate"
	"github.com/taibuivan/pwdregistry/internal/registry"
	"github.com/taibuivan/pwdregistry/pkg/pagination"
)

func TestRenderRegistrations(t *testing.T) {
	assert.Contains(t, renderRegistrations(nil, pagination.Meta{}), "No registrations.")

	page := []registry.Registration{
		{
			ID:             "0192f3b4-aaaa-bbbb-cccc-000000000001",
			PersonalInfo:   registry.PersonalInfo{Name: "Amy Shah"},
			DisabilityInfo: registry.DisabilityInfo{Type: "visual", Severity: "moderate"},
			Address:        registry.Address{City: "Pune"},
			CreatedAt:      time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
		},
	}

	out := renderRegistrations(page, pagination.Meta{Page: 1, Limit: 20, Total: 1, TotalPages: 1})
	for _, want := range []string{"0192f3b4", "Amy Shah", "visual", "Pune", "2026-03-14", "page 1 of 1, 1 total"} {
		assert.Contains(t, out, want)
	}
}

func TestLoadRegistration(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"yaml", "personal_info:\n  name: Raj\n  date_of_birth: 1990-05-01\ndisability_info:\n  diagnosis_date: 2001-11-20\neducation:\n  year_completed: 2012\nskills:\n  - tailoring\naddress:\n  pincode: 411001\n"},
		{"json", `{"personal_info": {"name": "Raj", "date_of_birth": "1990-05-01"}, "disability_info": {"diagnosis_date": "2001-11-20"}, "education": {"year_completed": 2012}, "skills": ["tailoring"], "address": {"pincode": "411001"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			input, err := loadRegistration(path)
			require.NoError(t, err)
			assert.Equal(t, "Raj", input.PersonalInfo.Name)
			assert.Equal(t, "1990-05-01", input.PersonalInfo.DateOfBirth)
			assert.Equal(t, "2001-11-20", input.DisabilityInfo.DiagnosisDate)
			assert.Equal(t, "411001", input.Address.Pincode)
			assert.Equal(t, 2012, input.Education.YearCompleted)
			assert.Equal(t, []string{"tailoring"}, input.Skills)

			dates := new(validate.Validator).
				Date("date_of_birth", input.PersonalInfo.DateOfBirth).
				Date("diagnosis_date", input.DisabilityInfo.DiagnosisDate)
			assert.NoError(t, dates.Err())
		})
	}

	_, err := loadRegistration(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"braille", "typing"}, splitList(" braille, ,typing "))
	assert.Nil(t, splitList(""))
}
