// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package routes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/pwdregistry/internal/portal/routes"
)

func TestDefault(t *testing.T) {
	table := routes.Default()

	tests := []struct {
		path      string
		protected bool
		roles     []string
	}{
		{"/", false, nil},
		{"/auth/login", false, nil},
		{"/auth/register", false, nil},
		{"/dashboard", true, nil},
		{"/pwd/register/", true, []string{"user"}},
		{"admin", true, []string{"admin"}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			route, ok := table.Lookup(tt.path)
			require.True(t, ok)
			assert.Equal(t, tt.protected, route.Protected)
			assert.Equal(t, tt.roles, route.Requirement.Roles())
		})
	}

	_, ok := table.Lookup("/missing")
	assert.False(t, ok)
	assert.Len(t, table.All(), 6)
}

func TestWithRoles(t *testing.T) {
	base := routes.Default()
	table := base.WithRoles(map[string][]string{
		"/admin":   {"admin", "auditor"},
		"/reports": {"auditor"},
	})

	admin, _ := table.Lookup("/admin")
	assert.True(t, admin.Requirement.Matches("Auditor"))
	assert.Equal(t, "Administration", admin.Title)

	reports, ok := table.Lookup("/reports")
	require.True(t, ok)
	assert.True(t, reports.Protected)

	original, _ := base.Lookup("/admin")
	assert.False(t, original.Requirement.Matches("auditor"), "the base table is unchanged")
}
