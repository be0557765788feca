// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/pwdregistry/internal/guard"
	"github.com/taibuivan/pwdregistry/internal/portal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, "{}\n"))

	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", cfg.APIURL)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, guard.RouteSignIn, cfg.Routes.SignIn)
	assert.Equal(t, 4, cfg.Routes.MaxHops)

	policy := cfg.Policy()
	assert.Equal(t, guard.RouteAdmin, policy.Redirects.Lookup("Admin"))
	assert.Equal(t, guard.RouteUser, policy.Redirects.Lookup("user"))
	assert.Equal(t, guard.RouteFallback, policy.Redirects.Lookup("auditor"))
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
api_url: https://registry.example
timeout: 3s
routes:
  sign_in: /login
  fallback: /home
  redirects:
    auditor: /reports
  roles:
    /reports: [auditor, admin]
`)
	t.Setenv("PWDPORTAL_API_URL", "https://staging.registry.example")

	cfg, err := config.Load(path)

	require.NoError(t, err)
	assert.Equal(t, "https://staging.registry.example", cfg.APIURL)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, []string{"auditor", "admin"}, cfg.Routes.Roles["/reports"])

	policy := cfg.Policy()
	assert.Equal(t, "/login", policy.SignInRoute)
	assert.Equal(t, "/reports", policy.Redirects.Lookup("AUDITOR"))
	assert.Equal(t, "/home", policy.Redirects.Lookup("nobody"))
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"relative_redirect", "routes:\n  redirects:\n    admin: admin\n"},
		{"zero_hops", "routes:\n  max_hops: 0\n"},
		{"negative_timeout", "timeout: -1s\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
