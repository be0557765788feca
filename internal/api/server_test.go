// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/pwdregistry/internal/api"
	"github.com/taibuivan/pwdregistry/internal/platform/apperr"
	"github.com/taibuivan/pwdregistry/internal/platform/authz"
	"github.com/taibuivan/pwdregistry/internal/platform/config"
	"github.com/taibuivan/pwdregistry/internal/platform/sec"
	"github.com/taibuivan/pwdregistry/internal/registry"
	"github.com/taibuivan/pwdregistry/internal/users/auth"
	"github.com/taibuivan/pwdregistry/internal/users/profile"
)

// tokenTable maps bearer tokens straight to claims.
type tokenTable map[string]*sec.AuthClaims

func (table tokenTable) VerifyToken(token string) (*sec.AuthClaims, error) {
	claims, ok := table[token]
	if !ok {
		return nil, errors.New("unknown token")
	}
	return claims, nil
}

type emptyRegistry struct{ registry.Repository }

func (emptyRegistry) List(context.Context, registry.Filter, int, int) ([]*registry.Registration, int, error) {
	return []*registry.Registration{}, 0, nil
}

type emptyProfiles struct{ profile.Repository }

func (emptyProfiles) FindByUserID(context.Context, string) (*profile.Profile, error) {
	return nil, apperr.NotFound("Profile")
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	policy, err := authz.NewDefaultEnforcer()
	require.NoError(t, err)

	profiles, err := profile.NewService(emptyProfiles{}, 16, sec.RoleIDUser)
	require.NoError(t, err)

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{}, discard)
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(auth.NewService(nil, nil, nil, nil, nil, profiles, nil, auth.Options{}), false),
		Profile:   profile.NewHandler(profiles),
		Registry:  registry.NewHandler(registry.NewService(emptyRegistry{})),
	}

	verifier := tokenTable{
		"user-token":  {UserID: "u1", Role: "user"},
		"admin-token": {UserID: "a1", Role: "admin"},
		"bare-token":  {UserID: "p1"},
	}

	cfg := &config.Config{ServerPort: "0", Environment: "test"}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	return api.NewServer(ctx, cfg, discard, verifier, policy, handlers).Handler()
}

func TestServer_Authorization(t *testing.T) {
	server := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		status int
	}{
		{"health_is_public", http.MethodGet, "/health", "", http.StatusOK},
		{"list_anonymous", http.MethodGet, "/api/v1/registrations", "", http.StatusUnauthorized},
		{"list_as_user", http.MethodGet, "/api/v1/registrations", "user-token", http.StatusForbidden},
		{"list_as_admin", http.MethodGet, "/api/v1/registrations", "admin-token", http.StatusOK},
		{"list_trailing_slash", http.MethodGet, "/api/v1/registrations/", "admin-token", http.StatusOK},
		{"list_without_role", http.MethodGet, "/api/v1/registrations", "bare-token", http.StatusForbidden},
		{"delete_as_user", http.MethodDelete, "/api/v1/registrations/0190a5d2-6f1e-7c3a-9b1e-2f4d5c6b7a80", "user-token", http.StatusForbidden},
		{"own_profile_missing", http.MethodGet, "/api/v1/profiles/u1", "user-token", http.StatusNotFound},
		{"other_profile", http.MethodGet, "/api/v1/profiles/u2", "user-token", http.StatusForbidden},
		{"invalid_token", http.MethodGet, "/api/v1/registrations", "forged", http.StatusUnauthorized},
		{"session_anonymous", http.MethodGet, "/api/v1/auth/session", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()

			server.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
