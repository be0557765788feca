// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package profile_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/pwdregistry/internal/platform/ctxutil"
	"github.com/taibuivan/pwdregistry/internal/platform/sec"
	"github.com/taibuivan/pwdregistry/internal/users/profile"
)

func TestHandler_Get(t *testing.T) {
	repo := newMemoryRepository()
	repo.profiles[userID] = profile.Profile{UserID: userID, FirstName: "Ana", LastName: "Cruz", RoleID: 2}
	handler := profile.NewHandler(newService(t, repo))

	tests := []struct {
		name   string
		claims *sec.AuthClaims
		target string
		status int
	}{
		{"self", &sec.AuthClaims{UserID: userID, Role: "user"}, userID, http.StatusOK},
		{"admin", &sec.AuthClaims{UserID: "a1", Role: "admin"}, userID, http.StatusOK},
		{"other_user", &sec.AuthClaims{UserID: "u2", Role: "user"}, userID, http.StatusForbidden},
		{"missing_profile", &sec.AuthClaims{UserID: "u2", Role: "user"}, "u2", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/"+tt.target, nil)
			req = req.WithContext(ctxutil.WithAuthUser(req.Context(), tt.claims))
			rec := httptest.NewRecorder()

			handler.Routes().ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				var body struct {
					Data map[string]any `json:"data"`
				}
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, "user", body.Data["role_name"])
				assert.Equal(t, "Ana", body.Data["first_name"])
			}
		})
	}
}
