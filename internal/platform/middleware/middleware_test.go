// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/pwdregistry/internal/platform/ctxutil"
	"github.com/taibuivan/pwdregistry/internal/platform/middleware"
	"github.com/taibuivan/pwdregistry/internal/platform/sec"
)

type stubVerifier struct {
	claims *sec.AuthClaims
	err    error
}

func (v stubVerifier) VerifyToken(string) (*sec.AuthClaims, error) {
	return v.claims, v.err
}

type stubChecker struct {
	allowed bool
	err     error
}

func (c stubChecker) Allowed(sec.UserRole, string, string) (bool, error) {
	return c.allowed, c.err
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := middleware.RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ctxutil.GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "given")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "given", seen)
}

func TestAuthenticate(t *testing.T) {
	claims := &sec.AuthClaims{UserID: "u1", Role: "user"}

	tests := []struct {
		name     string
		header   string
		verifier stubVerifier
		status   int
		wantUser bool
	}{
		{"anonymous", "", stubVerifier{}, http.StatusOK, false},
		{"valid_token", "Bearer abc", stubVerifier{claims: claims}, http.StatusOK, true},
		{"scheme_case_insensitive", "bearer abc", stubVerifier{claims: claims}, http.StatusOK, true},
		{"bad_format", "Token", stubVerifier{claims: claims}, http.StatusUnauthorized, false},
		{"rejected_token", "Bearer abc", stubVerifier{err: errors.New("expired")}, http.StatusUnauthorized, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUser bool
			handler := middleware.Authenticate(tt.verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUser = ctxutil.GetAuthUser(r.Context()) != nil
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.wantUser, gotUser)
		})
	}
}

func TestRequireAuth(t *testing.T) {
	handler := middleware.RequireAuth(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(ctxutil.WithAuthUser(req.Context(), &sec.AuthClaims{UserID: "u1"}))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole(t *testing.T) {
	handler := middleware.RequireRole(sec.RoleAdmin)(okHandler())

	serve := func(role string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(ctxutil.WithAuthUser(req.Context(), &sec.AuthClaims{UserID: "u1", Role: role}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, serve("admin"))
	assert.Equal(t, http.StatusOK, serve("ADMIN"))
	assert.Equal(t, http.StatusForbidden, serve("user"))
}

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name    string
		checker stubChecker
		claims  *sec.AuthClaims
		status  int
	}{
		{"anonymous", stubChecker{allowed: true}, nil, http.StatusUnauthorized},
		{"allowed", stubChecker{allowed: true}, &sec.AuthClaims{Role: "admin"}, http.StatusOK},
		{"denied", stubChecker{allowed: false}, &sec.AuthClaims{Role: "user"}, http.StatusForbidden},
		{"checker_error", stubChecker{err: errors.New("bad model")}, &sec.AuthClaims{Role: "user"}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/registrations", nil)
			if tt.claims != nil {
				req = req.WithContext(ctxutil.WithAuthUser(req.Context(), tt.claims))
			}
			rec := httptest.NewRecorder()
			middleware.Authorize(tt.checker)(okHandler()).ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestRateLimiter(t *testing.T) {
	limiter := middleware.NewRateLimiter(1, 2)
	handler := limiter.Handler(okHandler())

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.True(t, limiter.Allow("10.0.0.2"))
}

func TestPanicRecovery(t *testing.T) {
	handler := middleware.PanicRecovery(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_ERROR")
}

type envConfig bool

func (c envConfig) IsDevelopment() bool { return bool(c) }

func TestCORS(t *testing.T) {
	origins := middleware.ParseOrigins(" https://portal.example.org , ,https://admin.example.org")
	assert.Len(t, origins, 2)

	handler := middleware.CORS(envConfig(false), origins)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://portal.example.org")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "https://portal.example.org", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRealIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "192.0.2.1", middleware.RealIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")
	assert.Equal(t, "203.0.113.5", middleware.RealIP(req))

	req.Header.Set("X-Real-IP", "198.51.100.7")
	assert.Equal(t, "198.51.100.7", middleware.RealIP(req))
}
