// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/pwdregistry/internal/platform/apperr"
	"github.com/taibuivan/pwdregistry/internal/platform/constants"
	"github.com/taibuivan/pwdregistry/internal/platform/ctxutil"
	"github.com/taibuivan/pwdregistry/internal/platform/respond"
	"github.com/taibuivan/pwdregistry/internal/platform/sec"
)

// TokenVerifier verifies bearer tokens.
type TokenVerifier interface {
	VerifyToken(tokenString string) (*sec.AuthClaims, error)
}

// PolicyChecker answers whether a role may call method on path.
type PolicyChecker interface {
	Allowed(role sec.UserRole, path, method string) (bool, error)
}

type claimsHolderKey struct{}

// claimsHolder carries the authenticated user id back to StructuredLogger.
type claimsHolder struct {
	userID string
}

func withClaimsHolder(ctx context.Context, holder *claimsHolder) context.Context {
	return context.WithValue(ctx, claimsHolderKey{}, holder)
}

// Authenticate verifies an optional bearer token. Requests without one pass
// through as anonymous; a malformed or invalid token is rejected.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			header := request.Header.Get(constants.HeaderAuthorization)
			if header == "" {
				next.ServeHTTP(writer, request)
				return
			}

			scheme, token, found := strings.Cut(header, " ")
			if !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			claims, err := verifier.VerifyToken(strings.TrimSpace(token))
			if err != nil {
				ctxutil.GetLogger(request.Context()).Debug("auth_token_rejected", slog.Any("error", err))
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			if holder, ok := request.Context().Value(claimsHolderKey{}).(*claimsHolder); ok {
				holder.userID = claims.UserID
			}

			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth rejects anonymous requests. Mount after [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetAuthUser(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole rejects callers whose role is not role. Implies [RequireAuth].
func RequireRole(role sec.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := ctxutil.GetAuthUser(request.Context())
			if claims == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}
			if sec.ParseRole(claims.Role) != sec.ParseRole(string(role)) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}

// Authorize checks the caller's role against the policy table for the
// request path, ignoring a trailing slash. Implies [RequireAuth].
func Authorize(checker PolicyChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := ctxutil.GetAuthUser(request.Context())
			if claims == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			path := request.URL.Path
			if len(path) > 1 {
				path = strings.TrimSuffix(path, "/")
			}

			allowed, err := checker.Allowed(sec.UserRole(claims.Role), path, request.Method)
			if err != nil {
				respond.Error(writer, request, apperr.Internal(err))
				return
			}
			if !allowed {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
