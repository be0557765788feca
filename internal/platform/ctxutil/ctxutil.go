// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package ctxutil carries per-request values of the registry API through
[context.Context].

The middleware chain attaches the request ID and a request-scoped logger to
every request, and the auth middleware attaches the verified access token
claims. Handlers and services read them back: services log through
[GetLogger] so each line carries the request ID, and the profile handler uses
[IsSelfOrAdmin] to let applicants read only their own profile.
*/
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/pwdregistry/internal/platform/ctxkey"
	"github.com/taibuivan/pwdregistry/internal/platform/sec"
)

// # Request Tracing

// WithRequestID returns a new context with the provided request ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID retrieves the request ID from the context.
// Returns an empty string if not found.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger returns a new context with the provided logger attached.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger retrieves the logger from the context.
// If no logger is found, it returns the global default logger.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return logger
}

// # Identity & Access

// WithAuthUser returns a new context with the provided auth claims attached.
func WithAuthUser(ctx context.Context, user *sec.AuthClaims) context.Context {
	return context.WithValue(ctx, ctxkey.KeyUser, user)
}

// GetAuthUser retrieves the [*sec.AuthClaims] from the [context.Context].
func GetAuthUser(ctx context.Context) *sec.AuthClaims {
	claims, ok := ctx.Value(ctxkey.KeyUser).(*sec.AuthClaims)
	if !ok {
		return nil
	}
	return claims
}

// IsSelfOrAdmin reports whether the caller is identityID itself or an admin.
func IsSelfOrAdmin(ctx context.Context, identityID string) bool {
	claims := GetAuthUser(ctx)
	if claims == nil {
		return false
	}
	return claims.UserID == identityID || sec.UserRole(claims.Role).IsAdmin()
}
