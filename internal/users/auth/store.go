// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// # Persistent Data Access

// AccountRepository is the data access contract for auth.account.
type AccountRepository interface {
	// FindByID returns the account or an apperr NotFound.
	FindByID(ctx context.Context, id string) (*Account, error)

	// FindByEmail looks up a normalized email. Missing accounts are an
	// apperr NotFound.
	FindByEmail(ctx context.Context, email string) (*Account, error)

	// EmailExists reports whether a normalized email is registered.
	EmailExists(ctx context.Context, email string) (bool, error)

	// Create inserts account. A duplicate email is an apperr Conflict.
	Create(ctx context.Context, account *Account) error

	// MarkVerified flags the account as confirmed.
	MarkVerified(ctx context.Context, accountID string) error
}

// SessionRepository is the data access contract for auth.session.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error

	// FindByTokenHash returns an unrevoked, unexpired session or an apperr
	// NotFound.
	FindByTokenHash(ctx context.Context, tokenHash string) (*Session, error)

	Revoke(ctx context.Context, sessionID string) error

	// Rotate revokes previousID and inserts next atomically. It fails with
	// UNAUTHORIZED when previousID was already revoked by a concurrent call.
	Rotate(ctx context.Context, previousID string, next *Session) error
	RevokeAll(ctx context.Context, accountID string) error

	// DeleteExpired removes expired rows and returns how many went.
	DeleteExpired(ctx context.Context) (int64, error)
}

// # Volatile Data Access

// VerificationTokenRepository keeps confirmation tokens until they expire.
type VerificationTokenRepository interface {
	Set(ctx context.Context, token, accountID string, ttl time.Duration) error

	// Get returns the account id or an apperr NotFound.
	Get(ctx context.Context, token string) (string, error)

	Delete(ctx context.Context, token string) error
}

// ResendThrottle limits how often confirmation mail goes to one address.
type ResendThrottle interface {
	// Acquire returns true when no resend happened within window.
	Acquire(ctx context.Context, email string, window time.Duration) (bool, error)
}
