// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/pwdregistry/internal/platform/apperr"
	"github.com/taibuivan/pwdregistry/internal/platform/dberr"
	"github.com/taibuivan/pwdregistry/internal/platform/postgres"
)

// # Account Repository

// PostgresAccountRepository implements [AccountRepository] with pgx.
type PostgresAccountRepository struct {
	db postgres.Querier
}

// NewAccountRepository builds the Postgres account repository.
func NewAccountRepository(db postgres.Querier) *PostgresAccountRepository {
	return &PostgresAccountRepository{db: db}
}

const accountColumns = `id, email, passwordhash, isverified, createdat, updatedat`

func scanAccount(row pgx.Row) (*Account, error) {
	account := &Account{}
	err := row.Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&account.IsVerified,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	return account, err
}

// Create inserts a new account row.
func (repository *PostgresAccountRepository) Create(ctx context.Context, account *Account) error {
	const query = `
		INSERT INTO auth.account (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)`

	now := time.Now().UTC()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now

	_, err := repository.db.Exec(ctx, query,
		account.ID,
		account.Email,
		account.PasswordHash,
		account.IsVerified,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("Email is already registered").WithCause(err)
		}
		return fmt.Errorf("postgres_account_repo_create_failed: %w", err)
	}
	return nil
}

// FindByID retrieves an account by primary key.
func (repository *PostgresAccountRepository) FindByID(ctx context.Context, id string) (*Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM auth.account WHERE id = $1`

	account, err := scanAccount(repository.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Account")
		}
		return nil, fmt.Errorf("postgres_account_repo_find_by_id_failed: %w", err)
	}
	return account, nil
}

// FindByEmail retrieves an account by its normalized email.
func (repository *PostgresAccountRepository) FindByEmail(ctx context.Context, email string) (*Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM auth.account WHERE email = $1`

	account, err := scanAccount(repository.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Account")
		}
		return nil, fmt.Errorf("postgres_account_repo_find_by_email_failed: %w", err)
	}
	return account, nil
}

// EmailExists reports whether email is taken.
func (repository *PostgresAccountRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM auth.account WHERE email = $1)`

	var exists bool
	if err := repository.db.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres_account_repo_email_exists_failed: %w", err)
	}
	return exists, nil
}

// MarkVerified sets isverified on the account.
func (repository *PostgresAccountRepository) MarkVerified(ctx context.Context, accountID string) error {
	const query = `UPDATE auth.account SET isverified = TRUE, updatedat = $2 WHERE id = $1`

	tag, err := repository.db.Exec(ctx, query, accountID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("postgres_account_repo_mark_verified_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Account")
	}
	return nil
}

// # Session Repository

// PostgresSessionRepository implements [SessionRepository] with pgx.
type PostgresSessionRepository struct {
	db postgres.Querier
}

// NewSessionRepository builds the Postgres session repository.
func NewSessionRepository(db postgres.Querier) *PostgresSessionRepository {
	return &PostgresSessionRepository{db: db}
}

const insertSession = `
	INSERT INTO auth.session (
		id, accountid, tokenhash, useragent, ipaddress, expiresat, isrevoked, createdat
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

// Create inserts a session row.
func (repository *PostgresSessionRepository) Create(ctx context.Context, session *Session) error {
	if err := insertSessionRow(ctx, repository.db, session); err != nil {
		return fmt.Errorf("postgres_session_repo_create_failed: %w", err)
	}
	return nil
}

// Rotate revokes the presented session and inserts its successor in one
// transaction.
func (repository *PostgresSessionRepository) Rotate(ctx context.Context, previousID string, next *Session) error {
	const revoke = `UPDATE auth.session SET isrevoked = TRUE WHERE id = $1 AND isrevoked = FALSE`

	return postgres.WithTx(ctx, repository.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, revoke, previousID)
		if err != nil {
			return fmt.Errorf("postgres_session_repo_rotate_revoke_failed: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperr.Unauthorized("Refresh token was already used")
		}

		if err := insertSessionRow(ctx, tx, next); err != nil {
			return fmt.Errorf("postgres_session_repo_rotate_insert_failed: %w", err)
		}
		return nil
	})
}

type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

func insertSessionRow(ctx context.Context, db execer, session *Session) error {
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}

	_, err := db.Exec(ctx, insertSession,
		session.ID,
		session.AccountID,
		session.TokenHash,
		session.UserAgent,
		session.IPAddress,
		session.ExpiresAt,
		session.IsRevoked,
		session.CreatedAt,
	)
	return err
}

// FindByTokenHash resolves a refresh token hash into a live session.
func (repository *PostgresSessionRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*Session, error) {
	const query = `
		SELECT id, accountid, tokenhash, useragent, ipaddress, expiresat, isrevoked, createdat
		FROM auth.session
		WHERE tokenhash = $1 AND isrevoked = FALSE AND expiresat > NOW()`

	session := &Session{}
	err := repository.db.QueryRow(ctx, query, tokenHash).Scan(
		&session.ID,
		&session.AccountID,
		&session.TokenHash,
		&session.UserAgent,
		&session.IPAddress,
		&session.ExpiresAt,
		&session.IsRevoked,
		&session.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Session")
		}
		return nil, fmt.Errorf("postgres_session_repo_find_failed: %w", err)
	}
	return session, nil
}

// Revoke invalidates one session.
func (repository *PostgresSessionRepository) Revoke(ctx context.Context, sessionID string) error {
	const query = `UPDATE auth.session SET isrevoked = TRUE WHERE id = $1`
	if _, err := repository.db.Exec(ctx, query, sessionID); err != nil {
		return fmt.Errorf("postgres_session_repo_revoke_failed: %w", err)
	}
	return nil
}

// RevokeAll invalidates every live session of an account.
func (repository *PostgresSessionRepository) RevokeAll(ctx context.Context, accountID string) error {
	const query = `UPDATE auth.session SET isrevoked = TRUE WHERE accountid = $1 AND isrevoked = FALSE`
	if _, err := repository.db.Exec(ctx, query, accountID); err != nil {
		return fmt.Errorf("postgres_session_repo_revoke_all_failed: %w", err)
	}
	return nil
}

// DeleteExpired removes sessions past their expiry.
func (repository *PostgresSessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	const query = `DELETE FROM auth.session WHERE expiresat <= NOW()`
	tag, err := repository.db.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("postgres_session_repo_delete_expired_failed: %w", err)
	}
	return tag.RowsAffected(), nil
}
