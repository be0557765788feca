// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/pwdregistry/internal/platform/apperr"
	"github.com/taibuivan/pwdregistry/internal/platform/database/schema"
	"github.com/taibuivan/pwdregistry/internal/platform/dberr"
	"github.com/taibuivan/pwdregistry/internal/platform/postgres"
)

// PostgresRepository implements [Repository] with pgx.
type PostgresRepository struct {
	db postgres.Querier
}

// NewRepository builds the Postgres profile repository.
func NewRepository(db postgres.Querier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// FindByUserID reads the profile with a left join so a dangling role id
// still yields the row, with an empty role name.
func (repository *PostgresRepository) FindByUserID(ctx context.Context, userID string) (*Profile, error) {
	u, r := schema.PwdUser, schema.PwdRole
	query := fmt.Sprintf(`
		SELECT u.%s, u.%s, COALESCE(u.%s, ''), u.%s,
		       COALESCE(u.%s, ''), u.%s, COALESCE(r.%s, ''),
		       u.%s, u.%s
		FROM %s u
		LEFT JOIN %s r ON r.%s = u.%s
		WHERE u.%s = $1`,
		u.UserID, u.FirstName, u.MiddleName, u.LastName,
		u.Mobile, u.RoleID, r.RoleName,
		u.CreatedAt, u.UpdatedAt,
		u.Table,
		r.Table, r.ID, u.RoleID,
		u.UserID,
	)

	profile := &Profile{}
	err := repository.db.QueryRow(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.FirstName,
		&profile.MiddleName,
		&profile.LastName,
		&profile.Mobile,
		&profile.RoleID,
		&profile.RoleName,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Profile")
		}
		return nil, fmt.Errorf("postgres_profile_repo_find_failed: %w", err)
	}
	return profile, nil
}

// Create inserts a profile row. A second profile for the same account is a
// Conflict; an unknown role id is Unprocessable.
func (repository *PostgresRepository) Create(ctx context.Context, profile *Profile) error {
	u := schema.PwdUser
	query := fmt.Sprintf(`
		INSERT INTO %s (
			%s, %s, %s, %s, %s, %s, %s, %s
		) VALUES ($1, $2, NULLIF($3, ''), $4, NULLIF($5, ''), $6, $7, $8)`,
		u.Table,
		u.UserID, u.FirstName, u.MiddleName, u.LastName, u.Mobile, u.RoleID, u.CreatedAt, u.UpdatedAt,
	)

	now := time.Now().UTC()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	_, err := repository.db.Exec(ctx, query,
		profile.UserID,
		profile.FirstName,
		profile.MiddleName,
		profile.LastName,
		profile.Mobile,
		profile.RoleID,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		if wrapped := dberr.Wrap(err, "Profile"); !apperr.HasCode(wrapped, apperr.CodeInternal) {
			return wrapped
		}
		return fmt.Errorf("postgres_profile_repo_create_failed: %w", err)
	}
	return nil
}
