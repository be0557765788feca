// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package profile_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/pwdregistry/internal/platform/apperr"
	"github.com/taibuivan/pwdregistry/internal/users/profile"
)

var profileColumns = []string{
	"userid", "firstname", "middlename", "lastname", "mobile", "roleid", "rolename", "createdat", "updatedat",
}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestPostgresRepository_FindByUserID(t *testing.T) {
	mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery(`LEFT JOIN pwd.role r ON r.id = u.roleid`).
		WithArgs("u1").
		WillReturnRows(pgxmock.NewRows(profileColumns).
			AddRow("u1", "Ana", "", "Cruz", "09171234567", 2, "user", now, now))

	got, err := profile.NewRepository(mock).FindByUserID(context.Background(), "u1")

	require.NoError(t, err)
	assert.Equal(t, "Ana", got.FirstName)
	assert.Equal(t, 2, got.RoleID)
	assert.Equal(t, "user", got.RoleName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_FindByUserID_DanglingRole(t *testing.T) {
	mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery(`FROM pwd.user u`).
		WithArgs("u1").
		WillReturnRows(pgxmock.NewRows(profileColumns).
			AddRow("u1", "Ana", "", "Cruz", "", 9, "", now, now))

	got, err := profile.NewRepository(mock).FindByUserID(context.Background(), "u1")

	require.NoError(t, err)
	assert.Empty(t, got.RoleName)
}

func TestPostgresRepository_FindByUserID_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"no_row", pgx.ErrNoRows, apperr.CodeNotFound},
		{"driver_error", errors.New("conn reset"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			mock.ExpectQuery(`FROM pwd.user u`).WithArgs("u1").WillReturnError(tt.err)

			_, err := profile.NewRepository(mock).FindByUserID(context.Background(), "u1")

			require.Error(t, err)
			if tt.code != "" {
				assert.True(t, apperr.HasCode(err, tt.code))
			} else {
				assert.False(t, apperr.IsAppError(err))
			}
		})
	}
}

func TestPostgresRepository_Create(t *testing.T) {
	mock := newMock(t)

	mock.ExpectExec(`INSERT INTO pwd.user`).
		WithArgs("u1", "Ana", "", "Cruz", "", 2, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	p := &profile.Profile{UserID: "u1", FirstName: "Ana", LastName: "Cruz", RoleID: 2}
	err := profile.NewRepository(mock).Create(context.Background(), p)

	require.NoError(t, err)
	assert.False(t, p.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_Create_Duplicate(t *testing.T) {
	mock := newMock(t)

	mock.ExpectExec(`INSERT INTO pwd.user`).
		WithArgs("u1", "", "", "", "", 0, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := profile.NewRepository(mock).Create(context.Background(), &profile.Profile{UserID: "u1"})

	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}
