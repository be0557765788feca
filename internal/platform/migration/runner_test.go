// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/pwdregistry/internal/platform/migration"
)

func TestToPgx5DSN(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"postgres://u:p@db:5432/pwd?sslmode=disable", "pgx5://u:p@db:5432/pwd?sslmode=disable"},
		{"postgresql://db/pwd", "pgx5://db/pwd"},
		{"pgx5://db/pwd", "pgx5://db/pwd"},
		{"host=db dbname=pwd", "host=db dbname=pwd"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, migration.ToPgx5DSN(tt.in))
		})
	}
}
