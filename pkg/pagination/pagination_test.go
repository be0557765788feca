// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/pwdregistry/pkg/pagination"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		query string
		want  pagination.Params
	}{
		{"", pagination.Params{Page: 1, Limit: 20}},
		{"?page=3&limit=10", pagination.Params{Page: 3, Limit: 10}},
		{"?page=-2&limit=0", pagination.Params{Page: 1, Limit: 20}},
		{"?page=x&limit=500", pagination.Params{Page: 1, Limit: 100}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := pagination.FromRequest(httptest.NewRequest("GET", "/registrations"+tt.query, nil))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMeta(t *testing.T) {
	params := pagination.Params{Page: 2, Limit: 20}

	assert.Equal(t, 20, params.Offset())
	assert.Equal(t, pagination.Meta{Page: 2, Limit: 20, Total: 41, TotalPages: 3}, pagination.NewMeta(params, 41))
	assert.Equal(t, 0, pagination.NewMeta(pagination.Params{}, 5).TotalPages)
}
