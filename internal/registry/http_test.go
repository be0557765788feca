// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package registry_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/pwdregistry/internal/platform/ctxutil"
	"github.com/taibuivan/pwdregistry/internal/platform/sec"
	"github.com/taibuivan/pwdregistry/internal/registry"
)

func call(t *testing.T, router http.Handler, method, target string, body []byte, claims *sec.AuthClaims) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if claims != nil {
		req = req.WithContext(ctxutil.WithAuthUser(req.Context(), claims))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Lifecycle(t *testing.T) {
	router := registry.NewHandler(registry.NewService(newMemoryRepository())).Routes()
	applicant := &sec.AuthClaims{UserID: applicantID, Role: "user"}

	body, err := json.Marshal(validInput())
	require.NoError(t, err)

	rec := call(t, router, http.MethodPost, "/", body, applicant)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Data registry.Registration `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, applicantID, created.Data.SubmittedBy)

	rec = call(t, router, http.MethodGet, "/?page=1&limit=10", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Data []registry.Registration `json:"data"`
		Meta struct {
			Total int `json:"total"`
			Limit int `json:"limit"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 1, page.Meta.Total)
	assert.Equal(t, 10, page.Meta.Limit)

	rec = call(t, router, http.MethodPatch, "/"+created.Data.ID, []byte(`{"address":{"city":"Cebu City"}}`), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Cebu City")

	rec = call(t, router, http.MethodDelete, "/"+created.Data.ID, nil, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = call(t, router, http.MethodGet, "/"+created.Data.ID, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_SubmitRequiresClaims(t *testing.T) {
	router := registry.NewHandler(registry.NewService(newMemoryRepository())).Routes()

	rec := call(t, router, http.MethodPost, "/", []byte(`{}`), nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandler_SubmitRejectsUnknownFields(t *testing.T) {
	router := registry.NewHandler(registry.NewService(newMemoryRepository())).Routes()
	applicant := &sec.AuthClaims{UserID: applicantID, Role: "user"}

	rec := call(t, router, http.MethodPost, "/", []byte(`{"status":"approved"}`), applicant)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "VALIDATION_ERROR"))
}
