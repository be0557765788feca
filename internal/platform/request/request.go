// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package requestutil extracts bodies, parameters and claims from requests.
package requestutil

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/pwdregistry/internal/platform/apperr"
	"github.com/taibuivan/pwdregistry/internal/platform/ctxutil"
	"github.com/taibuivan/pwdregistry/internal/platform/sec"
	"github.com/taibuivan/pwdregistry/internal/platform/validate"
)

// maxBodyBytes caps decoded request bodies.
const maxBodyBytes = 1 << 20

// DecodeJSON decodes the body into target, rejecting unknown fields and
// trailing data.
func DecodeJSON(writer http.ResponseWriter, request *http.Request, target any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(writer, request.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return validate.ErrInvalidJSON
	}
	return nil
}

// Param returns a chi URL parameter.
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

// Query returns a trimmed query parameter.
func Query(request *http.Request, name string) string {
	return strings.TrimSpace(request.URL.Query().Get(name))
}

// Claims returns the caller's claims, or nil when anonymous.
func Claims(request *http.Request) *sec.AuthClaims {
	return ctxutil.GetAuthUser(request.Context())
}

// RequiredClaims returns the caller's claims or an Unauthorized error.
func RequiredClaims(request *http.Request) (*sec.AuthClaims, error) {
	claims := ctxutil.GetAuthUser(request.Context())
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return claims, nil
}
