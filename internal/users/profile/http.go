// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package profile

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/pwdregistry/internal/platform/apperr"
	"github.com/taibuivan/pwdregistry/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/pwdregistry/internal/platform/request"
	"github.com/taibuivan/pwdregistry/internal/platform/respond"
)

// Handler serves profile endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds the profile handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts under /api/v1/profiles. Callers must be authenticated and
// authorized by the surrounding router.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/{identityID}", handler.get)
	return router
}

/*
get returns one profile.

GET /api/v1/profiles/{identityID}

Response:
  - 200: Profile joined with its role name
  - 403: caller is neither the identity nor an admin
  - 404: no profile row for the identity
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	identityID := requestutil.Param(request, "identityID")

	if !ctxutil.IsSelfOrAdmin(request.Context(), identityID) {
		respond.Error(writer, request, apperr.Forbidden("Profiles are visible to their owner and administrators"))
		return
	}

	profile, err := handler.service.Get(request.Context(), identityID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}
