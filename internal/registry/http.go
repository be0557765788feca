// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package registry

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/pwdregistry/internal/platform/request"
	"github.com/taibuivan/pwdregistry/internal/platform/respond"
	"github.com/taibuivan/pwdregistry/pkg/pagination"
	"github.com/taibuivan/pwdregistry/pkg/query"
)

// Handler serves /api/v1/registrations.
type Handler struct {
	service *Service
}

// NewHandler builds the registration handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the registration router. Authentication and the policy
// check are applied by the caller.
//
// # Endpoints
//   - POST   /     : Submit a registration.
//   - GET    /     : List registrations, newest first.
//   - GET    /{id} : Read one registration.
//   - PATCH  /{id} : Replace sections of a registration.
//   - DELETE /{id} : Remove a registration.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", handler.submit)
	router.Get("/", handler.list)
	router.Get("/{id}", handler.get)
	router.Patch("/{id}", handler.amend)
	router.Delete("/{id}", handler.remove)

	return router
}

/*
submit stores a new registration for the caller.

POST /api/v1/registrations

Response:
  - 201: Registration
  - 400: Validation failure
*/
func (handler *Handler) submit(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Input
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	registration, err := handler.service.Submit(request.Context(), claims.UserID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, registration)
}

/*
list returns a page of registrations.

GET /api/v1/registrations?page=&limit=&disability_type=&city=

Response:
  - 200: Paginated registrations
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	filter := Filter{
		DisabilityTypes: query.StringSlice(request.URL.Query()["disability_type"]),
		City:            requestutil.Query(request, "city"),
	}

	registrations, total, err := handler.service.List(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, registrations, pagination.NewMeta(params, total))
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	registration, err := handler.service.Get(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, registration)
}

func (handler *Handler) amend(writer http.ResponseWriter, request *http.Request) {
	var patch Patch
	if err := requestutil.DecodeJSON(writer, request, &patch); err != nil {
		respond.Error(writer, request, err)
		return
	}

	registration, err := handler.service.Amend(request.Context(), requestutil.Param(request, "id"), patch)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, registration)
}

func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Remove(request.Context(), requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
