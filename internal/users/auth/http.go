// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/pwdregistry/internal/platform/apperr"
	"github.com/taibuivan/pwdregistry/internal/platform/constants"
	"github.com/taibuivan/pwdregistry/internal/platform/middleware"
	requestutil "github.com/taibuivan/pwdregistry/internal/platform/request"
	"github.com/taibuivan/pwdregistry/internal/platform/respond"
	"github.com/taibuivan/pwdregistry/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the identity endpoints.
//
// # Scope
//
// Account creation, credential sign-in, refresh rotation, sign-out, email
// confirmation and the email availability lookup.
type Handler struct {
	authService   *Service
	secureCookies bool
}

// NewHandler constructs a [Handler]. secureCookies sets the Secure flag on
// the refresh cookie and should be false only for plain-HTTP development.
func NewHandler(service *Service, secureCookies bool) *Handler {
	return &Handler{authService: service, secureCookies: secureCookies}
}

// Routes returns the auth router, mounted under /api/v1/auth.
//
// # Endpoints
//   - POST /register            : Creates an unconfirmed account and its profile.
//   - POST /login               : Authenticates and returns a JWT.
//   - POST /refresh             : Rotates the refresh cookie.
//   - POST /logout              : Revokes the refresh cookie.
//   - POST /verify-email        : Confirms an email address.
//   - POST /resend-confirmation : Mails a new confirmation link.
//   - GET  /email-exists        : Reports whether an email is taken.
//   - GET  /session             : Returns the caller's identity.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/refresh", handler.refresh)
	router.Post("/logout", handler.logout)
	router.Post("/verify-email", handler.verifyEmail)
	router.Post("/resend-confirmation", handler.resendConfirmation)
	router.Get("/email-exists", handler.emailExists)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/session", handler.session)
	})

	return router
}

// # Request Payloads

type registerRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	FirstName  string `json:"first_name"`
	MiddleName string `json:"middle_name"`
	LastName   string `json:"last_name"`
	Mobile     string `json:"mobile"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenRequest struct {
	Token string `json:"token"`
}

type emailRequest struct {
	Email string `json:"email"`
}

/*
register creates a new account.

POST /api/v1/auth/register

Response:
  - 201: Identity of the created, unconfirmed account
  - 400: Bad input or validation failure
  - 409: Email already registered
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.authService.Register(request.Context(), RegisterInput{
		Email:      input.Email,
		Password:   input.Password,
		FirstName:  input.FirstName,
		MiddleName: input.MiddleName,
		LastName:   input.LastName,
		Mobile:     input.Mobile,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, account.Identity())
}

/*
login authenticates with email and password.

POST /api/v1/auth/login

Response:
  - 200: Access token and identity, refresh token in an HttpOnly cookie
  - 401: Invalid credentials
  - 403: EMAIL_NOT_CONFIRMED
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Email:     input.Email,
		Password:  input.Password,
		UserAgent: request.UserAgent(),
		IPAddress: middleware.RealIP(request),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.writeSession(writer, session)
}

/*
refresh rotates the refresh cookie and issues a new access token.

POST /api/v1/auth/refresh

Response:
  - 200: New access token and identity
  - 401: Missing, revoked or expired refresh token
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	cookie, err := request.Cookie(constants.RefreshTokenCookieName)
	if err != nil || cookie.Value == "" {
		respond.Error(writer, request, apperr.Unauthorized("Missing refresh token in cookies"))
		return
	}

	session, err := handler.authService.RefreshSession(
		request.Context(),
		cookie.Value,
		request.UserAgent(),
		middleware.RealIP(request),
	)
	if err != nil {
		handler.clearCookie(writer)
		respond.Error(writer, request, err)
		return
	}

	handler.writeSession(writer, session)
}

/*
logout revokes the refresh cookie's session, if any.

POST /api/v1/auth/logout

Response:
  - 204: Always
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	cookie, err := request.Cookie(constants.RefreshTokenCookieName)

	if err == nil && cookie.Value != "" {
		if err := handler.authService.Logout(request.Context(), cookie.Value); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	handler.clearCookie(writer)
	respond.NoContent(writer)
}

/*
verifyEmail confirms email ownership.

POST /api/v1/auth/verify-email

Response:
  - 200: Email confirmed
  - 400: Missing token
  - 404: Unknown or expired token
*/
func (handler *Handler) verifyEmail(writer http.ResponseWriter, request *http.Request) {
	var input tokenRequest

	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if input.Token == "" {
		respond.Error(writer, request, validate.RequiredError(FieldToken, "This field is required"))
		return
	}

	if err := handler.authService.VerifyEmail(request.Context(), input.Token); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "Email verified successfully",
	})
}

/*
resendConfirmation mails a new confirmation link.

POST /api/v1/auth/resend-confirmation

Response:
  - 200: Generic message, whether or not the email is registered
  - 429: Asked again inside the resend window
*/
func (handler *Handler) resendConfirmation(writer http.ResponseWriter, request *http.Request) {
	var input emailRequest

	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ResendConfirmation(request.Context(), input.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "If this email awaits confirmation, a new link has been sent.",
	})
}

/*
emailExists reports whether an email is registered.

GET /api/v1/auth/email-exists?email=

Response:
  - 200: {"exists": bool}
  - 400: Missing email
*/
func (handler *Handler) emailExists(writer http.ResponseWriter, request *http.Request) {
	exists, err := handler.authService.EmailExists(request.Context(), requestutil.Query(request, FieldEmail))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]bool{FieldExists: exists})
}

/*
session returns the caller's identity.

GET /api/v1/auth/session

Response:
  - 200: Identity
  - 401: No valid access token
*/
func (handler *Handler) session(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	identity, err := handler.authService.Identity(request.Context(), claims.UserID)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			err = apperr.Unauthorized("Account no longer exists")
		}
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{FieldIdentity: identity})
}

// # Cookies

func (handler *Handler) writeSession(writer http.ResponseWriter, session *LoginSession) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    session.RefreshToken,
		Path:     constants.RefreshTokenCookiePath,
		Expires:  session.RefreshTokenExpiresAt,
		Secure:   handler.secureCookies,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	respond.OK(writer, map[string]any{
		FieldAccessToken: session.AccessToken,
		FieldTokenType:   "Bearer",
		FieldExpiresIn:   int(constants.AccessTokenTTL / time.Second),
		FieldIdentity:    session.Account.Identity(),
	})
}

func (handler *Handler) clearCookie(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    "",
		Path:     constants.RefreshTokenCookiePath,
		MaxAge:   -1,
		Secure:   handler.secureCookies,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}
