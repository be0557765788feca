// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package client talks to the registry API on behalf of the portal.

[Client] implements [identity.Backend]: it signs in with email and password,
keeps the access and refresh tokens in a [Store] between invocations, rotates
them when the access token is rejected, and tells subscribers whenever the
signed-in identity changes.

# Error Mapping

  - Transport failures and 5xx responses wrap [identity.ErrBackendUnavailable].
  - 4xx responses to sign-in and sign-up wrap [identity.ErrAuthRejected];
    EMAIL_NOT_CONFIRMED additionally wraps [identity.ErrEmailNotConfirmed].
  - A refresh token the API no longer accepts clears the store and yields
    [ErrSessionExpired].
*/
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/pwdregistry/internal/identity"
	"github.com/taibuivan/pwdregistry/internal/platform/apperr"
	"github.com/taibuivan/pwdregistry/internal/platform/constants"
	"github.com/taibuivan/pwdregistry/internal/platform/respond"
	"github.com/taibuivan/pwdregistry/pkg/pagination"
)

const (
	apiPrefix        = "/api/v1"
	maxResponseBytes = 4 << 20
)

var (
	// ErrNotSignedIn is returned by calls that need a stored session.
	ErrNotSignedIn = errors.New("not signed in")

	// ErrSessionExpired means the stored refresh token was refused.
	ErrSessionExpired = errors.New("session expired")
)

// APIError is a non-2xx API response.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details []apperr.FieldError
}

func (e *APIError) Error() string {
	return e.Message
}

// Unwrap makes server-side failures match [identity.ErrBackendUnavailable].
func (e *APIError) Unwrap() error {
	if e.Status >= http.StatusInternalServerError {
		return identity.ErrBackendUnavailable
	}
	return nil
}

// HasStatus reports whether err carries an API response with status.
func HasStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// # Definitions & Constructors

// Client is the portal's API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      Store
	logger     *slog.Logger

	listenersMu sync.Mutex
	listeners   map[uint64]identity.ChangeListener
	nextID      uint64

	// refreshMu serialises token rotation.
	refreshMu sync.Mutex
}

var _ identity.Backend = (*Client)(nil)

// New builds a client for the API at baseURL.
func New(baseURL string, timeout time.Duration, store Store, logger *slog.Logger) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("client: invalid api url %q", baseURL)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		store:      store,
		logger:     logger,
		listeners:  make(map[uint64]identity.ChangeListener),
	}, nil
}

// # Notifications

// Subscribe registers listener for sign-in, refresh and sign-out events.
func (client *Client) Subscribe(listener identity.ChangeListener) func() {
	client.listenersMu.Lock()
	defer client.listenersMu.Unlock()

	client.nextID++
	id := client.nextID
	client.listeners[id] = listener

	return func() {
		client.listenersMu.Lock()
		delete(client.listeners, id)
		client.listenersMu.Unlock()
	}
}

func (client *Client) notify(current *identity.Identity) {
	client.listenersMu.Lock()
	listeners := make([]identity.ChangeListener, 0, len(client.listeners))
	for _, listener := range client.listeners {
		listeners = append(listeners, listener)
	}
	client.listenersMu.Unlock()

	for _, listener := range listeners {
		if current == nil {
			listener(nil)
			continue
		}
		copied := *current
		listener(&copied)
	}
}

// # Transport

type request struct {
	method string
	path   string
	query  url.Values
	body   any
	bearer string
	cookie *http.Cookie
}

type response struct {
	status  int
	body    []byte
	cookies []*http.Cookie
}

type envelope[T any] struct {
	Data T               `json:"data"`
	Meta pagination.Meta `json:"meta"`
}

// send performs one API call. Non-2xx responses return an [*APIError]
// alongside the response.
func (client *Client) send(ctx context.Context, req request) (*response, error) {
	var body io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("client_encode_failed: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	target := client.baseURL + apiPrefix + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	httpRequest, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return nil, fmt.Errorf("client_request_failed: %w", err)
	}
	httpRequest.Header.Set("Accept", "application/json")
	if body != nil {
		httpRequest.Header.Set("Content-Type", "application/json")
	}
	if req.bearer != "" {
		httpRequest.Header.Set("Authorization", "Bearer "+req.bearer)
	}
	if req.cookie != nil {
		httpRequest.AddCookie(req.cookie)
	}

	httpResponse, err := client.httpClient.Do(httpRequest)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", identity.ErrBackendUnavailable, err)
	}
	defer httpResponse.Body.Close()

	data, err := io.ReadAll(io.LimitReader(httpResponse.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", identity.ErrBackendUnavailable, err)
	}

	resp := &response{
		status:  httpResponse.StatusCode,
		body:    data,
		cookies: httpResponse.Cookies(),
	}
	if httpResponse.StatusCode >= http.StatusBadRequest {
		return resp, decodeError(httpResponse.StatusCode, data)
	}
	return resp, nil
}

func decodeError(status int, body []byte) error {
	var payload respond.ErrorEnvelope
	_ = json.Unmarshal(body, &payload)

	apiErr := &APIError{
		Status:  status,
		Code:    payload.Code,
		Message: payload.Error,
		Details: payload.Details,
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

func decode[T any](resp *response) (T, pagination.Meta, error) {
	var payload envelope[T]
	if err := json.Unmarshal(resp.body, &payload); err != nil {
		return payload.Data, payload.Meta, fmt.Errorf("client_decode_failed: %w", err)
	}
	return payload.Data, payload.Meta, nil
}

// authorized sends req with the stored access token, rotating the tokens and
// retrying once when the API answers 401.
func (client *Client) authorized(ctx context.Context, req request) (*response, error) {
	stored, err := client.store.Load()
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, ErrNotSignedIn
	}

	req.bearer = stored.AccessToken
	resp, err := client.send(ctx, req)
	if !HasStatus(err, http.StatusUnauthorized) {
		return resp, err
	}

	refreshed, err := client.refresh(ctx, stored)
	if err != nil {
		return nil, err
	}

	req.bearer = refreshed.AccessToken
	return client.send(ctx, req)
}

// # Tokens

type tokenPayload struct {
	AccessToken string            `json:"access_token"`
	ExpiresIn   int               `json:"expires_in"`
	Identity    identity.Identity `json:"identity"`
}

// refresh rotates the refresh token and notifies subscribers.
func (client *Client) refresh(ctx context.Context, stale *StoredSession) (*StoredSession, error) {
	next, rotated, err := client.rotate(ctx, stale)
	if err != nil {
		return nil, err
	}
	if rotated {
		client.logger.Debug("portal_session_refreshed", slog.String("identity_id", next.Identity.ID))
		client.notify(&next.Identity)
	}
	return next, nil
}

func (client *Client) rotate(ctx context.Context, stale *StoredSession) (*StoredSession, bool, error) {
	client.refreshMu.Lock()
	defer client.refreshMu.Unlock()

	// Someone else rotated while we waited for the lock.
	current, err := client.store.Load()
	if err != nil {
		return nil, false, err
	}
	if current == nil {
		return nil, false, ErrSessionExpired
	}
	if current.RefreshToken != stale.RefreshToken {
		return current, false, nil
	}
	if current.RefreshToken == "" {
		client.expire()
		return nil, false, ErrSessionExpired
	}

	resp, err := client.send(ctx, request{
		method: http.MethodPost,
		path:   "/auth/refresh",
		cookie: &http.Cookie{Name: constants.RefreshTokenCookieName, Value: current.RefreshToken},
	})
	if err != nil {
		if HasStatus(err, http.StatusUnauthorized) {
			client.expire()
			return nil, false, fmt.Errorf("%w: %w", ErrSessionExpired, err)
		}
		return nil, false, err
	}

	next, err := client.persist(resp, current.RefreshToken)
	if err != nil {
		return nil, false, err
	}
	return next, true, nil
}

// persist stores the tokens of a login or refresh response. previous is kept
// when the response sets no refresh cookie.
func (client *Client) persist(resp *response, previous string) (*StoredSession, error) {
	payload, _, err := decode[tokenPayload](resp)
	if err != nil {
		return nil, err
	}

	session := &StoredSession{
		AccessToken:  payload.AccessToken,
		RefreshToken: previous,
		ExpiresAt:    time.Now().Add(time.Duration(payload.ExpiresIn) * time.Second).UTC(),
		Identity:     payload.Identity,
	}
	for _, cookie := range resp.cookies {
		if cookie.Name == constants.RefreshTokenCookieName && cookie.Value != "" {
			session.RefreshToken = cookie.Value
		}
	}

	if err := client.store.Save(session); err != nil {
		return nil, err
	}
	return session, nil
}

// expire drops the stored session and tells subscribers.
func (client *Client) expire() {
	if err := client.store.Clear(); err != nil {
		client.logger.Warn("portal_session_clear_failed", slog.Any("error", err))
	}
	client.notify(nil)
}
