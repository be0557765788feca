// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/taibuivan/pwdregistry/internal/identity"
	"github.com/taibuivan/pwdregistry/internal/platform/apperr"
	"github.com/taibuivan/pwdregistry/internal/platform/constants"
)

// CurrentSession restores the stored session. An expired access token is
// rotated first; a refused refresh token yields no session.
func (client *Client) CurrentSession(ctx context.Context) (*identity.Identity, error) {
	stored, err := client.store.Load()
	if err != nil {
		client.logger.Warn("portal_session_load_failed", slog.Any("error", err))
		return nil, nil
	}
	if stored == nil {
		return nil, nil
	}

	resp, err := client.authorized(ctx, request{method: http.MethodGet, path: "/auth/session"})
	switch {
	case errors.Is(err, ErrSessionExpired), errors.Is(err, ErrNotSignedIn):
		return nil, nil
	case HasStatus(err, http.StatusUnauthorized):
		client.expire()
		return nil, nil
	case err != nil:
		return nil, err
	}

	payload, _, err := decode[struct {
		Identity identity.Identity `json:"identity"`
	}](resp)
	if err != nil {
		return nil, err
	}
	return &payload.Identity, nil
}

// SignIn exchanges credentials for tokens and notifies subscribers.
func (client *Client) SignIn(ctx context.Context, email, password string) (*identity.Identity, error) {
	resp, err := client.send(ctx, request{
		method: http.MethodPost,
		path:   "/auth/login",
		body:   map[string]string{"email": email, "password": password},
	})
	if err != nil {
		return nil, rejection(err)
	}

	session, err := client.persist(resp, "")
	if err != nil {
		return nil, err
	}

	client.notify(&session.Identity)
	signedIn := session.Identity
	return &signedIn, nil
}

// SignUp creates an unconfirmed account and its profile row. It does not sign
// in; the account must be confirmed first.
func (client *Client) SignUp(ctx context.Context, input identity.SignUpInput) (*identity.Identity, error) {
	resp, err := client.send(ctx, request{
		method: http.MethodPost,
		path:   "/auth/register",
		body:   input,
	})
	if err != nil {
		return nil, rejection(err)
	}

	created, _, err := decode[identity.Identity](resp)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// SignOut revokes the refresh token. The local session is dropped and
// subscribers are told even when the API call fails.
func (client *Client) SignOut(ctx context.Context) error {
	stored, loadErr := client.store.Load()

	var sendErr error
	if loadErr == nil && stored != nil && stored.RefreshToken != "" {
		_, sendErr = client.send(ctx, request{
			method: http.MethodPost,
			path:   "/auth/logout",
			cookie: &http.Cookie{Name: constants.RefreshTokenCookieName, Value: stored.RefreshToken},
		})
	}

	client.expire()
	return errors.Join(loadErr, sendErr)
}

// LookupProfile fetches the profile of identityID, or nil when it has none.
func (client *Client) LookupProfile(ctx context.Context, identityID string) (*identity.Profile, error) {
	resp, err := client.authorized(ctx, request{
		method: http.MethodGet,
		path:   "/profiles/" + url.PathEscape(identityID),
	})
	if err != nil {
		if HasStatus(err, http.StatusNotFound) {
			return nil, nil
		}
		return nil, err
	}

	profile, _, err := decode[identity.Profile](resp)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// CheckEmailExists asks whether email is registered. Failures are logged and
// reported as "not taken" so sign-up is never blocked by the lookup.
func (client *Client) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	resp, err := client.send(ctx, request{
		method: http.MethodGet,
		path:   "/auth/email-exists",
		query:  url.Values{"email": {email}},
	})
	if err != nil {
		client.logger.Warn("portal_email_check_failed", slog.Any("error", err))
		return false, nil
	}

	payload, _, err := decode[struct {
		Exists bool `json:"exists"`
	}](resp)
	if err != nil {
		client.logger.Warn("portal_email_check_failed", slog.Any("error", err))
		return false, nil
	}
	return payload.Exists, nil
}

// rejection classifies a failed sign-in or sign-up.
func rejection(err error) error {
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status >= http.StatusInternalServerError {
		return err
	}
	if apiErr.Code == apperr.CodeEmailNotConfirmed {
		return fmt.Errorf("%w: %w: %w", identity.ErrAuthRejected, identity.ErrEmailNotConfirmed, apiErr)
	}
	return fmt.Errorf("%w: %w", identity.ErrAuthRejected, apiErr)
}
