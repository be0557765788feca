// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/taibuivan/pwdregistry/internal/registry"
	"github.com/taibuivan/pwdregistry/pkg/pagination"
)

// VerifyEmail confirms an account with the token from its confirmation link.
func (client *Client) VerifyEmail(ctx context.Context, token string) error {
	_, err := client.send(ctx, request{
		method: http.MethodPost,
		path:   "/auth/verify-email",
		body:   map[string]string{"token": token},
	})
	return err
}

// ResendConfirmation asks for a new confirmation link.
func (client *Client) ResendConfirmation(ctx context.Context, email string) error {
	_, err := client.send(ctx, request{
		method: http.MethodPost,
		path:   "/auth/resend-confirmation",
		body:   map[string]string{"email": email},
	})
	return err
}

// SubmitRegistration files a PWD registration as the signed-in identity.
func (client *Client) SubmitRegistration(ctx context.Context, input registry.Input) (*registry.Registration, error) {
	resp, err := client.authorized(ctx, request{
		method: http.MethodPost,
		path:   "/registrations",
		body:   input,
	})
	if err != nil {
		return nil, err
	}

	created, _, err := decode[registry.Registration](resp)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// ListOptions selects a page of registrations.
type ListOptions struct {
	Page            int
	Limit           int
	DisabilityTypes []string
	City            string
}

func (options ListOptions) values() url.Values {
	values := url.Values{}
	if options.Page > 0 {
		values.Set("page", strconv.Itoa(options.Page))
	}
	if options.Limit > 0 {
		values.Set("limit", strconv.Itoa(options.Limit))
	}
	for _, kind := range options.DisabilityTypes {
		values.Add("disability_type", kind)
	}
	if options.City != "" {
		values.Set("city", options.City)
	}
	return values
}

// ListRegistrations returns one page of registrations, newest first. Only
// administrators are allowed.
func (client *Client) ListRegistrations(ctx context.Context, options ListOptions) ([]registry.Registration, pagination.Meta, error) {
	resp, err := client.authorized(ctx, request{
		method: http.MethodGet,
		path:   "/registrations",
		query:  options.values(),
	})
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return decode[[]registry.Registration](resp)
}
