// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"log/slog"
	"net/url"
)

// Mailer delivers confirmation links.
type Mailer interface {
	SendConfirmation(ctx context.Context, email, link string) error
}

// LogMailer writes confirmation links to the log instead of sending mail.
// It is the default until an SMTP relay is configured.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer builds a [LogMailer].
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// SendConfirmation logs the link at info level.
func (mailer *LogMailer) SendConfirmation(ctx context.Context, email, link string) error {
	mailer.logger.InfoContext(ctx, "auth_confirmation_link_issued",
		slog.String("email", email),
		slog.String("link", link),
	)
	return nil
}

// ConfirmationLink builds the portal link carrying token.
func ConfirmationLink(baseURL, token string) string {
	link, err := url.Parse(baseURL)
	if err != nil || link.Scheme == "" {
		return baseURL + "/auth/confirm?token=" + url.QueryEscape(token)
	}
	link = link.JoinPath("auth", "confirm")
	query := link.Query()
	query.Set(FieldToken, token)
	link.RawQuery = query.Encode()
	return link.String()
}
