// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package navigator moves the portal between routes.

Every navigation takes one session snapshot, evaluates the access guard for
the target route and, on a denial, follows the redirect. Redirect chains are
bounded so a misconfigured redirect table cannot loop forever.
*/
package navigator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/taibuivan/pwdregistry/internal/guard"
	"github.com/taibuivan/pwdregistry/internal/identity"
	"github.com/taibuivan/pwdregistry/internal/portal/routes"
)

// ErrRedirectLoop is returned when redirects exceed the hop limit.
var ErrRedirectLoop = errors.New("too many redirects")

// SessionSource is the read side of the session holder.
type SessionSource interface {
	Current() *identity.Session
	Ready() <-chan struct{}
}

// Result is where a navigation ended.
type Result struct {
	Route   routes.Route
	Session *identity.Session

	// Trail lists every route visited, starting with the requested one.
	Trail []string
}

// Redirected reports whether the navigation ended somewhere other than the
// requested path.
func (result Result) Redirected() bool {
	return len(result.Trail) > 1
}

// Navigator resolves route requests against the guard.
type Navigator struct {
	sessions SessionSource
	table    routes.Table
	policy   guard.Policy
	fallback string
	maxHops  int
	logger   *slog.Logger
}

// New builds a navigator. maxHops below one allows a single redirect.
func New(sessions SessionSource, table routes.Table, policy guard.Policy, fallback string, maxHops int, logger *slog.Logger) *Navigator {
	if maxHops < 1 {
		maxHops = 1
	}
	if fallback == "" {
		fallback = guard.RouteFallback
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Navigator{
		sessions: sessions,
		table:    table,
		policy:   policy,
		fallback: fallback,
		maxHops:  maxHops,
		logger:   logger,
	}
}

// Navigate resolves path to the route the current session may see.
//
// It waits for the session holder's first publication. If ctx ends first the
// session is treated as absent rather than failing the navigation.
func (nav *Navigator) Navigate(ctx context.Context, path string) (Result, error) {
	var session *identity.Session
	select {
	case <-nav.sessions.Ready():
		session = nav.sessions.Current()
	case <-ctx.Done():
		nav.logger.Warn("navigation_session_not_ready", slog.String("path", path))
	}

	return nav.resolve(session, path)
}

// resolve evaluates the guard hop by hop against one snapshot.
func (nav *Navigator) resolve(session *identity.Session, path string) (Result, error) {
	result := Result{Session: session}

	for hops := 0; ; hops++ {
		route, ok := nav.table.Lookup(path)
		if !ok {
			nav.logger.Debug("navigation_unknown_route", slog.String("path", path))
			route, ok = nav.table.Lookup(nav.fallback)
			if !ok {
				return result, fmt.Errorf("navigator: no route for %q and no fallback", path)
			}
		}
		result.Trail = append(result.Trail, route.Path)

		if !route.Protected {
			result.Route = route
			return result, nil
		}

		decision := guard.Evaluate(session, route.Requirement, nav.policy)
		if decision.Allowed {
			result.Route = route
			return result, nil
		}

		if hops >= nav.maxHops {
			return result, fmt.Errorf("%w: %v", ErrRedirectLoop, result.Trail)
		}

		nav.logger.Debug("navigation_denied",
			slog.String("path", route.Path),
			slog.String("redirect", decision.Redirect),
			slog.String("role", session.RoleName()),
		)
		path = decision.Redirect
	}
}
