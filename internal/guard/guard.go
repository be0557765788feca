// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package guard decides whether the current session may enter a route.

[Evaluate] is a pure function over one session snapshot. It never errors and
never performs I/O; a denial always carries the route the caller should go to
instead.

# Rules

  - No requirement: any session may enter, no session goes to sign-in.
  - Role requirement: no session goes to sign-in. A resolved role matching the
    requirement (case-insensitive) may enter. Anything else goes to the
    role's home route from the [RedirectTable].
*/
package guard

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/taibuivan/pwdregistry/internal/identity"
)

// Default routes.
const (
	RouteSignIn   = "/auth/login"
	RouteFallback = "/"
	RouteAdmin    = "/admin"
	RouteUser     = "/pwd/register"
)

// Built-in role names.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// normalize folds a role name for comparison. A Caser is stateful, so each
// call builds its own.
func normalize(role string) string {
	return cases.Fold().String(strings.TrimSpace(role))
}

// # Requirement

// RoleRequirement restricts a route to a set of roles. The zero value means
// "authentication only".
type RoleRequirement struct {
	roles []string
}

// NoRole returns the absent requirement.
func NoRole() RoleRequirement {
	return RoleRequirement{}
}

// AnyRole requires one of roles. Blank names are ignored; if none remain the
// requirement is absent.
func AnyRole(roles ...string) RoleRequirement {
	var req RoleRequirement
	for _, role := range roles {
		if folded := normalize(role); folded != "" {
			req.roles = append(req.roles, folded)
		}
	}
	return req
}

// Present reports whether the requirement names any role.
func (req RoleRequirement) Present() bool {
	return len(req.roles) > 0
}

// Roles returns the folded role names.
func (req RoleRequirement) Roles() []string {
	return append([]string(nil), req.roles...)
}

// Matches reports whether role satisfies the requirement.
func (req RoleRequirement) Matches(role string) bool {
	folded := normalize(role)
	if folded == "" {
		return false
	}
	for _, want := range req.roles {
		if want == folded {
			return true
		}
	}
	return false
}

// # Redirects

// RedirectTable maps a role to the route that role lands on when denied.
// Lookups are total: unknown and empty roles yield the fallback.
type RedirectTable struct {
	routes   map[string]string
	fallback string
}

// NewRedirectTable builds a table from role→route pairs. An empty fallback
// becomes [RouteFallback].
func NewRedirectTable(routes map[string]string, fallback string) RedirectTable {
	table := RedirectTable{
		routes:   make(map[string]string, len(routes)),
		fallback: strings.TrimSpace(fallback),
	}
	if table.fallback == "" {
		table.fallback = RouteFallback
	}
	for role, route := range routes {
		key := normalize(role)
		route = strings.TrimSpace(route)
		if key == "" || route == "" {
			continue
		}
		table.routes[key] = route
	}
	return table
}

// DefaultRedirects returns admin→/admin, user→/pwd/register, else /.
func DefaultRedirects() RedirectTable {
	return NewRedirectTable(map[string]string{
		RoleAdmin: RouteAdmin,
		RoleUser:  RouteUser,
	}, RouteFallback)
}

// Lookup returns the route for role.
func (table RedirectTable) Lookup(role string) string {
	if route, ok := table.routes[normalize(role)]; ok {
		return route
	}
	if table.fallback == "" {
		return RouteFallback
	}
	return table.fallback
}

// # Policy

// Policy holds the routing data Evaluate consults.
type Policy struct {
	SignInRoute string
	Redirects   RedirectTable
}

// DefaultPolicy is the portal's built-in policy.
func DefaultPolicy() Policy {
	return Policy{SignInRoute: RouteSignIn, Redirects: DefaultRedirects()}
}

func (p Policy) signIn() string {
	if route := strings.TrimSpace(p.SignInRoute); route != "" {
		return route
	}
	return RouteSignIn
}

// # Decision

// Decision is the result of a guard evaluation.
type Decision struct {
	Allowed  bool
	Redirect string
}

// Allow grants entry.
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny refuses entry and sends the caller to route.
func Deny(route string) Decision {
	if route == "" {
		route = RouteFallback
	}
	return Decision{Redirect: route}
}

// Evaluate decides whether session may enter a route guarded by req.
func Evaluate(session *identity.Session, req RoleRequirement, policy Policy) Decision {
	if session == nil {
		return Deny(policy.signIn())
	}

	if !req.Present() {
		return Allow()
	}

	role := session.RoleName()
	if req.Matches(role) {
		return Allow()
	}

	return Deny(policy.Redirects.Lookup(role))
}
