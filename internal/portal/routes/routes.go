// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package routes is the portal's route table: which pages exist and which
// of them sit behind the access guard.
package routes

import (
	"sort"
	"strings"

	"github.com/taibuivan/pwdregistry/internal/guard"
)

// Portal routes.
const (
	Home         = "/"
	SignIn       = guard.RouteSignIn
	SignUp       = "/auth/register"
	Dashboard    = "/dashboard"
	Registration = guard.RouteUser
	Admin        = guard.RouteAdmin
)

// Route is one page of the portal.
type Route struct {
	Path  string
	Title string

	// Protected routes are evaluated by the guard before they render.
	Protected bool

	// Requirement is the role gate of a protected route. An absent
	// requirement only asks for a signed-in identity.
	Requirement guard.RoleRequirement
}

// Table is an immutable set of routes keyed by path.
type Table struct {
	routes map[string]Route
}

// New builds a table from routes. Later entries replace earlier ones with the
// same path.
func New(routes ...Route) Table {
	table := Table{routes: make(map[string]Route, len(routes))}
	for _, route := range routes {
		table.routes[clean(route.Path)] = route
	}
	return table
}

// Default is the portal's built-in route table.
func Default() Table {
	return New(
		Route{Path: Home, Title: "Home"},
		Route{Path: SignIn, Title: "Sign in"},
		Route{Path: SignUp, Title: "Create an account"},
		Route{Path: Dashboard, Title: "Dashboard", Protected: true, Requirement: guard.NoRole()},
		Route{Path: Registration, Title: "PWD registration", Protected: true, Requirement: guard.AnyRole(guard.RoleUser)},
		Route{Path: Admin, Title: "Administration", Protected: true, Requirement: guard.AnyRole(guard.RoleAdmin)},
	)
}

// WithRoles returns a copy of table where each listed path requires one of
// the given roles. Unknown paths are added as protected routes.
func (table Table) WithRoles(roles map[string][]string) Table {
	routes := make([]Route, 0, len(table.routes)+len(roles))
	for _, route := range table.routes {
		routes = append(routes, route)
	}
	for path, names := range roles {
		route, ok := table.Lookup(path)
		if !ok {
			route = Route{Path: clean(path), Title: clean(path)}
		}
		route.Protected = true
		route.Requirement = guard.AnyRole(names...)
		routes = append(routes, route)
	}
	return New(routes...)
}

// Lookup finds the route for path, ignoring a trailing slash.
func (table Table) Lookup(path string) (Route, bool) {
	route, ok := table.routes[clean(path)]
	return route, ok
}

// All lists the routes ordered by path.
func (table Table) All() []Route {
	routes := make([]Route, 0, len(table.routes))
	for _, route := range table.routes {
		routes = append(routes, route)
	}
	sort.Slice(routes, func(i, j int) bool { return routes[i].Path < routes[j].Path })
	return routes
}

func clean(path string) string {
	path = strings.TrimSpace(path)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}
