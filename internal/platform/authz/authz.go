// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package authz answers "may this role call this endpoint" with a casbin RBAC
enforcer.

Subjects are role names, objects are request paths matched with keyMatch2
(so "/api/v1/registrations/:id" covers every id) and actions are HTTP methods
matched as a regular expression. Roles inherit through grouping rules: admin
inherits everything granted to user.

The policy table lives in code ([DefaultPolicies]) so a fresh deployment needs
no policy rows.
*/
package authz

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"github.com/taibuivan/pwdregistry/internal/platform/sec"
)

//go:embed model.conf
var modelContent string

// Rule grants Role the methods matching Methods on paths matching Path.
type Rule struct {
	Role    sec.UserRole
	Path    string
	Methods string
}

// Inheritance makes Role a member of Parent.
type Inheritance struct {
	Role   sec.UserRole
	Parent sec.UserRole
}

// DefaultPolicies is the built-in policy table of the registry API.
func DefaultPolicies() ([]Rule, []Inheritance) {
	rules := []Rule{
		{Role: sec.RoleUser, Path: "/api/v1/registrations", Methods: "^POST$"},
		{Role: sec.RoleUser, Path: "/api/v1/profiles/:identityID", Methods: "^GET$"},
		{Role: sec.RoleAdmin, Path: "/api/v1/registrations", Methods: "^(GET|POST)$"},
		{Role: sec.RoleAdmin, Path: "/api/v1/registrations/:id", Methods: "^(GET|PATCH|DELETE)$"},
	}
	inherits := []Inheritance{
		{Role: sec.RoleAdmin, Parent: sec.RoleUser},
	}
	return rules, inherits
}

// Enforcer wraps a synced casbin enforcer.
type Enforcer struct {
	enforcer *casbin.SyncedEnforcer
}

// NewEnforcer loads the embedded model and the given policy table.
func NewEnforcer(rules []Rule, inherits []Inheritance) (*Enforcer, error) {
	m, err := model.NewModelFromString(modelContent)
	if err != nil {
		return nil, fmt.Errorf("authz: parse casbin model: %w", err)
	}

	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("authz: create casbin enforcer: %w", err)
	}

	if len(rules) > 0 {
		policies := make([][]string, 0, len(rules))
		for _, rule := range rules {
			policies = append(policies, []string{string(rule.Role), rule.Path, rule.Methods})
		}
		if _, err := enforcer.AddPolicies(policies); err != nil {
			return nil, fmt.Errorf("authz: add policies: %w", err)
		}
	}

	for _, inherit := range inherits {
		if _, err := enforcer.AddGroupingPolicy(string(inherit.Role), string(inherit.Parent)); err != nil {
			return nil, fmt.Errorf("authz: add grouping policy: %w", err)
		}
	}

	return &Enforcer{enforcer: enforcer}, nil
}

// NewDefaultEnforcer builds an enforcer over [DefaultPolicies].
func NewDefaultEnforcer() (*Enforcer, error) {
	return NewEnforcer(DefaultPolicies())
}

// Allowed reports whether role may call method on path.
func (e *Enforcer) Allowed(role sec.UserRole, path, method string) (bool, error) {
	subject := string(sec.ParseRole(string(role)))
	if subject == "" {
		return false, nil
	}

	ok, err := e.enforcer.Enforce(subject, path, strings.ToUpper(method))
	if err != nil {
		return false, fmt.Errorf("authz: enforce: %w", err)
	}
	return ok, nil
}
