// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package identity defines the contract between the portal and the remote
identity backend.

It holds the entities every client-side component agrees on (Identity,
Profile, Session), the [Backend] port consumed by the session layer, and the
error taxonomy used to tell credential rejections apart from degraded states.

# Session States

  - No session: the value is nil.
  - Provisional: identity known, profile or role not resolved.
  - Resolved: identity with a profile carrying a role name.
*/
package identity

import "strings"

// # Domain Entities

// Identity is the minimal authenticated principal issued by the backend.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

// Profile holds the registry attributes stored against an identity.
type Profile struct {
	FirstName  string `json:"first_name"`
	MiddleName string `json:"middle_name,omitempty"`
	LastName   string `json:"last_name"`
	Mobile     string `json:"mobile,omitempty"`
	RoleID     int    `json:"role_id"`

	// RoleName comes from the joined role relation. Empty when the join
	// yielded nothing.
	RoleName string `json:"role_name,omitempty"`
}

// Session is the locally cached view of the signed-in identity.
type Session struct {
	IdentityID string   `json:"identity_id"`
	Email      string   `json:"email,omitempty"`
	Profile    *Profile `json:"profile,omitempty"`
}

// NewProvisional builds a session that only knows who the identity is.
func NewProvisional(id Identity) *Session {
	return &Session{IdentityID: id.ID, Email: id.Email}
}

// NewResolved merges a profile into the identity. A nil profile yields a
// provisional session.
func NewResolved(id Identity, profile *Profile) *Session {
	session := NewProvisional(id)
	if profile != nil {
		copied := *profile
		session.Profile = &copied
	}
	return session
}

// Resolved reports whether the session carries a usable role.
func (s *Session) Resolved() bool {
	return s != nil && s.Profile != nil && strings.TrimSpace(s.Profile.RoleName) != ""
}

// RoleName returns the resolved role, or "" for provisional or absent sessions.
func (s *Session) RoleName() string {
	if !s.Resolved() {
		return ""
	}
	return s.Profile.RoleName
}

// DisplayName joins the available name parts, falling back to the email.
func (s *Session) DisplayName() string {
	if s == nil {
		return ""
	}
	if s.Profile != nil {
		parts := []string{s.Profile.FirstName, s.Profile.MiddleName, s.Profile.LastName}
		name := strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
		if name != "" {
			return name
		}
	}
	return s.Email
}

// Clone returns a deep copy so readers never share the holder's value.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	copied := *s
	if s.Profile != nil {
		profile := *s.Profile
		copied.Profile = &profile
	}
	return &copied
}
