// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package identity

import "context"

//go:generate mockgen -destination=identitymock/backend.go -package=identitymock . Backend

// SignUpInput carries the credentials and profile fields of a new member.
type SignUpInput struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	FirstName  string `json:"first_name"`
	MiddleName string `json:"middle_name,omitempty"`
	LastName   string `json:"last_name"`
	Mobile     string `json:"mobile,omitempty"`
}

// ChangeListener receives the new backend identity, or nil when signed out.
type ChangeListener func(current *Identity)

// Backend is the remote identity service consumed by the session layer.
//
// # Contract
//
// Implementations own credential verification and session issuance. The
// portal never keeps its own copy of credentials; it only mirrors what the
// backend reports through [Backend.CurrentSession] and [Backend.Subscribe].
type Backend interface {
	// CurrentSession returns the identity of a restored session, or nil.
	CurrentSession(ctx context.Context) (*Identity, error)

	// Subscribe registers a listener for every session change. The returned
	// function removes it.
	Subscribe(listener ChangeListener) (unsubscribe func())

	// SignIn verifies credentials. Rejections wrap [ErrAuthRejected].
	SignIn(ctx context.Context, email, password string) (*Identity, error)

	// SignUp creates the identity and its profile row.
	SignUp(ctx context.Context, input SignUpInput) (*Identity, error)

	// SignOut invalidates the backend session.
	SignOut(ctx context.Context) error

	// LookupProfile returns the profile joined with its role name, or nil
	// when no profile row exists.
	LookupProfile(ctx context.Context, identityID string) (*Profile, error)

	// CheckEmailExists reports whether the address is already registered.
	CheckEmailExists(ctx context.Context, email string) (bool, error)
}
