// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

// # Token Sizes

const (
	// RefreshTokenLength is the byte length of an opaque refresh token.
	RefreshTokenLength = 32

	// VerificationTokenLength is the byte length of an email confirmation token.
	VerificationTokenLength = 32

	// MinPasswordLength applies to registration only; login never reveals it.
	MinPasswordLength = 8

	// MaxNameLength bounds every name part.
	MaxNameLength = 100
)

// # Field Identifiers

const (
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldFirstName   = "first_name"
	FieldMiddleName  = "middle_name"
	FieldLastName    = "last_name"
	FieldMobile      = "mobile"
	FieldToken       = "token"
	FieldAccessToken = "access_token"
	FieldTokenType   = "token_type"
	FieldExpiresIn   = "expires_in"
	FieldIdentity    = "identity"
	FieldExists      = "exists"
	FieldMessage     = "message"
)
