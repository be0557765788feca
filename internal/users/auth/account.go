// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth is the identity backend of the registry: it creates accounts,
checks credentials, issues and rotates sessions and confirms email ownership.

# Session Model

A login yields a short-lived RS256 access token and an opaque refresh token.
Only the SHA-256 of the refresh token is stored (auth.session); refreshing
revokes the old row and inserts a new one.

# Confirmation

Accounts start unverified. A confirmation token is kept in Redis and mailed
as a link; logging in before confirming fails with EMAIL_NOT_CONFIRMED.
*/
package auth

import (
	"strings"
	"time"
)

// # Domain Entities

// Account is a credential record in auth.account.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsVerified   bool      `json:"is_verified"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Session is a refresh-token session in auth.session.
type Session struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	TokenHash string    `json:"-"`
	UserAgent string    `json:"user_agent"`
	IPAddress string    `json:"ip_address"`
	ExpiresAt time.Time `json:"expires_at"`
	IsRevoked bool      `json:"is_revoked"`
	CreatedAt time.Time `json:"created_at"`
}

// Identity is the public view of an account sent to clients.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Identity returns the public view of a.
func (a *Account) Identity() Identity {
	return Identity{ID: a.ID, Email: a.Email}
}

// NormalizeEmail trims and lowercases an address so lookups and uniqueness
// ignore case.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
