// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package identity

import "errors"

// Degraded states. These are absorbed by the session layer.
var (
	ErrBackendUnavailable = errors.New("identity backend unavailable")
	ErrEnrichmentFailed   = errors.New("profile enrichment failed")
)

// Credential failures. These reach the presentation layer.
var (
	ErrAuthRejected      = errors.New("authentication rejected")
	ErrEmailNotConfirmed = errors.New("email not confirmed")
)

// IsAuthRejected reports whether err is a credential failure worth showing
// to the user.
func IsAuthRejected(err error) bool {
	return errors.Is(err, ErrAuthRejected)
}
