// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package profile

import "context"

// Repository is the data access contract for pwd.user.
type Repository interface {
	// FindByUserID returns the profile joined with its role, or an apperr
	// NotFound when the account has no profile row.
	FindByUserID(ctx context.Context, userID string) (*Profile, error)

	// Create inserts profile.
	Create(ctx context.Context, profile *Profile) error
}
