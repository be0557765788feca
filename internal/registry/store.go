// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package registry

import "context"

// Repository persists registrations.
type Repository interface {
	// List returns one page, newest first, and the total matching count.
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Registration, int, error)

	Get(ctx context.Context, id string) (*Registration, error)
	Create(ctx context.Context, registration *Registration) error

	// Update rewrites every section of an existing row.
	Update(ctx context.Context, registration *Registration) error

	Delete(ctx context.Context, id string) error
}
