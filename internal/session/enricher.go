// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/taibuivan/pwdregistry/internal/identity"
)

// ProfileLookup is the slice of [identity.Backend] the enricher needs.
type ProfileLookup interface {
	LookupProfile(ctx context.Context, identityID string) (*identity.Profile, error)
}

// Enricher maps a bare identity to its registry profile.
//
// Concurrent lookups for the same identity share one backend call.
type Enricher struct {
	lookup ProfileLookup
	group  singleflight.Group
}

// NewEnricher constructs an [Enricher] over the given lookup.
func NewEnricher(lookup ProfileLookup) *Enricher {
	return &Enricher{lookup: lookup}
}

/*
Enrich fetches the profile stored against identityID.

Returns:
  - *identity.Profile: a private copy, or nil when no profile row exists
  - error: backend failures wrapped with [identity.ErrEnrichmentFailed]
*/
func (enricher *Enricher) Enrich(ctx context.Context, identityID string) (*identity.Profile, error) {
	if enricher == nil || enricher.lookup == nil {
		return nil, fmt.Errorf("%w: %w", identity.ErrEnrichmentFailed, identity.ErrBackendUnavailable)
	}

	value, err, _ := enricher.group.Do(identityID, func() (any, error) {
		return enricher.lookup.LookupProfile(ctx, identityID)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", identity.ErrEnrichmentFailed, err)
	}

	profile, _ := value.(*identity.Profile)
	if profile == nil {
		return nil, nil
	}

	// Callers sharing a flight must not alias each other's result.
	copied := *profile
	return &copied, nil
}
