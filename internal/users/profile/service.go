// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package profile

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/taibuivan/pwdregistry/internal/platform/ctxutil"
	"github.com/taibuivan/pwdregistry/internal/platform/validate"
)

// Service implements profile reads and creation.
type Service struct {
	repository    Repository
	cache         *lru.Cache[string, Profile]
	defaultRoleID int
}

// NewService builds the service with an LRU cache of cacheSize entries.
func NewService(repository Repository, cacheSize, defaultRoleID int) (*Service, error) {
	cache, err := lru.New[string, Profile](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("profile: failed to create cache: %w", err)
	}
	return &Service{repository: repository, cache: cache, defaultRoleID: defaultRoleID}, nil
}

/*
Get returns the profile of userID.

Returns:
  - *Profile: a copy the caller may modify
  - error: apperr NotFound when the account has no profile row
*/
func (service *Service) Get(ctx context.Context, userID string) (*Profile, error) {
	if cached, ok := service.cache.Get(userID); ok {
		return &cached, nil
	}

	profile, err := service.repository.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	service.cache.Add(userID, *profile)
	return profile, nil
}

// Create validates and stores a profile for a new account.
func (service *Service) Create(ctx context.Context, input CreateInput) (*Profile, error) {
	profile := &Profile{
		UserID:     input.UserID,
		FirstName:  strings.TrimSpace(input.FirstName),
		MiddleName: strings.TrimSpace(input.MiddleName),
		LastName:   strings.TrimSpace(input.LastName),
		Mobile:     strings.TrimSpace(input.Mobile),
		RoleID:     input.RoleID,
	}
	if profile.RoleID == 0 {
		profile.RoleID = service.defaultRoleID
	}

	validator := &validate.Validator{}
	validator.UUID("user_id", profile.UserID).
		Required("first_name", profile.FirstName).
		MaxLen("first_name", profile.FirstName, 100).
		MaxLen("middle_name", profile.MiddleName, 100).
		Required("last_name", profile.LastName).
		MaxLen("last_name", profile.LastName, 100).
		Mobile("mobile", profile.Mobile).
		Custom("role_id", profile.RoleID <= 0, "Must be a positive role id")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repository.Create(ctx, profile); err != nil {
		return nil, err
	}

	service.cache.Remove(profile.UserID)
	ctxutil.GetLogger(ctx).Info("profile_created",
		slog.String("user_id", profile.UserID),
		slog.Int("role_id", profile.RoleID),
	)
	return profile, nil
}
