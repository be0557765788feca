// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package profile_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/pwdregistry/internal/platform/apperr"
	"github.com/taibuivan/pwdregistry/internal/users/profile"
)

const userID = "0190a5d2-6f1e-7c3a-9b1e-2f4d5c6b7a80"

// memoryRepository is an in-memory [profile.Repository].
type memoryRepository struct {
	mu       sync.Mutex
	profiles map[string]profile.Profile
	roles    map[int]string
	reads    int
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		profiles: map[string]profile.Profile{},
		roles:    map[int]string{1: "admin", 2: "user"},
	}
}

func (m *memoryRepository) FindByUserID(_ context.Context, id string) (*profile.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reads++
	p, ok := m.profiles[id]
	if !ok {
		return nil, apperr.NotFound("Profile")
	}
	p.RoleName = m.roles[p.RoleID]
	return &p, nil
}

func (m *memoryRepository) Create(_ context.Context, p *profile.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.profiles[p.UserID]; ok {
		return apperr.Conflict("Profile already exists")
	}
	m.profiles[p.UserID] = *p
	return nil
}

func newService(t *testing.T, repo profile.Repository) *profile.Service {
	t.Helper()
	service, err := profile.NewService(repo, 16, 2)
	require.NoError(t, err)
	return service
}

func TestService_CreateDefaultsRole(t *testing.T) {
	repo := newMemoryRepository()
	service := newService(t, repo)

	created, err := service.Create(context.Background(), profile.CreateInput{
		UserID:    userID,
		FirstName: " Ana ",
		LastName:  "Cruz",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, created.RoleID)
	assert.Equal(t, "Ana", created.FirstName)

	got, err := service.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "user", got.RoleName)
}

func TestService_CreateValidates(t *testing.T) {
	service := newService(t, newMemoryRepository())

	_, err := service.Create(context.Background(), profile.CreateInput{UserID: "bad", Mobile: "abc"})

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, apperr.CodeValidation, ae.Code)

	fields := make([]string, 0, len(ae.Details))
	for _, d := range ae.Details {
		fields = append(fields, d.Field)
	}
	assert.Subset(t, fields, []string{"user_id", "first_name", "last_name", "mobile"})
}

func TestService_GetCaches(t *testing.T) {
	repo := newMemoryRepository()
	repo.profiles[userID] = profile.Profile{UserID: userID, FirstName: "Ana", RoleID: 1}
	service := newService(t, repo)

	first, err := service.Get(context.Background(), userID)
	require.NoError(t, err)
	first.RoleName = "tampered"

	second, err := service.Get(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, "admin", second.RoleName)
	assert.Equal(t, 1, repo.reads)
}

func TestService_GetMissing(t *testing.T) {
	service := newService(t, newMemoryRepository())

	_, err := service.Get(context.Background(), userID)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}
