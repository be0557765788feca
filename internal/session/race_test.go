// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/pwdregistry/internal/identity"
	"github.com/taibuivan/pwdregistry/internal/session"
)

// fakeBackend lets a test hold individual profile lookups open.
type fakeBackend struct {
	mu        sync.Mutex
	listeners map[int]identity.ChangeListener
	nextID    int
	gates     map[string]chan struct{}
	started   map[string]chan struct{}
	profiles  map[string]*identity.Profile
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		listeners: map[int]identity.ChangeListener{},
		gates:     map[string]chan struct{}{},
		started:   map[string]chan struct{}{},
		profiles:  map[string]*identity.Profile{},
	}
}

// gate makes lookups for id block until the returned release is called.
func (f *fakeBackend) gate(id string) (started <-chan struct{}, release func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	gate := make(chan struct{})
	begun := make(chan struct{})
	f.gates[id] = gate
	f.started[id] = begun
	return begun, func() { close(gate) }
}

func (f *fakeBackend) emit(current *identity.Identity) {
	f.mu.Lock()
	listeners := make([]identity.ChangeListener, 0, len(f.listeners))
	for i := 0; i < f.nextID; i++ {
		if listener, ok := f.listeners[i]; ok {
			listeners = append(listeners, listener)
		}
	}
	f.mu.Unlock()

	for _, listener := range listeners {
		listener(current)
	}
}

func (f *fakeBackend) listenerCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.listeners)
}

func (f *fakeBackend) CurrentSession(context.Context) (*identity.Identity, error) {
	return nil, nil
}

func (f *fakeBackend) Subscribe(listener identity.ChangeListener) func() {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID
	f.nextID++
	f.listeners[id] = listener
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.listeners, id)
	}
}

func (f *fakeBackend) SignIn(context.Context, string, string) (*identity.Identity, error) {
	return nil, identity.ErrAuthRejected
}

func (f *fakeBackend) SignUp(context.Context, identity.SignUpInput) (*identity.Identity, error) {
	return nil, identity.ErrAuthRejected
}

func (f *fakeBackend) SignOut(context.Context) error {
	f.emit(nil)
	return nil
}

func (f *fakeBackend) LookupProfile(ctx context.Context, identityID string) (*identity.Profile, error) {
	f.mu.Lock()
	gate := f.gates[identityID]
	begun := f.started[identityID]
	profile := f.profiles[identityID]
	f.mu.Unlock()

	if begun != nil {
		close(begun)
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return profile, nil
}

func (f *fakeBackend) CheckEmailExists(context.Context, string) (bool, error) {
	return false, nil
}

/*
TestHolder_LastNotificationWins covers two rapid notifications where the first
identity's lookup completes after the second's.
*/
func TestHolder_LastNotificationWins(t *testing.T) {
	backend := newFakeBackend()
	backend.profiles["u1"] = &identity.Profile{FirstName: "One", RoleName: "admin"}
	backend.profiles["u2"] = &identity.Profile{FirstName: "Two", RoleName: "user"}

	holder := session.NewHolder(backend, nil)
	holder.Start(context.Background())
	settle(t, holder)

	rec := &recorder{}
	holder.Subscribe(rec.listen)

	slowStarted, releaseSlow := backend.gate("u1")

	backend.emit(&identity.Identity{ID: "u1"})
	<-slowStarted
	backend.emit(&identity.Identity{ID: "u2"})

	// Let u2 land first, then release the stale u1 lookup.
	require.Eventually(t, func() bool {
		current := holder.Current()
		return current != nil && current.IdentityID == "u2"
	}, testTimeout, testTick)

	releaseSlow()
	settle(t, holder)

	current := holder.Current()
	require.NotNil(t, current)
	assert.Equal(t, "u2", current.IdentityID)
	assert.Equal(t, "user", current.RoleName())
	assert.NotContains(t, rec.ids(), "u1")
}

/*
TestHolder_SignOutBeatsInflightResolution verifies that a sign-out issued while
a lookup is still running is not overwritten by it.
*/
func TestHolder_SignOutBeatsInflightResolution(t *testing.T) {
	backend := newFakeBackend()
	backend.profiles["u1"] = &identity.Profile{RoleName: "user"}

	holder := session.NewHolder(backend, nil)
	holder.Start(context.Background())
	settle(t, holder)

	started, release := backend.gate("u1")
	backend.emit(&identity.Identity{ID: "u1"})
	<-started

	require.NoError(t, holder.SignOut(context.Background()))
	release()
	settle(t, holder)

	assert.Nil(t, holder.Current())
}

/*
TestHolder_NotificationsPublishInOrder verifies order preservation across
backend notifications that resolve immediately.
*/
func TestHolder_NotificationsPublishInOrder(t *testing.T) {
	backend := newFakeBackend()
	holder := session.NewHolder(backend, nil)
	holder.Start(context.Background())
	settle(t, holder)

	for _, id := range []string{"a", "b", "c"} {
		backend.emit(&identity.Identity{ID: id})
		settle(t, holder)
	}
	backend.emit(nil)

	assert.Nil(t, holder.Current())
}
