// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package session owns the portal's single notion of "who is logged in".

The [Holder] keeps the authoritative [identity.Session] value and broadcasts
every change with replay-latest semantics: a new subscriber first receives the
current value, then each later change in the order it was set.

# Lifecycle

  - [Holder.Start] restores the backend session and subscribes to backend
    session changes for the lifetime of the holder.
  - Each backend notification is resolved through the [Enricher] and
    published. Enrichment failures publish a provisional session instead of
    dropping the update.
  - [Holder.SignOut] always ends with no session, whatever the backend says.
  - [Holder.Close] drops the backend subscription.

# Ordering

Resolutions run concurrently, but every notification takes a ticket (epoch)
when it arrives. A resolution only publishes while its ticket is still the
newest one, so a slow lookup for an older identity never overwrites a newer
value.
*/
package session

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/taibuivan/pwdregistry/internal/identity"
)

// Listener receives each published session value. It must not call
// [Holder.Set].
type Listener func(current *identity.Session)

type subscriber struct {
	id       uint64
	listener Listener
}

// Holder is the process-wide session state.
type Holder struct {
	backend  identity.Backend
	enricher *Enricher
	logger   *slog.Logger

	// notifyMu serialises publication and subscription so listeners observe
	// values in the order they were published.
	notifyMu sync.Mutex

	mu          sync.RWMutex
	current     *identity.Session
	subscribers []subscriber
	nextID      uint64

	epoch atomic.Uint64

	ready     chan struct{}
	readyOnce sync.Once

	inflightMu sync.Mutex
	inflight   int
	idle       chan struct{}

	unsubscribe func()
}

// NewHolder constructs a [Holder]. A nil backend puts the holder in the
// degraded "backend unavailable" mode where every operation yields no session.
func NewHolder(backend identity.Backend, logger *slog.Logger) *Holder {
	if logger == nil {
		logger = slog.Default()
	}

	idle := make(chan struct{})
	close(idle)

	holder := &Holder{
		backend: backend,
		logger:  logger,
		ready:   make(chan struct{}),
		idle:    idle,
	}
	if backend != nil {
		holder.enricher = NewEnricher(backend)
	}
	return holder
}

// # Reads

// Current returns a snapshot of the latest session, or nil.
//
// Before the first publication it returns nil, which callers must treat as
// "no session".
func (holder *Holder) Current() *identity.Session {
	holder.mu.RLock()
	defer holder.mu.RUnlock()
	return holder.current.Clone()
}

// Ready is closed once the first value has been published.
func (holder *Holder) Ready() <-chan struct{} {
	return holder.ready
}

// Subscribe registers listener, immediately replays the current value to it,
// and returns a function that removes the registration.
func (holder *Holder) Subscribe(listener Listener) (cancel func()) {
	holder.notifyMu.Lock()
	defer holder.notifyMu.Unlock()

	holder.mu.Lock()
	holder.nextID++
	id := holder.nextID
	holder.subscribers = append(holder.subscribers, subscriber{id: id, listener: listener})
	current := holder.current
	holder.mu.Unlock()

	listener(current.Clone())

	var once sync.Once
	return func() {
		once.Do(func() { holder.remove(id) })
	}
}

// Watch exposes the broadcast as a channel. The channel is closed when ctx
// ends. Slow readers never block publication; values queue up per watcher.
func (holder *Holder) Watch(ctx context.Context) <-chan *identity.Session {
	out := make(chan *identity.Session)
	pending := newQueue()
	cancel := holder.Subscribe(pending.push)

	go func() {
		defer close(out)
		defer cancel()

		for {
			value, ok := pending.pop(ctx)
			if !ok {
				return
			}
			select {
			case out <- value:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

// # Writes

// Set overwrites the current value and notifies every subscriber.
//
// It also invalidates any resolution still in flight, so an explicit Set is
// never overwritten by an older backend notification.
func (holder *Holder) Set(session *identity.Session) {
	holder.epoch.Add(1)

	holder.notifyMu.Lock()
	defer holder.notifyMu.Unlock()
	holder.store(session)
}

// SignOut asks the backend to end the session and then clears the local value
// regardless of the outcome.
func (holder *Holder) SignOut(ctx context.Context) error {
	var err error
	if holder.backend != nil {
		err = holder.backend.SignOut(ctx)
	}

	holder.Set(nil)

	if err != nil {
		holder.logger.Warn("session_sign_out_backend_failed", slog.Any("error", err))
		return fmt.Errorf("session_sign_out_failed: %w", err)
	}
	return nil
}

// # Backend Reconciliation

// Start restores the backend session in the background and subscribes to
// backend session changes. It must be called once.
func (holder *Holder) Start(ctx context.Context) {
	if holder.backend == nil {
		holder.logger.Warn("session_backend_unavailable")
		holder.Set(nil)
		return
	}

	ticket := holder.epoch.Add(1)
	holder.begin()
	go func() {
		defer holder.end()

		var restored *identity.Session
		current, err := holder.backend.CurrentSession(ctx)
		switch {
		case err != nil:
			holder.logger.Warn("session_restore_failed", slog.Any("error", err))
		case current != nil:
			restored = holder.resolve(ctx, *current)
		}

		holder.publishIfCurrent(ticket, restored)
	}()

	holder.unsubscribe = holder.backend.Subscribe(holder.onBackendChange(ctx))
}

// Settle blocks until no resolution is in flight or ctx ends.
func (holder *Holder) Settle(ctx context.Context) error {
	holder.inflightMu.Lock()
	idle := holder.idle
	holder.inflightMu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close drops the backend subscription.
func (holder *Holder) Close() {
	if holder.unsubscribe != nil {
		holder.unsubscribe()
		holder.unsubscribe = nil
	}
}

// onBackendChange turns backend notifications into fenced resolutions.
func (holder *Holder) onBackendChange(ctx context.Context) identity.ChangeListener {
	return func(current *identity.Identity) {
		ticket := holder.epoch.Add(1)

		if current == nil {
			holder.publishIfCurrent(ticket, nil)
			return
		}

		changed := *current
		holder.begin()
		go func() {
			defer holder.end()
			holder.publishIfCurrent(ticket, holder.resolve(ctx, changed))
		}()
	}
}

// resolve merges the profile into the identity, degrading to a provisional
// session when enrichment fails.
func (holder *Holder) resolve(ctx context.Context, id identity.Identity) *identity.Session {
	profile, err := holder.enricher.Enrich(ctx, id.ID)
	if err != nil {
		holder.logger.Warn("session_enrichment_failed",
			slog.String("identity_id", id.ID),
			slog.Any("error", err),
		)
		return identity.NewProvisional(id)
	}

	if profile == nil {
		holder.logger.Info("session_profile_missing", slog.String("identity_id", id.ID))
	}

	return identity.NewResolved(id, profile)
}

// # Internals

// publishIfCurrent stores session only if no newer notification or Set has
// happened since ticket was taken.
func (holder *Holder) publishIfCurrent(ticket uint64, session *identity.Session) bool {
	holder.notifyMu.Lock()
	defer holder.notifyMu.Unlock()

	if holder.epoch.Load() != ticket {
		holder.logger.Debug("session_resolution_superseded", slog.Uint64("ticket", ticket))
		return false
	}

	holder.store(session)
	return true
}

// store publishes session. The caller holds notifyMu.
func (holder *Holder) store(session *identity.Session) {
	value := session.Clone()

	holder.mu.Lock()
	holder.current = value
	subscribers := slices.Clone(holder.subscribers)
	holder.mu.Unlock()

	holder.readyOnce.Do(func() { close(holder.ready) })

	for _, sub := range subscribers {
		sub.listener(value.Clone())
	}
}

func (holder *Holder) remove(id uint64) {
	holder.mu.Lock()
	defer holder.mu.Unlock()

	holder.subscribers = slices.DeleteFunc(holder.subscribers, func(sub subscriber) bool {
		return sub.id == id
	})
}

func (holder *Holder) begin() {
	holder.inflightMu.Lock()
	defer holder.inflightMu.Unlock()

	if holder.inflight == 0 {
		holder.idle = make(chan struct{})
	}
	holder.inflight++
}

func (holder *Holder) end() {
	holder.inflightMu.Lock()
	defer holder.inflightMu.Unlock()

	holder.inflight--
	if holder.inflight == 0 {
		close(holder.idle)
	}
}
