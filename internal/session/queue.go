// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"sync"

	"github.com/taibuivan/pwdregistry/internal/identity"
)

// queue is an unbounded FIFO between a listener and a watcher goroutine.
type queue struct {
	mu     sync.Mutex
	items  []*identity.Session
	signal chan struct{}
}

func newQueue() *queue {
	return &queue{signal: make(chan struct{}, 1)}
}

// push never blocks.
func (q *queue) push(value *identity.Session) {
	q.mu.Lock()
	q.items = append(q.items, value)
	q.mu.Unlock()

	select {
	case q.signal <- struct{}{}:
	default:
	}
}

// pop waits for the next value. It reports false once ctx ends.
func (q *queue) pop(ctx context.Context) (*identity.Session, bool) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			value := q.items[0]
			q.items[0] = nil
			q.items = q.items[1:]
			q.mu.Unlock()
			return value, true
		}
		q.mu.Unlock()

		select {
		case <-q.signal:
		case <-ctx.Done():
			return nil, false
		}
	}
}
