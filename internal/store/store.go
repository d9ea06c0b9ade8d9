// Package store is the client-side view store shared by every screen. List
// controllers seed it with fetched rows; mutations and remote events update
// or invalidate rows, and watchers are told so they can patch or re-fetch.
package store

import (
	"context"
	"sync"
)

// Keyed is any row with a stable identity.
type Keyed interface {
	Key() string
}

type ChangeKind int

const (
	Updated ChangeKind = iota + 1
	Deleted
	Invalidated
)

func (k ChangeKind) String() string {
	switch k {
	case Updated:
		return "updated"
	case Deleted:
		return "deleted"
	case Invalidated:
		return "invalidated"
	}
	return "unknown"
}

// Change describes one row. Value is set only for Updated.
type Change[T Keyed] struct {
	Kind  ChangeKind
	Key   string
	Value T
}

type Store[T Keyed] interface {
	// Put records fetched rows without notifying watchers.
	Put(ctx context.Context, items ...T) error
	Get(ctx context.Context, key string) (T, bool, error)
	// Update records a confirmed change and notifies watchers.
	Update(ctx context.Context, item T) error
	Delete(ctx context.Context, key string) error
	// Invalidate drops rows whose server state is known to have moved.
	Invalidate(ctx context.Context, keys ...string) error
	Watch(ctx context.Context) <-chan Change[T]
}

// hub fans changes out to watchers. Slow watchers lose changes rather than
// block the writer.
type hub[T Keyed] struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan Change[T]
}

func newHub[T Keyed]() *hub[T] {
	return &hub[T]{subs: map[int]chan Change[T]{}}
}

func (h *hub[T]) watch(ctx context.Context) <-chan Change[T] {
	ch := make(chan Change[T], 32)
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = ch
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		delete(h.subs, id)
		close(ch)
		h.mu.Unlock()
	}()
	return ch
}

func (h *hub[T]) notify(c Change[T]) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- c:
		default:
		}
	}
}
