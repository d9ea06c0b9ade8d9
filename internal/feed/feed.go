// Package feed provides a replaying value stream: subscribers receive the
// latest published value immediately and every later one.
package feed

import (
	"context"
	"sync"
)

type Latest[T any] struct {
	mu     sync.Mutex
	value  T
	set    bool
	nextID int
	subs   map[int]chan T
}

func NewLatest[T any]() *Latest[T] {
	return &Latest[T]{subs: map[int]chan T{}}
}

// Publish stores v and offers it to every subscriber. A subscriber that has
// not drained its previous value gets the newer one instead.
func (l *Latest[T]) Publish(v T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.value = v
	l.set = true
	for _, ch := range l.subs {
		offer(ch, v)
	}
}

// Value returns the last published value.
func (l *Latest[T]) Value() (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.value, l.set
}

// Subscribe returns a channel closed when ctx is done.
func (l *Latest[T]) Subscribe(ctx context.Context) <-chan T {
	ch := make(chan T, 1)
	l.mu.Lock()
	id := l.nextID
	l.nextID++
	l.subs[id] = ch
	if l.set {
		ch <- l.value
	}
	l.mu.Unlock()

	go func() {
		<-ctx.Done()
		l.mu.Lock()
		delete(l.subs, id)
		close(ch)
		l.mu.Unlock()
	}()
	return ch
}

func offer[T any](ch chan T, v T) {
	select {
	case ch <- v:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- v:
	default:
	}
}
