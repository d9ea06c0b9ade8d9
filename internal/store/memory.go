package store

import (
	"context"
	"sync"
)

type MemoryStore[T Keyed] struct {
	mu    sync.RWMutex
	items map[string]T
	hub   *hub[T]
}

func NewMemoryStore[T Keyed]() *MemoryStore[T] {
	return &MemoryStore[T]{items: map[string]T{}, hub: newHub[T]()}
}

func (s *MemoryStore[T]) Put(_ context.Context, items ...T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range items {
		s.items[item.Key()] = item
	}
	return nil
}

func (s *MemoryStore[T]) Get(_ context.Context, key string) (T, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[key]
	return item, ok, nil
}

func (s *MemoryStore[T]) Update(_ context.Context, item T) error {
	s.mu.Lock()
	s.items[item.Key()] = item
	s.mu.Unlock()
	s.hub.notify(Change[T]{Kind: Updated, Key: item.Key(), Value: item})
	return nil
}

func (s *MemoryStore[T]) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
	s.hub.notify(Change[T]{Kind: Deleted, Key: key})
	return nil
}

func (s *MemoryStore[T]) Invalidate(_ context.Context, keys ...string) error {
	s.mu.Lock()
	for _, key := range keys {
		delete(s.items, key)
	}
	s.mu.Unlock()
	for _, key := range keys {
		s.hub.notify(Change[T]{Kind: Invalidated, Key: key})
	}
	return nil
}

func (s *MemoryStore[T]) Watch(ctx context.Context) <-chan Change[T] {
	return s.hub.watch(ctx)
}
