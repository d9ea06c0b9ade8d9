package store

import (
	"context"
	"fmt"
	"time"

	"github.com/eaglebank/console/internal/redis"
	goredis "github.com/redis/go-redis/v9"
)

// RedisStore keeps rows in redis so several console processes see the same
// snapshots. Watchers are local to the process; remote processes learn about
// changes through the event streams.
type RedisStore[T Keyed] struct {
	cache *redis.ViewCache[T]
	hub   *hub[T]
}

func NewRedisStore[T Keyed](client goredis.Cmdable, prefix string, ttl time.Duration) *RedisStore[T] {
	return &RedisStore[T]{
		cache: redis.NewViewCache[T](client, prefix, ttl),
		hub:   newHub[T](),
	}
}

func (s *RedisStore[T]) Put(ctx context.Context, items ...T) error {
	for _, item := range items {
		if err := s.cache.Set(ctx, item.Key(), item); err != nil {
			return fmt.Errorf("failed to store row: %w", err)
		}
	}
	return nil
}

func (s *RedisStore[T]) Get(ctx context.Context, key string) (T, bool, error) {
	return s.cache.Get(ctx, key)
}

func (s *RedisStore[T]) Update(ctx context.Context, item T) error {
	if err := s.cache.Set(ctx, item.Key(), item); err != nil {
		return fmt.Errorf("failed to update row: %w", err)
	}
	s.hub.notify(Change[T]{Kind: Updated, Key: item.Key(), Value: item})
	return nil
}

func (s *RedisStore[T]) Delete(ctx context.Context, key string) error {
	if err := s.cache.Delete(ctx, key); err != nil {
		return err
	}
	s.hub.notify(Change[T]{Kind: Deleted, Key: key})
	return nil
}

func (s *RedisStore[T]) Invalidate(ctx context.Context, keys ...string) error {
	if err := s.cache.Delete(ctx, keys...); err != nil {
		return err
	}
	for _, key := range keys {
		s.hub.notify(Change[T]{Kind: Invalidated, Key: key})
	}
	return nil
}

func (s *RedisStore[T]) Watch(ctx context.Context) <-chan Change[T] {
	return s.hub.watch(ctx)
}
