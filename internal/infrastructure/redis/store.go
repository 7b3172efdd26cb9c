package redis

import (
	"context"
	"errors"

	"github.com/go-redis/redis/v8"
)

// RedisStore implements ports.KVStore on Redis. Keys never expire: cache entries
// carry their own timestamp and expire logically.
type RedisStore struct {
	r redis.Cmdable
	// optional key prefix to namespace entries
	prefix string
}

// NewRedisStore creates a new Redis-backed key-value store.
func NewRedisStore(r redis.Cmdable, prefix string) *RedisStore {
	return &RedisStore{r: r, prefix: prefix}
}

func (s *RedisStore) namespaced(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + ":" + key
}

// Get implements KVStore.Get.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.r.Get(ctx, s.namespaced(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

// Set implements KVStore.Set.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	return s.r.Set(ctx, s.namespaced(key), value, 0).Err()
}

// Delete implements KVStore.Delete.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.r.Del(ctx, s.namespaced(key)).Err()
}
