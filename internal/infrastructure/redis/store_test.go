package redis_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"

	"github.com/cognitive-shield/sentinel/internal/infrastructure/redis"
)

func newStore(t *testing.T, prefix string) (*redis.RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return redis.NewRedisStore(client, prefix), mr
}

func TestRedisStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, mr := newStore(t, "sentinel")

	_, ok, err := s.Get(ctx, "visitLog")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Set(ctx, "visitLog", []byte(`[]`)))
	got, ok, err := s.Get(ctx, "visitLog")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `[]`, string(got))

	// namespaced and persistent
	require.True(t, mr.Exists("sentinel:visitLog"))
	require.Zero(t, mr.TTL("sentinel:visitLog"))

	require.NoError(t, s.Delete(ctx, "visitLog"))
	_, ok, err = s.Get(ctx, "visitLog")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRedisStore_ErrorsSurface(t *testing.T) {
	s, mr := newStore(t, "")
	mr.Close()
	_, _, err := s.Get(context.Background(), "k")
	require.Error(t, err)
	require.Error(t, s.Set(context.Background(), "k", []byte("v")))
}
