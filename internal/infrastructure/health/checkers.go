package health

import (
	"context"

	"github.com/cognitive-shield/sentinel/internal/core/ports"
	infraDB "github.com/cognitive-shield/sentinel/internal/infrastructure/db"
	"github.com/go-redis/redis/v8"
)

// dbHealthChecker wraps the database for health checks.
type dbHealthChecker struct{ db *infraDB.Database }

func (d *dbHealthChecker) Name() string                    { return d.db.Dialect }
func (d *dbHealthChecker) Check(ctx context.Context) error { return d.db.DB.PingContext(ctx) }

// redisHealthChecker wraps the redis client for health checks.
type redisHealthChecker struct{ client *redis.Client }

func (r *redisHealthChecker) Name() string                    { return "redis" }
func (r *redisHealthChecker) Check(ctx context.Context) error { return r.client.Ping(ctx).Err() }

// storeHealthChecker does a read of a well-known key through the configured store.
type storeHealthChecker struct{ store ports.KVStore }

func (s *storeHealthChecker) Name() string { return "store" }
func (s *storeHealthChecker) Check(ctx context.Context) error {
	_, _, err := s.store.Get(ctx, ports.KeySentinelResult)
	return err
}

// NewDBHealthChecker creates a health checker for the database.
func NewDBHealthChecker(db *infraDB.Database) ports.HealthChecker { return &dbHealthChecker{db: db} }

// NewRedisHealthChecker creates a health checker for Redis.
func NewRedisHealthChecker(client *redis.Client) ports.HealthChecker {
	return &redisHealthChecker{client: client}
}

// NewStoreHealthChecker creates a health checker that reads through any KVStore.
func NewStoreHealthChecker(store ports.KVStore) ports.HealthChecker {
	return &storeHealthChecker{store: store}
}
