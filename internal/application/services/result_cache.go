package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cognitive-shield/sentinel/internal/core/domain/verdict"
	"github.com/cognitive-shield/sentinel/internal/core/ports"
	"github.com/cognitive-shield/sentinel/internal/utils"
)

const (
	DefaultCacheTTL    = 5 * time.Minute
	DefaultCachePrefix = "sentinel_cache_"
)

// cacheEntry is the stored form: v is the verdict, t the unix millis it was stored at.
type cacheEntry struct {
	V *verdict.Verdict `json:"v"`
	T int64            `json:"t"`
}

// ResultCache keeps verdicts keyed by a hash of the analyzed text. Entries are
// never deleted; anything older than the TTL is ignored.
type ResultCache struct {
	store  ports.KVStore
	ttl    time.Duration
	prefix string
	logger *logrus.Logger
	now    func() time.Time
}

// ResultCacheConfig groups configuration parameters for the result cache.
type ResultCacheConfig struct {
	TTL       time.Duration
	KeyPrefix string
	// Now overrides the clock, for tests.
	Now func() time.Time
}

var _ ports.ResultCache = (*ResultCache)(nil)

func NewResultCache(store ports.KVStore, cfg *ResultCacheConfig, logger *logrus.Logger) *ResultCache {
	// Apply defaults
	ttl := DefaultCacheTTL
	prefix := DefaultCachePrefix
	now := time.Now
	if cfg != nil {
		if cfg.TTL > 0 {
			ttl = cfg.TTL
		}
		if cfg.KeyPrefix != "" {
			prefix = cfg.KeyPrefix
		}
		if cfg.Now != nil {
			now = cfg.Now
		}
	}
	return &ResultCache{store: store, ttl: ttl, prefix: prefix, logger: logger, now: now}
}

// Key returns the storage key for text.
func (c *ResultCache) Key(text string) string {
	return c.prefix + utils.Djb2(text)
}

// Lookup returns the cached verdict for text if it was stored less than TTL ago.
// Read failures count as a miss.
func (c *ResultCache) Lookup(ctx context.Context, text string) (*verdict.Verdict, bool) {
	key := c.Key(text)
	entry, ok, err := ports.GetJSON[cacheEntry](ctx, c.store, key)
	if err != nil {
		cacheLookups.WithLabelValues("error").Inc()
		if c.logger != nil {
			c.logger.WithField("key", key).WithError(err).Warn("cache get failed")
		}
		return nil, false
	}
	if !ok || entry.V == nil {
		cacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}
	if c.now().Sub(time.UnixMilli(entry.T)) >= c.ttl {
		cacheLookups.WithLabelValues("stale").Inc()
		return nil, false
	}
	cacheLookups.WithLabelValues("hit").Inc()
	return entry.V, true
}

// Store overwrites the entry for text. Write failures are logged and dropped.
func (c *ResultCache) Store(ctx context.Context, text string, v *verdict.Verdict) {
	key := c.Key(text)
	if err := ports.SetJSON(ctx, c.store, key, cacheEntry{V: v, T: c.now().UnixMilli()}); err != nil {
		if c.logger != nil {
			c.logger.WithField("key", key).WithError(err).Warn("cache store failed")
		}
	}
}
