// Package cache is the result-cache collaborator: it stores fully
// serialized report payloads keyed by request parameters.
//
// The cache is best-effort. A redis failure on read counts as a miss
// and a failure on write is logged and dropped; the engine recomputes
// and the request still succeeds. Concurrent populations for the same
// key are expected (the engine is deterministic, so racing writers
// store identical bytes) and are not treated as errors.
package cache

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/omniapartners/incentive-engine/internal/domain"
)

// DefaultTTL matches the surrounding system's cache windows.
const DefaultTTL = 15 * time.Minute

// MaxTTL caps configured TTLs to the longest window in use.
const MaxTTL = 30 * time.Minute

// Cache wraps a redis client with the get/set contract the engine's
// callers consume.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New builds a cache with the given default TTL. Out-of-range TTLs
// fall back to the defaults.
func New(rdb *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if ttl > MaxTTL {
		ttl = MaxTTL
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

// Key derives the cache key for one request: period plus scope plus
// any extra filters, in fixed order.
func Key(prefix string, period domain.YearMonth, scope string, filters ...string) string {
	parts := append([]string{prefix, period.Key(), scope}, filters...)
	return strings.Join(parts, ":")
}

// Get returns the cached payload and whether it was present. Errors
// degrade to a miss.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	val, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Printf("[cache] get %s: %v", key, err)
		return nil, false
	}
	return val, true
}

// Set stores a payload under the cache's default TTL.
func (c *Cache) Set(ctx context.Context, key string, val []byte) {
	if c == nil {
		return
	}
	c.SetTTL(ctx, key, val, c.ttl)
}

// SetTTL stores a payload with an explicit TTL. Write failures are
// logged and dropped.
func (c *Cache) SetTTL(ctx context.Context, key string, val []byte, ttl time.Duration) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Set(ctx, key, val, ttl).Err(); err != nil {
		log.Printf("[cache] set %s: %v", key, err)
	}
}

// Invalidate drops every cached payload for one period, across scopes.
// Used when manual override rows change.
func (c *Cache) Invalidate(ctx context.Context, prefix string, period domain.YearMonth) {
	if c == nil || c.rdb == nil {
		return
	}
	pattern := prefix + ":" + period.Key() + ":*"
	iter := c.rdb.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			log.Printf("[cache] del %s: %v", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		log.Printf("[cache] scan %s: %v", pattern, err)
	}
}
