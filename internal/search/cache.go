package search

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/abhisek/quizgen/internal/metrics"
)

const cacheKeyPrefix = "quizgen:search:"

// Cached serves repeated queries from redis. Redis failures are logged and
// fall through to the wrapped searcher.
type Cached struct {
	inner  Searcher
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCached wraps s with a redis cache.
func NewCached(s Searcher, rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *Cached {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cached{inner: s, rdb: rdb, ttl: ttl, logger: logger}
}

// CacheKey returns the redis key for a query. Queries differing only in
// case or surrounding whitespace share a key.
func CacheKey(query string) string {
	sum := sha1.Sum([]byte(strings.ToLower(strings.TrimSpace(query))))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

func (c *Cached) Search(ctx context.Context, query string) (string, error) {
	key := CacheKey(query)

	val, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		metrics.SearchCacheHits.WithLabelValues("hit").Inc()
		return val, nil
	case errors.Is(err, redis.Nil):
		metrics.SearchCacheHits.WithLabelValues("miss").Inc()
	default:
		metrics.SearchCacheHits.WithLabelValues("error").Inc()
		c.logger.Warn("search cache read failed", zap.String("key", key), zap.Error(err))
	}

	out, err := c.inner.Search(ctx, query)
	if err != nil {
		return "", err
	}

	if setErr := c.rdb.Set(ctx, key, out, c.ttl).Err(); setErr != nil {
		c.logger.Warn("search cache write failed", zap.String("key", key), zap.Error(setErr))
	}
	return out, nil
}
