// Package rescache caches resolved query results in a key-value store,
// keyed by the normalized query text and tenant scope.
package rescache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/helpline-labs/refdesk/internal/db"
	"github.com/helpline-labs/refdesk/internal/domain"
	"github.com/helpline-labs/refdesk/internal/domain/resolved"
)

var cacheKeyPrefix = domain.KeyPrefix + "res_cache:"

// store is the consumer interface for the result cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cache stores resolved query results with a TTL.
type Cache struct {
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a result cache.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(s store, ttl time.Duration, cacheTotal *prometheus.CounterVec, logger *zap.Logger) *Cache {
	return &Cache{store: s, ttl: ttl, cacheTotal: cacheTotal, logger: logger}
}

// Get returns a cached result for the (query, scope) pair, or false on miss.
// Store and decode errors count as misses; the pipeline recomputes.
func (c *Cache) Get(ctx context.Context, query, scope string) (resolved.Query, bool) {
	key := cacheKey(query, scope)

	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to read result cache", zap.String("key", key), zap.Error(err))
		}
		c.incCache("miss")
		return resolved.Query{}, false
	}

	var dto resultDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		c.logger.Warn("Failed to decode cached result", zap.String("key", key), zap.Error(err))
		c.incCache("miss")
		return resolved.Query{}, false
	}

	c.incCache("hit")
	return fromDTO(&dto), true
}

// Set stores a result under the (query, scope) pair. Failures are logged
// and swallowed; caching is best effort.
func (c *Cache) Set(ctx context.Context, query, scope string, q *resolved.Query) {
	key := cacheKey(query, scope)

	dto := toDTO(q)
	data, err := json.Marshal(dto)
	if err != nil {
		c.logger.Warn("Failed to encode result for cache", zap.String("key", key), zap.Error(err))
		return
	}

	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to write result cache", zap.String("key", key), zap.Error(err))
	}
}

func (c *Cache) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

// cacheKey hashes the normalized query plus scope. Normalization is
// lowercase with collapsed whitespace, so trivially different spellings
// of the same query share an entry.
func cacheKey(query, scope string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(query)), " ")
	h := sha256.Sum256([]byte(normalized + "\x00" + scope))
	return cacheKeyPrefix + hex.EncodeToString(h[:])
}
