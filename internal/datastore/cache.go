package datastore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/marcussviniciusa/speedfunnelsv7-sub000/internal/models"
)

// CachedFetcher wraps an aggregate fetcher with a short-lived in-memory
// cache keyed by date range and filter set. Dashboard refreshes tend to
// repeat the exact same query; a small TTL avoids hammering ClickHouse
// without ever serving data older than the TTL.
type CachedFetcher struct {
	inner interface {
		FetchAggregatedData(ctx context.Context, dateRange models.DateRange, sourceFilters []models.SimpleFilter) (*models.AggregatedDataset, error)
	}
	ttl time.Duration

	mu    sync.RWMutex
	items map[string]cacheEntry
}

type cacheEntry struct {
	data    *models.AggregatedDataset
	expires time.Time
}

func NewCachedFetcher(inner *DB, ttl time.Duration) *CachedFetcher {
	return &CachedFetcher{
		inner: inner,
		ttl:   ttl,
		items: make(map[string]cacheEntry),
	}
}

func (c *CachedFetcher) FetchAggregatedData(ctx context.Context, dateRange models.DateRange, sourceFilters []models.SimpleFilter) (*models.AggregatedDataset, error) {
	key := cacheKey(dateRange, sourceFilters)

	c.mu.RLock()
	entry, ok := c.items[key]
	c.mu.RUnlock()
	if ok && time.Now().Before(entry.expires) {
		log.Debug().Str("key", key[:12]).Msg("Aggregate cache hit")
		return entry.data, nil
	}

	data, err := c.inner.FetchAggregatedData(ctx, dateRange, sourceFilters)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.items[key] = cacheEntry{data: data, expires: time.Now().Add(c.ttl)}
	// Expired entries pile up only as fast as distinct queries arrive;
	// sweep them on write rather than with a background goroutine.
	now := time.Now()
	for k, e := range c.items {
		if now.After(e.expires) {
			delete(c.items, k)
		}
	}
	c.mu.Unlock()

	return data, nil
}

// Invalidate drops every cached aggregate, for callers that just changed
// something the cached data reflects.
func (c *CachedFetcher) Invalidate() {
	c.mu.Lock()
	c.items = make(map[string]cacheEntry)
	c.mu.Unlock()
}

func cacheKey(dateRange models.DateRange, sourceFilters []models.SimpleFilter) string {
	payload, _ := json.Marshal(struct {
		Range   models.DateRange      `json:"range"`
		Filters []models.SimpleFilter `json:"filters"`
	}{dateRange, sourceFilters})
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
