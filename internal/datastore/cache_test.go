package datastore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcussviniciusa/speedfunnelsv7-sub000/internal/models"
)

type countingFetcher struct {
	calls int
}

func (c *countingFetcher) FetchAggregatedData(ctx context.Context, dateRange models.DateRange, sourceFilters []models.SimpleFilter) (*models.AggregatedDataset, error) {
	c.calls++
	return &models.AggregatedDataset{
		MetaAds: &models.MetaAggregate{TotalSpend: float64(c.calls)},
	}, nil
}

func newTestCache(inner *countingFetcher, ttl time.Duration) *CachedFetcher {
	return &CachedFetcher{inner: inner, ttl: ttl, items: make(map[string]cacheEntry)}
}

func TestCachedFetcher_RepeatQueryHitsCache(t *testing.T) {
	inner := &countingFetcher{}
	c := newTestCache(inner, time.Minute)
	dr := models.DateRange{Start: "2025-01-01", End: "2025-01-31"}

	first, err := c.FetchAggregatedData(context.Background(), dr, nil)
	require.NoError(t, err)
	second, err := c.FetchAggregatedData(context.Background(), dr, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, first.MetaAds.TotalSpend, second.MetaAds.TotalSpend)
}

func TestCachedFetcher_KeyCoversRangeAndFilters(t *testing.T) {
	inner := &countingFetcher{}
	c := newTestCache(inner, time.Minute)
	dr := models.DateRange{Start: "2025-01-01", End: "2025-01-31"}

	_, err := c.FetchAggregatedData(context.Background(), dr, nil)
	require.NoError(t, err)

	_, err = c.FetchAggregatedData(context.Background(),
		models.DateRange{Start: "2025-02-01", End: "2025-02-28"}, nil)
	require.NoError(t, err)

	_, err = c.FetchAggregatedData(context.Background(), dr,
		[]models.SimpleFilter{{Field: "meta_spend", Operator: models.OpGreater, Value: "1000"}})
	require.NoError(t, err)

	assert.Equal(t, 3, inner.calls, "different range or filters must not share an entry")
}

func TestCachedFetcher_TTLExpiry(t *testing.T) {
	inner := &countingFetcher{}
	c := newTestCache(inner, -time.Second)
	dr := models.DateRange{Start: "2025-01-01", End: "2025-01-31"}

	_, err := c.FetchAggregatedData(context.Background(), dr, nil)
	require.NoError(t, err)
	_, err = c.FetchAggregatedData(context.Background(), dr, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
}

func TestCachedFetcher_Invalidate(t *testing.T) {
	inner := &countingFetcher{}
	c := newTestCache(inner, time.Minute)
	dr := models.DateRange{Start: "2025-01-01", End: "2025-01-31"}

	_, err := c.FetchAggregatedData(context.Background(), dr, nil)
	require.NoError(t, err)
	c.Invalidate()
	_, err = c.FetchAggregatedData(context.Background(), dr, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
}
