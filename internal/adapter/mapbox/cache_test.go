package mapbox

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/storm-wind-scan/internal/domain"
)

type countingGeocoder struct {
	calls   int
	results map[string]domain.GeocodingResult
	err     error
}

func (c *countingGeocoder) ReverseGeocode(_ context.Context, lat, lon float64) (domain.GeocodingResult, error) {
	c.calls++
	if c.err != nil {
		return domain.GeocodingResult{}, c.err
	}
	return c.results[fmt.Sprintf("%.6f,%.6f", lat, lon)], nil
}

func TestCachedGeocoder_CachesHits(t *testing.T) {
	inner := &countingGeocoder{results: map[string]domain.GeocodingResult{
		"29.980000,-95.360000": {PlaceName: "Houston"},
	}}
	cached := NewCachedGeocoder(inner, 10)

	for i := 0; i < 3; i++ {
		result, err := cached.ReverseGeocode(context.Background(), 29.98, -95.36)
		require.NoError(t, err)
		assert.Equal(t, "Houston", result.PlaceName)
	}

	assert.Equal(t, 1, inner.calls)
}

func TestCachedGeocoder_DoesNotCacheEmptyResults(t *testing.T) {
	inner := &countingGeocoder{}
	cached := NewCachedGeocoder(inner, 10)

	for i := 0; i < 2; i++ {
		_, err := cached.ReverseGeocode(context.Background(), 0, 0)
		require.NoError(t, err)
	}

	assert.Equal(t, 2, inner.calls)
}

func TestCachedGeocoder_DoesNotCacheErrors(t *testing.T) {
	inner := &countingGeocoder{err: errors.New("boom")}
	cached := NewCachedGeocoder(inner, 10)

	for i := 0; i < 2; i++ {
		_, err := cached.ReverseGeocode(context.Background(), 1, 2)
		require.Error(t, err)
	}

	assert.Equal(t, 2, inner.calls)
}

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	cache := newLRUCache(2)

	cache.put("a", domain.GeocodingResult{PlaceName: "A"})
	cache.put("b", domain.GeocodingResult{PlaceName: "B"})

	// Touch "a" so "b" becomes least recently used.
	_, ok := cache.get("a")
	require.True(t, ok)

	cache.put("c", domain.GeocodingResult{PlaceName: "C"})

	_, ok = cache.get("b")
	assert.False(t, ok)
	_, ok = cache.get("a")
	assert.True(t, ok)
	_, ok = cache.get("c")
	assert.True(t, ok)
}

func TestLRUCache_UpdateExistingKey(t *testing.T) {
	cache := newLRUCache(2)

	cache.put("a", domain.GeocodingResult{PlaceName: "old"})
	cache.put("a", domain.GeocodingResult{PlaceName: "new"})

	got, ok := cache.get("a")
	require.True(t, ok)
	assert.Equal(t, "new", got.PlaceName)
}
