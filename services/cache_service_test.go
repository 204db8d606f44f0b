package services_test

import (
	"fmt"
	"testing"
	"time"
	"yelo_server/services"
	"yelo_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedShop struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

func newTestCacheService(ttl time.Duration) *services.CacheService {
	cfg := &structs.Config{Cache: &structs.CacheConfig{CollectionTTL: ttl}}
	return services.NewCacheServiceWithStore(gecho.NewDefaultLogger(), cfg, services.NewMemoryKV())
}

func TestCollectionCache_RoundTrip(t *testing.T) {
	cs := newTestCacheService(5 * time.Minute)

	shops := []cachedShop{
		{Slug: "flower-corner", Name: "Flower Corner"},
		{Slug: "green-roots", Name: "Green Roots"},
	}
	require.NoError(t, services.SetCollection(cs, services.ShopsCacheKey, "shops", shops))

	got, ok := services.GetCollection[cachedShop](cs, services.ShopsCacheKey, "shops")
	require.True(t, ok)
	assert.Equal(t, shops, got)
}

func TestCollectionCache_EmptyListIsCacheable(t *testing.T) {
	cs := newTestCacheService(5 * time.Minute)

	require.NoError(t, services.SetCollection(cs, services.VendorsCacheKey, "vendors", []cachedShop(nil)))

	got, ok := services.GetCollection[cachedShop](cs, services.VendorsCacheKey, "vendors")
	require.True(t, ok)
	assert.Empty(t, got)
}

func TestCollectionCache_MissingKey(t *testing.T) {
	cs := newTestCacheService(5 * time.Minute)

	_, ok := services.GetCollection[cachedShop](cs, services.ProductsCacheKey, "products")
	assert.False(t, ok)
}

func TestCollectionCache_StaleEntryIsDropped(t *testing.T) {
	cs := newTestCacheService(5 * time.Minute)

	staleTimestamp := time.Now().Add(-10 * time.Minute).UnixMilli()
	entry := fmt.Sprintf(`{"shops":[{"slug":"old","name":"Old"}],"timestamp":%d}`, staleTimestamp)
	require.NoError(t, cs.Set(services.ShopsCacheKey, entry, time.Hour))

	_, ok := services.GetCollection[cachedShop](cs, services.ShopsCacheKey, "shops")
	assert.False(t, ok)

	// The stale entry must be gone, not just skipped
	val, err := cs.Get(services.ShopsCacheKey)
	require.NoError(t, err)
	assert.Empty(t, val)
}

func TestCollectionCache_MissingTimestampIsStale(t *testing.T) {
	cs := newTestCacheService(5 * time.Minute)

	require.NoError(t, cs.Set(services.ShopsCacheKey, `{"shops":[]}`, time.Hour))

	_, ok := services.GetCollection[cachedShop](cs, services.ShopsCacheKey, "shops")
	assert.False(t, ok)
}

func TestCollectionCache_CorruptEntryIsDropped(t *testing.T) {
	cs := newTestCacheService(5 * time.Minute)

	require.NoError(t, cs.Set(services.ShopsCacheKey, "{not json", time.Hour))

	_, ok := services.GetCollection[cachedShop](cs, services.ShopsCacheKey, "shops")
	assert.False(t, ok)

	val, err := cs.Get(services.ShopsCacheKey)
	require.NoError(t, err)
	assert.Empty(t, val)
}

func TestCollectionCache_Invalidate(t *testing.T) {
	cs := newTestCacheService(5 * time.Minute)

	require.NoError(t, services.SetCollection(cs, services.ProductsCacheKey, "products", []cachedShop{{Slug: "p1"}}))
	require.NoError(t, cs.InvalidateCollection(services.ProductsCacheKey))

	_, ok := services.GetCollection[cachedShop](cs, services.ProductsCacheKey, "products")
	assert.False(t, ok)
}

func TestIncrementRateLimit(t *testing.T) {
	cs := newTestCacheService(5 * time.Minute)

	for want := 1; want <= 3; want++ {
		count, err := cs.IncrementRateLimit("10.0.0.1", "/products", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, count)
	}

	// A different endpoint gets its own counter
	count, err := cs.IncrementRateLimit("10.0.0.1", "/categories", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
