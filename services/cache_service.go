package services

import (
	"encoding/json"
	"fmt"
	"time"
	"yelo_server/structs"

	"github.com/MonkyMars/gecho"
)

// Collection cache keys. Each holds a whole entity list plus the epoch-ms
// timestamp it was written at; readers treat entries older than the
// configured freshness window as absent.
const (
	ProductsCacheKey          = "products_cache_all"
	ShopsCacheKey             = "shops_cache_all"
	VendorsCacheKey           = "vendors_cache_all"
	CategoriesCacheKey        = "categories_cache_all"
	FreeSubcategoriesCacheKey = "free_subcategories_cache_all"
)

// CacheService provides caching on top of a KV store, with the collection
// cache protocol the storefront and admin panel share.
type CacheService struct {
	logger *gecho.Logger
	config *structs.Config
	store  KV
}

func NewCacheService(logger *gecho.Logger, cfg *structs.Config) *CacheService {
	return &CacheService{
		logger: logger,
		config: cfg,
		store:  NewRedisKV(),
	}
}

// NewCacheServiceWithStore builds a cache service over an explicit KV store.
// Tests use this with the in-memory implementation.
func NewCacheServiceWithStore(logger *gecho.Logger, cfg *structs.Config, store KV) *CacheService {
	return &CacheService{
		logger: logger,
		config: cfg,
		store:  store,
	}
}

func (cs *CacheService) Close() error {
	return cs.store.Close()
}

// Set sets a key with TTL
func (cs *CacheService) Set(key string, value any, ttl time.Duration) error {
	var str string
	switch v := value.(type) {
	case string:
		str = v
	case []byte:
		str = string(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		str = string(data)
	}
	return cs.store.Set(key, str, ttl)
}

// Get retrieves a key; missing keys return "" without an error
func (cs *CacheService) Get(key string) (string, error) {
	return cs.store.Get(key)
}

// Delete removes a key
func (cs *CacheService) Delete(key string) error {
	return cs.store.Delete(key)
}

// Exists checks if a key holds a value
func (cs *CacheService) Exists(key string) (bool, error) {
	val, err := cs.store.Get(key)
	if err != nil {
		return false, err
	}
	return val != "", nil
}

// DeletePattern removes all keys matching a glob pattern
func (cs *CacheService) DeletePattern(pattern string) error {
	return cs.store.DeletePattern(pattern)
}

func (cs *CacheService) ClearAll() error {
	return cs.store.FlushAll()
}

// Ping tests the cache connection
func (cs *CacheService) Ping() error {
	return cs.store.Ping()
}

// GetConnectionStats returns connection pool statistics when the backing
// store exposes them
func (cs *CacheService) GetConnectionStats() map[string]any {
	if s, ok := cs.store.(interface{ Stats() map[string]any }); ok {
		return s.Stats()
	}
	return map[string]any{}
}

// ============================================================================
// Rate Limiting
// ============================================================================

// IncrementRateLimit atomically increments a rate limit counter
func (cs *CacheService) IncrementRateLimit(ip, endpoint string, ttl time.Duration) (int, error) {
	key := fmt.Sprintf("ratelimit:%s:%s", ip, endpoint)
	return cs.store.Increment(key, ttl)
}

// ============================================================================
// Collection Cache
// ============================================================================

// collectionTTL returns the freshness window for collection entries
func (cs *CacheService) collectionTTL() time.Duration {
	if cs.config.Cache.CollectionTTL > 0 {
		return cs.config.Cache.CollectionTTL
	}
	return 5 * time.Minute // fallback default
}

// InvalidateCollection drops a collection cache entry so the next read
// refetches from the database
func (cs *CacheService) InvalidateCollection(key string) error {
	return cs.store.Delete(key)
}

// GetCollection reads a cached entity list. The second return value is false
// when the entry is missing, stale, or unreadable; stale and corrupt entries
// are dropped on the way out.
func GetCollection[T any](cs *CacheService, key, entity string) ([]T, bool) {
	val, err := cs.Get(key)
	if err != nil {
		cs.logger.Warn("Failed to read collection cache", "error", err, "key", key)
		return nil, false
	}
	if val == "" {
		return nil, false
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal([]byte(val), &envelope); err != nil {
		cs.logger.Warn("Corrupt collection cache entry, dropping", "error", err, "key", key)
		_ = cs.Delete(key)
		return nil, false
	}

	var timestamp int64
	if raw, ok := envelope["timestamp"]; ok {
		if err := json.Unmarshal(raw, &timestamp); err != nil {
			_ = cs.Delete(key)
			return nil, false
		}
	}

	age := time.Since(time.UnixMilli(timestamp))
	if timestamp == 0 || age > cs.collectionTTL() {
		cs.logger.Debug("Collection cache entry stale", "key", key, "age", age)
		_ = cs.Delete(key)
		return nil, false
	}

	raw, ok := envelope[entity]
	if !ok {
		_ = cs.Delete(key)
		return nil, false
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		cs.logger.Warn("Corrupt collection cache payload, dropping", "error", err, "key", key)
		_ = cs.Delete(key)
		return nil, false
	}

	return items, true
}

// SetCollection writes an entity list with the current epoch-ms timestamp.
// The store TTL is twice the freshness window; staleness is judged by the
// timestamp, not by key expiry.
func SetCollection[T any](cs *CacheService, key, entity string, items []T) error {
	if items == nil {
		items = []T{}
	}

	payload, err := json.Marshal(items)
	if err != nil {
		return err
	}

	envelope := map[string]json.RawMessage{
		entity:      payload,
		"timestamp": json.RawMessage(fmt.Sprintf("%d", time.Now().UnixMilli())),
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return err
	}

	return cs.Set(key, data, 2*cs.collectionTTL())
}
