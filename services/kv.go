package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"
	"yelo_server/config"

	"github.com/redis/go-redis/v9"
)

// KV is the key-value surface the cache layer runs on. Redis backs it in
// production; tests swap in the in-memory implementation.
type KV interface {
	Get(key string) (string, error) // returns "" when the key is missing
	Set(key string, value string, ttl time.Duration) error
	Delete(key string) error
	DeletePattern(pattern string) error
	Increment(key string, ttl time.Duration) (int, error)
	FlushAll() error
	Ping() error
	Close() error
}

var (
	redisClient *redis.Client
	redisOnce   sync.Once
	redisCtx    = context.Background()
)

// getRedisClient returns a singleton Redis client with proper connection pooling
func getRedisClient() *redis.Client {
	redisOnce.Do(func() {
		cfg := config.GetConfig()
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.Address,
			Username: cfg.Cache.Username,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,

			// Connection pool settings
			PoolSize:        cfg.Cache.PoolSize,
			MinIdleConns:    cfg.Cache.MinIdleConns,
			MaxIdleConns:    cfg.Cache.MaxIdleConns,
			PoolTimeout:     cfg.Cache.PoolTimeout,
			ConnMaxIdleTime: cfg.Cache.IdleTimeout,

			// Timeouts
			DialTimeout:  cfg.Cache.DialTimeout,
			ReadTimeout:  cfg.Cache.ReadTimeout,
			WriteTimeout: cfg.Cache.WriteTimeout,

			// Retry settings
			MaxRetries:      cfg.Cache.MaxRetries,
			MinRetryBackoff: cfg.Cache.MinRetryBackoff,
			MaxRetryBackoff: cfg.Cache.MaxRetryBackoff,
		})
	})
	return redisClient
}

// redisKV adapts the shared Redis client to the KV interface with retry logic
type redisKV struct {
	client *redis.Client
}

// NewRedisKV returns the Redis-backed KV store
func NewRedisKV() KV {
	return &redisKV{client: getRedisClient()}
}

// withRetry executes a Redis operation with exponential backoff retry logic
func (kv *redisKV) withRetry(operation func() error, maxRetries int) error {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}

		lastErr = err

		// Don't retry on the last attempt
		if attempt == maxRetries {
			break
		}

		// Only retry on network/connection errors, not on logical errors like key not found
		if !isRetryableRedisError(err) {
			return err
		}

		maxBackoff := 2000 // max 2000ms = 2s
		base := 100        // 100ms base

		backoff := base * (1 << attempt) // exponential
		backoff = min(backoff, maxBackoff)

		// add jitter ±50%
		jitterBytes := make([]byte, 4)
		if _, err := rand.Read(jitterBytes); err != nil {
			// fallback to no jitter if random fails
			time.Sleep(time.Duration(backoff) * time.Millisecond)
			continue
		}
		jitter := int(uint32(jitterBytes[0])<<24 | uint32(jitterBytes[1])<<16 | uint32(jitterBytes[2])<<8 | uint32(jitterBytes[3]))
		jitter = jitter % (backoff/2 + 1)
		backoffWithJitter := backoff/2 + jitter

		time.Sleep(time.Duration(backoffWithJitter) * time.Millisecond)
	}

	return fmt.Errorf("redis operation failed after %d retries: %w", maxRetries, lastErr)
}

// isRetryableRedisError determines if an error is worth retrying
func isRetryableRedisError(err error) bool {
	if err == nil {
		return false
	}

	// Don't retry on nil results (key not found)
	if err == redis.Nil {
		return false
	}

	errStr := err.Error()
	retryableErrors := []string{
		"connection refused",
		"connection reset",
		"timeout",
		"broken pipe",
		"no such host",
		"network is unreachable",
	}

	for _, retryableErr := range retryableErrors {
		if strings.Contains(errStr, retryableErr) {
			return true
		}
	}

	return false
}

func (kv *redisKV) Get(key string) (string, error) {
	var result string

	err := kv.withRetry(func() error {
		val, err := kv.client.Get(redisCtx, key).Result()
		if err == redis.Nil {
			result = ""
			return nil // Don't retry on key not found
		}
		if err != nil {
			return err
		}
		result = val
		return nil
	}, 3)

	return result, err
}

func (kv *redisKV) Set(key string, value string, ttl time.Duration) error {
	return kv.withRetry(func() error {
		return kv.client.Set(redisCtx, key, value, ttl).Err()
	}, 3)
}

func (kv *redisKV) Delete(key string) error {
	return kv.withRetry(func() error {
		return kv.client.Del(redisCtx, key).Err()
	}, 3)
}

// DeletePattern removes all keys matching a pattern using SCAN
func (kv *redisKV) DeletePattern(pattern string) error {
	return kv.withRetry(func() error {
		var cursor uint64

		for {
			keys, nextCursor, err := kv.client.Scan(redisCtx, cursor, pattern, 100).Result()
			if err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}

			if len(keys) > 0 {
				if err := kv.client.Del(redisCtx, keys...).Err(); err != nil {
					return fmt.Errorf("delete failed: %w", err)
				}
			}

			cursor = nextCursor
			if cursor == 0 {
				break
			}
		}

		return nil
	}, 3)
}

func (kv *redisKV) Increment(key string, ttl time.Duration) (int, error) {
	var result int64

	err := kv.withRetry(func() error {
		val, err := kv.client.Incr(redisCtx, key).Result()
		if err != nil {
			return err
		}
		result = val

		// Set expiration only on first increment
		if val == 1 {
			return kv.client.Expire(redisCtx, key, ttl).Err()
		}

		return nil
	}, 3)

	return int(result), err
}

func (kv *redisKV) FlushAll() error {
	return kv.withRetry(func() error {
		return kv.client.FlushDB(redisCtx).Err()
	}, 3)
}

func (kv *redisKV) Ping() error {
	return kv.withRetry(func() error {
		return kv.client.Ping(redisCtx).Err()
	}, 3)
}

func (kv *redisKV) Close() error {
	return kv.client.Close()
}

// Stats returns Redis connection pool statistics
func (kv *redisKV) Stats() map[string]any {
	stats := kv.client.PoolStats()

	return map[string]any{
		"hits":        stats.Hits,
		"misses":      stats.Misses,
		"timeouts":    stats.Timeouts,
		"total_conns": stats.TotalConns,
		"idle_conns":  stats.IdleConns,
		"stale_conns": stats.StaleConns,
	}
}

// memoryKV is a process-local KV store for tests and development
type memoryKV struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

// NewMemoryKV returns an in-memory KV store
func NewMemoryKV() KV {
	return &memoryKV{entries: map[string]memoryEntry{}}
}

func (kv *memoryKV) Get(key string) (string, error) {
	kv.mu.RLock()
	entry, ok := kv.entries[key]
	kv.mu.RUnlock()

	if !ok {
		return "", nil
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		kv.mu.Lock()
		delete(kv.entries, key)
		kv.mu.Unlock()
		return "", nil
	}
	return entry.value, nil
}

func (kv *memoryKV) Set(key string, value string, ttl time.Duration) error {
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}

	kv.mu.Lock()
	kv.entries[key] = entry
	kv.mu.Unlock()
	return nil
}

func (kv *memoryKV) Delete(key string) error {
	kv.mu.Lock()
	delete(kv.entries, key)
	kv.mu.Unlock()
	return nil
}

func (kv *memoryKV) DeletePattern(pattern string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	for key := range kv.entries {
		if ok, _ := path.Match(pattern, key); ok {
			delete(kv.entries, key)
		}
	}
	return nil
}

func (kv *memoryKV) Increment(key string, ttl time.Duration) (int, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	entry, ok := kv.entries[key]
	count := 0
	if ok && (entry.expiresAt.IsZero() || time.Now().Before(entry.expiresAt)) {
		fmt.Sscanf(entry.value, "%d", &count)
	}
	count++

	next := memoryEntry{value: fmt.Sprintf("%d", count)}
	if count == 1 && ttl > 0 {
		next.expiresAt = time.Now().Add(ttl)
	} else {
		next.expiresAt = entry.expiresAt
	}
	kv.entries[key] = next

	return count, nil
}

func (kv *memoryKV) FlushAll() error {
	kv.mu.Lock()
	kv.entries = map[string]memoryEntry{}
	kv.mu.Unlock()
	return nil
}

func (kv *memoryKV) Ping() error { return nil }

func (kv *memoryKV) Close() error { return nil }
