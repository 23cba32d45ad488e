package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache provides typed JSON caching utilities
// ⭐ SSOT: 캐시 헬퍼는 여기서만
type Cache struct {
	client *Client
	prefix string
}

// NewCache creates a new cache helper
func NewCache(client *Client, prefix string) *Cache {
	return &Cache{
		client: client,
		prefix: prefix,
	}
}

// Enabled reports whether the backing client is live
func (c *Cache) Enabled() bool {
	return c.client.Enabled()
}

func (c *Cache) fullKey(key string) string {
	return fmt.Sprintf("%s:cache:%s", c.prefix, key)
}

// Get retrieves a cached value. A missing key is (false, nil).
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !c.client.Enabled() {
		return false, nil
	}

	data, err := c.client.Redis().Get(ctx, c.fullKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal failed: %w", err)
	}

	return true, nil
}

// GetMany fetches several keys in one round trip.
// newDest is called once per hit and must return a pointer to decode into.
func (c *Cache) GetMany(ctx context.Context, keys []string, newDest func(key string) interface{}) (int, error) {
	if !c.client.Enabled() || len(keys) == 0 {
		return 0, nil
	}

	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.fullKey(k)
	}

	values, err := c.client.Redis().MGet(ctx, full...).Result()
	if err != nil {
		return 0, fmt.Errorf("cache mget: %w", err)
	}

	hits := 0
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			continue // nil = miss
		}
		if err := json.Unmarshal([]byte(s), newDest(keys[i])); err != nil {
			return hits, fmt.Errorf("cache unmarshal %s: %w", keys[i], err)
		}
		hits++
	}

	return hits, nil
}

// Set stores a value in cache with TTL
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !c.client.Enabled() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}

	return c.client.Redis().Set(ctx, c.fullKey(key), data, ttl).Err()
}

// Delete removes a cached value
func (c *Cache) Delete(ctx context.Context, key string) error {
	if !c.client.Enabled() {
		return nil
	}

	return c.client.Redis().Del(ctx, c.fullKey(key)).Err()
}

// Predefined TTLs
const (
	TTLLatestRun = 10 * time.Minute     // 최근 분석 결과
	TTLSentiment = 30 * 24 * time.Hour // 감성 점수 (fingerprint 기준, 불변)
)

// SentimentKey is the cache key of a content fingerprint
func SentimentKey(fingerprint string) string {
	return fmt.Sprintf("sentiment:%s", fingerprint)
}

// LatestRunKey is the cache key of the most recent composite result
func LatestRunKey(symbol string) string {
	return fmt.Sprintf("run:latest:%s", symbol)
}
