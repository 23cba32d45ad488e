package sentiment

import (
	"context"

	"github.com/c0ughman/nasdaqst/backend/internal/contracts"
	"github.com/c0ughman/nasdaqst/backend/pkg/redis"
)

// RedisStore keeps polarities in Redis with a 30 day TTL.
// Polarity of a fingerprint never changes, so expiry only bounds memory.
type RedisStore struct {
	cache *redis.Cache
}

// NewRedisStore creates a store over the shared JSON cache helper
func NewRedisStore(cache *redis.Cache) *RedisStore {
	return &RedisStore{cache: cache}
}

func (s *RedisStore) Get(ctx context.Context, fp contracts.Fingerprint) (contracts.SentimentEntry, bool, error) {
	var entry contracts.SentimentEntry
	found, err := s.cache.Get(ctx, redis.SentimentKey(string(fp)), &entry)
	if err != nil || !found {
		return contracts.SentimentEntry{}, false, err
	}
	return entry, true, nil
}

func (s *RedisStore) Upsert(ctx context.Context, fp contracts.Fingerprint, entry contracts.SentimentEntry) error {
	return s.cache.Set(ctx, redis.SentimentKey(string(fp)), entry, redis.TTLSentiment)
}

func (s *RedisStore) Known(ctx context.Context, fps []contracts.Fingerprint) (map[contracts.Fingerprint]bool, error) {
	keys := make([]string, len(fps))
	byKey := make(map[string]contracts.Fingerprint, len(fps))
	for i, fp := range fps {
		keys[i] = redis.SentimentKey(string(fp))
		byKey[keys[i]] = fp
	}

	entries := make(map[string]*contracts.SentimentEntry, len(fps))
	_, err := s.cache.GetMany(ctx, keys, func(key string) interface{} {
		e := &contracts.SentimentEntry{}
		entries[key] = e
		return e
	})
	if err != nil {
		return nil, err
	}

	known := make(map[contracts.Fingerprint]bool, len(entries))
	for key, e := range entries {
		if e.Analyzed {
			known[byKey[key]] = true
		}
	}
	return known, nil
}
