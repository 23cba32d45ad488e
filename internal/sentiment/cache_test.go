package sentiment

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c0ughman/nasdaqst/backend/internal/contracts"
	"github.com/c0ughman/nasdaqst/backend/pkg/logger"
)

func req(text string) Request {
	return Request{Fingerprint: Fingerprint(text, ""), Kind: contracts.KindArticle, Text: text}
}

func TestCache_ScoreBatch_OneCallForUncached(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	oracle := newFakeOracle(map[string]float64{"a": 0.2, "b": -0.4})
	cache := NewCache(store, oracle, logger.Nop(), 512)

	// third article already scored in an earlier run
	require.NoError(t, store.Upsert(ctx, req("c").Fingerprint, contracts.SentimentEntry{Polarity: 0.5, Analyzed: true}))

	results := cache.ScoreBatch(ctx, []Request{req("a"), req("b"), req("c")})

	require.Len(t, oracle.batchCalls, 1, "exactly one batch call")
	assert.Equal(t, []string{"a", "b"}, oracle.batchCalls[0])
	assert.Empty(t, oracle.singleCalls)

	assert.Equal(t, Result{Polarity: 0.2}, results[0])
	assert.Equal(t, Result{Polarity: -0.4}, results[1])
	assert.Equal(t, Result{Polarity: 0.5, CacheHit: true}, results[2])

	// computed polarities were recorded
	p, ok := cache.Lookup(ctx, req("a").Fingerprint)
	assert.True(t, ok)
	assert.Equal(t, 0.2, p)
}

func TestCache_Idempotent(t *testing.T) {
	ctx := context.Background()
	oracle := newFakeOracle(map[string]float64{"same": 0.7})
	cache := NewCache(NewMemoryStore(), oracle, logger.Nop(), 512)

	first := cache.ScoreBatch(ctx, []Request{req("same")})
	second := cache.ScoreBatch(ctx, []Request{req("same")})
	single := cache.Score(ctx, req("same"))

	assert.Equal(t, first[0].Polarity, second[0].Polarity)
	assert.Equal(t, first[0].Polarity, single.Polarity)
	assert.True(t, second[0].CacheHit)
	assert.Equal(t, 1, oracle.calls(), "at most one oracle call per fingerprint")
}

func TestCache_ScoreBatch_DeduplicatesWithinBatch(t *testing.T) {
	oracle := newFakeOracle(map[string]float64{"dup": 0.3})
	cache := NewCache(NewMemoryStore(), oracle, logger.Nop(), 512)

	results := cache.ScoreBatch(context.Background(), []Request{req("dup"), req("dup")})

	require.Len(t, oracle.batchCalls, 1)
	assert.Equal(t, []string{"dup"}, oracle.batchCalls[0])
	assert.Equal(t, 0.3, results[0].Polarity)
	assert.Equal(t, 0.3, results[1].Polarity)
	assert.False(t, results[0].CacheHit)
	assert.True(t, results[1].CacheHit)
}

func TestCache_ScoreBatch_FallbackToSingle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	oracle := newFakeOracle(map[string]float64{"ok": 0.6, "bad": 0.9})
	oracle.batchErr = errors.New("batch rejected")
	oracle.singleErr["bad"] = errHard
	cache := NewCache(store, oracle, logger.Nop(), 512)

	results := cache.ScoreBatch(ctx, []Request{req("ok"), req("bad")})

	assert.Len(t, oracle.batchCalls, 1)
	assert.Equal(t, []string{"ok", "bad"}, oracle.singleCalls)

	assert.Equal(t, Result{Polarity: 0.6}, results[0])
	assert.Equal(t, Result{Failed: true}, results[1])

	// failed item is not cached so the next run retries it
	_, ok := cache.Lookup(ctx, req("bad").Fingerprint)
	assert.False(t, ok)
	assert.Equal(t, 1, store.Len())
}

func TestCache_ScoreBatch_LengthMismatchFallsBack(t *testing.T) {
	oracle := &shortOracle{fakeOracle: newFakeOracle(map[string]float64{"x": 0.1, "y": 0.2})}
	cache := NewCache(NewMemoryStore(), oracle, logger.Nop(), 512)

	results := cache.ScoreBatch(context.Background(), []Request{req("x"), req("y")})
	assert.Equal(t, 0.1, results[0].Polarity)
	assert.Equal(t, 0.2, results[1].Polarity)
	assert.Len(t, oracle.singleCalls, 2)
}

// shortOracle drops the last polarity of every batch
type shortOracle struct{ *fakeOracle }

func (s *shortOracle) ScoreBatch(ctx context.Context, texts []string) ([]float64, error) {
	out, err := s.fakeOracle.ScoreBatch(ctx, texts)
	return out[:len(out)-1], err
}

func TestCache_TruncatesOracleInput(t *testing.T) {
	long := strings.Repeat("x", 600)
	oracle := newFakeOracle(nil)
	cache := NewCache(NewMemoryStore(), oracle, logger.Nop(), 512)

	cache.ScoreBatch(context.Background(), []Request{req(long)})
	cache.Score(context.Background(), req(long+"y"))

	require.Len(t, oracle.batchCalls, 1)
	assert.Len(t, oracle.batchCalls[0][0], 512)
	require.Len(t, oracle.singleCalls, 1)
	assert.Len(t, oracle.singleCalls[0], 512)
}

func TestCache_ClampsPolarity(t *testing.T) {
	oracle := newFakeOracle(map[string]float64{"hot": 1.7})
	cache := NewCache(NewMemoryStore(), oracle, logger.Nop(), 512)

	r := cache.Score(context.Background(), req("hot"))
	assert.Equal(t, 1.0, r.Polarity)
}

func TestCache_StoreFailureIsNotFatal(t *testing.T) {
	oracle := newFakeOracle(map[string]float64{"a": 0.4})
	cache := NewCache(failingStore{}, oracle, logger.Nop(), 512)

	results := cache.ScoreBatch(context.Background(), []Request{req("a")})
	assert.Equal(t, Result{Polarity: 0.4}, results[0])
}

type failingStore struct{}

func (failingStore) Get(context.Context, contracts.Fingerprint) (contracts.SentimentEntry, bool, error) {
	return contracts.SentimentEntry{}, false, errors.New("store down")
}

func (failingStore) Upsert(context.Context, contracts.Fingerprint, contracts.SentimentEntry) error {
	return errors.New("store down")
}

func (failingStore) Known(context.Context, []contracts.Fingerprint) (map[contracts.Fingerprint]bool, error) {
	return nil, errors.New("store down")
}
