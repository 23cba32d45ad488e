package sentiment

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/c0ughman/nasdaqst/backend/internal/contracts"
	"github.com/c0ughman/nasdaqst/backend/pkg/logger"
	"github.com/c0ughman/nasdaqst/backend/pkg/metrics"
)

// ErrOracleUnavailable is the transient oracle failure (model loading, 503)
var ErrOracleUnavailable = contracts.ErrOracleUnavailable

// Request is one item to score
type Request struct {
	Fingerprint contracts.Fingerprint
	Kind        contracts.ItemKind
	Text        string
}

// Result is the polarity of one Request
type Result struct {
	Polarity float64
	CacheHit bool
	Failed   bool // oracle gave up; polarity is neutral and was not recorded
}

// Cache runs the lookup-before-compute protocol over a SentimentStore.
// Each fingerprint reaches the oracle at most once while its entry persists.
// ⭐ SSOT: 감성 점수 캐시는 여기서만
type Cache struct {
	store  contracts.SentimentStore
	oracle contracts.Oracle
	logger *logger.Logger
	maxLen int
	now    func() time.Time
}

// NewCache creates a cache; texts sent to the oracle are cut to maxLen runes
func NewCache(store contracts.SentimentStore, oracle contracts.Oracle, log *logger.Logger, maxLen int) *Cache {
	return &Cache{
		store:  store,
		oracle: oracle,
		logger: log.WithComponent("sentiment_cache"),
		maxLen: maxLen,
		now:    time.Now,
	}
}

// Lookup returns the stored polarity of fp. Store errors count as a miss.
func (c *Cache) Lookup(ctx context.Context, fp contracts.Fingerprint) (float64, bool) {
	entry, ok, err := c.store.Get(ctx, fp)
	if err != nil {
		c.logger.WithError(err).WithField("fingerprint", string(fp)).Warn("sentiment lookup failed")
		ok = false
	}
	if !ok || !entry.Analyzed {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return 0, false
	}

	metrics.CacheLookups.WithLabelValues("hit").Inc()
	return entry.Polarity, true
}

// Record stores a computed polarity. Failures are logged, never returned.
func (c *Cache) Record(ctx context.Context, fp contracts.Fingerprint, kind contracts.ItemKind, polarity float64) {
	err := c.store.Upsert(ctx, fp, contracts.SentimentEntry{
		Polarity:  polarity,
		Analyzed:  true,
		Kind:      kind,
		UpdatedAt: c.now().UTC(),
	})
	if err != nil {
		c.logger.WithError(err).WithField("fingerprint", string(fp)).Warn("sentiment record failed")
	}
}

// Score resolves a single item
func (c *Cache) Score(ctx context.Context, req Request) Result {
	if p, ok := c.Lookup(ctx, req.Fingerprint); ok {
		return Result{Polarity: p, CacheHit: true}
	}

	p, err := c.oracle.Score(ctx, Truncate(req.Text, c.maxLen))
	if err != nil {
		metrics.OracleCalls.WithLabelValues("single", "error").Inc()
		c.logger.WithError(err).WithField("fingerprint", string(req.Fingerprint)).Warn("oracle failed, using neutral polarity")
		return Result{Failed: true}
	}
	metrics.OracleCalls.WithLabelValues("single", "success").Inc()

	p = clampUnit(p)
	c.Record(ctx, req.Fingerprint, req.Kind, p)
	return Result{Polarity: p}
}

// ScoreBatch resolves reqs in order. Cached fingerprints are served from the
// store; the distinct uncached ones go to the oracle in one batch call. If the
// batch fails every uncached item is retried alone, and an item whose single
// call also fails gets 0.0 and is left unrecorded so a later run retries it.
func (c *Cache) ScoreBatch(ctx context.Context, reqs []Request) []Result {
	results := make([]Result, len(reqs))

	hits := make(map[contracts.Fingerprint]float64)
	pending := make(map[contracts.Fingerprint][]int)
	var order []Request

	for i, req := range reqs {
		if idxs, ok := pending[req.Fingerprint]; ok {
			pending[req.Fingerprint] = append(idxs, i)
			continue
		}
		if p, ok := hits[req.Fingerprint]; ok {
			results[i] = Result{Polarity: p, CacheHit: true}
			continue
		}
		if p, ok := c.Lookup(ctx, req.Fingerprint); ok {
			hits[req.Fingerprint] = p
			results[i] = Result{Polarity: p, CacheHit: true}
			continue
		}
		pending[req.Fingerprint] = []int{i}
		order = append(order, req)
	}

	if len(order) == 0 {
		return results
	}

	texts := make([]string, len(order))
	for j, req := range order {
		texts[j] = Truncate(req.Text, c.maxLen)
	}

	polarities, failed := c.scoreUncached(ctx, texts)

	for j, req := range order {
		idxs := pending[req.Fingerprint]
		if failed[j] {
			for _, i := range idxs {
				results[i] = Result{Failed: true}
			}
			continue
		}

		p := clampUnit(polarities[j])
		c.Record(ctx, req.Fingerprint, req.Kind, p)
		for n, i := range idxs {
			// repeats inside the batch reuse the first computation
			results[i] = Result{Polarity: p, CacheHit: n > 0}
		}
	}

	return results
}

func (c *Cache) scoreUncached(ctx context.Context, texts []string) ([]float64, []bool) {
	failed := make([]bool, len(texts))

	polarities, err := c.oracle.ScoreBatch(ctx, texts)
	if err == nil && len(polarities) != len(texts) {
		err = fmt.Errorf("oracle returned %d polarities for %d texts", len(polarities), len(texts))
	}
	if err == nil {
		metrics.OracleCalls.WithLabelValues("batch", "success").Inc()
		return polarities, failed
	}

	metrics.OracleCalls.WithLabelValues("batch", "error").Inc()
	c.logger.WithError(err).WithField("items", len(texts)).Warn("batch scoring failed, falling back to single calls")

	polarities = make([]float64, len(texts))
	for j, text := range texts {
		if ctx.Err() != nil {
			failed[j] = true
			continue
		}
		p, err := c.oracle.Score(ctx, text)
		if err != nil {
			metrics.OracleCalls.WithLabelValues("single", "error").Inc()
			c.logger.WithError(err).Warn("oracle failed, using neutral polarity")
			failed[j] = true
			continue
		}
		metrics.OracleCalls.WithLabelValues("single", "success").Inc()
		polarities[j] = p
	}

	return polarities, failed
}

func clampUnit(p float64) float64 {
	if math.IsNaN(p) {
		return 0
	}
	return math.Max(-1, math.Min(1, p))
}
