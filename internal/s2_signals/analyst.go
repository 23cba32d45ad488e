package s2_signals

import (
	"context"
	"fmt"

	"github.com/c0ughman/nasdaqst/backend/internal/contracts"
	"github.com/c0ughman/nasdaqst/backend/pkg/logger"
)

// AnalystAggregator converts recommendation counts into a weighted score
// ⭐ SSOT: 애널리스트 점수 계산은 여기서만
type AnalystAggregator struct{}

// NewAnalystAggregator creates a new analyst aggregator
func NewAnalystAggregator() *AnalystAggregator {
	return &AnalystAggregator{}
}

// Aggregate computes Σ(normalized×weight) / Σ(weight of tickers with data) × 100.
// Tickers outside the universe or with zero recommendations are ignored.
func (a *AnalystAggregator) Aggregate(universe *contracts.Universe, recs []contracts.Recommendation) contracts.AnalystBreakdown {
	var (
		out         contracts.AnalystBreakdown
		weighted    float64
		totalWeight float64
	)

	for _, r := range recs {
		weight, ok := universe.Weight(r.Ticker)
		if !ok {
			continue
		}
		total := r.Total()
		if total <= 0 {
			continue
		}

		signed := float64(r.StrongBuy*2 + r.Buy - r.Sell - r.StrongSell*2)
		normalized := signed / float64(2*total)

		weighted += normalized * weight
		totalWeight += weight

		out.StrongBuy += r.StrongBuy
		out.Buy += r.Buy
		out.Hold += r.Hold
		out.Sell += r.Sell
		out.StrongSell += r.StrongSell
		out.Total += total
		out.StocksAnalyzed++
	}

	if totalWeight > 0 {
		out.Score = round2(clamp(weighted/totalWeight*100, -100, 100))
	}
	return out
}

// ChangeDetector reports whether analyst data moved since the previous run.
// Used only to skip refetching every ticker.
type ChangeDetector interface {
	HasChanged(ctx context.Context, previous *contracts.AnalystBreakdown) (bool, error)
}

// SampleChangeDetector compares a few tickers' recommendation totals with
// the previous run's average total per ticker
type SampleChangeDetector struct {
	source     contracts.RecommendationSource
	symbols    []string
	universeN  int
	sampleSize int
	logger     *logger.Logger
}

// NewSampleChangeDetector samples the first sampleSize universe tickers
func NewSampleChangeDetector(source contracts.RecommendationSource, universe *contracts.Universe, sampleSize int, log *logger.Logger) *SampleChangeDetector {
	return &SampleChangeDetector{
		source:     source,
		symbols:    universe.Symbols(),
		universeN:  universe.Count(),
		sampleSize: sampleSize,
		logger:     log.WithComponent("analyst_change"),
	}
}

// HasChanged returns true when there is nothing to compare against or any
// sampled total differs from the previous per-ticker average
func (d *SampleChangeDetector) HasChanged(ctx context.Context, previous *contracts.AnalystBreakdown) (bool, error) {
	if previous == nil || previous.Total == 0 || d.universeN == 0 {
		return true, nil
	}

	expected := previous.Total / d.universeN

	n := d.sampleSize
	if n <= 0 || n > len(d.symbols) {
		n = len(d.symbols)
	}

	for _, symbol := range d.symbols[:n] {
		rec, err := d.source.Recommendation(ctx, symbol)
		if err != nil {
			return true, fmt.Errorf("sample %s: %w", symbol, err)
		}
		if rec == nil {
			continue
		}
		if rec.Total() != expected {
			d.logger.WithFields(map[string]interface{}{
				"ticker":   symbol,
				"total":    rec.Total(),
				"expected": expected,
			}).Info("Analyst recommendations changed")
			return true, nil
		}
	}

	return false, nil
}

// AnalystDriver fetches recommendations for the universe and aggregates them
type AnalystDriver struct {
	source     contracts.RecommendationSource
	aggregator *AnalystAggregator
	logger     *logger.Logger
}

// NewAnalystDriver creates an analyst driver
func NewAnalystDriver(source contracts.RecommendationSource, aggregator *AnalystAggregator, log *logger.Logger) *AnalystDriver {
	return &AnalystDriver{
		source:     source,
		aggregator: aggregator,
		logger:     log.WithComponent("analyst_driver"),
	}
}

// Build fetches every ticker's latest trend. Per-ticker failures are logged
// and skipped; the ticker then carries no weight.
func (d *AnalystDriver) Build(ctx context.Context, universe *contracts.Universe) (contracts.AnalystBreakdown, error) {
	recs := make([]contracts.Recommendation, 0, universe.Count())
	failed := 0

	for _, symbol := range universe.Symbols() {
		if err := ctx.Err(); err != nil {
			return contracts.AnalystBreakdown{}, err
		}

		rec, err := d.source.Recommendation(ctx, symbol)
		if err != nil {
			failed++
			d.logger.WithTicker(symbol).WithError(err).Warn("Failed to fetch recommendations")
			continue
		}
		if rec == nil {
			continue
		}
		rec.Ticker = symbol
		recs = append(recs, *rec)
	}

	result := d.aggregator.Aggregate(universe, recs)

	d.logger.WithFields(map[string]interface{}{
		"score":           result.Score,
		"stocks_analyzed": result.StocksAnalyzed,
		"failed":          failed,
	}).Info("Analyst driver computed")

	return result, nil
}
