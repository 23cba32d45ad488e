package contracts

import (
	"context"
	"errors"
	"time"
)

// ErrOracleUnavailable marks a transient oracle failure (model loading, 503).
// Callers retry once after a fixed backoff.
var ErrOracleUnavailable = errors.New("sentiment oracle temporarily unavailable")

// Oracle scores text polarity in [-1, 1]
// ⭐ SSOT: 감성 분석 외부 인터페이스
type Oracle interface {
	Score(ctx context.Context, text string) (float64, error)
	// ScoreBatch returns polarities in input order
	ScoreBatch(ctx context.Context, texts []string) ([]float64, error)
}

// OHLCVSource returns ordered candles, possibly fewer than requested
type OHLCVSource interface {
	History(ctx context.Context, symbol, period, interval string) ([]Candle, error)
}

// NewsSource fetches raw articles (S0)
type NewsSource interface {
	CompanyNews(ctx context.Context, ticker string, from, to time.Time) ([]Article, error)
	GeneralNews(ctx context.Context) ([]Article, error)
}

// RecommendationSource returns the latest recommendation trend; nil when the ticker has none
type RecommendationSource interface {
	Recommendation(ctx context.Context, ticker string) (*Recommendation, error)
}

// PostCollector returns relevant social posts for one run (S0)
type PostCollector interface {
	Collect(ctx context.Context) ([]Post, error)
}
