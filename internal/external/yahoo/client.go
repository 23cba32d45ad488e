package yahoo

import (
	"context"
	"fmt"

	"github.com/wnjoon/go-yfinance/pkg/models"
	"github.com/wnjoon/go-yfinance/pkg/ticker"

	"github.com/c0ughman/nasdaqst/backend/internal/contracts"
	"github.com/c0ughman/nasdaqst/backend/pkg/logger"
)

// Client wraps go-yfinance for OHLCV history and recommendation trends.
// It implements contracts.OHLCVSource and contracts.RecommendationSource.
// ⭐ SSOT: Yahoo Finance 호출은 이 클라이언트에서만
type Client struct {
	logger  *logger.Logger
	history historyFunc
	trend   trendFunc
}

type historyFunc func(symbol string, params models.HistoryParams) ([]models.Bar, error)

// trendCounts is the newest recommendation period; nil when none
type trendFunc func(symbol string) (*trendCounts, error)

type trendCounts struct {
	StrongBuy, Buy, Hold, Sell, StrongSell int
}

// NewClient creates a new Yahoo Finance client
func NewClient(log *logger.Logger) *Client {
	return &Client{
		logger:  log.WithComponent("yahoo"),
		history: fetchHistory,
		trend:   fetchTrend,
	}
}

// History returns bars for period/interval (e.g. "5d", "5m"), oldest first
func (c *Client) History(ctx context.Context, symbol, period, interval string) ([]contracts.Candle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bars, err := c.history(symbol, models.HistoryParams{
		Period:     period,
		Interval:   interval,
		AutoAdjust: true,
	})
	if err != nil {
		return nil, fmt.Errorf("history %s: %w", symbol, err)
	}

	candles := make([]contracts.Candle, 0, len(bars))
	for _, bar := range bars {
		if bar.Close <= 0 {
			continue // 거래 없는 구간
		}
		candles = append(candles, contracts.Candle{
			Time:   bar.Date,
			Open:   bar.Open,
			High:   bar.High,
			Low:    bar.Low,
			Close:  bar.Close,
			Volume: int64(bar.Volume),
		})
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol":   symbol,
		"period":   period,
		"interval": interval,
		"bars":     len(candles),
	}).Debug("history fetched")

	return candles, nil
}

// Recommendation returns the newest recommendation trend, nil when none exists
func (c *Client) Recommendation(ctx context.Context, symbol string) (*contracts.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	counts, err := c.trend(symbol)
	if err != nil {
		return nil, fmt.Errorf("recommendation %s: %w", symbol, err)
	}
	if counts == nil {
		return nil, nil
	}

	return &contracts.Recommendation{
		Ticker:     symbol,
		StrongBuy:  counts.StrongBuy,
		Buy:        counts.Buy,
		Hold:       counts.Hold,
		Sell:       counts.Sell,
		StrongSell: counts.StrongSell,
	}, nil
}

func fetchHistory(symbol string, params models.HistoryParams) ([]models.Bar, error) {
	t, err := ticker.New(symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticker: %w", err)
	}
	defer t.Close()

	return t.History(params)
}

func fetchTrend(symbol string) (*trendCounts, error) {
	t, err := ticker.New(symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticker: %w", err)
	}
	defer t.Close()

	recs, err := t.Recommendations()
	if err != nil {
		return nil, err
	}
	if recs == nil || len(recs.Trend) == 0 {
		return nil, nil
	}

	latest := recs.Trend[0] // most recent period first
	return &trendCounts{
		StrongBuy:  int(latest.StrongBuy),
		Buy:        int(latest.Buy),
		Hold:       int(latest.Hold),
		Sell:       int(latest.Sell),
		StrongSell: int(latest.StrongSell),
	}, nil
}
