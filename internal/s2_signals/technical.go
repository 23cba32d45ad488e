package s2_signals

import (
	"context"
	"fmt"
	"math"

	"github.com/markcheno/go-talib"

	"github.com/c0ughman/nasdaqst/backend/internal/contracts"
	"github.com/c0ughman/nasdaqst/backend/internal/scoringconfig"
	"github.com/c0ughman/nasdaqst/backend/pkg/logger"
)

// Technical fold weights
const (
	weightRSI       = 0.30
	weightMACD      = 0.25
	weightBollinger = 0.20
	weightEMACross  = 0.15
	weightStoch     = 0.10
)

// TechnicalEngine computes indicators from candles and folds them into one score
// ⭐ SSOT: 기술적 지표 계산은 여기서만
type TechnicalEngine struct {
	cfg    scoringconfig.Technical
	logger *logger.Logger
}

// NewTechnicalEngine creates a new technical engine
func NewTechnicalEngine(cfg *scoringconfig.Config, log *logger.Logger) *TechnicalEngine {
	return &TechnicalEngine{
		cfg:    cfg.Technical,
		logger: log.WithComponent("technical_engine"),
	}
}

// Compute derives indicators from ordered candles.
// An indicator is nil when the series is too short for its period.
func (e *TechnicalEngine) Compute(candles []contracts.Candle) contracts.Indicators {
	var ind contracts.Indicators

	n := len(candles)
	if n == 0 {
		return ind
	}

	closes := make([]float64, n)
	highs := make([]float64, n)
	lows := make([]float64, n)
	for i, c := range candles {
		closes[i] = c.Close
		highs[i] = c.High
		lows[i] = c.Low
	}

	// RSI는 period개의 변화량이 필요
	if p := e.cfg.RSIPeriod; p > 0 && n >= p+1 {
		ind.RSI = last(talib.Rsi(closes, p))
	}

	// MACD 라인은 slow개, 시그널/히스토그램은 slow+signal-1개 필요
	if fast, slow, sig := e.cfg.MACDFast, e.cfg.MACDSlow, e.cfg.MACDSignal; fast > 0 && slow > 0 && n >= slow {
		if sig > 0 && n >= slow+sig-1 {
			macd, signal, hist := talib.Macd(closes, fast, slow, sig)
			ind.MACD = last(macd)
			ind.MACDSignal = last(signal)
			ind.MACDHistogram = last(hist)
		} else {
			emaFast := last(talib.Ema(closes, fast))
			emaSlow := last(talib.Ema(closes, slow))
			if emaFast != nil && emaSlow != nil {
				line := *emaFast - *emaSlow
				ind.MACD = &line
			}
		}
	}

	if p := e.cfg.BBPeriod; p > 0 && n >= p {
		upper, middle, lower := talib.BBands(closes, p, e.cfg.BBStdDev, e.cfg.BBStdDev, talib.SMA)
		ind.BBUpper = last(upper)
		ind.BBMiddle = last(middle)
		ind.BBLower = last(lower)
	}

	if n >= 20 {
		ind.SMA20 = last(talib.Sma(closes, 20))
		ind.EMA20 = last(talib.Ema(closes, 20))
	}
	if n >= 50 {
		ind.SMA50 = last(talib.Sma(closes, 50))
	}
	if n >= 9 {
		ind.EMA9 = last(talib.Ema(closes, 9))
	}

	if !e.cfg.IncludeOptional {
		return ind
	}

	k, smooth, d := e.cfg.StochK, e.cfg.StochKSmooth, e.cfg.StochD
	if k > 0 && smooth > 0 && d > 0 && n >= k+smooth+d-2 {
		slowK, slowD := talib.Stoch(highs, lows, closes, k, smooth, talib.SMA, d, talib.SMA)
		ind.StochK = last(slowK)
		ind.StochD = last(slowD)
	}
	if p := e.cfg.WilliamsPeriod; p > 0 && n >= p {
		ind.WilliamsR = last(talib.WillR(highs, lows, closes, p))
	}
	if p := e.cfg.ATRPeriod; p > 0 && n >= p+1 {
		ind.ATR = last(talib.Atr(highs, lows, closes, p))
	}

	return ind
}

// Score folds available indicators into one value in [-100, 100].
// Weights renormalize over the components present; 0 when none are.
// The result is rounded to 2 decimals, so a single component comes back
// equal to that component only to the cent.
func (e *TechnicalEngine) Score(ind contracts.Indicators, price float64) float64 {
	var total, weights float64
	add := func(score, weight float64) {
		total += score * weight
		weights += weight
	}

	if ind.RSI != nil {
		add(rsiComponent(*ind.RSI), weightRSI)
	}

	if ind.MACDHistogram != nil {
		add(clamp(*ind.MACDHistogram*20, -100, 100), weightMACD)
	}

	if ind.BBUpper != nil && ind.BBLower != nil && *ind.BBUpper != *ind.BBLower {
		position := (price - *ind.BBLower) / (*ind.BBUpper - *ind.BBLower)
		add((0.5-position)*200, weightBollinger)
	}

	if ind.EMA9 != nil && ind.EMA20 != nil && *ind.EMA20 != 0 {
		pct := (*ind.EMA9 - *ind.EMA20) / *ind.EMA20 * 100
		add(clamp(pct*50, -100, 100), weightEMACross)
	}

	if ind.StochK != nil && ind.StochD != nil {
		add(stochComponent((*ind.StochK+*ind.StochD)/2), weightStoch)
	}

	if weights == 0 {
		return 0
	}
	return round2(clamp(total/weights, -100, 100))
}

func rsiComponent(rsi float64) float64 {
	switch {
	case rsi < 30:
		return 100 * (30 - rsi) / 30
	case rsi > 70:
		return -100 * (rsi - 70) / 30
	default:
		return ((rsi - 50) / 20) * 20
	}
}

func stochComponent(avg float64) float64 {
	switch {
	case avg < 20:
		return 100 * (20 - avg) / 20
	case avg > 80:
		return -100 * (avg - 80) / 20
	default:
		return ((50 - avg) / 30) * 20
	}
}

// Snapshot summarizes the trading day of the latest candle.
// Open is the day's first open; change is measured against it.
func Snapshot(symbol string, candles []contracts.Candle) *contracts.PriceSnapshot {
	if len(candles) == 0 {
		return nil
	}

	latest := candles[len(candles)-1]
	y, m, d := latest.Time.Date()

	snap := &contracts.PriceSnapshot{
		Symbol: symbol,
		Price:  latest.Close,
		Open:   latest.Open,
		High:   latest.High,
		Low:    latest.Low,
		AsOf:   latest.Time,
	}

	for i := len(candles) - 1; i >= 0; i-- {
		c := candles[i]
		cy, cm, cd := c.Time.Date()
		if cy != y || cm != m || cd != d {
			break
		}
		snap.Open = c.Open
		snap.High = math.Max(snap.High, c.High)
		snap.Low = math.Min(snap.Low, c.Low)
		snap.Volume += c.Volume
	}

	if snap.Open != 0 {
		snap.ChangePercent = round2((snap.Price - snap.Open) / snap.Open * 100)
	}
	return snap
}

// TechnicalResult is the technical driver of one run
type TechnicalResult struct {
	Symbol     string
	Indicators contracts.Indicators
	Price      *contracts.PriceSnapshot
	Score      float64
}

// TechnicalDriver fetches candles with symbol fallback and scores them
type TechnicalDriver struct {
	source   contracts.OHLCVSource
	engine   *TechnicalEngine
	symbols  []string
	period   string
	interval string
	logger   *logger.Logger
}

// NewTechnicalDriver creates a technical driver. Symbols are tried in order.
func NewTechnicalDriver(source contracts.OHLCVSource, engine *TechnicalEngine, symbols []string, period, interval string, log *logger.Logger) *TechnicalDriver {
	return &TechnicalDriver{
		source:   source,
		engine:   engine,
		symbols:  symbols,
		period:   period,
		interval: interval,
		logger:   log.WithComponent("technical_driver"),
	}
}

// Build returns indicators, price and score from the first symbol with data
func (d *TechnicalDriver) Build(ctx context.Context) (*TechnicalResult, error) {
	var lastErr error

	for _, symbol := range d.symbols {
		candles, err := d.source.History(ctx, symbol, d.period, d.interval)
		if err != nil {
			lastErr = err
			d.logger.WithTicker(symbol).WithError(err).Warn("OHLCV fetch failed, trying next symbol")
			continue
		}
		if len(candles) == 0 {
			lastErr = fmt.Errorf("no candles for %s", symbol)
			continue
		}

		ind := d.engine.Compute(candles)
		price := Snapshot(symbol, candles)
		score := d.engine.Score(ind, price.Price)

		d.logger.WithFields(map[string]interface{}{
			"symbol":  symbol,
			"candles": len(candles),
			"score":   score,
		}).Info("Technical driver computed")

		return &TechnicalResult{
			Symbol:     symbol,
			Indicators: ind,
			Price:      price,
			Score:      score,
		}, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no technical symbols configured")
	}
	return nil, fmt.Errorf("technical driver: %w", lastErr)
}

// last returns the final value of a talib series, nil for NaN or empty
func last(series []float64) *float64 {
	if len(series) == 0 {
		return nil
	}
	v := series[len(series)-1]
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
