package sentiment

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/c0ughman/nasdaqst/backend/internal/contracts"
	"github.com/c0ughman/nasdaqst/backend/pkg/logger"
	"github.com/c0ughman/nasdaqst/backend/pkg/metrics"
)

// BreakerOracle stops calling a failing oracle for a cool-down period.
// While open every call fails fast and the cache degrades to neutral polarity.
type BreakerOracle struct {
	next contracts.Oracle
	cb   *gobreaker.CircuitBreaker
}

// BreakerConfig tunes the breaker
type BreakerConfig struct {
	Name                string
	ConsecutiveFailures uint32
	OpenTimeout         time.Duration
}

// DefaultBreakerConfig trips after 5 straight failures and probes again after a minute
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:                "sentiment_oracle",
		ConsecutiveFailures: 5,
		OpenTimeout:         time.Minute,
	}
}

// NewBreakerOracle wraps next
func NewBreakerOracle(next contracts.Oracle, cfg BreakerConfig, log *logger.Logger) *BreakerOracle {
	log = log.WithComponent("oracle_breaker")

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
			log.WithFields(map[string]interface{}{
				"from": from.String(),
				"to":   to.String(),
			}).Warn("oracle circuit breaker state changed")
		},
	})
	metrics.CircuitBreakerState.WithLabelValues(cfg.Name).Set(0)

	return &BreakerOracle{next: next, cb: cb}
}

func (b *BreakerOracle) Score(ctx context.Context, text string) (float64, error) {
	v, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Score(ctx, text)
	})
	if err != nil {
		return 0, fmt.Errorf("oracle breaker: %w", err)
	}
	return v.(float64), nil
}

func (b *BreakerOracle) ScoreBatch(ctx context.Context, texts []string) ([]float64, error) {
	v, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.ScoreBatch(ctx, texts)
	})
	if err != nil {
		return nil, fmt.Errorf("oracle breaker: %w", err)
	}
	return v.([]float64), nil
}

// State exposes the breaker state
func (b *BreakerOracle) State() gobreaker.State {
	return b.cb.State()
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
