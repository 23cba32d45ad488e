package sentiment

import (
	"context"
	"errors"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/c0ughman/nasdaqst/backend/internal/contracts"
	"github.com/c0ughman/nasdaqst/backend/pkg/logger"
)

// RetryingOracle retries ErrOracleUnavailable after a fixed delay, at most
// maxRetries times. Any other error is returned at once.
type RetryingOracle struct {
	next       contracts.Oracle
	delay      time.Duration
	maxRetries int
	clock      clockwork.Clock
	logger     *logger.Logger
}

// NewRetryingOracle wraps next
func NewRetryingOracle(next contracts.Oracle, delay time.Duration, maxRetries int, clock clockwork.Clock, log *logger.Logger) *RetryingOracle {
	return &RetryingOracle{
		next:       next,
		delay:      delay,
		maxRetries: maxRetries,
		clock:      clock,
		logger:     log.WithComponent("oracle_retry"),
	}
}

func (r *RetryingOracle) Score(ctx context.Context, text string) (float64, error) {
	return retryUnavailable(ctx, r, func() (float64, error) {
		return r.next.Score(ctx, text)
	})
}

func (r *RetryingOracle) ScoreBatch(ctx context.Context, texts []string) ([]float64, error) {
	return retryUnavailable(ctx, r, func() ([]float64, error) {
		return r.next.ScoreBatch(ctx, texts)
	})
}

func retryUnavailable[T any](ctx context.Context, r *RetryingOracle, call func() (T, error)) (T, error) {
	for attempt := 0; ; attempt++ {
		v, err := call()
		if err == nil || !errors.Is(err, ErrOracleUnavailable) || attempt >= r.maxRetries {
			return v, err
		}

		r.logger.WithFields(map[string]interface{}{
			"attempt": attempt + 1,
			"delay":   r.delay,
		}).Warn("oracle unavailable, waiting before retry")

		select {
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		case <-r.clock.After(r.delay):
		}
	}
}
