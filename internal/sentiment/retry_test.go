package sentiment

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c0ughman/nasdaqst/backend/pkg/logger"
)

// flakyOracle fails with the given errors before answering 0.42
type flakyOracle struct {
	errs  []error
	calls int
}

func (f *flakyOracle) Score(context.Context, string) (float64, error) {
	f.calls++
	if f.calls <= len(f.errs) {
		return 0, f.errs[f.calls-1]
	}
	return 0.42, nil
}

func (f *flakyOracle) ScoreBatch(ctx context.Context, texts []string) ([]float64, error) {
	p, err := f.Score(ctx, "")
	if err != nil {
		return nil, err
	}
	return []float64{p}, nil
}

func TestRetryingOracle_OneRetryAfterBackoff(t *testing.T) {
	clock := clockwork.NewFakeClock()
	next := &flakyOracle{errs: []error{fmt.Errorf("model loading: %w", ErrOracleUnavailable)}}
	oracle := NewRetryingOracle(next, 20*time.Second, 1, clock, logger.Nop())

	done := make(chan float64)
	go func() {
		p, err := oracle.Score(context.Background(), "text")
		assert.NoError(t, err)
		done <- p
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(ctx, 1))

	clock.Advance(20 * time.Second)
	assert.Equal(t, 0.42, <-done)
	assert.Equal(t, 2, next.calls)
}

func TestRetryingOracle_GivesUpAfterMaxRetries(t *testing.T) {
	unavailable := fmt.Errorf("503: %w", ErrOracleUnavailable)
	next := &flakyOracle{errs: []error{unavailable, unavailable, unavailable}}
	oracle := NewRetryingOracle(next, time.Millisecond, 1, clockwork.NewRealClock(), logger.Nop())

	_, err := oracle.ScoreBatch(context.Background(), []string{"a"})
	assert.ErrorIs(t, err, ErrOracleUnavailable)
	assert.Equal(t, 2, next.calls, "initial call plus exactly one retry")
}

func TestRetryingOracle_HardErrorNotRetried(t *testing.T) {
	next := &flakyOracle{errs: []error{errHard}}
	oracle := NewRetryingOracle(next, time.Millisecond, 2, clockwork.NewRealClock(), logger.Nop())

	_, err := oracle.Score(context.Background(), "a")
	assert.ErrorIs(t, err, errHard)
	assert.Equal(t, 1, next.calls)
}

func TestRetryingOracle_ContextCancelled(t *testing.T) {
	next := &flakyOracle{errs: []error{ErrOracleUnavailable}}
	oracle := NewRetryingOracle(next, time.Hour, 1, clockwork.NewFakeClock(), logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := oracle.Score(ctx, "a")
	assert.ErrorIs(t, err, context.Canceled)
}
