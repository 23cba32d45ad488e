package sentiment

import (
	"context"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"

	"github.com/c0ughman/nasdaqst/backend/pkg/logger"
)

func TestBreakerOracle_TripsAndFailsFast(t *testing.T) {
	next := newFakeOracle(nil)
	next.singleErr["x"] = errHard

	oracle := NewBreakerOracle(next, BreakerConfig{
		Name:                "test_breaker",
		ConsecutiveFailures: 3,
		OpenTimeout:         time.Minute,
	}, logger.Nop())

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := oracle.Score(ctx, "x")
		assert.ErrorIs(t, err, errHard)
	}
	assert.Equal(t, gobreaker.StateOpen, oracle.State())

	_, err := oracle.Score(ctx, "x")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Len(t, next.singleCalls, 3, "open breaker must not reach the oracle")
}

func TestBreakerOracle_PassesThrough(t *testing.T) {
	next := newFakeOracle(map[string]float64{"a": 0.1, "b": -0.2})
	oracle := NewBreakerOracle(next, DefaultBreakerConfig(), logger.Nop())

	out, err := oracle.ScoreBatch(context.Background(), []string{"a", "b"})
	assert.NoError(t, err)
	assert.Equal(t, []float64{0.1, -0.2}, out)
	assert.Equal(t, gobreaker.StateClosed, oracle.State())
}
