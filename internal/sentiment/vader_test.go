package sentiment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVaderOracle(t *testing.T) {
	oracle := NewVaderOracle()
	ctx := context.Background()

	good, err := oracle.Score(ctx, "Great earnings, stock is surging and investors are happy")
	require.NoError(t, err)
	bad, err := oracle.Score(ctx, "Terrible losses, awful guidance, investors are angry")
	require.NoError(t, err)

	assert.Greater(t, good, 0.0)
	assert.Less(t, bad, 0.0)

	batch, err := oracle.ScoreBatch(ctx, []string{
		"Great earnings, stock is surging and investors are happy",
		"Terrible losses, awful guidance, investors are angry",
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{good, bad}, batch)
}
