package contracts

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUniverse() *Universe {
	return &Universe{
		Tickers: []Ticker{
			{Symbol: "AAPL", Name: "Apple Inc.", Weight: 0.6},
			{Symbol: "MSFT", Name: "Microsoft Corporation", Weight: 0.4},
		},
	}
}

func TestUniverse_Lookup(t *testing.T) {
	u := testUniverse()

	w, ok := u.Weight("MSFT")
	assert.True(t, ok)
	assert.Equal(t, 0.4, w)

	assert.True(t, u.Contains("AAPL"))
	assert.False(t, u.Contains("TSLA"))
	assert.Equal(t, []string{"AAPL", "MSFT"}, u.Symbols())
	assert.Equal(t, 2, u.Count())
	assert.InDelta(t, 1.0, u.TotalWeight(), 1e-9)
}

func TestRecommendation_Total(t *testing.T) {
	r := Recommendation{StrongBuy: 10, Buy: 5, Hold: 3, Sell: 1, StrongSell: 1}
	assert.Equal(t, 20, r.Total())
	assert.Equal(t, 0, Recommendation{}.Total())
}

func TestRunCounts_Add(t *testing.T) {
	got := RunCounts{Cached: 1, New: 2}.Add(RunCounts{Cached: 3, Failed: 1, Skipped: 4})
	assert.Equal(t, RunCounts{Cached: 4, New: 2, Failed: 1, Skipped: 4}, got)
}

func TestDriverWeights_Sum(t *testing.T) {
	w := DriverWeights{News: 0.35, Social: 0.20, Technical: 0.25, Analyst: 0.20}
	assert.InDelta(t, 1.0, w.Sum(), 1e-9)
}

func TestStage(t *testing.T) {
	tests := []struct {
		stage Stage
		short string
	}{
		{StageCollect, "S0"},
		{StageUniverse, "S1"},
		{StageSignals, "S2"},
		{StageComposite, "S3"},
		{StagePersist, "S4"},
		{Stage("bogus"), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.stage.String(), func(t *testing.T) {
			assert.Equal(t, tt.short, tt.stage.ShortName())
		})
	}

	assert.True(t, IsValidStage("S2_SIGNALS"))
	assert.False(t, IsValidStage("S5_PORTFOLIO"))
}

func TestIndicators_NullJSON(t *testing.T) {
	rsi := 42.5
	data, err := json.Marshal(Indicators{RSI: &rsi})
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, 42.5, raw["rsi"])
	assert.Nil(t, raw["macd"])
	assert.Contains(t, raw, "macd")
}
