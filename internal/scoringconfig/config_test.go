package scoringconfig

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := "../../config/scoring/nasdaq_composite.yaml"

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Skip("config file not found")
	}

	cfg, yamlData, err := Load(path)
	require.NoError(t, err)
	assert.NotEmpty(t, yamlData)

	assert.Equal(t, "nasdaq_composite", cfg.Meta.ConfigID)
	assert.Equal(t, "^IXIC", cfg.Universe.Symbol)
	// untouched sections keep defaults
	assert.Len(t, cfg.Universe.Tickers, 20)
	assert.Len(t, cfg.News.SurpriseKeywords, 10)

	hash, err := Hash(cfg)
	require.NoError(t, err)
	assert.Len(t, hash, 64)

	// 동일 설정 → 동일 해시
	hash2, _ := Hash(cfg)
	assert.Equal(t, hash, hash2, "hash not deterministic")
}

func TestDefault_Valid(t *testing.T) {
	cfg := Default()
	require.NoError(t, Validate(cfg))

	assert.InDelta(t, 1.0, cfg.Composite.Weights.Sum(), 1e-9)
	assert.Equal(t, 512, cfg.Oracle.MaxTextLength)
	assert.Empty(t, Warn(cfg))
}

func TestParse_Overrides(t *testing.T) {
	data := []byte(`
news:
  surprise_keywords:
    - { phrase: shock, multiplier: 2.0 }
composite:
  dashboard_threshold: 25
`)

	cfg, err := Parse(data)
	require.NoError(t, err)

	// list replaced, scalar overridden, siblings untouched
	assert.Equal(t, []KeywordWeight{{Phrase: "shock", Multiplier: 2.0}}, cfg.News.SurpriseKeywords)
	assert.Equal(t, 25.0, cfg.Composite.DashboardThreshold)
	assert.Equal(t, 50.0, cfg.Composite.HistoryStrong)
	assert.Len(t, cfg.News.ExpectedKeywords, 5)
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse([]byte("composite:\n  wieghts:\n    news: 1.0\n"))
	require.Error(t, err)
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = LoadOrDefault("does/not/exist.yaml")
	assert.Error(t, err)
}

func TestHash_ChangesWithConfig(t *testing.T) {
	a, err := Hash(Default())
	require.NoError(t, err)

	cfg := Default()
	cfg.Composite.DashboardThreshold = 31
	b, err := Hash(cfg)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{
			name:   "composite weights must sum to 1",
			mutate: func(c *Config) { c.Composite.Weights.News = 0.5 },
			field:  "composite.weights",
		},
		{
			name:   "negative composite weight",
			mutate: func(c *Config) { c.Composite.Weights.News = -0.1; c.Composite.Weights.Social = 0.65 },
			field:  "composite.weights",
		},
		{
			name:   "news split must sum to 1",
			mutate: func(c *Config) { c.News.MarketWeight = 0.5 },
			field:  "news.company_weight+market_weight",
		},
		{
			name:   "surprise multiplier below 1",
			mutate: func(c *Config) { c.News.SurpriseKeywords[0].Multiplier = 0.9 },
			field:  "news.surprise_keywords[0]",
		},
		{
			name:   "expected multiplier above 1",
			mutate: func(c *Config) { c.News.ExpectedKeywords[1].Multiplier = 1.2 },
			field:  "news.expected_keywords[1]",
		},
		{
			name:   "credibility out of range",
			mutate: func(c *Config) { c.News.SourceCredibility[0].Weight = 1.5 },
			field:  "news.source_credibility[0].weight",
		},
		{
			name:   "duplicate ticker",
			mutate: func(c *Config) { c.Universe.Tickers[1].Symbol = "aapl" },
			field:  "universe.tickers[1].symbol",
		},
		{
			name:   "zero ticker weight",
			mutate: func(c *Config) { c.Universe.Tickers[0].Weight = 0 },
			field:  "universe.tickers[0].weight",
		},
		{
			name:   "empty universe",
			mutate: func(c *Config) { c.Universe.Tickers = nil },
			field:  "universe.tickers",
		},
		{
			name:   "macd fast >= slow",
			mutate: func(c *Config) { c.Technical.MACDFast = 26 },
			field:  "technical.macd",
		},
		{
			name:   "history thresholds inverted",
			mutate: func(c *Config) { c.Composite.HistoryMild = 60 },
			field:  "composite.history",
		},
		{
			name:   "oracle length",
			mutate: func(c *Config) { c.Oracle.MaxTextLength = 0 },
			field:  "oracle.max_text_length",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := Validate(cfg)
			var verr ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestWarn(t *testing.T) {
	cfg := Default()
	cfg.Oracle.MaxTextLength = 1024
	cfg.Social.RelevanceKeywords = nil

	codes := make([]string, 0)
	for _, w := range Warn(cfg) {
		codes = append(codes, w.Code)
	}
	assert.ElementsMatch(t, []string{"LONG_ORACLE_INPUT", "NO_RELEVANCE_KEYWORDS"}, codes)
}
