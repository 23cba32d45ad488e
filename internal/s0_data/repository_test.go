package s0_data

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c0ughman/nasdaqst/backend/internal/contracts"
	"github.com/c0ughman/nasdaqst/backend/pkg/config"
	"github.com/c0ughman/nasdaqst/backend/pkg/database"
)

// integrationDB connects to TEST_DATABASE_URL and migrates, or skips
func integrationDB(t *testing.T) *database.DB {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" || testing.Short() {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	db, err := database.New(&config.Config{Database: config.DatabaseConfig{
		URL:             url,
		MaxConns:        2,
		MinConns:        1,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: time.Minute,
	}})
	require.NoError(t, err)
	t.Cleanup(db.Close)

	_, err = db.Migrate(context.Background())
	require.NoError(t, err)
	return db
}

func TestSentimentRepository(t *testing.T) {
	db := integrationDB(t)
	repo := NewSentimentRepository(db.Pool)
	ctx := context.Background()

	fp := contracts.Fingerprint(uuid.NewString()[:8] + "000000000000000000000000")

	_, found, err := repo.Get(ctx, fp)
	require.NoError(t, err)
	assert.False(t, found)

	entry := contracts.SentimentEntry{Polarity: 0.42, Analyzed: true, Kind: contracts.KindPost}
	require.NoError(t, repo.Upsert(ctx, fp, entry))
	require.NoError(t, repo.Upsert(ctx, fp, entry), "upsert is idempotent")

	got, found, err := repo.Get(ctx, fp)
	require.NoError(t, err)
	require.True(t, found)
	assert.InDelta(t, 0.42, got.Polarity, 1e-9)
	assert.Equal(t, contracts.KindPost, got.Kind)

	known, err := repo.Known(ctx, []contracts.Fingerprint{fp, "ffffffffffffffffffffffffffffffff"})
	require.NoError(t, err)
	assert.True(t, known[fp])
	assert.False(t, known["ffffffffffffffffffffffffffffffff"])

	// cutoff in the past keeps the fresh row
	_, err = repo.Prune(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	_, found, err = repo.Get(ctx, fp)
	require.NoError(t, err)
	assert.True(t, found)

	deleted, err := repo.Prune(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, deleted, int64(1))
	_, found, err = repo.Get(ctx, fp)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRunRepository_SaveAndQuery(t *testing.T) {
	db := integrationDB(t)
	repo := NewRunRepository(db.Pool)
	ctx := context.Background()

	symbol := "TEST-" + uuid.NewString()[:8]
	ts := time.Now().UTC().Truncate(time.Microsecond)
	rsi := 55.5

	result := &contracts.CompositeResult{
		ID:           uuid.New(),
		Symbol:       symbol,
		Timestamp:    ts,
		Drivers:      contracts.DriverScores{News: 10, Social: -5, Technical: 20, Analyst: 40},
		Weights:      contracts.DriverWeights{News: 0.35, Social: 0.20, Technical: 0.25, Analyst: 0.20},
		Score:        15.5,
		Label:        contracts.LabelNeutral,
		HistoryLabel: contracts.LabelNeutral,
		Indicators:   contracts.Indicators{RSI: &rsi},
		Counts:       contracts.RunCounts{New: 3, Cached: 7},
	}
	contributions := []contracts.TickerContribution{
		{Ticker: "AAPL", Sentiment: 20, MarketCapWeight: 0.6, WeightedContribution: 12, ItemCount: 4},
		{Ticker: "MSFT", Sentiment: -10, MarketCapWeight: 0.4, WeightedContribution: -4, ItemCount: 2},
	}

	_, err := repo.Latest(ctx, symbol)
	assert.ErrorIs(t, err, ErrNoPreviousRun)

	require.NoError(t, repo.Save(ctx, result, contributions))

	latest, err := repo.Latest(ctx, symbol)
	require.NoError(t, err)
	assert.Equal(t, result.ID, latest.ID)
	assert.Equal(t, 15.5, latest.Score)
	assert.Equal(t, 0.35, latest.Weights.News)
	require.NotNil(t, latest.Indicators.RSI)
	assert.Equal(t, rsi, *latest.Indicators.RSI)
	assert.Nil(t, latest.Price)
	assert.Equal(t, 7, latest.Counts.Cached)

	got, err := repo.Contributions(ctx, result.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "AAPL", got[0].Ticker)

	history, err := repo.TickerHistory(ctx, "MSFT", ts.Add(-time.Minute), ts.Add(time.Minute))
	require.NoError(t, err)
	assert.NotEmpty(t, history)

	list, err := repo.List(ctx, symbol, ts.Add(-time.Minute), ts.Add(time.Minute), 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = repo.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestRunRepository_SaveIsAtomic(t *testing.T) {
	db := integrationDB(t)
	repo := NewRunRepository(db.Pool)
	ctx := context.Background()

	result := &contracts.CompositeResult{ID: uuid.New(), Symbol: "TEST-ATOMIC", Timestamp: time.Now().UTC()}
	dup := contracts.TickerContribution{Ticker: "AAPL", MarketCapWeight: 1}

	// duplicate primary key in the batch aborts the whole run
	err := repo.Save(ctx, result, []contracts.TickerContribution{dup, dup})
	require.Error(t, err)

	_, err = repo.Get(ctx, result.ID)
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestRunRepository_Items(t *testing.T) {
	db := integrationDB(t)
	repo := NewRunRepository(db.Pool)
	ctx := context.Background()

	ts := time.Now().UTC().Truncate(time.Microsecond)
	result := &contracts.CompositeResult{ID: uuid.New(), Symbol: "TEST-ITEMS", Timestamp: ts}
	require.NoError(t, repo.Save(ctx, result, nil))

	shared := contracts.Fingerprint("0123456789abcdef0123456789abcdef")
	items := []contracts.ScoredItem{
		{Fingerprint: shared, Kind: contracts.KindArticle, Ticker: "AAPL", Source: "Reuters", Text: "Apple rallies. iPhone demand",
			PublishedAt: ts.Add(-time.Hour), BaseSentiment: 0.6, Surprise: 1.2, Novelty: 1, Credibility: 0.9, Recency: 0.95, Score: 31.4},
		// 같은 run 안의 반복 기사
		{Fingerprint: shared, Kind: contracts.KindArticle, Ticker: "MSFT", Source: "Reuters", Text: "Apple rallies. iPhone demand",
			PublishedAt: ts.Add(-time.Hour), BaseSentiment: 0.6, Surprise: 1.2, Novelty: 0.2, Credibility: 0.9, Recency: 0.95, Score: 27.8, CacheHit: true},
		{Fingerprint: "fedcba9876543210fedcba9876543210", Kind: contracts.KindComment, Source: "stocks", Text: "to the moon",
			BaseSentiment: -1, Score: -100, Failed: true},
	}
	require.NoError(t, repo.SaveItems(ctx, result.ID, items))

	got, err := repo.Items(ctx, result.ID)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, shared, got[0].Fingerprint)
	assert.Equal(t, "AAPL", got[0].Ticker)
	assert.Equal(t, 1.2, got[0].Surprise)
	assert.Equal(t, 31.4, got[0].Score)
	assert.True(t, got[0].PublishedAt.Equal(ts.Add(-time.Hour)))
	assert.Equal(t, "MSFT", got[1].Ticker)
	assert.Equal(t, 0.2, got[1].Novelty)
	assert.True(t, got[1].CacheHit)
	assert.Equal(t, contracts.KindComment, got[2].Kind)
	assert.True(t, got[2].PublishedAt.IsZero())
	assert.True(t, got[2].Failed)

	none, err := repo.Items(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, none)

	// items need a saved run
	assert.Error(t, repo.SaveItems(ctx, uuid.New(), items[:1]))
}
