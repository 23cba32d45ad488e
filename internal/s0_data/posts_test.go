package s0_data

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c0ughman/nasdaqst/backend/internal/contracts"
	"github.com/c0ughman/nasdaqst/backend/internal/scoringconfig"
	"github.com/c0ughman/nasdaqst/backend/pkg/logger"
)

type fakeReader struct {
	posts        map[string][]contracts.Post
	comments     []contracts.Comment
	commentCalls int
}

func (f *fakeReader) Hot(_ context.Context, subreddit string, _ int) ([]contracts.Post, error) {
	if subreddit == "broken" {
		return nil, errors.New("forbidden")
	}
	return f.posts[subreddit], nil
}

func (f *fakeReader) Comments(context.Context, string, string, int) ([]contracts.Comment, error) {
	f.commentCalls++
	return append([]contracts.Comment(nil), f.comments...), nil
}

func TestIsRelevant(t *testing.T) {
	keywords := []string{"nasdaq", "qqq", "tech stocks"}

	assert.True(t, IsRelevant("Is the NASDAQ overbought?", keywords))
	assert.True(t, IsRelevant("buying more Tech Stocks today", keywords))
	assert.False(t, IsRelevant("my cat", keywords))
	assert.False(t, IsRelevant("", keywords))
}

func TestTickerMatcher_Extract(t *testing.T) {
	m := NewTickerMatcher([]string{"AAPL", "NVDA", "META", "^IXIC"})

	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{"dollar form", "Loaded up on $NVDA", []string{"NVDA"}},
		{"word form case-insensitive", "aapl and nvda both up", []string{"AAPL", "NVDA"}},
		{"no partial words", "metadata and snapple", nil},
		{"untracked dollar", "$GME to the moon", nil},
		{"dedupe", "$AAPL AAPL aapl", []string{"AAPL"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, m.Extract(tt.text))
		})
	}
}

func TestPostCollector_Collect(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(now)

	cfg := scoringconfig.Default()
	cfg.Social.Subreddits = []scoringconfig.SourceWeight{{Name: "stocks", Weight: 0.8}, {Name: "broken", Weight: 0.5}}
	cfg.Social.RelevanceKeywords = []string{"nasdaq"}

	old := now.Add(-time.Hour)
	reader := &fakeReader{
		posts: map[string][]contracts.Post{"stocks": {
			{ID: "keep", Subreddit: "stocks", Title: "Nasdaq outlook", Body: "**$NVDA** strong", Score: 50, CreatedAt: old},
			{ID: "sticky", Subreddit: "stocks", Title: "Nasdaq daily", Score: 500, CreatedAt: old, Stickied: true},
			{ID: "lowscore", Subreddit: "stocks", Title: "Nasdaq?", Score: 2, CreatedAt: old},
			{ID: "fresh", Subreddit: "stocks", Title: "Nasdaq now", Score: 100, CreatedAt: now.Add(-time.Minute)},
			{ID: "offtopic", Subreddit: "stocks", Title: "Dividend question", Score: 100, CreatedAt: old},
		}},
		comments: []contracts.Comment{
			{ID: "c1", Body: "agreed", Score: 10},
			{ID: "c2", Body: "nah", Score: 1},
		},
	}

	t.Run("without comments", func(t *testing.T) {
		c := NewPostCollector(reader, cfg, []string{"NVDA", "AAPL"}, false, clock, logger.Nop())
		posts, err := c.Collect(context.Background())
		require.NoError(t, err)
		require.Len(t, posts, 1)

		assert.Equal(t, "keep", posts[0].ID)
		assert.Equal(t, "$NVDA strong", posts[0].Body)
		assert.Equal(t, []string{"NVDA"}, posts[0].Tickers)
		assert.Empty(t, posts[0].Comments)
		assert.Equal(t, 0, reader.commentCalls)
	})

	t.Run("with comments", func(t *testing.T) {
		c := NewPostCollector(reader, cfg, []string{"NVDA"}, true, clock, logger.Nop())
		posts, err := c.Collect(context.Background())
		require.NoError(t, err)
		require.Len(t, posts, 1)
		require.Len(t, posts[0].Comments, 1, "comments below min score are dropped")
		assert.Equal(t, "c1", posts[0].Comments[0].ID)
	})
}
