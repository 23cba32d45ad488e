package s0_data

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/c0ughman/nasdaqst/backend/internal/contracts"
	"github.com/c0ughman/nasdaqst/backend/internal/scoringconfig"
	"github.com/c0ughman/nasdaqst/backend/pkg/logger"
)

// SubredditReader is the Reddit listing API (external/reddit.Client)
type SubredditReader interface {
	Hot(ctx context.Context, subreddit string, limit int) ([]contracts.Post, error)
	Comments(ctx context.Context, subreddit, postID string, limit int) ([]contracts.Comment, error)
}

// PostCollector fetches relevant Reddit posts. It implements contracts.PostCollector.
// ⭐ SSOT: Reddit 수집 필터는 여기서만
type PostCollector struct {
	reader   SubredditReader
	social   scoringconfig.Social
	matcher  *TickerMatcher
	comments bool
	clock    clockwork.Clock
	logger   *logger.Logger
}

// NewPostCollector creates a collector; symbols are the tickers to extract
func NewPostCollector(reader SubredditReader, cfg *scoringconfig.Config, symbols []string, withComments bool, clock clockwork.Clock, log *logger.Logger) *PostCollector {
	return &PostCollector{
		reader:   reader,
		social:   cfg.Social,
		matcher:  NewTickerMatcher(symbols),
		comments: withComments,
		clock:    clock,
		logger:   log.WithComponent("post_collector"),
	}
}

// Collect walks the configured subreddits in order and returns relevant posts.
// A failing subreddit is logged and skipped.
func (c *PostCollector) Collect(ctx context.Context) ([]contracts.Post, error) {
	now := c.clock.Now()
	minAge := time.Duration(c.social.MinPostAgeMinutes) * time.Minute

	var (
		relevant []contracts.Post
		fetched  int
	)

	for _, sub := range c.social.Subreddits {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		posts, err := c.reader.Hot(ctx, sub.Name, c.social.PostsPerSubreddit)
		if err != nil {
			c.logger.WithField("subreddit", sub.Name).WithError(err).Warn("subreddit fetch failed")
			continue
		}
		fetched += len(posts)

		for _, p := range posts {
			if p.Stickied || p.Score < c.social.MinUpvotes || now.Sub(p.CreatedAt) < minAge {
				continue
			}

			p.Body = PlainText(p.Body)
			full := p.Title + " " + p.Body
			if !IsRelevant(full, c.social.RelevanceKeywords) {
				continue
			}
			p.Tickers = c.matcher.Extract(full)

			if c.comments && c.social.CommentsPerPost > 0 {
				p.Comments = c.fetchComments(ctx, p)
			}

			relevant = append(relevant, p)
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"subreddits": len(c.social.Subreddits),
		"fetched":    fetched,
		"relevant":   len(relevant),
	}).Info("reddit posts collected")

	return relevant, nil
}

func (c *PostCollector) fetchComments(ctx context.Context, p contracts.Post) []contracts.Comment {
	comments, err := c.reader.Comments(ctx, p.Subreddit, p.ID, c.social.CommentsPerPost)
	if err != nil {
		c.logger.WithField("post_id", p.ID).WithError(err).Warn("comment fetch failed")
		return nil
	}

	out := comments[:0]
	for _, cm := range comments {
		if cm.Score < c.social.MinCommentScore {
			continue
		}
		cm.Body = PlainText(cm.Body)
		if cm.Body == "" {
			continue
		}
		out = append(out, cm)
	}
	return out
}

// IsRelevant reports whether text contains any relevance keyword (case-insensitive)
func IsRelevant(text string, keywords []string) bool {
	if text == "" {
		return false
	}
	return containsAny(strings.ToLower(text), keywords)
}

// TickerMatcher finds tracked symbols written as $TICKER or as a standalone word
type TickerMatcher struct {
	tracked map[string]bool
	words   map[string]*regexp.Regexp
}

var dollarTicker = regexp.MustCompile(`\$([A-Z]{1,5})\b`)

// NewTickerMatcher compiles one word-boundary pattern per symbol
func NewTickerMatcher(symbols []string) *TickerMatcher {
	m := &TickerMatcher{
		tracked: make(map[string]bool, len(symbols)),
		words:   make(map[string]*regexp.Regexp, len(symbols)),
	}
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" || strings.HasPrefix(s, "^") {
			continue
		}
		m.tracked[s] = true
		m.words[s] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(s) + `\b`)
	}
	return m
}

// Extract returns the sorted set of tracked symbols mentioned in text
func (m *TickerMatcher) Extract(text string) []string {
	if text == "" {
		return nil
	}

	found := make(map[string]bool)
	for _, match := range dollarTicker.FindAllStringSubmatch(text, -1) {
		if m.tracked[match[1]] {
			found[match[1]] = true
		}
	}
	for sym, re := range m.words {
		if !found[sym] && re.MatchString(text) {
			found[sym] = true
		}
	}

	if len(found) == 0 {
		return nil
	}
	out := make([]string, 0, len(found))
	for sym := range found {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}
