package s2_signals

import (
	"context"

	"github.com/jonboulle/clockwork"

	"github.com/c0ughman/nasdaqst/backend/internal/contracts"
	"github.com/c0ughman/nasdaqst/backend/internal/scoringconfig"
	"github.com/c0ughman/nasdaqst/backend/internal/sentiment"
	"github.com/c0ughman/nasdaqst/backend/pkg/logger"
	"github.com/c0ughman/nasdaqst/backend/pkg/metrics"
)

// PostBatch is the scored social content of one run
type PostBatch struct {
	Posts    []contracts.ScoredItem
	Comments []contracts.ScoredItem
}

// PostScorer turns Reddit posts (and optionally their comments) into ScoredItems
// ⭐ SSOT: Reddit 점수 계산은 여기서만
type PostScorer struct {
	cache  *sentiment.Cache
	social scoringconfig.Social
	clock  clockwork.Clock
	logger *logger.Logger
}

// NewPostScorer creates a new post scorer
func NewPostScorer(cache *sentiment.Cache, cfg *scoringconfig.Config, clock clockwork.Clock, log *logger.Logger) *PostScorer {
	return &PostScorer{
		cache:  cache,
		social: cfg.Social,
		clock:  clock,
		logger: log.WithComponent("post_scorer"),
	}
}

// ScorePosts scores at most social.max_posts posts and any comments attached
// to them. Posts and comments share one oracle batch.
func (s *PostScorer) ScorePosts(ctx context.Context, session *Session, posts []contracts.Post) PostBatch {
	if n := s.social.MaxPosts; n > 0 && len(posts) > n {
		posts = posts[:n]
	}
	if len(posts) == 0 {
		return PostBatch{}
	}

	type commentRef struct {
		post    int
		comment contracts.Comment
	}

	var (
		reqs     []sentiment.Request
		comments []commentRef
	)
	for _, p := range posts {
		reqs = append(reqs, sentiment.Request{
			Fingerprint: sentiment.Fingerprint(p.Title, p.Body),
			Kind:        contracts.KindPost,
			Text:        p.Title + " " + p.Body,
		})
	}
	for i, p := range posts {
		for _, c := range p.Comments {
			comments = append(comments, commentRef{post: i, comment: c})
			reqs = append(reqs, sentiment.Request{
				Fingerprint: sentiment.Fingerprint(c.Body, ""),
				Kind:        contracts.KindComment,
				Text:        c.Body,
			})
		}
	}

	results := s.cache.ScoreBatch(ctx, reqs)
	now := s.clock.Now()

	batch := PostBatch{Posts: make([]contracts.ScoredItem, len(posts))}
	for i, p := range posts {
		base := results[i].Polarity
		fp := reqs[i].Fingerprint
		session.Novelty(fp, 0) // mark seen; engagement drives post novelty

		surprise := PostSurprise(base, p.Score)
		novelty := PostNovelty(p.Score, p.NumComments, s.social.MaxNovelty)
		credibility := SubredditCredibility(p.Subreddit, s.social.Subreddits, s.social.DefaultCredibility)
		recency := PostRecency(p.CreatedAt, now)

		batch.Posts[i] = contracts.ScoredItem{
			Fingerprint:   fp,
			Kind:          contracts.KindPost,
			Text:          reqs[i].Text,
			Source:        "r/" + p.Subreddit,
			PublishedAt:   p.CreatedAt,
			BaseSentiment: base,
			Surprise:      surprise,
			Novelty:       novelty,
			Credibility:   credibility,
			Recency:       recency,
			Score:         PostScore(base, surprise, novelty, credibility, recency),
			CacheHit:      results[i].CacheHit,
			Failed:        results[i].Failed,
		}
	}

	for j, ref := range comments {
		r := results[len(posts)+j]
		post := posts[ref.post]
		batch.Comments = append(batch.Comments, contracts.ScoredItem{
			Fingerprint:   reqs[len(posts)+j].Fingerprint,
			Kind:          contracts.KindComment,
			Text:          ref.comment.Body,
			Source:        "r/" + post.Subreddit,
			PublishedAt:   ref.comment.CreatedAt,
			BaseSentiment: r.Polarity,
			Score:         CommentScore(r.Polarity, ref.comment.Score),
			CacheHit:      r.CacheHit,
			Failed:        r.Failed,
		})
	}

	metrics.ItemsScored.WithLabelValues(string(contracts.KindPost)).Add(float64(len(batch.Posts)))
	metrics.ItemsScored.WithLabelValues(string(contracts.KindComment)).Add(float64(len(batch.Comments)))

	return batch
}
