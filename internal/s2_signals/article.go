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

// ArticleScorer turns news articles into ScoredItems
// ⭐ SSOT: 기사 점수 계산은 여기서만
type ArticleScorer struct {
	cache  *sentiment.Cache
	news   scoringconfig.News
	clock  clockwork.Clock
	logger *logger.Logger
}

// NewArticleScorer creates a new article scorer
func NewArticleScorer(cache *sentiment.Cache, cfg *scoringconfig.Config, clock clockwork.Clock, log *logger.Logger) *ArticleScorer {
	return &ArticleScorer{
		cache:  cache,
		news:   cfg.News,
		clock:  clock,
		logger: log.WithComponent("article_scorer"),
	}
}

// ScoreArticles scores articles in input order with one oracle batch for
// every uncached fingerprint
func (s *ArticleScorer) ScoreArticles(ctx context.Context, session *Session, articles []contracts.Article) []contracts.ScoredItem {
	if len(articles) == 0 {
		return nil
	}

	reqs := make([]sentiment.Request, len(articles))
	for i, a := range articles {
		reqs[i] = sentiment.Request{
			Fingerprint: sentiment.Fingerprint(a.Headline, a.Summary),
			Kind:        contracts.KindArticle,
			Text:        a.Headline + ". " + a.Summary,
		}
	}

	results := s.cache.ScoreBatch(ctx, reqs)
	now := s.clock.Now()

	items := make([]contracts.ScoredItem, len(articles))
	for i, a := range articles {
		fp := reqs[i].Fingerprint
		base := results[i].Polarity

		surprise := SurpriseFactor(a.Headline+" "+a.Summary, s.news.SurpriseKeywords, s.news.ExpectedKeywords)
		novelty := session.Novelty(fp, s.news.RepeatNovelty)
		credibility := SourceCredibility(a.Source, s.news.SourceCredibility, s.news.DefaultCredibility)
		recency := RecencyWeight(a.PublishedAt, now, s.news.RecencyHalfLifeHours)

		items[i] = contracts.ScoredItem{
			Fingerprint:   fp,
			Kind:          contracts.KindArticle,
			Ticker:        a.Ticker,
			Text:          reqs[i].Text,
			Source:        a.Source,
			PublishedAt:   a.PublishedAt,
			BaseSentiment: base,
			Surprise:      surprise,
			Novelty:       novelty,
			Credibility:   credibility,
			Recency:       recency,
			Score:         ArticleScore(base, surprise, novelty, credibility, recency),
			CacheHit:      results[i].CacheHit,
			Failed:        results[i].Failed,
		}
	}

	metrics.ItemsScored.WithLabelValues(string(contracts.KindArticle)).Add(float64(len(items)))
	return items
}
