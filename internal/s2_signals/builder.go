package s2_signals

import (
	"context"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/c0ughman/nasdaqst/backend/internal/contracts"
	"github.com/c0ughman/nasdaqst/backend/internal/scoringconfig"
	"github.com/c0ughman/nasdaqst/backend/internal/sentiment"
	"github.com/c0ughman/nasdaqst/backend/pkg/logger"
)

// NewsResult is the news driver of one run
type NewsResult struct {
	Score         float64
	Breakdown     contracts.NewsBreakdown
	Contributions []contracts.TickerContribution
	Items         []contracts.ScoredItem
	Counts        contracts.RunCounts
}

// NewsDriver aggregates company and market articles into the news driver
// ⭐ SSOT: 뉴스 드라이버 집계는 여기서만
type NewsDriver struct {
	scorer *ArticleScorer
	news   scoringconfig.News
	logger *logger.Logger
}

// NewNewsDriver creates a news driver
func NewNewsDriver(scorer *ArticleScorer, cfg *scoringconfig.Config, log *logger.Logger) *NewsDriver {
	return &NewsDriver{
		scorer: scorer,
		news:   cfg.News,
		logger: log.WithComponent("news_driver"),
	}
}

// Build scores company articles (per universe ticker) and market articles in
// one oracle batch, then blends company×0.70 + market×0.30
func (d *NewsDriver) Build(ctx context.Context, session *Session, universe *contracts.Universe, company map[string][]contracts.Article, market []contracts.Article) *NewsResult {
	symbols := universe.Symbols()

	var articles []contracts.Article
	spans := make([]int, len(symbols))
	for i, symbol := range symbols {
		picked := capArticles(company[symbol], d.news.ArticlesPerTicker)
		spans[i] = len(picked)
		articles = append(articles, picked...)
	}
	companyN := len(articles)
	market = capArticles(market, d.news.MarketArticlesLimit)
	articles = append(articles, market...)

	items := d.scorer.ScoreArticles(ctx, session, articles)

	result := &NewsResult{Items: items, Counts: CountItems(items)}

	// 종목별 평균 × 시총 가중치
	// company는 저장되는 반올림 기여도의 합 (Σ contributions == company)
	offset := 0
	companyScore := 0.0
	for i, t := range universe.Tickers {
		tickerItems := items[offset : offset+spans[i]]
		offset += spans[i]

		tickerScore := round2(meanScore(tickerItems))
		contribution := round2(tickerScore * t.Weight)
		companyScore += contribution

		result.Contributions = append(result.Contributions, contracts.TickerContribution{
			Ticker:               t.Symbol,
			Sentiment:            tickerScore,
			MarketCapWeight:      t.Weight,
			WeightedContribution: contribution,
			ItemCount:            spans[i],
		})
	}
	companyScore = round2(clamp(companyScore, -100, 100))
	marketScore := clamp(meanScore(items[companyN:]), -100, 100)

	result.Score = round2(clamp(companyScore*d.news.CompanyWeight+marketScore*d.news.MarketWeight, -100, 100))
	result.Breakdown = contracts.NewsBreakdown{
		Company:          companyScore,
		Market:           round2(marketScore),
		ArticlesAnalyzed: companyN,
		MarketArticles:   len(market),
		Factors:          AverageFactors(items),
	}

	d.logger.WithFields(map[string]interface{}{
		"score":    result.Score,
		"company":  result.Breakdown.Company,
		"market":   result.Breakdown.Market,
		"articles": len(items),
		"cached":   result.Counts.Cached,
		"new":      result.Counts.New,
		"failed":   result.Counts.Failed,
	}).Info("News driver computed")

	return result
}

// SocialResult is the social driver of one run
type SocialResult struct {
	Score     float64
	Breakdown contracts.SocialBreakdown
	Items     []contracts.ScoredItem
	Counts    contracts.RunCounts
}

// SocialDriver aggregates scored Reddit content into the social driver
type SocialDriver struct {
	scorer *PostScorer
	logger *logger.Logger
}

// NewSocialDriver creates a social driver
func NewSocialDriver(scorer *PostScorer, log *logger.Logger) *SocialDriver {
	return &SocialDriver{
		scorer: scorer,
		logger: log.WithComponent("social_driver"),
	}
}

// Build scores posts and comments; the driver is the mean post score.
// Comments are reported separately and never move the driver.
func (d *SocialDriver) Build(ctx context.Context, session *Session, posts []contracts.Post) *SocialResult {
	batch := d.scorer.ScorePosts(ctx, session, posts)

	items := append(append([]contracts.ScoredItem{}, batch.Posts...), batch.Comments...)
	score := round2(clamp(meanScore(batch.Posts), -100, 100))

	result := &SocialResult{
		Score: score,
		Breakdown: contracts.SocialBreakdown{
			Score:            score,
			PostsAnalyzed:    len(batch.Posts),
			CommentsAnalyzed: len(batch.Comments),
			CommentScore:     round2(clamp(meanScore(batch.Comments), -100, 100)),
			Factors:          AverageFactors(batch.Posts),
		},
		Items:  items,
		Counts: CountItems(items),
	}

	d.logger.WithFields(map[string]interface{}{
		"score":    result.Score,
		"posts":    len(batch.Posts),
		"comments": len(batch.Comments),
	}).Info("Social driver computed")

	return result
}

// CandidateFingerprints returns the fingerprints a full run would score:
// the capped company articles per ticker, the capped market articles and
// the capped posts
func CandidateFingerprints(cfg *scoringconfig.Config, universe *contracts.Universe, company map[string][]contracts.Article, market []contracts.Article, posts []contracts.Post) []contracts.Fingerprint {
	var fps []contracts.Fingerprint
	for _, symbol := range universe.Symbols() {
		for _, a := range capArticles(company[symbol], cfg.News.ArticlesPerTicker) {
			fps = append(fps, sentiment.Fingerprint(a.Headline, a.Summary))
		}
	}
	for _, a := range capArticles(market, cfg.News.MarketArticlesLimit) {
		fps = append(fps, sentiment.Fingerprint(a.Headline, a.Summary))
	}
	if n := cfg.Social.MaxPosts; n > 0 && len(posts) > n {
		posts = posts[:n]
	}
	for _, p := range posts {
		fps = append(fps, sentiment.Fingerprint(p.Title, p.Body))
	}
	return fps
}

// CountItems tallies cache hits, new oracle scores and failures
func CountItems(items []contracts.ScoredItem) contracts.RunCounts {
	var c contracts.RunCounts
	for _, it := range items {
		switch {
		case it.Failed:
			c.Failed++
		case it.CacheHit:
			c.Cached++
		default:
			c.New++
		}
	}
	return c
}

// AverageFactors returns the mean of each item factor, zeros when empty
func AverageFactors(items []contracts.ScoredItem) contracts.FactorAverages {
	if len(items) == 0 {
		return contracts.FactorAverages{}
	}

	base := make([]float64, len(items))
	surprise := make([]float64, len(items))
	novelty := make([]float64, len(items))
	credibility := make([]float64, len(items))
	recency := make([]float64, len(items))
	for i, it := range items {
		base[i] = it.BaseSentiment
		surprise[i] = it.Surprise
		novelty[i] = it.Novelty
		credibility[i] = it.Credibility
		recency[i] = it.Recency
	}

	return contracts.FactorAverages{
		BaseSentiment: round4(stat.Mean(base, nil)),
		Surprise:      round4(stat.Mean(surprise, nil)),
		Novelty:       round4(stat.Mean(novelty, nil)),
		Credibility:   round4(stat.Mean(credibility, nil)),
		Recency:       round4(stat.Mean(recency, nil)),
	}
}

func meanScore(items []contracts.ScoredItem) float64 {
	if len(items) == 0 {
		return 0
	}
	scores := make([]float64, len(items))
	for i, it := range items {
		scores[i] = it.Score
	}
	return stat.Mean(scores, nil)
}

func capArticles(articles []contracts.Article, n int) []contracts.Article {
	if n > 0 && len(articles) > n {
		return articles[:n]
	}
	return articles
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
