package s0_data

import (
	"context"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/c0ughman/nasdaqst/backend/internal/contracts"
	"github.com/c0ughman/nasdaqst/backend/internal/scoringconfig"
	"github.com/c0ughman/nasdaqst/backend/pkg/logger"
)

// NewsBatch is the raw news of one run
type NewsBatch struct {
	Company map[string][]contracts.Article // ticker → newest articles, capped per ticker
	Market  []contracts.Article            // market-moving general news, capped
	Failed  int                            // tickers whose fetch failed
}

// All returns company and market articles in one slice
func (b *NewsBatch) All() []contracts.Article {
	var out []contracts.Article
	for _, articles := range b.Company {
		out = append(out, articles...)
	}
	return append(out, b.Market...)
}

// NewsCollector fetches company and market news for the universe
// ⭐ SSOT: 뉴스 수집은 여기서만
type NewsCollector struct {
	source   contracts.NewsSource
	cfg      *scoringconfig.Config
	lookback time.Duration
	clock    clockwork.Clock
	logger   *logger.Logger
}

// NewNewsCollector creates a collector. The lookback window defaults to
// news.lookback_hours.
func NewNewsCollector(source contracts.NewsSource, cfg *scoringconfig.Config, clock clockwork.Clock, log *logger.Logger) *NewsCollector {
	return &NewsCollector{
		source:   source,
		cfg:      cfg,
		lookback: time.Duration(cfg.News.LookbackHours) * time.Hour,
		clock:    clock,
		logger:   log.WithComponent("news_collector"),
	}
}

// WithLookback overrides the lookback window
func (c *NewsCollector) WithLookback(d time.Duration) *NewsCollector {
	if d > 0 {
		c.lookback = d
	}
	return c
}

// Collect fetches news for every ticker, then general market news.
// A failing ticker is logged and left empty.
func (c *NewsCollector) Collect(ctx context.Context, universe *contracts.Universe) (*NewsBatch, error) {
	now := c.clock.Now()
	from := now.Add(-c.lookback)

	batch := &NewsBatch{Company: make(map[string][]contracts.Article, universe.Count())}

	for _, t := range universe.Tickers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		articles, err := c.source.CompanyNews(ctx, t.Symbol, from, now)
		if err != nil {
			c.logger.WithTicker(t.Symbol).WithError(err).Warn("company news fetch failed")
			batch.Failed++
			batch.Company[t.Symbol] = nil
			continue
		}

		articles = cleanArticles(articles)
		for i := range articles {
			if articles[i].Ticker == "" {
				articles[i].Ticker = t.Symbol
			}
		}
		if n := c.cfg.News.ArticlesPerTicker; n > 0 && len(articles) > n {
			articles = articles[:n]
		}
		batch.Company[t.Symbol] = articles
	}

	general, err := c.source.GeneralNews(ctx)
	if err != nil {
		c.logger.WithError(err).Warn("general news fetch failed")
	} else {
		market := FilterMarketMoving(cleanArticles(general), c.cfg.News.MarketMovingKeywords, c.cfg.News.ExcludeKeywords)
		if n := c.cfg.News.MarketArticlesLimit; n > 0 && len(market) > n {
			market = market[:n]
		}
		batch.Market = market
	}

	c.logger.WithFields(map[string]interface{}{
		"tickers":         universe.Count(),
		"failed":          batch.Failed,
		"market_articles": len(batch.Market),
	}).Info("news collected")

	return batch, nil
}

// FilterMarketMoving keeps articles mentioning a market-moving keyword and
// no exclude keyword (opinion pieces etc.)
func FilterMarketMoving(articles []contracts.Article, include, exclude []string) []contracts.Article {
	var out []contracts.Article
	for _, a := range articles {
		text := strings.ToLower(a.Headline + " " + a.Summary)
		if containsAny(text, include) && !containsAny(text, exclude) {
			out = append(out, a)
		}
	}
	return out
}

func cleanArticles(in []contracts.Article) []contracts.Article {
	out := make([]contracts.Article, 0, len(in))
	for _, a := range in {
		a.Headline = strings.TrimSpace(a.Headline)
		a.Summary = PlainText(a.Summary)
		if a.Headline == "" {
			continue
		}
		out = append(out, a)
	}
	return out
}
