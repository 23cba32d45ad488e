package finnhub

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/c0ughman/nasdaqst/backend/internal/contracts"
	"github.com/c0ughman/nasdaqst/backend/pkg/config"
	"github.com/c0ughman/nasdaqst/backend/pkg/httputil"
	"github.com/c0ughman/nasdaqst/backend/pkg/logger"
)

// Client handles communication with the Finnhub REST API
// ⭐ SSOT: Finnhub API 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	limiter    *rate.Limiter
}

// NewClient creates a new Finnhub client. Calls are paced one per RequestDelay.
func NewClient(httpClient *httputil.Client, cfg config.FinnhubConfig, log *logger.Logger) *Client {
	limit := rate.Inf
	if cfg.RequestDelay > 0 {
		limit = rate.Every(cfg.RequestDelay)
	}

	return &Client{
		httpClient: httpClient.WithHeader("X-Finnhub-Token", cfg.APIKey),
		logger:     log.WithComponent("finnhub"),
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		limiter:    rate.NewLimiter(limit, 1),
	}
}

// newsItem is one element of /company-news and /news
type newsItem struct {
	Category string `json:"category"`
	Datetime int64  `json:"datetime"` // unix seconds
	Headline string `json:"headline"`
	ID       int64  `json:"id"`
	Related  string `json:"related"`
	Source   string `json:"source"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
}

// recommendationItem is one period of /stock/recommendation (newest first)
type recommendationItem struct {
	Symbol     string `json:"symbol"`
	Period     string `json:"period"`
	StrongBuy  int    `json:"strongBuy"`
	Buy        int    `json:"buy"`
	Hold       int    `json:"hold"`
	Sell       int    `json:"sell"`
	StrongSell int    `json:"strongSell"`
}

// CompanyNews returns news for a ticker between from and to (dates, inclusive)
func (c *Client) CompanyNews(ctx context.Context, ticker string, from, to time.Time) ([]contracts.Article, error) {
	params := url.Values{}
	params.Set("symbol", ticker)
	params.Set("from", from.Format("2006-01-02"))
	params.Set("to", to.Format("2006-01-02"))

	var items []newsItem
	if err := c.get(ctx, "/company-news", params, &items); err != nil {
		return nil, fmt.Errorf("company news %s: %w", ticker, err)
	}

	return toArticles(ticker, items), nil
}

// GeneralNews returns the latest general market news
func (c *Client) GeneralNews(ctx context.Context) ([]contracts.Article, error) {
	params := url.Values{}
	params.Set("category", "general")

	var items []newsItem
	if err := c.get(ctx, "/news", params, &items); err != nil {
		return nil, fmt.Errorf("general news: %w", err)
	}

	return toArticles("", items), nil
}

// Recommendation returns the newest recommendation trend, nil when none exists
func (c *Client) Recommendation(ctx context.Context, ticker string) (*contracts.Recommendation, error) {
	params := url.Values{}
	params.Set("symbol", ticker)

	var items []recommendationItem
	if err := c.get(ctx, "/stock/recommendation", params, &items); err != nil {
		return nil, fmt.Errorf("recommendation %s: %w", ticker, err)
	}
	if len(items) == 0 {
		return nil, nil
	}

	latest := items[0]
	return &contracts.Recommendation{
		Ticker:     ticker,
		Period:     latest.Period,
		StrongBuy:  latest.StrongBuy,
		Buy:        latest.Buy,
		Hold:       latest.Hold,
		Sell:       latest.Sell,
		StrongSell: latest.StrongSell,
	}, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, dest interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	fullURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())
	return c.httpClient.GetJSON(ctx, fullURL, dest)
}

func toArticles(ticker string, items []newsItem) []contracts.Article {
	articles := make([]contracts.Article, 0, len(items))
	for _, it := range items {
		if it.Headline == "" {
			continue
		}
		articles = append(articles, contracts.Article{
			Ticker:      ticker,
			Headline:    it.Headline,
			Summary:     it.Summary,
			Source:      it.Source,
			URL:         it.URL,
			Category:    it.Category,
			PublishedAt: time.Unix(it.Datetime, 0).UTC(),
		})
	}
	return articles
}
