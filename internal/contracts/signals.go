package contracts

import (
	"time"

	"github.com/google/uuid"
)

// Fingerprint is the 32-char hex digest identifying a piece of content
type Fingerprint string

// ItemKind distinguishes scored content
type ItemKind string

const (
	KindArticle ItemKind = "article"
	KindPost    ItemKind = "post"
	KindComment ItemKind = "comment"
)

// ScoredItem is one article or post after factor scoring
// ⭐ SSOT: S2 아이템 점수
type ScoredItem struct {
	Fingerprint   Fingerprint `json:"fingerprint"`
	Kind          ItemKind    `json:"kind"`
	Ticker        string      `json:"ticker,omitempty"`
	Text          string      `json:"text"`
	Source        string      `json:"source"`
	PublishedAt   time.Time   `json:"published_at"`
	BaseSentiment float64     `json:"base_sentiment"` // -1.0 ~ 1.0
	Surprise      float64     `json:"surprise"`
	Novelty       float64     `json:"novelty"`
	Credibility   float64     `json:"credibility"`
	Recency       float64     `json:"recency"`
	Score         float64     `json:"score"` // -100 ~ 100
	CacheHit      bool        `json:"cache_hit"`
	Failed        bool        `json:"failed,omitempty"` // oracle gave up, base is neutral
}

// FactorAverages are per-run means of the item factors
type FactorAverages struct {
	BaseSentiment float64 `json:"base_sentiment"`
	Surprise      float64 `json:"surprise"`
	Novelty       float64 `json:"novelty"`
	Credibility   float64 `json:"credibility"`
	Recency       float64 `json:"recency"`
}

// DriverScores holds the four top-level drivers (-100 ~ 100)
type DriverScores struct {
	News      float64 `json:"news"`
	Social    float64 `json:"social"`
	Technical float64 `json:"technical"`
	Analyst   float64 `json:"analyst"`
}

// Indicators are technical indicator values; nil means unavailable
type Indicators struct {
	RSI           *float64 `json:"rsi"`
	MACD          *float64 `json:"macd"`
	MACDSignal    *float64 `json:"macd_signal"`
	MACDHistogram *float64 `json:"macd_histogram"`
	BBUpper       *float64 `json:"bb_upper"`
	BBMiddle      *float64 `json:"bb_middle"`
	BBLower       *float64 `json:"bb_lower"`
	SMA20         *float64 `json:"sma_20"`
	SMA50         *float64 `json:"sma_50"`
	EMA9          *float64 `json:"ema_9"`
	EMA20         *float64 `json:"ema_20"`
	StochK        *float64 `json:"stoch_k"`
	StochD        *float64 `json:"stoch_d"`
	WilliamsR     *float64 `json:"williams_r"`
	ATR           *float64 `json:"atr"`
}

// NewsBreakdown details the news driver
type NewsBreakdown struct {
	Company          float64        `json:"company"`
	Market           float64        `json:"market"`
	ArticlesAnalyzed int            `json:"articles_analyzed"`
	MarketArticles   int            `json:"market_articles"`
	Factors          FactorAverages `json:"factors"`
}

// SocialBreakdown details the social driver
type SocialBreakdown struct {
	Score            float64        `json:"score"`
	PostsAnalyzed    int            `json:"posts_analyzed"`
	CommentsAnalyzed int            `json:"comments_analyzed"`
	CommentScore     float64        `json:"comment_score"`
	Factors          FactorAverages `json:"factors"`
}

// AnalystBreakdown details the analyst driver
type AnalystBreakdown struct {
	Score          float64 `json:"score"`
	StrongBuy      int     `json:"strong_buy"`
	Buy            int     `json:"buy"`
	Hold           int     `json:"hold"`
	Sell           int     `json:"sell"`
	StrongSell     int     `json:"strong_sell"`
	Total          int     `json:"total"`
	StocksAnalyzed int     `json:"stocks_analyzed"`
	Reused         bool    `json:"reused"`
}

// RunCounts are operability counters of one run
type RunCounts struct {
	Cached  int `json:"cached"`
	New     int `json:"new"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// Add merges counters
func (c RunCounts) Add(o RunCounts) RunCounts {
	return RunCounts{
		Cached:  c.Cached + o.Cached,
		New:     c.New + o.New,
		Failed:  c.Failed + o.Failed,
		Skipped: c.Skipped + o.Skipped,
	}
}

// TickerContribution is one ticker's share of the company news component
type TickerContribution struct {
	RunID                uuid.UUID `json:"run_id,omitempty"`
	Ticker               string    `json:"ticker"`
	Sentiment            float64   `json:"sentiment"`
	MarketCapWeight      float64   `json:"market_cap_weight"`
	WeightedContribution float64   `json:"weighted_contribution"`
	ItemCount            int       `json:"item_count"`
	CreatedAt            time.Time `json:"created_at,omitempty"`
}
