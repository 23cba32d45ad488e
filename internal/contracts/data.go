package contracts

import "time"

// Raw inputs handed from S0 collectors to the scorers
// ⭐ SSOT: S0 → S2 원본 데이터 전달

// Article is one news item (company or general market news)
type Article struct {
	Ticker      string    `json:"ticker,omitempty"` // empty for general market news
	Headline    string    `json:"headline"`
	Summary     string    `json:"summary"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
	Category    string    `json:"category,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

// Post is one Reddit submission
type Post struct {
	ID          string    `json:"id"`
	Subreddit   string    `json:"subreddit"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	Author      string    `json:"author"`
	URL         string    `json:"url"`
	Score       int       `json:"score"`
	NumComments int       `json:"num_comments"`
	CreatedAt   time.Time `json:"created_at"`
	Stickied    bool      `json:"stickied"`
	Tickers     []string  `json:"tickers,omitempty"` // mentioned tracked symbols
	Comments    []Comment `json:"comments,omitempty"`
}

// Comment is one top-level Reddit comment
type Comment struct {
	ID        string    `json:"id"`
	Body      string    `json:"body"`
	Author    string    `json:"author"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// Candle is one OHLCV bar
type Candle struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// Recommendation is the latest analyst recommendation trend for a ticker
type Recommendation struct {
	Ticker     string `json:"ticker"`
	Period     string `json:"period"`
	StrongBuy  int    `json:"strong_buy"`
	Buy        int    `json:"buy"`
	Hold       int    `json:"hold"`
	Sell       int    `json:"sell"`
	StrongSell int    `json:"strong_sell"`
}

// Total returns the number of recommendations across all buckets
func (r Recommendation) Total() int {
	return r.StrongBuy + r.Buy + r.Hold + r.Sell + r.StrongSell
}

// PriceSnapshot is the index price at run time
type PriceSnapshot struct {
	Symbol        string    `json:"symbol"`
	Price         float64   `json:"price"`
	Open          float64   `json:"open"`
	High          float64   `json:"high"`
	Low           float64   `json:"low"`
	ChangePercent float64   `json:"change_percent"`
	Volume        int64     `json:"volume"`
	AsOf          time.Time `json:"as_of"`
}
