package scoringconfig

import "github.com/c0ughman/nasdaqst/backend/internal/contracts"

// Config holds every scoring table and constant of a run.
// Built once at startup (defaults or YAML) and shared by pointer; never mutated.
type Config struct {
	Meta      Meta      `yaml:"meta" json:"meta"`
	Universe  Universe  `yaml:"universe" json:"universe"`
	News      News      `yaml:"news" json:"news"`
	Social    Social    `yaml:"social" json:"social"`
	Technical Technical `yaml:"technical" json:"technical"`
	Analyst   Analyst   `yaml:"analyst" json:"analyst"`
	Composite Composite `yaml:"composite" json:"composite"`
	Oracle    Oracle    `yaml:"oracle" json:"oracle"`
}

// Meta 메타 정보
type Meta struct {
	ConfigID string `yaml:"config_id" json:"config_id"`
	Version  string `yaml:"version" json:"version"`
}

// Universe S1: 추적 지수와 구성 종목
type Universe struct {
	Symbol  string         `yaml:"symbol" json:"symbol"` // e.g. ^IXIC
	Tickers []TickerWeight `yaml:"tickers" json:"tickers"`
}

// Symbols returns the configured tickers in order
func (u Universe) Symbols() []string {
	out := make([]string, len(u.Tickers))
	for i, t := range u.Tickers {
		out[i] = t.Symbol
	}
	return out
}

// TickerWeight is an approximate market-cap weight; renormalized at load
type TickerWeight struct {
	Symbol string  `yaml:"symbol" json:"symbol"`
	Name   string  `yaml:"name" json:"name"`
	Weight float64 `yaml:"weight" json:"weight"`
}

// KeywordWeight maps a case-folded phrase to a multiplier
type KeywordWeight struct {
	Phrase     string  `yaml:"phrase" json:"phrase"`
	Multiplier float64 `yaml:"multiplier" json:"multiplier"`
}

// SourceWeight maps a news source or subreddit to a credibility weight
type SourceWeight struct {
	Name   string  `yaml:"name" json:"name"`
	Weight float64 `yaml:"weight" json:"weight"`
}

// News S2: 기사 점수 테이블
type News struct {
	CompanyWeight        float64         `yaml:"company_weight" json:"company_weight"`
	MarketWeight         float64         `yaml:"market_weight" json:"market_weight"`
	ArticlesPerTicker    int             `yaml:"articles_per_ticker" json:"articles_per_ticker"`
	MarketArticlesLimit  int             `yaml:"market_articles_limit" json:"market_articles_limit"`
	LookbackHours        int             `yaml:"lookback_hours" json:"lookback_hours"`
	SurpriseKeywords     []KeywordWeight `yaml:"surprise_keywords" json:"surprise_keywords"` // multiplier >= 1
	ExpectedKeywords     []KeywordWeight `yaml:"expected_keywords" json:"expected_keywords"` // multiplier <= 1
	SourceCredibility    []SourceWeight  `yaml:"source_credibility" json:"source_credibility"`
	DefaultCredibility   float64         `yaml:"default_credibility" json:"default_credibility"`
	RecencyHalfLifeHours float64         `yaml:"recency_half_life_hours" json:"recency_half_life_hours"`
	RepeatNovelty        float64         `yaml:"repeat_novelty" json:"repeat_novelty"`
	MarketMovingKeywords []string        `yaml:"market_moving_keywords" json:"market_moving_keywords"`
	ExcludeKeywords      []string        `yaml:"exclude_keywords" json:"exclude_keywords"`
}

// Social S2: Reddit 점수 테이블
type Social struct {
	Subreddits         []SourceWeight `yaml:"subreddits" json:"subreddits"` // fetched in order, weight = credibility
	DefaultCredibility float64        `yaml:"default_credibility" json:"default_credibility"`
	RelevanceKeywords  []string       `yaml:"relevance_keywords" json:"relevance_keywords"`
	PostsPerSubreddit  int            `yaml:"posts_per_subreddit" json:"posts_per_subreddit"`
	CommentsPerPost    int            `yaml:"comments_per_post" json:"comments_per_post"`
	MinUpvotes         int            `yaml:"min_upvotes" json:"min_upvotes"`
	MinPostAgeMinutes  int            `yaml:"min_post_age_minutes" json:"min_post_age_minutes"`
	MinCommentScore    int            `yaml:"min_comment_score" json:"min_comment_score"`
	MaxPosts           int            `yaml:"max_posts" json:"max_posts"`
	MaxNovelty         float64        `yaml:"max_novelty" json:"max_novelty"`
}

// Technical S2: 기술 지표 기간
type Technical struct {
	IncludeOptional bool    `yaml:"include_optional" json:"include_optional"` // Stochastic, Williams %R, ATR
	RSIPeriod       int     `yaml:"rsi_period" json:"rsi_period"`
	MACDFast        int     `yaml:"macd_fast" json:"macd_fast"`
	MACDSlow        int     `yaml:"macd_slow" json:"macd_slow"`
	MACDSignal      int     `yaml:"macd_signal" json:"macd_signal"`
	BBPeriod        int     `yaml:"bb_period" json:"bb_period"`
	BBStdDev        float64 `yaml:"bb_std_dev" json:"bb_std_dev"`
	StochK          int     `yaml:"stoch_k" json:"stoch_k"`
	StochKSmooth    int     `yaml:"stoch_k_smooth" json:"stoch_k_smooth"`
	StochD          int     `yaml:"stoch_d" json:"stoch_d"`
	WilliamsPeriod  int     `yaml:"williams_period" json:"williams_period"`
	ATRPeriod       int     `yaml:"atr_period" json:"atr_period"`
}

// Analyst S2: 애널리스트 변경 감지
type Analyst struct {
	ChangeSampleSize int `yaml:"change_sample_size" json:"change_sample_size"`
}

// Composite S3: 드라이버 가중치와 라벨 임계값
type Composite struct {
	Weights            contracts.DriverWeights `yaml:"weights" json:"weights"`
	DashboardThreshold float64                 `yaml:"dashboard_threshold" json:"dashboard_threshold"` // ±30
	HistoryStrong      float64                 `yaml:"history_strong" json:"history_strong"`           // ±50
	HistoryMild        float64                 `yaml:"history_mild" json:"history_mild"`               // ±20
}

// Oracle 감성 분석 입력 제한
type Oracle struct {
	MaxTextLength int `yaml:"max_text_length" json:"max_text_length"`
}
