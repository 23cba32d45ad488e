package scoringconfig

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ValidationError 검증 실패 (프로그램 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Warning 권장 위반 (경고만)
type Warning struct {
	Code    string
	Message string
}

// Validate checks all required constraints
// 실패 시 error 반환 (프로그램 중단)
func Validate(cfg *Config) error {
	// === Universe ===
	if cfg.Universe.Symbol == "" {
		return ValidationError{"universe.symbol", "required"}
	}
	if len(cfg.Universe.Tickers) == 0 {
		return ValidationError{"universe.tickers", "must not be empty"}
	}
	seen := make(map[string]bool, len(cfg.Universe.Tickers))
	for i, t := range cfg.Universe.Tickers {
		field := fmt.Sprintf("universe.tickers[%d]", i)
		if t.Symbol == "" {
			return ValidationError{field + ".symbol", "required"}
		}
		if seen[strings.ToUpper(t.Symbol)] {
			return ValidationError{field + ".symbol", fmt.Sprintf("duplicate symbol %s", t.Symbol)}
		}
		seen[strings.ToUpper(t.Symbol)] = true
		if t.Weight <= 0 {
			return ValidationError{field + ".weight", "must be > 0"}
		}
	}

	// === News ===
	if err := validateWeightsSum([]float64{cfg.News.CompanyWeight, cfg.News.MarketWeight}, 1.0, 1e-6); err != nil {
		return ValidationError{"news.company_weight+market_weight", err.Error()}
	}
	if cfg.News.ArticlesPerTicker <= 0 {
		return ValidationError{"news.articles_per_ticker", "must be > 0"}
	}
	if cfg.News.MarketArticlesLimit <= 0 {
		return ValidationError{"news.market_articles_limit", "must be > 0"}
	}
	if cfg.News.LookbackHours <= 0 {
		return ValidationError{"news.lookback_hours", "must be > 0"}
	}
	for i, k := range cfg.News.SurpriseKeywords {
		if k.Phrase == "" || k.Multiplier < 1 {
			return ValidationError{fmt.Sprintf("news.surprise_keywords[%d]", i), "phrase required and multiplier must be >= 1"}
		}
	}
	for i, k := range cfg.News.ExpectedKeywords {
		if k.Phrase == "" || k.Multiplier <= 0 || k.Multiplier > 1 {
			return ValidationError{fmt.Sprintf("news.expected_keywords[%d]", i), "phrase required and multiplier must be in (0, 1]"}
		}
	}
	if err := validateSourceWeights(cfg.News.SourceCredibility, "news.source_credibility"); err != nil {
		return err
	}
	if err := validatePctRange(cfg.News.DefaultCredibility, "news.default_credibility"); err != nil {
		return err
	}
	if cfg.News.RecencyHalfLifeHours <= 0 {
		return ValidationError{"news.recency_half_life_hours", "must be > 0"}
	}
	if err := validatePctRange(cfg.News.RepeatNovelty, "news.repeat_novelty"); err != nil {
		return err
	}

	// === Social ===
	if err := validateSourceWeights(cfg.Social.Subreddits, "social.subreddits"); err != nil {
		return err
	}
	if err := validatePctRange(cfg.Social.DefaultCredibility, "social.default_credibility"); err != nil {
		return err
	}
	if cfg.Social.PostsPerSubreddit <= 0 {
		return ValidationError{"social.posts_per_subreddit", "must be > 0"}
	}
	if cfg.Social.CommentsPerPost < 0 {
		return ValidationError{"social.comments_per_post", "must be >= 0"}
	}
	if cfg.Social.MaxPosts <= 0 {
		return ValidationError{"social.max_posts", "must be > 0"}
	}
	if cfg.Social.MaxNovelty < 1 {
		return ValidationError{"social.max_novelty", "must be >= 1"}
	}

	// === Technical ===
	periods := []struct {
		field string
		value int
	}{
		{"technical.rsi_period", cfg.Technical.RSIPeriod},
		{"technical.macd_fast", cfg.Technical.MACDFast},
		{"technical.macd_slow", cfg.Technical.MACDSlow},
		{"technical.macd_signal", cfg.Technical.MACDSignal},
		{"technical.bb_period", cfg.Technical.BBPeriod},
		{"technical.stoch_k", cfg.Technical.StochK},
		{"technical.stoch_k_smooth", cfg.Technical.StochKSmooth},
		{"technical.stoch_d", cfg.Technical.StochD},
		{"technical.williams_period", cfg.Technical.WilliamsPeriod},
		{"technical.atr_period", cfg.Technical.ATRPeriod},
	}
	for _, p := range periods {
		if p.value < 2 {
			return ValidationError{p.field, "must be >= 2"}
		}
	}
	if cfg.Technical.MACDFast >= cfg.Technical.MACDSlow {
		return ValidationError{"technical.macd", "macd_fast must be < macd_slow"}
	}
	if cfg.Technical.BBStdDev <= 0 {
		return ValidationError{"technical.bb_std_dev", "must be > 0"}
	}

	// === Analyst ===
	if cfg.Analyst.ChangeSampleSize <= 0 {
		return ValidationError{"analyst.change_sample_size", "must be > 0"}
	}

	// === Composite ===
	w := cfg.Composite.Weights
	for _, v := range []float64{w.News, w.Social, w.Technical, w.Analyst} {
		if v < 0 {
			return ValidationError{"composite.weights", "must be >= 0"}
		}
	}
	if err := validateWeightsSum([]float64{w.News, w.Social, w.Technical, w.Analyst}, 1.0, 1e-6); err != nil {
		return ValidationError{"composite.weights", err.Error()}
	}
	if cfg.Composite.DashboardThreshold <= 0 || cfg.Composite.DashboardThreshold >= 100 {
		return ValidationError{"composite.dashboard_threshold", "must be in (0, 100)"}
	}
	if cfg.Composite.HistoryMild <= 0 || cfg.Composite.HistoryMild >= cfg.Composite.HistoryStrong || cfg.Composite.HistoryStrong >= 100 {
		return ValidationError{"composite.history", "must satisfy 0 < history_mild < history_strong < 100"}
	}

	// === Oracle ===
	if cfg.Oracle.MaxTextLength <= 0 {
		return ValidationError{"oracle.max_text_length", "must be > 0"}
	}

	return nil
}

// Warn checks recommended constraints (non-fatal)
func Warn(cfg *Config) []Warning {
	var warnings []Warning

	if cfg.Oracle.MaxTextLength > 512 {
		warnings = append(warnings, Warning{
			Code:    "LONG_ORACLE_INPUT",
			Message: "max_text_length > 512: FinBERT truncates at 512 tokens",
		})
	}

	if len(cfg.Universe.Tickers) < cfg.Analyst.ChangeSampleSize {
		warnings = append(warnings, Warning{
			Code:    "SMALL_UNIVERSE",
			Message: "fewer tickers than analyst.change_sample_size: every ticker is sampled",
		})
	}

	if len(cfg.Social.RelevanceKeywords) == 0 {
		warnings = append(warnings, Warning{
			Code:    "NO_RELEVANCE_KEYWORDS",
			Message: "social.relevance_keywords empty: no post will be kept",
		})
	}

	return warnings
}

// === Helper Functions ===

func validateWeightsSum(weights []float64, target float64, epsilon float64) error {
	if len(weights) == 0 {
		return errors.New("must not be empty")
	}
	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	if math.Abs(sum-target) > epsilon {
		return fmt.Errorf("must sum to %.2f, got %.4f", target, sum)
	}
	return nil
}

// validatePctRange는 값이 0~1 범위인지 검증
func validatePctRange(pct float64, field string) error {
	if pct < 0 || pct > 1 {
		return ValidationError{field, "must be in range [0, 1]"}
	}
	return nil
}

func validateSourceWeights(sources []SourceWeight, field string) error {
	for i, s := range sources {
		if s.Name == "" {
			return ValidationError{fmt.Sprintf("%s[%d].name", field, i), "required"}
		}
		if err := validatePctRange(s.Weight, fmt.Sprintf("%s[%d].weight", field, i)); err != nil {
			return err
		}
	}
	return nil
}
