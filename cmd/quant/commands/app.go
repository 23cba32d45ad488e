package commands

import (
	"context"
	"fmt"

	"github.com/jonboulle/clockwork"

	"github.com/c0ughman/nasdaqst/backend/internal/brain"
	"github.com/c0ughman/nasdaqst/backend/internal/contracts"
	"github.com/c0ughman/nasdaqst/backend/internal/external/finnhub"
	"github.com/c0ughman/nasdaqst/backend/internal/external/huggingface"
	"github.com/c0ughman/nasdaqst/backend/internal/external/reddit"
	"github.com/c0ughman/nasdaqst/backend/internal/external/yahoo"
	"github.com/c0ughman/nasdaqst/backend/internal/s0_data"
	"github.com/c0ughman/nasdaqst/backend/internal/s1_universe"
	"github.com/c0ughman/nasdaqst/backend/internal/s2_signals"
	"github.com/c0ughman/nasdaqst/backend/internal/s3_composite"
	"github.com/c0ughman/nasdaqst/backend/internal/scoringconfig"
	"github.com/c0ughman/nasdaqst/backend/internal/sentiment"
	"github.com/c0ughman/nasdaqst/backend/pkg/config"
	"github.com/c0ughman/nasdaqst/backend/pkg/database"
	"github.com/c0ughman/nasdaqst/backend/pkg/httputil"
	"github.com/c0ughman/nasdaqst/backend/pkg/logger"
	"github.com/c0ughman/nasdaqst/backend/pkg/redis"
)

const keyPrefix = "nasdaqst"

// app holds the process-wide dependencies shared by every command
// ⭐ SSOT: 의존성 조립은 여기서만
type app struct {
	cfg     *config.Config
	scoring *scoringconfig.Config
	log     *logger.Logger
	clock   clockwork.Clock

	db    *database.DB  // nil in offline mode
	redis *redis.Client // disabled client in offline mode

	limiter *redis.RateLimiter
	store   contracts.SentimentStore
	runs    contracts.RunRepository // nil in offline mode
}

// newApp loads configuration and connects the stores.
// offline skips Postgres and Redis and keeps sentiments in memory (dry runs).
func newApp(offline bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	log := logger.New(cfg)

	scoring, err := scoringconfig.LoadOrDefault(cfg.Analysis.ScoringConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load scoring config: %w", err)
	}
	for _, w := range scoringconfig.Warn(scoring) {
		log.WithField("code", w.Code).Warn(w.Message)
	}

	a := &app{
		cfg:     cfg,
		scoring: scoring,
		log:     log,
		clock:   clockwork.NewRealClock(),
	}

	if offline {
		a.redis = &redis.Client{}
		a.limiter = redis.NewRateLimiter(a.redis, keyPrefix)
		a.store = sentiment.NewMemoryStore()
		log.Info("Offline mode: in-memory sentiment store, persistence disabled")
		return a, nil
	}

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	a.db = db

	rc, err := redis.New(cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	a.redis = rc
	a.limiter = redis.NewRateLimiter(rc, keyPrefix)

	primary := s0_data.NewSentimentRepository(db.Pool)
	if rc.Enabled() {
		front := sentiment.NewRedisStore(redis.NewCache(rc, keyPrefix))
		a.store = sentiment.NewTieredStore(front, primary, log)
	} else {
		a.store = primary
	}
	a.runs = s0_data.NewRunRepository(db.Pool)

	log.WithFields(map[string]interface{}{
		"redis":     rc.Enabled(),
		"oracle":    cfg.Oracle.Provider,
		"config_id": scoring.Meta.ConfigID,
	}).Info("Application initialized")

	return a, nil
}

func (a *app) close() {
	if a.redis != nil {
		a.redis.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}

// latestCache returns the latest-run cache, nil when Redis is off
func (a *app) latestCache() *redis.Cache {
	if a.redis == nil || !a.redis.Enabled() {
		return nil
	}
	return redis.NewCache(a.redis, keyPrefix)
}

// Health implements api.HealthChecker
func (a *app) Health(ctx context.Context) error {
	if a.db != nil {
		if err := a.db.Ping(ctx); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}
	if err := a.redis.Ping(ctx); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	return nil
}

// oracle builds the sentiment oracle chain: provider → retry → breaker
func (a *app) oracle() contracts.Oracle {
	var oracle contracts.Oracle
	switch a.cfg.Oracle.Provider {
	case "vader":
		oracle = sentiment.NewVaderOracle()
	default:
		hc := httputil.NewWithTimeout(a.log, a.cfg.HuggingFace.Timeout).
			DisableRetry().
			WithRateLimiter(a.limiter, redis.HuggingFaceRateLimit)
		hf := huggingface.NewClient(hc, a.cfg.HuggingFace, a.log)
		oracle = sentiment.NewRetryingOracle(hf, a.cfg.HuggingFace.RetryDelay, a.cfg.HuggingFace.MaxRetries, a.clock, a.log)
	}

	if a.cfg.Oracle.BreakerEnabled {
		oracle = sentiment.NewBreakerOracle(oracle, sentiment.DefaultBreakerConfig(), a.log)
	}
	return oracle
}

func (a *app) finnhub() *finnhub.Client {
	hc := httputil.New(a.log).WithRateLimiter(a.limiter, redis.FinnhubRateLimit)
	return finnhub.NewClient(hc, a.cfg.Finnhub, a.log)
}

// sentimentCache is the fingerprint cache shared by the article and post scorers
func (a *app) sentimentCache() *sentiment.Cache {
	return sentiment.NewCache(a.store, a.oracle(), a.log, a.scoring.Oracle.MaxTextLength)
}

// publisher may be nil
func (a *app) orchestrator(publisher brain.Publisher) (*brain.Orchestrator, error) {
	symbol := a.scoring.Universe.Symbol
	news := a.finnhub()
	yf := yahoo.NewClient(a.log)
	cache := a.sentimentCache()

	var recs contracts.RecommendationSource = news
	if a.cfg.Analysis.AnalystSource == "yahoo" {
		recs = yf
	}

	var posts contracts.PostCollector
	if a.cfg.Reddit.Enabled && a.cfg.Reddit.ClientID != "" {
		rc := reddit.NewClient(a.cfg.Reddit, a.limiter, a.log)
		posts = s0_data.NewPostCollector(rc, a.scoring, a.scoring.Universe.Symbols(), a.cfg.Reddit.CommentsEnabled, a.clock, a.log)
	} else {
		a.log.Info("Reddit disabled, social driver scores neutral")
	}

	articles := s2_signals.NewArticleScorer(cache, a.scoring, a.clock, a.log)
	postScorer := s2_signals.NewPostScorer(cache, a.scoring, a.clock, a.log)
	engine := s2_signals.NewTechnicalEngine(a.scoring, a.log)
	technical := s2_signals.NewTechnicalDriver(yf, engine, a.cfg.Analysis.TechnicalSymbols,
		a.cfg.Analysis.TechnicalPeriod, a.cfg.Analysis.TechnicalInterval, a.log)

	deps := brain.Deps{
		Config:       a.scoring,
		Symbol:       symbol,
		Universe:     s1_universe.NewBuilder(a.scoring),
		News:         s0_data.NewNewsCollector(news, a.scoring, a.clock, a.log).WithLookback(a.cfg.Finnhub.NewsLookback),
		Posts:        posts,
		NewsDriver:   s2_signals.NewNewsDriver(articles, a.scoring, a.log),
		SocialDriver: s2_signals.NewSocialDriver(postScorer, a.log),
		Technical:    technical,
		Analyst:      s2_signals.NewAnalystDriver(recs, s2_signals.NewAnalystAggregator(), a.log),
		Combiner:     s3_composite.NewCombiner(a.scoring, a.log),
		Continuity:   brain.NewContinuityPolicy(a.store, a.runs, symbol, a.log),
		Runs:         a.runs,
		Publisher:    publisher,
		LatestCache:  a.latestCache(),
		Clock:        a.clock,
		Logger:       a.log,
	}
	if n := a.scoring.Analyst.ChangeSampleSize; n > 0 {
		deps.ChangeDetector = func(u *contracts.Universe) s2_signals.ChangeDetector {
			return s2_signals.NewSampleChangeDetector(recs, u, n, a.log)
		}
	}

	return brain.NewOrchestrator(deps)
}
