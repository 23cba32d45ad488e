package brain

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/c0ughman/nasdaqst/backend/internal/contracts"
	"github.com/c0ughman/nasdaqst/backend/internal/s0_data"
	"github.com/c0ughman/nasdaqst/backend/internal/s1_universe"
	"github.com/c0ughman/nasdaqst/backend/internal/s2_signals"
	"github.com/c0ughman/nasdaqst/backend/internal/s3_composite"
	"github.com/c0ughman/nasdaqst/backend/internal/scoringconfig"
	"github.com/c0ughman/nasdaqst/backend/pkg/logger"
	"github.com/c0ughman/nasdaqst/backend/pkg/metrics"
	"github.com/c0ughman/nasdaqst/backend/pkg/redis"
)

// NewsCollector fetches the raw news of one run
type NewsCollector interface {
	Collect(ctx context.Context, universe *contracts.Universe) (*s0_data.NewsBatch, error)
}

// Publisher receives every persisted result (websocket hub)
type Publisher interface {
	Publish(result *contracts.CompositeResult)
}

// ChangeDetectorFactory builds an analyst change detector for the run's universe
type ChangeDetectorFactory func(universe *contracts.Universe) s2_signals.ChangeDetector

// Deps wires the orchestrator. Posts, ChangeDetector, Runs, Publisher and
// LatestCache are optional.
type Deps struct {
	Config         *scoringconfig.Config
	Symbol         string // composite symbol, e.g. ^IXIC
	Universe       *s1_universe.Builder
	News           NewsCollector
	Posts          contracts.PostCollector
	NewsDriver     *s2_signals.NewsDriver
	SocialDriver   *s2_signals.SocialDriver
	Technical      *s2_signals.TechnicalDriver
	Analyst        *s2_signals.AnalystDriver
	ChangeDetector ChangeDetectorFactory
	Combiner       *s3_composite.Combiner
	Continuity     *ContinuityPolicy
	Runs           contracts.RunRepository
	Publisher      Publisher
	LatestCache    *redis.Cache
	Clock          clockwork.Clock
	Logger         *logger.Logger
}

// Orchestrator coordinates one composite run
// S0 → S1 → S2 → S3 → S4
// ⭐ SSOT: 파이프라인 조율은 여기서만
type Orchestrator struct {
	deps       Deps
	configHash string
	logger     *logger.Logger
}

// RunConfig holds options of one run
type RunConfig struct {
	RunID  uuid.UUID // zero value → generated
	DryRun bool      // skip persistence
	Force  bool      // bypass continuity
}

// RunResult holds the outcome of one run
type RunResult struct {
	Result          *contracts.CompositeResult
	Contributions   []contracts.TickerContribution
	Items           []contracts.ScoredItem // freshly scored news and social items; nil on reuse
	Decision        Decision
	CompletedStages []contracts.Stage
	Persisted       bool
	Duration        time.Duration
}

// NewOrchestrator creates a new orchestrator
func NewOrchestrator(deps Deps) (*Orchestrator, error) {
	if deps.Config == nil {
		return nil, fmt.Errorf("orchestrator: scoring config is required")
	}
	hash, err := scoringconfig.Hash(deps.Config)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}

	return &Orchestrator{
		deps:       deps,
		configHash: hash,
		logger:     deps.Logger.WithComponent("orchestrator"),
	}, nil
}

// Run executes one analysis run. A run either persists completely or not at all.
func (o *Orchestrator) Run(ctx context.Context, cfg RunConfig) (*RunResult, error) {
	start := o.deps.Clock.Now()
	if cfg.RunID == uuid.Nil {
		cfg.RunID = uuid.New()
	}
	log := o.logger.WithRun(cfg.RunID.String())

	log.WithFields(map[string]interface{}{
		"symbol":  o.deps.Symbol,
		"dry_run": cfg.DryRun,
		"force":   cfg.Force,
	}).Info("Starting composite run")

	out := &RunResult{}
	mode := "full"
	fail := func(stage contracts.Stage, err error) (*RunResult, error) {
		metrics.RunsTotal.WithLabelValues(mode, "error").Inc()
		log.WithField("stage", stage.String()).WithError(err).Error("Composite run failed")
		return out, fmt.Errorf("%s: %w", stage.ShortName(), err)
	}

	// S1: Universe
	universe, err := o.deps.Universe.Build(ctx)
	if err != nil {
		return fail(contracts.StageUniverse, err)
	}
	out.CompletedStages = append(out.CompletedStages, contracts.StageUniverse)

	// S0: Collect
	news, err := o.deps.News.Collect(ctx, universe)
	if err != nil {
		return fail(contracts.StageCollect, err)
	}
	var posts []contracts.Post
	if o.deps.Posts != nil {
		posts, err = o.deps.Posts.Collect(ctx)
		if err != nil {
			// Reddit 실패는 치명적이지 않음
			log.WithError(err).Warn("Post collection failed, continuing without social")
			posts = nil
		}
	}
	out.CompletedStages = append(out.CompletedStages, contracts.StageCollect)

	// Continuity
	fps := s2_signals.CandidateFingerprints(o.deps.Config, universe, news.Company, news.Market, posts)
	decision, err := o.deps.Continuity.Decide(ctx, fps)
	if err != nil {
		return fail(contracts.StageSignals, err)
	}
	if cfg.Force {
		decision.Reuse = false
	}
	out.Decision = decision
	if decision.Reuse {
		mode = "reused"
	}

	result := &contracts.CompositeResult{
		ID:         cfg.RunID,
		Symbol:     o.deps.Symbol,
		Timestamp:  o.deps.Clock.Now().UTC(),
		Reused:     decision.Reuse,
		ConfigHash: o.configHash,
	}

	// S2: Signals
	var drivers contracts.DriverScores
	if decision.Reuse {
		contributions, err := o.reuseText(ctx, decision.Previous, result)
		if err != nil {
			return fail(contracts.StageSignals, err)
		}
		out.Contributions = contributions
		drivers.News = decision.Previous.Drivers.News
		drivers.Social = decision.Previous.Drivers.Social
		result.Counts = contracts.RunCounts{Cached: decision.Total}
	} else {
		session := s2_signals.NewSession()

		newsRes := o.deps.NewsDriver.Build(ctx, session, universe, news.Company, news.Market)
		socialRes := o.deps.SocialDriver.Build(ctx, session, posts)

		drivers.News = newsRes.Score
		drivers.Social = socialRes.Score
		result.News = newsRes.Breakdown
		result.Social = socialRes.Breakdown
		result.Counts = newsRes.Counts.Add(socialRes.Counts)
		result.Counts.Skipped = news.Failed
		out.Contributions = newsRes.Contributions
		out.Items = append(append([]contracts.ScoredItem{}, newsRes.Items...), socialRes.Items...)
	}

	technical, err := o.deps.Technical.Build(ctx)
	if err != nil {
		log.WithError(err).Warn("Technical driver unavailable, scoring as neutral")
	} else {
		drivers.Technical = technical.Score
		result.Indicators = technical.Indicators
		result.Price = technical.Price
	}

	analyst, err := o.analyst(ctx, universe, decision.Previous)
	if err != nil {
		return fail(contracts.StageSignals, err)
	}
	drivers.Analyst = analyst.Score
	result.Analyst = analyst
	out.CompletedStages = append(out.CompletedStages, contracts.StageSignals)

	// S3: Composite
	o.deps.Combiner.Combine(drivers, result)
	out.CompletedStages = append(out.CompletedStages, contracts.StageComposite)

	for i := range out.Contributions {
		out.Contributions[i].RunID = result.ID
		out.Contributions[i].CreatedAt = result.Timestamp
	}
	out.Result = result

	// S4: Persist
	if !cfg.DryRun && o.deps.Runs != nil {
		if err := o.deps.Runs.Save(ctx, result, out.Contributions); err != nil {
			return fail(contracts.StagePersist, err)
		}
		out.Persisted = true
		out.CompletedStages = append(out.CompletedStages, contracts.StagePersist)
		o.saveItems(ctx, log, result.ID, out.Items)
		o.afterSave(ctx, log, result)
	}

	out.Duration = o.deps.Clock.Since(start)
	metrics.RunsTotal.WithLabelValues(mode, "success").Inc()
	metrics.RunDuration.WithLabelValues(mode).Observe(out.Duration.Seconds())
	recordScores(result)

	log.WithFields(map[string]interface{}{
		"composite": result.Score,
		"label":     result.Label,
		"reused":    result.Reused,
		"cached":    result.Counts.Cached,
		"new":       result.Counts.New,
		"failed":    result.Counts.Failed,
		"duration":  out.Duration.Seconds(),
	}).Info("Composite run completed")

	return out, nil
}

// reuseText copies the text drivers of previous into result and returns
// its ticker contributions
func (o *Orchestrator) reuseText(ctx context.Context, previous *contracts.CompositeResult, result *contracts.CompositeResult) ([]contracts.TickerContribution, error) {
	result.News = previous.News
	result.Social = previous.Social

	if o.deps.Runs == nil {
		return nil, nil
	}
	contributions, err := o.deps.Runs.Contributions(ctx, previous.ID)
	if err != nil {
		return nil, fmt.Errorf("previous contributions: %w", err)
	}
	return contributions, nil
}

// analyst refreshes the analyst driver unless the change detector says the
// previous breakdown is still current
func (o *Orchestrator) analyst(ctx context.Context, universe *contracts.Universe, previous *contracts.CompositeResult) (contracts.AnalystBreakdown, error) {
	if previous != nil && o.deps.ChangeDetector != nil {
		detector := o.deps.ChangeDetector(universe)
		changed, err := detector.HasChanged(ctx, &previous.Analyst)
		if err != nil {
			o.logger.WithError(err).Warn("Analyst change check failed, refreshing")
		}
		if err == nil && !changed {
			reused := previous.Analyst
			reused.Reused = true
			return reused, nil
		}
	}

	if o.deps.Analyst == nil {
		return contracts.AnalystBreakdown{}, nil
	}
	return o.deps.Analyst.Build(ctx, universe)
}

// saveItems stores the per-item factors of a saved run.
// A failure is logged and never fails the run.
func (o *Orchestrator) saveItems(ctx context.Context, log *logger.Logger, runID uuid.UUID, items []contracts.ScoredItem) {
	if len(items) == 0 {
		return
	}
	if err := o.deps.Runs.SaveItems(ctx, runID, items); err != nil {
		log.WithError(err).WithField("items", len(items)).Warn("Failed to save scored items, continuing")
		return
	}
	log.WithField("items", len(items)).Debug("Scored items saved")
}

// afterSave refreshes the latest-run cache and notifies subscribers.
// Neither can fail the run.
func (o *Orchestrator) afterSave(ctx context.Context, log *logger.Logger, result *contracts.CompositeResult) {
	if o.deps.LatestCache != nil {
		if err := o.deps.LatestCache.Set(ctx, redis.LatestRunKey(result.Symbol), result, redis.TTLLatestRun); err != nil {
			log.WithError(err).Warn("Failed to cache latest run")
		}
	}
	if o.deps.Publisher != nil {
		o.deps.Publisher.Publish(result)
	}
}

func recordScores(r *contracts.CompositeResult) {
	metrics.LastScore.WithLabelValues("composite").Set(r.Score)
	metrics.LastScore.WithLabelValues("news").Set(r.Drivers.News)
	metrics.LastScore.WithLabelValues("social").Set(r.Drivers.Social)
	metrics.LastScore.WithLabelValues("technical").Set(r.Drivers.Technical)
	metrics.LastScore.WithLabelValues("analyst").Set(r.Drivers.Analyst)
}
