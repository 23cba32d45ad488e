package s3_composite

import (
	"math"

	"github.com/c0ughman/nasdaqst/backend/internal/contracts"
	"github.com/c0ughman/nasdaqst/backend/internal/scoringconfig"
	"github.com/c0ughman/nasdaqst/backend/pkg/logger"
)

// Combiner implements S3: weighted blend of the four drivers
// ⭐ SSOT: 종합 점수와 라벨 결정은 여기서만
type Combiner struct {
	weights            contracts.DriverWeights
	dashboardThreshold float64
	historyStrong      float64
	historyMild        float64
	logger             *logger.Logger
}

// NewCombiner creates a combiner from the composite section of the config
func NewCombiner(cfg *scoringconfig.Config, log *logger.Logger) *Combiner {
	return &Combiner{
		weights:            cfg.Composite.Weights,
		dashboardThreshold: cfg.Composite.DashboardThreshold,
		historyStrong:      cfg.Composite.HistoryStrong,
		historyMild:        cfg.Composite.HistoryMild,
		logger:             log.WithComponent("combiner"),
	}
}

// Weights returns the blend weights
func (c *Combiner) Weights() contracts.DriverWeights {
	return c.weights
}

// Combine fills Score, Label, HistoryLabel, Drivers and Weights of result
func (c *Combiner) Combine(drivers contracts.DriverScores, result *contracts.CompositeResult) {
	score := Blend(drivers, c.weights)

	result.Drivers = drivers
	result.Weights = c.weights
	result.Score = score
	result.Label = DashboardLabel(score, c.dashboardThreshold)
	result.HistoryLabel = HistoryLabel(score, c.historyStrong, c.historyMild)

	c.logger.WithFields(map[string]interface{}{
		"news":      drivers.News,
		"social":    drivers.Social,
		"technical": drivers.Technical,
		"analyst":   drivers.Analyst,
		"composite": score,
		"label":     result.Label,
	}).Info("Composite computed")
}

// Blend returns Σ(driver × weight) clamped to [-100, 100] and rounded to 2 decimals
func Blend(d contracts.DriverScores, w contracts.DriverWeights) float64 {
	score := d.News*w.News +
		d.Social*w.Social +
		d.Technical*w.Technical +
		d.Analyst*w.Analyst

	if math.IsNaN(score) {
		return 0
	}
	score = math.Max(-100, math.Min(100, score))
	return math.Round(score*100) / 100
}

// DashboardLabel is the three-level label: strictly above +threshold is
// BULLISH, strictly below -threshold is BEARISH
func DashboardLabel(score, threshold float64) contracts.Label {
	switch {
	case score > threshold:
		return contracts.LabelBullish
	case score < -threshold:
		return contracts.LabelBearish
	default:
		return contracts.LabelNeutral
	}
}

// HistoryLabel is the five-level label stored with each run
func HistoryLabel(score, strong, mild float64) contracts.Label {
	switch {
	case score > strong:
		return contracts.LabelStronglyBullish
	case score > mild:
		return contracts.LabelBullish
	case score > -mild:
		return contracts.LabelNeutral
	case score > -strong:
		return contracts.LabelBearish
	default:
		return contracts.LabelStronglyBearish
	}
}
