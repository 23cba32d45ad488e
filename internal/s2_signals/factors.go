package s2_signals

import (
	"math"
	"strings"
	"time"

	"github.com/c0ughman/nasdaqst/backend/internal/scoringconfig"
)

// Item factor functions. All pure; tables come from scoringconfig.

// SurpriseFactor scans lowered text: the highest matching surprise multiplier
// (default 1.0), then the lowest matching expected multiplier caps it.
func SurpriseFactor(text string, surprise, expected []scoringconfig.KeywordWeight) float64 {
	lowered := strings.ToLower(text)

	multiplier := 1.0
	for _, kw := range surprise {
		if strings.Contains(lowered, strings.ToLower(kw.Phrase)) {
			multiplier = math.Max(multiplier, kw.Multiplier)
		}
	}
	for _, kw := range expected {
		if strings.Contains(lowered, strings.ToLower(kw.Phrase)) {
			multiplier = math.Min(multiplier, kw.Multiplier)
		}
	}
	return multiplier
}

// SourceCredibility returns the weight of the longest table entry contained
// in source (case-insensitive), or def
func SourceCredibility(source string, table []scoringconfig.SourceWeight, def float64) float64 {
	lowered := strings.ToLower(source)

	best, bestLen := def, 0
	for _, sw := range table {
		name := strings.ToLower(sw.Name)
		if name != "" && len(name) > bestLen && strings.Contains(lowered, name) {
			best, bestLen = sw.Weight, len(name)
		}
	}
	return best
}

// RecencyWeight is 2^(-hours/halfLife) clamped to [0, 1].
// Future timestamps give 1.0; a zero timestamp gives 0.5.
func RecencyWeight(published, now time.Time, halfLifeHours float64) float64 {
	if published.IsZero() {
		return 0.5
	}
	if halfLifeHours <= 0 {
		halfLifeHours = 6
	}

	hours := now.Sub(published).Hours()
	return clamp(math.Pow(2, -hours/halfLifeHours), 0, 1)
}

// ArticleScore is the additive item formula, already on the ±100 scale
func ArticleScore(base, surprise, novelty, credibility, recency float64) float64 {
	score := base*40 +
		(surprise-1)*12.5 +
		novelty*4.5 +
		credibility*2 +
		recency*2
	return clamp(score, -100, 100)
}

// PostNovelty maps engagement (score, comment count) to [1.0, max]
func PostNovelty(score, numComments int, max float64) float64 {
	var scoreFactor float64
	switch {
	case score > 1000:
		scoreFactor = 2.5
	case score > 500:
		scoreFactor = 2.0
	case score > 100:
		scoreFactor = 1.5
	case score > 50:
		scoreFactor = 1.2
	default:
		scoreFactor = 1.0
	}

	var commentFactor float64
	switch {
	case numComments > 500:
		commentFactor = 1.3
	case numComments > 100:
		commentFactor = 1.2
	case numComments > 50:
		commentFactor = 1.1
	default:
		commentFactor = 1.0
	}

	if max <= 0 {
		max = 3.0
	}
	return math.Min(scoreFactor*commentFactor, max)
}

// SubredditCredibility matches the subreddit name exactly (case-insensitive)
func SubredditCredibility(subreddit string, table []scoringconfig.SourceWeight, def float64) float64 {
	for _, sw := range table {
		if strings.EqualFold(sw.Name, subreddit) {
			return sw.Weight
		}
	}
	return def
}

// PostRecency buckets post age in hours
func PostRecency(created, now time.Time) float64 {
	hours := now.Sub(created).Hours()
	switch {
	case hours < 1:
		return 1.0
	case hours < 6:
		return 0.9
	case hours < 12:
		return 0.7
	case hours < 24:
		return 0.5
	default:
		return 0.3
	}
}

// PostSurprise rewards strong sentiment on high-engagement posts
func PostSurprise(base float64, score int) float64 {
	strength := math.Abs(base)
	switch {
	case strength > 0.8 && score > 500:
		return 2.0
	case strength > 0.6 && score > 100:
		return 1.5
	case strength > 0.4:
		return 1.2
	default:
		return 1.0
	}
}

// PostScore is the multiplicative post formula clamped to ±100
func PostScore(base, surprise, novelty, credibility, recency float64) float64 {
	return clamp(base*100*surprise*novelty*credibility*recency, -100, 100)
}

// CommentScore weights a comment polarity by its upvotes (at most 11x)
func CommentScore(base float64, score int) float64 {
	weight := 1 + math.Min(float64(score)/100, 10)
	return clamp(base*weight, -100, 100)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(lo, math.Min(hi, v))
}

// round2 rounds to two decimals
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
