package sentiment

import (
	"context"

	"github.com/jonreiter/govader"
)

// VaderOracle scores text locally with VADER's compound polarity.
// Used offline and when no HuggingFace key is configured.
type VaderOracle struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVaderOracle builds the analyzer (loads the lexicon once)
func NewVaderOracle() *VaderOracle {
	return &VaderOracle{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (v *VaderOracle) Score(ctx context.Context, text string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return v.analyzer.PolarityScores(text).Compound, nil
}

func (v *VaderOracle) ScoreBatch(ctx context.Context, texts []string) ([]float64, error) {
	out := make([]float64, len(texts))
	for i, text := range texts {
		p, err := v.Score(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}
