package s1_universe

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/c0ughman/nasdaqst/backend/internal/contracts"
	"github.com/c0ughman/nasdaqst/backend/internal/scoringconfig"
)

// Builder constructs the tracked universe from the scoring config
type Builder struct {
	tickers []scoringconfig.TickerWeight
	now     func() time.Time
}

// NewBuilder creates a new Universe Builder
func NewBuilder(cfg *scoringconfig.Config) *Builder {
	return &Builder{
		tickers: cfg.Universe.Tickers,
		now:     time.Now,
	}
}

// Build returns the universe with weights renormalized to sum to 1.0
// ⭐ SSOT: S1 → S2 유니버스 생성
func (b *Builder) Build(ctx context.Context) (*contracts.Universe, error) {
	tickers, err := Normalize(b.tickers)
	if err != nil {
		return nil, err
	}

	return &contracts.Universe{
		Date:    b.now().UTC(),
		Tickers: tickers,
	}, nil
}

// Normalize upper-cases symbols and divides every weight by the total
func Normalize(in []scoringconfig.TickerWeight) ([]contracts.Ticker, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("universe is empty")
	}

	total := 0.0
	for _, t := range in {
		if t.Weight <= 0 || math.IsNaN(t.Weight) || math.IsInf(t.Weight, 0) {
			return nil, fmt.Errorf("ticker %s: invalid weight %v", t.Symbol, t.Weight)
		}
		total += t.Weight
	}

	out := make([]contracts.Ticker, len(in))
	for i, t := range in {
		out[i] = contracts.Ticker{
			Symbol: strings.ToUpper(strings.TrimSpace(t.Symbol)),
			Name:   t.Name,
			Weight: t.Weight / total,
		}
	}

	return out, nil
}
