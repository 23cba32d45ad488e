package brain

import (
	"context"
	"errors"
	"fmt"

	"github.com/c0ughman/nasdaqst/backend/internal/contracts"
	"github.com/c0ughman/nasdaqst/backend/pkg/logger"
)

// Decision is the outcome of the continuity check
type Decision struct {
	Reuse    bool                       // skip text scoring, copy news/social from Previous
	Previous *contracts.CompositeResult // latest run, nil on an empty history
	NewItems int                        // fingerprints missing from the store
	Total    int
}

// ContinuityPolicy decides whether a run can reuse the previous text drivers
// ⭐ SSOT: 재사용 여부 결정은 여기서만
type ContinuityPolicy struct {
	store  contracts.SentimentStore
	runs   contracts.RunRepository
	symbol string
	logger *logger.Logger
}

// NewContinuityPolicy creates a policy. runs may be nil (dry runs), which
// always forces a full run.
func NewContinuityPolicy(store contracts.SentimentStore, runs contracts.RunRepository, symbol string, log *logger.Logger) *ContinuityPolicy {
	return &ContinuityPolicy{
		store:  store,
		runs:   runs,
		symbol: symbol,
		logger: log.WithComponent("continuity"),
	}
}

// Decide reuses the previous run only when it exists and every candidate
// fingerprint is already known
func (p *ContinuityPolicy) Decide(ctx context.Context, fps []contracts.Fingerprint) (Decision, error) {
	d := Decision{Total: len(fps)}

	if p.runs == nil {
		d.NewItems = len(fps)
		return d, nil
	}

	previous, err := p.runs.Latest(ctx, p.symbol)
	if errors.Is(err, contracts.ErrNoPreviousRun) {
		d.NewItems = len(fps)
		p.logger.Info("No previous run, forcing full analysis")
		return d, nil
	}
	if err != nil {
		return d, fmt.Errorf("latest run: %w", err)
	}
	d.Previous = previous

	known, err := p.store.Known(ctx, fps)
	if err != nil {
		return d, fmt.Errorf("known fingerprints: %w", err)
	}

	seen := make(map[contracts.Fingerprint]struct{}, len(fps))
	for _, fp := range fps {
		if _, dup := seen[fp]; dup {
			continue
		}
		seen[fp] = struct{}{}
		if !known[fp] {
			d.NewItems++
		}
	}
	d.Reuse = d.NewItems == 0

	p.logger.WithFields(map[string]interface{}{
		"candidates":  len(fps),
		"new_items":   d.NewItems,
		"reuse":       d.Reuse,
		"previous_id": previous.ID.String(),
	}).Info("Continuity decided")

	return d, nil
}
