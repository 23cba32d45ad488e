package sentiment

import (
	"context"

	"github.com/c0ughman/nasdaqst/backend/internal/contracts"
	"github.com/c0ughman/nasdaqst/backend/pkg/logger"
)

// TieredStore puts a fast read-through cache (Redis) in front of the
// authoritative store (Postgres). Cache failures are logged and bypassed.
type TieredStore struct {
	front   contracts.SentimentStore
	primary contracts.SentimentStore
	logger  *logger.Logger
}

// NewTieredStore creates a tiered store
func NewTieredStore(front, primary contracts.SentimentStore, log *logger.Logger) *TieredStore {
	return &TieredStore{
		front:   front,
		primary: primary,
		logger:  log.WithComponent("tiered_store"),
	}
}

func (t *TieredStore) Get(ctx context.Context, fp contracts.Fingerprint) (contracts.SentimentEntry, bool, error) {
	entry, ok, err := t.front.Get(ctx, fp)
	if err != nil {
		t.logger.WithError(err).Debug("front store get failed")
	}
	if ok {
		return entry, true, nil
	}

	entry, ok, err = t.primary.Get(ctx, fp)
	if err != nil || !ok {
		return entry, ok, err
	}

	// warm the front tier
	if err := t.front.Upsert(ctx, fp, entry); err != nil {
		t.logger.WithError(err).Debug("front store warm failed")
	}
	return entry, true, nil
}

func (t *TieredStore) Upsert(ctx context.Context, fp contracts.Fingerprint, entry contracts.SentimentEntry) error {
	if err := t.primary.Upsert(ctx, fp, entry); err != nil {
		return err
	}
	if err := t.front.Upsert(ctx, fp, entry); err != nil {
		t.logger.WithError(err).Warn("front store upsert failed")
	}
	return nil
}

func (t *TieredStore) Known(ctx context.Context, fps []contracts.Fingerprint) (map[contracts.Fingerprint]bool, error) {
	known, err := t.front.Known(ctx, fps)
	if err != nil {
		t.logger.WithError(err).Debug("front store known failed")
		known = make(map[contracts.Fingerprint]bool)
	}

	var rest []contracts.Fingerprint
	for _, fp := range fps {
		if !known[fp] {
			rest = append(rest, fp)
		}
	}
	if len(rest) == 0 {
		return known, nil
	}

	more, err := t.primary.Known(ctx, rest)
	if err != nil {
		return nil, err
	}
	for fp := range more {
		known[fp] = true
	}
	return known, nil
}
