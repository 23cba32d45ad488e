package contracts

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ⭐ SSOT: Repository 인터페이스 정의는 여기서만

// ErrNoPreviousRun is returned by RunRepository.Latest on an empty history
var ErrNoPreviousRun = errors.New("no previous run")

// ErrRunNotFound is returned by RunRepository.Get for an unknown id
var ErrRunNotFound = errors.New("run not found")

// SentimentEntry is the persisted polarity of one fingerprint
type SentimentEntry struct {
	Polarity  float64   `json:"polarity"`
	Analyzed  bool      `json:"analyzed"`
	Kind      ItemKind  `json:"kind,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SentimentStore persists polarities keyed by fingerprint. Upsert is idempotent.
type SentimentStore interface {
	Get(ctx context.Context, fp Fingerprint) (SentimentEntry, bool, error)
	Upsert(ctx context.Context, fp Fingerprint, entry SentimentEntry) error
	// Known reports which fingerprints already have an analyzed entry
	Known(ctx context.Context, fps []Fingerprint) (map[Fingerprint]bool, error)
}

// RunRepository is the append-only run history
type RunRepository interface {
	// Save writes the result and its contributions in one transaction
	Save(ctx context.Context, result *CompositeResult, contributions []TickerContribution) error
	Latest(ctx context.Context, symbol string) (*CompositeResult, error)
	Get(ctx context.Context, id uuid.UUID) (*CompositeResult, error)
	Contributions(ctx context.Context, runID uuid.UUID) ([]TickerContribution, error)
	List(ctx context.Context, symbol string, from, to time.Time, limit int) ([]*CompositeResult, error)
	TickerHistory(ctx context.Context, ticker string, from, to time.Time) ([]TickerContribution, error)
	// SaveItems stores the scored items of a saved run, in scoring order
	SaveItems(ctx context.Context, runID uuid.UUID, items []ScoredItem) error
	Items(ctx context.Context, runID uuid.UUID) ([]ScoredItem, error)
}
