package s0_data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/c0ughman/nasdaqst/backend/internal/contracts"
)

// SentimentRepository implements contracts.SentimentStore on sentiment.items
// ⭐ SSOT: 감성 점수 영속화는 여기서만
type SentimentRepository struct {
	pool *pgxpool.Pool
}

// NewSentimentRepository creates a new sentiment repository
func NewSentimentRepository(pool *pgxpool.Pool) *SentimentRepository {
	return &SentimentRepository{pool: pool}
}

// Get returns the stored entry of a fingerprint
func (r *SentimentRepository) Get(ctx context.Context, fp contracts.Fingerprint) (contracts.SentimentEntry, bool, error) {
	query := `
		SELECT polarity, analyzed, kind, updated_at
		FROM sentiment.items
		WHERE fingerprint = $1
	`

	var (
		e    contracts.SentimentEntry
		kind string
	)
	err := r.pool.QueryRow(ctx, query, string(fp)).Scan(&e.Polarity, &e.Analyzed, &kind, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return contracts.SentimentEntry{}, false, nil
	}
	if err != nil {
		return contracts.SentimentEntry{}, false, fmt.Errorf("get sentiment %s: %w", fp, err)
	}
	e.Kind = contracts.ItemKind(kind)

	return e, true, nil
}

// Upsert writes a polarity; repeating it for the same fingerprint is harmless
func (r *SentimentRepository) Upsert(ctx context.Context, fp contracts.Fingerprint, entry contracts.SentimentEntry) error {
	query := `
		INSERT INTO sentiment.items (fingerprint, kind, polarity, analyzed, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (fingerprint) DO UPDATE SET
			polarity = EXCLUDED.polarity,
			analyzed = EXCLUDED.analyzed,
			kind = EXCLUDED.kind,
			updated_at = NOW()
	`

	kind := string(entry.Kind)
	if kind == "" {
		kind = string(contracts.KindArticle)
	}

	if _, err := r.pool.Exec(ctx, query, string(fp), kind, entry.Polarity, entry.Analyzed); err != nil {
		return fmt.Errorf("upsert sentiment %s: %w", fp, err)
	}
	return nil
}

// Known returns the subset of fps that have an analyzed entry
func (r *SentimentRepository) Known(ctx context.Context, fps []contracts.Fingerprint) (map[contracts.Fingerprint]bool, error) {
	known := make(map[contracts.Fingerprint]bool, len(fps))
	if len(fps) == 0 {
		return known, nil
	}

	keys := make([]string, len(fps))
	for i, fp := range fps {
		keys[i] = string(fp)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT fingerprint FROM sentiment.items
		WHERE analyzed AND fingerprint = ANY($1)
	`, keys)
	if err != nil {
		return nil, fmt.Errorf("query known fingerprints: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var fp string
		if err := rows.Scan(&fp); err != nil {
			return nil, fmt.Errorf("scan fingerprint: %w", err)
		}
		known[contracts.Fingerprint(fp)] = true
	}

	return known, rows.Err()
}

// Prune deletes entries last written before cutoff and returns how many were removed
func (r *SentimentRepository) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sentiment.items WHERE updated_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune sentiment: %w", err)
	}
	return tag.RowsAffected(), nil
}
