package s0_data

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/c0ughman/nasdaqst/backend/internal/contracts"
	"github.com/c0ughman/nasdaqst/backend/pkg/database"
)

var (
	// ErrNoPreviousRun is returned by Latest when no run exists for the symbol
	ErrNoPreviousRun = contracts.ErrNoPreviousRun
	// ErrRunNotFound is returned by Get for an unknown id
	ErrRunNotFound = contracts.ErrRunNotFound
)

// RunRepository implements contracts.RunRepository (append-only)
// ⭐ SSOT: 분석 결과 저장소는 여기서만
type RunRepository struct {
	pool *pgxpool.Pool
}

// NewRunRepository creates a new run repository
func NewRunRepository(pool *pgxpool.Pool) *RunRepository {
	return &RunRepository{pool: pool}
}

const runColumns = `
	id, symbol, created_at, composite_score, label, history_label,
	news_score, social_score, technical_score, analyst_score,
	reused, config_hash, price, indicators, news, social, analyst, counts, weights
`

// Save writes the run row and its contributions in one transaction
func (r *RunRepository) Save(ctx context.Context, result *contracts.CompositeResult, contributions []contracts.TickerContribution) error {
	docs, err := marshalRunDocs(result)
	if err != nil {
		return err
	}

	return database.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO sentiment.runs (`+runColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		`,
			result.ID, result.Symbol, result.Timestamp, result.Score,
			string(result.Label), string(result.HistoryLabel),
			result.Drivers.News, result.Drivers.Social, result.Drivers.Technical, result.Drivers.Analyst,
			result.Reused, result.ConfigHash,
			docs[0], docs[1], docs[2], docs[3], docs[4], docs[5], docs[6],
		)
		if err != nil {
			return fmt.Errorf("insert run: %w", err)
		}

		if len(contributions) == 0 {
			return nil
		}

		batch := &pgx.Batch{}
		for _, c := range contributions {
			batch.Queue(`
				INSERT INTO sentiment.ticker_contributions
					(run_id, ticker, sentiment, market_cap_weight, weighted_contribution, item_count, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			`, result.ID, c.Ticker, c.Sentiment, c.MarketCapWeight, c.WeightedContribution, c.ItemCount, result.Timestamp)
		}

		br := tx.SendBatch(ctx, batch)
		for range contributions {
			if _, err := br.Exec(); err != nil {
				br.Close()
				return fmt.Errorf("insert contribution: %w", err)
			}
		}
		return br.Close()
	})
}

// Latest returns the newest run of symbol
func (r *RunRepository) Latest(ctx context.Context, symbol string) (*contracts.CompositeResult, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+runColumns+`
		FROM sentiment.runs
		WHERE symbol = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, symbol)

	result, err := scanRun(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoPreviousRun
	}
	if err != nil {
		return nil, fmt.Errorf("latest run: %w", err)
	}
	return result, nil
}

// Get returns one run by id
func (r *RunRepository) Get(ctx context.Context, id uuid.UUID) (*contracts.CompositeResult, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+runColumns+` FROM sentiment.runs WHERE id = $1`, id)

	result, err := scanRun(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}
	return result, nil
}

// Contributions returns the ticker rows of a run, largest weight first
func (r *RunRepository) Contributions(ctx context.Context, runID uuid.UUID) ([]contracts.TickerContribution, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT run_id, ticker, sentiment, market_cap_weight, weighted_contribution, item_count, created_at
		FROM sentiment.ticker_contributions
		WHERE run_id = $1
		ORDER BY market_cap_weight DESC, ticker
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query contributions: %w", err)
	}
	return collectContributions(rows)
}

const itemColumns = `
	fingerprint, kind, ticker, source, text, published_at,
	base_sentiment, surprise, novelty, credibility, recency, score, cache_hit, failed
`

// SaveItems writes the scored items of a run in one transaction.
// The run row must exist.
func (r *RunRepository) SaveItems(ctx context.Context, runID uuid.UUID, items []contracts.ScoredItem) error {
	if len(items) == 0 {
		return nil
	}

	return database.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for i, it := range items {
			var published *time.Time
			if !it.PublishedAt.IsZero() {
				ts := it.PublishedAt.UTC()
				published = &ts
			}
			batch.Queue(`
				INSERT INTO sentiment.scored_items (run_id, position, `+itemColumns+`)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
			`,
				runID, i, string(it.Fingerprint), string(it.Kind), it.Ticker, it.Source, it.Text, published,
				it.BaseSentiment, it.Surprise, it.Novelty, it.Credibility, it.Recency, it.Score,
				it.CacheHit, it.Failed,
			)
		}

		br := tx.SendBatch(ctx, batch)
		for range items {
			if _, err := br.Exec(); err != nil {
				br.Close()
				return fmt.Errorf("insert scored item: %w", err)
			}
		}
		return br.Close()
	})
}

// Items returns the scored items of a run in scoring order
func (r *RunRepository) Items(ctx context.Context, runID uuid.UUID) ([]contracts.ScoredItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+itemColumns+`
		FROM sentiment.scored_items
		WHERE run_id = $1
		ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query scored items: %w", err)
	}
	defer rows.Close()

	var out []contracts.ScoredItem
	for rows.Next() {
		var (
			it        contracts.ScoredItem
			fp, kind  string
			published *time.Time
		)
		if err := rows.Scan(&fp, &kind, &it.Ticker, &it.Source, &it.Text, &published,
			&it.BaseSentiment, &it.Surprise, &it.Novelty, &it.Credibility, &it.Recency, &it.Score,
			&it.CacheHit, &it.Failed); err != nil {
			return nil, fmt.Errorf("scan scored item: %w", err)
		}
		it.Fingerprint = contracts.Fingerprint(fp)
		it.Kind = contracts.ItemKind(kind)
		if published != nil {
			it.PublishedAt = published.UTC()
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// List returns runs of symbol in [from, to], newest first
func (r *RunRepository) List(ctx context.Context, symbol string, from, to time.Time, limit int) ([]*contracts.CompositeResult, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+runColumns+`
		FROM sentiment.runs
		WHERE symbol = $1 AND created_at BETWEEN $2 AND $3
		ORDER BY created_at DESC
		LIMIT $4
	`, symbol, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var results []*contracts.CompositeResult
	for rows.Next() {
		result, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

// TickerHistory returns one ticker's contributions in [from, to], oldest first
func (r *RunRepository) TickerHistory(ctx context.Context, ticker string, from, to time.Time) ([]contracts.TickerContribution, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT run_id, ticker, sentiment, market_cap_weight, weighted_contribution, item_count, created_at
		FROM sentiment.ticker_contributions
		WHERE ticker = $1 AND created_at BETWEEN $2 AND $3
		ORDER BY created_at ASC
	`, ticker, from, to)
	if err != nil {
		return nil, fmt.Errorf("query ticker history: %w", err)
	}
	return collectContributions(rows)
}

func collectContributions(rows pgx.Rows) ([]contracts.TickerContribution, error) {
	defer rows.Close()

	var out []contracts.TickerContribution
	for rows.Next() {
		var c contracts.TickerContribution
		if err := rows.Scan(&c.RunID, &c.Ticker, &c.Sentiment, &c.MarketCapWeight,
			&c.WeightedContribution, &c.ItemCount, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan contribution: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// marshalRunDocs encodes the JSONB columns in runColumns order
func marshalRunDocs(r *contracts.CompositeResult) ([7][]byte, error) {
	var docs [7][]byte
	values := []interface{}{r.Price, r.Indicators, r.News, r.Social, r.Analyst, r.Counts, r.Weights}
	for i, v := range values {
		b, err := json.Marshal(v)
		if err != nil {
			return docs, fmt.Errorf("marshal run document %d: %w", i, err)
		}
		docs[i] = b
	}
	return docs, nil
}

func scanRun(row pgx.Row) (*contracts.CompositeResult, error) {
	var (
		r                   contracts.CompositeResult
		label, historyLabel string
		price, indicators   []byte
		news, social        []byte
		analyst, counts     []byte
		weights             []byte
	)

	err := row.Scan(
		&r.ID, &r.Symbol, &r.Timestamp, &r.Score, &label, &historyLabel,
		&r.Drivers.News, &r.Drivers.Social, &r.Drivers.Technical, &r.Drivers.Analyst,
		&r.Reused, &r.ConfigHash,
		&price, &indicators, &news, &social, &analyst, &counts, &weights,
	)
	if err != nil {
		return nil, err
	}
	r.Label = contracts.Label(label)
	r.HistoryLabel = contracts.Label(historyLabel)

	docs := []struct {
		raw  []byte
		dest interface{}
	}{
		{price, &r.Price},
		{indicators, &r.Indicators},
		{news, &r.News},
		{social, &r.Social},
		{analyst, &r.Analyst},
		{counts, &r.Counts},
		{weights, &r.Weights},
	}
	for _, d := range docs {
		if len(d.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(d.raw, d.dest); err != nil {
			return nil, fmt.Errorf("unmarshal run document: %w", err)
		}
	}

	return &r, nil
}
