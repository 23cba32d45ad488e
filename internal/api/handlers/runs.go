package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jonboulle/clockwork"

	"github.com/c0ughman/nasdaqst/backend/internal/contracts"
	"github.com/c0ughman/nasdaqst/backend/pkg/logger"
	"github.com/c0ughman/nasdaqst/backend/pkg/redis"
)

const (
	defaultRunWindow     = 24 * time.Hour
	defaultHistoryWindow = 7 * 24 * time.Hour
	defaultRunLimit      = 100
	maxRunLimit          = 1000
)

// LatestCache is the read side of the latest-run cache
type LatestCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
}

// RunsHandler serves persisted composite runs
// ⭐ SSOT: 분석 결과 조회 API 핸들러는 이 구조체에서만
type RunsHandler struct {
	runs   contracts.RunRepository
	cache  LatestCache // optional
	symbol string
	clock  clockwork.Clock
	logger *logger.Logger
}

// NewRunsHandler creates a new runs handler. cache may be nil.
func NewRunsHandler(runs contracts.RunRepository, cache LatestCache, symbol string, clock clockwork.Clock, log *logger.Logger) *RunsHandler {
	return &RunsHandler{
		runs:   runs,
		cache:  cache,
		symbol: symbol,
		clock:  clock,
		logger: log.WithComponent("runs_handler"),
	}
}

// GetLatest returns the most recent run
// GET /api/runs/latest
func (h *RunsHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.cache != nil {
		var cached contracts.CompositeResult
		hit, err := h.cache.Get(ctx, redis.LatestRunKey(h.symbol), &cached)
		if err != nil {
			h.logger.WithError(err).Warn("Latest run cache read failed, falling back to database")
		}
		if hit {
			w.Header().Set("X-Cache", "HIT")
			respondJSON(w, http.StatusOK, cached)
			return
		}
	}

	result, err := h.runs.Latest(ctx, h.symbol)
	if errors.Is(err, contracts.ErrNoPreviousRun) {
		respondError(w, http.StatusNotFound, "no run recorded yet")
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to get latest run")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve latest run")
		return
	}

	w.Header().Set("X-Cache", "MISS")
	respondJSON(w, http.StatusOK, result)
}

// ListRuns returns runs in a time range, newest first
// GET /api/runs?from=2025-03-01&to=2025-03-10&limit=100
func (h *RunsHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	from, to, err := timeRange(r, h.clock.Now().UTC(), defaultRunWindow)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit := parseLimit(r, defaultRunLimit, maxRunLimit)

	results, err := h.runs.List(r.Context(), h.symbol, from, to, limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list runs")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve runs")
		return
	}
	if results == nil {
		results = []*contracts.CompositeResult{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"from":    from,
		"to":      to,
		"count":   len(results),
		"data":    results,
	})
}

// GetContributions returns the per-ticker contributions of one run
// GET /api/runs/{id}/contributions
func (h *RunsHandler) GetContributions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid run id")
		return
	}

	if _, err := h.runs.Get(ctx, id); err != nil {
		if errors.Is(err, contracts.ErrRunNotFound) {
			respondError(w, http.StatusNotFound, "run not found")
			return
		}
		h.logger.WithError(err).WithField("run_id", id.String()).Error("Failed to get run")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve run")
		return
	}

	contributions, err := h.runs.Contributions(ctx, id)
	if err != nil {
		h.logger.WithError(err).WithField("run_id", id.String()).Error("Failed to get contributions")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve contributions")
		return
	}
	if contributions == nil {
		contributions = []contracts.TickerContribution{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"run_id":  id,
		"data":    contributions,
	})
}

// GetItems returns the scored items of a run with their factors
// GET /api/runs/{id}/items?kind=article|post|comment
func (h *RunsHandler) GetItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid run id")
		return
	}

	kind := contracts.ItemKind(strings.ToLower(r.URL.Query().Get("kind")))
	switch kind {
	case "", contracts.KindArticle, contracts.KindPost, contracts.KindComment:
	default:
		respondError(w, http.StatusBadRequest, "kind must be article, post or comment")
		return
	}

	if _, err := h.runs.Get(ctx, id); err != nil {
		if errors.Is(err, contracts.ErrRunNotFound) {
			respondError(w, http.StatusNotFound, "run not found")
			return
		}
		h.logger.WithError(err).WithField("run_id", id.String()).Error("Failed to get run")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve run")
		return
	}

	items, err := h.runs.Items(ctx, id)
	if err != nil {
		h.logger.WithError(err).WithField("run_id", id.String()).Error("Failed to get scored items")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve items")
		return
	}

	out := make([]contracts.ScoredItem, 0, len(items))
	for _, it := range items {
		if kind == "" || it.Kind == kind {
			out = append(out, it)
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"run_id":  id,
		"count":   len(out),
		"data":    out,
	})
}

// GetTickerHistory returns one ticker's contributions over time, oldest first
// GET /api/tickers/{symbol}/history?from&to
func (h *RunsHandler) GetTickerHistory(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(strings.TrimSpace(mux.Vars(r)["symbol"]))
	if symbol == "" {
		respondError(w, http.StatusBadRequest, "ticker symbol is required")
		return
	}

	from, to, err := timeRange(r, h.clock.Now().UTC(), defaultHistoryWindow)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	history, err := h.runs.TickerHistory(r.Context(), symbol, from, to)
	if err != nil {
		h.logger.WithError(err).WithTicker(symbol).Error("Failed to get ticker history")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve ticker history")
		return
	}
	if history == nil {
		history = []contracts.TickerContribution{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"ticker":  symbol,
		"count":   len(history),
		"data":    history,
	})
}
