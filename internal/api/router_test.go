package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"

	"github.com/c0ughman/nasdaqst/backend/internal/api/handlers"
	"github.com/c0ughman/nasdaqst/backend/internal/contracts"
	"github.com/c0ughman/nasdaqst/backend/pkg/logger"
)

type emptyRuns struct{}

func (emptyRuns) Save(context.Context, *contracts.CompositeResult, []contracts.TickerContribution) error {
	return nil
}
func (emptyRuns) Latest(context.Context, string) (*contracts.CompositeResult, error) {
	return nil, contracts.ErrNoPreviousRun
}
func (emptyRuns) Get(context.Context, uuid.UUID) (*contracts.CompositeResult, error) {
	return nil, contracts.ErrRunNotFound
}
func (emptyRuns) Contributions(context.Context, uuid.UUID) ([]contracts.TickerContribution, error) {
	return nil, nil
}
func (emptyRuns) List(context.Context, string, time.Time, time.Time, int) ([]*contracts.CompositeResult, error) {
	return nil, nil
}
func (emptyRuns) TickerHistory(context.Context, string, time.Time, time.Time) ([]contracts.TickerContribution, error) {
	return nil, nil
}
func (emptyRuns) SaveItems(context.Context, uuid.UUID, []contracts.ScoredItem) error {
	return nil
}
func (emptyRuns) Items(context.Context, uuid.UUID) ([]contracts.ScoredItem, error) {
	return nil, nil
}

type healthFunc func(ctx context.Context) error

func (f healthFunc) Health(ctx context.Context) error { return f(ctx) }

func testRoutes(health HealthChecker) Routes {
	return Routes{
		Runs:           handlers.NewRunsHandler(emptyRuns{}, nil, "^IXIC", clockwork.NewFakeClock(), logger.Nop()),
		Health:         health,
		MetricsEnabled: true,
	}
}

func do(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestRouter(t *testing.T) {
	router := NewRouter(testRoutes(nil), logger.Nop())

	tests := []struct {
		name       string
		method     string
		target     string
		wantStatus int
	}{
		{"health", http.MethodGet, "/health", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", http.StatusOK},
		{"latest without history", http.MethodGet, "/api/runs/latest", http.StatusNotFound},
		{"list", http.MethodGet, "/api/runs", http.StatusOK},
		{"ticker history", http.MethodGet, "/api/tickers/AAPL/history", http.StatusOK},
		{"unknown run", http.MethodGet, "/api/runs/" + uuid.NewString() + "/contributions", http.StatusNotFound},
		{"unknown run items", http.MethodGet, "/api/runs/" + uuid.NewString() + "/items", http.StatusNotFound},
		{"wrong method", http.MethodPost, "/api/runs", http.StatusMethodNotAllowed},
		{"jobs not mounted", http.MethodGet, "/api/jobs", http.StatusNotFound},
		{"stream not mounted", http.MethodGet, "/ws/composite", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, do(router, tt.method, tt.target).Code)
		})
	}
}

func TestRouter_HealthDegraded(t *testing.T) {
	router := NewRouter(testRoutes(healthFunc(func(context.Context) error {
		return errors.New("database: connection refused")
	})), logger.Nop())

	rec := do(router, http.MethodGet, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"degraded"`)
}

func TestRecoveryMiddleware(t *testing.T) {
	h := recoveryMiddleware(logger.Nop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := do(h, http.MethodGet, "/")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")
}
