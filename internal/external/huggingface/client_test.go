package huggingface

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c0ughman/nasdaqst/backend/internal/contracts"
	"github.com/c0ughman/nasdaqst/backend/internal/sentiment"
	"github.com/c0ughman/nasdaqst/backend/pkg/config"
	"github.com/c0ughman/nasdaqst/backend/pkg/httputil"
	"github.com/c0ughman/nasdaqst/backend/pkg/logger"
)

const scoresJSON = `[{"label":"positive","score":0.7},{"label":"negative","score":0.2},{"label":"neutral","score":0.1}]`

func newTestClient(t *testing.T, batchSize int, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.HuggingFaceConfig{APIKey: "hf_test", ModelURL: server.URL, BatchSize: batchSize}
	return NewClient(httputil.New(logger.Nop()).DisableRetry(), cfg, logger.Nop())
}

func TestScore(t *testing.T) {
	client := newTestClient(t, 32, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer hf_test", r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Apple beats expectations", body["inputs"])

		w.Write([]byte("[" + scoresJSON + "]"))
	})

	got, err := client.Score(context.Background(), "Apple beats expectations")
	require.NoError(t, err)
	assert.InDelta(t, 0.5, got, 1e-9)
}

func TestScoreBatch_Chunks(t *testing.T) {
	var calls int32
	client := newTestClient(t, 2, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)

		var body struct {
			Inputs []string `json:"inputs"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.LessOrEqual(t, len(body.Inputs), 2)

		out := make([]json.RawMessage, len(body.Inputs))
		for i := range out {
			out[i] = json.RawMessage(scoresJSON)
		}
		json.NewEncoder(w).Encode(out)
	})

	got, err := client.ScoreBatch(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	for _, p := range got {
		assert.InDelta(t, 0.5, p, 1e-9)
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestScoreBatch_LengthMismatch(t *testing.T) {
	client := newTestClient(t, 32, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[" + scoresJSON + "]"))
	})

	_, err := client.ScoreBatch(context.Background(), []string{"a", "b"})
	assert.Error(t, err)
}

func TestLoadingMapsToUnavailable(t *testing.T) {
	client := newTestClient(t, 32, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":"Model ProsusAI/finbert is currently loading","estimated_time":20.0}`))
	})

	_, err := client.Score(context.Background(), "text")
	assert.True(t, errors.Is(err, contracts.ErrOracleUnavailable))
}

func TestBadRequestIsHardError(t *testing.T) {
	client := newTestClient(t, 32, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"bad input"}`))
	})

	_, err := client.Score(context.Background(), "text")
	require.Error(t, err)
	assert.False(t, errors.Is(err, contracts.ErrOracleUnavailable))
}

func TestRetryAfterLoading(t *testing.T) {
	var calls int32
	client := newTestClient(t, 32, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"loading"}`))
			return
		}
		w.Write([]byte("[" + scoresJSON + "]"))
	})

	clock := clockwork.NewFakeClock()
	oracle := sentiment.NewRetryingOracle(client, 20*time.Second, 1, clock, logger.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	type result struct {
		score float64
		err   error
	}
	done := make(chan result, 1)
	go func() {
		s, err := oracle.Score(ctx, "text")
		done <- result{s, err}
	}()

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(20 * time.Second)

	res := <-done
	require.NoError(t, res.err)
	assert.InDelta(t, 0.5, res.score, 1e-9)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestPolarity(t *testing.T) {
	tests := []struct {
		name   string
		scores []labelScore
		want   float64
	}{
		{"positive", []labelScore{{"positive", 0.9}, {"negative", 0.05}, {"neutral", 0.05}}, 0.85},
		{"negative", []labelScore{{"Negative", 0.8}, {"Positive", 0.1}}, -0.7},
		{"neutral only", []labelScore{{"neutral", 1}}, 0},
		{"empty", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, polarity(tt.scores), 1e-9)
		})
	}
}
