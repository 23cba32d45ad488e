package finnhub

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c0ughman/nasdaqst/backend/pkg/config"
	"github.com/c0ughman/nasdaqst/backend/pkg/httputil"
	"github.com/c0ughman/nasdaqst/backend/pkg/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.FinnhubConfig{APIKey: "test-key", BaseURL: server.URL}
	return NewClient(httputil.New(logger.Nop()).DisableRetry(), cfg, logger.Nop())
}

func TestCompanyNews(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/company-news", r.URL.Path)
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
		assert.Equal(t, "2025-01-01", r.URL.Query().Get("from"))
		assert.Equal(t, "2025-01-02", r.URL.Query().Get("to"))
		assert.Equal(t, "test-key", r.Header.Get("X-Finnhub-Token"))

		w.Write([]byte(`[
			{"category":"company","datetime":1735732800,"headline":"Apple beats expectations","id":1,
			 "related":"AAPL","source":"Reuters","summary":"Revenue rose.","url":"https://example.com/1"},
			{"category":"company","datetime":1735732000,"headline":"","summary":"no headline"}
		]`))
	})

	from := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	articles, err := client.CompanyNews(context.Background(), "AAPL", from, from.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, articles, 1, "items without headline are dropped")

	a := articles[0]
	assert.Equal(t, "AAPL", a.Ticker)
	assert.Equal(t, "Apple beats expectations", a.Headline)
	assert.Equal(t, "Reuters", a.Source)
	assert.Equal(t, time.Unix(1735732800, 0).UTC(), a.PublishedAt)
}

func TestGeneralNews(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/news", r.URL.Path)
		assert.Equal(t, "general", r.URL.Query().Get("category"))
		w.Write([]byte(`[{"category":"top news","datetime":1735732800,"headline":"Fed holds rates","source":"CNBC"}]`))
	})

	articles, err := client.GeneralNews(context.Background())
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Empty(t, articles[0].Ticker)
	assert.Equal(t, "top news", articles[0].Category)
}

func TestRecommendation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stock/recommendation", r.URL.Path)
		if r.URL.Query().Get("symbol") == "NONE" {
			w.Write([]byte(`[]`))
			return
		}
		w.Write([]byte(`[
			{"symbol":"MSFT","period":"2025-01-01","strongBuy":20,"buy":25,"hold":5,"sell":1,"strongSell":0},
			{"symbol":"MSFT","period":"2024-12-01","strongBuy":18,"buy":24,"hold":6,"sell":1,"strongSell":0}
		]`))
	})

	rec, err := client.Recommendation(context.Background(), "MSFT")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "2025-01-01", rec.Period)
	assert.Equal(t, 51, rec.Total())

	rec, err = client.Recommendation(context.Background(), "NONE")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestStatusError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"API limit reached"}`))
	})

	_, err := client.GeneralNews(context.Background())
	var statusErr *httputil.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)
}
