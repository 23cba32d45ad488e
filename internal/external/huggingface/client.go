package huggingface

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/c0ughman/nasdaqst/backend/internal/contracts"
	"github.com/c0ughman/nasdaqst/backend/pkg/config"
	"github.com/c0ughman/nasdaqst/backend/pkg/httputil"
	"github.com/c0ughman/nasdaqst/backend/pkg/logger"
)

// Client is a FinBERT inference client. It implements contracts.Oracle.
// ⭐ SSOT: FinBERT API 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	modelURL   string
	batchSize  int
}

// NewClient creates a FinBERT client. httpClient should have retry disabled:
// 503 (model loading) is surfaced as contracts.ErrOracleUnavailable and
// retried by sentiment.RetryingOracle.
func NewClient(httpClient *httputil.Client, cfg config.HuggingFaceConfig, log *logger.Logger) *Client {
	if cfg.APIKey != "" {
		httpClient = httpClient.WithHeader("Authorization", "Bearer "+cfg.APIKey)
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 32
	}

	return &Client{
		httpClient: httpClient,
		logger:     log.WithComponent("finbert"),
		modelURL:   cfg.ModelURL,
		batchSize:  batchSize,
	}
}

// labelScore is one class probability
type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Score returns positive - negative for one text
func (c *Client) Score(ctx context.Context, text string) (float64, error) {
	var out [][]labelScore
	if err := c.post(ctx, map[string]interface{}{"inputs": text}, &out); err != nil {
		return 0, err
	}
	if len(out) == 0 {
		return 0, fmt.Errorf("finbert: empty response")
	}
	return polarity(out[0]), nil
}

// ScoreBatch scores texts in chunks of batchSize, preserving order
func (c *Client) ScoreBatch(ctx context.Context, texts []string) ([]float64, error) {
	results := make([]float64, 0, len(texts))

	for start := 0; start < len(texts); start += c.batchSize {
		end := start + c.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		chunk := texts[start:end]

		var out [][]labelScore
		if err := c.post(ctx, map[string]interface{}{"inputs": chunk}, &out); err != nil {
			return nil, err
		}
		if len(out) != len(chunk) {
			return nil, fmt.Errorf("finbert: got %d results for %d inputs", len(out), len(chunk))
		}

		for _, scores := range out {
			results = append(results, polarity(scores))
		}

		c.logger.WithFields(map[string]interface{}{
			"chunk_start": start,
			"chunk_size":  len(chunk),
		}).Debug("finbert batch scored")
	}

	return results, nil
}

func (c *Client) post(ctx context.Context, body interface{}, dest interface{}) error {
	err := c.httpClient.PostJSONInto(ctx, c.modelURL, body, dest)
	if err == nil {
		return nil
	}

	var statusErr *httputil.StatusError
	if errors.As(err, &statusErr) && isLoading(statusErr) {
		return fmt.Errorf("finbert: %s: %w", strings.TrimSpace(statusErr.Body), contracts.ErrOracleUnavailable)
	}
	return fmt.Errorf("finbert: %w", err)
}

// isLoading reports the "model is currently loading" answer
func isLoading(e *httputil.StatusError) bool {
	if e.StatusCode == http.StatusServiceUnavailable {
		return true
	}
	return strings.Contains(strings.ToLower(e.Body), "loading")
}

func polarity(scores []labelScore) float64 {
	var pos, neg float64
	for _, s := range scores {
		switch strings.ToLower(s.Label) {
		case "positive":
			pos = s.Score
		case "negative":
			neg = s.Score
		}
	}
	return pos - neg
}
