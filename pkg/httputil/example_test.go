package httputil_test

import (
	"context"
	"fmt"
	"time"

	"github.com/c0ughman/nasdaqst/backend/pkg/httputil"
	"github.com/c0ughman/nasdaqst/backend/pkg/logger"
)

// Example_getJSON demonstrates decoding a JSON API answer
func Example_getJSON() {
	client := httputil.New(logger.Nop()).
		WithRetry(2, 500*time.Millisecond).
		WithHeader("X-Finnhub-Token", "demo")

	var quote struct {
		Current float64 `json:"c"`
	}
	if err := client.GetJSON(context.Background(), "https://finnhub.io/api/v1/quote?symbol=AAPL", &quote); err != nil {
		fmt.Printf("Request failed: %v\n", err)
		return
	}

	fmt.Printf("AAPL: %.2f\n", quote.Current)
}
