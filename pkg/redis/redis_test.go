package redis

import (
	"context"
	"testing"

	"github.com/c0ughman/nasdaqst/backend/pkg/config"
)

func disabledClient(t *testing.T) *Client {
	t.Helper()

	client, err := New(&config.Config{Redis: config.RedisConfig{Enabled: false}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return client
}

func TestNewClient_Disabled(t *testing.T) {
	client := disabledClient(t)

	if client.Enabled() {
		t.Error("Expected client to be disabled")
	}
	if err := client.Ping(context.Background()); err != nil {
		t.Errorf("Expected disabled client ping to succeed, got %v", err)
	}
	if err := client.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestRateLimiter_Disabled(t *testing.T) {
	limiter := NewRateLimiter(disabledClient(t), "test")

	// When Redis is disabled, all requests should be allowed
	allowed, remaining, err := limiter.Allow(context.Background(), FinnhubRateLimit)
	if err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	if !allowed {
		t.Error("Expected request to be allowed when Redis disabled")
	}
	if remaining != FinnhubRateLimit.Limit {
		t.Errorf("Expected remaining = %d, got %d", FinnhubRateLimit.Limit, remaining)
	}

	if err := limiter.Wait(context.Background(), RedditRateLimit); err != nil {
		t.Errorf("Wait() error = %v", err)
	}
}

func TestCache_Disabled(t *testing.T) {
	cache := NewCache(disabledClient(t), "test")
	ctx := context.Background()

	if cache.Enabled() {
		t.Error("Expected cache to report disabled")
	}

	// When Redis is disabled, cache operations should be no-ops
	var result float64
	found, err := cache.Get(ctx, SentimentKey("abc"), &result)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if found {
		t.Error("Expected cache miss when Redis disabled")
	}

	if err := cache.Set(ctx, SentimentKey("abc"), 0.5, TTLSentiment); err != nil {
		t.Errorf("Set() error = %v", err)
	}

	hits, err := cache.GetMany(ctx, []string{"a", "b"}, func(string) interface{} { return new(float64) })
	if err != nil || hits != 0 {
		t.Errorf("GetMany() = (%d, %v), want (0, nil)", hits, err)
	}
}

func TestCacheKeys(t *testing.T) {
	tests := []struct {
		name     string
		fn       func() string
		expected string
	}{
		{
			name:     "SentimentKey",
			fn:       func() string { return SentimentKey("d41d8cd98f00b204e9800998ecf8427e") },
			expected: "sentiment:d41d8cd98f00b204e9800998ecf8427e",
		},
		{
			name:     "LatestRunKey",
			fn:       func() string { return LatestRunKey("^IXIC") },
			expected: "run:latest:^IXIC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestOptions(t *testing.T) {
	opts, err := options(config.RedisConfig{URL: "redis://:secret@cache.internal:6380/2"})
	if err != nil {
		t.Fatalf("options() error = %v", err)
	}
	if opts.Addr != "cache.internal:6380" || opts.Password != "secret" || opts.DB != 2 {
		t.Errorf("unexpected options from URL: addr=%s db=%d", opts.Addr, opts.DB)
	}

	opts, err = options(config.RedisConfig{Host: "localhost", Port: "6379", DB: 1})
	if err != nil {
		t.Fatalf("options() error = %v", err)
	}
	if opts.Addr != "localhost:6379" || opts.DB != 1 {
		t.Errorf("unexpected options from host/port: addr=%s db=%d", opts.Addr, opts.DB)
	}

	if _, err := options(config.RedisConfig{URL: "http://nope"}); err == nil {
		t.Error("expected error for non-redis URL")
	}
}
