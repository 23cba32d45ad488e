package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/c0ughman/nasdaqst/backend/pkg/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		cfg       *config.Config
		wantLevel zerolog.Level
	}{
		{"debug level", &config.Config{Env: "development", LogLevel: "debug", LogFormat: "json"}, zerolog.DebugLevel},
		{"info level", &config.Config{Env: "production", LogLevel: "info", LogFormat: "json"}, zerolog.InfoLevel},
		{"warn level", &config.Config{Env: "staging", LogLevel: "warn", LogFormat: "console"}, zerolog.WarnLevel},
		{"error level", &config.Config{Env: "production", LogLevel: "error", LogFormat: "json"}, zerolog.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := New(tt.cfg)
			if logger == nil {
				t.Fatal("Expected logger to be created")
			}

			if zerolog.GlobalLevel() != tt.wantLevel {
				t.Errorf("Expected global level %v, got %v", tt.wantLevel, zerolog.GlobalLevel())
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"panic", zerolog.PanicLevel},
		{"invalid", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLogLevel(tt.input); got != tt.want {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// decodeLast parses the last JSON line written to buf
func decodeLast(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &entry); err != nil {
		t.Fatalf("Failed to parse log line: %v", err)
	}
	return entry
}

func TestDomainFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&config.Config{Env: "development", LogLevel: "debug", LogFormat: "json"}, &buf)

	log.WithRun("run-1").WithTicker("AAPL").WithComponent("news").Info("scored")
	entry := decodeLast(t, &buf)

	if entry["run_id"] != "run-1" {
		t.Errorf("Expected run_id=run-1, got %v", entry["run_id"])
	}
	if entry["ticker"] != "AAPL" {
		t.Errorf("Expected ticker=AAPL, got %v", entry["ticker"])
	}
	if entry["component"] != "news" {
		t.Errorf("Expected component=news, got %v", entry["component"])
	}
	if entry["service"] != "nasdaq-sentiment" {
		t.Errorf("Expected service field, got %v", entry["service"])
	}
	if entry["message"] != "scored" {
		t.Errorf("Expected message=scored, got %v", entry["message"])
	}
}

func TestWithFieldsAndError(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&config.Config{Env: "test", LogLevel: "debug", LogFormat: "json"}, &buf)

	log.WithFields(map[string]interface{}{
		"cached": 3,
		"new":    2,
	}).WithError(errors.New("oracle down")).Warn("batch fallback")

	entry := decodeLast(t, &buf)
	if entry["cached"] != float64(3) || entry["new"] != float64(2) {
		t.Errorf("Expected cached=3 new=2, got %v %v", entry["cached"], entry["new"])
	}
	if entry["error"] != "oracle down" {
		t.Errorf("Expected error field, got %v", entry["error"])
	}
	if entry["level"] != "warn" {
		t.Errorf("Expected level warn, got %v", entry["level"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&config.Config{Env: "test", LogLevel: "warn", LogFormat: "json"}, &buf)

	log.Debug("hidden")
	log.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("Expected no output below warn, got %q", buf.String())
	}

	log.Errorf("failed %d items", 2)
	if !strings.Contains(buf.String(), "failed 2 items") {
		t.Errorf("Expected formatted error message, got %q", buf.String())
	}
}

func TestNop(t *testing.T) {
	log := Nop()
	// must not panic
	log.WithTicker("MSFT").Info("discarded")
}
