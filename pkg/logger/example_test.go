package logger_test

import (
	"errors"

	"github.com/c0ughman/nasdaqst/backend/pkg/config"
	"github.com/c0ughman/nasdaqst/backend/pkg/logger"
)

// Example_basic demonstrates basic logger usage
func Example_basic() {
	cfg := &config.Config{
		Env:       "development",
		LogLevel:  "info",
		LogFormat: "console",
	}

	log := logger.New(cfg)

	log.Debug("This won't appear (level is info)")
	log.Info("Analysis run started")
	log.Warnf("Oracle retry %d of %d", 1, 1)
}

// Example_runScoped demonstrates run and ticker scoped logging
func Example_runScoped() {
	cfg := &config.Config{
		Env:       "production",
		LogLevel:  "info",
		LogFormat: "json",
	}

	log := logger.New(cfg).WithRun("4b1f0c9e")

	log.WithTicker("NVDA").WithFields(map[string]interface{}{
		"articles": 10,
		"cached":   7,
	}).Info("Ticker scored")

	log.WithError(errors.New("503 model loading")).Warn("Oracle unavailable, using neutral polarity")
}
