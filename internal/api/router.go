package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/c0ughman/nasdaqst/backend/internal/api/handlers"
	"github.com/c0ughman/nasdaqst/backend/pkg/logger"
)

// Routes collects the handlers mounted by NewRouter. Jobs, Stream and Health are optional.
type Routes struct {
	Runs           *handlers.RunsHandler
	Jobs           *handlers.JobsHandler
	Stream         http.Handler // websocket hub
	Health         HealthChecker
	MetricsEnabled bool
}

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(routes Routes, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler(routes.Health)).Methods("GET")

	if routes.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	}

	if routes.Stream != nil {
		r.Handle("/ws/composite", routes.Stream)
	}

	api := r.PathPrefix("/api").Subrouter()

	// Run endpoints
	api.HandleFunc("/runs/latest", routes.Runs.GetLatest).Methods("GET")
	api.HandleFunc("/runs", routes.Runs.ListRuns).Methods("GET")
	api.HandleFunc("/runs/{id}/contributions", routes.Runs.GetContributions).Methods("GET")
	api.HandleFunc("/runs/{id}/items", routes.Runs.GetItems).Methods("GET")
	api.HandleFunc("/tickers/{symbol}/history", routes.Runs.GetTickerHistory).Methods("GET")

	// Scheduler endpoints
	if routes.Jobs != nil {
		api.HandleFunc("/jobs", routes.Jobs.GetStatus).Methods("GET")
		api.HandleFunc("/jobs/{name}/run", routes.Jobs.Trigger).Methods("POST")
	}

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		body := map[string]interface{}{
			"status":  "ok",
			"service": "nasdaqst-sentiment-api",
		}

		if checker != nil {
			if err := checker.Health(r.Context()); err != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
				body["error"] = err.Error()
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
