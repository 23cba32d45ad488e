package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/c0ughman/nasdaqst/backend/internal/api"
	"github.com/c0ughman/nasdaqst/backend/internal/api/handlers"
	"github.com/c0ughman/nasdaqst/backend/internal/contracts"
	"github.com/c0ughman/nasdaqst/backend/internal/realtime"
	"github.com/c0ughman/nasdaqst/backend/internal/scheduler"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `조회용 REST API와 실시간 WebSocket 서버를 시작합니다.

Endpoints:
  GET  /health                             - Health check (DB, Redis)
  GET  /metrics                            - Prometheus metrics
  GET  /api/runs/latest                    - 최근 composite (Redis 캐시 우선)
  GET  /api/runs?from&to&limit             - 기간별 run 목록
  GET  /api/runs/{id}/contributions        - run 의 종목별 기여도
  GET  /api/tickers/{symbol}/history?from&to - 종목별 감성 이력
  WS   /ws/composite                       - 새 run 실시간 수신
  GET  /api/jobs, POST /api/jobs/{name}/run  - --with-scheduler 일 때만

Example:
  go run ./cmd/quant api
  go run ./cmd/quant api --port 8080 --with-scheduler`,
	RunE: runAPIServer,
}

var (
	apiPort          string
	apiWithScheduler bool
)

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (기본: PORT)")
	apiCmd.Flags().BoolVar(&apiWithScheduler, "with-scheduler", false, "같은 프로세스에서 스케줄러 실행")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Sentiment API Server ===")

	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}
	log := a.log

	// seed the websocket snapshot with the latest persisted run
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	latest, err := a.runs.Latest(ctx, a.scoring.Universe.Symbol)
	cancel()
	if err != nil && !errors.Is(err, contracts.ErrNoPreviousRun) {
		log.WithError(err).Warn("Failed to load latest run for websocket snapshot")
	}
	hub := realtime.NewHub(latest, log)
	defer hub.Close()

	routes := api.Routes{
		Runs:           handlers.NewRunsHandler(a.runs, latestCacheReader(a), a.scoring.Universe.Symbol, a.clock, log),
		Stream:         hub,
		Health:         a,
		MetricsEnabled: a.cfg.MetricsEnabled,
	}

	var sched *scheduler.Scheduler
	if apiWithScheduler {
		sched, err = initScheduler(a, hub)
		if err != nil {
			return fmt.Errorf("init scheduler: %w", err)
		}
		routes.Jobs = handlers.NewJobsHandler(sched, log)
		sched.Start()
		defer sched.Stop()
	}

	server := api.New(a.cfg, log, api.NewRouter(routes, log))

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", a.cfg.Port)
	if sched != nil {
		printJobs(sched)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}

// latestCacheReader avoids handing a typed nil to the handler's interface
func latestCacheReader(a *app) handlers.LatestCache {
	if c := a.latestCache(); c != nil {
		return c
	}
	return nil
}
