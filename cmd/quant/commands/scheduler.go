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

	"github.com/c0ughman/nasdaqst/backend/internal/brain"
	"github.com/c0ughman/nasdaqst/backend/internal/contracts"
	"github.com/c0ughman/nasdaqst/backend/internal/s0_data"
	"github.com/c0ughman/nasdaqst/backend/internal/scheduler"
	"github.com/c0ughman/nasdaqst/backend/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "스케줄러 관리",
	Long: `스케줄러를 시작하거나 작업을 관리합니다.

Subcommands:
  start   - 스케줄러 시작
  list    - 등록된 작업 목록
  run     - 특정 작업 즉시 실행
  status  - 최근 분석 결과 조회

Example:
  go run ./cmd/quant scheduler start
  go run ./cmd/quant scheduler list
  go run ./cmd/quant scheduler run analysis`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "스케줄러 시작",
		Long: `스케줄러를 시작하고 등록된 모든 작업을 스케줄합니다.

등록되는 작업:
- analysis: ANALYSIS_SCHEDULE (기본 5분마다, composite 분석)
- sentiment_retention: 매일 03:30 (SENTIMENT_RETENTION 보다 오래된 감성 점수 삭제)

이전 실행이 끝나지 않았으면 해당 tick은 건너뜁니다.
스케줄러는 Ctrl+C로 종료할 수 있습니다.`,
		RunE: runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "등록된 작업 목록",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "특정 작업 즉시 실행",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}

	schedulerStatusCmd = &cobra.Command{
		Use:   "status",
		Short: "최근 분석 결과 조회",
		RunE:  showStatus,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
	schedulerCmd.AddCommand(schedulerStatusCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Sentiment Scheduler ===")

	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	sched, err := initScheduler(a, nil)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	sched.Start()

	fmt.Println("\n✅ Scheduler started successfully")
	printJobs(sched)
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down scheduler...")
	sched.Stop()
	fmt.Println("Scheduler stopped")

	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	sched, err := initScheduler(a, nil)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	printJobs(sched)
	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	jobName := args[0]

	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	sched, err := initScheduler(a, nil)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	fmt.Printf("Running job: %s\n", jobName)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := sched.RunJobSync(ctx, jobName)
	if err != nil {
		PrintError(err.Error())
		return err
	}

	PrintSuccess(fmt.Sprintf("%s completed in %s", jobName, result.Duration.Round(time.Millisecond)))
	return nil
}

func showStatus(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	latest, err := a.runs.Latest(ctx, a.scoring.Universe.Symbol)
	if errors.Is(err, contracts.ErrNoPreviousRun) {
		PrintInfo("No run recorded yet")
		return nil
	}
	if err != nil {
		return fmt.Errorf("latest run: %w", err)
	}

	contributions, err := a.runs.Contributions(ctx, latest.ID)
	if err != nil {
		return fmt.Errorf("contributions: %w", err)
	}

	PrintKeyValue("Schedule", a.cfg.Analysis.Schedule, 12)
	PrintKeyValue("Age", a.clock.Since(latest.Timestamp).Round(time.Second).String(), 12)
	PrintRunResult(&brain.RunResult{
		Result:        latest,
		Contributions: contributions,
		Persisted:     true,
	})
	return nil
}

// initScheduler registers the analysis and retention jobs. publisher may be nil.
func initScheduler(a *app, publisher brain.Publisher) (*scheduler.Scheduler, error) {
	orch, err := a.orchestrator(publisher)
	if err != nil {
		return nil, fmt.Errorf("init orchestrator: %w", err)
	}

	sched := scheduler.New(a.log)

	if err := sched.AddJob(jobs.NewAnalysisJob(orch, a.cfg.Analysis.Schedule, a.log)); err != nil {
		return nil, err
	}

	if a.db != nil {
		pruner := s0_data.NewSentimentRepository(a.db.Pool)
		if err := sched.AddJob(jobs.NewRetentionJob(pruner, a.cfg.Analysis.Retention, a.clock, a.log)); err != nil {
			return nil, err
		}
	}

	return sched, nil
}

func printJobs(sched *scheduler.Scheduler) {
	stats := sched.GetJobStats()
	fmt.Println("\nRegistered jobs:")
	for _, name := range sched.GetAllJobs() {
		fmt.Printf("  - %-20s %s\n", name, stats[name].Schedule)
	}
}
