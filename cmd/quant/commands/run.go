package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/c0ughman/nasdaqst/backend/internal/brain"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "composite 분석 1회 실행",
	Long: `S0 → S4 파이프라인을 한 번 실행합니다.

이 명령어는:
- Finnhub 뉴스, Reddit 게시물 수집
- 새 항목이 없으면 이전 run의 뉴스/소셜 드라이버 재사용
- 기술 지표, 애널리스트 드라이버 계산
- composite 점수 저장

Flags:
  --dry-run  메모리 저장소 사용, DB 저장 생략
  --force    재사용 판단 무시, 전체 재계산

Example:
  go run ./cmd/quant run
  go run ./cmd/quant run --dry-run
  go run ./cmd/quant run --force`,
	RunE: runAnalysis,
}

var (
	runDryRun bool
	runForce  bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "메모리 저장소 사용, 저장 생략")
	runCmd.Flags().BoolVar(&runForce, "force", false, "재사용 판단 무시")
}

func runAnalysis(cmd *cobra.Command, args []string) error {
	a, err := newApp(runDryRun)
	if err != nil {
		return err
	}
	defer a.close()

	orch, err := a.orchestrator(nil)
	if err != nil {
		return fmt.Errorf("init orchestrator: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := orch.Run(ctx, brain.RunConfig{DryRun: runDryRun, Force: runForce})
	if err != nil {
		PrintError(err.Error())
		return err
	}

	PrintRunResult(res)
	return nil
}
