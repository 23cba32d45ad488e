package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "quant",
	Short: "NASDAQ composite sentiment engine",
	Long: `NASDAQ Sentiment Unified CLI

뉴스, Reddit, 기술 지표, 애널리스트 추천을 하나의
composite 점수(-100 ~ 100)로 결합합니다.
S0 수집 → S1 유니버스 → S2 드라이버 → S3 결합 → S4 저장

Usage:
  go run ./cmd/quant [command]

Examples:
  go run ./cmd/quant run --dry-run
  go run ./cmd/quant scheduler start
  go run ./cmd/quant api
  go run ./cmd/quant score "Apple beats estimates" "Shares jump after hours"
  go run ./cmd/quant check`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}
