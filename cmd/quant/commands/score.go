package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/c0ughman/nasdaqst/backend/internal/contracts"
	"github.com/c0ughman/nasdaqst/backend/internal/s2_signals"
)

// scoreCmd represents the score command
var scoreCmd = &cobra.Command{
	Use:   "score <headline> [summary]",
	Short: "기사 1건 점수 계산",
	Long: `기사 1건을 전체 기사 파이프라인(감성, 서프라이즈, 신규성,
신뢰도, 최신성)으로 점수화하고 요인별 값을 출력합니다.
결과는 저장하지 않습니다 (메모리 저장소).

Example:
  go run ./cmd/quant score "Nvidia shock guidance cut" --source Reuters
  go run ./cmd/quant score "Apple beats" "Services revenue at record" --age 2h`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runScore,
}

var (
	scoreSource string
	scoreTicker string
	scoreAge    time.Duration
)

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringVar(&scoreSource, "source", "", "뉴스 출처 (예: Reuters)")
	scoreCmd.Flags().StringVar(&scoreTicker, "ticker", "", "종목 (선택)")
	scoreCmd.Flags().DurationVar(&scoreAge, "age", 0, "기사 경과 시간")
}

func runScore(cmd *cobra.Command, args []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.close()

	article := contracts.Article{
		Ticker:      scoreTicker,
		Headline:    args[0],
		Source:      scoreSource,
		PublishedAt: a.clock.Now().Add(-scoreAge),
	}
	if len(args) > 1 {
		article.Summary = args[1]
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	scorer := s2_signals.NewArticleScorer(a.sentimentCache(), a.scoring, a.clock, a.log)
	items := scorer.ScoreArticles(ctx, s2_signals.NewSession(), []contracts.Article{article})
	if len(items) != 1 {
		return fmt.Errorf("article was not scored")
	}
	item := items[0]

	PrintDoubleSeparator()
	fmt.Printf("  %s\n", article.Headline)
	PrintSeparator()
	PrintKeyValue("Fingerprint", string(item.Fingerprint), 14)
	PrintKeyValue("Oracle", a.cfg.Oracle.Provider, 14)
	PrintKeyValue("Base", fmt.Sprintf("%+.4f", item.BaseSentiment), 14)
	PrintKeyValue("Surprise", fmt.Sprintf("%.2f", item.Surprise), 14)
	PrintKeyValue("Novelty", fmt.Sprintf("%.2f", item.Novelty), 14)
	PrintKeyValue("Credibility", fmt.Sprintf("%.2f", item.Credibility), 14)
	PrintKeyValue("Recency", fmt.Sprintf("%.4f", item.Recency), 14)
	PrintSeparator()
	PrintKeyValue("Score", fmt.Sprintf("%+.2f", item.Score), 14)
	if item.Failed {
		PrintWarning("Oracle failed; base sentiment treated as neutral")
	}
	return nil
}
