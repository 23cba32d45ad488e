package commands

import (
	"fmt"
	"strings"

	"github.com/c0ughman/nasdaqst/backend/internal/brain"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// 모든 커맨드가 동일한 출력 포맷을 사용하도록 통일
// ═══════════════════════════════════════════════════════════

// PrintSeparator prints a visual separator
func PrintSeparator() {
	fmt.Println("───────────────────────────────────────────────────────────")
}

// PrintDoubleSeparator prints a double-line separator
func PrintDoubleSeparator() {
	fmt.Println("═══════════════════════════════════════════════════════════")
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Println()
	fmt.Printf("⚠️  %s\n", message)
	fmt.Println()
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Printf("✅ %s\n", message)
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Printf("❌ %s\n", message)
}

// PrintInfo prints an info message
func PrintInfo(message string) {
	fmt.Printf("ℹ️  %s\n", message)
}

// PrintTableHeader prints a table header
func PrintTableHeader(columns []string, widths []int) {
	for i, col := range columns {
		fmt.Printf("%-*s", widths[i], col)
		if i < len(columns)-1 {
			fmt.Print("  ")
		}
	}
	fmt.Println()

	// Separator line
	totalWidth := 0
	for i, width := range widths {
		totalWidth += width
		if i < len(widths)-1 {
			totalWidth += 2 // spacing
		}
	}
	for i := 0; i < totalWidth; i++ {
		fmt.Print("─")
	}
	fmt.Println()
}

// PrintTableRow prints a table row
func PrintTableRow(values []string, widths []int) {
	for i, val := range values {
		fmt.Printf("%-*s", widths[i], val)
		if i < len(values)-1 {
			fmt.Print("  ")
		}
	}
	fmt.Println()
}

// PrintList prints a bulleted list
func PrintList(items []string) {
	for _, item := range items {
		fmt.Printf("   • %s\n", item)
	}
}

// PrintKeyValue prints key-value pairs
func PrintKeyValue(key string, value string, keyWidth int) {
	fmt.Printf("   %-*s : %s\n", keyWidth, key, value)
}

// PrintRunResult prints the outcome of one composite run
func PrintRunResult(res *brain.RunResult) {
	r := res.Result

	fmt.Println()
	PrintDoubleSeparator()
	fmt.Printf("  %s composite  %+.2f  %s (%s)\n", r.Symbol, r.Score, r.Label, r.HistoryLabel)
	PrintSeparator()
	PrintKeyValue("Run ID", r.ID.String(), 12)
	PrintKeyValue("Timestamp", r.Timestamp.Format("2006-01-02 15:04:05 MST"), 12)
	PrintKeyValue("Mode", runMode(res), 12)
	PrintKeyValue("Stages", stageList(res), 12)
	PrintKeyValue("Items", fmt.Sprintf("cached %d / new %d / failed %d / skipped %d",
		r.Counts.Cached, r.Counts.New, r.Counts.Failed, r.Counts.Skipped), 12)
	if r.Price != nil {
		PrintKeyValue("Price", fmt.Sprintf("%.2f (%+.2f%%)", r.Price.Price, r.Price.ChangePercent), 12)
	}
	PrintKeyValue("Duration", res.Duration.String(), 12)
	fmt.Println()

	widths := []int{10, 8, 8, 10}
	PrintTableHeader([]string{"Driver", "Score", "Weight", "Weighted"}, widths)
	rows := []struct {
		name   string
		score  float64
		weight float64
	}{
		{"news", r.Drivers.News, r.Weights.News},
		{"social", r.Drivers.Social, r.Weights.Social},
		{"technical", r.Drivers.Technical, r.Weights.Technical},
		{"analyst", r.Drivers.Analyst, r.Weights.Analyst},
	}
	for _, row := range rows {
		PrintTableRow([]string{
			row.name,
			fmt.Sprintf("%+.2f", row.score),
			fmt.Sprintf("%.2f", row.weight),
			fmt.Sprintf("%+.2f", row.score*row.weight),
		}, widths)
	}

	if len(res.Contributions) > 0 {
		fmt.Println()
		widths = []int{8, 10, 8, 12, 6}
		PrintTableHeader([]string{"Ticker", "Sentiment", "Weight", "Contribution", "Items"}, widths)
		for _, c := range res.Contributions {
			PrintTableRow([]string{
				c.Ticker,
				fmt.Sprintf("%+.2f", c.Sentiment),
				fmt.Sprintf("%.3f", c.MarketCapWeight),
				fmt.Sprintf("%+.3f", c.WeightedContribution),
				fmt.Sprint(c.ItemCount),
			}, widths)
		}
	}

	fmt.Println()
	if res.Persisted {
		PrintSuccess("Run saved")
	} else {
		PrintInfo("Dry run, nothing saved")
	}
}

func runMode(res *brain.RunResult) string {
	switch {
	case res.Result.Reused:
		return fmt.Sprintf("reused (%d known items)", res.Decision.Total)
	case res.Decision.Previous == nil:
		return "full (no previous run)"
	default:
		return fmt.Sprintf("full (%d new items)", res.Decision.NewItems)
	}
}

func stageList(res *brain.RunResult) string {
	names := make([]string, len(res.CompletedStages))
	for i, s := range res.CompletedStages {
		names[i] = s.ShortName()
	}
	return strings.Join(names, " → ")
}
