package contracts

import (
	"time"

	"github.com/google/uuid"
)

// Label is a sentiment classification of a score
type Label string

const (
	LabelStronglyBullish Label = "STRONGLY_BULLISH"
	LabelBullish         Label = "BULLISH"
	LabelNeutral         Label = "NEUTRAL"
	LabelBearish         Label = "BEARISH"
	LabelStronglyBearish Label = "STRONGLY_BEARISH"
)

// DriverWeights are the blend weights of the composite
type DriverWeights struct {
	News      float64 `json:"news" yaml:"news"`
	Social    float64 `json:"social" yaml:"social"`
	Technical float64 `json:"technical" yaml:"technical"`
	Analyst   float64 `json:"analyst" yaml:"analyst"`
}

// Sum returns the total weight
func (w DriverWeights) Sum() float64 {
	return w.News + w.Social + w.Technical + w.Analyst
}

// CompositeResult is one scored snapshot. Never mutated after Save;
// a later run creates a new result.
// ⭐ SSOT: S3 → 저장/조회 최종 결과
type CompositeResult struct {
	ID           uuid.UUID        `json:"id"`
	Symbol       string           `json:"symbol"`
	Timestamp    time.Time        `json:"timestamp"`
	Drivers      DriverScores     `json:"drivers"`
	Weights      DriverWeights    `json:"weights"`
	Score        float64          `json:"score"`         // -100 ~ 100
	Label        Label            `json:"label"`         // 3단계 (dashboard)
	HistoryLabel Label            `json:"history_label"` // 5단계 (history)
	Price        *PriceSnapshot   `json:"price,omitempty"`
	Indicators   Indicators       `json:"indicators"`
	News         NewsBreakdown    `json:"news"`
	Social       SocialBreakdown  `json:"social"`
	Analyst      AnalystBreakdown `json:"analyst"`
	Counts       RunCounts        `json:"counts"`
	Reused       bool             `json:"reused"`
	ConfigHash   string           `json:"config_hash"`
}
