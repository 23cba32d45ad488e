package jobs

import (
	"context"
	"fmt"

	"github.com/c0ughman/nasdaqst/backend/internal/brain"
	"github.com/c0ughman/nasdaqst/backend/pkg/logger"
)

// Runner executes one composite run
type Runner interface {
	Run(ctx context.Context, cfg brain.RunConfig) (*brain.RunResult, error)
}

// AnalysisJob runs the composite analysis on the configured schedule
// ⭐ SSOT: 분석 실행 스케줄은 이 Job에서만
type AnalysisJob struct {
	runner   Runner
	schedule string
	logger   *logger.Logger
}

// NewAnalysisJob creates a new analysis job
func NewAnalysisJob(runner Runner, schedule string, log *logger.Logger) *AnalysisJob {
	return &AnalysisJob{
		runner:   runner,
		schedule: schedule,
		logger:   log.WithComponent("analysis_job"),
	}
}

// Name returns the job name
func (j *AnalysisJob) Name() string {
	return "analysis"
}

// Schedule returns the cron schedule (ANALYSIS_SCHEDULE, every 5 minutes by default)
func (j *AnalysisJob) Schedule() string {
	return j.schedule
}

// Run executes one composite run
func (j *AnalysisJob) Run(ctx context.Context) error {
	res, err := j.runner.Run(ctx, brain.RunConfig{})
	if err != nil {
		return fmt.Errorf("analysis run: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"run_id":    res.Result.ID.String(),
		"composite": res.Result.Score,
		"label":     res.Result.Label,
		"reused":    res.Result.Reused,
	}).Debug("Scheduled analysis finished")

	return nil
}
