package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/c0ughman/nasdaqst/backend/pkg/logger"
)

// Pruner deletes sentiment entries last written before cutoff
type Pruner interface {
	Prune(ctx context.Context, cutoff time.Time) (int64, error)
}

// RetentionJob prunes sentiment entries older than the retention window.
// Pruned fingerprints are simply scored again if they ever reappear.
type RetentionJob struct {
	pruner    Pruner
	retention time.Duration
	clock     clockwork.Clock
	logger    *logger.Logger
}

// NewRetentionJob creates a new retention job
func NewRetentionJob(pruner Pruner, retention time.Duration, clock clockwork.Clock, log *logger.Logger) *RetentionJob {
	return &RetentionJob{
		pruner:    pruner,
		retention: retention,
		clock:     clock,
		logger:    log.WithComponent("retention_job"),
	}
}

// Name returns the job name
func (j *RetentionJob) Name() string {
	return "sentiment_retention"
}

// Schedule returns the cron schedule (03:30 daily)
func (j *RetentionJob) Schedule() string {
	return "0 30 3 * * *"
}

// Run executes the prune
func (j *RetentionJob) Run(ctx context.Context) error {
	if j.retention <= 0 {
		j.logger.Debug("Retention disabled")
		return nil
	}

	cutoff := j.clock.Now().Add(-j.retention)
	removed, err := j.pruner.Prune(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("prune sentiment: %w", err)
	}

	if removed > 0 {
		j.logger.WithFields(map[string]interface{}{
			"removed": removed,
			"cutoff":  cutoff,
		}).Info("Sentiment retention completed")
	}

	return nil
}
