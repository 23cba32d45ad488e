package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c0ughman/nasdaqst/backend/internal/brain"
	"github.com/c0ughman/nasdaqst/backend/internal/contracts"
	"github.com/c0ughman/nasdaqst/backend/pkg/logger"
)

type fakeRunner struct {
	cfgs []brain.RunConfig
	err  error
}

func (r *fakeRunner) Run(_ context.Context, cfg brain.RunConfig) (*brain.RunResult, error) {
	r.cfgs = append(r.cfgs, cfg)
	if r.err != nil {
		return nil, r.err
	}
	return &brain.RunResult{Result: &contracts.CompositeResult{ID: uuid.New(), Score: 12.5, Label: contracts.LabelNeutral}}, nil
}

func TestAnalysisJob(t *testing.T) {
	runner := &fakeRunner{}
	job := NewAnalysisJob(runner, "0 */5 * * * *", logger.Nop())

	assert.Equal(t, "analysis", job.Name())
	assert.Equal(t, "0 */5 * * * *", job.Schedule())

	require.NoError(t, job.Run(context.Background()))
	require.Len(t, runner.cfgs, 1)
	assert.False(t, runner.cfgs[0].DryRun)
	assert.False(t, runner.cfgs[0].Force)

	runner.err = errors.New("S0: finnhub down")
	err := job.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "S0")
}

type fakePruner struct {
	cutoff time.Time
	n      int64
	err    error
}

func (p *fakePruner) Prune(_ context.Context, cutoff time.Time) (int64, error) {
	p.cutoff = cutoff
	return p.n, p.err
}

func TestRetentionJob(t *testing.T) {
	now := time.Date(2025, 3, 10, 3, 30, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(now)

	tests := []struct {
		name       string
		retention  time.Duration
		pruneErr   error
		wantErr    bool
		wantCutoff time.Time
	}{
		{name: "thirty days", retention: 720 * time.Hour, wantCutoff: now.Add(-720 * time.Hour)},
		{name: "disabled", retention: 0},
		{name: "database error", retention: time.Hour, pruneErr: errors.New("timeout"), wantErr: true, wantCutoff: now.Add(-time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakePruner{n: 3, err: tt.pruneErr}
			err := NewRetentionJob(p, tt.retention, clock, logger.Nop()).Run(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.True(t, tt.wantCutoff.Equal(p.cutoff))
		})
	}
}
