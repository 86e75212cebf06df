package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/aristath/folio/internal/domain"
	"github.com/aristath/folio/internal/events"
	"github.com/rs/zerolog"
)

// CycleRunner computes one portfolio snapshot
type CycleRunner interface {
	RunCycle(ctx context.Context) (*domain.CycleResult, error)
}

// Refresh triggers
const (
	TriggerSchedule = "schedule"
	TriggerManual   = "manual"
)

// RefreshJob runs a cycle, stores the result in the snapshot and emits an event.
// Runs never overlap: a scheduled tick that finds a cycle in progress is skipped,
// a manual refresh waits for it.
type RefreshJob struct {
	runner   CycleRunner
	snapshot *Snapshot
	events   *events.Manager
	timeout  time.Duration
	mu       sync.Mutex
	log      zerolog.Logger
}

// NewRefreshJob creates a new refresh job. timeout bounds one cycle; zero disables it.
func NewRefreshJob(runner CycleRunner, snapshot *Snapshot, eventManager *events.Manager, timeout time.Duration, log zerolog.Logger) *RefreshJob {
	return &RefreshJob{
		runner:   runner,
		snapshot: snapshot,
		events:   eventManager,
		timeout:  timeout,
		log:      log.With().Str("job", "portfolio_refresh").Logger(),
	}
}

// Name returns the job name
func (j *RefreshJob) Name() string {
	return "portfolio_refresh"
}

// Run executes a scheduled refresh
func (j *RefreshJob) Run() error {
	if !j.mu.TryLock() {
		j.log.Warn().Msg("Previous cycle still running, skipping tick")
		return nil
	}
	defer j.mu.Unlock()

	_, err := j.run(context.Background(), TriggerSchedule)
	return err
}

// Refresh runs a cycle now and returns its result
func (j *RefreshJob) Refresh(ctx context.Context) (*domain.CycleResult, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	return j.run(ctx, TriggerManual)
}

func (j *RefreshJob) run(ctx context.Context, trigger string) (*domain.CycleResult, error) {
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	result, err := j.runner.RunCycle(ctx)
	if err != nil {
		j.snapshot.Fail(err, time.Now())
		j.log.Error().Err(err).Str("trigger", trigger).Msg("Cycle failed")
		if j.events != nil {
			j.events.EmitTyped("scheduler", &events.CycleFailedData{
				Error:   err.Error(),
				Kind:    FailureKind(err),
				Trigger: trigger,
			})
		}
		return nil, err
	}

	j.snapshot.Store(result)
	if j.events != nil {
		j.events.EmitTyped("scheduler", &events.CycleCompletedData{
			CycleID:          result.ID,
			Positions:        len(result.ValuedPositions),
			Unmapped:         len(result.Unmapped),
			TotalMarketValue: result.TotalMarketValue,
			TotalGain:        result.TotalGain,
			FXFallback:       result.FXFallback,
			Trigger:          trigger,
		})
	}
	return result, nil
}

// FailureKind classifies a cycle error for clients
func FailureKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrSourceUnavailable):
		return "source_unavailable"
	case errors.Is(err, domain.ErrSchema):
		return "schema"
	default:
		return "internal"
	}
}
