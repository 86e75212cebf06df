package di

import (
	"fmt"

	"github.com/aristath/folio/internal/scheduler"
	"github.com/rs/zerolog"
)

// RegisterJobs adds the refresh job to the scheduler on the configured schedule
func RegisterJobs(container *Container, sched *scheduler.Scheduler, log zerolog.Logger) error {
	if err := sched.AddJob(container.Config.RefreshSchedule, container.RefreshJob); err != nil {
		return fmt.Errorf("failed to register refresh job: %w", err)
	}

	log.Info().
		Str("schedule", container.Config.RefreshSchedule).
		Str("job", container.RefreshJob.Name()).
		Msg("Jobs registered")
	return nil
}
