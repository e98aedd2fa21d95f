package jobs

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// StaleAssignmentJob periodically cancels assignments that were dispatched
// but never accepted within the acceptance window, returning their couriers
// to the available pool.
type StaleAssignmentJob struct {
	handler commands.ReleaseStaleAssignmentsCommandHandler
	maxAge  time.Duration
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewStaleAssignmentJob creates a job sweeping assignments older than maxAge.
// The sweep runs once a minute.
func NewStaleAssignmentJob(
	handler commands.ReleaseStaleAssignmentsCommandHandler,
	maxAge time.Duration,
	logger *slog.Logger,
) *StaleAssignmentJob {
	return &StaleAssignmentJob{
		handler: handler,
		maxAge:  maxAge,
		cron:    cron.New(),
		logger:  logger.With("component", "stale_assignment_job"),
	}
}

// Start begins the stale assignment sweep.
func (j *StaleAssignmentJob) Start() error {
	_, err := j.cron.AddFunc("* * * * *", func() {
		ctx := context.Background()

		cmd, err := commands.NewReleaseStaleAssignmentsCommand(j.maxAge)
		if err != nil {
			j.logger.ErrorContext(ctx, "Stale assignment sweep misconfigured", "error", err)
			return
		}

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Stale assignment sweep failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Stale assignment job started (running every minute)",
		"max_age", j.maxAge.String())
	return nil
}

// Stop stops the stale assignment sweep.
func (j *StaleAssignmentJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Stale assignment job stopped")
}
