package jobs

import (
	"fmt"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	assignmentReminderJob *AssignmentReminderJob
	trackingStreamJob     *TrackingStreamJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	reminderHandler commands.RemindUnassignedOrdersCommandHandler,
	buffer EventBuffer,
	sink EventSink,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		assignmentReminderJob: NewAssignmentReminderJob(reminderHandler, logger),
		trackingStreamJob:     NewTrackingStreamJob(buffer, sink, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.assignmentReminderJob.Start(); err != nil {
		return fmt.Errorf("failed to start assignment reminder job: %w", err)
	}

	if err := jm.trackingStreamJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.assignmentReminderJob.Stop()
		return fmt.Errorf("failed to start tracking stream job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.trackingStreamJob.Stop()
	jm.assignmentReminderJob.Stop()
}
