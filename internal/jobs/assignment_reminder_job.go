package jobs

import (
	"context"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// AssignmentReminderJob periodically re-surfaces orders still waiting for an
// agent. Runs every minute and notifies the admin room about the backlog.
type AssignmentReminderJob struct {
	handler commands.RemindUnassignedOrdersCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewAssignmentReminderJob creates the reminder sweep job.
func NewAssignmentReminderJob(
	handler commands.RemindUnassignedOrdersCommandHandler, logger *slog.Logger,
) *AssignmentReminderJob {
	return &AssignmentReminderJob{
		handler: handler,
		cron:    cron.New(),
		logger:  logger.With("component", "assignment_reminder_job"),
	}
}

// Start schedules the sweep to run every minute.
func (j *AssignmentReminderJob) Start() error {
	_, err := j.cron.AddFunc("* * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewRemindUnassignedOrdersCommand()

		backlog, err := j.handler.Handle(ctx, cmd)
		if err != nil {
			j.logger.ErrorContext(ctx, "Assignment reminder sweep failed", "error", err)
			return
		}
		if backlog > 0 {
			j.logger.InfoContext(ctx, "Orders still awaiting assignment", "count", backlog)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Assignment reminder job started (running every minute)")
	return nil
}

// Stop stops the reminder job.
func (j *AssignmentReminderJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Assignment reminder job stopped")
}
