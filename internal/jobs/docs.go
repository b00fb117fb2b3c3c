// Package jobs provides scheduled background tasks for the dispatch system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for the dispatch service.
//
// # Available Jobs
//
// 1. AssignmentReminderJob - Runs every minute to notify admins about orders still awaiting an agent
// 2. TrackingStreamJob - Runs every five seconds to mirror buffered order events onto the external tracking stream
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(reminderHandler, outbox, kafkaWriter, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - The reminder job logs sweep failures and moves on; the next tick retries
// - The stream job requeues a failed batch at the front of the buffer so event order survives broker outages
// - Failed job starts will stop any already running jobs
package jobs
