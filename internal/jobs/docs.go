// Package jobs provides scheduled background tasks for the dispatch system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for the dispatch service.
//
// # Available Jobs
//
// 1. StaleAssignmentJob - Runs every minute to cancel assignments that were
// dispatched but never accepted within the acceptance window, releasing
// their couriers back to the available pool.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(releaseStaleHandler, staleMaxAge, logger)
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
// - The sweep logs failures and retries on the next tick; an assignment
// accepted while the sweep runs is skipped, not cancelled.
// - Failed job starts will stop any already running jobs.
package jobs
