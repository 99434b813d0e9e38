// Package jobs provides scheduled background tasks for the invoicing system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for the order-merge workflow.
//
// # Available Jobs
//
// 1. MergeReconciliationJob - Runs every minute to detect orphaned merge
// sources: orders flagged as consumed whose recorded aggregate target is
// missing or no longer flagged as an aggregate.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with the unit of work factory
//	jobManager := jobs.NewJobManager(uowFactory, logger)
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
// The reconciliation job is detection only: orphans are logged at warn level
// and never repaired automatically. Infrastructure failures are logged at
// error level and the job retries on the next tick.
package jobs
