// Package jobs provides scheduled background tasks for the fulfillment system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for commission settlement.
//
// # Available Jobs
//
// 1. FinalizeCommissionsJob - Runs every 30 seconds to finalize delivered
// orders that have no commission record yet
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(finalizePendingHandler, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The sweep uses the cron expression "*/30 * * * * *". Each sweep finalizes
// every eligible order in its own transaction, so a long sweep never blocks
// the inline finalization path.
//
// # Error Handling
//
// - Insert races with the inline path or a rival sweep count as success
// - Per-order failures are joined and logged without aborting the sweep
package jobs
