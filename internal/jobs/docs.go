// Package jobs provides scheduled background tasks for the dispatch desk.
//
// Jobs are cron-based (github.com/robfig/cron/v3, six-field specs with seconds):
//
//  1. VerificationSyncJob imports today's expected orders from the spreadsheet
//     and links them to the scans that already happened.
//  2. CacheSweepJob evicts expired driver views from the read cache.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(syncHandler, viewCache, clock, jobs.Schedule{
//		VerificationSync:        "0 */15 * * * *",
//		VerificationSyncTimeout: 30 * time.Second,
//		CacheSweep:              "0 * * * * *",
//	}, logger)
//	if err := jobManager.StartAll(); err != nil {
//		return err
//	}
//	defer jobManager.StopAll()
//
// A job failure is logged and the next tick runs normally.
package jobs
