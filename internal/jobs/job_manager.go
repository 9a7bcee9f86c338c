package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"driverdesk/internal/core/domain/model/kernel"
)

// Schedule holds the cron specs of the background jobs. An empty spec
// disables that job.
type Schedule struct {
	VerificationSync        string
	VerificationSyncTimeout time.Duration
	CacheSweep              string
}

// Job is a scheduled background task.
type Job interface {
	Start() error
	Stop()
}

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	jobs    []namedJob
	started []namedJob
}

type namedJob struct {
	name string
	job  Job
}

// NewJobManager creates the jobs enabled by schedule.
func NewJobManager(
	syncHandler VerificationSyncer,
	sweeper Sweeper,
	clock kernel.Clock,
	schedule Schedule,
	logger *slog.Logger,
) *JobManager {
	jm := &JobManager{}
	if schedule.VerificationSync != "" && syncHandler != nil {
		jm.jobs = append(jm.jobs, namedJob{
			name: "verification sync",
			job: NewVerificationSyncJob(
				syncHandler, clock, schedule.VerificationSync, schedule.VerificationSyncTimeout, logger,
			),
		})
	}
	if schedule.CacheSweep != "" && sweeper != nil {
		jm.jobs = append(jm.jobs, namedJob{
			name: "cache sweep",
			job:  NewCacheSweepJob(sweeper, schedule.CacheSweep, logger),
		})
	}
	return jm
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start; jobs already started are stopped.
func (jm *JobManager) StartAll() error {
	for _, j := range jm.jobs {
		if err := j.job.Start(); err != nil {
			jm.StopAll()
			return fmt.Errorf("failed to start %s job: %w", j.name, err)
		}
		jm.started = append(jm.started, j)
	}
	return nil
}

// StopAll stops the started jobs gracefully, waiting for running executions.
func (jm *JobManager) StopAll() {
	for i := len(jm.started) - 1; i >= 0; i-- {
		jm.started[i].job.Stop()
	}
	jm.started = nil
}
