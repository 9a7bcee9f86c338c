package jobs

import (
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Sweeper evicts expired entries and reports how many were removed.
type Sweeper interface {
	Sweep() int
}

// CacheSweepJob bounds the memory held by expired read views.
type CacheSweepJob struct {
	sweeper Sweeper
	spec    string
	cron    *cron.Cron
	logger  *slog.Logger
}

func NewCacheSweepJob(sweeper Sweeper, spec string, logger *slog.Logger) *CacheSweepJob {
	return &CacheSweepJob{
		sweeper: sweeper,
		spec:    spec,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "cache_sweep_job"),
	}
}

func (j *CacheSweepJob) Start() error {
	if _, err := j.cron.AddFunc(j.spec, j.Run); err != nil {
		return fmt.Errorf("schedule %q: %w", j.spec, err)
	}

	j.cron.Start()
	j.logger.Info("Cache sweep job started", "spec", j.spec)
	return nil
}

func (j *CacheSweepJob) Run() {
	if n := j.sweeper.Sweep(); n > 0 {
		j.logger.Debug("Expired views evicted", "count", n)
	}
}

func (j *CacheSweepJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Cache sweep job stopped")
}
