package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"driverdesk/internal/core/application/usecases/commands"
	"driverdesk/internal/core/domain/model/kernel"

	"github.com/robfig/cron/v3"
)

// VerificationSyncer imports one day of expected orders.
type VerificationSyncer interface {
	Handle(ctx context.Context, command commands.SyncVerificationCommand) (commands.SyncResult, error)
}

// VerificationSyncJob imports today's expected orders on a schedule so that
// the admin review is current without a manual sync.
type VerificationSyncJob struct {
	handler VerificationSyncer
	clock   kernel.Clock
	spec    string
	timeout time.Duration
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewVerificationSyncJob schedules handler with a six-field cron spec.
func NewVerificationSyncJob(
	handler VerificationSyncer,
	clock kernel.Clock,
	spec string,
	timeout time.Duration,
	logger *slog.Logger,
) *VerificationSyncJob {
	return &VerificationSyncJob{
		handler: handler,
		clock:   clock,
		spec:    spec,
		timeout: timeout,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "verification_sync_job"),
	}
}

func (j *VerificationSyncJob) Start() error {
	if _, err := j.cron.AddFunc(j.spec, j.Run); err != nil {
		return fmt.Errorf("schedule %q: %w", j.spec, err)
	}

	j.cron.Start()
	j.logger.Info("Verification sync job started", "spec", j.spec)
	return nil
}

// Run syncs the current day once.
func (j *VerificationSyncJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	day := kernel.FormatDate(j.clock.Now())
	cmd, err := commands.NewSyncVerificationCommand(day)
	if err != nil {
		j.logger.ErrorContext(ctx, "Verification sync job failed", "date", day, "error", err)
		return
	}

	result, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Verification sync job failed", "date", day, "error", err)
		return
	}
	j.logger.InfoContext(ctx, "Verification rows synced",
		"date", day,
		"created", result.Created,
		"backfilled", result.Backfilled,
		"skipped", result.Skipped,
	)
}

func (j *VerificationSyncJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Verification sync job stopped")
}
