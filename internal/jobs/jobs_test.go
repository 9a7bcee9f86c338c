package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"driverdesk/internal/core/application/usecases/commands"
	"driverdesk/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncerSpy struct {
	dates []string
	err   error
}

func (s *syncerSpy) Handle(_ context.Context, c commands.SyncVerificationCommand) (commands.SyncResult, error) {
	s.dates = append(s.dates, c.Date())
	return commands.SyncResult{Created: 2}, s.err
}

type sweeperSpy struct {
	calls atomic.Int32
}

func (s *sweeperSpy) Sweep() int {
	s.calls.Add(1)
	return 1
}

var (
	logger = slog.New(slog.DiscardHandler)
	clock  = kernel.FixedClock(time.Date(2024, 5, 1, 23, 59, 0, 0, time.UTC))
)

func TestVerificationSyncJob_SyncsToday(t *testing.T) {
	spy := &syncerSpy{}
	job := NewVerificationSyncJob(spy, clock, "0 */15 * * * *", time.Second, logger)

	job.Run()

	assert.Equal(t, []string{"2024-05-01"}, spy.dates)
}

func TestVerificationSyncJob_FailureIsNotFatal(t *testing.T) {
	spy := &syncerSpy{err: errors.New("sheet unavailable")}
	job := NewVerificationSyncJob(spy, clock, "0 */15 * * * *", time.Second, logger)

	assert.NotPanics(t, job.Run)
	assert.Len(t, spy.dates, 1)
}

func TestJobManager_RunsScheduledJobs(t *testing.T) {
	sweeper := &sweeperSpy{}
	jm := NewJobManager(nil, sweeper, clock, Schedule{CacheSweep: "* * * * * *"}, logger)

	require.NoError(t, jm.StartAll())
	defer jm.StopAll()

	assert.Eventually(t, func() bool { return sweeper.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}

func TestJobManager_InvalidSpecStopsStartedJobs(t *testing.T) {
	jm := NewJobManager(&syncerSpy{}, &sweeperSpy{}, clock, Schedule{
		VerificationSync: "0 */15 * * * *",
		CacheSweep:       "every now and then",
	}, logger)

	err := jm.StartAll()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "cache sweep")
	assert.Empty(t, jm.started)
}

func TestJobManager_EmptySpecDisablesJob(t *testing.T) {
	jm := NewJobManager(&syncerSpy{}, &sweeperSpy{}, clock, Schedule{}, logger)

	assert.Empty(t, jm.jobs)
	require.NoError(t, jm.StartAll())
	jm.StopAll()
}
