// Package scheduler provides unified scheduler management using gocron v2.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"vonix/internal/shared/biztime"
	"vonix/internal/shared/logger"
)

// SweepJob is a scheduled batch job. Execute returns the number of items
// it processed.
type SweepJob interface {
	Execute(ctx context.Context) (int, error)
}

// SchedulerManager manages the optional in-process jobs. Deployments that
// prefer an external cron hit the sweep endpoint instead and leave this
// disabled.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	started   bool
	startedMu sync.RWMutex
}

// NewSchedulerManager creates a new SchedulerManager instance using the
// business timezone for schedules.
func NewSchedulerManager(log logger.Interface) (*SchedulerManager, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(biztime.Location()),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulerManager{
		scheduler: scheduler,
		logger:    log,
	}, nil
}

// RegisterRankJobs registers the rank expiry sweep at the given interval.
func (m *SchedulerManager) RegisterRankJobs(sweepJob SweepJob, interval time.Duration) error {
	_, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()

			removed, err := sweepJob.Execute(ctx)
			if err != nil {
				m.logger.Errorw("rank expiry sweep failed", "error", err)
				return
			}
			if removed > 0 {
				m.logger.Infow("rank expiry sweep completed", "removed", removed)
			}
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("rank", "expiry"),
		gocron.WithName("rank-expiry-sweep"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered rank jobs", "interval", interval)
	return nil
}

// Start begins executing registered jobs. Idempotent.
func (m *SchedulerManager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler started")
}

// Stop shuts down the scheduler and waits for running jobs to finish.
func (m *SchedulerManager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	if err := m.scheduler.Shutdown(); err != nil {
		m.logger.Errorw("failed to shutdown scheduler", "error", err)
		return err
	}

	m.started = false
	m.logger.Infow("scheduler stopped")
	return nil
}
