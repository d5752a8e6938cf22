/**
 * @description
 * Cron scheduler setup for the weekly reminder job.
 */
package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler manages the cron job.
type Scheduler struct {
	cron         *cron.Cron
	jobs         *Jobs
	logger       *slog.Logger
	schedule     string
	runOnStartup bool
	startup      sync.WaitGroup
}

// NewScheduler creates a new scheduler instance evaluating schedule in loc.
func NewScheduler(jobs *Jobs, logger *slog.Logger, schedule string, loc *time.Location, runOnStartup bool) *Scheduler {
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	c := cron.New(cron.WithLocation(loc), cron.WithChain(cron.Recover(cronLogger)))

	return &Scheduler{
		cron:         c,
		jobs:         jobs,
		logger:       logger,
		schedule:     schedule,
		runOnStartup: runOnStartup,
	}
}

// Start registers the job and starts the cron scheduler.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.jobs.SendWeeklyReminders); err != nil {
		return fmt.Errorf("failed to schedule weekly reminder job: %w", err)
	}
	s.logger.Info("scheduled weekly reminder job", "schedule", s.schedule, "location", s.cron.Location().String())

	s.cron.Start()

	if s.runOnStartup {
		s.startup.Add(1)
		go func() {
			defer s.startup.Done()
			s.jobs.SendWeeklyReminders()
		}()
	}
	return nil
}

// Next returns the next activation time, or the zero time when nothing is scheduled.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// Stop gracefully stops the cron scheduler. The returned context is done once running
// cron jobs and the startup run have finished.
func (s *Scheduler) Stop() context.Context {
	cronCtx := s.cron.Stop()
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-cronCtx.Done()
		s.startup.Wait()
		cancel()
	}()
	return ctx
}
