// Package scheduler triggers the daily sync at a fixed UTC hour.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/hairlooks/salonbridge/internal/domain"
)

// Runner is the sync entrypoint the scheduler drives.
type Runner interface {
	RunDailySync(ctx context.Context, target *time.Time) (domain.SyncResult, error)
}

// Scheduler fires one sync run per day. Overlapping or repeated runs
// are harmless: retiring records is idempotent and already-processed
// records are never fetched again.
type Scheduler struct {
	runner Runner
	hour   int
	log    *slog.Logger
	now    func() time.Time
}

// New creates a scheduler that runs at hour:00 UTC every day.
func New(runner Runner, hour int, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		runner: runner,
		hour:   hour,
		log:    logger.With("component", "scheduler"),
		now:    time.Now,
	}
}

// Run blocks until ctx is cancelled, invoking one sync per daily tick.
// Each run syncs yesterday's records; run errors are logged and the
// loop continues with the next tick.
func (s *Scheduler) Run(ctx context.Context) {
	for {
		next := nextRun(s.now().UTC(), s.hour)
		s.log.InfoContext(ctx, "next sync scheduled", slog.Time("at", next))

		timer := time.NewTimer(next.Sub(s.now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.log.InfoContext(ctx, "scheduler stopped")
			return
		case <-timer.C:
		}

		result, err := s.runner.RunDailySync(ctx, nil)
		if err != nil {
			s.log.ErrorContext(ctx, "scheduled sync failed", slog.String("error", err.Error()))
			continue
		}
		s.log.InfoContext(ctx, "scheduled sync finished",
			slog.String("date", result.Date),
			slog.Int("records", result.Records),
			slog.Int("succeeded", result.Succeeded),
			slog.Int("failed", result.Failed),
		)
	}
}

// nextRun returns the first hour:00 UTC strictly after now.
func nextRun(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
