// Package scheduler drives the unattended parts of the report
// lifecycle: the configured end-of-day closure and the midnight
// rollover. The trigger logic is deterministic — the wall clock is
// injected, and every decision is a pure function of the time passed
// to Tick — so the services underneath never read the clock themselves.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kmutombo/caisse-backend/internal/domain"
)

type closureService interface {
	AutoClose(ctx context.Context, date domain.Date) error
	Rollover(ctx context.Context, today domain.Date) error
}

// TimeOfDay is a wall-clock trigger time, e.g. 23:59.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("ParseTimeOfDay: %q: %w", s, err)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// On returns the trigger instant on the calendar day of t, in t's
// location.
func (tod TimeOfDay) On(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), tod.Hour, tod.Minute, 0, 0, t.Location())
}

type Scheduler struct {
	closures closureService
	closeAt  TimeOfDay
	interval time.Duration
	now      func() time.Time
	log      *slog.Logger

	currentDay    domain.Date // last day seen by Tick
	autoClosedDay domain.Date // day for which the close trigger already fired
}

func New(closures closureService, closeAt TimeOfDay, interval time.Duration, now func() time.Time, log *slog.Logger) *Scheduler {
	return &Scheduler{
		closures: closures,
		closeAt:  closeAt,
		interval: interval,
		now:      now,
		log:      log,
	}
}

// Run ticks until the context is cancelled. An immediate first tick
// catches up on any rollover missed while the process was down.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.Tick(ctx, s.now())
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Tick(ctx, s.now())
		}
	}
}

// Tick runs at most one rollover and one automatic closure for the
// instant now. It is idempotent within a day: once the close trigger
// has fired for a date it will not fire again, and the underlying
// operations are themselves no-ops on already-closed dates.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) {
	today := domain.DateOf(now)

	if s.currentDay.IsZero() {
		// First tick after a start: sweep the dates left open while the
		// process was down before treating today as current. A failure
		// leaves currentDay unset so the next tick retries.
		s.log.Info("catching up on open dates", "today", today)
		if err := s.closures.Rollover(ctx, today); err != nil {
			s.log.Error("startup rollover failed", "today", today, "error", err)
			return
		}
		s.currentDay = today
	}
	if today.After(s.currentDay) {
		s.log.Info("new day detected", "previous", s.currentDay, "today", today)
		if err := s.closures.Rollover(ctx, today); err != nil {
			s.log.Error("day rollover failed", "today", today, "error", err)
			return
		}
		s.currentDay = today
	}

	if !now.Before(s.closeAt.On(now)) && s.autoClosedDay != today {
		if err := s.closures.AutoClose(ctx, today); err != nil {
			s.log.Error("automatic closure failed", "date", today, "error", err)
			return
		}
		s.autoClosedDay = today
	}
}
