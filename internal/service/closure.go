package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kmutombo/caisse-backend/internal/domain"
	"github.com/kmutombo/caisse-backend/internal/events"
	"github.com/kmutombo/caisse-backend/internal/logging"
)

// ClosureService is the OPEN/CLOSED state machine for daily reports.
// Manual Close and Reopen return business-rule errors verbatim; the
// unattended AutoClose and Rollover paths never fail on business rules,
// they log and emit a ClosureSkipped event instead.
type ClosureService struct {
	totals    *Aggregator
	reports   reportStore
	locks     *DateLocker
	publisher events.Publisher
	now       func() time.Time
}

func NewClosureService(totals *Aggregator, reports reportStore, locks *DateLocker, publisher events.Publisher, now func() time.Time) *ClosureService {
	return &ClosureService{
		totals:    totals,
		reports:   reports,
		locks:     locks,
		publisher: publisher,
		now:       now,
	}
}

func (s *ClosureService) Close(ctx context.Context, date domain.Date) error {
	if !date.Valid() {
		return fmt.Errorf("Close: %q: %w", date, domain.ErrInvalidDate)
	}

	s.locks.Lock(date)
	defer s.locks.Unlock(date)

	closed, err := s.isClosed(ctx, date)
	if err != nil {
		return fmt.Errorf("Close: %w", err)
	}
	if closed {
		return fmt.Errorf("Close: %s: %w", date, domain.ErrAlreadyClosed)
	}

	totals, err := s.totals.DailyTotals(ctx, date)
	if err != nil {
		return fmt.Errorf("Close: %w", err)
	}
	if totals.Revenue.Sign() <= 0 {
		return fmt.Errorf("Close: %s: %w", date, domain.ErrNoRevenue)
	}

	return s.close(ctx, date, totals, false)
}

func (s *ClosureService) Reopen(ctx context.Context, date domain.Date) error {
	if !date.Valid() {
		return fmt.Errorf("Reopen: %q: %w", date, domain.ErrInvalidDate)
	}

	s.locks.Lock(date)
	defer s.locks.Unlock(date)

	closed, err := s.isClosed(ctx, date)
	if err != nil {
		return fmt.Errorf("Reopen: %w", err)
	}
	if !closed {
		return fmt.Errorf("Reopen: %s: %w", date, domain.ErrNotClosed)
	}

	if err := s.reports.SetOpen(ctx, date); err != nil {
		return fmt.Errorf("Reopen: %w", err)
	}

	s.publish(ctx, events.ReportReopened{
		EventID:    uuid.New(),
		Type:       events.TypeReportReopened,
		Date:       date,
		ReopenedAt: s.now().UTC(),
	})
	return nil
}

// AutoClose behaves like Close but runs unattended: an already-closed
// date and a zero-revenue date are both quiet no-ops, the latter
// surfaced as a skip event rather than an error.
func (s *ClosureService) AutoClose(ctx context.Context, date domain.Date) error {
	s.locks.Lock(date)
	defer s.locks.Unlock(date)

	closed, err := s.isClosed(ctx, date)
	if err != nil {
		return fmt.Errorf("AutoClose: %w", err)
	}
	if closed {
		return nil
	}

	totals, err := s.totals.DailyTotals(ctx, date)
	if err != nil {
		return fmt.Errorf("AutoClose: %w", err)
	}
	if totals.Revenue.Sign() <= 0 {
		logging.FromContext(ctx).Info("automatic closure skipped, no revenue", "date", date)
		s.publish(ctx, events.ClosureSkipped{
			EventID: uuid.New(),
			Type:    events.TypeClosureSkipped,
			Date:    date,
			Reason:  events.ReasonNoRevenue,
			At:      s.now().UTC(),
		})
		return nil
	}

	return s.close(ctx, date, totals, true)
}

// Rollover closes every still-open date strictly before today that has
// revenue, and leaves zero-revenue days open as null days. Running it
// again with the same input changes nothing.
func (s *ClosureService) Rollover(ctx context.Context, today domain.Date) error {
	dates, err := s.reports.ListOpenDatesBefore(ctx, today)
	if err != nil {
		return fmt.Errorf("Rollover: %w", err)
	}

	for _, date := range dates {
		if err := s.AutoClose(ctx, date); err != nil {
			return fmt.Errorf("Rollover: %w", err)
		}
	}
	return nil
}

// close persists the transition; callers hold the date lock and have
// verified the preconditions.
func (s *ClosureService) close(ctx context.Context, date domain.Date, totals domain.DailyTotals, automatic bool) error {
	closedAt := s.now().UTC()
	if err := s.reports.SetClosed(ctx, date, closedAt); err != nil {
		return err
	}

	logging.FromContext(ctx).Info("daily report closed",
		"date", date,
		"balance", totals.Balance(),
		"automatic", automatic,
	)

	s.publish(ctx, events.ReportClosed{
		EventID:   uuid.New(),
		Type:      events.TypeReportClosed,
		Date:      date,
		Revenue:   totals.Revenue,
		Expense:   totals.NormalExpense,
		Balance:   totals.Balance(),
		Automatic: automatic,
		ClosedAt:  closedAt,
	})
	return nil
}

func (s *ClosureService) isClosed(ctx context.Context, date domain.Date) (bool, error) {
	report, err := s.reports.Get(ctx, date)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return report.Closed(), nil
}

// publish failures do not roll back a committed transition; they are an
// operational concern, not a caller error.
func (s *ClosureService) publish(ctx context.Context, event any) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		logging.FromContext(ctx).Warn("failed to publish closure event",
			slog.Any("event", event), "error", err)
	}
}
