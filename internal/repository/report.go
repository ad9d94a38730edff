package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kmutombo/caisse-backend/internal/domain"
)

type ReportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Get(ctx context.Context, date domain.Date) (*domain.DailyReport, error) {
	var (
		reportDate time.Time
		closed     bool
		closedAt   sql.NullTime
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT report_date, closed, closed_at FROM daily_reports WHERE report_date = $1`,
		date.Time(),
	).Scan(&reportDate, &closed, &closedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("Get: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("Get: %w", err)
	}

	report := &domain.DailyReport{
		Date:   domain.DateOf(reportDate),
		Status: domain.ReportStatusOpen,
	}
	if closed {
		report.Status = domain.ReportStatusClosed
		if closedAt.Valid {
			at := closedAt.Time
			report.ClosedAt = &at
		}
	}
	return report, nil
}

// SetClosed upserts the closure record; calling it again with the same
// date is harmless.
func (r *ReportRepository) SetClosed(ctx context.Context, date domain.Date, closedAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO daily_reports (report_date, closed, closed_at)
		 VALUES ($1, TRUE, $2)
		 ON CONFLICT (report_date)
		 DO UPDATE SET closed = TRUE, closed_at = EXCLUDED.closed_at`,
		date.Time(), closedAt,
	)
	if err != nil {
		return fmt.Errorf("SetClosed: %w", err)
	}
	return nil
}

func (r *ReportRepository) SetOpen(ctx context.Context, date domain.Date) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO daily_reports (report_date, closed, closed_at)
		 VALUES ($1, FALSE, NULL)
		 ON CONFLICT (report_date)
		 DO UPDATE SET closed = FALSE, closed_at = NULL`,
		date.Time(),
	)
	if err != nil {
		return fmt.Errorf("SetOpen: %w", err)
	}
	return nil
}

// ListByStatus returns closed reports from their closure rows; open
// reports are the dates that have transactions but no closed row, since
// absence of a row means open.
func (r *ReportRepository) ListByStatus(ctx context.Context, status domain.ReportStatus) ([]domain.DailyReport, error) {
	if status == domain.ReportStatusClosed {
		return r.listClosed(ctx)
	}
	return r.listOpen(ctx)
}

func (r *ReportRepository) listClosed(ctx context.Context) ([]domain.DailyReport, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT report_date, closed_at FROM daily_reports
		 WHERE closed = TRUE ORDER BY report_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("listClosed: %w", err)
	}
	defer rows.Close()

	var reports []domain.DailyReport
	for rows.Next() {
		var (
			reportDate time.Time
			closedAt   sql.NullTime
		)
		if err := rows.Scan(&reportDate, &closedAt); err != nil {
			return nil, fmt.Errorf("listClosed: scan: %w", err)
		}
		report := domain.DailyReport{
			Date:   domain.DateOf(reportDate),
			Status: domain.ReportStatusClosed,
		}
		if closedAt.Valid {
			at := closedAt.Time
			report.ClosedAt = &at
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listClosed: rows: %w", err)
	}
	return reports, nil
}

func (r *ReportRepository) listOpen(ctx context.Context) ([]domain.DailyReport, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT t.business_date
		 FROM transactions t
		 LEFT JOIN daily_reports r ON t.business_date = r.report_date
		 WHERE r.closed IS NULL OR r.closed = FALSE
		 ORDER BY t.business_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("listOpen: %w", err)
	}
	defer rows.Close()

	var reports []domain.DailyReport
	for rows.Next() {
		var reportDate time.Time
		if err := rows.Scan(&reportDate); err != nil {
			return nil, fmt.Errorf("listOpen: scan: %w", err)
		}
		reports = append(reports, domain.DailyReport{
			Date:   domain.DateOf(reportDate),
			Status: domain.ReportStatusOpen,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listOpen: rows: %w", err)
	}
	return reports, nil
}

// ListOpenDatesBefore feeds the day-rollover scan: every date strictly
// before today that has transactions and is not closed, oldest first.
func (r *ReportRepository) ListOpenDatesBefore(ctx context.Context, today domain.Date) ([]domain.Date, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT t.business_date
		 FROM transactions t
		 LEFT JOIN daily_reports r ON t.business_date = r.report_date
		 WHERE (r.closed IS NULL OR r.closed = FALSE)
		   AND t.business_date < $1
		 ORDER BY t.business_date`,
		today.Time(),
	)
	if err != nil {
		return nil, fmt.Errorf("ListOpenDatesBefore: %w", err)
	}
	defer rows.Close()

	var dates []domain.Date
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("ListOpenDatesBefore: scan: %w", err)
		}
		dates = append(dates, domain.DateOf(d))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListOpenDatesBefore: rows: %w", err)
	}
	return dates, nil
}
