// Package memory provides an in-memory ledger store with the same
// behavior as the Postgres repositories. It backs the service unit
// tests and is safe for concurrent use.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kmutombo/caisse-backend/internal/domain"
)

type Store struct {
	mu           sync.Mutex
	nextID       int64
	transactions map[int64]domain.Transaction
	reports      map[domain.Date]domain.DailyReport
}

func NewStore() *Store {
	return &Store{
		nextID:       1,
		transactions: make(map[int64]domain.Transaction),
		reports:      make(map[domain.Date]domain.DailyReport),
	}
}

func (s *Store) Insert(ctx context.Context, t *domain.Transaction) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t.ID = s.nextID
	s.nextID++
	s.transactions[t.ID] = *t
	return t.ID, nil
}

func (s *Store) Update(ctx context.Context, id int64, amount *decimal.Decimal, description *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.transactions[id]
	if !ok {
		return fmt.Errorf("Update: %w", domain.ErrNotFound)
	}
	if amount != nil {
		t.Amount = *amount
	}
	if description != nil {
		t.Description = *description
	}
	s.transactions[id] = t
	return nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.transactions[id]; !ok {
		return fmt.Errorf("Delete: %w", domain.ErrNotFound)
	}
	delete(s.transactions, id)
	return nil
}

func (s *Store) GetByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.transactions[id]
	if !ok {
		return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
	}
	return &t, nil
}

func (s *Store) List(ctx context.Context, f domain.TransactionFilter) ([]domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var txns []domain.Transaction
	for _, t := range s.transactions {
		if matches(t, f) {
			txns = append(txns, t)
		}
	}
	sort.Slice(txns, func(i, j int) bool {
		if txns[i].CreatedAt.Equal(txns[j].CreatedAt) {
			return txns[i].ID > txns[j].ID
		}
		return txns[i].CreatedAt.After(txns[j].CreatedAt)
	})
	return txns, nil
}

func matches(t domain.Transaction, f domain.TransactionFilter) bool {
	if f.Date != nil && t.BusinessDate != *f.Date {
		return false
	}
	if f.From != nil && t.BusinessDate.Before(*f.From) {
		return false
	}
	if f.To != nil && t.BusinessDate.After(*f.To) {
		return false
	}
	if f.Kind != nil && t.Kind != *f.Kind {
		return false
	}
	if f.Category != nil && t.Category != *f.Category {
		return false
	}
	return true
}

func (s *Store) Get(ctx context.Context, date domain.Date) (*domain.DailyReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.reports[date]
	if !ok {
		return nil, fmt.Errorf("Get: %w", domain.ErrNotFound)
	}
	return &r, nil
}

func (s *Store) SetClosed(ctx context.Context, date domain.Date, closedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	at := closedAt
	s.reports[date] = domain.DailyReport{
		Date:     date,
		Status:   domain.ReportStatusClosed,
		ClosedAt: &at,
	}
	return nil
}

func (s *Store) SetOpen(ctx context.Context, date domain.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reports[date] = domain.DailyReport{
		Date:   date,
		Status: domain.ReportStatusOpen,
	}
	return nil
}

func (s *Store) ListByStatus(ctx context.Context, status domain.ReportStatus) ([]domain.DailyReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var reports []domain.DailyReport
	if status == domain.ReportStatusClosed {
		for _, r := range s.reports {
			if r.Status == domain.ReportStatusClosed {
				reports = append(reports, r)
			}
		}
	} else {
		for _, date := range s.openDatesLocked() {
			reports = append(reports, domain.DailyReport{
				Date:   date,
				Status: domain.ReportStatusOpen,
			})
		}
	}
	sort.Slice(reports, func(i, j int) bool {
		return reports[i].Date.After(reports[j].Date)
	})
	return reports, nil
}

func (s *Store) ListOpenDatesBefore(ctx context.Context, today domain.Date) ([]domain.Date, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var dates []domain.Date
	for _, d := range s.openDatesLocked() {
		if d.Before(today) {
			dates = append(dates, d)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

// openDatesLocked mirrors the SQL definition of an open report: a date
// with at least one transaction and no closed report row.
func (s *Store) openDatesLocked() []domain.Date {
	seen := make(map[domain.Date]bool)
	var dates []domain.Date
	for _, t := range s.transactions {
		if seen[t.BusinessDate] {
			continue
		}
		seen[t.BusinessDate] = true
		if r, ok := s.reports[t.BusinessDate]; ok && r.Status == domain.ReportStatusClosed {
			continue
		}
		dates = append(dates, t.BusinessDate)
	}
	return dates
}
