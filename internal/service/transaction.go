package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kmutombo/caisse-backend/internal/domain"
)

const minDescriptionLen = 3

// TransactionService enforces the business rules around individual
// transactions: input validation, category defaulting, and the
// locked-once-closed rule.
type TransactionService struct {
	transactions transactionStore
	reports      reportStore
	locks        *DateLocker
	now          func() time.Time
}

func NewTransactionService(transactions transactionStore, reports reportStore, locks *DateLocker, now func() time.Time) *TransactionService {
	return &TransactionService{
		transactions: transactions,
		reports:      reports,
		locks:        locks,
		now:          now,
	}
}

type AddTransactionInput struct {
	Kind        domain.Kind
	Amount      decimal.Decimal
	Description string
	// Category is optional; the zero value picks the default for the
	// kind (normal for revenue and expense, special for contribution).
	Category domain.Category
	// Date is optional; the zero value means the current business day.
	Date domain.Date
}

func (s *TransactionService) Add(ctx context.Context, in AddTransactionInput) (int64, error) {
	now := s.now()

	if !in.Kind.Valid() {
		return 0, fmt.Errorf("Add: %q: %w", in.Kind, domain.ErrInvalidKind)
	}
	if in.Amount.Sign() <= 0 {
		return 0, fmt.Errorf("Add: %w", domain.ErrInvalidAmount)
	}
	description := strings.TrimSpace(in.Description)
	if len(description) < minDescriptionLen {
		return 0, fmt.Errorf("Add: %w", domain.ErrInvalidDescription)
	}

	date := in.Date
	if date.IsZero() {
		date = domain.DateOf(now)
	}
	if !date.Valid() {
		return 0, fmt.Errorf("Add: %q: %w", date, domain.ErrInvalidDate)
	}
	if date.After(domain.DateOf(now)) {
		return 0, fmt.Errorf("Add: %w", domain.ErrFutureDate)
	}

	category, err := resolveCategory(in.Kind, in.Category)
	if err != nil {
		return 0, fmt.Errorf("Add: %w", err)
	}

	t := &domain.Transaction{
		Kind:         in.Kind,
		Amount:       in.Amount,
		Description:  description,
		BusinessDate: date,
		Category:     category,
		CreatedAt:    now.UTC(),
	}

	// Inserting under the date lock keeps a concurrent closure from
	// seeing revenue totals change between its check and its write.
	s.locks.Lock(date)
	defer s.locks.Unlock(date)

	id, err := s.transactions.Insert(ctx, t)
	if err != nil {
		return 0, fmt.Errorf("Add: %w", err)
	}
	return id, nil
}

// resolveCategory applies the closed defaulting rules. Contributions
// are capital movements and always special, whatever the caller asked
// for; revenue is part of the daily balance and may not be special.
func resolveCategory(kind domain.Kind, category domain.Category) (domain.Category, error) {
	if category != "" && !category.Valid() {
		return "", domain.ErrInvalidCategory
	}

	switch kind {
	case domain.KindContribution:
		return domain.CategorySpecial, nil
	case domain.KindRevenue:
		if category == domain.CategorySpecial {
			return "", domain.ErrInvalidCategory
		}
		return domain.CategoryNormal, nil
	default:
		if category == "" {
			return domain.CategoryNormal, nil
		}
		return category, nil
	}
}

type UpdateTransactionInput struct {
	Amount      *decimal.Decimal
	Description *string
}

func (s *TransactionService) Update(ctx context.Context, id int64, in UpdateTransactionInput) error {
	if in.Amount != nil && in.Amount.Sign() <= 0 {
		return fmt.Errorf("Update: %w", domain.ErrInvalidAmount)
	}
	if in.Description != nil {
		trimmed := strings.TrimSpace(*in.Description)
		if len(trimmed) < minDescriptionLen {
			return fmt.Errorf("Update: %w", domain.ErrInvalidDescription)
		}
		in.Description = &trimmed
	}

	t, err := s.transactions.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}

	s.locks.Lock(t.BusinessDate)
	defer s.locks.Unlock(t.BusinessDate)

	if err := s.checkUnlocked(ctx, t.BusinessDate); err != nil {
		return fmt.Errorf("Update: %w", err)
	}

	if err := s.transactions.Update(ctx, id, in.Amount, in.Description); err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	return nil
}

func (s *TransactionService) Delete(ctx context.Context, id int64) error {
	t, err := s.transactions.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}

	s.locks.Lock(t.BusinessDate)
	defer s.locks.Unlock(t.BusinessDate)

	if err := s.checkUnlocked(ctx, t.BusinessDate); err != nil {
		return fmt.Errorf("Delete: %w", err)
	}

	if err := s.transactions.Delete(ctx, id); err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	return nil
}

func (s *TransactionService) Get(ctx context.Context, id int64) (*domain.Transaction, error) {
	t, err := s.transactions.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return t, nil
}

func (s *TransactionService) List(ctx context.Context, f domain.TransactionFilter) ([]domain.Transaction, error) {
	if err := checkDates(f.Date, f.From, f.To); err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return nil, fmt.Errorf("List: %w", domain.ErrInvalidRange)
	}
	txns, err := s.transactions.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	return txns, nil
}

// checkDates rejects argument and filter dates that never went through
// ParseDate or DateOf, before they reach a store predicate.
func checkDates(dates ...*domain.Date) error {
	for _, d := range dates {
		if d != nil && !d.Valid() {
			return fmt.Errorf("%q: %w", *d, domain.ErrInvalidDate)
		}
	}
	return nil
}

// checkUnlocked fails with ErrReportLocked when the date's report is
// closed. An absent report row means the date is open.
func (s *TransactionService) checkUnlocked(ctx context.Context, date domain.Date) error {
	report, err := s.reports.Get(ctx, date)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	if report.Closed() {
		return domain.ErrReportLocked
	}
	return nil
}
