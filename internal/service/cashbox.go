package service

import (
	"context"
	"fmt"

	"github.com/kmutombo/caisse-backend/internal/domain"
)

// CashService derives the cash-box balance: the sum of closed days'
// operating balances, plus capital contributions, minus special
// expenses. Every call recomputes from live rows; there is no cache,
// so the figure always reflects the latest committed closures and
// capital movements.
type CashService struct {
	transactions transactionStore
	reports      reportStore
}

func NewCashService(transactions transactionStore, reports reportStore) *CashService {
	return &CashService{transactions: transactions, reports: reports}
}

// Balance computes the cash box, optionally windowed. Either bound may
// be nil to leave that side open. Contributions and special expenses
// count regardless of their date's closure status; normal revenue and
// expense count only for closed dates.
func (s *CashService) Balance(ctx context.Context, from, to *domain.Date) (domain.CashBalance, error) {
	if err := checkDates(from, to); err != nil {
		return domain.CashBalance{}, fmt.Errorf("Balance: %w", err)
	}
	if from != nil && to != nil && from.After(*to) {
		return domain.CashBalance{}, fmt.Errorf("Balance: %w", domain.ErrInvalidRange)
	}

	closedReports, err := s.reports.ListByStatus(ctx, domain.ReportStatusClosed)
	if err != nil {
		return domain.CashBalance{}, fmt.Errorf("Balance: %w", err)
	}
	closedDates := make(map[domain.Date]bool, len(closedReports))
	for _, r := range closedReports {
		closedDates[r.Date] = true
	}

	txns, err := s.transactions.List(ctx, domain.TransactionFilter{From: from, To: to})
	if err != nil {
		return domain.CashBalance{}, fmt.Errorf("Balance: %w", err)
	}

	var balance domain.CashBalance
	for _, t := range txns {
		switch {
		case t.Kind == domain.KindContribution:
			balance.Contributions = balance.Contributions.Add(t.Amount)
		case t.Kind == domain.KindExpense && t.Category == domain.CategorySpecial:
			balance.SpecialExpenses = balance.SpecialExpenses.Add(t.Amount)
		case !closedDates[t.BusinessDate]:
			// Normal revenue and expense only count once their day
			// is closed.
		case t.Kind == domain.KindRevenue:
			balance.ClosedBalance = balance.ClosedBalance.Add(t.Amount)
		case t.Kind == domain.KindExpense:
			balance.ClosedBalance = balance.ClosedBalance.Sub(t.Amount)
		}
	}

	balance.Cash = balance.ClosedBalance.Add(balance.Contributions).Sub(balance.SpecialExpenses)
	return balance, nil
}
