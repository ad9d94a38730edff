package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/kmutombo/caisse-backend/internal/domain"
)

// Aggregator computes per-date and per-period sums from the ledger.
// It never writes; sums over empty sets are zero, not errors.
type Aggregator struct {
	transactions transactionStore
}

func NewAggregator(transactions transactionStore) *Aggregator {
	return &Aggregator{transactions: transactions}
}

func (a *Aggregator) DailyTotals(ctx context.Context, date domain.Date) (domain.DailyTotals, error) {
	if !date.Valid() {
		return domain.DailyTotals{}, fmt.Errorf("DailyTotals: %q: %w", date, domain.ErrInvalidDate)
	}

	txns, err := a.transactions.List(ctx, domain.TransactionFilter{Date: &date})
	if err != nil {
		return domain.DailyTotals{}, fmt.Errorf("DailyTotals: %w", err)
	}
	return sumTotals(txns), nil
}

// RangeTotals returns one entry per date in [from, to] that has at
// least one transaction, most recent date first. Empty dates are
// omitted, not zero-filled.
func (a *Aggregator) RangeTotals(ctx context.Context, from, to domain.Date) ([]domain.DayTotals, error) {
	if err := checkDates(&from, &to); err != nil {
		return nil, fmt.Errorf("RangeTotals: %w", err)
	}
	if from.After(to) {
		return nil, fmt.Errorf("RangeTotals: %w", domain.ErrInvalidRange)
	}

	txns, err := a.transactions.List(ctx, domain.TransactionFilter{From: &from, To: &to})
	if err != nil {
		return nil, fmt.Errorf("RangeTotals: %w", err)
	}

	byDate := make(map[domain.Date][]domain.Transaction)
	for _, t := range txns {
		byDate[t.BusinessDate] = append(byDate[t.BusinessDate], t)
	}

	days := make([]domain.DayTotals, 0, len(byDate))
	for date, dayTxns := range byDate {
		days = append(days, domain.DayTotals{Date: date, Totals: sumTotals(dayTxns)})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date.After(days[j].Date) })
	return days, nil
}

// PeriodSummary aggregates the operating figures over [from, to]. The
// daily average divides by the calendar span, not by the number of
// days that have data, so a single-day period divides by 1.
func (a *Aggregator) PeriodSummary(ctx context.Context, from, to domain.Date) (domain.PeriodSummary, error) {
	if err := checkDates(&from, &to); err != nil {
		return domain.PeriodSummary{}, fmt.Errorf("PeriodSummary: %w", err)
	}
	if from.After(to) {
		return domain.PeriodSummary{}, fmt.Errorf("PeriodSummary: %w", domain.ErrInvalidRange)
	}

	txns, err := a.transactions.List(ctx, domain.TransactionFilter{From: &from, To: &to})
	if err != nil {
		return domain.PeriodSummary{}, fmt.Errorf("PeriodSummary: %w", err)
	}

	var revenue, expense decimal.Decimal
	for _, t := range txns {
		switch {
		case t.Kind == domain.KindRevenue:
			revenue = revenue.Add(t.Amount)
		case t.Kind == domain.KindExpense && t.Category == domain.CategoryNormal:
			expense = expense.Add(t.Amount)
		}
	}

	net := revenue.Sub(expense)
	days := domain.DaysInclusive(from, to)

	return domain.PeriodSummary{
		From:                from,
		To:                  to,
		TotalRevenue:        revenue,
		TotalExpense:        expense,
		NetBalance:          net,
		TransactionCount:    len(txns),
		AverageDailyBalance: net.Div(decimal.NewFromInt(int64(days))).Round(2),
	}, nil
}

func sumTotals(txns []domain.Transaction) domain.DailyTotals {
	var totals domain.DailyTotals
	for _, t := range txns {
		switch t.Kind {
		case domain.KindRevenue:
			totals.Revenue = totals.Revenue.Add(t.Amount)
		case domain.KindExpense:
			if t.Category == domain.CategorySpecial {
				totals.SpecialExpense = totals.SpecialExpense.Add(t.Amount)
			} else {
				totals.NormalExpense = totals.NormalExpense.Add(t.Amount)
			}
		case domain.KindContribution:
			totals.Contribution = totals.Contribution.Add(t.Amount)
		}
	}
	return totals
}
