package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ReportStatus string

const (
	ReportStatusOpen   ReportStatus = "open"
	ReportStatusClosed ReportStatus = "closed"
)

// DailyReport carries the closure state of one business date. A date
// with no persisted report is OPEN by default; totals are always
// derived from the live transactions, never stored here.
type DailyReport struct {
	Date     Date
	Status   ReportStatus
	ClosedAt *time.Time
}

func (r *DailyReport) Closed() bool {
	return r != nil && r.Status == ReportStatusClosed
}

type DailyTotals struct {
	Revenue        decimal.Decimal
	NormalExpense  decimal.Decimal
	SpecialExpense decimal.Decimal
	Contribution   decimal.Decimal
}

// Balance is the day's operating result, authoritative only once the
// date is closed.
func (t DailyTotals) Balance() decimal.Decimal {
	return t.Revenue.Sub(t.NormalExpense)
}

// DayTotals is one entry of a range aggregation.
type DayTotals struct {
	Date   Date
	Totals DailyTotals
}

type PeriodSummary struct {
	From                Date
	To                  Date
	TotalRevenue        decimal.Decimal
	TotalExpense        decimal.Decimal
	NetBalance          decimal.Decimal
	TransactionCount    int
	AverageDailyBalance decimal.Decimal
}

// CashBalance is the cash-box view: closed daily balances plus capital
// contributions minus special expenses, recomputed from live rows on
// every query.
type CashBalance struct {
	ClosedBalance   decimal.Decimal
	Contributions   decimal.Decimal
	SpecialExpenses decimal.Decimal
	Cash            decimal.Decimal
}
