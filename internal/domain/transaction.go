package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindRevenue      Kind = "revenue"
	KindExpense      Kind = "expense"
	KindContribution Kind = "contribution"
)

func (k Kind) Valid() bool {
	switch k {
	case KindRevenue, KindExpense, KindContribution:
		return true
	}
	return false
}

// Category splits money movements between the daily operating balance
// (normal) and the cash box itself (special). Contributions are always
// special; revenue is always normal.
type Category string

const (
	CategoryNormal  Category = "normal"
	CategorySpecial Category = "special"
)

func (c Category) Valid() bool {
	return c == CategoryNormal || c == CategorySpecial
}

type Transaction struct {
	ID           int64
	Kind         Kind
	Amount       decimal.Decimal
	Description  string
	BusinessDate Date
	Category     Category
	CreatedAt    time.Time
}

// TransactionFilter narrows List queries. Date and From/To are mutually
// exclusive; a nil bound leaves that side of the range open.
type TransactionFilter struct {
	Date     *Date
	From     *Date
	To       *Date
	Kind     *Kind
	Category *Category
}
