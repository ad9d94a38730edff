package testutil

import (
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kmutombo/caisse-backend/internal/domain"
)

var (
	fixtureBase = time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)
	fixtureSeq  atomic.Int64
)

func MustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// nextCreatedAt hands out strictly increasing timestamps so fixture
// transactions have a deterministic created_at order.
func nextCreatedAt() time.Time {
	return fixtureBase.Add(time.Duration(fixtureSeq.Add(1)) * time.Second)
}

func Revenue(date domain.Date, amount string) *domain.Transaction {
	return fixture(domain.KindRevenue, domain.CategoryNormal, date, amount, "daily sales")
}

func NormalExpense(date domain.Date, amount string) *domain.Transaction {
	return fixture(domain.KindExpense, domain.CategoryNormal, date, amount, "office supplies")
}

func SpecialExpense(date domain.Date, amount string) *domain.Transaction {
	return fixture(domain.KindExpense, domain.CategorySpecial, date, amount, "equipment purchase")
}

func Contribution(date domain.Date, amount string) *domain.Transaction {
	return fixture(domain.KindContribution, domain.CategorySpecial, date, amount, "capital injection")
}

func fixture(kind domain.Kind, category domain.Category, date domain.Date, amount, description string) *domain.Transaction {
	return &domain.Transaction{
		Kind:         kind,
		Amount:       MustDecimal(amount),
		Description:  description,
		BusinessDate: date,
		Category:     category,
		CreatedAt:    nextCreatedAt(),
	}
}
