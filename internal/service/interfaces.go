package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kmutombo/caisse-backend/internal/domain"
)

type transactionStore interface {
	Insert(ctx context.Context, t *domain.Transaction) (int64, error)
	Update(ctx context.Context, id int64, amount *decimal.Decimal, description *string) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Transaction, error)
	List(ctx context.Context, f domain.TransactionFilter) ([]domain.Transaction, error)
}

type reportStore interface {
	Get(ctx context.Context, date domain.Date) (*domain.DailyReport, error)
	SetClosed(ctx context.Context, date domain.Date, closedAt time.Time) error
	SetOpen(ctx context.Context, date domain.Date) error
	ListByStatus(ctx context.Context, status domain.ReportStatus) ([]domain.DailyReport, error)
	ListOpenDatesBefore(ctx context.Context, today domain.Date) ([]domain.Date, error)
}
