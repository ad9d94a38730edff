// Package events defines the closure lifecycle events published by the
// closure state machine. A skipped automatic closure is a durable event
// here, not just a log line, so unattended no-revenue days stay
// auditable.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kmutombo/caisse-backend/internal/domain"
)

type Publisher interface {
	Publish(ctx context.Context, event any) error
}

const (
	TypeReportClosed   = "report_closed"
	TypeReportReopened = "report_reopened"
	TypeClosureSkipped = "closure_skipped"
)

const ReasonNoRevenue = "no_revenue"

type ReportClosed struct {
	EventID   uuid.UUID       `json:"event_id"`
	Type      string          `json:"type"`
	Date      domain.Date     `json:"date"`
	Revenue   decimal.Decimal `json:"revenue"`
	Expense   decimal.Decimal `json:"expense"`
	Balance   decimal.Decimal `json:"balance"`
	Automatic bool            `json:"automatic"`
	ClosedAt  time.Time       `json:"closed_at"`
}

type ReportReopened struct {
	EventID    uuid.UUID   `json:"event_id"`
	Type       string      `json:"type"`
	Date       domain.Date `json:"date"`
	ReopenedAt time.Time   `json:"reopened_at"`
}

type ClosureSkipped struct {
	EventID uuid.UUID   `json:"event_id"`
	Type    string      `json:"type"`
	Date    domain.Date `json:"date"`
	Reason  string      `json:"reason"`
	At      time.Time   `json:"at"`
}

// Noop discards events; used when no broker is configured.
type Noop struct{}

func (Noop) Publish(ctx context.Context, event any) error { return nil }
