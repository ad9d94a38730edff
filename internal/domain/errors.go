package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidAmount      = errors.New("amount must be greater than zero")
	ErrInvalidDescription = errors.New("description must be at least 3 characters")
	ErrInvalidKind        = errors.New("invalid transaction kind")
	ErrInvalidCategory    = errors.New("invalid expense category")
	ErrInvalidDate        = errors.New("invalid date, expected YYYY-MM-DD")
	ErrFutureDate         = errors.New("business date cannot be in the future")
	ErrInvalidRange       = errors.New("range start must not be after range end")
	ErrReportLocked       = errors.New("daily report is closed, transaction is locked")
	ErrNoRevenue          = errors.New("cannot close a day with no revenue")
	ErrAlreadyClosed      = errors.New("daily report already closed")
	ErrNotClosed          = errors.New("daily report is not closed")
)
