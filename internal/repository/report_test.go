package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmutombo/caisse-backend/internal/domain"
	"github.com/kmutombo/caisse-backend/internal/testutil"
)

func TestReportRepositoryCloseReopen(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewReportRepository(db)
	ctx := context.Background()
	date := domain.Date("2024-03-15")

	_, err := repo.Get(ctx, date)
	require.ErrorIs(t, err, domain.ErrNotFound, "no row until first closure")

	closedAt := time.Date(2024, 3, 15, 23, 59, 0, 0, time.UTC)
	require.NoError(t, repo.SetClosed(ctx, date, closedAt))

	got, err := repo.Get(ctx, date)
	require.NoError(t, err)
	assert.Equal(t, domain.ReportStatusClosed, got.Status)
	require.NotNil(t, got.ClosedAt)
	assert.True(t, got.ClosedAt.Equal(closedAt))

	// Upsert is idempotent: closing again just refreshes closed_at.
	later := closedAt.Add(time.Minute)
	require.NoError(t, repo.SetClosed(ctx, date, later))
	got, err = repo.Get(ctx, date)
	require.NoError(t, err)
	assert.True(t, got.ClosedAt.Equal(later))

	require.NoError(t, repo.SetOpen(ctx, date))
	got, err = repo.Get(ctx, date)
	require.NoError(t, err)
	assert.Equal(t, domain.ReportStatusOpen, got.Status)
	assert.Nil(t, got.ClosedAt, "reopen clears closed_at")

	// SetOpen on an unknown date creates an open row rather than failing.
	require.NoError(t, repo.SetOpen(ctx, "2024-03-16"))
	got, err = repo.Get(ctx, "2024-03-16")
	require.NoError(t, err)
	assert.Equal(t, domain.ReportStatusOpen, got.Status)
}

func TestReportRepositoryListByStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	reports := NewReportRepository(db)
	transactions := NewTransactionRepository(db)
	ctx := context.Background()

	// Open dates exist only through their transactions.
	for _, txn := range []*domain.Transaction{
		testutil.Revenue("2024-03-13", "100"),
		testutil.Revenue("2024-03-14", "200"),
		testutil.Revenue("2024-03-15", "300"),
	} {
		_, err := transactions.Insert(ctx, txn)
		require.NoError(t, err)
	}

	closedAt := time.Date(2024, 3, 13, 23, 59, 0, 0, time.UTC)
	require.NoError(t, reports.SetClosed(ctx, "2024-03-13", closedAt))

	closed, err := reports.ListByStatus(ctx, domain.ReportStatusClosed)
	require.NoError(t, err)
	require.Len(t, closed, 1)
	assert.Equal(t, domain.Date("2024-03-13"), closed[0].Date)

	open, err := reports.ListByStatus(ctx, domain.ReportStatusOpen)
	require.NoError(t, err)
	require.Len(t, open, 2)
	assert.Equal(t, domain.Date("2024-03-15"), open[0].Date, "date descending")
	assert.Equal(t, domain.Date("2024-03-14"), open[1].Date)
}

func TestReportRepositoryListOpenDatesBefore(t *testing.T) {
	db := testutil.SetupTestDB(t)
	reports := NewReportRepository(db)
	transactions := NewTransactionRepository(db)
	ctx := context.Background()

	for _, txn := range []*domain.Transaction{
		testutil.Revenue("2024-03-12", "100"),
		testutil.Revenue("2024-03-13", "200"),
		testutil.Revenue("2024-03-14", "300"),
		testutil.Revenue("2024-03-15", "400"),
	} {
		_, err := transactions.Insert(ctx, txn)
		require.NoError(t, err)
	}
	require.NoError(t, reports.SetClosed(ctx, "2024-03-13", time.Now().UTC()))

	dates, err := reports.ListOpenDatesBefore(ctx, "2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, []domain.Date{"2024-03-12", "2024-03-14"}, dates,
		"closed and today's dates excluded, oldest first")
}
