package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kmutombo/caisse-backend/internal/domain"
	"github.com/kmutombo/caisse-backend/internal/repository/memory"
)

// testEnv wires the full service stack onto the in-memory store with a
// controllable clock.
type testEnv struct {
	store     *memory.Store
	clock     *fakeClock
	published *recordingPublisher

	txns     *TransactionService
	agg      *Aggregator
	closures *ClosureService
	cash     *CashService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.NewStore()
	clock := &fakeClock{current: time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)}
	published := &recordingPublisher{}
	locks := NewDateLocker()
	agg := NewAggregator(store)

	return &testEnv{
		store:     store,
		clock:     clock,
		published: published,
		txns:      NewTransactionService(store, store, locks, clock.Now),
		agg:       agg,
		closures:  NewClosureService(agg, store, locks, published, clock.Now),
		cash:      NewCashService(store, store),
	}
}

// seed inserts directly through the store, bypassing service
// validation, so tests can stage closed-day data freely.
func (e *testEnv) seed(t *testing.T, txns ...*domain.Transaction) []int64 {
	t.Helper()

	ids := make([]int64, 0, len(txns))
	for _, txn := range txns {
		id, err := e.store.Insert(context.Background(), txn)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func (e *testEnv) mustClose(t *testing.T, date domain.Date) {
	t.Helper()
	require.NoError(t, e.closures.Close(context.Background(), date))
}

type fakeClock struct {
	mu      sync.Mutex
	current time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []any
}

func (p *recordingPublisher) Publish(ctx context.Context, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Events() []any {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]any, len(p.events))
	copy(out, p.events)
	return out
}
