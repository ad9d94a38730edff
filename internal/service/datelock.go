package service

import (
	"sync"

	"github.com/kmutombo/caisse-backend/internal/domain"
)

// DateLocker serializes every check-then-write sequence touching one
// business date: a closure must not interleave with an insert, update
// or delete on the same date. One locker instance is shared by the
// transaction and closure services.
type DateLocker struct {
	mu    sync.Mutex
	locks map[domain.Date]*sync.Mutex
}

func NewDateLocker() *DateLocker {
	return &DateLocker{locks: make(map[domain.Date]*sync.Mutex)}
}

func (l *DateLocker) Lock(date domain.Date) {
	l.forDate(date).Lock()
}

func (l *DateLocker) Unlock(date domain.Date) {
	l.forDate(date).Unlock()
}

func (l *DateLocker) forDate(date domain.Date) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.locks[date]
	if !ok {
		m = &sync.Mutex{}
		l.locks[date] = m
	}
	return m
}
