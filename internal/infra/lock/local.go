// Package lock implements slot locks keyed by (barber, instant).
package lock

import (
	"context"
	"sync"
	"time"

	"github.com/lilpaf/Super-Barber-sub000/internal/domain/booking"
)

// LocalLocker only serializes requests inside one process.
type LocalLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

var _ booking.SlotLocker = (*LocalLocker)(nil)

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: make(map[string]struct{})}
}

func (l *LocalLocker) TryLock(
	_ context.Context,
	barberID uint,
	at time.Time,
) (func(), bool, error) {

	key := booking.SlotKey(barberID, at)

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, busy := l.held[key]; busy {
		return nil, false, nil
	}
	l.held[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, key)
			l.mu.Unlock()
		})
	}, true, nil
}
