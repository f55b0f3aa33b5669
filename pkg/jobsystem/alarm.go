package jobsystem

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// alarm is the counting semaphore background workers sleep on when their
// local deque is empty and a steal attempt fails. The foreground worker
// never acquires it; it only signals.
type alarm struct {
	sem      *semaphore.Weighted
	capacity int64
	pending  atomic.Int64 // signals released and not yet consumed by a sleep
}

// newAlarm builds an alarm sized for up to capacity outstanding signals
// (at most one per background worker can usefully be pending at a time).
//
// semaphore.Weighted is a resource-bounding primitive, not an event/signal
// one: Release decrements its internal held count and panics if that count
// goes negative, so a bare NewWeighted(capacity) has nothing held and any
// signal() arriving before the first sleep() panics. The fix is the
// standard trick for driving a Weighted as a plain counting signal: acquire
// the full capacity up front so every unit starts "held", making sleep() a
// genuine blocking wait and every signal() a matching Release against
// capacity actually acquired.
func newAlarm(capacity int64) *alarm {
	if capacity < 1 {
		capacity = 1
	}
	sem := semaphore.NewWeighted(capacity)
	if err := sem.Acquire(context.Background(), capacity); err != nil {
		panic("jobsystem: alarm pre-acquire failed: " + err.Error())
	}
	return &alarm{sem: sem, capacity: capacity}
}

// sleep blocks until a signal arrives. Returns false only if Acquire
// reports an error; it is called with context.Background(), which is never
// cancelled, so in practice it always returns true.
func (a *alarm) sleep() bool {
	if a.sem.Acquire(context.Background(), 1) != nil {
		return false
	}
	a.pending.Add(-1)
	return true
}

// signal wakes one sleeping worker (or pre-credits a future sleep if none
// is currently waiting). A signal that arrives while capacity signals are
// already outstanding is dropped, since every unit of the semaphore is then
// already released.
func (a *alarm) signal() {
	if a.pending.Add(1) > a.capacity {
		a.pending.Add(-1)
		return
	}
	a.sem.Release(1)
}
