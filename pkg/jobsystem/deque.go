package jobsystem

import "sync/atomic"

// dequeCapacity is the ring buffer's fixed capacity; must be a power of two.
const dequeCapacity = 64

// deque is a bounded single-owner, multi-stealer lock-free ring buffer.
// Push and Pop are owner-only; Steal may be called from any goroutine.
//
// Go's sync/atomic operations are sequentially consistent, which is
// strictly stronger than the acquire/release pairing the original
// memory-ordering contract calls for; the comments below document the
// acquire/release role each operation plays so the *logical* contract (not
// just "it happens to work under a stronger model") is preserved.
type deque struct {
	buf  [dequeCapacity]atomic.Pointer[Job]
	head atomic.Uint32 // stolen-up-to counter, advanced by Steal's CAS
	tail atomic.Uint32 // owner's next-push slot, advanced by Push
}

// Push is owner-only. Publishes job into the next slot and releases it to
// stealers by storing the incremented tail last.
func (d *deque) Push(job *Job) bool {
	tail := d.tail.Load()  // relaxed: only the owner writes tail
	head := d.head.Load()  // acquire: must see the latest steal progress

	if tail-head >= dequeCapacity {
		return false // full; caller executes inline per spec's queue-full policy
	}

	d.buf[tail%dequeCapacity].Store(job) // publish slot contents
	d.tail.Store(tail + 1)               // release: makes the slot visible to Steal
	return true
}

// Pop is owner-only. Takes the most recently pushed job, racing a
// concurrent Steal only when exactly one item remains.
func (d *deque) Pop() *Job {
	tail := d.tail.Add(^uint32(0)) // fetch-sub 1, acq-rel
	head := d.head.Load()          // acquire

	size := int32(tail - head)
	if size < 0 {
		// Queue was already empty; restore tail to head.
		d.tail.Store(head)
		return nil
	}

	item := d.buf[tail%dequeCapacity].Load()

	if size > 0 {
		// At least one other item remains; no stealer can reach this slot.
		return item
	}

	// Exactly one item remained before this Pop: race any Steal for it.
	if !d.head.CompareAndSwap(head, head+1) {
		item = nil // lost the race; a stealer took it
	}
	d.tail.Store(head + 1)
	return item
}

// Steal may be called from any goroutine. Returns nil without spinning if
// the queue looks empty or the race against Pop/another Steal is lost.
func (d *deque) Steal() *Job {
	head := d.head.Load() // acquire: read head before tail, per the contract
	tail := d.tail.Load() // acquire

	if int32(tail-head) <= 0 {
		return nil
	}

	item := d.buf[head%dequeCapacity].Load()
	if !d.head.CompareAndSwap(head, head+1) { // release on success
		return nil
	}
	return item
}
