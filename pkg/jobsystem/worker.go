package jobsystem

import (
	"encoding/binary"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/yoshipbr/yoshigo/pkg/mempool"
)

// WorkerMode distinguishes the single foreground worker (which reuses the
// caller's own goroutine and never sleeps) from background workers.
type WorkerMode int

const (
	ModeForeground WorkerMode = iota
	ModeBackground
)

// WorkerState is the background worker's lifecycle state.
type WorkerState int32

const (
	StateIdle WorkerState = iota
	StateSpinning
	StateKilled
)

// Worker owns one lock-free deque, a private memory pool for job-argument
// allocations, and (for background workers) a dedicated goroutine.
type Worker struct {
	index  int
	mode   WorkerMode
	system *JobSystem // non-owning back-pointer

	dq deque

	poolMu sync.Mutex
	pool   *mempool.Pool

	state atomic.Int32 // WorkerState
}

func newWorker(index int, mode WorkerMode, system *JobSystem) *Worker {
	w := &Worker{index: index, mode: mode, system: system, pool: mempool.NewPool()}
	w.state.Store(int32(StateIdle))
	return w
}

// rangeArgSize is the encoded size of a [begin, end) pair used by
// ParallelFor's divide-and-conquer jobs; it is small enough to land in the
// pool's first size class (16 bytes) and is the concrete job-allocation
// traffic the memory pool backs.
const rangeArgSize = 16

// allocRangeArg encodes [begin, end) into a pool-allocated buffer.
func (w *Worker) allocRangeArg(begin, end int) mempool.Allocation {
	w.poolMu.Lock()
	alloc, err := w.pool.Allocate(rangeArgSize)
	w.poolMu.Unlock()
	if err != nil {
		panic(err)
	}
	buf := alloc.Bytes()
	binary.LittleEndian.PutUint64(buf[0:8], uint64(begin))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(end))
	return alloc
}

func decodeRangeArg(alloc mempool.Allocation) (begin, end int) {
	buf := alloc.Bytes()
	return int(binary.LittleEndian.Uint64(buf[0:8])), int(binary.LittleEndian.Uint64(buf[8:16]))
}

// freeRangeArg returns the argument allocation to the worker that holds the
// lock on it; since frees can happen from any goroutine (a child job may
// finish on a different worker than its parent's), the pool lock guards
// this cross-goroutine path per the concurrency model.
func (w *Worker) freeRangeArg(alloc mempool.Allocation) {
	w.poolMu.Lock()
	w.pool.Free(alloc)
	w.poolMu.Unlock()
}

// submit pushes job onto this worker's own deque, executing inline if the
// deque is full (queue-full recovery per the error-handling design).
func (w *Worker) submit(job *Job) {
	if !w.dq.Push(job) {
		job.Execute()
	}
}

// getJob pops from the worker's own deque, falling back to stealing from
// another worker in the system.
func (w *Worker) getJob() *Job {
	if j := w.dq.Pop(); j != nil {
		return j
	}
	return w.system.stealJobFor(w.index)
}

// runForeground drains jobs (via getJob, falling back to stealing) until
// target is finished. The foreground worker never sleeps on the alarm.
func (w *Worker) runForeground(target *Job) {
	for !target.IsFinished() {
		if j := w.getJob(); j != nil {
			j.Execute()
			continue
		}
		runtime.Gosched()
	}
}

// runBackgroundLoop is the background worker's goroutine body: wait on the
// alarm, spin for work, yield once and retry before sleeping again when the
// system empties, exit once shutdown is observed.
func (w *Worker) runBackgroundLoop() {
	for {
		if w.system.isShuttingDown.Load() {
			w.state.Store(int32(StateKilled))
			return
		}

		w.state.Store(int32(StateSpinning))

		j := w.getJob()
		if j == nil {
			runtime.Gosched()
			j = w.getJob()
		}
		for j == nil && !w.system.isShuttingDown.Load() {
			if !w.system.alarm.sleep() {
				break
			}
			j = w.getJob()
		}

		if j != nil {
			j.Execute()
			continue
		}

		w.state.Store(int32(StateIdle))
		if w.system.isShuttingDown.Load() {
			w.state.Store(int32(StateKilled))
			return
		}
	}
}
