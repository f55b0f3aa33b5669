// Package jobsystem implements a work-stealing job system: per-worker
// lock-free deques (see deque.go), a semaphore alarm waking idle background
// workers, and job lifetime tracked via atomic parent/child refcounts.
package jobsystem

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/yoshipbr/yoshigo/pkg/core"
)

// JobSystem owns a foreground worker (worker 0, reusing the creator's
// goroutine) plus workerCount-1 background workers, each with their own
// goroutine.
type JobSystem struct {
	workers        []*Worker
	alarm          *alarm
	isShuttingDown atomic.Bool
	wg             sync.WaitGroup
	log            core.Logger
}

// New creates a JobSystem with workerCount total workers (including the
// foreground worker); workerCount defaults to runtime.GOMAXPROCS(0) when <= 0.
func New(workerCount int, log core.Logger) *JobSystem {
	if workerCount <= 0 {
		workerCount = runtime.GOMAXPROCS(0)
	}
	if log == nil {
		log = core.NewNopLogger()
	}

	js := &JobSystem{alarm: newAlarm(int64(workerCount)), log: log}
	js.workers = make([]*Worker, workerCount)
	js.workers[0] = newWorker(0, ModeForeground, js)
	for i := 1; i < workerCount; i++ {
		js.workers[i] = newWorker(i, ModeBackground, js)
	}

	for i := 1; i < workerCount; i++ {
		w := js.workers[i]
		js.wg.Add(1)
		go func() {
			defer js.wg.Done()
			log.Printf("jobsystem: worker %d starting", w.index)
			w.runBackgroundLoop()
			log.Printf("jobsystem: worker %d killed", w.index)
		}()
	}

	return js
}

// WorkerCount returns the total number of workers, including foreground.
func (js *JobSystem) WorkerCount() int {
	return len(js.workers)
}

// foreground returns the worker owned by the calling goroutine's logical
// "foreground" role. The job system has exactly one foreground worker, used
// for every Submit/Wait call from outside a job's own execution.
func (js *JobSystem) foreground() *Worker {
	return js.workers[0]
}

// CreateJob allocates a new job with no parent.
func (js *JobSystem) CreateJob(fn JobFunc, arg any) *Job {
	return newJob(js.foreground(), nil, fn, arg)
}

// CreateChildJob allocates a job whose completion also counts toward
// parent's completion.
func (js *JobSystem) CreateChildJob(parent *Job, fn JobFunc, arg any) *Job {
	return newJob(js.foreground(), parent, fn, arg)
}

// Submit pushes job onto the foreground worker's deque and wakes every
// background worker.
func (js *JobSystem) Submit(job *Job) {
	js.foreground().submit(job)
	for i := 1; i < len(js.workers); i++ {
		js.alarm.signal()
	}
}

// Wait blocks the calling (foreground) goroutine, executing/stealing other
// jobs, until job is finished.
func (js *JobSystem) Wait(job *Job) {
	js.foreground().runForeground(job)
}

// stealJobFor scans workers starting at perpetratorIdx+1, wrapping around,
// for the first successful steal.
func (js *JobSystem) stealJobFor(perpetratorIdx int) *Job {
	n := len(js.workers)
	for i := 1; i < n; i++ {
		victim := js.workers[(perpetratorIdx+i)%n]
		if j := victim.dq.Steal(); j != nil {
			return j
		}
	}
	return nil
}

// Shutdown signals every background worker to exit, drains any remaining
// work on the foreground worker, and waits for all background goroutines
// to report killed.
func (js *JobSystem) Shutdown() {
	js.isShuttingDown.Store(true)
	for i := 1; i < len(js.workers); i++ {
		js.alarm.signal()
	}

	// Drain anything left in the foreground's own deque.
	for {
		j := js.foreground().dq.Pop()
		if j == nil {
			break
		}
		j.Execute()
	}

	js.wg.Wait()
}

// AreResourcesEmptied reports whether every worker's memory pool has
// returned all its outstanding allocations, the invariant the caller should
// check before destroying the job system.
func (js *JobSystem) AreResourcesEmptied() bool {
	for _, w := range js.workers {
		if w.pool.LiveCount() != 0 {
			return false
		}
	}
	return true
}
