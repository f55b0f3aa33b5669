package jobsystem

import "sync/atomic"

// cacheLinePad is sized so a Job's hot atomic field doesn't share a cache
// line with a neighboring heap allocation.
type cacheLinePad [64]byte

// JobFunc is the function a Job executes. arg is whatever the submitter
// attached via Create.
type JobFunc func(arg any)

// Job is a unit of work submitted to a JobSystem, heap-allocated by its
// owning worker and reclaimed by the garbage collector once its (and all
// its descendants') unfinishedCount reaches zero and every reference to it
// drops away. See the "Job allocation" note in DESIGN.md for why Job is
// not pool-backed the way ParallelFor's range arguments are.
type Job struct {
	fn     JobFunc
	arg    any
	parent *Job
	owner  *Worker

	unfinished atomic.Int32
	_          cacheLinePad
}

// newJob initializes a job owned by owner, with an optional parent whose
// unfinished count is bumped to account for this child.
func newJob(owner *Worker, parent *Job, fn JobFunc, arg any) *Job {
	j := &Job{fn: fn, arg: arg, parent: parent, owner: owner}
	j.unfinished.Store(1)
	if parent != nil {
		parent.unfinished.Add(1)
	}
	return j
}

// Execute runs the job's function then finishes it.
func (j *Job) Execute() {
	j.fn(j.arg)
	j.finish()
}

// finish fetch-subs the unfinished count; on reaching zero, recursively
// finishes the parent. The job itself carries no explicit "return to pool"
// step: a caller may still be reading this exact *Job (e.g. Wait polling
// IsFinished) at the instant unfinished reaches zero, so recycling it back
// into a free list here would hand the same struct to a new, unrelated job
// while that read is in flight. Go's garbage collector reclaims it once the
// last reference (the creator's handle, any parent pointer) drops away.
func (j *Job) finish() {
	if j.unfinished.Add(-1) == 0 {
		if j.parent != nil {
			j.parent.finish()
		}
	}
}

// IsFinished reports whether the job and all its descendants have
// completed.
func (j *Job) IsFinished() bool {
	return j.unfinished.Load() == 0
}
