package jobsystem

import "github.com/yoshipbr/yoshigo/pkg/mempool"

// parallelForThreshold is the range size below which ParallelFor applies fn
// directly instead of splitting further.
const parallelForThreshold = 256

// RangeFunc processes the half-open range [begin, end).
type RangeFunc func(begin, end int)

// ParallelFor applies fn to every index in [0, count) using divide-and-conquer
// job splitting: ranges larger than parallelForThreshold are split in half,
// each half becomes a child job of the current range's job, and the parent
// waits on both children before returning.
func (js *JobSystem) ParallelFor(count int, fn RangeFunc) {
	if count <= 0 {
		return
	}
	root := js.CreateJob(func(any) {}, nil)
	js.splitRange(root, 0, count, fn)
	js.Submit(root)
	js.Wait(root)
}

func (js *JobSystem) splitRange(parent *Job, begin, end int, fn RangeFunc) {
	w := js.foreground()
	if end-begin <= parallelForThreshold {
		arg := w.allocRangeArg(begin, end)
		job := js.CreateChildJob(parent, func(a any) {
			alloc := a.(mempool.Allocation)
			b, e := decodeRangeArg(alloc)
			fn(b, e)
			w.freeRangeArg(alloc)
		}, arg)
		js.Submit(job)
		return
	}

	mid := begin + (end-begin)/2
	var left, right *Job
	left = js.CreateChildJob(parent, func(any) {
		js.splitRange(left, begin, mid, fn)
	}, nil)
	right = js.CreateChildJob(parent, func(any) {
		js.splitRange(right, mid, end, fn)
	}, nil)
	js.Submit(left)
	js.Submit(right)
}
