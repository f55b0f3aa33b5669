package jobsystem

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobSystem_WaitReturnsOnlyAfterDescendantsFinish(t *testing.T) {
	js := New(4, nil)
	defer js.Shutdown()

	var leafCount int32
	root := js.CreateJob(func(any) {}, nil)

	var makeChildren func(parent *Job, depth int)
	makeChildren = func(parent *Job, depth int) {
		if depth == 0 {
			return
		}
		for i := 0; i < 3; i++ {
			child := js.CreateChildJob(parent, func(any) {
				atomic.AddInt32(&leafCount, 1)
			}, nil)
			makeChildren(child, depth-1)
			js.Submit(child)
		}
	}
	makeChildren(root, 3)

	js.Submit(root)
	js.Wait(root)

	assert.True(t, root.IsFinished())
	assert.Equal(t, int32(3+9+27), atomic.LoadInt32(&leafCount))
	assert.True(t, js.AreResourcesEmptied())
}

func TestJobSystem_ParallelForCoversEveryIndexExactlyOnce(t *testing.T) {
	js := New(0, nil)
	defer js.Shutdown()

	const n = 10000
	counts := make([]int32, n)

	js.ParallelFor(n, func(begin, end int) {
		for i := begin; i < end; i++ {
			atomic.AddInt32(&counts[i], 1)
		}
	})

	for i, c := range counts {
		require.Equalf(t, int32(1), c, "index %d processed %d times", i, c)
	}
}

func TestJobSystem_ParallelForTwiceDoublesEveryElement(t *testing.T) {
	js := New(0, nil)
	defer js.Shutdown()

	const n = 2000
	values := make([]int32, n)

	increment := func(begin, end int) {
		for i := begin; i < end; i++ {
			atomic.AddInt32(&values[i], 1)
		}
	}
	js.ParallelFor(n, increment)
	js.ParallelFor(n, increment)

	for i, v := range values {
		require.Equalf(t, int32(2), v, "index %d = %d, want 2", i, v)
	}
}

func TestJobSystem_ParallelForEmptyRangeIsNoop(t *testing.T) {
	js := New(2, nil)
	defer js.Shutdown()

	called := false
	js.ParallelFor(0, func(begin, end int) { called = true })
	assert.False(t, called)
}
