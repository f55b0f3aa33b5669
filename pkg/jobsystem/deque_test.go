package jobsystem

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestDeque_PushPopNoContention checks LIFO order for a single-goroutine
// push/pop sequence (no stealers).
func TestDeque_PushPopNoContention(t *testing.T) {
	var d deque
	jobs := make([]*Job, 10)
	for i := range jobs {
		jobs[i] = &Job{}
		assert.True(t, d.Push(jobs[i]))
	}
	for i := len(jobs) - 1; i >= 0; i-- {
		assert.Same(t, jobs[i], d.Pop())
	}
	assert.Nil(t, d.Pop())
}

// TestDeque_StealAndPopPartitionExactly pushes N jobs on the owner goroutine,
// then races one Pop goroutine against many Steal goroutines; every job must
// be claimed by exactly one of them.
func TestDeque_StealAndPopPartitionExactly(t *testing.T) {
	const n = 50
	var d deque
	jobs := make([]*Job, n)
	for i := range jobs {
		jobs[i] = &Job{}
		assert.True(t, d.Push(jobs[i]))
	}

	var claimed sync.Map
	var wg sync.WaitGroup
	var stolen int32

	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				j := d.Steal()
				if j == nil {
					return
				}
				if _, loaded := claimed.LoadOrStore(j, true); loaded {
					t.Errorf("job claimed twice via steal")
				}
				atomic.AddInt32(&stolen, 1)
			}
		}()
	}

	popped := 0
	for {
		j := d.Pop()
		if j == nil {
			break
		}
		if _, loaded := claimed.LoadOrStore(j, true); loaded {
			t.Errorf("job claimed twice via pop")
		}
		popped++
	}

	wg.Wait()

	count := 0
	for range jobs {
		count++
	}
	claimedCount := 0
	claimed.Range(func(any, any) bool { claimedCount++; return true })
	assert.Equal(t, n, claimedCount)
	assert.Equal(t, n, popped+int(atomic.LoadInt32(&stolen)))
}
