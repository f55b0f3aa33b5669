package mempool

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_AllocateRejectsInvalidSizes(t *testing.T) {
	p := NewPool()
	_, err := p.Allocate(0)
	assert.Error(t, err)
	_, err = p.Allocate(-1)
	assert.Error(t, err)
	_, err = p.Allocate(maxChunkSize + 1)
	assert.Error(t, err)
}

func TestPool_AllocateGivesChunkSizedMemory(t *testing.T) {
	p := NewPool()
	for _, size := range []int{1, 16, 17, 100, 1024} {
		a, err := p.Allocate(size)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(a.Bytes()), size)
		assert.Equal(t, 0, len(a.Bytes())%chunkSizeIncrement)
	}
}

func TestPool_MixedAllocFreeSequence(t *testing.T) {
	p := NewPool()
	rng := rand.New(rand.NewPCG(1, 2))

	var live []Allocation
	for i := 0; i < 2000; i++ {
		if len(live) > 0 && rng.Float64() < 0.4 {
			idx := rng.IntN(len(live))
			alloc := live[idx]
			for j, b := range alloc.Bytes() {
				_ = j
				_ = b
			}
			p.Free(alloc)
			live[idx] = live[len(live)-1]
			live = live[:len(live)-1]
			continue
		}
		size := rng.IntN(maxChunkSize) + 1
		a, err := p.Allocate(size)
		require.NoError(t, err)
		live = append(live, a)
	}

	assert.Equal(t, len(live), p.LiveCount())

	for _, a := range live {
		p.Free(a)
	}
	assert.Equal(t, 0, p.LiveCount())
}

func TestPool_WrittenMemoryUnchangedBeforeFree(t *testing.T) {
	p := NewPool()
	a, err := p.Allocate(64)
	require.NoError(t, err)

	buf := a.Bytes()
	for i := range buf {
		buf[i] = byte(i)
	}
	for i, b := range a.Bytes() {
		assert.Equal(t, byte(i), b)
	}
}
