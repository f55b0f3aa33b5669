// Package mempool implements a size-classed chunked slab allocator: fixed
// 16-byte-stride size classes up to 1024 bytes, each backed by a free list
// of chunks carved from block allocations. It backs the job system's
// ParallelFor range-argument allocations (see jobsystem.Worker.allocRangeArg)
// so that hot-path allocation never goes through a general-purpose allocator
// or garbage-collector-visible heap churn beyond the block itself. Job
// structs themselves are not pool-backed; see the "Job allocation" note in
// DESIGN.md for why.
package mempool

import (
	"fmt"
	"sync"
)

const (
	chunkSizeCount     = 64
	chunkSizeIncrement = 16
	maxChunkSize       = chunkSizeCount * chunkSizeIncrement // 1024
	blockSize          = chunkSizeIncrement * maxChunkSize   // 16384; guarantees every block hosts >=1 chunk
)

// chunk is one slab slot. It carries both the intrusive free-list pointer
// and the backing memory, since Go has no raw pointer arithmetic: a chunk
// retains its slice of block memory even while "freed" so Allocate can hand
// it straight back out.
type chunk struct {
	next *chunk
	mem  []byte
}

type sizeClass struct {
	chunkSize int
	freeList  *chunk
	blocks    [][]byte // kept alive so slices into them remain valid
}

// Pool is a chunked slab allocator over chunkSizeCount size classes.
type Pool struct {
	mu           sync.Mutex
	classes      [chunkSizeCount]sizeClass
	sizeToClass  [maxChunkSize + 1]int8
	liveByClass  [chunkSizeCount]int // allocation count outstanding, for validation/tests
}

// NewPool builds a Pool with its size-class lookup table precomputed once.
func NewPool() *Pool {
	p := &Pool{}
	for i := range p.classes {
		p.classes[i].chunkSize = (i + 1) * chunkSizeIncrement
	}
	for size := 1; size <= maxChunkSize; size++ {
		classIdx := (size - 1) / chunkSizeIncrement
		p.sizeToClass[size] = int8(classIdx)
	}
	return p
}

// Allocation is a handle to a live chunk, returned by Allocate and consumed
// by Free. It is itself cheap to copy (one pointer plus a class index).
type Allocation struct {
	class int
	c     *chunk
}

// Bytes exposes the allocation's backing memory, sized exactly to the size
// class's chunk size (which may be larger than the originally requested
// size).
func (a Allocation) Bytes() []byte {
	return a.c.mem
}

// Allocate returns a chunk able to hold size bytes, failing for size <= 0
// or size > 1024.
func (p *Pool) Allocate(size int) (Allocation, error) {
	if size <= 0 || size > maxChunkSize {
		return Allocation{}, fmt.Errorf("mempool: invalid allocation size %d", size)
	}

	classIdx := int(p.sizeToClass[size])

	p.mu.Lock()
	defer p.mu.Unlock()

	class := &p.classes[classIdx]
	if class.freeList == nil {
		p.growClass(classIdx)
	}

	c := class.freeList
	class.freeList = c.next
	c.next = nil
	p.liveByClass[classIdx]++

	return Allocation{class: classIdx, c: c}, nil
}

// growClass allocates a fresh block for classIdx and links its chunks into
// the class's free list.
func (p *Pool) growClass(classIdx int) {
	class := &p.classes[classIdx]
	chunkSize := class.chunkSize
	chunkCount := blockSize / chunkSize
	if chunkCount < 1 {
		chunkCount = 1
	}

	block := make([]byte, chunkCount*chunkSize)
	class.blocks = append(class.blocks, block)

	for i := 0; i < chunkCount; i++ {
		c := &chunk{mem: block[i*chunkSize : (i+1)*chunkSize]}
		c.next = class.freeList
		class.freeList = c
	}
}

// Free returns a, the result of a prior Allocate, to its size class's free
// list.
func (p *Pool) Free(a Allocation) {
	p.mu.Lock()
	defer p.mu.Unlock()

	class := &p.classes[a.class]
	a.c.next = class.freeList
	class.freeList = a.c
	p.liveByClass[a.class]--
}

// LiveCount returns the number of outstanding (unfreed) allocations across
// all size classes, used by tests and by job-system shutdown to assert all
// pool memory has been returned.
func (p *Pool) LiveCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	total := 0
	for _, n := range p.liveByClass {
		total += n
	}
	return total
}
