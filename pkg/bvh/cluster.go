package bvh

import "github.com/yoshipbr/yoshigo/pkg/core"

const nullCluster = -1

// cluster is a node of the agglomerative clustering algorithm, pulled from
// a pre-sized pool of 2*leafCount-1 slots (leafCount leaves plus
// leafCount-1 internal merges). Clusters live in a doubly linked list while
// being combined; left/right/srcIdx/shapeID distinguish leaves from
// merged internal clusters. Final node-array indices are assigned by the
// finalize pass in Build, not stored here.
type cluster struct {
	aabb    core.AABB
	zOrder  uint64
	srcIdx  int32 // source leaf index, or -1 for internal clusters
	shapeID core.ShapeID

	left, right int32 // cluster-pool indices, or nullCluster for leaves

	prev, next int32 // linked-list pointers within a clusterList, or nullCluster

	bestMatch int32
	bestCost  float64
}

// clusterList is a doubly linked list over a slice of cluster indices.
type clusterList struct {
	first, last int32
	count       int
}

func newClusterList() clusterList {
	return clusterList{first: nullCluster, last: nullCluster}
}

func (l *clusterList) pushBack(pool []cluster, idx int32) {
	pool[idx].prev = l.last
	pool[idx].next = nullCluster
	if l.last != nullCluster {
		pool[l.last].next = idx
	} else {
		l.first = idx
	}
	l.last = idx
	l.count++
}

func (l *clusterList) remove(pool []cluster, idx int32) {
	c := pool[idx]
	if c.prev != nullCluster {
		pool[c.prev].next = c.next
	} else {
		l.first = c.next
	}
	if c.next != nullCluster {
		pool[c.next].prev = c.prev
	} else {
		l.last = c.prev
	}
	l.count--
}

func (l *clusterList) splice(pool []cluster, other clusterList) {
	if other.first == nullCluster {
		return
	}
	if l.last == nullCluster {
		*l = other
		return
	}
	pool[l.last].next = other.first
	pool[other.first].prev = l.last
	l.last = other.last
	l.count += other.count
}

// mergeCost is the half-surface-area of the box that would result from
// merging a and b: dx*dy + dy*dz + dz*dx.
func mergeCost(a, b core.AABB) float64 {
	merged := a.Union(b)
	size := merged.Size()
	return size.X*size.Y + size.Y*size.Z + size.Z*size.X
}

// findBestMatch recomputes idx's best merge partner by an O(count) scan
// over every other cluster currently in list.
func findBestMatch(pool []cluster, list clusterList, idx int32) {
	best := int32(nullCluster)
	bestCost := 0.0
	for other := list.first; other != nullCluster; other = pool[other].next {
		if other == idx {
			continue
		}
		cost := mergeCost(pool[idx].aabb, pool[other].aabb)
		if best == nullCluster || cost < bestCost {
			best, bestCost = other, cost
		}
	}
	pool[idx].bestMatch = best
	pool[idx].bestCost = bestCost
}

// combineClusters repeatedly merges the cheapest matched pair in list until
// only target clusters remain, allocating new internal clusters from pool
// sequentially at the slot *next, which it advances. Returns the resulting
// (shorter) list.
func combineClusters(pool []cluster, next *int32, list clusterList, target int) clusterList {
	for c := list.first; c != nullCluster; c = pool[c].next {
		findBestMatch(pool, list, c)
	}

	for list.count > target {
		var best int32 = nullCluster
		bestCost := 0.0
		for c := list.first; c != nullCluster; c = pool[c].next {
			if best == nullCluster || pool[c].bestCost < bestCost {
				best, bestCost = c, pool[c].bestCost
			}
		}

		a := best
		b := pool[a].bestMatch

		parentIdx := *next
		*next++
		pool[parentIdx] = cluster{
			aabb:    pool[a].aabb.Union(pool[b].aabb),
			srcIdx:  -1,
			shapeID: core.NullShapeID,
			left:    a,
			right:   b,
		}

		list.remove(pool, a)
		list.remove(pool, b)
		list.pushBack(pool, parentIdx)

		findBestMatch(pool, list, parentIdx)
		for c := list.first; c != nullCluster; c = pool[c].next {
			if pool[c].bestMatch == a || pool[c].bestMatch == b {
				findBestMatch(pool, list, c)
			}
		}
	}

	return list
}
