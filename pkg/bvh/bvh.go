// Package bvh implements the Morton-code-seeded, agglomerative-clustering
// bounding volume hierarchy builder and its iterative-stack traversal
// primitives.
package bvh

import (
	"math"
	"sort"

	"github.com/yoshipbr/yoshigo/pkg/core"
)

const delta = 8

// Node is one entry of the flattened BVH node array. Leaves have
// Left == Right == core.NullNodeIndex and a valid ShapeID; inner nodes have
// ShapeID == core.NullShapeID.
type Node struct {
	AABB     core.AABB
	ShapeID  core.ShapeID
	Parent   core.NodeIndex
	Left     core.NodeIndex
	Right    core.NodeIndex
}

func (n Node) isLeaf() bool {
	return n.Left == core.NullNodeIndex && n.Right == core.NullNodeIndex
}

// BVH is the built, immutable hierarchy.
type BVH struct {
	Nodes []Node
	Depth int
}

// f(n) = max(1, floor(sqrt(n*delta)/2)), the AAC target cluster count.
func clusterTarget(n int) int {
	v := int(math.Sqrt(float64(n*delta)) / 2)
	if v < 1 {
		v = 1
	}
	return v
}

// Build constructs a BVH over leafBoxes/leafShapeIDs (parallel slices, one
// entry per leaf). An empty input yields an empty BVH (Depth 0).
func Build(leafBoxes []core.AABB, leafShapeIDs []core.ShapeID) *BVH {
	n := len(leafBoxes)
	if n == 0 {
		return &BVH{}
	}
	if n == 1 {
		return &BVH{
			Nodes: []Node{{
				AABB:    leafBoxes[0],
				ShapeID: leafShapeIDs[0],
				Parent:  core.NullNodeIndex,
				Left:    core.NullNodeIndex,
				Right:   core.NullNodeIndex,
			}},
			Depth: 1,
		}
	}

	// Phase 1: centroids, normalize into a unit cube, Morton-sort.
	centroidsMin := leafBoxes[0].Center()
	centroidsMax := centroidsMin
	centroids := make([]core.Vec3, n)
	for i, box := range leafBoxes {
		c := box.Center()
		centroids[i] = c
		centroidsMin = centroidsMin.Min(c)
		centroidsMax = centroidsMax.Max(c)
	}

	span := centroidsMax.Subtract(centroidsMin)
	maxSpan := math.Max(span.X, math.Max(span.Y, span.Z))
	if maxSpan < core.ZeroSafe {
		maxSpan = 1
	}

	pool := make([]cluster, 2*n-1)
	order := make([]int32, n)
	for i := 0; i < n; i++ {
		rel := centroids[i].Subtract(centroidsMin).Multiply(1 / maxSpan)
		code := mortonCode3(quantizeUnit(rel.X), quantizeUnit(rel.Y), quantizeUnit(rel.Z))
		pool[i] = cluster{
			aabb:    leafBoxes[i],
			zOrder:  code,
			srcIdx:  int32(i),
			shapeID: leafShapeIDs[i],
			left:    nullCluster,
			right:   nullCluster,
		}
		order[i] = int32(i)
	}

	sort.SliceStable(order, func(a, b int) bool {
		ca, cb := pool[order[a]], pool[order[b]]
		if ca.zOrder != cb.zOrder {
			return ca.zOrder < cb.zOrder
		}
		return ca.srcIdx < cb.srcIdx
	})

	next := int32(n)
	root := buildTree(pool, &next, order, 0, n, 62)

	// The top-level buildTree call combines down to clusterTarget(n)
	// clusters, which is more than one for n >= 2; this final combine
	// merges what remains into the single root cluster.
	root = combineClusters(pool, &next, root, 1)

	nodes := make([]Node, 2*n-1)
	depth := 0
	var remapIdx int32
	var finalize func(c int32, parent core.NodeIndex, d int) core.NodeIndex
	finalize = func(c int32, parent core.NodeIndex, d int) core.NodeIndex {
		if d > depth {
			depth = d
		}
		idx := remapIdx
		remapIdx++
		nodes[idx] = Node{AABB: pool[c].aabb, Parent: parent, ShapeID: core.NullShapeID, Left: core.NullNodeIndex, Right: core.NullNodeIndex}

		if pool[c].left == nullCluster {
			nodes[idx].ShapeID = pool[c].shapeID
			return idx
		}

		leftIdx := finalize(pool[c].left, idx, d+1)
		rightIdx := finalize(pool[c].right, idx, d+1)
		nodes[idx].Left = leftIdx
		nodes[idx].Right = rightIdx
		return idx
	}
	finalize(root.first, core.NullNodeIndex, 1)

	return &BVH{Nodes: nodes, Depth: depth}
}

// buildTree recursively partitions order[begin:end] by Morton-code bit
// transitions, combining each partition's clusters once it falls below
// delta, per the AAC algorithm.
func buildTree(pool []cluster, next *int32, order []int32, begin, end, bitPos int) clusterList {
	count := end - begin
	if count < delta {
		list := newClusterList()
		for i := begin; i < end; i++ {
			list.pushBack(pool, order[i])
		}
		return combineClusters(pool, next, list, clusterTarget(delta))
	}

	split := makePartition(pool, order, begin, end, bitPos)
	for (split <= begin || split >= end) && bitPos > 0 {
		bitPos--
		split = makePartition(pool, order, begin, end, bitPos)
	}
	if split <= begin || split >= end || bitPos < 0 {
		// No bit transition found in the remaining bits (degenerate/ties);
		// fall back to an even split to guarantee progress.
		split = begin + count/2
	}

	var left, right clusterList
	if bitPos-1 >= 0 {
		left = buildTree(pool, next, order, begin, split, bitPos-1)
		right = buildTree(pool, next, order, split, end, bitPos-1)
	} else {
		left = newClusterList()
		for i := begin; i < split; i++ {
			left.pushBack(pool, order[i])
		}
		right = newClusterList()
		for i := split; i < end; i++ {
			right.pushBack(pool, order[i])
		}
	}

	left.splice(pool, right)
	return combineClusters(pool, next, left, clusterTarget(count))
}

// makePartition binary-searches order[begin:end] for the first index whose
// Morton code has bit bitPos set, given the range is sorted ascending by
// Morton code.
func makePartition(pool []cluster, order []int32, begin, end, bitPos int) int {
	if bitPos < 0 {
		return begin
	}
	mask := uint64(1) << uint(bitPos)
	lo, hi := begin, end
	for lo < hi {
		mid := (lo + hi) / 2
		if pool[order[mid]].zOrder&mask == 0 {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}
