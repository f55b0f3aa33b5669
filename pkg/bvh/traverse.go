package bvh

import "github.com/yoshipbr/yoshigo/pkg/core"

// FlowControl is the callback's instruction to RayCast after it handles a
// leaf hit.
type FlowControl int

const (
	// FlowContinue keeps the current tMax and keeps searching.
	FlowContinue FlowControl = iota
	// FlowClip tightens tMax to the hit's t.
	FlowClip
	// FlowStop unwinds the traversal immediately.
	FlowStop
)

// LeafHitFunc is invoked by RayCast for every leaf whose AABB the ray
// intersects; it must perform the actual shape ray-cast and report the
// flow-control decision plus (if any) the hit distance to clip to.
type LeafHitFunc func(shapeID core.ShapeID, tMax float64) (hitT float64, hit bool, flow FlowControl)

// newStack allocates a traversal stack sized to the hierarchy's depth, per
// the REDESIGN FLAG requiring a dynamically sized stack rather than a
// hardcoded constant.
func (b *BVH) newStack() []core.NodeIndex {
	capacity := b.Depth + 1
	if capacity < 1 {
		capacity = 1
	}
	return make([]core.NodeIndex, 0, capacity*2)
}

// RayCast walks every leaf whose AABB the ray intersects within the current
// tMax (tightened by FlowClip), invoking onLeaf for each, until either the
// stack empties or onLeaf returns FlowStop.
func (b *BVH) RayCast(ray core.Ray, tMax float64, onLeaf LeafHitFunc) {
	if len(b.Nodes) == 0 {
		return
	}

	stack := b.newStack()
	stack = append(stack, 0)

	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := b.Nodes[idx]
		if !node.AABB.Intersects(ray, tMax) {
			continue
		}

		if node.isLeaf() {
			hitT, hit, flow := onLeaf(node.ShapeID, tMax)
			if !hit {
				continue
			}
			switch flow {
			case FlowClip:
				tMax = hitT
			case FlowStop:
				return
			}
			continue
		}

		stack = append(stack, node.Left, node.Right)
	}
}

// ClosestHit is the result of RayCastClosest.
type ClosestHit struct {
	ShapeID core.ShapeID
	T       float64
}

// ClosestLeafHitFunc performs the shape ray-cast for RayCastClosest.
type ClosestLeafHitFunc func(shapeID core.ShapeID, tMax float64) (t float64, hit bool)

// RayCastClosest returns the closest-hit shape along the ray within
// [0, tMax], or ok=false if nothing was hit.
func (b *BVH) RayCastClosest(ray core.Ray, tMax float64, onLeaf ClosestLeafHitFunc) (ClosestHit, bool) {
	var best ClosestHit
	found := false

	b.RayCast(ray, tMax, func(shapeID core.ShapeID, curTMax float64) (float64, bool, FlowControl) {
		t, hit := onLeaf(shapeID, curTMax)
		if !hit {
			return 0, false, FlowContinue
		}
		best = ClosestHit{ShapeID: shapeID, T: t}
		found = true
		return t, true, FlowClip
	})

	return best, found
}
