package bvh

import "github.com/yoshipbr/yoshigo/pkg/core"

// Validate checks the structural invariants asserted by the builder:
// node-before-children ordering, AABB containment and the leaf/inner
// exclusivity of Left/Right/ShapeID.
func (b *BVH) Validate() error {
	for i, node := range b.Nodes {
		if node.Parent != core.NullNodeIndex && int(node.Parent) >= i {
			return errInvariant("parent index must be less than node index")
		}
		isLeaf := node.Left == core.NullNodeIndex && node.Right == core.NullNodeIndex
		if isLeaf != (node.ShapeID != core.NullShapeID) {
			return errInvariant("leaf status must match shape id presence")
		}
		if !isLeaf {
			left, right := b.Nodes[node.Left], b.Nodes[node.Right]
			if !containsBox(node.AABB, left.AABB) || !containsBox(node.AABB, right.AABB) {
				return errInvariant("parent AABB must contain child AABBs")
			}
		}
	}
	return nil
}

func containsBox(outer, inner core.AABB) bool {
	const tol = 1e-9
	return inner.Min.X >= outer.Min.X-tol && inner.Min.Y >= outer.Min.Y-tol && inner.Min.Z >= outer.Min.Z-tol &&
		inner.Max.X <= outer.Max.X+tol && inner.Max.Y <= outer.Max.Y+tol && inner.Max.Z <= outer.Max.Z+tol
}

type invariantError string

func (e invariantError) Error() string { return string(e) }

func errInvariant(msg string) error { return invariantError(msg) }
