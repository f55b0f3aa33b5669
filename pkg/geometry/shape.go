package geometry

import "github.com/yoshipbr/yoshigo/pkg/core"

// ShapeKind discriminates the Shape tagged variant. Triangle is the only
// kind implemented; the kind tag exists so a future primitive can be added
// without disturbing the dense-array-plus-index design used throughout.
type ShapeKind int

const (
	ShapeKindTriangle ShapeKind = iota
)

// Shape is a tagged variant over the scene's per-kind primitive arrays:
// Kind selects the array, TypeIndex is the offset within it. This mirrors
// the scene's Material tagged variant and keeps shape storage contiguous
// per kind rather than behind per-shape interface boxing.
type Shape struct {
	Kind      ShapeKind
	TypeIndex int32
	Material  core.MaterialID
}

// ShapeHit is the ray-cast result surfaced by a Scene, abstracted away from
// the concrete shape kind that produced it.
type ShapeHit struct {
	T        float64
	Point    core.Vec3
	Normal   core.Vec3
	ShapeID  core.ShapeID
	Material core.MaterialID
}
