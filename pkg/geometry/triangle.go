// Package geometry implements the renderer's single supported primitive,
// the triangle, including its AABB, Möller–Trumbore ray-cast and visible
// surface-point sampling.
package geometry

import (
	"math"

	"github.com/yoshipbr/yoshigo/pkg/core"
)

// visibleAngleThreshold is the minimum angle (radians) between the surface
// plane and the point-to-vantage direction for a sampled point to count as
// visible from that vantage; points seen at a more grazing angle are
// rejected. arcsin(pi/180) ~= 1 degree.
var visibleAngleThreshold = math.Asin(math.Pi / 180)

// Triangle holds three world-space vertices plus the values derived from
// them once at construction time: face normal, an arbitrary tangent in the
// surface plane, and the cached AABB.
type Triangle struct {
	V0, V1, V2 core.Vec3
	Normal     core.Vec3 // zero if degenerate
	Tangent    core.Vec3
	TwoSided   bool
	Material   core.MaterialID

	area float64
	bbox core.AABB
}

// NewTriangle builds a Triangle and precomputes its normal, tangent, area
// and bounding box.
func NewTriangle(v0, v1, v2 core.Vec3, twoSided bool, material core.MaterialID) *Triangle {
	t := &Triangle{V0: v0, V1: v1, V2: v2, TwoSided: twoSided, Material: material}

	edge1 := v1.Subtract(v0)
	edge2 := v2.Subtract(v0)
	cross := edge1.Cross(edge2)
	length := cross.Length()
	t.area = 0.5 * length
	if length < core.ZeroSafe {
		t.Normal = core.Vec3{}
		t.Tangent = core.Vec3{}
	} else {
		t.Normal = cross.Multiply(1 / length)
		t.Tangent = edge1.Normalize()
	}

	t.bbox = core.NewAABBFromPoints(v0, v1, v2)
	return t
}

// BoundingBox returns the triangle's cached AABB.
func (t *Triangle) BoundingBox() core.AABB {
	return t.bbox
}

// Area returns the triangle's surface area.
func (t *Triangle) Area() float64 {
	return t.area
}

// TriangleHit records a ray-triangle intersection.
type TriangleHit struct {
	T      float64
	Point  core.Vec3
	Normal core.Vec3 // flipped to face the ray if needed
}

// Hit intersects ray against the triangle over the parameter range
// [tMin, tMax] using the Möller–Trumbore algorithm. One-sided triangles
// reject hits from the back.
func (t *Triangle) Hit(ray core.Ray, tMin, tMax float64) (TriangleHit, bool) {
	if t.Normal.IsZero() {
		return TriangleHit{}, false
	}

	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)

	pVec := ray.Direction.Cross(edge2)
	det := edge1.Dot(pVec)
	if math.Abs(det) < core.Epsilon {
		return TriangleHit{}, false
	}

	normal := t.Normal
	if det < 0 {
		// Ray approaches from the back face: edge1.Dot(ray.Direction.Cross(edge2))
		// equals -ray.Direction.Dot(edge1.Cross(edge2)), so it is negative
		// exactly when ray.Direction points the same way as edge1.Cross(edge2),
		// i.e. the ray travels into the triangle's back side.
		if !t.TwoSided {
			return TriangleHit{}, false
		}
		normal = normal.Negate()
	}

	invDet := 1.0 / det
	tVec := ray.Origin.Subtract(t.V0)
	u := tVec.Dot(pVec) * invDet
	if u < 0 || u > 1 {
		return TriangleHit{}, false
	}

	qVec := tVec.Cross(edge1)
	v := ray.Direction.Dot(qVec) * invDet
	if v < 0 || u+v > 1 {
		return TriangleHit{}, false
	}

	tHit := edge2.Dot(qVec) * invDet
	if tHit < tMin || tHit > tMax {
		return TriangleHit{}, false
	}

	return TriangleHit{
		T:      tHit,
		Point:  ray.At(tHit),
		Normal: normal,
	}, true
}

// SampleVisibleSurfacePoint draws a uniformly-distributed point on the
// triangle's surface and reports whether it is visible from vantage: the
// angle between the surface plane and the point-to-vantage direction (90
// degrees minus its angle to the facing normal) must exceed
// visibleAngleThreshold. The returned density is with respect to
// area: 1/Area for one-sided triangles, 2/Area for two-sided (since either
// face may be sampled as "the visible one").
func (t *Triangle) SampleVisibleSurfacePoint(vantage core.Vec3, sampler core.Sampler) (point core.Vec3, normal core.Vec3, areaPDF float64, ok bool) {
	if t.area < core.ZeroSafe {
		return core.Vec3{}, core.Vec3{}, 0, false
	}

	u, v := sampler.Get2D()
	if u+v > 1 {
		u, v = 1-u, 1-v
	}
	w := 1 - u - v

	point = t.V0.Multiply(w).Add(t.V1.Multiply(u)).Add(t.V2.Multiply(v))

	toVantage, safe := vantage.Subtract(point).SafeNormalize()
	if !safe {
		return core.Vec3{}, core.Vec3{}, 0, false
	}

	cosFront := toVantage.Dot(t.Normal)
	facing := t.Normal
	pdf := 1 / t.area
	if t.TwoSided {
		pdf = 2 / t.area
	}

	switch {
	case cosFront > 0:
		facing = t.Normal
	case t.TwoSided && cosFront < 0:
		facing = t.Normal.Negate()
	default:
		return core.Vec3{}, core.Vec3{}, 0, false
	}

	cosAngle := facing.Dot(toVantage)
	theta := math.Acos(clamp(cosAngle, -1, 1))
	if math.Pi/2-theta <= visibleAngleThreshold {
		return core.Vec3{}, core.Vec3{}, 0, false
	}

	return point, facing, pdf, true
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
