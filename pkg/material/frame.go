package material

import "github.com/yoshipbr/yoshigo/pkg/core"

// Frame is the orthonormal [tangent, bitangent, normal] basis that
// directional sampling and PDF queries operate in, matching the original
// source's surface-local direction convention.
type Frame struct {
	Tangent   core.Vec3
	Bitangent core.Vec3
	Normal    core.Vec3
}

// NewFrame builds a Frame from a normal and an arbitrary tangent hint,
// orthonormalizing the tangent against the normal via Gram-Schmidt.
func NewFrame(normal, tangentHint core.Vec3) Frame {
	n := normal
	t := tangentHint.Subtract(n.Multiply(tangentHint.Dot(n)))
	t, ok := t.SafeNormalize()
	if !ok {
		// Degenerate hint; pick an arbitrary perpendicular.
		arbitrary := core.NewVec3(1, 0, 0)
		if n.AbsDot(arbitrary) > 0.99 {
			arbitrary = core.NewVec3(0, 1, 0)
		}
		t = n.Cross(arbitrary).Normalize()
	}
	b := n.Cross(t)
	return Frame{Tangent: t, Bitangent: b, Normal: n}
}

// ToLocal projects a world-space direction into the frame's local basis.
func (f Frame) ToLocal(v core.Vec3) core.Vec3 {
	return core.NewVec3(v.Dot(f.Tangent), v.Dot(f.Bitangent), v.Dot(f.Normal))
}

// ToWorld lifts a local-space direction back into world space.
func (f Frame) ToWorld(v core.Vec3) core.Vec3 {
	return f.Tangent.Multiply(v.X).Add(f.Bitangent.Multiply(v.Y)).Add(f.Normal.Multiply(v.Z))
}

// CosTheta returns the cosine of the angle against the frame's normal for
// a local-space direction (simply its Z component).
func CosTheta(local core.Vec3) float64 {
	return local.Z
}
