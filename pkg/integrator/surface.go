// Package integrator implements SampleRadiance, the unidirectional
// Monte-Carlo estimator combining point lights, BRDF-direction sampling and
// area sampling of emissive shapes via balance-heuristic multiple importance
// sampling.
package integrator

import (
	"math"

	"github.com/yoshipbr/yoshigo/pkg/core"
)

// SurfaceData describes the shading point SampleRadiance is asked to
// evaluate: world-space position and frame, plus the direction the path
// arrived from (pointing away from the surface, toward the viewer/previous
// vertex).
type SurfaceData struct {
	ShapeID  core.ShapeID
	Material core.MaterialID
	Point    core.Vec3
	Normal   core.Vec3
	Tangent  core.Vec3
	Incoming core.Vec3
}

// SurfaceHit is what a World's ray casts resolve to: enough to build the
// next SurfaceData without the integrator knowing anything about shape
// storage.
type SurfaceHit struct {
	ShapeID  core.ShapeID
	Material core.MaterialID
	T        float64
	Point    core.Vec3
	Normal   core.Vec3
	Tangent  core.Vec3
}

// PointLight is an isotropic point source; Wattage is total radiant power,
// so the radiant intensity any direction sees is Wattage / 4π.
type PointLight struct {
	Position core.Vec3
	Wattage  core.Vec3
}

func (l PointLight) radiantIntensity() core.Vec3 {
	return l.Wattage.Multiply(1 / (4 * math.Pi))
}
