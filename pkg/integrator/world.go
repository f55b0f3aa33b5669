package integrator

import (
	"github.com/yoshipbr/yoshigo/pkg/core"
	"github.com/yoshipbr/yoshigo/pkg/material"
)

// World is the collaborator SampleRadiance needs from a scene: ray casting,
// material lookup, and enumeration/sampling of light-carrying geometry. A
// scene package implements this against its own shape and BVH storage; the
// integrator never sees shape kinds or BVH nodes directly.
type World interface {
	// RayCastClosest returns the nearest hit along ray within [0, tMax].
	RayCastClosest(ray core.Ray, tMax float64) (SurfaceHit, bool)

	// Occluded reports whether anything blocks ray within [0, tMax],
	// without needing the closest hit.
	Occluded(ray core.Ray, tMax float64) bool

	// BSDF resolves a material reference to its behavioral interface.
	BSDF(id core.MaterialID) material.BSDF

	// PointLights returns every point light in the scene.
	PointLights() []PointLight

	// EmissiveShapeIDs returns every shape with a non-zero-emission
	// material, the set area sampling iterates over.
	EmissiveShapeIDs() []core.ShapeID

	// SampleVisibleSurfacePoint draws a point on shapeID visible from
	// vantage, returning its world position, outward normal, and area
	// probability density (1/Area one-sided, 2/Area two-sided). ok is
	// false if no point could be sampled (degenerate shape, grazing
	// angle below the visibility threshold).
	SampleVisibleSurfacePoint(shapeID core.ShapeID, vantage core.Vec3, sampler core.Sampler) (point, normal core.Vec3, areaPDF float64, ok bool)

	// ShapeAreaDensity returns the same per-point area density
	// SampleVisibleSurfacePoint would report (1/Area or 2/Area), used to
	// convert a point the BRDF-direction sample happened to land on into
	// an equivalent area-sampling density for MIS.
	ShapeAreaDensity(shapeID core.ShapeID) (density float64, ok bool)

	// ShapeMaterial returns the material id a shape was built with, used
	// to evaluate an emissive shape's own radiance after area-sampling a
	// point on it.
	ShapeMaterial(shapeID core.ShapeID) core.MaterialID
}

// areaPDFAtPoint converts an area density at hitPoint (with outward normal
// hitNormal) into a per-solid-angle density as seen from "from", via the
// backward geometry factor r²/cosθ. ok is false if the point is behind the
// surface or coincident with "from".
func areaPDFAtPoint(areaDensity float64, from, hitPoint, hitNormal core.Vec3) (float64, bool) {
	v := hitPoint.Subtract(from)
	distSq := v.LengthSquared()
	w, safe := v.SafeNormalize()
	if !safe {
		return 0, false
	}
	cos := w.Negate().Dot(hitNormal)
	if cos <= epsilon {
		return 0, false
	}
	return areaDensity * distSq / cos, true
}

// balanceWeight is the two-strategy balance-heuristic MIS weight for the
// sample drawn under pThis, competing against an alternate strategy whose
// density at the same point is pOther.
func balanceWeight(pThis, pOther float64) float64 {
	denom := pThis + pOther
	if denom < epsilon {
		return 0
	}
	return pThis / denom
}
