package integrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoshipbr/yoshigo/pkg/core"
	"github.com/yoshipbr/yoshigo/pkg/material"
)

const (
	surfaceMaterialID  core.MaterialID = 0
	emissiveMaterialID core.MaterialID = 1
	emissiveShapeID    core.ShapeID    = 1
)

// planeWorld is a fake World with one shaded surface (materials[0]) and one
// emissive plane (materials[1]) directly along every cast ray's direction,
// enough to exercise a single indirect bounce.
type planeWorld struct {
	surface  material.BSDF
	emissive *material.StandardMaterial
}

func (w *planeWorld) BSDF(id core.MaterialID) material.BSDF {
	if id == emissiveMaterialID {
		return w.emissive
	}
	return w.surface
}

func (w *planeWorld) RayCastClosest(ray core.Ray, tMax float64) (SurfaceHit, bool) {
	return SurfaceHit{
		ShapeID:  emissiveShapeID,
		Material: emissiveMaterialID,
		T:        5,
		Point:    ray.At(5),
		Normal:   core.NewVec3(0, 0, -1),
		Tangent:  core.NewVec3(1, 0, 0),
	}, true
}

func (w *planeWorld) Occluded(ray core.Ray, tMax float64) bool { return false }
func (w *planeWorld) PointLights() []PointLight                { return nil }
func (w *planeWorld) EmissiveShapeIDs() []core.ShapeID          { return []core.ShapeID{emissiveShapeID} }
func (w *planeWorld) SampleVisibleSurfacePoint(shapeID core.ShapeID, vantage core.Vec3, sampler core.Sampler) (core.Vec3, core.Vec3, float64, bool) {
	return core.Vec3{}, core.Vec3{}, 0, false
}
func (w *planeWorld) ShapeAreaDensity(shapeID core.ShapeID) (float64, bool) { return 0, false }
func (w *planeWorld) ShapeMaterial(shapeID core.ShapeID) core.MaterialID   { return emissiveMaterialID }

func straightOnSurface() SurfaceData {
	return SurfaceData{
		ShapeID:  0,
		Material: surfaceMaterialID,
		Point:    core.NewVec3(0, 0, 0),
		Normal:   core.NewVec3(0, 0, 1),
		Tangent:  core.NewVec3(1, 0, 0),
		Incoming: core.NewVec3(0, 0, 1),
	}
}

// TestSampleRadiance_MirrorReflectsEmissivePlane guards the fix for a
// maintainer-reported bug: MirrorMaterial.EvaluateBRDF is zero for every
// direction pair, so computing the indirect bounce through EvaluateBRDF made
// a mirror reflect nothing. The reflected contribution must come from
// GenerateRandomDirection's deltaValue instead.
func TestSampleRadiance_MirrorReflectsEmissivePlane(t *testing.T) {
	tint := core.NewVec3(0.9, 0.9, 0.9)
	emissive := core.NewVec3(2, 2, 2)
	world := &planeWorld{
		surface:  material.NewMirrorMaterial(tint),
		emissive: material.NewStandardMaterial(core.Vec3{}, core.Vec3{}, emissive),
	}

	result := SampleRadiance(world, straightOnSurface(), 0, 1, false, true, nil)

	expected := tint.MultiplyVec(emissive)
	assert.InDelta(t, expected.X, result.X, 1e-9)
	assert.InDelta(t, expected.Y, result.Y, 1e-9)
	assert.InDelta(t, expected.Z, result.Z, 1e-9)
	require.NotEqual(t, core.Vec3{}, result, "mirror must reflect the emissive plane's radiance, not absorb it")
}

// TestSampleRadiance_CosineWeightedDiffuseBounceMatchesAlbedo guards the
// paired per-solid-angle/per-projected-solid-angle measure mixup: an
// indirect diffuse bounce off a cosine-weighted-sampled StandardMaterial
// must recover exactly the surface's albedo against a constant-radiance
// source, with no stray cosTheta(wo) factor darkening the result.
func TestSampleRadiance_CosineWeightedDiffuseBounceMatchesAlbedo(t *testing.T) {
	albedo := 0.6
	emissive := 3.0
	world := &planeWorld{
		surface:  material.NewStandardMaterial(core.NewVec3(albedo, albedo, albedo), core.Vec3{}, core.Vec3{}),
		emissive: material.NewStandardMaterial(core.Vec3{}, core.Vec3{}, core.NewVec3(emissive, emissive, emissive)),
	}

	const trials = 20000
	sampler := core.NewRandomSampler(7, 11)
	var sum core.Vec3
	for i := 0; i < trials; i++ {
		sum = sum.Add(SampleRadiance(world, straightOnSurface(), 0, 1, false, true, sampler))
	}
	mean := sum.Multiply(1.0 / trials)

	assert.InDelta(t, albedo*emissive, mean.X, 0.02)
}
