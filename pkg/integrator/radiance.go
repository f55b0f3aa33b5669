package integrator

import (
	"math"

	"github.com/yoshipbr/yoshigo/pkg/core"
	"github.com/yoshipbr/yoshigo/pkg/material"
)

const (
	epsilon       = 1e-6
	shadowBias    = 1e-3
	shadowEndBias = 2e-3
)

// dirSample is the BRDF-direction sample's result, carried alongside enough
// hit data to evaluate its equivalent density under area sampling for MIS.
type dirSample struct {
	contribution core.Vec3
	pdf          float64
	specular     bool
	hitShape     core.ShapeID
	hitPoint     core.Vec3
	hitNormal    core.Vec3
}

// SampleRadiance estimates outgoing radiance toward surf.Incoming at
// surf.Point: emitted radiance, direct point-light contribution, and
// single-bounce indirect light combining BRDF-direction sampling and area
// sampling of every emissive shape via balance-heuristic MIS. depth is the
// current bounce count, maxDepth the bound past which recursion stops.
// sampleLight/sampleBRDF select which surface-sampling strategies run; if
// both are false, both run (the scene-level default).
func SampleRadiance(world World, surf SurfaceData, depth, maxDepth int, sampleLight, sampleBRDF bool, sampler core.Sampler) core.Vec3 {
	if !sampleLight && !sampleBRDF {
		sampleLight, sampleBRDF = true, true
	}

	bsdf := world.BSDF(surf.Material)
	frame := material.NewFrame(surf.Normal, surf.Tangent)
	wiLocal := frame.ToLocal(surf.Incoming)

	emitted := bsdf.EvaluateRadiance(wiLocal)
	if depth >= maxDepth {
		return emitted
	}

	result := emitted.Add(samplePointLights(world, bsdf, frame, surf, wiLocal))

	var ds *dirSample
	if sampleBRDF {
		ds = sampleBRDFDirection(world, bsdf, frame, surf, wiLocal, depth, maxDepth, sampleLight, sampleBRDF, sampler)
	}

	weightDir := 1.0
	if ds != nil && sampleLight && !ds.specular {
		// A specular bounce's direction has zero density under area-light
		// sampling (no other strategy can ever hit it), so it always keeps
		// the full weight; mixing it into the balance heuristic would
		// wrongly discount it using pdf.PerSolidAngle.Value's specular
		// placeholder, which isn't a comparable density.
		if density, ok := world.ShapeAreaDensity(ds.hitShape); ok {
			if pOther, ok2 := areaPDFAtPoint(density, surf.Point, ds.hitPoint, ds.hitNormal); ok2 {
				weightDir = balanceWeight(ds.pdf, pOther)
			}
		}
	}
	if ds != nil {
		result = result.Add(ds.contribution.Multiply(weightDir))
	}

	if sampleLight {
		for _, shapeID := range world.EmissiveShapeIDs() {
			if contribution, ok := sampleAreaLight(world, bsdf, frame, surf, wiLocal, shapeID, sampleBRDF, sampler); ok {
				result = result.Add(contribution)
			}
		}
	}

	return result
}

// sampleBRDFDirection draws one direction from the material, traces it, and
// recurses. Returns nil if sampling, tracing, or the PDF floor failed.
func sampleBRDFDirection(world World, bsdf material.BSDF, frame material.Frame, surf SurfaceData, wiLocal core.Vec3, depth, maxDepth int, sampleLight, sampleBRDF bool, sampler core.Sampler) *dirSample {
	woLocal, pdf, deltaValue, ok := bsdf.GenerateRandomDirection(wiLocal, sampler)
	if !ok {
		return nil
	}
	specular := material.IsSpecular(pdf)
	if !specular && pdf.PerSolidAngle.Value < epsilon {
		return nil
	}

	woWorld := frame.ToWorld(woLocal)
	origin := surf.Point.Add(woWorld.Multiply(shadowBias))
	hit, hitOK := world.RayCastClosest(core.NewRay(origin, woWorld), math.MaxFloat64)
	if !hitOK {
		return nil
	}

	child := SurfaceData{
		ShapeID:  hit.ShapeID,
		Material: hit.Material,
		Point:    hit.Point,
		Normal:   hit.Normal,
		Tangent:  hit.Tangent,
		Incoming: woWorld.Negate(),
	}
	l := SampleRadiance(world, child, depth+1, maxDepth, sampleLight, sampleBRDF, sampler)

	// For a delta (specular) direction, the one sampled direction's BSDF
	// value comes from deltaValue, never from EvaluateBRDF: a delta
	// distribution is zero everywhere EvaluateBRDF can be asked about, so
	// the rendering-equation estimator collapses to deltaValue*L exactly,
	// with no pdf division (the delta integrates it away).
	if specular {
		return &dirSample{
			contribution: deltaValue.MultiplyVec(l),
			pdf:          pdf.PerSolidAngle.Value,
			specular:     true,
			hitShape:     hit.ShapeID,
			hitPoint:     hit.Point,
			hitNormal:    hit.Normal,
		}
	}

	f := bsdf.EvaluateBRDF(wiLocal, woLocal)
	cosTheta := material.CosTheta(woLocal)

	return &dirSample{
		contribution: f.MultiplyVec(l).Multiply(cosTheta / pdf.PerSolidAngle.Value),
		pdf:          pdf.PerSolidAngle.Value,
		hitShape:     hit.ShapeID,
		hitPoint:     hit.Point,
		hitNormal:    hit.Normal,
	}
}

// samplePointLights sums the direct contribution of every point light,
// each weighted 1 (no MIS competitor samples a point light's direction).
func samplePointLights(world World, bsdf material.BSDF, frame material.Frame, surf SurfaceData, wiLocal core.Vec3) core.Vec3 {
	var total core.Vec3
	for _, light := range world.PointLights() {
		v := light.Position.Subtract(surf.Point)
		w, ok := v.SafeNormalize()
		if !ok {
			continue
		}
		cosTheta := w.Dot(surf.Normal)
		if cosTheta <= 0 {
			continue
		}

		origin := surf.Point.Add(w.Multiply(shadowBias))
		if world.Occluded(core.NewRay(origin, v), 1) {
			continue
		}

		wLocal := frame.ToLocal(w)
		f := bsdf.EvaluateBRDF(wiLocal, wLocal)
		distSq := v.LengthSquared()
		intensity := light.radiantIntensity()
		total = total.Add(intensity.MultiplyVec(f).Multiply(cosTheta / distSq))
	}
	return total
}

// sampleAreaLight draws one visible point on shapeID and returns its
// MIS-weighted contribution. ok is false if the sample is rejected at any
// stage (failed sampling, backfacing, occluded).
func sampleAreaLight(world World, bsdf material.BSDF, frame material.Frame, surf SurfaceData, wiLocal core.Vec3, shapeID core.ShapeID, sampleBRDF bool, sampler core.Sampler) (core.Vec3, bool) {
	point, normalDst, areaPDF, ok := world.SampleVisibleSurfacePoint(shapeID, surf.Point, sampler)
	if !ok {
		return core.Vec3{}, false
	}

	v := point.Subtract(surf.Point)
	distSq := v.LengthSquared()
	w, safe := v.SafeNormalize()
	if !safe {
		return core.Vec3{}, false
	}

	cosDst := w.Negate().Dot(normalDst)
	if cosDst <= epsilon {
		return core.Vec3{}, false
	}
	pAnglePt := areaPDF * distSq / cosDst
	if pAnglePt < epsilon {
		return core.Vec3{}, false
	}

	wLocal := frame.ToLocal(w)
	cosSrc := material.CosTheta(wLocal)
	if cosSrc <= 0 {
		return core.Vec3{}, false
	}

	origin := surf.Point.Add(w.Multiply(shadowBias))
	dist := math.Sqrt(distSq)
	shadowTMax := dist - shadowEndBias
	if shadowTMax > 0 {
		if hit, hitOK := world.RayCastClosest(core.NewRay(origin, w), shadowTMax+shadowEndBias); hitOK && hit.ShapeID != shapeID {
			return core.Vec3{}, false
		}
	}

	weightPt := 1.0
	if sampleBRDF {
		pdfDir := bsdf.PDF(wiLocal, wLocal)
		if pdfDir.PerSolidAngle.Value+pAnglePt >= epsilon {
			weightPt = balanceWeight(pAnglePt, pdfDir.PerSolidAngle.Value)
		}
	}

	shapeBSDF := world.BSDF(world.ShapeMaterial(shapeID))
	shapeFrame := material.NewFrame(normalDst, core.Vec3{})
	l := shapeBSDF.EvaluateRadiance(shapeFrame.ToLocal(w.Negate()))
	// L above is measured in the emissive shape's own local frame, built on
	// the facing normal normalDst, where the direction back toward the
	// shading point has cosine cosDst > 0.

	f := bsdf.EvaluateBRDF(wiLocal, wLocal)
	contribution := f.MultiplyVec(l).Multiply(weightPt * cosSrc / pAnglePt)
	return contribution, true
}
