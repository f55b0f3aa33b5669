package material

import "github.com/yoshipbr/yoshigo/pkg/core"

// MirrorMaterial is a Dirac-like perfect specular reflector. It never
// emits. Tint scales the reflected radiance (1,1,1 for a perfect mirror).
type MirrorMaterial struct {
	Tint core.Vec3
}

// NewMirrorMaterial constructs a MirrorMaterial.
func NewMirrorMaterial(tint core.Vec3) *MirrorMaterial {
	return &MirrorMaterial{Tint: tint}
}

func (m *MirrorMaterial) EvaluateBRDF(wi, wo core.Vec3) core.Vec3 {
	// A delta distribution has zero density almost everywhere; any
	// non-delta-aware evaluation (e.g. area light sampling toward an
	// arbitrary direction) must see zero.
	return core.Vec3{}
}

func (m *MirrorMaterial) EvaluateRadiance(w core.Vec3) core.Vec3 { return core.Vec3{} }

func (m *MirrorMaterial) EvaluateIrradiance() core.Vec3 { return core.Vec3{} }

func (m *MirrorMaterial) IsEmissive() bool { return false }

// GenerateRandomDirection reflects wi about the local normal (+Z axis):
// reflect(d, n) = d - 2*(d.n)*n becomes, for the incoming-away-from-surface
// convention, simply negating the tangential components. The reflected
// direction's BSDF value is returned directly as deltaValue (Tint) rather
// than through EvaluateBRDF, since a delta distribution evaluates to zero
// everywhere EvaluateBRDF can be asked about.
func (m *MirrorMaterial) GenerateRandomDirection(wi core.Vec3, sampler core.Sampler) (core.Vec3, core.DirectionalProbabilityDensity, core.Vec3, bool) {
	cosTheta := CosTheta(wi)
	if cosTheta <= 0 {
		return core.Vec3{}, core.DirectionalProbabilityDensity{}, core.Vec3{}, false
	}
	wo := core.NewVec3(-wi.X, -wi.Y, wi.Z)
	return wo, core.NewSpecularDirectionalPDF(cosTheta), m.Tint, true
}

// PDF always returns zero (finite) for a delta material: an externally
// supplied direction almost never coincides with the single reflected ray.
func (m *MirrorMaterial) PDF(wi, wo core.Vec3) core.DirectionalProbabilityDensity {
	return core.DirectionalProbabilityDensity{
		PerSolidAngle:          core.ProbabilityDensity{Value: 0, Finite: true},
		PerProjectedSolidAngle: core.ProbabilityDensity{Value: 0, Finite: true},
	}
}

func (m *MirrorMaterial) GenerateRandomEmission(sampler core.Sampler) (core.Vec3, core.DirectionalProbabilityDensity, bool) {
	return core.Vec3{}, core.DirectionalProbabilityDensity{}, false
}
