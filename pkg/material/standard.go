package material

import (
	"math"

	"github.com/yoshipbr/yoshigo/pkg/core"
)

// StandardMaterial is a Lambertian-diffuse reflective material that may
// also emit constant radiance, covering both the distilled spec's
// "material-standards" scene descriptor (diffuse + specular + emissive
// triples) and the split BSDF/emission method set of a canonical
// EmissiveUniform material: a surface with zero diffuse/specular and
// non-zero Emissive behaves exactly like an emissive-only primitive.
// SpecularAlbedo is stored but unused in sampling, per the spec.
type StandardMaterial struct {
	DiffuseAlbedo  core.Vec3
	SpecularAlbedo core.Vec3
	Emissive       core.Vec3
}

// NewStandardMaterial constructs a StandardMaterial.
func NewStandardMaterial(diffuse, specular, emissive core.Vec3) *StandardMaterial {
	return &StandardMaterial{DiffuseAlbedo: diffuse, SpecularAlbedo: specular, Emissive: emissive}
}

func (m *StandardMaterial) EvaluateBRDF(wi, wo core.Vec3) core.Vec3 {
	if CosTheta(wi) <= 0 || CosTheta(wo) <= 0 {
		return core.Vec3{}
	}
	return m.DiffuseAlbedo.Multiply(1 / math.Pi)
}

func (m *StandardMaterial) EvaluateRadiance(w core.Vec3) core.Vec3 {
	if !m.IsEmissive() || CosTheta(w) <= 0 {
		return core.Vec3{}
	}
	return m.Emissive
}

func (m *StandardMaterial) EvaluateIrradiance() core.Vec3 {
	return m.Emissive.Multiply(math.Pi)
}

func (m *StandardMaterial) IsEmissive() bool {
	return m.Emissive.Luminance() > 0
}

// GenerateRandomDirection draws a cosine-weighted direction on the
// hemisphere around the local +Z (normal) axis: phi = 2*pi*u,
// cosTheta = sqrt(1-v), sinTheta = sqrt(v).
func (m *StandardMaterial) GenerateRandomDirection(wi core.Vec3, sampler core.Sampler) (core.Vec3, core.DirectionalProbabilityDensity, core.Vec3, bool) {
	if CosTheta(wi) <= 0 {
		return core.Vec3{}, core.DirectionalProbabilityDensity{}, core.Vec3{}, false
	}
	u, v := sampler.Get2D()
	phi := 2 * math.Pi * u
	cosTheta := math.Sqrt(1 - v)
	sinTheta := math.Sqrt(v)

	wo := core.NewVec3(sinTheta*math.Cos(phi), sinTheta*math.Sin(phi), cosTheta)
	return wo, m.pdfForCosTheta(cosTheta), core.Vec3{}, true
}

func (m *StandardMaterial) pdfForCosTheta(cosTheta float64) core.DirectionalProbabilityDensity {
	const perProjected = 1 / math.Pi
	if cosTheta < core.Epsilon {
		// Grazing: treat the projected-solid-angle measure as infinite,
		// with per-solid-angle value collapsing to zero.
		return core.DirectionalProbabilityDensity{
			PerSolidAngle:          core.ProbabilityDensity{Value: 0, Finite: true},
			PerProjectedSolidAngle: core.ProbabilityDensity{Value: 1, Finite: false},
		}
	}
	return core.NewFiniteDirectionalPDF(perProjected, cosTheta)
}

func (m *StandardMaterial) PDF(wi, wo core.Vec3) core.DirectionalProbabilityDensity {
	cosTheta := CosTheta(wo)
	if CosTheta(wi) <= 0 || cosTheta <= 0 {
		return core.DirectionalProbabilityDensity{
			PerSolidAngle:          core.ProbabilityDensity{Value: 0, Finite: true},
			PerProjectedSolidAngle: core.ProbabilityDensity{Value: 0, Finite: true},
		}
	}
	return m.pdfForCosTheta(cosTheta)
}

// GenerateRandomEmission draws a direction uniformly over the hemisphere
// (cosTheta = u), the emission-sampling convention used for light sources:
// per-solid-angle density is the constant 1/(2*pi).
func (m *StandardMaterial) GenerateRandomEmission(sampler core.Sampler) (core.Vec3, core.DirectionalProbabilityDensity, bool) {
	if !m.IsEmissive() {
		return core.Vec3{}, core.DirectionalProbabilityDensity{}, false
	}
	u, v := sampler.Get2D()
	cosTheta := u
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	phi := 2 * math.Pi * v

	wo := core.NewVec3(sinTheta*math.Cos(phi), sinTheta*math.Sin(phi), cosTheta)
	const perSolidAngle = 1 / (2 * math.Pi)
	pdf := core.DirectionalProbabilityDensity{
		PerSolidAngle:          core.ProbabilityDensity{Value: perSolidAngle, Finite: true},
		PerProjectedSolidAngle: core.ProbabilityDensity{Value: perSolidAngle / math.Max(cosTheta, core.Epsilon), Finite: true},
	}
	return wo, pdf, true
}
