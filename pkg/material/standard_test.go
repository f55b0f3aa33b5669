package material

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yoshipbr/yoshigo/pkg/core"
)

func TestStandardMaterial_ReversePDFSymmetry(t *testing.T) {
	m := NewStandardMaterial(core.NewVec3(0.8, 0.8, 0.8), core.Vec3{}, core.Vec3{})
	wi := core.NewVec3(0, 0, 1)
	wo := core.NewVec3(0.3, 0.1, math.Sqrt(1-0.3*0.3-0.1*0.1))

	forward := m.PDF(wi, wo)
	backward := m.PDF(wo, wi)

	assert.InDelta(t, forward.PerProjectedSolidAngle.Value, backward.PerProjectedSolidAngle.Value, 1e-9)
	assert.InDelta(t, forward.PerSolidAngle.Value, backward.PerSolidAngle.Value, 1e-9)
}

func TestStandardMaterial_ProbabilityDensityIdentity(t *testing.T) {
	m := NewStandardMaterial(core.NewVec3(0.5, 0.5, 0.5), core.Vec3{}, core.Vec3{})
	sampler := core.NewRandomSampler(1, 2)
	wi := core.NewVec3(0, 0, 1)

	for i := 0; i < 100; i++ {
		wo, pdf, _, ok := m.GenerateRandomDirection(wi, sampler)
		if !ok {
			continue
		}
		assert.True(t, pdf.IsValid(CosTheta(wo)))
	}
}

func TestMirrorMaterial_SpecularIdentity(t *testing.T) {
	tint := core.NewVec3(0.7, 0.8, 0.9)
	m := NewMirrorMaterial(tint)
	wi := core.NewVec3(0.2, 0.1, math.Sqrt(1-0.2*0.2-0.1*0.1))

	wo, pdf, deltaValue, ok := m.GenerateRandomDirection(wi, nil)
	assert.True(t, ok)
	assert.False(t, pdf.PerProjectedSolidAngle.Finite)
	assert.InDelta(t, 1.0, pdf.PerProjectedSolidAngle.Value, 1e-12)
	assert.InDelta(t, CosTheta(wo), pdf.PerSolidAngle.Value, 1e-12)
	assert.True(t, IsSpecular(pdf))
	assert.Equal(t, tint, deltaValue)
}

// TestMirrorMaterial_EvaluateBRDFIsZeroForArbitraryDirections guards the
// delta-distribution contract: EvaluateBRDF must never be used to recover
// the reflected direction's contribution, since it is zero almost
// everywhere. Callers must use deltaValue from GenerateRandomDirection.
func TestMirrorMaterial_EvaluateBRDFIsZeroForArbitraryDirections(t *testing.T) {
	m := NewMirrorMaterial(core.NewVec3(1, 1, 1))
	wi := core.NewVec3(0, 0, 1)
	wo, _, _, ok := m.GenerateRandomDirection(wi, nil)
	assert.True(t, ok)
	assert.Equal(t, core.Vec3{}, m.EvaluateBRDF(wi, wo))
}
