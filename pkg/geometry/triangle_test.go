package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoshipbr/yoshigo/pkg/core"
)

// A CCW-wound triangle (as seen by a viewer along -Z) has its raw normal
// already facing that viewer: edge1.Cross(edge2) points toward +Z here.
func ccwTriangleFacingCamera() *Triangle {
	return NewTriangle(
		core.NewVec3(-1, -1, 0), core.NewVec3(1, -1, 0), core.NewVec3(0, 1, 0),
		false, 0,
	)
}

func TestTriangle_HitAcceptsTheCCWFaceAndReportsItFacingTheRay(t *testing.T) {
	tri := ccwTriangleFacingCamera()
	require.InDelta(t, 1.0, tri.Normal.Z, 1e-9)

	ray := core.NewRay(core.NewVec3(0, -0.5, 5), core.NewVec3(0, 0, -1))
	hit, ok := tri.Hit(ray, 0, math.MaxFloat64)
	require.True(t, ok)
	assert.InDelta(t, 1.0, hit.Normal.Z, 1e-9, "single-sided hit normal must face back toward the ray origin")
}

func TestTriangle_HitRejectsTheBackFaceWhenOneSided(t *testing.T) {
	tri := ccwTriangleFacingCamera()

	ray := core.NewRay(core.NewVec3(0, -0.5, -5), core.NewVec3(0, 0, 1))
	_, ok := tri.Hit(ray, 0, math.MaxFloat64)
	assert.False(t, ok)
}

func TestTriangle_TwoSidedHitFromEitherSideFacesTheRay(t *testing.T) {
	tri := NewTriangle(core.NewVec3(-1, -1, 0), core.NewVec3(1, -1, 0), core.NewVec3(0, 1, 0), true, 0)

	front := core.NewRay(core.NewVec3(0, -0.5, 5), core.NewVec3(0, 0, -1))
	hit, ok := tri.Hit(front, 0, math.MaxFloat64)
	require.True(t, ok)
	assert.InDelta(t, 1.0, hit.Normal.Z, 1e-9)

	back := core.NewRay(core.NewVec3(0, -0.5, -5), core.NewVec3(0, 0, 1))
	hit, ok = tri.Hit(back, 0, math.MaxFloat64)
	require.True(t, ok)
	assert.InDelta(t, -1.0, hit.Normal.Z, 1e-9)
}

func TestTriangle_AreaAndBoundingBox(t *testing.T) {
	tri := NewTriangle(core.NewVec3(0, 0, 0), core.NewVec3(2, 0, 0), core.NewVec3(0, 2, 0), false, 0)
	assert.InDelta(t, 2.0, tri.Area(), 1e-9)

	box := tri.BoundingBox()
	assert.Equal(t, core.NewVec3(0, 0, 0), box.Min)
	assert.Equal(t, core.NewVec3(2, 2, 0), box.Max)
}

func TestTriangle_DegenerateTriangleHasZeroNormalAndNeverHits(t *testing.T) {
	tri := NewTriangle(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(2, 0, 0), false, 0)
	assert.True(t, tri.Normal.IsZero())

	ray := core.NewRay(core.NewVec3(0.5, 5, 0), core.NewVec3(0, -1, 0))
	_, ok := tri.Hit(ray, 0, math.MaxFloat64)
	assert.False(t, ok)
}
