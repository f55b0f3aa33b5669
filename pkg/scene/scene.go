// Package scene implements the core's owning container (§4 of
// SPEC_FULL.md): it builds an immutable Scene from a SceneDef, constructs
// the scene's single BVH once, and exposes the flat external interface
// (Scene_Create, Scene_Render, the async render family) that an external
// driver uses to feed scenes and consume rendered pixel buffers.
package scene

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/yoshipbr/yoshigo/pkg/bvh"
	"github.com/yoshipbr/yoshigo/pkg/core"
	"github.com/yoshipbr/yoshigo/pkg/geometry"
	"github.com/yoshipbr/yoshigo/pkg/integrator"
	"github.com/yoshipbr/yoshigo/pkg/jobsystem"
	"github.com/yoshipbr/yoshigo/pkg/material"
)

// Scene owns every array a built scene needs: shapes, triangles, materials
// (per-kind, dense), point lights, the emissive-shape index set, and the
// single BVH over the scene's shapes. Everything here is immutable once
// NewScene returns; only the render registry below it mutates.
type Scene struct {
	shapes    []geometry.Shape
	triangles []*geometry.Triangle

	materials []material.Material
	standards []*material.StandardMaterial
	mirrors   []*material.MirrorMaterial

	pointLights      []integrator.PointLight
	emissiveShapeIDs []core.ShapeID

	bvh *bvh.BVH

	jobs *jobsystem.JobSystem
	log  core.Logger

	renders   map[uuid.UUID]*Render
	rendersMu sync.Mutex
}

// NewScene builds an immutable Scene from def. workerCount is forwarded to
// the job system backing this scene's renders (0 = GOMAXPROCS). log
// defaults to a no-op logger when nil.
func NewScene(def SceneDef, workerCount int, log core.Logger) *Scene {
	if log == nil {
		log = core.NewNopLogger()
	}

	standards := make([]*material.StandardMaterial, len(def.StandardMaterials))
	for i, d := range def.StandardMaterials {
		standards[i] = material.NewStandardMaterial(d.Diffuse, d.Specular, d.Emissive)
	}
	mirrors := make([]*material.MirrorMaterial, len(def.MirrorMaterials))
	for i, d := range def.MirrorMaterials {
		mirrors[i] = material.NewMirrorMaterial(d.Tint)
	}

	// The combined materials array is the scene's MaterialID space:
	// standards occupy [0, len(standards)), mirrors follow. TriangleDef
	// references are (kind, index-within-kind) and get remapped below.
	materials := make([]material.Material, 0, len(standards)+len(mirrors))
	standardBase := make([]int32, len(standards))
	for i := range standards {
		standardBase[i] = int32(len(materials))
		materials = append(materials, material.Material{Kind: material.MaterialKindStandard, TypeIndex: int32(i)})
	}
	mirrorBase := make([]int32, len(mirrors))
	for i := range mirrors {
		mirrorBase[i] = int32(len(materials))
		materials = append(materials, material.Material{Kind: material.MaterialKindMirror, TypeIndex: int32(i)})
	}

	resolveMaterial := func(kind material.MaterialKind, index int32) core.MaterialID {
		switch kind {
		case material.MaterialKindStandard:
			if int(index) < 0 || int(index) >= len(standardBase) {
				panic(fmt.Sprintf("scene: standard material index %d out of range", index))
			}
			return core.MaterialID(standardBase[index])
		case material.MaterialKindMirror:
			if int(index) < 0 || int(index) >= len(mirrorBase) {
				panic(fmt.Sprintf("scene: mirror material index %d out of range", index))
			}
			return core.MaterialID(mirrorBase[index])
		default:
			panic(fmt.Sprintf("scene: unknown material kind %d", kind))
		}
	}

	triangles := make([]*geometry.Triangle, len(def.Triangles))
	shapes := make([]geometry.Shape, len(def.Triangles))
	leafBoxes := make([]core.AABB, len(def.Triangles))
	leafShapeIDs := make([]core.ShapeID, len(def.Triangles))
	var emissiveShapeIDs []core.ShapeID

	for i, td := range def.Triangles {
		matID := resolveMaterial(td.MaterialKind, td.MaterialIndex)
		tri := geometry.NewTriangle(td.V0, td.V1, td.V2, td.TwoSided, matID)
		triangles[i] = tri
		shapes[i] = geometry.Shape{Kind: geometry.ShapeKindTriangle, TypeIndex: int32(i), Material: matID}
		leafBoxes[i] = tri.BoundingBox()
		leafShapeIDs[i] = core.ShapeID(i)

		if td.MaterialKind == material.MaterialKindStandard && standards[td.MaterialIndex].IsEmissive() {
			emissiveShapeIDs = append(emissiveShapeIDs, core.ShapeID(i))
		}
	}

	pointLights := make([]integrator.PointLight, len(def.PointLights))
	for i, pl := range def.PointLights {
		pointLights[i] = integrator.PointLight{Position: pl.Position, Wattage: pl.Wattage}
	}

	s := &Scene{
		shapes:           shapes,
		triangles:        triangles,
		materials:        materials,
		standards:        standards,
		mirrors:          mirrors,
		pointLights:      pointLights,
		emissiveShapeIDs: emissiveShapeIDs,
		bvh:              bvh.Build(leafBoxes, leafShapeIDs),
		jobs:             jobsystem.New(workerCount, log),
		log:              log,
		renders:          make(map[uuid.UUID]*Render),
	}
	return s
}

// BVHDepth returns the scene's BVH depth (Scene_GetBVHDepth's backing).
func (s *Scene) BVHDepth() int {
	return s.bvh.Depth
}

func (s *Scene) triangleFor(shapeID core.ShapeID) *geometry.Triangle {
	idx := int(shapeID)
	if idx < 0 || idx >= len(s.shapes) {
		return nil
	}
	shape := s.shapes[idx]
	switch shape.Kind {
	case geometry.ShapeKindTriangle:
		return s.triangles[shape.TypeIndex]
	default:
		return nil
	}
}

// RayCastClosest implements integrator.World.
func (s *Scene) RayCastClosest(ray core.Ray, tMax float64) (integrator.SurfaceHit, bool) {
	var best integrator.SurfaceHit
	found := false

	_, ok := s.bvh.RayCastClosest(ray, tMax, func(shapeID core.ShapeID, curTMax float64) (float64, bool) {
		tri := s.triangleFor(shapeID)
		if tri == nil {
			return 0, false
		}
		h, hit := tri.Hit(ray, 0, curTMax)
		if !hit {
			return 0, false
		}
		best = integrator.SurfaceHit{
			ShapeID:  shapeID,
			Material: s.shapes[shapeID].Material,
			T:        h.T,
			Point:    h.Point,
			Normal:   h.Normal,
			Tangent:  tri.Tangent,
		}
		found = true
		return h.T, true
	})

	return best, ok && found
}

// Occluded implements integrator.World.
func (s *Scene) Occluded(ray core.Ray, tMax float64) bool {
	occluded := false
	s.bvh.RayCast(ray, tMax, func(shapeID core.ShapeID, curTMax float64) (float64, bool, bvh.FlowControl) {
		tri := s.triangleFor(shapeID)
		if tri == nil {
			return 0, false, bvh.FlowContinue
		}
		h, hit := tri.Hit(ray, 0, curTMax)
		if !hit {
			return 0, false, bvh.FlowContinue
		}
		occluded = true
		return h.T, true, bvh.FlowStop
	})
	return occluded
}

// BSDF implements integrator.World.
func (s *Scene) BSDF(id core.MaterialID) material.BSDF {
	idx := int(id)
	if idx < 0 || idx >= len(s.materials) {
		panic(fmt.Sprintf("scene: material id %d out of range", id))
	}
	m := s.materials[idx]
	switch m.Kind {
	case material.MaterialKindStandard:
		return s.standards[m.TypeIndex]
	case material.MaterialKindMirror:
		return s.mirrors[m.TypeIndex]
	default:
		panic(fmt.Sprintf("scene: unknown material kind %d", m.Kind))
	}
}

// PointLights implements integrator.World.
func (s *Scene) PointLights() []integrator.PointLight {
	return s.pointLights
}

// EmissiveShapeIDs implements integrator.World.
func (s *Scene) EmissiveShapeIDs() []core.ShapeID {
	return s.emissiveShapeIDs
}

// SampleVisibleSurfacePoint implements integrator.World.
func (s *Scene) SampleVisibleSurfacePoint(shapeID core.ShapeID, vantage core.Vec3, sampler core.Sampler) (core.Vec3, core.Vec3, float64, bool) {
	tri := s.triangleFor(shapeID)
	if tri == nil {
		return core.Vec3{}, core.Vec3{}, 0, false
	}
	return tri.SampleVisibleSurfacePoint(vantage, sampler)
}

// ShapeAreaDensity implements integrator.World.
func (s *Scene) ShapeAreaDensity(shapeID core.ShapeID) (float64, bool) {
	tri := s.triangleFor(shapeID)
	if tri == nil || tri.Area() < core.ZeroSafe {
		return 0, false
	}
	if tri.TwoSided {
		return 2 / tri.Area(), true
	}
	return 1 / tri.Area(), true
}

// ShapeMaterial implements integrator.World.
func (s *Scene) ShapeMaterial(shapeID core.ShapeID) core.MaterialID {
	idx := int(shapeID)
	if idx < 0 || idx >= len(s.shapes) {
		panic(fmt.Sprintf("scene: shape id %d out of range", shapeID))
	}
	return s.shapes[idx].Material
}

var _ integrator.World = (*Scene)(nil)
