package main

import (
	"github.com/yoshipbr/yoshigo/pkg/core"
	"github.com/yoshipbr/yoshigo/pkg/material"
	"github.com/yoshipbr/yoshigo/pkg/scene"
)

// buildDemoScene hard-codes a small Cornell-box-like room: a white
// Lambertian floor and back wall, a mirror panel, an emissive ceiling
// light, and a point light. None of this scene-construction logic is part
// of the core's test surface (§1); it exists only so yoshidemo has
// something to render.
func buildDemoScene() scene.SceneDef {
	white := scene.StandardMaterialDef{Diffuse: core.NewVec3(0.73, 0.73, 0.73)}
	red := scene.StandardMaterialDef{Diffuse: core.NewVec3(0.65, 0.05, 0.05)}
	green := scene.StandardMaterialDef{Diffuse: core.NewVec3(0.12, 0.45, 0.15)}
	light := scene.StandardMaterialDef{Emissive: core.NewVec3(15, 15, 15)}
	mirror := scene.MirrorMaterialDef{Tint: core.NewVec3(0.95, 0.95, 0.95)}

	const (
		matWhite = iota
		matRed
		matGreen
		matLight
	)

	def := scene.SceneDef{
		StandardMaterials: []scene.StandardMaterialDef{matWhite: white, matRed: red, matGreen: green, matLight: light},
		MirrorMaterials:   []scene.MirrorMaterialDef{0: mirror},
	}

	quad := func(a, b, c, d core.Vec3, matIdx int32) {
		def.Triangles = append(def.Triangles,
			scene.TriangleDef{V0: a, V1: b, V2: c, MaterialKind: material.MaterialKindStandard, MaterialIndex: matIdx},
			scene.TriangleDef{V0: a, V1: c, V2: d, MaterialKind: material.MaterialKindStandard, MaterialIndex: matIdx},
		)
	}

	const r = 5.0 // room half-width/depth, room spans z in [-10, 0]

	// Floor (y = -r), back wall (z = -2r), ceiling (y = r).
	quad(core.NewVec3(-r, -r, 0), core.NewVec3(r, -r, 0), core.NewVec3(r, -r, -2*r), core.NewVec3(-r, -r, -2*r), matWhite)
	quad(core.NewVec3(-r, -r, -2*r), core.NewVec3(r, -r, -2*r), core.NewVec3(r, r, -2*r), core.NewVec3(-r, r, -2*r), matWhite)
	quad(core.NewVec3(-r, r, -2*r), core.NewVec3(r, r, -2*r), core.NewVec3(r, r, 0), core.NewVec3(-r, r, 0), matWhite)

	// Left wall red, right wall green.
	quad(core.NewVec3(-r, -r, 0), core.NewVec3(-r, -r, -2*r), core.NewVec3(-r, r, -2*r), core.NewVec3(-r, r, 0), matRed)
	quad(core.NewVec3(r, -r, -2*r), core.NewVec3(r, -r, 0), core.NewVec3(r, r, 0), core.NewVec3(r, r, -2*r), matGreen)

	// Ceiling light, inset slightly below the ceiling plane.
	const lr = 1.5
	def.Triangles = append(def.Triangles,
		scene.TriangleDef{
			V0: core.NewVec3(-lr, r-0.01, -r-lr), V1: core.NewVec3(lr, r-0.01, -r-lr), V2: core.NewVec3(lr, r-0.01, -r+lr),
			TwoSided: true, MaterialKind: material.MaterialKindStandard, MaterialIndex: matLight,
		},
		scene.TriangleDef{
			V0: core.NewVec3(-lr, r-0.01, -r-lr), V1: core.NewVec3(lr, r-0.01, -r+lr), V2: core.NewVec3(-lr, r-0.01, -r+lr),
			TwoSided: true, MaterialKind: material.MaterialKindStandard, MaterialIndex: matLight,
		},
	)

	// A mirror panel standing on the floor, angled slightly.
	def.Triangles = append(def.Triangles,
		scene.TriangleDef{
			V0: core.NewVec3(-1.5, -r, -r-1), V1: core.NewVec3(1.5, -r, -r+0.5), V2: core.NewVec3(1.5, -r+3, -r+0.5),
			TwoSided: true, MaterialKind: material.MaterialKindMirror, MaterialIndex: 0,
		},
		scene.TriangleDef{
			V0: core.NewVec3(-1.5, -r, -r-1), V1: core.NewVec3(1.5, -r+3, -r+0.5), V2: core.NewVec3(-1.5, -r+3, -r-1),
			TwoSided: true, MaterialKind: material.MaterialKindMirror, MaterialIndex: 0,
		},
	)

	def.PointLights = []scene.PointLightDef{
		{Position: core.NewVec3(2.5, r-1, -2), Wattage: core.NewVec3(20, 18, 16)},
	}

	return def
}
