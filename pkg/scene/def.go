package scene

import (
	"github.com/yoshipbr/yoshigo/pkg/core"
	"github.com/yoshipbr/yoshigo/pkg/material"
)

// TriangleDef is one triangle in a SceneDef: three world-space vertices, a
// two-sided flag, and a (kind, index) reference into the def's own
// per-kind material descriptor arrays below.
type TriangleDef struct {
	V0, V1, V2    core.Vec3
	TwoSided      bool
	MaterialKind  material.MaterialKind
	MaterialIndex int32
}

// StandardMaterialDef is the distilled spec's "material-standards"
// descriptor: non-negative diffuse albedo, specular albedo (carried but
// unused in sampling, per §5.3), and emissive radiance.
type StandardMaterialDef struct {
	Diffuse  core.Vec3
	Specular core.Vec3
	Emissive core.Vec3
}

// MirrorMaterialDef parameterizes a perfect-specular material by its tint.
// The distilled spec's scene descriptor only enumerates standard-material
// triples; mirror materials are a SPEC_FULL addition so Scene_Create can
// actually exercise the Mirror tagged variant (see DESIGN.md).
type MirrorMaterialDef struct {
	Tint core.Vec3
}

// PointLightDef is an isotropic point light: a position and total radiant
// power (wattage) in watts per channel.
type PointLightDef struct {
	Position core.Vec3
	Wattage  core.Vec3
}

// SceneDef enumerates everything Scene_Create needs to build an immutable
// Scene: input triangles, the material descriptor arrays they reference,
// and point lights. Triangle ingestion (turning application-level meshes
// into TriangleDefs) is out of core scope per §1; a caller builds this
// struct however it likes and hands it to Scene_Create.
type SceneDef struct {
	Triangles        []TriangleDef
	StandardMaterials []StandardMaterialDef
	MirrorMaterials   []MirrorMaterialDef
	PointLights       []PointLightDef
}
