// Package material implements the renderer's Material tagged variant
// {Standard, Mirror}, each exposing BRDF evaluation, direction sampling and
// emission queries with directional probability-density bookkeeping that
// carries both per-solid-angle and per-projected-solid-angle measures.
package material

import "github.com/yoshipbr/yoshigo/pkg/core"

// MaterialKind discriminates the Material tagged variant.
type MaterialKind int

const (
	MaterialKindStandard MaterialKind = iota
	MaterialKindMirror
)

// Material is a tagged reference into one of the scene's dense per-kind
// material arrays, mirroring the Shape tagged variant.
type Material struct {
	Kind      MaterialKind
	TypeIndex int32
}

// BSDF is the behavioral interface every concrete material kind
// (StandardMaterial, MirrorMaterial) implements. Directions are in the
// local surface frame: wo and wi both point away from the surface.
type BSDF interface {
	// EvaluateBRDF returns f(wi, wo) for the given local-space directions.
	EvaluateBRDF(wi, wo core.Vec3) core.Vec3

	// EvaluateRadiance returns emitted radiance toward w (local space),
	// zero for non-emissive materials.
	EvaluateRadiance(w core.Vec3) core.Vec3

	// EvaluateIrradiance returns the total emitted irradiance (radiance
	// integrated over the projected hemisphere), zero for non-emissive
	// materials.
	EvaluateIrradiance() core.Vec3

	// IsEmissive reports whether this material emits any radiance.
	IsEmissive() bool

	// GenerateRandomDirection samples an outgoing direction wo given a
	// fixed incoming direction wi (both local space, pointing away from
	// the surface), returning the outgoing direction and its directional
	// PDF. ok is false if sampling failed (e.g. grazing incidence).
	//
	// deltaValue carries the BSDF's contribution for the sampled direction
	// when pdf is a delta (specular) density, i.e. when
	// IsSpecular(pdf) is true: since a delta distribution evaluates to
	// zero almost everywhere, a caller cannot recover the one sampled
	// direction's value through EvaluateBRDF and must use deltaValue
	// directly instead. It is the zero vector for non-specular materials,
	// where EvaluateBRDF(wi, wo) is the correct and only channel.
	GenerateRandomDirection(wi core.Vec3, sampler core.Sampler) (wo core.Vec3, pdf core.DirectionalProbabilityDensity, deltaValue core.Vec3, ok bool)

	// PDF evaluates the directional density of having sampled wo given wi,
	// without drawing a new sample; used for MIS weight computation against
	// an externally-supplied direction (e.g. toward a light).
	PDF(wi, wo core.Vec3) core.DirectionalProbabilityDensity

	// GenerateRandomEmission samples an outgoing emission direction from an
	// emissive surface (local space), used when an emissive shape is hit by
	// a light-transport path that treats it as a source.
	GenerateRandomEmission(sampler core.Sampler) (wo core.Vec3, pdf core.DirectionalProbabilityDensity, ok bool)
}

// IsSpecular reports whether a directional PDF describes a perfectly
// specular (Dirac) event, i.e. one that cannot be hit by area sampling.
func IsSpecular(pdf core.DirectionalProbabilityDensity) bool {
	return !pdf.PerProjectedSolidAngle.Finite
}
